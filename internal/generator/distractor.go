package generator

import "math/rand"

const (
	// DistractorCount is the number of wrong answers offered per question.
	DistractorCount = 3
	// MaxDistractorAttempts bounds the randomized search before the fallback sequence.
	MaxDistractorAttempts = 100
)

const (
	tacticBelow = iota
	tacticAbove
	tacticUniform
	tacticCount
)

// Distractors returns DistractorCount distinct non-negative wrong answers for
// correct. Candidates come from offsets around correct (scaled to about rangeMax/5)
// or uniformly from [rangeMin, rangeMax]. When MaxDistractorAttempts random draws do
// not suffice, the remainder is filled with correct±1, correct±2, ... skipping used
// and negative values.
func Distractors(rnd *rand.Rand, correct, rangeMin, rangeMax int) []int {
	used := map[int]struct{}{correct: {}}
	out := make([]int, 0, DistractorCount)
	accept := func(v int) {
		if v < 0 {
			return
		}
		if _, ok := used[v]; ok {
			return
		}
		used[v] = struct{}{}
		out = append(out, v)
	}

	offset := rangeMax / 5
	if offset < 1 {
		offset = 1
	}
	lo := rangeMin
	if lo < 0 {
		lo = 0
	}
	hi := rangeMax
	if hi < lo {
		hi = lo
	}

	for attempt := 0; attempt < MaxDistractorAttempts && len(out) < DistractorCount; attempt++ {
		switch rnd.Intn(tacticCount) {
		case tacticBelow:
			accept(correct - randInt(rnd, 1, offset))
		case tacticAbove:
			accept(correct + randInt(rnd, 1, offset))
		default:
			accept(randInt(rnd, lo, hi))
		}
	}

	for n := 1; len(out) < DistractorCount; n++ {
		accept(correct + n)
		if len(out) < DistractorCount {
			accept(correct - n)
		}
	}
	return out
}
