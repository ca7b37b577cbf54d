// Package generator builds arithmetic questions and their distractors.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/numbattle/internal/model"
)

// MaxUniqueAttempts bounds the search for a question not yet asked this session.
const MaxUniqueAttempts = 50

// Generator produces randomized questions for one session at a time.
// It remembers which operand combinations were already produced until Reset.
// A Generator is not safe for concurrent use.
type Generator struct {
	rnd  *rand.Rand
	seen map[string]struct{}
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator drawing every random choice from rnd.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd, seen: map[string]struct{}{}}
}

// Generate returns a question for mode within [rangeMin, rangeMax].
// Combinations already produced since the last Reset are avoided on a best-effort
// basis: after MaxUniqueAttempts collisions the seen set is cleared and the next
// combination is accepted.
func (g *Generator) Generate(mode model.Mode, rangeMin, rangeMax int) model.Question {
	lo, hi := clampRange(rangeMin, rangeMax)

	var ops operands
	found := false
	for i := 0; i < MaxUniqueAttempts; i++ {
		ops = generateOperands(g.rnd, mode, lo, hi)
		if _, ok := g.seen[ops.key()]; !ok {
			found = true
			break
		}
	}
	if !found {
		g.seen = map[string]struct{}{}
		ops = generateOperands(g.rnd, mode, lo, hi)
	}
	g.seen[ops.key()] = struct{}{}

	wrong := Distractors(g.rnd, ops.answer, lo, hi)
	answers := make([]int, 0, len(wrong)+1)
	answers = append(answers, ops.answer)
	answers = append(answers, wrong...)
	g.rnd.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })

	return model.Question{
		ID:            g.newID(),
		Mode:          mode,
		Operand1:      ops.a,
		Operand2:      ops.b,
		Operator:      ops.symbol,
		CorrectAnswer: ops.answer,
		Prompt:        fmt.Sprintf("%d %s %d = ?", ops.a, ops.symbol, ops.b),
		WrongAnswers:  wrong,
		Answers:       answers,
	}
}

// Reset forgets the combinations produced so far. Call it at every session boundary.
func (g *Generator) Reset() {
	g.seen = map[string]struct{}{}
}

// SeenCount reports how many combinations are remembered.
func (g *Generator) SeenCount() int {
	return len(g.seen)
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func clampRange(rangeMin, rangeMax int) (int, int) {
	lo := rangeMin
	if lo < 1 {
		lo = 1
	}
	hi := rangeMax
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rnd *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}
