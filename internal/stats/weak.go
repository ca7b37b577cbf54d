package stats

import (
	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/score"
)

// ModeStats aggregates games played in one calculation mode.
type ModeStats struct {
	Mode      model.Mode
	Games     int
	Correct   int
	Wrong     int
	ScoreSum  int
	BestScore int
}

// Accuracy returns the share of answered questions that were correct.
func (m ModeStats) Accuracy() float64 {
	return score.RoundPercent(score.Accuracy(m.Correct, m.Correct+m.Wrong))
}

// AvgScore returns the mean score per game.
func (m ModeStats) AvgScore() float64 {
	if m.Games == 0 {
		return 0
	}
	return float64(m.ScoreSum) / float64(m.Games)
}

// ByMode aggregates entries per mode, in model.Modes order, skipping unplayed modes.
func ByMode(entries []model.HistoryEntry) []ModeStats {
	agg := map[model.Mode]*ModeStats{}
	for _, e := range entries {
		r := e.Result
		m, ok := agg[r.Config.Mode]
		if !ok {
			m = &ModeStats{Mode: r.Config.Mode}
			agg[r.Config.Mode] = m
		}
		m.Games++
		m.Correct += r.CorrectCount
		m.Wrong += r.WrongCount
		m.ScoreSum += r.Score
		m.BestScore = max(m.BestScore, r.Score)
	}
	out := make([]ModeStats, 0, len(agg))
	for _, mode := range model.Modes {
		if m, ok := agg[mode]; ok {
			out = append(out, *m)
		}
	}
	return out
}

// SelectWeakMode returns the lowest-accuracy mode over the last window entries.
// Ties go to the earlier mode in model.Modes. It reports false when there is no history.
func SelectWeakMode(entries []model.HistoryEntry, window int) (model.Mode, bool) {
	if window > 0 && len(entries) > window {
		entries = entries[len(entries)-window:]
	}
	modes := ByMode(entries)
	if len(modes) == 0 {
		return "", false
	}
	weakest := modes[0]
	for _, m := range modes[1:] {
		if m.Accuracy() < weakest.Accuracy() {
			weakest = m
		}
	}
	return weakest.Mode, true
}
