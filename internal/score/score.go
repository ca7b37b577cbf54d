// Package score holds the scoring rules. Every function is pure.
package score

import "github.com/verte-zerg/numbattle/internal/model"

// Base points per correct answer.
const (
	EasyBase = 10
	HardBase = 15
)

// Award breaks down the points earned by one correct answer.
type Award struct {
	Base  int
	Combo int
	Time  int
	Total int
}

// BaseScore returns the points for a correct answer at the given difficulty.
func BaseScore(d model.Difficulty) int {
	if d == model.DifficultyHard {
		return HardBase
	}
	return EasyBase
}

// ComboBonus returns the streak bonus for combo, counted after the current answer.
func ComboBonus(combo int) int {
	switch {
	case combo < 3:
		return 0
	case combo < 5:
		return 5
	case combo < 10:
		return 10
	default:
		return 20
	}
}

// TimeBonus returns the speed bonus for the time left on a question. It is zero
// outside hard mode.
func TimeBonus(timeLeft int, d model.Difficulty) int {
	if d != model.DifficultyHard {
		return 0
	}
	switch {
	case timeLeft >= 7:
		return 10
	case timeLeft >= 5:
		return 5
	default:
		return 0
	}
}

// Correct scores a correct answer. Bonuses apply only when cfg.EnableBonus is set.
func Correct(cfg model.GameConfig, combo, timeLeft int) Award {
	a := Award{Base: BaseScore(cfg.Difficulty)}
	if cfg.EnableBonus {
		a.Combo = ComboBonus(combo)
		a.Time = TimeBonus(timeLeft, cfg.Difficulty)
	}
	a.Total = a.Base + a.Combo + a.Time
	return a
}
