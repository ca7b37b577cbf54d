package session

import (
	"slices"

	"github.com/verte-zerg/numbattle/internal/model"
)

// MergeConfig applies overrides on top of cfg and normalizes the result.
// NumberRange N becomes the range 1..N and QuestionCount is an alias for
// TotalQuestions; explicit RangeMin, RangeMax and TotalQuestions win over the aliases.
func MergeConfig(cfg model.GameConfig, o model.ConfigOverrides) model.GameConfig {
	if o.Mode != nil {
		cfg.Mode = *o.Mode
	}
	if o.NumberRange != nil {
		cfg.RangeMin = 1
		cfg.RangeMax = *o.NumberRange
	}
	if o.RangeMin != nil {
		cfg.RangeMin = *o.RangeMin
	}
	if o.RangeMax != nil {
		cfg.RangeMax = *o.RangeMax
	}
	if o.QuestionCount != nil {
		cfg.TotalQuestions = *o.QuestionCount
	}
	if o.TotalQuestions != nil {
		cfg.TotalQuestions = *o.TotalQuestions
	}
	if o.Difficulty != nil {
		cfg.Difficulty = *o.Difficulty
	}
	if o.EnableBonus != nil {
		cfg.EnableBonus = *o.EnableBonus
	}
	if o.TargetMotion != nil {
		cfg.TargetMotion = *o.TargetMotion
	}
	return normalize(cfg)
}

func normalize(cfg model.GameConfig) model.GameConfig {
	def := model.DefaultGameConfig()
	if !slices.Contains(model.Modes, cfg.Mode) {
		cfg.Mode = def.Mode
	}
	if cfg.Difficulty != model.DifficultyEasy && cfg.Difficulty != model.DifficultyHard {
		cfg.Difficulty = def.Difficulty
	}
	if cfg.RangeMin < 1 {
		cfg.RangeMin = 1
	}
	if cfg.RangeMax < cfg.RangeMin {
		cfg.RangeMax = cfg.RangeMin
	}
	if cfg.TotalQuestions < 1 {
		cfg.TotalQuestions = def.TotalQuestions
	}
	return cfg
}

// questionTime returns the per-question countdown for cfg; zero disables it.
func questionTime(cfg model.GameConfig) int {
	if cfg.Difficulty == model.DifficultyHard {
		return QuestionTime
	}
	return 0
}
