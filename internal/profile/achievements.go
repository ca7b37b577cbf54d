package profile

import "github.com/verte-zerg/numbattle/internal/model"

// Achievement ids.
const (
	FirstGame    = "first_game"
	Perfect10    = "perfect_10"
	SpeedMaster  = "speed_master"
	Persistent   = "persistent"
	AccuracyKing = "accuracy_king"
)

const (
	persistentGames   = 50
	accuracyKingLevel = 95.0
	perfectCombo      = 10
)

// DefaultAchievements returns the full achievement list, all locked.
func DefaultAchievements() []model.Achievement {
	return []model.Achievement{
		{ID: FirstGame, Name: "First Try", Description: "Finish your first game", Icon: "🎮"},
		{ID: Perfect10, Name: "Perfect Ten", Description: "Answer 10 questions in a row correctly", Icon: "💯"},
		{ID: SpeedMaster, Name: "Speed Master", Description: "Get an S grade in hard mode", Icon: "⚡"},
		{ID: Persistent, Name: "Persistent", Description: "Finish 50 games", Icon: "🏆"},
		{ID: AccuracyKing, Name: "Accuracy King", Description: "Reach 95% overall accuracy", Icon: "👑"},
	}
}

// earned lists the achievement ids whose conditions hold after result.
func earned(p model.LearningProgress, result model.SessionResult) []string {
	var ids []string
	if p.TotalGames >= 1 {
		ids = append(ids, FirstGame)
	}
	if result.MaxCombo >= perfectCombo {
		ids = append(ids, Perfect10)
	}
	if result.Grade == "S" && result.Config.Difficulty == model.DifficultyHard {
		ids = append(ids, SpeedMaster)
	}
	if p.TotalGames >= persistentGames {
		ids = append(ids, Persistent)
	}
	if p.AverageAccuracy >= accuracyKingLevel {
		ids = append(ids, AccuracyKing)
	}
	return ids
}

// mergeAchievements keeps the unlock state of saved achievements and adds any
// achievement missing from the saved list. Unknown saved ids are dropped.
func mergeAchievements(saved []model.Achievement) []model.Achievement {
	byID := make(map[string]model.Achievement, len(saved))
	for _, a := range saved {
		byID[a.ID] = a
	}
	merged := DefaultAchievements()
	for i, def := range merged {
		if s, ok := byID[def.ID]; ok && s.Unlocked {
			merged[i].Unlocked = true
			merged[i].UnlockedAt = s.UnlockedAt
		}
	}
	return merged
}
