package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/numbattle/internal/model"
)

func TestComboBonusSteps(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 0, 3: 5, 4: 5, 5: 10, 9: 10, 10: 20, 40: 20}
	for combo, want := range cases {
		assert.Equal(t, want, ComboBonus(combo), "combo %d", combo)
	}
	prev := 0
	for combo := 0; combo <= 30; combo++ {
		got := ComboBonus(combo)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestTimeBonus(t *testing.T) {
	assert.Equal(t, 10, TimeBonus(10, model.DifficultyHard))
	assert.Equal(t, 10, TimeBonus(7, model.DifficultyHard))
	assert.Equal(t, 5, TimeBonus(6, model.DifficultyHard))
	assert.Equal(t, 5, TimeBonus(5, model.DifficultyHard))
	assert.Equal(t, 0, TimeBonus(4, model.DifficultyHard))
	assert.Equal(t, 0, TimeBonus(10, model.DifficultyEasy))
}

func TestBaseScore(t *testing.T) {
	assert.Equal(t, 10, BaseScore(model.DifficultyEasy))
	assert.Equal(t, 15, BaseScore(model.DifficultyHard))
}

func TestCorrect(t *testing.T) {
	cfg := model.DefaultGameConfig()
	assert.Equal(t, Award{Base: 10, Total: 10}, Correct(cfg, 5, 0))

	cfg.EnableBonus = true
	assert.Equal(t, Award{Base: 10, Combo: 10, Total: 20}, Correct(cfg, 5, 9))

	cfg.Difficulty = model.DifficultyHard
	assert.Equal(t, Award{Base: 15, Combo: 20, Time: 10, Total: 45}, Correct(cfg, 10, 8))
	assert.Equal(t, Award{Base: 15, Time: 5, Total: 20}, Correct(cfg, 1, 5))
}

func TestGradeSteps(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     string
	}{
		{0, "D"},
		{59, "D"},
		{59.99, "D"},
		{60, "C"},
		{70, "B"},
		{80, "A"},
		{89.9, "A"},
		{90, "S"},
		{100, "S"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Grade(tc.accuracy), "accuracy %v", tc.accuracy)
	}
}

func TestAccuracyAndRounding(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(3, 0))
	assert.Equal(t, 100.0, Accuracy(5, 5))
	assert.Equal(t, 66.7, RoundPercent(Accuracy(2, 3)))
	assert.Equal(t, 33.3, RoundPercent(Accuracy(1, 3)))
	assert.Equal(t, 12.5, RoundPercent(12.45))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0, Average(50, 0))
	assert.Equal(t, 10, Average(50, 5))
	assert.Equal(t, 3, Average(10, 3))
}
