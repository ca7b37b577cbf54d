// Package layout turns a question's answer set into positioned, moving targets.
package layout

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/numbattle/internal/model"
)

// Arena dimensions in arena units. The arena is centered on (0, 0).
const (
	ArenaWidth  = 1200.0
	ArenaHeight = 655.0
)

const (
	quadrantMoveRange = 50.0
	radialMoveRange   = 40.0
	circleRadius      = 260.0
)

// Palette holds the high-contrast target colors, assigned by index.
var Palette = []string{"#1E90FF", "#FF1744", "#00E676", "#FFD600", "#FF6D00", "#D500F9", "#00BCD4", "#FF5252"}

// Patterns holds the motion patterns, assigned by index when motion is enabled.
var Patterns = []model.MovePattern{model.MoveHorizontal, model.MoveVertical, model.MoveCircular, model.MoveZigzag}

var quadrantAnchors = []model.Vec{
	{X: -300, Y: -200},
	{X: 300, Y: -200},
	{X: -300, Y: 200},
	{X: 300, Y: 200},
}

var radialAnchors = []model.Vec{
	{X: 0, Y: -250},
	{X: 320, Y: -180},
	{X: 420, Y: 0},
	{X: 320, Y: 180},
	{X: 0, Y: 250},
	{X: -320, Y: 180},
	{X: -420, Y: 0},
	{X: -320, Y: -180},
}

// Engine places targets. Only speeds are randomized; anchors are fixed.
type Engine struct {
	rnd *rand.Rand
}

// New returns an Engine seeded with the current time.
func New() *Engine {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns an Engine drawing speeds from rnd.
func NewWithRand(rnd *rand.Rand) *Engine {
	return &Engine{rnd: rnd}
}

// Layout returns one target per answer, in answer order. A target is correct when its
// value equals correct. Motion patterns cycle through Patterns when moving is set and
// are static otherwise. idPrefix scopes target ids to the question.
func (e *Engine) Layout(idPrefix string, answers []int, correct int, moving bool) []model.Target {
	count := len(answers)
	moveRange := MoveRange(count)
	targets := make([]model.Target, 0, count)
	for i, value := range answers {
		pattern := model.MoveStatic
		if moving {
			pattern = Patterns[i%len(Patterns)]
		}
		targets = append(targets, model.Target{
			ID:          fmt.Sprintf("%s-%d", idPrefix, i),
			Value:       value,
			IsCorrect:   value == correct,
			Position:    Anchor(i, count),
			Speed:       e.randFloat(1, 2),
			Color:       Palette[i%len(Palette)],
			MovePattern: pattern,
			MoveSpeed:   e.randFloat(0.5, 1.5),
			MoveRange:   moveRange,
		})
	}
	return targets
}

// Anchor returns the starting position of target index out of count. Up to four
// targets use quadrant anchors, up to eight use radial anchors, and larger sets are
// spread evenly on a circle.
func Anchor(index, count int) model.Vec {
	switch {
	case count <= len(quadrantAnchors):
		return quadrantAnchors[index%len(quadrantAnchors)]
	case count <= len(radialAnchors):
		return radialAnchors[index%len(radialAnchors)]
	default:
		angle := 2 * math.Pi * float64(index) / float64(count)
		return model.Vec{X: circleRadius * math.Cos(angle), Y: circleRadius * math.Sin(angle)}
	}
}

// MoveRange returns how far targets may drift from their anchors for a set of count.
func MoveRange(count int) float64 {
	if count <= len(quadrantAnchors) {
		return quadrantMoveRange
	}
	return radialMoveRange
}

func (e *Engine) randFloat(lo, hi float64) float64 {
	return lo + e.rnd.Float64()*(hi-lo)
}
