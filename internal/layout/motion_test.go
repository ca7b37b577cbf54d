package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/numbattle/internal/model"
)

func TestOffsetStaticIsZero(t *testing.T) {
	tg := model.Target{MovePattern: model.MoveStatic, MoveRange: 50, Speed: 1, MoveSpeed: 1}
	for _, sec := range []float64{0, 0.5, 3, 10} {
		assert.Equal(t, model.Vec{}, Offset(tg, sec))
	}
}

func TestOffsetStaysWithinRange(t *testing.T) {
	for _, p := range Patterns {
		tg := model.Target{MovePattern: p, MoveRange: 40, Speed: 1.7, MoveSpeed: 1.2}
		for i := 0; i < 500; i++ {
			off := Offset(tg, float64(i)*0.07)
			assert.LessOrEqual(t, math.Abs(off.X), 40.0+1e-9, "pattern %s", p)
			assert.LessOrEqual(t, math.Abs(off.Y), 40.0+1e-9, "pattern %s", p)
		}
	}
}

func TestOffsetAxisPatterns(t *testing.T) {
	h := model.Target{MovePattern: model.MoveHorizontal, MoveRange: 10, Speed: 1, MoveSpeed: 1}
	v := model.Target{MovePattern: model.MoveVertical, MoveRange: 10, Speed: 1, MoveSpeed: 1}
	quarter := math.Pi / 2
	assert.InDelta(t, 10, Offset(h, quarter).X, 1e-9)
	assert.Zero(t, Offset(h, quarter).Y)
	assert.InDelta(t, 10, Offset(v, quarter).Y, 1e-9)
	assert.Zero(t, Offset(v, quarter).X)
}

func TestPositionAddsAnchor(t *testing.T) {
	tg := model.Target{Position: model.Vec{X: 100, Y: -50}, MovePattern: model.MoveCircular, MoveRange: 10, Speed: 1, MoveSpeed: 1}
	pos := Position(tg, 0)
	assert.InDelta(t, 110, pos.X, 1e-9)
	assert.InDelta(t, -50, pos.Y, 1e-9)
}

func TestTriangle(t *testing.T) {
	assert.InDelta(t, 0, triangle(0), 1e-9)
	assert.InDelta(t, 1, triangle(math.Pi/2), 1e-9)
	assert.InDelta(t, 0, triangle(math.Pi), 1e-9)
	assert.InDelta(t, -1, triangle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, 1, triangle(-3*math.Pi/2), 1e-9)
}
