package layout

import (
	"math"

	"github.com/verte-zerg/numbattle/internal/model"
)

// Offset returns the displacement of t from its anchor after elapsed seconds.
// The displacement never exceeds the target's MoveRange on either axis.
func Offset(t model.Target, elapsed float64) model.Vec {
	phase := elapsed * t.MoveSpeed * t.Speed
	r := t.MoveRange
	switch t.MovePattern {
	case model.MoveHorizontal:
		return model.Vec{X: r * math.Sin(phase)}
	case model.MoveVertical:
		return model.Vec{Y: r * math.Sin(phase)}
	case model.MoveCircular:
		return model.Vec{X: r * math.Cos(phase), Y: r * math.Sin(phase)}
	case model.MoveZigzag:
		return model.Vec{X: r * triangle(phase), Y: r / 2 * math.Copysign(1, math.Sin(2*phase))}
	case model.MoveStatic:
		return model.Vec{}
	}
	return model.Vec{}
}

// Position returns the absolute arena position of t after elapsed seconds.
func Position(t model.Target, elapsed float64) model.Vec {
	off := Offset(t, elapsed)
	return model.Vec{X: t.Position.X + off.X, Y: t.Position.Y + off.Y}
}

// triangle is a triangle wave in [-1, 1] with period 2π.
func triangle(phase float64) float64 {
	p := math.Mod(phase, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	x := p / (2 * math.Pi)
	switch {
	case x < 0.25:
		return 4 * x
	case x < 0.75:
		return 2 - 4*x
	default:
		return 4*x - 4
	}
}
