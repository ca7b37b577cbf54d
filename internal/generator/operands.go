package generator

import (
	"fmt"
	"math/rand"

	"github.com/verte-zerg/numbattle/internal/model"
)

const (
	maxFactor     = 10
	minDivisor    = 2
	minDivisorCap = 5
	maxDivisorCap = 10
)

type operands struct {
	a      int
	b      int
	symbol string
	answer int
}

func (o operands) key() string {
	return fmt.Sprintf("%d-%s-%d", o.a, o.symbol, o.b)
}

// generateOperands draws operands for mode within [lo, hi], lo >= 1.
func generateOperands(rnd *rand.Rand, mode model.Mode, lo, hi int) operands {
	switch mode {
	case model.ModeAdd:
		return addOperands(rnd, lo, hi)
	case model.ModeSubtract:
		return subtractOperands(rnd, lo, hi)
	case model.ModeMultiply:
		return multiplyOperands(rnd, lo, hi)
	case model.ModeDivide:
		return divideOperands(rnd, lo, hi)
	}
	return addOperands(rnd, lo, hi)
}

// Both addends lie in range; the sum may exceed it.
func addOperands(rnd *rand.Rand, lo, hi int) operands {
	a := randInt(rnd, lo, hi)
	b := randInt(rnd, lo, hi)
	return operands{a: a, b: b, symbol: model.ModeAdd.Symbol(), answer: a + b}
}

// The minuend comes from the upper half of the range and the subtrahend is strictly
// smaller, so the difference is at least 1.
func subtractOperands(rnd *rand.Rand, lo, hi int) operands {
	upperLo := lo + (hi-lo+1)/2
	if upperLo <= lo {
		// A single-value range has no smaller subtrahend, so the minuend goes one past hi.
		upperLo = lo + 1
	}
	upperHi := hi
	if upperHi < upperLo {
		upperHi = upperLo
	}
	a := randInt(rnd, upperLo, upperHi)
	b := randInt(rnd, lo, a-1)
	return operands{a: a, b: b, symbol: model.ModeSubtract.Symbol(), answer: a - b}
}

// Factors never exceed maxFactor, whatever the configured range.
func multiplyOperands(rnd *rand.Rand, lo, hi int) operands {
	capHi := hi
	if capHi > maxFactor {
		capHi = maxFactor
	}
	capLo := lo
	if capLo > capHi {
		capLo = capHi
	}
	a := randInt(rnd, capLo, capHi)
	b := randInt(rnd, capLo, capHi)
	return operands{a: a, b: b, symbol: model.ModeMultiply.Symbol(), answer: a * b}
}

// Divisor and quotient are drawn first; the dividend is their product so the
// division is always exact.
func divideOperands(rnd *rand.Rand, lo, hi int) operands {
	divisor := randInt(rnd, minDivisor, divisorCap(hi))
	qHi := hi / divisor
	if qHi < lo {
		qHi = lo
	}
	quotient := randInt(rnd, lo, qHi)
	return operands{a: quotient * divisor, b: divisor, symbol: model.ModeDivide.Symbol(), answer: quotient}
}

// divisorCap scales the largest divisor with the range: 5 for small ranges up to
// 10 for ranges of 40 and above.
func divisorCap(hi int) int {
	c := hi / 4
	if c < minDivisorCap {
		return minDivisorCap
	}
	if c > maxDivisorCap {
		return maxDivisorCap
	}
	return c
}
