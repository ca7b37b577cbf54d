package score

import "github.com/shopspring/decimal"

// Grade returns the letter grade for an accuracy percentage.
func Grade(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "S"
	case accuracy >= 80:
		return "A"
	case accuracy >= 70:
		return "B"
	case accuracy >= 60:
		return "C"
	default:
		return "D"
	}
}

// Grades lists letter grades from best to worst.
var Grades = []string{"S", "A", "B", "C", "D"}

// Accuracy returns part/total as a percentage. A zero total yields 0.
func Accuracy(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// RoundPercent rounds a percentage half away from zero to one decimal place.
func RoundPercent(p float64) float64 {
	f, _ := decimal.NewFromFloat(p).Round(1).Float64()
	return f
}

// Average returns sum/count rounded down, or 0 when count is not positive.
func Average(sum, count int) int {
	if count <= 0 {
		return 0
	}
	return sum / count
}
