// Package stats contains statistics calculations and reporting over game history.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/score"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of finished games.
type Summary struct {
	Games        int
	AvgAccuracy  float64
	BestScore    int
	AvgScore     float64
	BestCombo    int
	TotalCorrect int
	TotalWrong   int
	TotalTime    int64
	Grades       map[string]int
}

// Summarize aggregates entries.
func Summarize(entries []model.HistoryEntry) Summary {
	s := Summary{Grades: map[string]int{}}
	if len(entries) == 0 {
		return s
	}
	var accSum float64
	var scoreSum int
	for _, e := range entries {
		r := e.Result
		s.Games++
		accSum += r.Accuracy
		scoreSum += r.Score
		s.BestScore = max(s.BestScore, r.Score)
		s.BestCombo = max(s.BestCombo, r.MaxCombo)
		s.TotalCorrect += r.CorrectCount
		s.TotalWrong += r.WrongCount
		s.TotalTime += r.TotalTime
		s.Grades[r.Grade]++
	}
	s.AvgAccuracy = score.RoundPercent(accSum / float64(s.Games))
	s.AvgScore = float64(scoreSum) / float64(s.Games)
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}

// Scores returns the score of each entry in order.
func Scores(entries []model.HistoryEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(e.Result.Score)
	}
	return out
}

// Accuracies returns the accuracy of each entry in order.
func Accuracies(entries []model.HistoryEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Result.Accuracy
	}
	return out
}

// FormatDuration renders seconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// RenderSummary prints a summary block for entries.
func RenderSummary(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s := Summarize(entries)
	grades := make([]string, 0, len(score.Grades))
	for _, g := range score.Grades {
		grades = append(grades, fmt.Sprintf("%s:%d", g, s.Grades[g]))
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg Score: %.1f", s.AvgScore),
		fmt.Sprintf("Best Score: %d", s.BestScore),
		fmt.Sprintf("Best Combo: %d", s.BestCombo),
		fmt.Sprintf("Answers: %d correct, %d wrong", s.TotalCorrect, s.TotalWrong),
		fmt.Sprintf("Time Played: %s", FormatDuration(s.TotalTime)),
		fmt.Sprintf("Grades: %s", strings.Join(grades, " ")),
		fmt.Sprintf("Score Trend: %s", Sparkline(Scores(entries))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for score and accuracy.
func RenderCurves(w io.Writer, entries []model.HistoryEntry, window int) error {
	return RenderCurvesWithSize(w, entries, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, entries []model.HistoryEntry, window, totalWidth, height int, useColor bool) error {
	if len(entries) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Score", Values: MovingAverage(Scores(entries), window)},
		{Name: "Accuracy", Values: MovingAverage(Accuracies(entries), window)},
	}, width, height, useColor)
}

// RenderModeTable prints per-mode aggregates.
func RenderModeTable(w io.Writer, entries []model.HistoryEntry) error {
	modes := ByMode(entries)
	if len(modes) == 0 {
		_, err := fmt.Fprintln(w, "No mode stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Mode"); err != nil {
		return err
	}
	headers := []string{"Mode", "Games", "Accuracy", "Avg Score", "Best"}
	rows := make([][]string, 0, len(modes))
	for _, m := range modes {
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", m.Mode.Symbol(), m.Mode),
			fmt.Sprintf("%d", m.Games),
			fmt.Sprintf("%.1f%%", m.Accuracy()),
			fmt.Sprintf("%.1f", m.AvgScore()),
			fmt.Sprintf("%d", m.BestScore),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderMistakeTable prints the most frequently missed questions.
func RenderMistakeTable(w io.Writer, mistakes []Mistake) error {
	if len(mistakes) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Most Missed"); err != nil {
		return err
	}
	headers := []string{"Question", "Answer", "Misses", "Last Try"}
	rows := make([][]string, 0, len(mistakes))
	for _, m := range mistakes {
		rows = append(rows, []string{
			m.Prompt,
			fmt.Sprintf("%d", m.CorrectAnswer),
			fmt.Sprintf("%d", m.Count),
			fmt.Sprintf("%d", m.LastAnswer),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderHistoryTable prints one line per game, newest first.
func RenderHistoryTable(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	headers := []string{"When", "Mode", "Range", "Level", "Score", "Accuracy", "Grade", "Time"}
	rows := make([][]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		rows = append(rows, HistoryRow(entries[i]))
	}
	return writeTable(w, headers, rows, map[int]bool{4: true, 5: true, 7: true})
}

// HistoryRow formats one history entry as table cells.
func HistoryRow(e model.HistoryEntry) []string {
	r := e.Result
	return []string{
		e.Timestamp.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%s %s", r.Config.Mode.Symbol(), r.Config.Mode),
		fmt.Sprintf("%d-%d", r.Config.RangeMin, r.Config.RangeMax),
		string(r.Config.Difficulty),
		fmt.Sprintf("%d", r.Score),
		fmt.Sprintf("%.1f%%", r.Accuracy),
		r.Grade,
		FormatDuration(r.TotalTime),
	}
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
