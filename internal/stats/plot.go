package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// Eighth-block glyphs, empty through full.
var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// PlotSeries renders one bar panel per series, each scaled from zero to its own maximum.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders bar panels with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, s := range series {
		color := ""
		if useColor {
			color = colorPalette[i%len(colorPalette)]
		}
		if err := plotPanel(w, s, width, height, color); err != nil {
			return err
		}
	}
	return nil
}

func plotPanel(w io.Writer, s Series, width, height int, color string) error {
	values := bucketSeries(s.Values, width)
	lo, hi := seriesMinMax(s.Values)
	top := math.Max(hi, 1e-9)
	last := s.Values[len(s.Values)-1]
	header := fmt.Sprintf("%s  min=%.1f max=%.1f last=%.1f", s.Name, lo, hi, last)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for y := height - 1; y >= 0; y-- {
		label := ""
		switch y {
		case height - 1:
			label = fmt.Sprintf("%.0f", hi)
		case 0:
			label = "0"
		}
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(label, axisLabelWidth))
		row.WriteString(axisSeparator)
		row.WriteString(color)
		for _, v := range values {
			row.WriteRune(barCell(v, top, height, y))
		}
		if color != "" {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// barCell returns the glyph for row y of a bar of value v in a panel of height rows.
func barCell(v, top float64, height, y int) rune {
	eighths := int(math.Round(math.Max(v, 0) / top * float64(height*8)))
	fill := eighths - y*8
	return barGlyphs[max(0, min(fill, 8))]
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// bucketSeries averages values into at most width buckets. Shorter series are
// returned as is, one bar per value.
func bucketSeries(values []float64, width int) []float64 {
	if len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
