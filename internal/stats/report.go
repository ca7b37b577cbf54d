package stats

import (
	"context"

	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/store"
)

// TopMistakeCount is how many missed prompts a report keeps.
const TopMistakeCount = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Entries  []model.HistoryEntry
	Window   []model.HistoryEntry
	Summary  Summary
	Modes    []ModeStats
	Mistakes []Mistake
}

// BuildReport loads history and prepares it for rendering.
func BuildReport(ctx context.Context, kv store.KV, cfg model.StatsConfig) (Report, error) {
	entries, err := store.LoadHistory(ctx, kv)
	if err != nil {
		return Report{}, err
	}
	entries = Filter(entries, cfg)
	window := lastEntries(entries, cfg.CurveWindow)
	return Report{
		Entries:  entries,
		Window:   window,
		Summary:  Summarize(entries),
		Modes:    ByMode(entries),
		Mistakes: TopMistakes(window, TopMistakeCount),
	}, nil
}

// Filter applies the mode, since and last filters of cfg. Order is preserved.
func Filter(entries []model.HistoryEntry, cfg model.StatsConfig) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if cfg.Mode != "" && e.Result.Config.Mode != cfg.Mode {
			continue
		}
		if cfg.Since != nil && e.Timestamp.Before(*cfg.Since) {
			continue
		}
		out = append(out, e)
	}
	return lastEntries(out, cfg.Last)
}

func lastEntries(entries []model.HistoryEntry, n int) []model.HistoryEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
