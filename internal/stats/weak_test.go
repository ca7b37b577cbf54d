package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/numbattle/internal/model"
)

func TestSelectWeakMode(t *testing.T) {
	now := time.Now()
	if _, ok := SelectWeakMode(nil, 10); ok {
		t.Fatalf("expected no weak mode without history")
	}
	entries := []model.HistoryEntry{
		entry(now, model.ModeDivide, 2, 8, 20),
		entry(now, model.ModeAdd, 9, 1, 90),
		entry(now, model.ModeSubtract, 6, 4, 60),
		entry(now, model.ModeMultiply, 7, 3, 70),
	}
	mode, ok := SelectWeakMode(entries, 0)
	if !ok || mode != model.ModeDivide {
		t.Fatalf("expected divide, got %q", mode)
	}
	mode, ok = SelectWeakMode(entries, 3)
	if !ok || mode != model.ModeSubtract {
		t.Fatalf("expected subtract within the window, got %q", mode)
	}
}

func TestSelectWeakModeTieUsesModeOrder(t *testing.T) {
	now := time.Now()
	entries := []model.HistoryEntry{
		entry(now, model.ModeMultiply, 5, 5, 50),
		entry(now, model.ModeSubtract, 5, 5, 50),
	}
	mode, _ := SelectWeakMode(entries, 0)
	if mode != model.ModeSubtract {
		t.Fatalf("expected subtract on tie, got %q", mode)
	}
}

func TestByMode(t *testing.T) {
	now := time.Now()
	modes := ByMode([]model.HistoryEntry{
		entry(now, model.ModeMultiply, 5, 5, 50),
		entry(now, model.ModeAdd, 10, 0, 100),
		entry(now, model.ModeMultiply, 7, 3, 70),
	})
	if len(modes) != 2 || modes[0].Mode != model.ModeAdd || modes[1].Mode != model.ModeMultiply {
		t.Fatalf("unexpected modes: %+v", modes)
	}
	m := modes[1]
	if m.Games != 2 || m.BestScore != 70 || m.Accuracy() != 60 || m.AvgScore() != 60 {
		t.Fatalf("unexpected multiply stats: %+v", m)
	}
}
