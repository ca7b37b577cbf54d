package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/numbattle/internal/config"
	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/store"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		cfg    config.GameConfig
		window int
		want   string
	}{
		{"empty", config.GameConfig{}, 0, ""},
		{"full", config.GameConfig{Mode: ptr("÷"), Range: ptr(20), Questions: ptr(5), Difficulty: ptr("hard")}, 10, ""},
		{"bad mode", config.GameConfig{Mode: ptr("modulo")}, 0, "--mode"},
		{"bad difficulty", config.GameConfig{Difficulty: ptr("nightmare")}, 0, "--difficulty"},
		{"zero questions", config.GameConfig{Questions: ptr(0)}, 0, "--questions must be > 0"},
		{"zero range", config.GameConfig{Range: ptr(0)}, 0, "--range must be >= 1"},
		{"zero max", config.GameConfig{RangeMax: ptr(0)}, 0, "--max must be >= 1"},
		{"min over max", config.GameConfig{RangeMin: ptr(9), RangeMax: ptr(3)}, 0, "--min must be <= --max"},
		{"negative window", config.GameConfig{}, -1, "--weak-window must be >= 0"},
	}
	for _, tc := range cases {
		err := validateConfig(tc.cfg, tc.window)
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateConfigWrapsSentinel(t *testing.T) {
	err := validateConfig(config.GameConfig{Mode: ptr("pow")}, 0)
	if !errors.Is(err, model.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestToOverrides(t *testing.T) {
	o, err := toOverrides(config.GameConfig{Mode: ptr("x"), Range: ptr(12), Difficulty: ptr("HARD"), Bonus: ptr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Mode == nil || *o.Mode != model.ModeMultiply {
		t.Fatalf("expected multiply, got %v", o.Mode)
	}
	if o.Difficulty == nil || *o.Difficulty != model.DifficultyHard {
		t.Fatalf("expected hard, got %v", o.Difficulty)
	}
	if o.NumberRange == nil || *o.NumberRange != 12 {
		t.Fatalf("expected range 12, got %v", o.NumberRange)
	}
	if o.EnableBonus == nil || !*o.EnableBonus {
		t.Fatalf("expected bonus on")
	}
	if o.RangeMin != nil || o.TargetMotion != nil || o.TotalQuestions != nil {
		t.Fatalf("expected unset fields to stay nil, got %+v", o)
	}
}

func TestResolvePlaySettingsPrecedence(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--mode", "÷", "--questions", "7"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	file := config.GameConfig{Mode: ptr("add"), Difficulty: ptr("hard")}
	s := resolvePlaySettings(cmd, file)
	if s.Mode == nil || *s.Mode != "÷" {
		t.Fatalf("expected flag mode to win, got %v", s.Mode)
	}
	if s.Questions == nil || *s.Questions != 7 {
		t.Fatalf("expected flag questions, got %v", s.Questions)
	}
	if s.Difficulty == nil || *s.Difficulty != "hard" {
		t.Fatalf("expected file difficulty, got %v", s.Difficulty)
	}
	if s.Range != nil || s.Bonus != nil || s.Seed != nil {
		t.Fatalf("expected unset values to stay nil, got %+v", s)
	}
}

func TestApplyConfigKeepsChangedFlag(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--weak-window", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	applyConfig(cmd, "weak-window", &playWeakWindow, ptr(40))
	if playWeakWindow != 3 {
		t.Fatalf("expected flag value 3, got %d", playWeakWindow)
	}
	applyConfig(cmd, "focus-weak", &playFocusWeak, ptr(true))
	if !playFocusWeak {
		t.Fatalf("expected config value to apply")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("expected template keys to decode, got %v", err)
	}
	if cfg.Game.Mode == nil || *cfg.Game.Mode != defaultMode {
		t.Fatalf("unexpected mode %v", cfg.Game.Mode)
	}
	if cfg.Game.WeakWindow == nil || *cfg.Game.WeakWindow != defaultWeakWindow {
		t.Fatalf("unexpected weak window %v", cfg.Game.WeakWindow)
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("-", "2026-01-02", 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != model.ModeSubtract || cfg.Last != 5 || cfg.CurveWindow != 3 || cfg.Since == nil {
		t.Fatalf("unexpected config %+v", cfg)
	}
	for _, bad := range []struct {
		mode, since  string
		last, window int
	}{
		{"pow", "", 0, 1},
		{"", "yesterday", 0, 1},
		{"", "", -1, 1},
		{"", "", 0, 0},
	} {
		if _, err := buildStatsConfig(bad.mode, bad.since, bad.last, bad.window); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}

func historyEntry(mode model.Mode, correct, wrong int, misses ...model.WrongAnswer) model.HistoryEntry {
	return model.HistoryEntry{
		Timestamp: time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC),
		Result: model.SessionResult{
			Config:         model.GameConfig{Mode: mode, RangeMin: 1, RangeMax: 10, TotalQuestions: correct + wrong, Difficulty: model.DifficultyEasy},
			Grade:          "B",
			Score:          correct * 10,
			CorrectCount:   correct,
			WrongCount:     wrong,
			Accuracy:       float64(correct) / float64(correct+wrong) * 100,
			TotalTime:      65,
			WrongQuestions: misses,
		},
	}
}

func TestApplyWeakMode(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	var o model.ConfigOverrides
	applyWeakMode(ctx, kv, &o, 10)
	if o.Mode != nil {
		t.Fatalf("expected no mode without history, got %v", *o.Mode)
	}

	for _, e := range []model.HistoryEntry{historyEntry(model.ModeAdd, 9, 1), historyEntry(model.ModeDivide, 4, 6)} {
		if err := store.AppendHistory(ctx, kv, e, store.HistoryLimit); err != nil {
			t.Fatalf("append history: %v", err)
		}
	}
	applyWeakMode(ctx, kv, &o, 10)
	if o.Mode == nil || *o.Mode != model.ModeDivide {
		t.Fatalf("expected divide, got %v", o.Mode)
	}

	explicit := model.ModeAdd
	o = model.ConfigOverrides{Mode: &explicit}
	applyWeakMode(ctx, kv, &o, 10)
	if *o.Mode != model.ModeAdd {
		t.Fatalf("expected explicit mode to be kept, got %v", *o.Mode)
	}
}

func seedDB(t *testing.T, entries ...model.HistoryEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "numbattle.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, e := range entries {
		if err := store.AppendHistory(context.Background(), st, e, store.HistoryLimit); err != nil {
			t.Fatalf("append history: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, errOut.String())
	}
	return out.String()
}

func TestHistoryCommandEmpty(t *testing.T) {
	path := seedDB(t)
	out := runCLI(t, "history", "--db", path)
	if strings.TrimSpace(out) != "No games found." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHistoryCommandReport(t *testing.T) {
	miss := model.WrongAnswer{Index: 2, Prompt: "8 ÷ 2 = ?", CorrectAnswer: 4, UserAnswer: 6}
	path := seedDB(t, historyEntry(model.ModeAdd, 8, 2), historyEntry(model.ModeDivide, 5, 5, miss))
	out := runCLI(t, "history", "--db", path)
	for _, want := range []string{"Games: 2", "Per-Mode", "Most Missed", "8 ÷ 2 = ?", "÷ divide", "Learning Curves"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out = runCLI(t, "history", "--db", path, "--last", "1")
	if !strings.Contains(out, "Games: 1") {
		t.Fatalf("expected --last to limit games:\n%s", out)
	}
}

func TestProfileCommandUpdatesAndPersists(t *testing.T) {
	path := seedDB(t)
	out := runCLI(t, "profile", "--db", path, "--nickname", "Ada", "--age", "9")
	if !strings.Contains(out, "Nickname: Ada") || !strings.Contains(out, "Age: 9") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	out = runCLI(t, "profile", "--db", path)
	if !strings.Contains(out, "Nickname: Ada") {
		t.Fatalf("expected nickname to persist:\n%s", out)
	}
	if !strings.Contains(out, "Achievements (0/5)") {
		t.Fatalf("expected locked achievements:\n%s", out)
	}
}

func TestProfileCommandRejectsBadAge(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"profile", "--db", seedDB(t), "--age", "0"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for zero age")
	}
}

func TestResetCommandClearsHistory(t *testing.T) {
	path := seedDB(t, historyEntry(model.ModeAdd, 8, 2))
	out := runCLI(t, "reset", "--db", path)
	if !strings.Contains(out, "Progress and history cleared.") {
		t.Fatalf("unexpected output %q", out)
	}

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	entries, err := store.LoadHistory(context.Background(), st)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
	if _, err := st.Get(context.Background(), store.KeyUserProfile); err != nil {
		t.Fatalf("expected profile to survive a plain reset, got %v", err)
	}
}

func TestResetAllRemovesProfile(t *testing.T) {
	path := seedDB(t, historyEntry(model.ModeAdd, 8, 2))
	runCLI(t, "reset", "--db", path, "--all")

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	keys, err := st.Keys(context.Background())
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys after reset --all, got %v", keys)
	}
}
