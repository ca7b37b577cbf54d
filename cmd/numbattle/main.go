// Package main provides the CLI entrypoint for numbattle.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/verte-zerg/numbattle/internal/config"
	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/profile"
	"github.com/verte-zerg/numbattle/internal/session"
	"github.com/verte-zerg/numbattle/internal/stats"
	"github.com/verte-zerg/numbattle/internal/statsui"
	"github.com/verte-zerg/numbattle/internal/store"
	"github.com/verte-zerg/numbattle/internal/tui"
)

const (
	defaultMode        = "add"
	defaultRange       = 10
	defaultQuestions   = 10
	defaultDifficulty  = "easy"
	defaultWeakWindow  = 20
	defaultCurveWindow = 5
)

var (
	dbPath string

	playMode       string
	playRange      int
	playMin        int
	playMax        int
	playQuestions  int
	playDifficulty string
	playBonus      bool
	playMoving     bool
	playSeed       int64
	playFocusWeak  bool
	playWeakWindow int
	playGuest      bool

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	historyLast int

	profileNickname string
	profileAge      int
	profileAvatar   string

	resetAll bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "numbattle",
		Short:         "Arithmetic target practice in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/numbattle/numbattle.db)")

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "calculation mode: add, subtract, multiply, divide")
	rootCmd.Flags().IntVar(&playRange, "range", defaultRange, "number range 1..N")
	rootCmd.Flags().IntVar(&playMin, "min", 1, "smallest operand")
	rootCmd.Flags().IntVar(&playMax, "max", defaultRange, "largest operand")
	rootCmd.Flags().IntVar(&playQuestions, "questions", defaultQuestions, "questions per game")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty: easy or hard (hard adds a countdown)")
	rootCmd.Flags().BoolVar(&playBonus, "bonus", false, "award combo and speed bonuses")
	rootCmd.Flags().BoolVar(&playMoving, "moving", false, "move targets around the arena")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for a reproducible game")
	rootCmd.Flags().BoolVar(&playFocusWeak, "focus-weak", false, "practice the mode with the lowest recent accuracy")
	rootCmd.Flags().IntVar(&playWeakWindow, "weak-window", defaultWeakWindow, "number of recent games to find the weak mode")
	rootCmd.Flags().BoolVar(&playGuest, "guest", false, "play without saving anything")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings := resolvePlaySettings(cmd, fileCfg.Game)
	applyConfig(cmd, "focus-weak", &playFocusWeak, fileCfg.Game.FocusWeak)
	applyConfig(cmd, "weak-window", &playWeakWindow, fileCfg.Game.WeakWindow)

	if err := validateConfig(settings, playWeakWindow); err != nil {
		return err
	}
	overrides, err := toOverrides(settings)
	if err != nil {
		return err
	}

	ctx := context.Background()
	kv, closeStore, err := openStore(playGuest)
	if err != nil {
		return err
	}
	defer closeStore()

	if playFocusWeak {
		applyWeakMode(ctx, kv, &overrides, playWeakWindow)
	}

	seed := time.Now().UnixNano()
	if settings.Seed != nil {
		seed = *settings.Seed
	}

	logOut, closeLog := openLog()
	defer closeLog()

	tracker := profile.Load(ctx, kv, profile.Options{ErrOut: logOut})
	engine := session.New(ctx, session.Options{
		Rand:     rand.New(rand.NewSource(seed)),
		Store:    kv,
		Recorder: tracker,
		ErrOut:   logOut,
	})
	game := tui.NewModel(engine, overrides)
	program := tea.NewProgram(game, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePlaySettings merges flags over the [game] table. Fields that stay nil were
// set in neither place, so the last-used config applies to them.
func resolvePlaySettings(cmd *cobra.Command, file config.GameConfig) config.GameConfig {
	return config.GameConfig{
		Mode:       pick(cmd, "mode", &playMode, file.Mode),
		Range:      pick(cmd, "range", &playRange, file.Range),
		RangeMin:   pick(cmd, "min", &playMin, file.RangeMin),
		RangeMax:   pick(cmd, "max", &playMax, file.RangeMax),
		Questions:  pick(cmd, "questions", &playQuestions, file.Questions),
		Difficulty: pick(cmd, "difficulty", &playDifficulty, file.Difficulty),
		Bonus:      pick(cmd, "bonus", &playBonus, file.Bonus),
		Moving:     pick(cmd, "moving", &playMoving, file.Moving),
		Seed:       pick(cmd, "seed", &playSeed, file.Seed),
	}
}

func pick[T any](cmd *cobra.Command, name string, flag, value *T) *T {
	if cmd.Flags().Changed(name) {
		v := *flag
		return &v
	}
	return value
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(s config.GameConfig, weakWindow int) error {
	if s.Mode != nil {
		if _, err := model.ParseMode(*s.Mode); err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
	}
	if s.Difficulty != nil {
		if _, err := model.ParseDifficulty(*s.Difficulty); err != nil {
			return fmt.Errorf("--difficulty: %w", err)
		}
	}
	if s.Questions != nil && *s.Questions <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}
	if s.Range != nil && *s.Range < 1 {
		return fmt.Errorf("--range must be >= 1")
	}
	if s.RangeMax != nil && *s.RangeMax < 1 {
		return fmt.Errorf("--max must be >= 1")
	}
	if s.RangeMin != nil && s.RangeMax != nil && *s.RangeMin > *s.RangeMax {
		return fmt.Errorf("--min must be <= --max")
	}
	if weakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func toOverrides(s config.GameConfig) (model.ConfigOverrides, error) {
	o := model.ConfigOverrides{
		NumberRange:    s.Range,
		RangeMin:       s.RangeMin,
		RangeMax:       s.RangeMax,
		TotalQuestions: s.Questions,
		EnableBonus:    s.Bonus,
		TargetMotion:   s.Moving,
	}
	if s.Mode != nil {
		mode, err := model.ParseMode(*s.Mode)
		if err != nil {
			return o, err
		}
		o.Mode = &mode
	}
	if s.Difficulty != nil {
		difficulty, err := model.ParseDifficulty(*s.Difficulty)
		if err != nil {
			return o, err
		}
		o.Difficulty = &difficulty
	}
	return o, nil
}

// applyWeakMode points o at the weakest recent mode unless a mode was chosen explicitly.
func applyWeakMode(ctx context.Context, kv store.KV, o *model.ConfigOverrides, window int) {
	if o.Mode != nil {
		return
	}
	entries, err := store.LoadHistory(ctx, kv)
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		return
	}
	mode, ok := stats.SelectWeakMode(entries, window)
	if !ok {
		logErrln("no history available for weak-mode focus yet; using the last mode")
		return
	}
	o.Mode = &mode
}

func openStore(guest bool) (store.KV, func(), error) {
	if guest {
		return store.NewMemory(), func() {}, nil
	}
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

// openLog returns the writer diagnostics go to while the alt screen is up.
func openLog() (io.Writer, func()) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logErrf("failed to create log directory: %v\n", err)
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logErrf("failed to open log: %v\n", err)
		return io.Discard, func() {}
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse game history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsMode, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}
	kv, closeStore, err := openStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	browser := statsui.NewModel(kv, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(mode, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: window}
	if mode != "" {
		parsed, err := model.ParseMode(mode)
		if err != nil {
			return cfg, fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = parsed
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a plain-text history report",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig("", "", historyLast, defaultCurveWindow)
	if err != nil {
		return err
	}
	kv, closeStore, err := openStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := stats.BuildReport(cmd.Context(), kv, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return writeHistory(cmd.OutOrStdout(), report, cfg.CurveWindow)
}

func writeHistory(w io.Writer, report stats.Report, window int) error {
	if err := stats.RenderSummary(w, report.Entries); err != nil {
		return err
	}
	if len(report.Entries) == 0 {
		return nil
	}
	steps := []func() error{
		func() error { return stats.RenderModeTable(w, report.Entries) },
		func() error { return stats.RenderMistakeTable(w, report.Mistakes) },
		func() error { return stats.RenderHistoryTable(w, report.Entries) },
		func() error { return stats.RenderCurves(w, report.Window, window) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the player profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileNickname, "nickname", "", "set the nickname")
	cmd.Flags().IntVar(&profileAge, "age", 0, "set the age")
	cmd.Flags().StringVar(&profileAvatar, "avatar", "", "set the avatar")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	var update profile.Update
	changed := false
	if cmd.Flags().Changed("nickname") {
		nickname := strings.TrimSpace(profileNickname)
		if nickname == "" {
			return fmt.Errorf("--nickname must not be empty")
		}
		update.Nickname = &nickname
		changed = true
	}
	if cmd.Flags().Changed("age") {
		if profileAge <= 0 {
			return fmt.Errorf("--age must be > 0")
		}
		update.Age = &profileAge
		changed = true
	}
	if cmd.Flags().Changed("avatar") {
		avatar := strings.TrimSpace(profileAvatar)
		if avatar == "" {
			return fmt.Errorf("--avatar must not be empty")
		}
		update.Avatar = &avatar
		changed = true
	}

	kv, closeStore, err := openStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	tracker := profile.Load(ctx, kv, profile.Options{ErrOut: cmd.ErrOrStderr()})
	if changed {
		if err := tracker.UpdateProfile(ctx, update); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}
	return writeProfile(cmd.OutOrStdout(), tracker)
}

func writeProfile(w io.Writer, t *profile.Tracker) error {
	p := t.Profile()
	prog := t.Progress()
	achievements := t.Achievements()
	lines := []string{
		fmt.Sprintf("Nickname: %s", p.Nickname),
		fmt.Sprintf("Avatar: %s", p.Avatar),
		fmt.Sprintf("Age: %d", p.Age),
		fmt.Sprintf("Level: %d", p.Level),
		"",
		fmt.Sprintf("Games: %d", prog.TotalGames),
		fmt.Sprintf("Best Score: %d", prog.BestScore),
		fmt.Sprintf("Average Accuracy: %.1f%%", prog.AverageAccuracy),
		fmt.Sprintf("Answers: %d correct, %d wrong", prog.TotalCorrect, prog.TotalWrong),
		fmt.Sprintf("Time Played: %s", stats.FormatDuration(prog.TotalTime)),
		"",
		fmt.Sprintf("Achievements (%d/%d)", t.UnlockedCount(), len(achievements)),
	}
	for _, a := range achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s - %s", mark, a.Icon, a.Name, a.Description))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear progress, achievements and history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetAll, "all", false, "also remove the profile and saved settings")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	kv, closeStore, err := openStore(false)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	tracker := profile.Load(ctx, kv, profile.Options{ErrOut: cmd.ErrOrStderr()})
	msg := "Progress and history cleared."
	if resetAll {
		err = multierr.Combine(
			tracker.ResetAll(ctx),
			store.ClearHistory(ctx, kv),
			kv.Delete(ctx, store.KeyGameConfig),
		)
		msg = "All saved data removed."
	} else {
		err = multierr.Append(tracker.ResetProgress(ctx), store.ClearHistory(ctx, kv))
	}
	if err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# numbattle configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = %q            # add, subtract, multiply or divide
# range = %d             # Number range 1..N
# range-min = 1           # Smallest operand (wins over range)
# range-max = %d         # Largest operand (wins over range)
# questions = %d         # Questions per game
# difficulty = %q     # easy or hard (hard adds a countdown)
# bonus = false           # Award combo and speed bonuses
# moving = false          # Move targets around the arena
# seed = 42               # Fixed random seed
# focus-weak = false      # Practice the mode with the lowest recent accuracy
# weak-window = %d       # Number of recent games to find the weak mode
`,
		defaultMode,
		defaultRange,
		defaultRange,
		defaultQuestions,
		defaultDifficulty,
		defaultWeakWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
