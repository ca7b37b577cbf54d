// Package tui provides the Bubble Tea game screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/score"
	"github.com/verte-zerg/numbattle/internal/session"
	"github.com/verte-zerg/numbattle/internal/stats"
)

const (
	frameInterval    = 100 * time.Millisecond
	countdownTick    = time.Second
	feedbackDuration = 600 * time.Millisecond
	minArenaWidth    = 40
	minArenaHeight   = 8
)

type phase int

const (
	phaseAnswering phase = iota
	phaseFeedback
	phaseFinished
)

type frameMsg struct{}

type countdownMsg struct{}

type advanceMsg struct {
	seq int
}

type feedback struct {
	correct bool
	timeout bool
	award   score.Award
	answer  int
}

type keyMap struct {
	Pick    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Pause, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "fire")),
	Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Restart: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play again")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD600"))
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	goodStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00E676"))
	badStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF1744"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	arenaBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3A3A5A"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#D500F9")).Padding(1, 3)
	gradeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD600"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4"))
)

// Model implements the Bubble Tea game screen. It is the engine's render sink.
type Model struct {
	engine    *session.Engine
	overrides model.ConfigOverrides

	help     help.Model
	progress progress.Model

	width  int
	height int

	question model.Question
	targets  []model.Target
	elapsed  float64

	phase    phase
	feedback *feedback
	seq      int
	result   model.SessionResult
	unlocked []model.Achievement
}

// NewModel wires a game screen to engine and starts a session with overrides.
func NewModel(engine *session.Engine, overrides model.ConfigOverrides) *Model {
	m := &Model{
		engine:    engine,
		overrides: overrides,
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	engine.SetRenderer(m)
	m.start()
	return m
}

// Render implements session.Renderer.
func (m *Model) Render(q model.Question, targets []model.Target) {
	m.question = q
	m.targets = targets
	m.elapsed = 0
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), countdownCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, msg.Width/3)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		if m.engine.Status() == session.StatusPlaying && m.phase == phaseAnswering {
			m.elapsed += frameInterval.Seconds()
		}
		return m, frameCmd()
	case countdownMsg:
		return m, tea.Batch(m.handleCountdown(), countdownCmd())
	case advanceMsg:
		if msg.seq != m.seq || m.phase != phaseFeedback {
			return m, nil
		}
		m.advance()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.phase != phaseFinished {
			m.engine.Reset()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Pause):
		if m.phase != phaseAnswering {
			return m, nil
		}
		if m.engine.Status() == session.StatusPaused {
			m.engine.Resume()
		} else {
			m.engine.Pause()
		}
		return m, nil
	case key.Matches(msg, keys.Restart):
		if m.phase == phaseFinished {
			m.start()
		}
		return m, nil
	case key.Matches(msg, keys.Pick):
		return m, m.pick(int(msg.String()[0] - '1'))
	}
	return m, nil
}

func (m *Model) pick(index int) tea.Cmd {
	if m.phase != phaseAnswering || index < 0 || index >= len(m.targets) {
		return nil
	}
	t := m.targets[index]
	out := m.engine.SelectTarget(t.ID)
	if !out.Accepted {
		return nil
	}
	m.targets = m.engine.Targets()
	return m.showFeedback(&feedback{correct: out.Correct, award: out.Award, answer: t.Value})
}

func (m *Model) handleCountdown() tea.Cmd {
	if m.phase != phaseAnswering || !m.engine.Tick() {
		return nil
	}
	out := m.engine.TimeOut()
	if !out.Accepted {
		return nil
	}
	return m.showFeedback(&feedback{timeout: true})
}

func (m *Model) showFeedback(f *feedback) tea.Cmd {
	m.feedback = f
	m.phase = phaseFeedback
	m.seq++
	seq := m.seq
	return tea.Tick(feedbackDuration, func(time.Time) tea.Msg {
		return advanceMsg{seq: seq}
	})
}

func (m *Model) advance() {
	m.feedback = nil
	if !m.engine.Advance() {
		m.phase = phaseAnswering
		return
	}
	m.result = m.engine.Finish(context.Background())
	m.unlocked = m.engine.Unlocked()
	m.phase = phaseFinished
}

func (m *Model) start() {
	m.engine.Start(context.Background(), m.overrides)
	m.phase = phaseAnswering
	m.feedback = nil
	m.result = model.SessionResult{}
	m.unlocked = nil
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func countdownCmd() tea.Cmd {
	return tea.Tick(countdownTick, func(time.Time) tea.Msg {
		return countdownMsg{}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.phase == phaseFinished {
		body = m.renderResult()
	} else {
		body = m.renderGame()
	}
	footer := m.help.View(keys)
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderGame() string {
	arenaW := max(minArenaWidth, m.width-4)
	arenaH := max(minArenaHeight, m.height-10)
	lines := []string{
		promptStyle.Render(m.question.Prompt),
		m.renderHUD(),
		renderArena(m.targets, m.elapsed, arenaW, arenaH),
		m.renderFeedback(),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderHUD() string {
	cfg := m.engine.Config()
	p := m.engine.Progress()
	current := min(p.CurrentIndex+1, cfg.TotalQuestions)
	segments := []string{
		fmt.Sprintf("%s %d/%d", m.progress.ViewAs(m.engine.ProgressPercent()/100), current, cfg.TotalQuestions),
		fmt.Sprintf("Score %d", p.Score),
		fmt.Sprintf("Combo %d", p.Combo),
		fmt.Sprintf("Accuracy %.1f%%", m.engine.LiveAccuracy()),
	}
	if cfg.Difficulty == model.DifficultyHard {
		segments = append(segments, fmt.Sprintf("Time %d", p.TimeLeft))
	}
	return hudStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderFeedback() string {
	if m.engine.Status() == session.StatusPaused {
		return mutedStyle.Render("Paused. Press p to resume.")
	}
	f := m.feedback
	switch {
	case f == nil:
		return mutedStyle.Render("Pick the target with the right answer.")
	case f.timeout:
		return badStyle.Render(fmt.Sprintf("Time's up! The answer was %d.", m.question.CorrectAnswer))
	case f.correct:
		text := fmt.Sprintf("Hit! +%d", f.award.Total)
		if f.award.Combo > 0 {
			text += fmt.Sprintf(" (combo +%d)", f.award.Combo)
		}
		if f.award.Time > 0 {
			text += fmt.Sprintf(" (speed +%d)", f.award.Time)
		}
		return goodStyle.Render(text)
	default:
		return badStyle.Render(fmt.Sprintf("Missed: %d is wrong, the answer was %d.", f.answer, m.question.CorrectAnswer))
	}
}

func (m *Model) renderResult() string {
	r := m.result
	lines := []string{
		gradeStyle.Render("Grade " + r.Grade),
		"",
		fmt.Sprintf("Score      %d", r.Score),
		fmt.Sprintf("Accuracy   %.1f%%", r.Accuracy),
		fmt.Sprintf("Correct    %d / %d", r.CorrectCount, r.Config.TotalQuestions),
		fmt.Sprintf("Max combo  %d", r.MaxCombo),
		fmt.Sprintf("Average    %d per question", r.AverageScore),
		fmt.Sprintf("Time       %s", stats.FormatDuration(r.TotalTime)),
	}
	if len(r.WrongQuestions) > 0 {
		lines = append(lines, "", "Review:")
		for _, w := range r.WrongQuestions {
			prompt := strings.TrimSuffix(w.Prompt, "?")
			lines = append(lines, badStyle.Render(fmt.Sprintf("#%d %s%d (you said %d)", w.Index, prompt, w.CorrectAnswer, w.UserAnswer)))
		}
	}
	for _, a := range m.unlocked {
		lines = append(lines, unlockedStyle.Render(fmt.Sprintf("Achievement unlocked: %s %s", a.Icon, a.Name)))
	}
	lines = append(lines, "", mutedStyle.Render("enter: play again  q: quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}
