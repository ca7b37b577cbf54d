package tui

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/session"
	"github.com/verte-zerg/numbattle/internal/store"
)

func newTestModel(t *testing.T, overrides model.ConfigOverrides) (*Model, *session.Engine, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	engine := session.New(context.Background(), session.Options{
		Rand:   rand.New(rand.NewSource(7)),
		Store:  kv,
		ErrOut: &bytes.Buffer{},
	})
	return NewModel(engine, overrides), engine, kv
}

func overrides(questions int, difficulty model.Difficulty) model.ConfigOverrides {
	mode := model.ModeAdd
	lo, hi := 1, 10
	return model.ConfigOverrides{
		Mode:           &mode,
		RangeMin:       &lo,
		RangeMax:       &hi,
		TotalQuestions: &questions,
		Difficulty:     &difficulty,
	}
}

func pressDigit(m *Model, digit int) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune('0' + digit)}})
	return cmd
}

func targetIndex(t *testing.T, m *Model, correct bool) int {
	t.Helper()
	for i, target := range m.targets {
		if target.IsCorrect == correct {
			return i
		}
	}
	t.Fatalf("no target with IsCorrect=%v among %d targets", correct, len(m.targets))
	return -1
}

func TestNewModelStartsSession(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	if engine.Status() != session.StatusPlaying {
		t.Fatalf("expected playing, got %s", engine.Status())
	}
	q, ok := engine.Question()
	if !ok {
		t.Fatalf("expected a question")
	}
	if m.question.ID != q.ID {
		t.Fatalf("expected rendered question %s, got %s", q.ID, m.question.ID)
	}
	if len(m.targets) != len(q.Answers) {
		t.Fatalf("expected %d targets, got %d", len(q.Answers), len(m.targets))
	}
	if !strings.Contains(m.View(), q.Prompt) {
		t.Fatalf("expected prompt %q in view", q.Prompt)
	}
}

func TestPickCorrectTargetShowsFeedbackThenAdvances(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	first := m.question.ID

	cmd := pressDigit(m, targetIndex(t, m, true)+1)
	if cmd == nil {
		t.Fatalf("expected a feedback timer")
	}
	if m.phase != phaseFeedback {
		t.Fatalf("expected feedback phase, got %d", m.phase)
	}
	if got := engine.Progress().Score; got != 10 {
		t.Fatalf("expected score 10, got %d", got)
	}
	if !strings.Contains(m.renderFeedback(), "Hit! +10") {
		t.Fatalf("unexpected feedback %q", m.renderFeedback())
	}

	if cmd := pressDigit(m, 1); cmd != nil {
		t.Fatalf("expected picks to be ignored during feedback")
	}

	m.Update(advanceMsg{seq: m.seq})
	if m.phase != phaseAnswering {
		t.Fatalf("expected answering phase, got %d", m.phase)
	}
	if m.question.ID == first {
		t.Fatalf("expected a new question after advancing")
	}
	if got := engine.Progress().CurrentIndex; got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
}

func TestWrongPickRecordsMistake(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(2, model.DifficultyEasy))
	idx := targetIndex(t, m, false)
	picked := m.targets[idx].Value

	pressDigit(m, idx+1)
	p := engine.Progress()
	if p.WrongCount != 1 || len(p.WrongQuestions) != 1 {
		t.Fatalf("expected one wrong answer, got %+v", p)
	}
	if p.WrongQuestions[0].UserAnswer != picked {
		t.Fatalf("expected user answer %d, got %d", picked, p.WrongQuestions[0].UserAnswer)
	}
	if !m.targets[idx].Hit || m.targets[idx].Destroyed {
		t.Fatalf("expected hit but not destroyed target, got %+v", m.targets[idx])
	}
	if !strings.Contains(m.renderFeedback(), "Missed") {
		t.Fatalf("unexpected feedback %q", m.renderFeedback())
	}
}

func TestStaleAdvanceIgnored(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	pressDigit(m, targetIndex(t, m, true)+1)

	m.Update(advanceMsg{seq: m.seq - 1})
	if m.phase != phaseFeedback {
		t.Fatalf("expected stale advance to be ignored")
	}
	if got := engine.Progress().CurrentIndex; got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
}

func TestOutOfRangePickIgnored(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	if cmd := pressDigit(m, 9); cmd != nil {
		t.Fatalf("expected no command for missing target")
	}
	if got := engine.Progress().WrongCount + engine.Progress().CorrectCount; got != 0 {
		t.Fatalf("expected no answers, got %d", got)
	}
}

func TestPauseBlocksPicks(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if engine.Status() != session.StatusPaused {
		t.Fatalf("expected paused, got %s", engine.Status())
	}
	if cmd := pressDigit(m, targetIndex(t, m, true)+1); cmd != nil {
		t.Fatalf("expected picks to be ignored while paused")
	}
	if !strings.Contains(m.renderFeedback(), "Paused") {
		t.Fatalf("expected paused notice, got %q", m.renderFeedback())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if engine.Status() != session.StatusPlaying {
		t.Fatalf("expected playing, got %s", engine.Status())
	}
}

func TestFrameTickMovesOnlyWhilePlaying(t *testing.T) {
	m, _, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	m.Update(frameMsg{})
	if m.elapsed <= 0 {
		t.Fatalf("expected elapsed time to grow")
	}
	before := m.elapsed
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m.Update(frameMsg{})
	if m.elapsed != before {
		t.Fatalf("expected motion to freeze while paused")
	}
}

func TestHardModeCountdownTimesOut(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(2, model.DifficultyHard))
	for i := 0; i < session.QuestionTime; i++ {
		m.Update(countdownMsg{})
	}
	if m.phase != phaseFeedback || m.feedback == nil || !m.feedback.timeout {
		t.Fatalf("expected timeout feedback, got phase %d", m.phase)
	}
	p := engine.Progress()
	if p.WrongCount != 1 || len(p.WrongQuestions) != 0 {
		t.Fatalf("expected an unlogged miss, got %+v", p)
	}
}

func TestEasyModeCountdownDoesNothing(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(2, model.DifficultyEasy))
	for i := 0; i < 2*session.QuestionTime; i++ {
		m.Update(countdownMsg{})
	}
	if m.phase != phaseAnswering {
		t.Fatalf("expected answering phase, got %d", m.phase)
	}
	if got := engine.Progress().WrongCount; got != 0 {
		t.Fatalf("expected no misses, got %d", got)
	}
}

func TestFinishShowsResultAndSavesHistory(t *testing.T) {
	m, engine, kv := newTestModel(t, overrides(2, model.DifficultyEasy))
	for i := 0; i < 2; i++ {
		pressDigit(m, targetIndex(t, m, true)+1)
		m.Update(advanceMsg{seq: m.seq})
	}
	if m.phase != phaseFinished {
		t.Fatalf("expected finished phase, got %d", m.phase)
	}
	if engine.Status() != session.StatusFinished {
		t.Fatalf("expected finished engine, got %s", engine.Status())
	}
	view := m.View()
	for _, want := range []string{"Grade S", "Score      20", "Accuracy   100.0%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in result card:\n%s", want, view)
		}
	}
	history, err := store.LoadHistory(context.Background(), kv)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 || history[0].Result.Score != 20 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestRestartAfterFinish(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(1, model.DifficultyEasy))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if engine.Status() != session.StatusPlaying || m.phase != phaseAnswering {
		t.Fatalf("expected enter to be ignored mid-game")
	}

	pressDigit(m, targetIndex(t, m, true)+1)
	m.Update(advanceMsg{seq: m.seq})
	if m.phase != phaseFinished {
		t.Fatalf("expected finished phase, got %d", m.phase)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if engine.Status() != session.StatusPlaying || m.phase != phaseAnswering {
		t.Fatalf("expected a fresh session after restart")
	}
	if got := engine.Progress().Score; got != 0 {
		t.Fatalf("expected score reset, got %d", got)
	}
}

func TestQuitResetsActiveSession(t *testing.T) {
	m, engine, _ := newTestModel(t, overrides(3, model.DifficultyEasy))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if engine.Status() != session.StatusConfig {
		t.Fatalf("expected config state, got %s", engine.Status())
	}
}

func TestResultCardListsMistakes(t *testing.T) {
	m, _, _ := newTestModel(t, overrides(1, model.DifficultyEasy))
	m.result = model.SessionResult{
		Config: model.GameConfig{TotalQuestions: 2},
		Grade:  "D",
		WrongQuestions: []model.WrongAnswer{
			{Index: 2, Prompt: "3 + 4 = ?", CorrectAnswer: 7, UserAnswer: 8},
		},
	}
	m.unlocked = []model.Achievement{{Name: "First Steps", Icon: "*"}}
	card := m.renderResult()
	for _, want := range []string{"Grade D", "#2 3 + 4 = 7 (you said 8)", "Achievement unlocked: * First Steps"} {
		if !strings.Contains(card, want) {
			t.Fatalf("expected %q in card:\n%s", want, card)
		}
	}
}
