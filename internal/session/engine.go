// Package session runs one game session: it asks for questions, lays out targets,
// scores answers and produces the final result.
package session

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/verte-zerg/numbattle/internal/generator"
	"github.com/verte-zerg/numbattle/internal/layout"
	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/score"
	"github.com/verte-zerg/numbattle/internal/store"
)

// Status is the lifecycle state of an Engine.
type Status string

// Lifecycle states.
const (
	StatusConfig   Status = "config"
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// QuestionTime is the hard-mode countdown per question, in ticks.
const QuestionTime = 10

// Renderer receives every newly generated question together with its targets.
type Renderer interface {
	Render(q model.Question, targets []model.Target)
}

// Recorder receives finished results, typically the profile component.
// It returns achievements unlocked by the result.
type Recorder interface {
	RecordResult(ctx context.Context, result model.SessionResult) ([]model.Achievement, error)
}

// Options configure an Engine. Zero values fall back to sensible defaults.
type Options struct {
	Rand     *rand.Rand
	Store    store.KV
	Recorder Recorder
	Renderer Renderer
	Now      func() time.Time
	ErrOut   io.Writer
}

// Outcome describes how an answer event was handled.
type Outcome struct {
	Accepted bool
	Correct  bool
	Award    score.Award
}

// Engine is the session state machine. It is not safe for concurrent use.
type Engine struct {
	kv       store.KV
	recorder Recorder
	renderer Renderer
	now      func() time.Time
	errOut   io.Writer

	gen    *generator.Generator
	layout *layout.Engine

	status    Status
	cfg       model.GameConfig
	progress  model.Progress
	question  *model.Question
	targets   []model.Target
	startedAt time.Time
	endedAt   time.Time
	result    *model.SessionResult
	unlocked  []model.Achievement
}

// New builds an Engine in the config state and loads the last-used config.
func New(ctx context.Context, opts Options) *Engine {
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		kv:       opts.Store,
		recorder: opts.Recorder,
		renderer: opts.Renderer,
		now:      opts.Now,
		errOut:   opts.ErrOut,
		gen:      generator.NewWithRand(rnd),
		layout:   layout.NewWithRand(rnd),
		status:   StatusConfig,
		cfg:      model.DefaultGameConfig(),
	}
	if e.kv == nil {
		e.kv = store.NewMemory()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.errOut == nil {
		e.errOut = os.Stderr
	}
	cfg, err := store.LoadGameConfig(ctx, e.kv)
	if err != nil {
		e.logf("failed to load game config: %v", err)
	}
	e.cfg = normalize(cfg)
	return e
}

// SetRenderer replaces the render sink.
func (e *Engine) SetRenderer(r Renderer) {
	e.renderer = r
}

// UpdateConfig merges overrides into the stored config and persists it.
// It is ignored while a session is playing or paused.
func (e *Engine) UpdateConfig(ctx context.Context, o model.ConfigOverrides) model.GameConfig {
	if e.active() {
		return e.cfg
	}
	e.cfg = MergeConfig(e.cfg, o)
	e.saveConfig(ctx)
	return e.cfg
}

// Start begins a new session with overrides merged into the stored config.
// Any session in progress is discarded.
func (e *Engine) Start(ctx context.Context, o model.ConfigOverrides) {
	e.gen.Reset()
	e.cfg = MergeConfig(e.cfg, o)
	e.saveConfig(ctx)
	e.progress = model.Progress{TimeLeft: questionTime(e.cfg)}
	e.result = nil
	e.unlocked = nil
	e.startedAt = e.now()
	e.endedAt = time.Time{}
	e.status = StatusPlaying
	e.nextQuestion()
}

// SubmitAnswer scores value against the current question. It does not move to the
// next question; call Advance for that.
func (e *Engine) SubmitAnswer(value int) Outcome {
	return e.submit(&value)
}

// TimeOut records the current question as missed without a player answer.
func (e *Engine) TimeOut() Outcome {
	return e.submit(nil)
}

// SelectTarget marks the target with id as hit and submits its value.
// Unknown and already hit targets are ignored.
func (e *Engine) SelectTarget(id string) Outcome {
	if e.status != StatusPlaying {
		return Outcome{}
	}
	for i := range e.targets {
		t := &e.targets[i]
		if t.ID != id {
			continue
		}
		if t.Hit {
			return Outcome{}
		}
		t.Hit = true
		t.Destroyed = t.IsCorrect
		return e.SubmitAnswer(t.Value)
	}
	return Outcome{}
}

func (e *Engine) submit(value *int) Outcome {
	if e.status != StatusPlaying || e.question == nil {
		return Outcome{}
	}
	p := &e.progress
	q := e.question
	if value != nil && *value == q.CorrectAnswer {
		p.CorrectCount++
		p.Combo++
		p.MaxCombo = max(p.MaxCombo, p.Combo)
		award := score.Correct(e.cfg, p.Combo, p.TimeLeft)
		p.Score += award.Total
		return Outcome{Accepted: true, Correct: true, Award: award}
	}
	p.WrongCount++
	p.Combo = 0
	if value != nil {
		p.WrongQuestions = append(p.WrongQuestions, model.WrongAnswer{
			Index:         p.CurrentIndex + 1,
			Prompt:        q.Prompt,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    *value,
		})
	}
	return Outcome{Accepted: true}
}

// Advance moves to the next question and reports whether the session has run out
// of questions. When it has, no question is generated and the caller should Finish.
func (e *Engine) Advance() bool {
	if e.status != StatusPlaying {
		return false
	}
	if e.progress.CurrentIndex >= e.cfg.TotalQuestions {
		return true
	}
	e.progress.CurrentIndex++
	if e.progress.CurrentIndex >= e.cfg.TotalQuestions {
		// Out of questions: nothing is left to answer until Finish.
		e.question = nil
		e.targets = nil
		return true
	}
	e.progress.TimeLeft = questionTime(e.cfg)
	e.nextQuestion()
	return false
}

// Pause suspends a playing session.
func (e *Engine) Pause() {
	if e.status == StatusPlaying {
		e.status = StatusPaused
	}
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	if e.status == StatusPaused {
		e.status = StatusPlaying
	}
}

// UpdateTimeLeft sets the remaining hard-mode time, clamped at zero.
func (e *Engine) UpdateTimeLeft(t int) {
	if !e.timed() {
		return
	}
	e.progress.TimeLeft = max(0, t)
}

// Tick counts the hard-mode timer down by one and reports whether it just expired.
func (e *Engine) Tick() bool {
	if !e.timed() || e.progress.TimeLeft <= 0 {
		return false
	}
	e.progress.TimeLeft--
	return e.progress.TimeLeft == 0
}

// Finish ends the session, records the result and returns it. Finishing an already
// finished session returns the same result; finishing before Start returns a zero result.
func (e *Engine) Finish(ctx context.Context) model.SessionResult {
	if e.status == StatusFinished && e.result != nil {
		return *e.result
	}
	if !e.active() {
		return model.SessionResult{}
	}
	e.status = StatusFinished
	e.endedAt = e.now()

	p := e.progress
	accuracy := score.Accuracy(p.CorrectCount, e.cfg.TotalQuestions)
	result := model.SessionResult{
		Config:         e.cfg,
		Progress:       e.Progress(),
		Grade:          score.Grade(accuracy),
		TotalTime:      int64(e.endedAt.Sub(e.startedAt) / time.Second),
		Accuracy:       score.RoundPercent(accuracy),
		Score:          p.Score,
		CorrectCount:   p.CorrectCount,
		WrongCount:     p.WrongCount,
		MaxCombo:       p.MaxCombo,
		AverageScore:   score.Average(p.Score, e.cfg.TotalQuestions),
		WrongQuestions: append([]model.WrongAnswer(nil), p.WrongQuestions...),
	}
	e.result = &result
	e.targets = nil

	entry := model.HistoryEntry{Timestamp: e.endedAt, Result: result}
	if err := store.AppendHistory(ctx, e.kv, entry, store.HistoryLimit); err != nil {
		e.logf("failed to save history: %v", err)
	}
	if e.recorder != nil {
		unlocked, err := e.recorder.RecordResult(ctx, result)
		if err != nil {
			e.logf("failed to record result: %v", err)
		}
		e.unlocked = unlocked
	}
	e.gen.Reset()
	return result
}

// Reset returns to the config state and discards all session state.
func (e *Engine) Reset() {
	e.status = StatusConfig
	e.progress = model.Progress{}
	e.question = nil
	e.targets = nil
	e.result = nil
	e.unlocked = nil
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.gen.Reset()
}

// Status returns the lifecycle state.
func (e *Engine) Status() Status {
	return e.status
}

// Config returns the current config.
func (e *Engine) Config() model.GameConfig {
	return e.cfg
}

// Progress returns a copy of the session counters.
func (e *Engine) Progress() model.Progress {
	p := e.progress
	p.WrongQuestions = append([]model.WrongAnswer(nil), e.progress.WrongQuestions...)
	return p
}

// Question returns the current question, if any.
func (e *Engine) Question() (model.Question, bool) {
	if e.question == nil {
		return model.Question{}, false
	}
	return *e.question, true
}

// Targets returns a copy of the current targets.
func (e *Engine) Targets() []model.Target {
	return append([]model.Target(nil), e.targets...)
}

// Result returns the finished session result, if any.
func (e *Engine) Result() (model.SessionResult, bool) {
	if e.result == nil {
		return model.SessionResult{}, false
	}
	return *e.result, true
}

// Unlocked returns the achievements unlocked by the last finished session.
func (e *Engine) Unlocked() []model.Achievement {
	return append([]model.Achievement(nil), e.unlocked...)
}

// StartedAt returns when the current session started.
func (e *Engine) StartedAt() time.Time {
	return e.startedAt
}

// ProgressPercent returns how far through the question list the session is.
func (e *Engine) ProgressPercent() float64 {
	return score.Accuracy(e.progress.CurrentIndex, e.cfg.TotalQuestions)
}

// LiveAccuracy returns the share of answered questions that were correct.
func (e *Engine) LiveAccuracy() float64 {
	answered := e.progress.CorrectCount + e.progress.WrongCount
	return score.RoundPercent(score.Accuracy(e.progress.CorrectCount, answered))
}

func (e *Engine) nextQuestion() {
	q := e.gen.Generate(e.cfg.Mode, e.cfg.RangeMin, e.cfg.RangeMax)
	e.question = &q
	e.targets = e.layout.Layout(q.ID, q.Answers, q.CorrectAnswer, e.cfg.TargetMotion)
	if e.renderer != nil {
		e.renderer.Render(q, e.Targets())
	}
}

func (e *Engine) saveConfig(ctx context.Context) {
	if err := store.SaveGameConfig(ctx, e.kv, e.cfg); err != nil {
		e.logf("failed to save game config: %v", err)
	}
}

func (e *Engine) active() bool {
	return e.status == StatusPlaying || e.status == StatusPaused
}

func (e *Engine) timed() bool {
	return e.status == StatusPlaying && e.cfg.Difficulty == model.DifficultyHard
}

func (e *Engine) logf(format string, args ...any) {
	if _, err := fmt.Fprintf(e.errOut, format+"\n", args...); err != nil {
		// Best-effort diagnostics.
		_ = err
	}
}
