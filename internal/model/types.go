// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownMode is returned when a calculation mode cannot be parsed.
	ErrUnknownMode = errors.New("unknown calculation mode")
	// ErrUnknownDifficulty is returned when a difficulty tier cannot be parsed.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Mode is the arithmetic operation practiced in a session.
type Mode string

// Calculation modes. The set is closed; switches over Mode must handle all four.
const (
	ModeAdd      Mode = "add"
	ModeSubtract Mode = "subtract"
	ModeMultiply Mode = "multiply"
	ModeDivide   Mode = "divide"
)

// Modes lists every calculation mode in display order.
var Modes = []Mode{ModeAdd, ModeSubtract, ModeMultiply, ModeDivide}

// ParseMode accepts mode names and operator symbols.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus":
		return ModeAdd, nil
	case "subtract", "sub", "-", "minus":
		return ModeSubtract, nil
	case "multiply", "mul", "*", "x", "×":
		return ModeMultiply, nil
	case "divide", "div", "/", "÷":
		return ModeDivide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Symbol returns the operator shown in question prompts.
func (m Mode) Symbol() string {
	switch m {
	case ModeAdd:
		return "+"
	case ModeSubtract:
		return "-"
	case ModeMultiply:
		return "×"
	case ModeDivide:
		return "÷"
	}
	return "?"
}

// Difficulty is the session difficulty tier.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

// ParseDifficulty parses a difficulty tier name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// MovePattern describes how a target drifts around its anchor.
type MovePattern string

// Motion patterns.
const (
	MoveStatic     MovePattern = "static"
	MoveHorizontal MovePattern = "horizontal"
	MoveVertical   MovePattern = "vertical"
	MoveCircular   MovePattern = "circular"
	MoveZigzag     MovePattern = "zigzag"
)

// GameConfig defines session settings. It is fixed once play starts.
type GameConfig struct {
	Mode           Mode       `json:"mode"`
	RangeMin       int        `json:"rangeMin"`
	RangeMax       int        `json:"rangeMax"`
	TotalQuestions int        `json:"totalQuestions"`
	Difficulty     Difficulty `json:"difficulty"`
	EnableBonus    bool       `json:"enableBonus"`
	TargetMotion   bool       `json:"enemyMoving"`
}

// DefaultGameConfig returns the built-in session settings. Bonuses start off, so a
// perfect game scores the base score for every question; --bonus turns them on.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Mode:           ModeAdd,
		RangeMin:       1,
		RangeMax:       10,
		TotalQuestions: 10,
		Difficulty:     DifficultyEasy,
	}
}

// ConfigOverrides carries optional changes to a GameConfig. Nil fields are left alone.
// NumberRange and QuestionCount are aliases normalized into RangeMin/RangeMax and
// TotalQuestions.
type ConfigOverrides struct {
	Mode           *Mode
	NumberRange    *int
	RangeMin       *int
	RangeMax       *int
	TotalQuestions *int
	QuestionCount  *int
	Difficulty     *Difficulty
	EnableBonus    *bool
	TargetMotion   *bool
}

// Question is one generated arithmetic question.
type Question struct {
	ID            string `json:"id"`
	Mode          Mode   `json:"mode"`
	Operand1      int    `json:"operand1"`
	Operand2      int    `json:"operand2"`
	Operator      string `json:"operator"`
	CorrectAnswer int    `json:"correctAnswer"`
	Prompt        string `json:"displayText"`
	WrongAnswers  []int  `json:"wrongAnswers"`
	Answers       []int  `json:"allAnswers"`
}

// Vec is a point or displacement in arena coordinates. The arena is centered on (0, 0).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Target is a rendered answer choice.
type Target struct {
	ID          string      `json:"id"`
	Value       int         `json:"value"`
	IsCorrect   bool        `json:"isCorrect"`
	Position    Vec         `json:"position"`
	Speed       float64     `json:"speed"`
	Color       string      `json:"color"`
	Hit         bool        `json:"isHit"`
	Destroyed   bool        `json:"isDestroyed"`
	MovePattern MovePattern `json:"movePattern"`
	MoveSpeed   float64     `json:"moveSpeed"`
	MoveRange   float64     `json:"moveRange"`
}

// WrongAnswer records one missed question.
type WrongAnswer struct {
	Index         int    `json:"index"`
	Prompt        string `json:"question"`
	CorrectAnswer int    `json:"correctAnswer"`
	UserAnswer    int    `json:"userAnswer"`
}

// Progress tracks the counters of a running session.
type Progress struct {
	CurrentIndex   int           `json:"currentIndex"`
	CorrectCount   int           `json:"correctCount"`
	WrongCount     int           `json:"wrongCount"`
	Score          int           `json:"score"`
	Combo          int           `json:"combo"`
	MaxCombo       int           `json:"maxCombo"`
	TimeLeft       int           `json:"timeLeft"`
	WrongQuestions []WrongAnswer `json:"wrongQuestions"`
}

// SessionResult is the snapshot taken when a session finishes.
type SessionResult struct {
	Config         GameConfig    `json:"config"`
	Progress       Progress      `json:"progress"`
	Grade          string        `json:"grade"`
	TotalTime      int64         `json:"totalTime"`
	Accuracy       float64       `json:"accuracy"`
	Score          int           `json:"score"`
	CorrectCount   int           `json:"correctCount"`
	WrongCount     int           `json:"wrongCount"`
	MaxCombo       int           `json:"maxCombo"`
	AverageScore   int           `json:"averageScore"`
	WrongQuestions []WrongAnswer `json:"wrongQuestions"`
}

// HistoryEntry is one element of the persisted game history.
type HistoryEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Result    SessionResult `json:"result"`
}

// Profile is the player profile.
type Profile struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	Age       int       `json:"age"`
	Level     int       `json:"level"`
	Exp       int       `json:"exp"`
	CreatedAt time.Time `json:"createdAt"`
}

// LearningProgress aggregates results across all sessions.
type LearningProgress struct {
	TotalGames      int     `json:"totalGames"`
	TotalCorrect    int     `json:"totalCorrect"`
	TotalWrong      int     `json:"totalWrong"`
	TotalTime       int64   `json:"totalTime"`
	BestScore       int     `json:"bestScore"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// Achievement is an unlockable badge.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Unlocked    bool      `json:"unlocked"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// StatsConfig defines filters and options for history reports.
type StatsConfig struct {
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
}
