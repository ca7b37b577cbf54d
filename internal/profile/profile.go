// Package profile keeps the player profile, lifetime progress and achievements.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/verte-zerg/numbattle/internal/model"
	"github.com/verte-zerg/numbattle/internal/score"
	"github.com/verte-zerg/numbattle/internal/store"
)

// Default profile values.
const (
	DefaultNickname = "Player"
	DefaultAvatar   = "avatar_1"
	DefaultAge      = 6
)

// Options configure a Tracker.
type Options struct {
	Now    func() time.Time
	ErrOut io.Writer
}

// Update carries optional profile changes. Nil fields are left alone.
type Update struct {
	Nickname *string
	Avatar   *string
	Age      *int
}

// Tracker owns the profile state and writes every change through to the store.
type Tracker struct {
	kv     store.KV
	now    func() time.Time
	errOut io.Writer

	profile      model.Profile
	progress     model.LearningProgress
	achievements []model.Achievement
}

// Load reads the profile state from kv. Missing entries are created with defaults;
// unreadable entries are logged and replaced by defaults in memory.
func Load(ctx context.Context, kv store.KV, opts Options) *Tracker {
	t := &Tracker{kv: kv, now: opts.Now, errOut: opts.ErrOut}
	if t.now == nil {
		t.now = time.Now
	}
	if t.errOut == nil {
		t.errOut = os.Stderr
	}

	err := store.LoadJSON(ctx, kv, store.KeyUserProfile, &t.profile)
	switch {
	case errors.Is(err, store.ErrNotFound):
		t.profile = t.newProfile()
		if err := t.saveProfile(ctx); err != nil {
			t.logf("failed to save profile: %v", err)
		}
	case err != nil:
		t.logf("failed to load profile: %v", err)
		t.profile = t.newProfile()
	}

	err = store.LoadJSON(ctx, kv, store.KeyUserProgress, &t.progress)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		t.logf("failed to load progress: %v", err)
		t.progress = model.LearningProgress{}
	}

	var saved []model.Achievement
	err = store.LoadJSON(ctx, kv, store.KeyUserAchievements, &saved)
	switch {
	case errors.Is(err, store.ErrNotFound):
		t.achievements = DefaultAchievements()
		if err := t.saveAchievements(ctx); err != nil {
			t.logf("failed to save achievements: %v", err)
		}
	case err != nil:
		t.logf("failed to load achievements: %v", err)
		t.achievements = DefaultAchievements()
	default:
		t.achievements = mergeAchievements(saved)
	}
	return t
}

// Profile returns the player profile.
func (t *Tracker) Profile() model.Profile {
	return t.profile
}

// Progress returns the lifetime progress.
func (t *Tracker) Progress() model.LearningProgress {
	return t.progress
}

// Achievements returns a copy of the achievement list.
func (t *Tracker) Achievements() []model.Achievement {
	return append([]model.Achievement(nil), t.achievements...)
}

// UnlockedCount returns how many achievements are unlocked.
func (t *Tracker) UnlockedCount() int {
	n := 0
	for _, a := range t.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// RecordResult folds a finished session into the lifetime progress and returns the
// achievements it unlocked. State is updated in memory even when saving fails.
func (t *Tracker) RecordResult(ctx context.Context, result model.SessionResult) ([]model.Achievement, error) {
	p := &t.progress
	p.TotalGames++
	p.TotalCorrect += result.CorrectCount
	p.TotalWrong += result.WrongCount
	p.TotalTime += result.TotalTime
	p.BestScore = max(p.BestScore, result.Score)
	p.AverageAccuracy = score.RoundPercent(score.Accuracy(p.TotalCorrect, p.TotalCorrect+p.TotalWrong))

	err := t.saveProgress(ctx)
	var unlocked []model.Achievement
	for _, id := range earned(*p, result) {
		if a, ok := t.unlock(id); ok {
			unlocked = append(unlocked, a)
		}
	}
	if len(unlocked) > 0 {
		err = multierr.Append(err, t.saveAchievements(ctx))
	}
	return unlocked, err
}

// UnlockAchievement unlocks id and reports whether it was newly unlocked.
func (t *Tracker) UnlockAchievement(ctx context.Context, id string) (bool, error) {
	if _, ok := t.unlock(id); !ok {
		return false, nil
	}
	return true, t.saveAchievements(ctx)
}

// UpdateProfile applies u to the profile and saves it.
func (t *Tracker) UpdateProfile(ctx context.Context, u Update) error {
	if u.Nickname != nil {
		t.profile.Nickname = *u.Nickname
	}
	if u.Avatar != nil {
		t.profile.Avatar = *u.Avatar
	}
	if u.Age != nil {
		t.profile.Age = *u.Age
	}
	return t.saveProfile(ctx)
}

// ResetProgress clears lifetime progress and achievements. The profile is kept.
func (t *Tracker) ResetProgress(ctx context.Context) error {
	t.progress = model.LearningProgress{}
	t.achievements = DefaultAchievements()
	return multierr.Combine(t.saveProgress(ctx), t.saveAchievements(ctx))
}

// ResetAll deletes every profile key and starts over with a fresh profile in memory.
func (t *Tracker) ResetAll(ctx context.Context) error {
	t.profile = t.newProfile()
	t.progress = model.LearningProgress{}
	t.achievements = DefaultAchievements()
	return multierr.Combine(
		t.kv.Delete(ctx, store.KeyUserProfile),
		t.kv.Delete(ctx, store.KeyUserProgress),
		t.kv.Delete(ctx, store.KeyUserAchievements),
	)
}

func (t *Tracker) unlock(id string) (model.Achievement, bool) {
	for i := range t.achievements {
		a := &t.achievements[i]
		if a.ID != id || a.Unlocked {
			continue
		}
		a.Unlocked = true
		a.UnlockedAt = t.now()
		return *a, true
	}
	return model.Achievement{}, false
}

func (t *Tracker) newProfile() model.Profile {
	return model.Profile{
		ID:        uuid.NewString(),
		Nickname:  DefaultNickname,
		Avatar:    DefaultAvatar,
		Age:       DefaultAge,
		Level:     1,
		CreatedAt: t.now(),
	}
}

func (t *Tracker) saveProfile(ctx context.Context) error {
	return store.SaveJSON(ctx, t.kv, store.KeyUserProfile, t.profile)
}

func (t *Tracker) saveProgress(ctx context.Context) error {
	return store.SaveJSON(ctx, t.kv, store.KeyUserProgress, t.progress)
}

func (t *Tracker) saveAchievements(ctx context.Context) error {
	return store.SaveJSON(ctx, t.kv, store.KeyUserAchievements, t.achievements)
}

func (t *Tracker) logf(format string, args ...any) {
	if _, err := fmt.Fprintf(t.errOut, format+"\n", args...); err != nil {
		// Best-effort diagnostics.
		_ = err
	}
}
