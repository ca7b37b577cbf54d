package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/numbattle/internal/model"
)

// Persisted keys.
const (
	KeyGameConfig       = "game_config"
	KeyGameHistory      = "game_history"
	KeyUserProfile      = "user_profile"
	KeyUserProgress     = "user_progress"
	KeyUserAchievements = "user_achievements"
)

// HistoryLimit is the number of most recent results kept in game_history.
const HistoryLimit = 50

// LoadJSON decodes the value under key into v. It returns ErrNotFound when the key is unset.
func LoadJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadGameConfig returns the last-used config. Unset fields keep their defaults, and
// a missing key yields the defaults with a nil error.
func LoadGameConfig(ctx context.Context, kv KV) (model.GameConfig, error) {
	cfg := model.DefaultGameConfig()
	err := LoadJSON(ctx, kv, KeyGameConfig, &cfg)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultGameConfig(), nil
	}
	if err != nil {
		return model.DefaultGameConfig(), err
	}
	return cfg, nil
}

// SaveGameConfig stores cfg as the last-used config.
func SaveGameConfig(ctx context.Context, kv KV, cfg model.GameConfig) error {
	return SaveJSON(ctx, kv, KeyGameConfig, cfg)
}

// LoadHistory returns the stored results, oldest first.
func LoadHistory(ctx context.Context, kv KV) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := LoadJSON(ctx, kv, KeyGameHistory, &entries)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendHistory appends entry and evicts the oldest entries beyond limit.
// A corrupt history blob is replaced rather than blocking the append.
func AppendHistory(ctx context.Context, kv KV, entry model.HistoryEntry, limit int) error {
	entries, err := LoadHistory(ctx, kv)
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return err
		}
		entries = nil
	}
	entries = append(entries, entry)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return SaveJSON(ctx, kv, KeyGameHistory, entries)
}

// ClearHistory removes all stored results.
func ClearHistory(ctx context.Context, kv KV) error {
	return kv.Delete(ctx, KeyGameHistory)
}
