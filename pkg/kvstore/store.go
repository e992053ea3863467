package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Store is the JSON layer over a Backend. Reads never fail: unreadable or
// undecodable values come back as absent. Writes never fail either; errors
// are logged and the caller carries on with its in-memory state.
type Store struct {
	backend Backend
	log     *slog.Logger
	now     func() time.Time
}

func New(b Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: b, log: log, now: time.Now}
}

// CorruptKey names the archive slot for an undecodable payload.
func CorruptKey(key string, at time.Time) string {
	return fmt.Sprintf("%s_corrupt_%d", key, at.UnixMilli())
}

// Load decodes key into T. An undecodable payload is archived under
// CorruptKey (best effort), the original key is removed and absent is returned.
func Load[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T
	raw, ok := s.raw(ctx, key)
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.quarantine(ctx, key, raw, err)
		return zero, false
	}
	return v, true
}

// Peek is Load without the repair side effects, for read-only scans.
func Peek[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T
	raw, ok := s.raw(ctx, key)
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Debug("kvstore: skipping undecodable value", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	return v, true
}

func (s *Store) raw(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("kvstore: read failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

func (s *Store) quarantine(ctx context.Context, key, raw string, cause error) {
	archive := CorruptKey(key, s.now())
	_ = s.backend.Set(ctx, archive, raw)
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Warn("kvstore: remove corrupt key failed", slog.String("key", key), slog.Any("error", err))
	}
	s.log.Warn("kvstore: corrupt value archived",
		slog.String("key", key),
		slog.String("archive", archive),
		slog.Any("error", cause),
	)
}

// Save encodes v and writes it under key. It reports whether the write
// reached the backend, for callers that care; most do not.
func (s *Store) Save(ctx context.Context, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("kvstore: encode failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if err := s.backend.Set(ctx, key, string(b)); err != nil {
		s.log.Error("kvstore: write failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

// Keys lists stored keys under prefix. A failed listing is logged and
// reads as empty.
func (s *Store) Keys(ctx context.Context, prefix string) []string {
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		s.log.Warn("kvstore: list failed", slog.String("prefix", prefix), slog.Any("error", err))
		return nil
	}
	return keys
}

func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Error("kvstore: remove failed", slog.String("key", key), slog.Any("error", err))
	}
}
