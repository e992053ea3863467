// Package kvstore is a string-keyed value space shared by every execution
// context of the clinic, with a JSON layer that never surfaces decode errors.
package kvstore

import (
	"context"
	"errors"
)

var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// Change describes a write observed on the shared space.
type Change struct {
	Key     string `json:"key"`
	Origin  string `json:"origin"`
	Removed bool   `json:"removed,omitempty"`
}

// Backend is one execution context's handle on the shared space. Watch only
// delivers changes made through other handles, mirroring storage events that
// never fire in the context that wrote them.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Watch(ctx context.Context) (<-chan Change, error)
	Origin() string
}
