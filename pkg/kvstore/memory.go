package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const watchBuffer = 64

// Space is a process-local value space. Each Open call returns a handle
// with its own origin, so several handles behave like several browser tabs.
type Space struct {
	mu       sync.RWMutex
	data     map[string]string
	used     int
	quota    int
	watchers map[*watcher]struct{}
}

type watcher struct {
	origin string
	ch     chan Change
}

// NewSpace creates an empty space. quotaBytes <= 0 disables the quota.
func NewSpace(quotaBytes int) *Space {
	return &Space{
		data:     make(map[string]string),
		quota:    quotaBytes,
		watchers: make(map[*watcher]struct{}),
	}
}

func (s *Space) Open() *Memory {
	return &Memory{space: s, origin: uuid.NewString()}
}

func (s *Space) notify(c Change) {
	for w := range s.watchers {
		if w.origin == c.Origin {
			continue
		}
		// A full buffer drops the pulse; watchers re-read state anyway.
		select {
		case w.ch <- c:
		default:
		}
	}
}

type Memory struct {
	space  *Space
	origin string
}

var _ Backend = (*Memory)(nil)

func (m *Memory) Origin() string { return m.origin }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.space.mu.RLock()
	defer m.space.mu.RUnlock()

	v, ok := m.space.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	s := m.space
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		used -= len(key) + len(old)
	}
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}

	s.data[key] = value
	s.used = used
	s.notify(Change{Key: key, Origin: m.origin})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	s := m.space
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.data[key]
	if !ok {
		return nil
	}
	delete(s.data, key)
	s.used -= len(key) + len(old)
	s.notify(Change{Key: key, Origin: m.origin, Removed: true})
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.space.mu.RLock()
	defer m.space.mu.RUnlock()

	var keys []string
	for k := range m.space.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch streams foreign changes until ctx is done, then closes the channel.
func (m *Memory) Watch(ctx context.Context) (<-chan Change, error) {
	w := &watcher{origin: m.origin, ch: make(chan Change, watchBuffer)}

	m.space.mu.Lock()
	m.space.watchers[w] = struct{}{}
	m.space.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.space.mu.Lock()
		delete(m.space.watchers, w)
		close(w.ch)
		m.space.mu.Unlock()
	}()

	return w.ch, nil
}
