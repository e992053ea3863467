package partition

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// Actor is whoever performs operations inside a Workspace.
type Actor struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Workspace is the active partition of one session. Feature operations
// mutate Partition and then Commit it. A Workspace is not safe for
// concurrent use.
type Workspace struct {
	Role      string
	Actor     Actor
	Partition *Partition
}

type Repository struct {
	store *kvstore.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewRepository(store *kvstore.Store, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{store: store, log: log, now: time.Now}
}

func (r *Repository) Store() *kvstore.Store { return r.store }

// Load returns role's partition, creating and persisting an empty one when
// the key is absent or was corrupt. Partitions missing collections are
// repaired and written back.
func (r *Repository) Load(ctx context.Context, role string) *Partition {
	key := KeyForRole(role)

	p, ok := kvstore.Load[Partition](ctx, r.store, key)
	if !ok {
		fresh := New()
		r.store.Save(ctx, key, fresh)
		return fresh
	}
	if p.normalize() {
		r.log.Debug("partition: repaired missing collections", slog.String("role", role))
		r.store.Save(ctx, key, &p)
	}
	return &p
}

// Peek reads role's partition without creating or repairing anything.
func (r *Repository) Peek(ctx context.Context, role string) (*Partition, bool) {
	p, ok := kvstore.Peek[Partition](ctx, r.store, KeyForRole(role))
	if !ok {
		return nil, false
	}
	p.normalize()
	return &p, true
}

func (r *Repository) Save(ctx context.Context, role string, p *Partition) bool {
	return r.store.Save(ctx, KeyForRole(role), p)
}

// LoadGlobalPatients returns the shared patient list, newest first.
func (r *Repository) LoadGlobalPatients(ctx context.Context) []record.Patient {
	list, ok := kvstore.Load[[]record.Patient](ctx, r.store, GlobalPatientsKey)
	if !ok || list == nil {
		return []record.Patient{}
	}
	return list
}

func (r *Repository) SaveGlobalPatients(ctx context.Context, list []record.Patient) bool {
	if list == nil {
		list = []record.Patient{}
	}
	return r.store.Save(ctx, GlobalPatientsKey, list)
}

func (r *Repository) Open(ctx context.Context, role string, actor Actor) *Workspace {
	return &Workspace{Role: role, Actor: actor, Partition: r.Load(ctx, role)}
}

func (r *Repository) Commit(ctx context.Context, ws *Workspace) bool {
	return r.Save(ctx, ws.Role, ws.Partition)
}

// AppendLog prepends an activity entry to the workspace and commits it.
func (r *Repository) AppendLog(ctx context.Context, ws *Workspace, text string) {
	entry := record.LogEntry{ID: record.NewID(record.PrefixLog), Text: text, At: r.now()}
	ws.Partition.Logs = append([]record.LogEntry{entry}, ws.Partition.Logs...)
	r.Commit(ctx, ws)
}

// Bootstrap makes sure the global patient list and each role's partition
// exist. Corrupt values are archived before being reset. It returns how many
// partitions had to be created.
func (r *Repository) Bootstrap(ctx context.Context, roles []string) int {
	if _, ok := kvstore.Load[[]record.Patient](ctx, r.store, GlobalPatientsKey); !ok {
		r.SaveGlobalPatients(ctx, nil)
	}

	created := 0
	for _, role := range roles {
		if _, ok := kvstore.Load[Partition](ctx, r.store, KeyForRole(role)); !ok {
			r.Save(ctx, role, New())
			created++
		}
	}
	return created
}

// Repair rewrites stored partitions that miss collections and returns the
// roles it fixed. A corrupt partition is archived and reset. Roles with
// nothing stored are left alone.
func (r *Repository) Repair(ctx context.Context, roles []string) []string {
	stored := make(map[string]bool)
	for _, k := range r.store.Keys(ctx, DataPrefix) {
		stored[k] = true
	}

	fixed := []string{}
	for _, role := range roles {
		key := KeyForRole(role)
		if !stored[key] {
			continue
		}
		p, ok := kvstore.Load[Partition](ctx, r.store, key)
		switch {
		case !ok:
			r.Save(ctx, role, New())
		case p.normalize():
			r.Save(ctx, role, &p)
		default:
			continue
		}
		fixed = append(fixed, role)
	}
	return fixed
}
