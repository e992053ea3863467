// Package syncer copies prescriptions between role partitions and rebuilds
// a role's prescription list from every partition.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

const (
	instrumentationName = "github.com/Alijeyrad/kliniksehat/internal/service/syncer"

	// SystemOrigin marks copies whose origin role was not known.
	SystemOrigin = "system"
)

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Propagate inserts a deep copy of rx into target's partition unless a
	// prescription with the same id is already there. It reports whether a
	// copy was written. An empty target or id is a no-op.
	Propagate(ctx context.Context, origin, target string, rx record.Prescription) bool

	// Reconcile rebuilds role's prescriptions from every registered partition,
	// persists them and returns the refreshed partition.
	Reconcile(ctx context.Context, role string) (*partition.Partition, error)

	// ReconcileInto reconciles the workspace's role and swaps in the result.
	ReconcileInto(ctx context.Context, ws *partition.Workspace) error
}

type Option func(*engine)

func WithClock(now func() time.Time) Option {
	return func(e *engine) { e.now = now }
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type engine struct {
	repo  *partition.Repository
	roles *partition.Registry
	log   *slog.Logger
	now   func() time.Time

	tracer     trace.Tracer
	propagated metric.Int64Counter
	reconciled metric.Int64Counter
}

func New(repo *partition.Repository, roles *partition.Registry, log *slog.Logger, opts ...Option) Service {
	if log == nil {
		log = slog.Default()
	}
	meter := otel.Meter(instrumentationName)
	propagated, _ := meter.Int64Counter(
		"sync_propagations_total",
		metric.WithDescription("Prescriptions copied into another role's partition"),
	)
	reconciled, _ := meter.Int64Counter(
		"sync_reconciles_total",
		metric.WithDescription("Prescription reconciliations per role"),
	)

	e := &engine{
		repo:       repo,
		roles:      roles,
		log:        log,
		now:        time.Now,
		tracer:     otel.Tracer(instrumentationName),
		propagated: propagated,
		reconciled: reconciled,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engine) Propagate(ctx context.Context, origin, target string, rx record.Prescription) bool {
	if strings.TrimSpace(target) == "" || rx.ID == "" {
		return false
	}

	ctx, span := e.tracer.Start(ctx, "syncer.Propagate", trace.WithAttributes(
		attribute.String("sync.target", target),
		attribute.String("prescription.id", rx.ID),
	))
	defer span.End()

	p := e.repo.Load(ctx, target)
	for _, existing := range p.Prescriptions {
		if existing.ID == rx.ID {
			span.SetAttributes(attribute.Bool("sync.duplicate", true))
			return false
		}
	}

	if origin == "" {
		origin = SystemOrigin
	}
	at := e.now()
	cp := rx.Clone()
	cp.PropagatedFrom = origin
	cp.PropagatedAt = &at

	p.Prescriptions = append([]record.Prescription{cp}, p.Prescriptions...)
	e.repo.Save(ctx, target, p)

	e.propagated.Add(ctx, 1, metric.WithAttributes(attribute.String("role", partition.RoleKey(target))))
	e.log.Debug("prescription propagated",
		slog.String("id", rx.ID),
		slog.String("from", origin),
		slog.String("to", target),
	)
	return true
}

func (e *engine) Reconcile(ctx context.Context, role string) (*partition.Partition, error) {
	canonical, ok := e.roles.Canonical(role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	ctx, span := e.tracer.Start(ctx, "syncer.Reconcile", trace.WithAttributes(
		attribute.String("sync.role", canonical),
	))
	defer span.End()

	own := e.repo.Load(ctx, canonical)
	ownKey := partition.RoleKey(canonical)

	var all []record.Prescription
	for _, r := range e.roles.Roles() {
		if partition.RoleKey(r) == ownKey {
			all = append(all, own.Prescriptions...)
			continue
		}
		if p, ok := e.repo.Peek(ctx, r); ok {
			all = append(all, p.Prescriptions...)
		}
	}

	merged := overlayLocal(mergeLatest(all), own.Prescriptions)
	sortNewestFirst(merged)

	own.Prescriptions = merged
	e.repo.Save(ctx, canonical, own)

	span.SetAttributes(attribute.Int("sync.prescriptions", len(merged)))
	e.reconciled.Add(ctx, 1, metric.WithAttributes(attribute.String("role", ownKey)))
	return own, nil
}

func (e *engine) ReconcileInto(ctx context.Context, ws *partition.Workspace) error {
	p, err := e.Reconcile(ctx, ws.Role)
	if err != nil {
		return err
	}
	ws.Partition = p
	return nil
}

// mergeLatest keeps one copy per id: the one with the latest Recency.
// Equal recency keeps the copy seen first. Entries without an id are dropped;
// overlayLocal restores the caller's own.
func mergeLatest(all []record.Prescription) []record.Prescription {
	index := make(map[string]int, len(all))
	out := make([]record.Prescription, 0, len(all))

	for _, rx := range all {
		if rx.ID == "" {
			continue
		}
		i, seen := index[rx.ID]
		if !seen {
			index[rx.ID] = len(out)
			out = append(out, rx)
			continue
		}
		if rx.Recency().After(out[i].Recency()) {
			out[i] = rx
		}
	}
	return out
}

// overlayLocal replaces merged copies with the role's own copy of the same
// id, whatever their timestamps.
func overlayLocal(merged, local []record.Prescription) []record.Prescription {
	index := make(map[string]int, len(merged))
	for i, rx := range merged {
		index[rx.ID] = i
	}

	replaced := make(map[string]bool, len(local))
	for _, rx := range local {
		if rx.ID == "" {
			merged = append(merged, rx)
			continue
		}
		if replaced[rx.ID] {
			continue
		}
		replaced[rx.ID] = true
		if i, ok := index[rx.ID]; ok {
			merged[i] = rx
		} else {
			merged = append(merged, rx)
		}
	}
	return merged
}

func sortNewestFirst(list []record.Prescription) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := list[i].SortTime(), list[j].SortTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return list[i].ID < list[j].ID
	})
}
