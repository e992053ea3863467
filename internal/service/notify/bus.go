// Package notify carries prescription creation to listeners in this process
// and, through a marker key, to other contexts sharing the same store.
package notify

import (
	"context"
	"sync"

	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

type Event struct {
	Origin       string // role whose partition holds the authoritative copy
	Prescription record.Prescription
}

type Listener func(ctx context.Context, ev Event)

// Bus delivers events synchronously, in registration order.
type Bus struct {
	mu      sync.RWMutex
	saved   []Listener
	created []Listener
}

func NewBus() *Bus {
	return &Bus{}
}

// OnSaved fires after the authoritative copy has been persisted.
func (b *Bus) OnSaved(l Listener) {
	b.mu.Lock()
	b.saved = append(b.saved, l)
	b.mu.Unlock()
}

// OnCreated is the public signal, fired once downstream roles have their copy.
func (b *Bus) OnCreated(l Listener) {
	b.mu.Lock()
	b.created = append(b.created, l)
	b.mu.Unlock()
}

func (b *Bus) Saved(ctx context.Context, ev Event) {
	b.emit(ctx, ev, func() []Listener { return b.saved })
}

func (b *Bus) Created(ctx context.Context, ev Event) {
	b.emit(ctx, ev, func() []Listener { return b.created })
}

func (b *Bus) emit(ctx context.Context, ev Event, list func() []Listener) {
	b.mu.RLock()
	ls := append([]Listener(nil), list()...)
	b.mu.RUnlock()

	for _, l := range ls {
		l(ctx, Event{Origin: ev.Origin, Prescription: ev.Prescription.Clone()})
	}
}

// PropagateOnSave registers the standard reaction to a saved prescription:
// copy it into each target role, then fire the public created signal.
func PropagateOnSave(b *Bus, engine syncer.Service, targets []string) {
	b.OnSaved(func(ctx context.Context, ev Event) {
		for _, target := range targets {
			engine.Propagate(ctx, ev.Origin, target, ev.Prescription)
		}
		b.Created(ctx, ev)
	})
}
