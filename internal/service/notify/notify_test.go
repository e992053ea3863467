package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type tab struct {
	backend kvstore.Backend
	store   *kvstore.Store
	repo    *partition.Repository
	sync    syncer.Service
	fresh   *syncer.Freshener
}

// openTab simulates one execution context (a tab or a process) on space.
func openTab(space *kvstore.Space) *tab {
	mem := space.Open()
	store := kvstore.New(mem, discard)
	repo := partition.NewRepository(store, discard)
	sync := syncer.New(repo, partition.MustRegistry(partition.DefaultRoles()...), discard)
	return &tab{
		backend: mem,
		store:   store,
		repo:    repo,
		sync:    sync,
		fresh:   syncer.NewFreshener(sync, []string{partition.RolePharmacist}),
	}
}

func TestBus_OrderAndIsolation(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.OnSaved(func(_ context.Context, ev Event) {
		calls = append(calls, "a")
		ev.Prescription.Items[0].Name = "mutated"
	})
	bus.OnSaved(func(_ context.Context, ev Event) {
		calls = append(calls, "b:"+ev.Prescription.Items[0].Name)
	})

	rx := record.Prescription{ID: "presc_1", Items: []record.Item{{Name: "orig"}}}
	bus.Saved(context.Background(), Event{Origin: partition.RolePhysician, Prescription: rx})

	assert.Equal(t, []string{"a", "b:orig"}, calls)
	assert.Equal(t, "orig", rx.Items[0].Name)
}

func TestPropagateOnSave(t *testing.T) {
	ctx := context.Background()
	c := openTab(kvstore.NewSpace(0))
	bus := NewBus()
	PropagateOnSave(bus, c.sync, []string{partition.RolePharmacist, partition.RoleAdminStaff})

	var created []Event
	bus.OnCreated(func(_ context.Context, ev Event) { created = append(created, ev) })

	rx := record.Prescription{ID: "presc_1", PatientID: "pat_1", Datetime: time.UnixMilli(100)}
	bus.Saved(ctx, Event{Origin: partition.RolePhysician, Prescription: rx})

	for _, role := range []string{partition.RolePharmacist, partition.RoleAdminStaff} {
		got := c.repo.Load(ctx, role).Prescriptions
		require.Len(t, got, 1, role)
		assert.Equal(t, partition.RolePhysician, got[0].PropagatedFrom)
	}
	require.Len(t, created, 1)
	assert.Equal(t, "presc_1", created[0].Prescription.ID)
}

func TestMarker(t *testing.T) {
	ctx := context.Background()
	c := openTab(kvstore.NewSpace(0))
	m := NewMarker(c.store)
	m.now = func() time.Time { return time.UnixMilli(4242) }

	_, ok := m.Last(ctx)
	assert.False(t, ok)

	m.Touch(ctx, "presc_1")
	m.Touch(ctx, "presc_2")

	v, ok := m.Last(ctx)
	require.True(t, ok)
	assert.Equal(t, MarkerValue{TS: 4242, ID: "presc_2"}, v)

	raw, _, _ := c.backend.Get(ctx, partition.SyncMarkerKey)
	assert.JSONEq(t, `{"ts":4242,"id":"presc_2"}`, raw)
}

func TestWatcher_SecondContextPicksUpNewPrescription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	space := kvstore.NewSpace(0)
	doctorTab := openTab(space)
	pharmacyTab := openTab(space)

	pharmacist := pharmacyTab.repo.Open(ctx, partition.RolePharmacist, partition.Actor{Username: "apoteker1"})
	cashier := pharmacyTab.repo.Open(ctx, partition.RoleCashier, partition.Actor{Username: "kasir1"})

	refreshed := make(chan string, 1)
	w := NewWatcher(pharmacyTab.backend, pharmacyTab.sync, pharmacyTab.fresh, discard)
	w.OnRefresh = func(ws *partition.Workspace) {
		select {
		case refreshed <- ws.Role:
		default:
		}
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, pharmacist, cashier) }()

	// doctor tab writes a prescription and pulses the marker
	doc := doctorTab.repo.Open(ctx, partition.RolePhysician, partition.Actor{Username: "dokter1"})
	doc.Partition.Prescriptions = append(doc.Partition.Prescriptions,
		record.Prescription{ID: "presc_1", PatientID: "pat_1", Datetime: time.Now()})
	doctorTab.repo.Commit(ctx, doc)

	// the pulse is repeated until Run has subscribed
	marker := NewMarker(doctorTab.store)
	var role string
	require.Eventually(t, func() bool {
		marker.Touch(ctx, "presc_1")
		select {
		case role = <-refreshed:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, partition.RolePharmacist, role)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	require.Len(t, pharmacist.Partition.Prescriptions, 1)
	assert.Equal(t, "presc_1", pharmacist.Partition.Prescriptions[0].ID)
	assert.Empty(t, cashier.Partition.Prescriptions)
}
