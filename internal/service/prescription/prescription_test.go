package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/partition/partitiontest"
	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/notify"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

type fixture struct {
	env    *partitiontest.Env
	svc    Service
	bus    *notify.Bus
	marker *notify.Marker
}

func newFixture(t *testing.T) *fixture {
	env := partitiontest.New(t)
	engine := syncer.New(env.Repo, env.Roles, env.Log)
	fresh := syncer.NewFreshener(engine, []string{partition.RolePharmacist})
	bus := notify.NewBus()
	notify.PropagateOnSave(bus, engine, []string{partition.RolePharmacist, partition.RoleAdminStaff})
	marker := notify.NewMarker(env.Store)
	svc := New(env.Repo, syncer.NewReader(env.Repo, env.Roles), fresh, bus, marker, env.Log)
	return &fixture{env: env, svc: svc, bus: bus, marker: marker}
}

func (f *fixture) open(role, username string) *partition.Workspace {
	return f.env.Repo.Open(context.Background(), role, partition.Actor{Username: username, Name: username})
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ws := f.open(partition.RolePhysician, "dokter1")

	_, err := f.svc.Create(context.Background(), ws, CreateRequest{Items: "Amoxicillin"})
	assert.ErrorIs(t, err, ErrPatientRequired)
	_, err = f.svc.Create(context.Background(), ws, CreateRequest{PatientID: "pat_1", Items: " , ,"})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestCreate_PropagatesAndSignals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ws := f.open(partition.RolePhysician, "dr. Andi")

	var created []notify.Event
	f.bus.OnCreated(func(_ context.Context, ev notify.Event) { created = append(created, ev) })

	rx, err := f.svc.Create(ctx, ws, CreateRequest{PatientID: "pat_1", Items: "Amoxicillin 500mg, , Paracetamol"})
	require.NoError(t, err)
	assert.Equal(t, []record.Item{{Name: "Amoxicillin 500mg"}, {Name: "Paracetamol"}}, rx.Items)
	assert.Equal(t, "dr. Andi", rx.IssuedBy)
	assert.False(t, rx.IsPropagated())

	own := f.env.Repo.Load(ctx, partition.RolePhysician)
	require.Len(t, own.Prescriptions, 1)
	assert.False(t, own.Prescriptions[0].IsPropagated())
	assert.Equal(t, "Resep dibuat untuk pasien pat_1", own.Logs[0].Text)

	for _, role := range []string{partition.RolePharmacist, partition.RoleAdminStaff} {
		p := f.env.Repo.Load(ctx, role)
		require.Len(t, p.Prescriptions, 1, role)
		assert.Equal(t, partition.RolePhysician, p.Prescriptions[0].PropagatedFrom)
	}

	require.Len(t, created, 1)
	assert.Equal(t, rx.ID, created[0].Prescription.ID)

	mark, ok := f.marker.Last(ctx)
	require.True(t, ok)
	assert.Equal(t, rx.ID, mark.ID)
}

func TestList_ReconcilesConsumer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// written behind the engine's back, as an older client would
	doc := f.env.Repo.Load(ctx, partition.RoleNurse)
	doc.Prescriptions = []record.Prescription{{ID: "presc_old", PatientID: "pat_1", Datetime: time.Now()}}
	f.env.Repo.Save(ctx, partition.RoleNurse, doc)

	pharm := f.open(partition.RolePharmacist, "apoteker1")
	list, err := f.svc.List(ctx, pharm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "presc_old", list[0].ID)

	admin := f.open(partition.RoleAdminStaff, "petugas1")
	list, err = f.svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPickUp_LocalOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rx, err := f.svc.Create(ctx, f.open(partition.RolePhysician, "dokter1"), CreateRequest{PatientID: "pat_1", Items: "Vitamin C"})
	require.NoError(t, err)

	pharm := f.open(partition.RolePharmacist, "apoteker1")
	got, err := f.svc.PickUp(ctx, pharm, rx.ID)
	require.NoError(t, err)
	assert.True(t, got.PickedUp)

	_, err = f.svc.PickUp(ctx, pharm, rx.ID)
	assert.ErrorIs(t, err, ErrAlreadyPickedUp)
	_, err = f.svc.PickUp(ctx, pharm, "presc_missing")
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)

	assert.True(t, f.env.Repo.Load(ctx, partition.RolePharmacist).Prescriptions[0].PickedUp)
	assert.False(t, f.env.Repo.Load(ctx, partition.RolePhysician).Prescriptions[0].PickedUp)

	// a later reconcile keeps the local pickup
	list, err := f.svc.List(ctx, pharm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].PickedUp)
}

func TestForPatient_OneEntryPerID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rx, err := f.svc.Create(ctx, f.open(partition.RolePhysician, "dokter1"), CreateRequest{PatientID: "pat_1", Items: "Vitamin C"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.open(partition.RolePhysician, "dokter1"), CreateRequest{PatientID: "pat_2", Items: "Ibuprofen"})
	require.NoError(t, err)

	list := f.svc.ForPatient(ctx, "pat_1")
	require.Len(t, list, 1)
	assert.Equal(t, rx.ID, list[0].ID)
	assert.False(t, list[0].IsPropagated())
}
