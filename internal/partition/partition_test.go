package partition

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

func newTestRepo(t *testing.T) (*Repository, *kvstore.Memory) {
	t.Helper()
	mem := kvstore.NewSpace(0).Open()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRepository(kvstore.New(mem, log), log), mem
}

func TestRoleKey(t *testing.T) {
	tests := map[string]string{
		"Petugas Administrasi": "petugasadministrasi",
		"Manajer Klinik":       "manajerklinik",
		"  Dok\tter ":          "dokter",
		"":                     "unknown",
		"   ":                  "unknown",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, RoleKey(in))
		})
	}
	assert.Equal(t, "ks_data_apoteker", KeyForRole("Apoteker"))
}

func TestDefaultRoles_KeysAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DefaultRoles() {
		k := KeyForRole(r)
		assert.False(t, seen[k], "duplicate key %s", k)
		assert.NotEqual(t, GlobalPatientsKey, k)
		seen[k] = true
	}
	assert.Len(t, seen, 7)
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(DefaultRoles()...)
	require.NoError(t, err)

	assert.True(t, reg.Contains("apoteker"))
	assert.True(t, reg.Contains("petugas administrasi"))
	assert.False(t, reg.Contains("Satpam"))

	c, ok := reg.Canonical("MANAJERKLINIK")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, c)

	roles := reg.Roles()
	roles[0] = "mutated"
	assert.Equal(t, RoleAdminStaff, reg.Roles()[0])

	_, err = NewRegistry()
	assert.ErrorIs(t, err, ErrEmptyRegistry)

	_, err = NewRegistry("Dokter", "dok ter")
	assert.ErrorIs(t, err, ErrRoleCollision)
}

func TestLoad_InitializesAndPersists(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)

	p := repo.Load(ctx, RolePhysician)
	require.NotNil(t, p)
	assert.NotNil(t, p.Appointments)
	assert.NotNil(t, p.MedicalRecords)
	assert.Empty(t, p.Prescriptions)

	raw, ok, _ := mem.Get(ctx, "ks_data_dokter")
	require.True(t, ok)
	for _, field := range []string{"appointments", "payments", "prescriptions", "stock", "logs", "medicalRecords"} {
		assert.Contains(t, raw, `"`+field+`":[]`)
	}
}

func TestLoad_RepairsMissingCollections(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)
	require.NoError(t, mem.Set(ctx, "ks_data_kasir", `{"payments":[{"id":"pay_1","amount":5}]}`))

	p := repo.Load(ctx, RoleCashier)
	require.Len(t, p.Payments, 1)
	assert.NotNil(t, p.Logs)

	raw, _, _ := mem.Get(ctx, "ks_data_kasir")
	assert.Contains(t, raw, `"medicalRecords":[]`)
}

func TestLoad_CorruptPartitionRecovered(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)
	require.NoError(t, mem.Set(ctx, "ks_data_apoteker", "{{{ not json"))

	p := repo.Load(ctx, RolePharmacist)
	assert.Empty(t, p.Prescriptions)

	archived, err := mem.Keys(ctx, "ks_data_apoteker_corrupt_")
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestLoadGlobalPatients_Corrupt(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)
	require.NoError(t, mem.Set(ctx, GlobalPatientsKey, "oops"))

	list := repo.LoadGlobalPatients(ctx)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	archived, _ := mem.Keys(ctx, GlobalPatientsKey+"_corrupt_")
	assert.Len(t, archived, 1)
}

func TestGlobalPatients_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.True(t, repo.SaveGlobalPatients(ctx, []record.Patient{{ID: "pat_1", Name: "Budi Santoso"}}))
	list := repo.LoadGlobalPatients(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "Budi Santoso", list[0].Name)
}

func TestPeek_DoesNotCreate(t *testing.T) {
	ctx := context.Background()
	repo, mem := newTestRepo(t)

	_, ok := repo.Peek(ctx, RoleNurse)
	assert.False(t, ok)

	_, exists, _ := mem.Get(ctx, "ks_data_perawat")
	assert.False(t, exists)
}

func TestAppendLog_PrependsAndCommits(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	ws := repo.Open(ctx, RolePhysician, Actor{Username: "dokter1", Name: "dr. Andi"})
	repo.AppendLog(ctx, ws, "first")
	repo.AppendLog(ctx, ws, "second")

	require.Len(t, ws.Partition.Logs, 2)
	assert.Equal(t, "second", ws.Partition.Logs[0].Text)

	stored := repo.Load(ctx, RolePhysician)
	require.Len(t, stored.Logs, 2)
	assert.Equal(t, "second", stored.Logs[0].Text)
}

func TestClone_IsIndependent(t *testing.T) {
	p := New()
	p.Prescriptions = append(p.Prescriptions, record.Prescription{ID: "rx_1", Items: []record.Item{{Name: "a"}}})

	c := p.Clone()
	c.Prescriptions[0].Items[0].Name = "b"
	c.Logs = append(c.Logs, record.LogEntry{ID: "log_1"})

	assert.Equal(t, "a", p.Prescriptions[0].Items[0].Name)
	assert.Empty(t, p.Logs)
}

func TestBootstrap(t *testing.T) {
	repo, mem := newTestRepo(t)
	ctx := context.Background()

	repo.Save(ctx, RolePhysician, New())
	created := repo.Bootstrap(ctx, DefaultRoles())
	assert.Equal(t, len(DefaultRoles())-1, created)

	raw, ok, err := mem.Get(ctx, GlobalPatientsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	assert.Zero(t, repo.Bootstrap(ctx, DefaultRoles()))
}

func TestRepair(t *testing.T) {
	repo, mem := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, KeyForRole(RolePharmacist), `{"prescriptions":[]}`))
	repo.Save(ctx, RoleCashier, New())

	fixed := repo.Repair(ctx, DefaultRoles())
	assert.Equal(t, []string{RolePharmacist}, fixed)

	raw, _, err := mem.Get(ctx, KeyForRole(RolePharmacist))
	require.NoError(t, err)
	assert.Contains(t, raw, `"medicalRecords":[]`)

	// absent partitions are not created
	_, ok, _ := mem.Get(ctx, KeyForRole(RoleManager))
	assert.False(t, ok)
}

func TestBootstrap_ArchivesCorruptValues(t *testing.T) {
	repo, mem := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, GlobalPatientsKey, "not json"))
	require.NoError(t, mem.Set(ctx, KeyForRole(RolePhysician), "{broken"))

	created := repo.Bootstrap(ctx, DefaultRoles())
	assert.Equal(t, len(DefaultRoles()), created)

	archived, err := mem.Keys(ctx, GlobalPatientsKey+"_corrupt_")
	require.NoError(t, err)
	assert.Len(t, archived, 1)
	raw, _, _ := mem.Get(ctx, archived[0])
	assert.Equal(t, "not json", raw)

	archived, err = mem.Keys(ctx, KeyForRole(RolePhysician)+"_corrupt_")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	raw, _, _ = mem.Get(ctx, archived[0])
	assert.Equal(t, "{broken", raw)

	raw, _, _ = mem.Get(ctx, GlobalPatientsKey)
	assert.Equal(t, "[]", raw)
	assert.NotNil(t, repo.Load(ctx, RolePhysician).Prescriptions)
}

func TestRepair_CorruptPartitionArchived(t *testing.T) {
	repo, mem := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, KeyForRole(RoleNurse), "{{"))

	fixed := repo.Repair(ctx, DefaultRoles())
	assert.Equal(t, []string{RoleNurse}, fixed)

	archived, err := mem.Keys(ctx, KeyForRole(RoleNurse)+"_corrupt_")
	require.NoError(t, err)
	assert.Len(t, archived, 1)
	raw, _, _ := mem.Get(ctx, KeyForRole(RoleNurse))
	assert.Contains(t, raw, `"logs":[]`)
}
