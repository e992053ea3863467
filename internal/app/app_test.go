package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/prescription"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Sync.ResyncSchedule = "@every 1h"
	return &cfg
}

type graph struct {
	fx.In

	Auth          auth.Service
	Prescriptions prescription.Service
	Repo          *partition.Repository
	Engine        syncer.Service
}

func startGraph(t *testing.T, cfg *config.Config) graph {
	var g graph
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg),
		InfraModule,
		ServiceModule,
		WorkerModule,
		fx.Populate(&g),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return g
}

func createAndFetch(t *testing.T, g graph) {
	ctx := context.Background()

	doctor, err := g.Auth.Login(ctx, auth.LoginRequest{Username: "dokter1", Password: "demo"})
	require.NoError(t, err)
	ws, err := g.Auth.Workspace(ctx, doctor)
	require.NoError(t, err)

	rx, err := g.Prescriptions.Create(ctx, ws, prescription.CreateRequest{PatientID: "pat_1", Items: "Amoxicillin"})
	require.NoError(t, err)

	pharmacist, err := g.Auth.Login(ctx, auth.LoginRequest{Username: "apoteker1", Password: "demo"})
	require.NoError(t, err)
	pws, err := g.Auth.Workspace(ctx, pharmacist)
	require.NoError(t, err)

	list, err := g.Prescriptions.List(ctx, pws)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rx.ID, list[0].ID)
	assert.Equal(t, partition.RolePhysician, list[0].PropagatedFrom)

	// admin staff is a propagation target but not a consumer
	admin := g.Repo.Load(ctx, partition.RoleAdminStaff)
	assert.Len(t, admin.Prescriptions, 1)
}

func TestGraph_MemoryStore(t *testing.T) {
	createAndFetch(t, startGraph(t, testConfig()))
}

func TestGraph_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Store.Driver = config.StoreDriverRedis
	cfg.Redis.Addr = mr.Addr()

	createAndFetch(t, startGraph(t, cfg))

	keys := mr.Keys()
	assert.Contains(t, keys, cfg.Store.Namespace+partition.KeyForRole(partition.RolePharmacist))
	assert.Contains(t, keys, cfg.Store.Namespace+partition.SyncMarkerKey)
}

func TestReconcileRoles(t *testing.T) {
	g := startGraph(t, testConfig())
	ctx := context.Background()

	n := ReconcileRoles(ctx, g.Engine, []string{partition.RolePharmacist, "Tukang Parkir"}, discardLogger())
	assert.Equal(t, 1, n)
}
