package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/partition/partitiontest"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

func TestSummaryAndCSV(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	env.Repo.SaveGlobalPatients(ctx, []record.Patient{{ID: "pat_1"}, {ID: "pat_2"}, {ID: "pat_3"}})

	ws := env.Repo.Open(ctx, partition.RoleManager, partition.Actor{Username: "manajer1"})
	ws.Partition.Appointments = []record.Appointment{{ID: "appt_1"}}
	ws.Partition.Payments = []record.Payment{{ID: "pay_1", Amount: 100000}, {ID: "pay_2", Amount: 50000}}
	ws.Partition.Stock = []record.StockItem{
		{ID: "stk_1", Name: "Amoxicillin", Qty: 2, MinThreshold: 5},
		{ID: "stk_2", Name: "Paracetamol", Qty: 20, MinThreshold: 5},
	}
	env.Repo.Commit(ctx, ws)
	env.Repo.AppendLog(ctx, ws, "Stok update: Amoxicillin")

	svc := New(env.Repo)
	sum := svc.Summary(ctx, ws)
	assert.Equal(t, 3, sum.Patients)
	assert.Equal(t, 1, sum.Appointments)
	assert.InDelta(t, 150000, sum.PaymentTotal, 0.001)
	require.Len(t, sum.LowStock, 1)
	assert.Equal(t, "stk_1", sum.LowStock[0].ID)

	data, err := svc.CSV(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, "Key,Value\nPatients,3\nAppointments,1\nPayments,150000\n", string(data))

	logs := svc.Activity(ctx, ws)
	require.Len(t, logs, 1)
	assert.Equal(t, "Stok update: Amoxicillin", logs[0].Text)
}

func TestSummary_EmptyPartition(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	ws := env.Repo.Open(ctx, partition.RoleCashier, partition.Actor{Username: "kasir1"})

	sum := New(env.Repo).Summary(ctx, ws)
	assert.Zero(t, sum.Patients)
	assert.NotNil(t, sum.LowStock)
}
