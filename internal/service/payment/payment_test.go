package payment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/partition/partitiontest"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

func TestCreate(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	svc := New(env.Repo)
	ws := env.Repo.Open(ctx, partition.RoleCashier, partition.Actor{Username: "kasir1", Name: "Kasir A"})

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"missing patient", CreateRequest{Amount: 10}, ErrPatientRequired},
		{"zero amount", CreateRequest{PatientID: "pat_1"}, ErrInvalidAmount},
		{"negative amount", CreateRequest{PatientID: "pat_1", Amount: -5}, ErrInvalidAmount},
		{"nan amount", CreateRequest{PatientID: "pat_1", Amount: math.NaN()}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, ws, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	p, err := svc.Create(ctx, ws, CreateRequest{PatientID: "pat_1", Amount: 150000})
	require.NoError(t, err)
	assert.Equal(t, record.DefaultPaymentMethod, p.Method)

	_, err = svc.Create(ctx, ws, CreateRequest{PatientID: "pat_2", Amount: 25000.5, Method: "QRIS"})
	require.NoError(t, err)

	assert.InDelta(t, 175000.5, svc.Total(ws), 0.001)
	list := svc.List(ctx, ws)
	require.Len(t, list, 2)
	assert.Equal(t, "QRIS", list[0].Method)

	stored := env.Repo.Load(ctx, partition.RoleCashier)
	require.Len(t, stored.Logs, 2)
	assert.Equal(t, "Pembayaran: "+p.ID+" pasien:pat_1 rp 150000", stored.Logs[1].Text)
}
