package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/partition/partitiontest"
)

func TestUpsertValidation(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	svc := New(env.Repo)
	ws := env.Repo.Open(ctx, partition.RolePharmacist, partition.Actor{Username: "apoteker1"})

	tests := []struct {
		name string
		req  UpsertRequest
		want error
	}{
		{"blank name", UpsertRequest{Name: "  "}, ErrNameRequired},
		{"negative qty", UpsertRequest{Name: "Amoxicillin", Qty: -1}, ErrNegativeCount},
		{"unknown id", UpsertRequest{ID: "stk_missing", Name: "Amoxicillin"}, ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, ws, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpsertListLow(t *testing.T) {
	env := partitiontest.New(t)
	ctx := context.Background()
	svc := New(env.Repo)
	ws := env.Repo.Open(ctx, partition.RolePharmacist, partition.Actor{Username: "apoteker1"})

	amox, err := svc.Upsert(ctx, ws, UpsertRequest{Name: "Amoxicillin", Qty: 50, Unit: "tab", MinThreshold: 10})
	require.NoError(t, err)
	para, err := svc.Upsert(ctx, ws, UpsertRequest{Name: "Paracetamol", Qty: 5, Unit: "tab", MinThreshold: 5})
	require.NoError(t, err)

	low := svc.Low(ws)
	require.Len(t, low, 1)
	assert.Equal(t, para.ID, low[0].ID)

	_, err = svc.Upsert(ctx, ws, UpsertRequest{ID: amox.ID, Name: "Amoxicillin", Qty: 3, Unit: "tab", MinThreshold: 10})
	require.NoError(t, err)
	assert.Len(t, svc.Low(ws), 2)

	stored := env.Repo.Load(ctx, partition.RolePharmacist)
	require.Len(t, stored.Stock, 2)
	assert.Equal(t, "Stok update: Amoxicillin", stored.Logs[0].Text)

	require.NoError(t, svc.Delete(ctx, ws, para.ID))
	assert.Len(t, svc.List(ctx, ws), 1)
	assert.ErrorIs(t, svc.Delete(ctx, ws, para.ID), ErrItemNotFound)
}
