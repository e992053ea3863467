package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

func TestFreshener(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fresh := NewFreshener(f.sync, []string{"pharmacist"})

	assert.True(t, fresh.IsConsumer("Pharmacist"))
	assert.False(t, fresh.IsConsumer("Physician"))

	f.seed(t, "Physician", rx("rx_1", 100))

	consumer := f.repo.Open(ctx, "Pharmacist", partition.Actor{})
	require.NoError(t, fresh.EnsureFresh(ctx, consumer))
	assert.Len(t, consumer.Partition.Prescriptions, 1)

	other := f.repo.Open(ctx, partition.RoleAdminStaff, partition.Actor{})
	require.NoError(t, fresh.EnsureFresh(ctx, other))
	assert.Empty(t, other.Partition.Prescriptions)
}
