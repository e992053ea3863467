package notify

import (
	"context"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// MarkerValue is the pulse written on every prescription creation. Only the
// latest is kept.
type MarkerValue struct {
	TS int64  `json:"ts"` // unix milliseconds
	ID string `json:"id"`
}

type Marker struct {
	store *kvstore.Store
	now   func() time.Time
}

func NewMarker(store *kvstore.Store) *Marker {
	return &Marker{store: store, now: time.Now}
}

func (m *Marker) Touch(ctx context.Context, prescriptionID string) {
	m.store.Save(ctx, partition.SyncMarkerKey, MarkerValue{TS: m.now().UnixMilli(), ID: prescriptionID})
}

func (m *Marker) Last(ctx context.Context) (MarkerValue, bool) {
	return kvstore.Peek[MarkerValue](ctx, m.store, partition.SyncMarkerKey)
}
