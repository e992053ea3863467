package syncer

import (
	"context"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

// Freshener is the stage run before a consumer role looks at prescriptions.
// Other roles pass through untouched.
type Freshener struct {
	sync      Service
	consumers map[string]bool
}

func NewFreshener(sync Service, consumerRoles []string) *Freshener {
	f := &Freshener{sync: sync, consumers: make(map[string]bool, len(consumerRoles))}
	for _, r := range consumerRoles {
		f.consumers[partition.RoleKey(r)] = true
	}
	return f
}

func (f *Freshener) IsConsumer(role string) bool {
	return f.consumers[partition.RoleKey(role)]
}

func (f *Freshener) EnsureFresh(ctx context.Context, ws *partition.Workspace) error {
	if !f.IsConsumer(ws.Role) {
		return nil
	}
	return f.sync.ReconcileInto(ctx, ws)
}
