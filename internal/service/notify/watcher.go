package notify

import (
	"context"
	"log/slog"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// Watcher reconciles consumer workspaces whenever another context writes
// the sync marker.
type Watcher struct {
	backend kvstore.Backend
	sync    syncer.Service
	fresh   *syncer.Freshener
	log     *slog.Logger

	// OnRefresh, when set, is called after a workspace has been reconciled.
	OnRefresh func(ws *partition.Workspace)
}

func NewWatcher(backend kvstore.Backend, sync syncer.Service, fresh *syncer.Freshener, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{backend: backend, sync: sync, fresh: fresh, log: log}
}

// Run blocks until ctx is done. Workspaces are only touched from Run's goroutine.
func (w *Watcher) Run(ctx context.Context, workspaces ...*partition.Workspace) error {
	changes, err := w.backend.Watch(ctx)
	if err != nil {
		return err
	}

	for change := range changes {
		if change.Key != partition.SyncMarkerKey || change.Removed {
			continue
		}
		for _, ws := range workspaces {
			if !w.fresh.IsConsumer(ws.Role) {
				continue
			}
			if err := w.sync.ReconcileInto(ctx, ws); err != nil {
				w.log.Warn("watcher: reconcile failed", slog.String("role", ws.Role), slog.Any("error", err))
				continue
			}
			w.log.Info("watcher: partition refreshed",
				slog.String("role", ws.Role),
				slog.Int("prescriptions", len(ws.Partition.Prescriptions)),
			)
			if w.OnRefresh != nil {
				w.OnRefresh(ws)
			}
		}
	}
	return ctx.Err()
}
