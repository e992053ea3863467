package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/notify"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/events"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// WorkerModule registers the background reconcilers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

// workerActor is recorded on partitions opened by background workers.
var workerActor = partition.Actor{Username: "system", Name: "Sinkronisasi"}

type WorkerParams struct {
	fx.In

	Lc      fx.Lifecycle
	Cfg     *config.Config
	Log     *slog.Logger
	Backend kvstore.Backend
	Repo    *partition.Repository
	Engine  syncer.Service
	Fresh   *syncer.Freshener
	NC      *nats.Conn `optional:"true"`
}

func RegisterWorkers(p WorkerParams) {
	ctx, cancel := context.WithCancel(context.Background())
	var scheduler *cron.Cron

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			startMarkerWatcher(ctx, p)
			if p.NC != nil {
				if err := startPrescriptionSubscriber(p); err != nil {
					return err
				}
			}
			var err error
			if scheduler, err = startResyncCron(p); err != nil {
				return err
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			if scheduler != nil {
				<-scheduler.Stop().Done()
			}
			// NATS drain is handled by ProvideNatsClient
			return nil
		},
	})
}

// ReconcileRoles reconciles each role in turn, logging failures.
func ReconcileRoles(ctx context.Context, engine syncer.Service, roles []string, log *slog.Logger) int {
	done := 0
	for _, role := range roles {
		p, err := engine.Reconcile(ctx, role)
		if err != nil {
			log.Warn("reconcile failed", slog.String("role", role), slog.Any("error", err))
			continue
		}
		log.Debug("reconciled", slog.String("role", role), slog.Int("prescriptions", len(p.Prescriptions)))
		done++
	}
	return done
}

// ---------------------------------------------------------------------------
// marker watcher
// ---------------------------------------------------------------------------

// startMarkerWatcher reacts to prescriptions written by other processes that
// share the store.
func startMarkerWatcher(ctx context.Context, p WorkerParams) {
	var workspaces []*partition.Workspace
	for _, role := range p.Cfg.Sync.ConsumerRoles {
		workspaces = append(workspaces, p.Repo.Open(ctx, role, workerActor))
	}
	if len(workspaces) == 0 {
		return
	}

	w := notify.NewWatcher(p.Backend, p.Engine, p.Fresh, p.Log)
	go func() {
		if err := w.Run(ctx, workspaces...); err != nil && ctx.Err() == nil {
			p.Log.Error("marker_watcher: stopped", slog.Any("error", err))
		}
	}()
	p.Log.Info("marker_watcher: started", slog.Int("roles", len(workspaces)))
}

// ---------------------------------------------------------------------------
// prescription subscriber
// ---------------------------------------------------------------------------

func startPrescriptionSubscriber(p WorkerParams) error {
	self := p.Backend.Origin()
	bus := events.NewNATS(p.NC, p.Cfg.Events.SubjectPrefix)

	_, err := bus.SubscribePrescriptionCreated(func(ev events.PrescriptionCreated) {
		if ev.Source == self {
			return
		}
		n := ReconcileRoles(context.Background(), p.Engine, p.Cfg.Sync.ConsumerRoles, p.Log)
		p.Log.Info("prescription_subscriber: reconciled",
			slog.String("prescription_id", ev.ID),
			slog.Int("roles", n),
		)
	})
	if err != nil {
		p.Log.Error("prescription_subscriber: subscribe failed", slog.Any("error", err))
		return err
	}
	p.Log.Info("prescription_subscriber: started")
	return nil
}

// ---------------------------------------------------------------------------
// resync cron
// ---------------------------------------------------------------------------

func startResyncCron(p WorkerParams) (*cron.Cron, error) {
	schedule := p.Cfg.Sync.ResyncSchedule
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ReconcileRoles(context.Background(), p.Engine, p.Cfg.Sync.ConsumerRoles, p.Log)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	p.Log.Info("resync_cron: started", slog.String("schedule", schedule))
	return c, nil
}
