package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/appointment"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/medrecord"
	"github.com/Alijeyrad/kliniksehat/internal/service/notify"
	"github.com/Alijeyrad/kliniksehat/internal/service/patient"
	"github.com/Alijeyrad/kliniksehat/internal/service/payment"
	"github.com/Alijeyrad/kliniksehat/internal/service/prescription"
	"github.com/Alijeyrad/kliniksehat/internal/service/report"
	"github.com/Alijeyrad/kliniksehat/internal/service/stock"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/events"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

// ServiceModule provides the partition core and every clinic service.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideRoles,
		ProvideRepository,
		ProvideSyncEngine,
		ProvideReader,
		ProvideFreshener,
		ProvideBus,
		ProvideMarker,
		ProvideAuthService,
		ProvidePatientService,
		ProvideAppointmentService,
		ProvidePaymentService,
		ProvideStockService,
		ProvidePrescriptionService,
		ProvideMedRecordService,
		ProvideReportService,
	),
)

func ProvideRoles(cfg *config.Config) (*partition.Registry, error) {
	return partition.NewRegistry(cfg.Sync.Roles...)
}

func ProvideRepository(store *kvstore.Store, log *slog.Logger) *partition.Repository {
	return partition.NewRepository(store, log)
}

func ProvideSyncEngine(repo *partition.Repository, roles *partition.Registry, log *slog.Logger) syncer.Service {
	return syncer.New(repo, roles, log)
}

func ProvideReader(repo *partition.Repository, roles *partition.Registry) *syncer.Reader {
	return syncer.NewReader(repo, roles)
}

func ProvideFreshener(engine syncer.Service, cfg *config.Config) *syncer.Freshener {
	return syncer.NewFreshener(engine, cfg.Sync.ConsumerRoles)
}

// ProvideBus wires the saved signal to propagation and the created signal
// to the NATS publisher.
func ProvideBus(
	cfg *config.Config,
	engine syncer.Service,
	publisher events.Publisher,
	backend kvstore.Backend,
	log *slog.Logger,
) *notify.Bus {
	bus := notify.NewBus()
	notify.PropagateOnSave(bus, engine, cfg.Sync.PropagateTo)

	source := backend.Origin()
	bus.OnCreated(func(ctx context.Context, ev notify.Event) {
		err := publisher.PrescriptionCreated(ctx, events.PrescriptionCreated{
			ID:        ev.Prescription.ID,
			PatientID: ev.Prescription.PatientID,
			Origin:    ev.Origin,
			IssuedBy:  ev.Prescription.IssuedBy,
			Datetime:  ev.Prescription.Datetime,
			Source:    source,
		})
		if err != nil {
			log.Warn("publish prescription.created failed",
				slog.String("prescription_id", ev.Prescription.ID),
				slog.Any("error", err),
			)
		}
	})
	return bus
}

func ProvideMarker(store *kvstore.Store) *notify.Marker {
	return notify.NewMarker(store)
}

func ProvideAuthService(repo *partition.Repository, fresh *syncer.Freshener, log *slog.Logger) auth.Service {
	return auth.New(repo, fresh, log)
}

func ProvidePatientService(repo *partition.Repository, cfg *config.Config) patient.Service {
	return patient.New(repo, cfg.Clinic.PhoneRegion)
}

func ProvideAppointmentService(repo *partition.Repository, reader *syncer.Reader) appointment.Service {
	return appointment.New(repo, reader)
}

func ProvidePaymentService(repo *partition.Repository) payment.Service {
	return payment.New(repo)
}

func ProvideStockService(repo *partition.Repository) stock.Service {
	return stock.New(repo)
}

func ProvidePrescriptionService(
	repo *partition.Repository,
	reader *syncer.Reader,
	fresh *syncer.Freshener,
	bus *notify.Bus,
	marker *notify.Marker,
	log *slog.Logger,
) prescription.Service {
	return prescription.New(repo, reader, fresh, bus, marker, log)
}

func ProvideMedRecordService(repo *partition.Repository, reader *syncer.Reader) medrecord.Service {
	return medrecord.New(repo, reader)
}

func ProvideReportService(repo *partition.Repository) report.Service {
	return report.New(repo)
}
