package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/internal/api/http/handler"
	"github.com/Alijeyrad/kliniksehat/internal/api/http/middleware"
	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/service/appointment"
	"github.com/Alijeyrad/kliniksehat/internal/service/auth"
	"github.com/Alijeyrad/kliniksehat/internal/service/medrecord"
	"github.com/Alijeyrad/kliniksehat/internal/service/patient"
	"github.com/Alijeyrad/kliniksehat/internal/service/payment"
	"github.com/Alijeyrad/kliniksehat/internal/service/prescription"
	"github.com/Alijeyrad/kliniksehat/internal/service/report"
	"github.com/Alijeyrad/kliniksehat/internal/service/stock"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
	"github.com/Alijeyrad/kliniksehat/pkg/observability"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg     *config.Config
	Auth    authorize.IAuthorization
	Backend kvstore.Backend
	Roles   *partition.Registry
	Engine  syncer.Service

	AuthSvc         auth.Service
	PatientSvc      patient.Service
	AppointmentSvc  appointment.Service
	PaymentSvc      payment.Service
	StockSvc        stock.Service
	PrescriptionSvc prescription.Service
	MedRecordSvc    medrecord.Service
	ReportSvc       report.Service

	OTel *observability.Provider `optional:"true"`
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	sessionRequired := middleware.SessionRequired(r.p.AuthSvc)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	authH := handler.NewAuthHandler(r.p.AuthSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.AuthSvc)
	paymentH := handler.NewPaymentHandler(r.p.PaymentSvc, r.p.AuthSvc)
	stockH := handler.NewStockHandler(r.p.StockSvc, r.p.AuthSvc)
	prescriptionH := handler.NewPrescriptionHandler(r.p.PrescriptionSvc, r.p.AuthSvc)
	recordH := handler.NewMedicalRecordHandler(r.p.MedRecordSvc, r.p.AuthSvc)
	reportH := handler.NewReportHandler(r.p.ReportSvc, r.p.AuthSvc)
	meH := handler.NewMeHandler(r.p.PatientSvc, r.p.AppointmentSvc, r.p.MedRecordSvc, r.p.PrescriptionSvc)
	syncH := handler.NewSyncHandler(r.p.Engine, r.p.Roles, r.p.AuthSvc)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH, sessionRequired)

	r.registerPatientRoutes(api, patientH, recordH, appointmentH, prescriptionH, sessionRequired, requirePerm)
	r.registerClinicRoutes(api, appointmentH, paymentH, stockH, prescriptionH, sessionRequired, requirePerm)
	r.registerReportRoutes(api, reportH, sessionRequired, requirePerm)
	r.registerMeRoutes(api, meH, sessionRequired, requirePerm)
	api.Post("/sync/reconcile", sessionRequired,
		requirePerm(authorize.ResourceSync, authorize.ActionExecute), syncH.Reconcile)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.storeReachable(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	obs := r.p.Cfg.Observability
	if r.p.OTel != nil && obs.Enabled && obs.Metrics.Enabled {
		path := obs.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.p.OTel.Handler()))
	}
}

func (r *Router) storeReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, _, err := r.p.Backend.Get(ctx, partition.SyncMarkerKey)
	return err == nil
}
