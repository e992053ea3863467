package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/kliniksehat/internal/api/http/handler"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
)

func (r *Router) registerPatientRoutes(
	api fiber.Router,
	ph *handler.PatientHandler,
	rh *handler.MedicalRecordHandler,
	ah *handler.AppointmentHandler,
	xh *handler.PrescriptionHandler,
	sessionRequired fiber.Handler,
	requirePerm permFunc,
) {
	patients := api.Group("/patients", sessionRequired)
	patients.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionRead), ph.List)
	patients.Post("/", requirePerm(authorize.ResourcePatient, authorize.ActionCreate), ph.Create)

	p := patients.Group("/:id")
	p.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionRead), ph.Get)
	p.Patch("/", requirePerm(authorize.ResourcePatient, authorize.ActionUpdate), ph.Update)
	p.Delete("/", requirePerm(authorize.ResourcePatient, authorize.ActionDelete), ph.Delete)

	// cross-partition views
	p.Get("/records", requirePerm(authorize.ResourceMedicalRecord, authorize.ActionRead), rh.History)
	p.Post("/records", requirePerm(authorize.ResourceMedicalRecord, authorize.ActionCreate), rh.Add)
	p.Get("/appointments", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.ForPatient)
	p.Get("/prescriptions", requirePerm(authorize.ResourcePrescription, authorize.ActionRead), xh.ForPatient)
}
