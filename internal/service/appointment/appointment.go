package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	PatientID string
	Doctor    string
	Datetime  time.Time
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Appointment, error)
	UpdateStatus(ctx context.Context, ws *partition.Workspace, id, status string) (*record.Appointment, error)
	Delete(ctx context.Context, ws *partition.Workspace, id string) error
	List(ctx context.Context, ws *partition.Workspace) []record.Appointment

	// ForPatient lists a patient's appointments from every partition.
	ForPatient(ctx context.Context, patientID string) []record.Appointment

	// NewQueue books a visit from the patient-facing screen. It is written
	// to the patient role's partition, not the caller's workspace.
	NewQueue(ctx context.Context, actor partition.Actor, req CreateRequest) (*record.Appointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	repo   *partition.Repository
	reader *syncer.Reader
}

func New(repo *partition.Repository, reader *syncer.Reader) Service {
	return &appointmentService{repo: repo, reader: reader}
}

func (s *appointmentService) validate(ctx context.Context, req CreateRequest) error {
	if strings.TrimSpace(req.PatientID) == "" {
		return ErrPatientRequired
	}
	if req.Datetime.IsZero() {
		return ErrDatetimeRequired
	}
	for _, p := range s.repo.LoadGlobalPatients(ctx) {
		if p.ID == req.PatientID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPatient, req.PatientID)
}

func (s *appointmentService) Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Appointment, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	doctor := strings.TrimSpace(req.Doctor)
	if doctor == "" {
		doctor = ws.Actor.Name
	}
	appt := record.Appointment{
		ID:        record.NewID(record.PrefixAppointment),
		PatientID: req.PatientID,
		Doctor:    doctor,
		Datetime:  req.Datetime,
		Status:    record.StatusScheduled,
		CreatedBy: ws.Actor.Username,
	}
	ws.Partition.Appointments = append([]record.Appointment{appt}, ws.Partition.Appointments...)
	s.repo.AppendLog(ctx, ws, "Janji dibuat untuk pasien "+appt.PatientID)
	return &appt, nil
}

func validStatus(status string) bool {
	switch status {
	case record.StatusScheduled, record.StatusDone, record.StatusCancelled:
		return true
	}
	return false
}

func (s *appointmentService) UpdateStatus(ctx context.Context, ws *partition.Workspace, id, status string) (*record.Appointment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	for i := range ws.Partition.Appointments {
		a := &ws.Partition.Appointments[i]
		if a.ID != id {
			continue
		}
		a.Status = status
		s.repo.AppendLog(ctx, ws, "Janji diupdate: "+id)
		out := *a
		return &out, nil
	}
	return nil, ErrAppointmentNotFound
}

func (s *appointmentService) Delete(ctx context.Context, ws *partition.Workspace, id string) error {
	list := ws.Partition.Appointments
	for i := range list {
		if list[i].ID == id {
			ws.Partition.Appointments = append(list[:i:i], list[i+1:]...)
			s.repo.AppendLog(ctx, ws, "Janji dihapus: "+id)
			return nil
		}
	}
	return ErrAppointmentNotFound
}

func (s *appointmentService) List(_ context.Context, ws *partition.Workspace) []record.Appointment {
	return append([]record.Appointment{}, ws.Partition.Appointments...)
}

func (s *appointmentService) ForPatient(ctx context.Context, patientID string) []record.Appointment {
	return s.reader.AppointmentsForPatient(ctx, patientID)
}

func (s *appointmentService) NewQueue(ctx context.Context, actor partition.Actor, req CreateRequest) (*record.Appointment, error) {
	ws := s.repo.Open(ctx, partition.RolePatient, actor)
	return s.Create(ctx, ws, req)
}
