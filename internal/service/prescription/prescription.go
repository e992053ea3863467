package prescription

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/notify"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	PatientID string
	// Items is free text, one medicine per comma.
	Items string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Create stores the authoritative copy in the caller's partition, then
	// announces it in process and to other contexts.
	Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Prescription, error)

	// List returns the workspace's prescriptions, reconciling consumer roles
	// first.
	List(ctx context.Context, ws *partition.Workspace) ([]record.Prescription, error)

	// PickUp marks a prescription as handed over. Only the caller's copy
	// changes.
	PickUp(ctx context.Context, ws *partition.Workspace, id string) (*record.Prescription, error)

	// ForPatient lists a patient's prescriptions across partitions, one entry
	// per id.
	ForPatient(ctx context.Context, patientID string) []record.Prescription
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type prescriptionService struct {
	repo   *partition.Repository
	reader *syncer.Reader
	fresh  *syncer.Freshener
	bus    *notify.Bus
	marker *notify.Marker
	log    *slog.Logger
	now    func() time.Time
}

func New(
	repo *partition.Repository,
	reader *syncer.Reader,
	fresh *syncer.Freshener,
	bus *notify.Bus,
	marker *notify.Marker,
	log *slog.Logger,
) Service {
	if log == nil {
		log = slog.Default()
	}
	return &prescriptionService{
		repo:   repo,
		reader: reader,
		fresh:  fresh,
		bus:    bus,
		marker: marker,
		log:    log,
		now:    time.Now,
	}
}

func (s *prescriptionService) Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Prescription, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return nil, ErrPatientRequired
	}
	items := record.ParseItems(req.Items)
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	rx := record.Prescription{
		ID:        record.NewID(record.PrefixPrescription),
		PatientID: patientID,
		Items:     items,
		IssuedBy:  ws.Actor.Name,
		Datetime:  s.now(),
	}
	ws.Partition.Prescriptions = append([]record.Prescription{rx}, ws.Partition.Prescriptions...)
	s.repo.AppendLog(ctx, ws, "Resep dibuat untuk pasien "+patientID)

	s.bus.Saved(ctx, notify.Event{Origin: ws.Role, Prescription: rx})
	s.marker.Touch(ctx, rx.ID)

	s.log.Info("prescription created",
		slog.String("prescription_id", rx.ID),
		slog.String("role", ws.Role),
	)
	out := rx.Clone()
	return &out, nil
}

func (s *prescriptionService) List(ctx context.Context, ws *partition.Workspace) ([]record.Prescription, error) {
	if err := s.fresh.EnsureFresh(ctx, ws); err != nil {
		return nil, err
	}
	out := make([]record.Prescription, 0, len(ws.Partition.Prescriptions))
	for _, rx := range ws.Partition.Prescriptions {
		out = append(out, rx.Clone())
	}
	return out, nil
}

func (s *prescriptionService) PickUp(ctx context.Context, ws *partition.Workspace, id string) (*record.Prescription, error) {
	for i := range ws.Partition.Prescriptions {
		rx := &ws.Partition.Prescriptions[i]
		if rx.ID != id {
			continue
		}
		if rx.PickedUp {
			return nil, ErrAlreadyPickedUp
		}
		rx.PickedUp = true
		s.repo.AppendLog(ctx, ws, "Resep diambil: "+id)
		out := rx.Clone()
		return &out, nil
	}
	return nil, ErrPrescriptionNotFound
}

func (s *prescriptionService) ForPatient(ctx context.Context, patientID string) []record.Prescription {
	all := s.reader.PrescriptionsForPatient(ctx, patientID)

	// keep list order, swapping in the authoritative copy when one turns up
	idx := make(map[string]int, len(all))
	out := []record.Prescription{}
	for _, rx := range all {
		i, seen := idx[rx.ID]
		if !seen {
			idx[rx.ID] = len(out)
			out = append(out, rx)
			continue
		}
		if out[i].IsPropagated() && !rx.IsPropagated() {
			out[i] = rx
		}
	}
	return out
}
