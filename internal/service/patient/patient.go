package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

const DOBLayout = "2006-01-02"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name  string
	Phone string
	DOB   string
	Notes string
}

// UpdateRequest replaces only the non-nil fields.
type UpdateRequest struct {
	Name  *string
	Phone *string
	DOB   *string
	Notes *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, search string) []record.Patient
	Get(ctx context.Context, id string) (*record.Patient, error)
	Create(ctx context.Context, req CreateRequest) (*record.Patient, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*record.Patient, error)
	Delete(ctx context.Context, id string) error

	// EnsureForUser finds the patient named like the user, creating one on
	// first self-service access.
	EnsureForUser(ctx context.Context, actor partition.Actor) (*record.Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	repo   *partition.Repository
	region string
}

// New validates phone numbers against region (an ISO 3166 code such as "ID").
func New(repo *partition.Repository, region string) Service {
	return &patientService{repo: repo, region: strings.ToUpper(region)}
}

func (s *patientService) List(ctx context.Context, search string) []record.Patient {
	list := s.repo.LoadGlobalPatients(ctx)
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return list
	}

	out := []record.Patient{}
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(p.Phone, search) {
			out = append(out, p)
		}
	}
	return out
}

func (s *patientService) Get(ctx context.Context, id string) (*record.Patient, error) {
	for _, p := range s.repo.LoadGlobalPatients(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (s *patientService) Create(ctx context.Context, req CreateRequest) (*record.Patient, error) {
	p := record.Patient{
		ID:    record.NewID(record.PrefixPatient),
		Name:  strings.TrimSpace(req.Name),
		Notes: strings.TrimSpace(req.Notes),
	}
	if p.Name == "" {
		return nil, ErrNameRequired
	}

	var err error
	if p.Phone, err = s.normalizePhone(req.Phone); err != nil {
		return nil, err
	}
	if p.DOB, err = normalizeDOB(req.DOB); err != nil {
		return nil, err
	}

	list := s.repo.LoadGlobalPatients(ctx)
	s.repo.SaveGlobalPatients(ctx, append([]record.Patient{p}, list...))
	return &p, nil
}

func (s *patientService) Update(ctx context.Context, id string, req UpdateRequest) (*record.Patient, error) {
	list := s.repo.LoadGlobalPatients(ctx)

	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPatientNotFound
	}

	p := list[idx]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		p.Name = name
	}
	if req.Phone != nil {
		phone, err := s.normalizePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		p.Phone = phone
	}
	if req.DOB != nil {
		dob, err := normalizeDOB(*req.DOB)
		if err != nil {
			return nil, err
		}
		p.DOB = dob
	}
	if req.Notes != nil {
		p.Notes = strings.TrimSpace(*req.Notes)
	}

	list[idx] = p
	s.repo.SaveGlobalPatients(ctx, list)
	return &p, nil
}

func (s *patientService) Delete(ctx context.Context, id string) error {
	list := s.repo.LoadGlobalPatients(ctx)
	out := make([]record.Patient, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	if len(out) == len(list) {
		return ErrPatientNotFound
	}
	s.repo.SaveGlobalPatients(ctx, out)
	return nil
}

func (s *patientService) EnsureForUser(ctx context.Context, actor partition.Actor) (*record.Patient, error) {
	name := actor.Name
	if name == "" {
		name = actor.Username
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	list := s.repo.LoadGlobalPatients(ctx)
	for _, p := range list {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}

	p := record.Patient{
		ID:    record.NewID(record.PrefixPatient),
		Name:  name,
		Notes: fmt.Sprintf("Auto-created for user %s", actor.Username),
	}
	s.repo.SaveGlobalPatients(ctx, append([]record.Patient{p}, list...))
	return &p, nil
}

// normalizePhone returns "" for an empty input and E.164 otherwise.
func (s *patientService) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, s.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func normalizeDOB(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(DOBLayout, raw); err != nil {
		return "", ErrInvalidDOB
	}
	return raw, nil
}
