// Package medrecord authors medical records into the caller's partition and
// reads a patient's history back from all of them.
package medrecord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
	"github.com/Alijeyrad/kliniksehat/internal/service/syncer"
)

type AddRequest struct {
	PatientID string
	Notes     string
}

type Service interface {
	Add(ctx context.Context, ws *partition.Workspace, req AddRequest) (*record.MedicalRecord, error)
	History(ctx context.Context, patientID string) []record.MedicalRecord
}

type medrecordService struct {
	repo   *partition.Repository
	reader *syncer.Reader
	now    func() time.Time
}

func New(repo *partition.Repository, reader *syncer.Reader) Service {
	return &medrecordService{repo: repo, reader: reader, now: time.Now}
}

func (s *medrecordService) Add(ctx context.Context, ws *partition.Workspace, req AddRequest) (*record.MedicalRecord, error) {
	m := record.MedicalRecord{
		ID:        record.NewID(record.PrefixMedical),
		PatientID: strings.TrimSpace(req.PatientID),
		Doctor:    ws.Actor.Name,
		Notes:     strings.TrimSpace(req.Notes),
		Datetime:  s.now(),
	}
	if m.PatientID == "" {
		return nil, ErrPatientRequired
	}
	if m.Notes == "" {
		return nil, ErrNotesRequired
	}

	ws.Partition.MedicalRecords = append([]record.MedicalRecord{m}, ws.Partition.MedicalRecords...)
	s.repo.AppendLog(ctx, ws, fmt.Sprintf("Rekam medis: %s oleh %s", m.PatientID, m.Doctor))
	return &m, nil
}

func (s *medrecordService) History(ctx context.Context, patientID string) []record.MedicalRecord {
	return s.reader.MedicalRecordsForPatient(ctx, patientID)
}
