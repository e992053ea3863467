package syncer

import (
	"context"
	"sort"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

// Reader answers queries that must see every role's data. It never writes:
// missing or corrupt partitions simply contribute nothing.
type Reader struct {
	repo  *partition.Repository
	roles *partition.Registry
}

func NewReader(repo *partition.Repository, roles *partition.Registry) *Reader {
	return &Reader{repo: repo, roles: roles}
}

// FindAcrossPartitions collects the entries of one collection that satisfy
// match from every registered partition, newest first.
func FindAcrossPartitions[T record.Timestamped](
	ctx context.Context,
	r *Reader,
	collection func(*partition.Partition) []T,
	match func(T) bool,
) []T {
	out := []T{}
	for _, role := range r.roles.Roles() {
		p, ok := r.repo.Peek(ctx, role)
		if !ok {
			continue
		}
		for _, v := range collection(p) {
			if match(v) {
				out = append(out, v)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortTime().After(out[j].SortTime())
	})
	return out
}

func (r *Reader) MedicalRecordsForPatient(ctx context.Context, patientID string) []record.MedicalRecord {
	return FindAcrossPartitions(ctx, r,
		func(p *partition.Partition) []record.MedicalRecord { return p.MedicalRecords },
		func(m record.MedicalRecord) bool { return m.PatientID == patientID },
	)
}

func (r *Reader) AppointmentsForPatient(ctx context.Context, patientID string) []record.Appointment {
	return FindAcrossPartitions(ctx, r,
		func(p *partition.Partition) []record.Appointment { return p.Appointments },
		func(a record.Appointment) bool { return a.PatientID == patientID },
	)
}

// PrescriptionsForPatient returns every copy found, propagated ones included.
func (r *Reader) PrescriptionsForPatient(ctx context.Context, patientID string) []record.Prescription {
	return FindAcrossPartitions(ctx, r,
		func(p *partition.Partition) []record.Prescription { return p.Prescriptions },
		func(rx record.Prescription) bool { return rx.PatientID == patientID },
	)
}
