package partition

import "github.com/Alijeyrad/kliniksehat/internal/record"

// Partition is one role's bundle of collections, each newest first.
// Every collection is non-nil once the partition has been loaded.
type Partition struct {
	Appointments   []record.Appointment   `json:"appointments"`
	Payments       []record.Payment       `json:"payments"`
	Prescriptions  []record.Prescription  `json:"prescriptions"`
	Stock          []record.StockItem     `json:"stock"`
	Logs           []record.LogEntry      `json:"logs"`
	MedicalRecords []record.MedicalRecord `json:"medicalRecords"`
}

func New() *Partition {
	p := &Partition{}
	p.normalize()
	return p
}

// normalize fills missing collections and reports whether any was missing.
func (p *Partition) normalize() bool {
	fixed := fill(&p.Appointments)
	fixed = fill(&p.Payments) || fixed
	fixed = fill(&p.Prescriptions) || fixed
	fixed = fill(&p.Stock) || fixed
	fixed = fill(&p.Logs) || fixed
	fixed = fill(&p.MedicalRecords) || fixed
	return fixed
}

func fill[T any](s *[]T) bool {
	if *s != nil {
		return false
	}
	*s = []T{}
	return true
}

// Clone copies every collection; prescriptions are deep copied.
func (p *Partition) Clone() *Partition {
	c := &Partition{
		Appointments:   append([]record.Appointment{}, p.Appointments...),
		Payments:       append([]record.Payment{}, p.Payments...),
		Prescriptions:  make([]record.Prescription, len(p.Prescriptions)),
		Stock:          append([]record.StockItem{}, p.Stock...),
		Logs:           append([]record.LogEntry{}, p.Logs...),
		MedicalRecords: append([]record.MedicalRecord{}, p.MedicalRecords...),
	}
	for i, rx := range p.Prescriptions {
		c.Prescriptions[i] = rx.Clone()
	}
	return c
}
