// Package record holds the clinic entities stored in the key-value space.
// JSON field names match what existing clients already persisted.
package record

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixPatient      = "pat"
	PrefixMedical      = "med"
	PrefixAppointment  = "appt"
	PrefixPayment      = "pay"
	PrefixStock        = "stk"
	PrefixPrescription = "presc"
	PrefixLog          = "log"
)

const (
	StatusScheduled = "scheduled"
	StatusDone      = "done"
	StatusCancelled = "cancelled"

	DefaultPaymentMethod = "Tunai"
)

func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Timestamped records can be ordered newest first in cross-partition listings.
type Timestamped interface {
	SortTime() time.Time
}

type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	DOB   string `json:"dob,omitempty"` // YYYY-MM-DD
	Notes string `json:"notes,omitempty"`
}

type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Doctor    string    `json:"doctor"`
	Notes     string    `json:"notes"`
	Datetime  time.Time `json:"datetime"`
}

func (m MedicalRecord) SortTime() time.Time { return m.Datetime }

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Doctor    string    `json:"doctor"`
	Datetime  time.Time `json:"datetime"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

func (a Appointment) SortTime() time.Time { return a.Datetime }

type Payment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Note      string    `json:"note"`
	Datetime  time.Time `json:"datetime"`
}

type StockItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	Unit         string `json:"unit"`
	MinThreshold int    `json:"minThreshold"`
}

func (s StockItem) Low() bool { return s.Qty <= s.MinThreshold }

type LogEntry struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
