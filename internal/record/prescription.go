package record

import (
	"strings"
	"time"
)

type Item struct {
	Name string `json:"name"`
}

// Prescription is the one entity shared between role partitions. The
// authoritative copy has no provenance; propagated copies carry the origin
// role and when they were written.
type Prescription struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Items     []Item    `json:"items"`
	IssuedBy  string    `json:"issuedBy"`
	Datetime  time.Time `json:"datetime"`
	PickedUp  bool      `json:"pickedUp"`

	PropagatedFrom string     `json:"propagatedFrom,omitempty"`
	PropagatedAt   *time.Time `json:"propagatedAt,omitempty"`
}

// SortTime is the issue time, or the propagation time for copies that lost it.
func (p Prescription) SortTime() time.Time {
	if p.Datetime.IsZero() && p.PropagatedAt != nil {
		return *p.PropagatedAt
	}
	return p.Datetime
}

// Recency is the later of the issue and propagation times.
func (p Prescription) Recency() time.Time {
	if p.PropagatedAt != nil && p.PropagatedAt.After(p.Datetime) {
		return *p.PropagatedAt
	}
	return p.Datetime
}

func (p Prescription) IsPropagated() bool { return p.PropagatedFrom != "" }

// Clone returns a deep copy.
func (p Prescription) Clone() Prescription {
	c := p
	if p.Items != nil {
		c.Items = append([]Item(nil), p.Items...)
	}
	if p.PropagatedAt != nil {
		at := *p.PropagatedAt
		c.PropagatedAt = &at
	}
	return c
}

// ParseItems splits comma separated free text into line items.
func ParseItems(text string) []Item {
	items := []Item{}
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			items = append(items, Item{Name: name})
		}
	}
	return items
}
