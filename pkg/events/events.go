// Package events publishes clinic events to NATS so other processes can react.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

type PrescriptionCreated struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Origin    string    `json:"origin"`
	IssuedBy  string    `json:"issuedBy"`
	Datetime  time.Time `json:"datetime"`
	Source    string    `json:"source,omitempty"` // publishing process; lets it skip its own events
}

type Publisher interface {
	PrescriptionCreated(ctx context.Context, ev PrescriptionCreated) error
}

// PrescriptionCreatedSubject is "<prefix>.prescription.created.<id>".
func PrescriptionCreatedSubject(prefix, id string) string {
	return prefix + ".prescription.created." + id
}

type NATS struct {
	nc     *nats.Conn
	prefix string
}

func NewNATS(nc *nats.Conn, prefix string) *NATS {
	return &NATS{nc: nc, prefix: prefix}
}

func (n *NATS) PrescriptionCreated(_ context.Context, ev PrescriptionCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := n.nc.Publish(PrescriptionCreatedSubject(n.prefix, ev.ID), data); err != nil {
		return fmt.Errorf("publish prescription.created: %w", err)
	}
	return nil
}

// SubscribePrescriptionCreated delivers every decodable prescription.created event.
func (n *NATS) SubscribePrescriptionCreated(handle func(PrescriptionCreated)) (*nats.Subscription, error) {
	return n.nc.Subscribe(PrescriptionCreatedSubject(n.prefix, "*"), func(msg *nats.Msg) {
		ev, err := DecodePrescriptionCreated(msg)
		if err != nil {
			return
		}
		handle(ev)
	})
}

func DecodePrescriptionCreated(msg *nats.Msg) (PrescriptionCreated, error) {
	var ev PrescriptionCreated
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return ev, fmt.Errorf("decode %s: %w", msg.Subject, err)
	}
	return ev, nil
}

// Nop drops every event; used when no NATS URL is configured.
type Nop struct{}

func (Nop) PrescriptionCreated(context.Context, PrescriptionCreated) error { return nil }
