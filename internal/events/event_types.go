package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated EventType = "lead_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string
	Type      EventType
	LeadID    int64
	Timestamp time.Time
	Payload   interface{}
}

// LeadCreatedPayload carries the stored lead.
type LeadCreatedPayload struct {
	Lead domain.Lead
}

// NewLeadCreated builds the event published after a lead is stored.
func NewLeadCreated(lead domain.Lead) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventLeadCreated,
		LeadID:    lead.ID,
		Timestamp: time.Now(),
		Payload:   LeadCreatedPayload{Lead: lead},
	}
}
