package dto

import (
	"time"

	"github.com/google/uuid"
)

// NoteEventMessage is the wire form of a domain event on the in-process bus.
type NoteEventMessage struct {
	Type       string    `json:"type"`
	NoteId     uuid.UUID `json:"note_id"`
	Category   string    `json:"category"`
	OccurredAt time.Time `json:"occurred_at"`
}
