package dto

import (
	"time"

	"github.com/google/uuid"
)

// NoteResponse is the read model served to browsers and to the owner's
// "my uploads" view. Moderation fields are only meaningful on the owner
// view; public listings carry approved notes only.
type NoteResponse struct {
	Id          uuid.UUID `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Institute   string    `json:"institute"`
	State       string    `json:"state,omitempty"`
	District    string    `json:"district,omitempty"`
	Departments []string  `json:"departments,omitempty"`
	Stream      string    `json:"stream,omitempty"`
	Year        string    `json:"year,omitempty"`
	Semester    string    `json:"semester,omitempty"`
	ClassLevel  string    `json:"classLevel,omitempty"`
	Tags        []string  `json:"tags,omitempty"`

	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
	FileUrl  string `json:"fileUrl,omitempty"`

	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`

	Status       string `json:"status"`
	RejectReason string `json:"rejectReason,omitempty"`

	Owner     *NoteOwner `json:"owner,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type NoteOwner struct {
	Name string `json:"name"`
}

// ListNotesQuery carries the facet params of GET /api/notes. Facets not
// declared for the category are dropped before querying.
type ListNotesQuery struct {
	Category   string
	Institute  string
	State      string
	District   string
	Department string
	Year       string
	Semester   string
	Stream     string
	ClassLevel string
	Query      string
}

// UploadNoteRequest is the parsed multipart form of POST /api/notes.
// File content travels separately.
type UploadNoteRequest struct {
	Category    string   `validate:"required"`
	Institute   string   `validate:"required"`
	State       string
	District    string
	Departments []string
	Stream      string
	Year        string
	Semester    string
	ClassLevel  string
	Subject     string `validate:"required"`
	Description string
	Tags        []string

	UploaderPhone   string `validate:"required"`
	UploaderConsent bool

	FileName    string `validate:"required"`
	FileSize    int64
	ContentType string
}

type UploadNoteResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
