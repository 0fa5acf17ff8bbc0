package entity

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

type Note struct {
	Id          uuid.UUID
	Subject     string
	Description string
	Category    string
	Institute   string
	State       string
	District    string
	Departments []string
	Stream      string
	Year        string
	Semester    string
	ClassLevel  string
	Tags        []string

	FileName string
	FileSize int64
	FileUrl  string

	Views     int64
	Downloads int64

	Status       ModerationStatus
	RejectReason string

	UploaderPhone   string
	UploaderConsent bool

	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
