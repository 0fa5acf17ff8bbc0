package dto

type RejectNoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}
