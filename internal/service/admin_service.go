package service

import (
	"context"
	"strings"
	"time"

	"edunotes-be/internal/dto"
	"edunotes-be/internal/entity"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/internal/repository/specification"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminService interface {
	ListNotes(ctx context.Context, status string) ([]dto.NoteResponse, error)
	Approve(ctx context.Context, noteId uuid.UUID) error
	Reject(ctx context.Context, noteId uuid.UUID, reason string) error
}

// adminService is the moderation surface. Approve and reject are only legal
// while a note is pending; approved and rejected are terminal.
type adminService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           logger,
	}
}

func (c *adminService) ListNotes(ctx context.Context, status string) ([]dto.NoteResponse, error) {
	specs := []specification.Specification{specification.OrderByCreatedDesc{}}
	if s := strings.TrimSpace(status); s != "" {
		switch entity.ModerationStatus(s) {
		case entity.StatusPending, entity.StatusApproved, entity.StatusRejected:
			specs = append(specs, specification.ByStatus{Status: s})
		default:
			return nil, serverutils.NewApiError(fiber.StatusBadRequest, "unknown status")
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes, true), nil
}

func (c *adminService) Approve(ctx context.Context, noteId uuid.UUID) error {
	return c.transition(ctx, noteId, entity.StatusApproved, "")
}

func (c *adminService) Reject(ctx context.Context, noteId uuid.UUID, reason string) error {
	return c.transition(ctx, noteId, entity.StatusRejected, reason)
}

func (c *adminService) transition(ctx context.Context, noteId uuid.UUID, target entity.ModerationStatus, reason string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "note not found")
	}
	if note.Status != entity.StatusPending {
		return serverutils.NewApiError(fiber.StatusConflict, "note is not pending")
	}

	note.Status = target
	note.RejectReason = reason
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return err
	}

	eventType := events.NoteApproved
	if target == entity.StatusRejected {
		eventType = events.NoteRejected
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"note_id":  note.Id.String(),
			"category": note.Category,
		},
		OccurredAt: time.Now(),
	}
	if err := c.publisherService.Publish(ctx, evt); err != nil {
		c.logger.Warn("admin", "event publish failed", map[string]interface{}{
			"type":    eventType,
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
	return nil
}
