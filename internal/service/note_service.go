package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"edunotes-be/internal/config"
	"edunotes-be/internal/dto"
	"edunotes-be/internal/entity"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/internal/repository/specification"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/pkg/events"
	"edunotes-be/pkg/facet"
	"edunotes-be/pkg/filestore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9\s-]{7,15}$`)

	allowedContentTypes = map[string]struct{}{
		"application/pdf":    {},
		"application/msword": {},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	}
)

// DownloadResult tells the controller which stored file to stream.
type DownloadResult struct {
	FilePath string
	FileName string
}

type INoteService interface {
	List(ctx context.Context, query *dto.ListNotesQuery) ([]dto.NoteResponse, error)
	Mine(ctx context.Context, userId uuid.UUID) ([]dto.NoteResponse, error)
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadNoteRequest, content io.Reader) (*dto.UploadNoteResponse, error)
	Download(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*DownloadResult, error)
	RecordView(ctx context.Context, noteId uuid.UUID)
	Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	files            filestore.FileStore
	cfg              *config.Config
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	files filestore.FileStore,
	cfg *config.Config,
	logger logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		files:            files,
		cfg:              cfg,
		logger:           logger,
	}
}

func (c *noteService) List(ctx context.Context, query *dto.ListNotesQuery) ([]dto.NoteResponse, error) {
	specs := []specification.Specification{
		specification.ByStatus{Status: string(entity.StatusApproved)},
		specification.OrderByCreatedDesc{},
	}

	category, ok := facet.ParseCategory(query.Category)
	if query.Category != "" && !ok {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "unknown category")
	}
	if ok {
		specs = append(specs, specification.ByCategory{Category: string(category)})
		specs = append(specs, facetSpecs(category, query)...)
	}
	if q := strings.TrimSpace(query.Query); q != "" {
		specs = append(specs, specification.SearchText{Query: q})
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes, false), nil
}

// facetSpecs turns the query's facet params into WHERE clauses, keeping only
// facets the registry declares for the category. Illegal params are ignored,
// not rejected, so a stale client keeps working after switching categories.
func facetSpecs(category facet.Category, query *dto.ListNotesQuery) []specification.Specification {
	var specs []specification.Specification

	add := func(name string, value string, spec specification.Specification) {
		if strings.TrimSpace(value) == "" || !facet.Allowed(category, name) {
			return
		}
		specs = append(specs, spec)
	}

	add(facet.NameInstitute, query.Institute, specification.ByInstitute{Institute: query.Institute})
	add(facet.NameState, query.State, specification.ByState{State: query.State})
	add(facet.NameDistrict, query.District, specification.ByDistrict{District: query.District})
	add(facet.NameDepartment, query.Department, specification.HasDepartment{Department: query.Department})
	add(facet.NameYear, query.Year, specification.ByYear{Year: query.Year})
	add(facet.NameSemester, query.Semester, specification.BySemester{Semester: query.Semester})
	add(facet.NameStream, query.Stream, specification.ByStream{Stream: query.Stream})
	add(facet.NameClassLevel, query.ClassLevel, specification.ByClassLevel{ClassLevel: query.ClassLevel})

	return specs
}

func (c *noteService) Mine(ctx context.Context, userId uuid.UUID) ([]dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderByCreatedDesc{},
	)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes, true), nil
}

func (c *noteService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadNoteRequest, content io.Reader) (*dto.UploadNoteResponse, error) {
	category, ok := facet.ParseCategory(req.Category)
	if !ok {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "unknown category")
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "only PDF, DOC and DOCX files are accepted")
	}
	if req.FileSize > c.cfg.Upload.MaxSizeBytes {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "file exceeds 25MB")
	}
	if !phonePattern.MatchString(strings.TrimSpace(req.UploaderPhone)) {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "enter a valid phone number")
	}
	if !req.UploaderConsent {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "consent is required")
	}

	sanitizeUploadFacets(category, req)

	storedName, err := c.files.Save(req.FileName, content)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	note := entity.Note{
		Id:          uuid.New(),
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Category:    string(category),
		Institute:   strings.TrimSpace(req.Institute),
		State:       strings.TrimSpace(req.State),
		District:    strings.TrimSpace(req.District),
		Departments: req.Departments,
		Stream:      req.Stream,
		Year:        req.Year,
		Semester:    req.Semester,
		ClassLevel:  req.ClassLevel,
		Tags:        req.Tags,

		FileName: req.FileName,
		FileSize: req.FileSize,
		FileUrl:  "/uploads/" + storedName,

		Status:          entity.StatusPending,
		UploaderPhone:   strings.TrimSpace(req.UploaderPhone),
		UploaderConsent: req.UploaderConsent,

		UserId:    userId,
		CreatedAt: time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		c.files.Remove(storedName)
		return nil, err
	}

	c.publishEvent(ctx, events.NoteUploaded, &note)

	return &dto.UploadNoteResponse{
		Id:     note.Id,
		Status: string(note.Status),
	}, nil
}

// sanitizeUploadFacets clears facet fields the registry does not declare for
// the chosen category; a form that switched categories mid-edit can still
// carry leftovers.
func sanitizeUploadFacets(category facet.Category, req *dto.UploadNoteRequest) {
	if !facet.Allowed(category, facet.NameDepartment) {
		req.Departments = nil
	}
	if !facet.Allowed(category, facet.NameStream) {
		req.Stream = ""
	}
	if !facet.Allowed(category, facet.NameYear) {
		req.Year = ""
	}
	if !facet.Allowed(category, facet.NameSemester) {
		req.Semester = ""
	}
	if !facet.Allowed(category, facet.NameClassLevel) {
		req.ClassLevel = ""
	}
}

func (c *noteService) Download(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*DownloadResult, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	ownedSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if !c.cfg.Reciprocity.CountPending {
		ownedSpecs = append(ownedSpecs, specification.ByStatus{Status: string(entity.StatusApproved)})
	}
	uploads, err := uow.NoteRepository().Count(ctx, ownedSpecs...)
	if err != nil {
		return nil, err
	}
	if uploads < int64(c.cfg.Reciprocity.Threshold) {
		return nil, serverutils.NewApiError(fiber.StatusForbidden,
			fmt.Sprintf("upload at least %d notes to download", c.cfg.Reciprocity.Threshold))
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "note not found")
	}
	// Pending and rejected notes stay private to their owner.
	if note.Status != entity.StatusApproved && note.UserId != userId {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "note not found")
	}

	if err := uow.NoteRepository().IncrementDownloads(ctx, note.Id); err != nil {
		c.logger.Warn("note", "download counter bump failed", map[string]interface{}{
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}

	storedName := strings.TrimPrefix(note.FileUrl, "/uploads/")
	return &DownloadResult{
		FilePath: c.files.Path(storedName),
		FileName: note.FileName,
	}, nil
}

// RecordView is fire-and-forget: a lost view ping never surfaces an error.
func (c *noteService) RecordView(ctx context.Context, noteId uuid.UUID) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().IncrementViews(ctx, noteId); err != nil {
		c.logger.Warn("note", "view counter bump failed", map[string]interface{}{
			"note_id": noteId.String(),
			"error":   err.Error(),
		})
	}
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "note not found")
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return err
	}

	storedName := strings.TrimPrefix(note.FileUrl, "/uploads/")
	if storedName != "" {
		if err := c.files.Remove(storedName); err != nil {
			c.logger.Warn("note", "stored file removal failed", map[string]interface{}{
				"note_id": note.Id.String(),
				"error":   err.Error(),
			})
		}
	}

	c.publishEvent(ctx, events.NoteDeleted, note)
	return nil
}

// publishEvent logs failures instead of failing the request; the bus only
// feeds caches and logs.
func (c *noteService) publishEvent(ctx context.Context, eventType string, note *entity.Note) {
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"note_id":  note.Id.String(),
			"category": note.Category,
		},
		OccurredAt: time.Now(),
	}
	if err := c.publisherService.Publish(ctx, evt); err != nil {
		c.logger.Warn("note", "event publish failed", map[string]interface{}{
			"type":    eventType,
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
}

func toNoteResponses(notes []*entity.Note, ownerView bool) []dto.NoteResponse {
	res := make([]dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, toNoteResponse(n, ownerView))
	}
	return res
}

func toNoteResponse(n *entity.Note, ownerView bool) dto.NoteResponse {
	res := dto.NoteResponse{
		Id:          n.Id,
		Subject:     n.Subject,
		Description: n.Description,
		Category:    n.Category,
		Institute:   n.Institute,
		State:       n.State,
		District:    n.District,
		Departments: n.Departments,
		Stream:      n.Stream,
		Year:        n.Year,
		Semester:    n.Semester,
		ClassLevel:  n.ClassLevel,
		Tags:        n.Tags,
		FileName:    n.FileName,
		FileSize:    n.FileSize,
		FileUrl:     n.FileUrl,
		Views:       n.Views,
		Downloads:   n.Downloads,
		Status:      string(n.Status),
		CreatedAt:   n.CreatedAt,
	}
	if ownerView {
		res.RejectReason = n.RejectReason
	}
	return res
}
