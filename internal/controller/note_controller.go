package controller

import (
	"strings"

	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Meta(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Mine(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	metaService service.IMetaService
}

func NewNoteController(noteService service.INoteService, metaService service.IMetaService) INoteController {
	return &noteController{
		noteService: noteService,
		metaService: metaService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	// Static paths first so they never shadow-match ":id".
	h.Get("/meta", c.Meta)
	h.Get("/mine", serverutils.JwtMiddleware, c.Mine)
	h.Get("/", c.List)
	h.Post("/", serverutils.JwtMiddleware, c.Upload)
	h.Get("/:id/download", serverutils.JwtMiddleware, c.Download)
	h.Post("/:id/view", c.View)
	h.Delete("/:id", serverutils.JwtMiddleware, c.Delete)
}

func (c *noteController) Meta(ctx *fiber.Ctx) error {
	res, err := c.metaService.GetMeta(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	query := dto.ListNotesQuery{
		Category:   ctx.Query("category"),
		Institute:  ctx.Query("institute"),
		State:      ctx.Query("state"),
		District:   ctx.Query("district"),
		Department: ctx.Query("department"),
		Year:       ctx.Query("year"),
		Semester:   ctx.Query("semester"),
		Stream:     ctx.Query("stream"),
		ClassLevel: ctx.Query("classLevel"),
		Query:      ctx.Query("q"),
	}

	res, err := c.noteService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Mine(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.noteService.Mine(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list own notes", res))
}

func (c *noteController) Upload(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "file is required")
	}

	req := dto.UploadNoteRequest{
		Category:    ctx.FormValue("category"),
		Institute:   ctx.FormValue("institute"),
		State:       ctx.FormValue("state"),
		District:    ctx.FormValue("district"),
		Departments: splitMulti(ctx.FormValue("departments")),
		Stream:      ctx.FormValue("stream"),
		Year:        ctx.FormValue("year"),
		Semester:    ctx.FormValue("semester"),
		ClassLevel:  ctx.FormValue("classLevel"),
		Subject:     ctx.FormValue("subject"),
		Description: ctx.FormValue("description"),
		Tags:        splitMulti(ctx.FormValue("tags")),

		UploaderPhone:   ctx.FormValue("uPhone"),
		UploaderConsent: ctx.FormValue("uConsent") == "true",

		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	content, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer content.Close()

	res, err := c.noteService.Upload(ctx.Context(), userId, &req, content)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload note", res))
}

func (c *noteController) Download(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.noteService.Download(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.Download(res.FilePath, res.FileName)
}

func (c *noteController) View(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid note id")
	}

	c.noteService.RecordView(ctx.Context(), id)
	return ctx.JSON(serverutils.SuccessResponse("Success record view", struct{}{}))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid note id")
	}

	if err := c.noteService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete note", struct{}{}))
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func splitMulti(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
