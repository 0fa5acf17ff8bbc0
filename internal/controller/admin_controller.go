package controller

import (
	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListNotes(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminMiddleware)
	h.Get("/notes", c.ListNotes)
	h.Post("/notes/:id/approve", c.Approve)
	h.Post("/notes/:id/reject", c.Reject)
}

func (c *adminController) ListNotes(ctx *fiber.Ctx) error {
	res, err := c.adminService.ListNotes(ctx.Context(), ctx.Query("status"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *adminController) Approve(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid note id")
	}

	if err := c.adminService.Approve(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success approve note", struct{}{}))
}

func (c *adminController) Reject(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid note id")
	}

	var req dto.RejectNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.Reject(ctx.Context(), id, req.Reason); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reject note", struct{}{}))
}
