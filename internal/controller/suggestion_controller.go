package controller

import (
	"net/url"

	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISuggestionController interface {
	RegisterRoutes(r fiber.Router)
	Institutes(ctx *fiber.Ctx) error
	States(ctx *fiber.Ctx) error
	Districts(ctx *fiber.Ctx) error
	Departments(ctx *fiber.Ctx) error
}

// suggestionController serves the typeahead lookups. Responses are bare
// objects ({"institutes": [...]}) rather than the success envelope; the
// clients treat them as plain completion lists.
type suggestionController struct {
	suggestionService service.ISuggestionService
}

func NewSuggestionController(suggestionService service.ISuggestionService) ISuggestionController {
	return &suggestionController{
		suggestionService: suggestionService,
	}
}

func (c *suggestionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("/institutes", c.Institutes)
	h.Get("/states", c.States)
	h.Get("/districts", c.Districts)
	h.Get("/departments/:institute", c.Departments)
}

func (c *suggestionController) Institutes(ctx *fiber.Ctx) error {
	res, err := c.suggestionService.SuggestInstitutes(ctx.Context(), ctx.Query("category"), ctx.Query("prefix"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *suggestionController) States(ctx *fiber.Ctx) error {
	res, err := c.suggestionService.SuggestStates(ctx.Context(), ctx.Query("category"), ctx.Query("prefix"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *suggestionController) Districts(ctx *fiber.Ctx) error {
	res, err := c.suggestionService.SuggestDistricts(ctx.Context(), ctx.Query("category"), ctx.Query("state"), ctx.Query("prefix"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *suggestionController) Departments(ctx *fiber.Ctx) error {
	institute, err := decodeParam(ctx, "institute")
	if err != nil {
		return err
	}
	res, err := c.suggestionService.DepartmentsForInstitute(ctx.Context(), institute, ctx.Query("category"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// decodeParam unescapes a path segment; institute names carry spaces.
func decodeParam(ctx *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(ctx.Params(name))
	if err != nil {
		return "", serverutils.NewApiError(fiber.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
