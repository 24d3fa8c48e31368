package controller

import (
	"errors"

	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/pkg/serverutils"
	"borrowed-brain-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPodcastController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type podcastController struct {
	podcastService service.IPodcastService
}

func NewPodcastController(podcastService service.IPodcastService) IPodcastController {
	return &podcastController{
		podcastService: podcastService,
	}
}

func (c *podcastController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/podcast/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("search", c.Search)
	h.Get(":catalogUuid", c.Show)
}

func (c *podcastController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchPodcastsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.podcastService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search podcasts", res))
}

func (c *podcastController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	catalogUuid := ctx.Params("catalogUuid")

	res, err := c.podcastService.GetByCatalogUuid(ctx.Context(), userId, catalogUuid)
	if err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Podcast not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show podcast", res))
}
