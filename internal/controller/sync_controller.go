package controller

import (
	"errors"

	"borrowed-brain-be/internal/pkg/serverutils"
	"borrowed-brain-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	SyncEpisode(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ListSynced(ctx *fiber.Ctx) error
}

type syncController struct {
	syncService service.ISyncService
}

func NewSyncController(syncService service.ISyncService) ISyncController {
	return &syncController{
		syncService: syncService,
	}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("episode/:episodeId", c.SyncEpisode)
	h.Get("episode/:episodeId/status", c.Status)
	h.Get("episodes", c.ListSynced)
}

func (c *syncController) SyncEpisode(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	episodeId, err := uuid.Parse(ctx.Params("episodeId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid episode id"))
	}

	res, err := c.syncService.SyncEpisode(ctx.Context(), userId, episodeId)
	if err != nil {
		if errors.Is(err, service.ErrEpisodeNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Episode not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success request episode sync", res))
}

func (c *syncController) Status(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	episodeId, err := uuid.Parse(ctx.Params("episodeId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid episode id"))
	}

	res, err := c.syncService.Status(ctx.Context(), userId, episodeId)
	if err != nil {
		if errors.Is(err, service.ErrEpisodeNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Episode not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sync status", res))
}

func (c *syncController) ListSynced(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.syncService.ListSyncedEpisodes(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list synced episodes", res))
}
