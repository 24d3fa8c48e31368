package controller

import (
	"errors"

	"borrowed-brain-be/internal/dto"
	"borrowed-brain-be/internal/pkg/serverutils"
	"borrowed-brain-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILibraryController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type libraryController struct {
	libraryService service.ILibraryService
}

func NewLibraryController(libraryService service.ILibraryService) ILibraryController {
	return &libraryController{
		libraryService: libraryService,
	}
}

func (c *libraryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/library/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Add)
	h.Get("", c.List)
	h.Delete(":podcastId", c.Remove)
}

func (c *libraryController) Add(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AddToLibraryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.libraryService.AddToLibrary(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Podcast not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add podcast to library", res))
}

func (c *libraryController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.libraryService.ListLibrary(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list library", res))
}

func (c *libraryController) Remove(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	podcastId, err := uuid.Parse(ctx.Params("podcastId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid podcast id"))
	}

	if err := c.libraryService.RemoveFromLibrary(ctx.Context(), userId, podcastId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove podcast from library", nil))
}
