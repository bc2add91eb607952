package controller

import (
	"github.com/gofiber/fiber/v2"

	"lingua-workbench-be/internal/pkg/serverutils"
	"lingua-workbench-be/internal/service"
)

type IIndexController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type indexController struct {
	indexService service.IIndexService
}

func NewIndexController(indexService service.IIndexService) IIndexController {
	return &indexController{
		indexService: indexService,
	}
}

func (c *indexController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Get("status", c.Status)
	h.Post("reindex", c.Reindex)
}

func (c *indexController) Status(ctx *fiber.Ctx) error {
	res, err := c.indexService.Status(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// Reindex queues an asynchronous rebuild; progress lands in the logs
// and the result is visible through Status.
func (c *indexController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.indexService.RequestRebuild(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Reindex queued", res))
}
