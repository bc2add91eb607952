package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"lingua-workbench-be/internal/dto"
	"lingua-workbench-be/internal/pkg/logger"
	"lingua-workbench-be/internal/pkg/serverutils"
	"lingua-workbench-be/internal/service"
	"lingua-workbench-be/pkg/agent"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	logger           logger.ILogger
}

func NewAssistantController(assistantService service.IAssistantService, log logger.ILogger) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		logger:           log,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.Chat)
	h.Post("chat/stream", c.ChatStream)
	h.Get("history/:session_id", c.History)
	h.Delete("session", c.DeleteSession)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

// ChatStream answers over Server-Sent Events. Each frame is a JSON
// event: token events carry incremental content, a sources event lists
// the contributing documents, and done closes the stream. Errors are
// delivered in-band since headers are already gone.
func (c *assistantController) ChatStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	requestCtx := ctx.Context()

	requestCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		writeEvent := func(e agent.Event) error {
			payload, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return err
			}
			return w.Flush()
		}

		err := c.assistantService.ChatStream(requestCtx, &req, writeEvent)
		if err != nil {
			c.logger.Error("ASSISTANT_CONTROLLER", "Streaming chat failed", map[string]interface{}{
				"session_id": req.SessionId,
				"error":      err.Error(),
			})
			_ = writeEvent(agent.Event{Type: agent.EventError, Content: err.Error()})
		}
	})

	return nil
}

func (c *assistantController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	res, err := c.assistantService.GetChatHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.assistantService.DeleteSession(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}
