package controller

import (
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/serverutils"
	"ai-booking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id/messages", c.GetHistory)
	h.Delete(":id", c.Delete)
	h.Post(":id/messages", c.SendMessage)
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return apperror.Validation("invalid request body")
	}
	req.UserId = userId

	res, err := c.service.CreateChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat", res))
}

func (c *chatController) GetAll(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetChats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chats", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid chat id")
	}

	res, err := c.service.GetHistory(ctx.Context(), userId, chatId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid chat id")
	}

	if err := c.service.DeleteChat(ctx.Context(), userId, chatId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[interface{}]("Success delete chat", nil))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}
	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid chat id")
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.ChatId = chatId
	req.UserId = userId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func localUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Auth("no user identity on request")
	}
	return userId, nil
}
