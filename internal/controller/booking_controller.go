package controller

import (
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/serverutils"
	"ai-booking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookingController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type bookingController struct {
	service service.IBookingService
}

func NewBookingController(service service.IBookingService) IBookingController {
	return &bookingController{service: service}
}

func (c *bookingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/booking/v1")
	h.Post("start", c.Start)
	h.Get(":id", c.Show)
}

// Start exposes the booking initiation directly, the same path the agent
// tool takes. Useful for the frontend's "retry call" button.
func (c *bookingController) Start(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.StartBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.UserId = userId

	res, err := c.service.StartBooking(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start booking call", res))
}

func (c *bookingController) Show(ctx *fiber.Ctx) error {
	userId, err := localUserId(ctx)
	if err != nil {
		return err
	}
	bookingId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid booking id")
	}

	res, err := c.service.GetBookingStatus(ctx.Context(), userId, bookingId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get booking", res))
}
