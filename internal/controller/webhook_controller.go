package controller

import (
	"encoding/json"

	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/serverutils"
	"ai-booking-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	headerWebhookSecret    = "X-Webhook-Secret"
	headerWebhookSignature = "X-Webhook-Signature"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	CallOutcome(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
}

func NewWebhookController(service service.IWebhookService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("call-outcome", c.CallOutcome)
}

func (c *webhookController) CallOutcome(ctx *fiber.Ctx) error {
	// Authentication runs over the raw bytes; the HMAC mode signs the body
	// exactly as it arrived.
	rawBody := ctx.Body()

	credential := ctx.Get(headerWebhookSignature)
	if credential == "" {
		credential = ctx.Get(headerWebhookSecret)
	}
	if err := c.service.Authenticate(credential, rawBody); err != nil {
		return err
	}

	var req dto.CallOutcomeRequest
	if err := json.Unmarshal(rawBody, &req); err != nil {
		return apperror.Validation("invalid request body")
	}

	res, err := c.service.HandleCallOutcome(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Outcome processed", res))
}
