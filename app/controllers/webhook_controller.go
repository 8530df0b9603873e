package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/app/repository"
	"github.com/payliv/fulfillment-service/internal/pkg/database"
	"github.com/payliv/fulfillment-service/internal/pkg/fulfillment"
)

// HandlePaymentWebhook ingests a payment provider webhook. Every inbound call
// leaves an audit log entry regardless of outcome; the provider only needs to
// know whether to retry, so handled faults map to non-2xx JSON errors.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc := fulfillment.NewServiceFromDB(database.GetDB())
	_, err := svc.ProcessWebhook(ctx, fulfillment.ProviderAPIWeb, rawBody)
	if err != nil {
		return c.Status(statusForFulfillmentError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// HandleListWebhookLogs returns recent audit log entries for operators.
func HandleListWebhookLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	status := c.Query("status")

	repo := repository.GetGlobalFactory().GetWebhookLogRepository()

	var (
		entries []models.WebhookLog
		err     error
	)
	if status != "" {
		entries, err = repo.ListByStatus(status, limit)
	} else {
		entries, err = repo.ListRecent(limit)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook log lookup failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"logs": entries})
}

// statusForFulfillmentError maps the fulfillment error taxonomy onto HTTP
// status codes for the provider-facing acknowledgment.
func statusForFulfillmentError(err error) int {
	switch {
	case errors.Is(err, fulfillment.ErrMalformedWebhook):
		return fiber.StatusBadRequest
	case errors.Is(err, fulfillment.ErrOrderNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
