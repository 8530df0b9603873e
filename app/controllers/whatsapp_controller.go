package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/payliv/fulfillment-service/app/repository"
	"github.com/payliv/fulfillment-service/internal/pkg/whatsapp"
)

type sendOrderWhatsAppRequest struct {
	OrderID       string `json:"orderId" validate:"required"`
	RecipientType string `json:"recipientType" validate:"required,oneof=customer seller"`
}

// HandleSendOrderWhatsApp sends the order notification for the requested
// recipient type. A recipient without a configured number is a no-op success.
func HandleSendOrderWhatsApp(c *fiber.Ctx) error {
	var req sendOrderWhatsAppRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderId and recipientType (customer|seller) are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repos := repository.GetGlobalRepositories()
	notifier := whatsapp.NewNotifier(repos.Order, repos.Setting)

	result, err := notifier.SendOrderNotification(ctx, req.OrderID, whatsapp.RecipientType(req.RecipientType))
	if err != nil {
		switch {
		case errors.Is(err, whatsapp.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, whatsapp.ErrUnknownRecipientType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if !result.Sent {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "No recipient number configured"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "WhatsApp notification sent",
	})
}

type sendWhatsAppMessageRequest struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
	// TemplateName is accepted for callers that pre-render a named template;
	// the channel currently only carries text messages.
	TemplateName string `json:"templateName"`
}

// HandleSendWhatsAppMessage sends a raw WhatsApp text message through the
// configured channel.
func HandleSendWhatsAppMessage(c *fiber.Ctx) error {
	var req sendWhatsAppMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to and message are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	settings, err := repository.GetGlobalFactory().GetSettingRepository().GetFulfillmentSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "fulfillment settings lookup failed"})
	}

	client := whatsapp.NewClientFromSettings(settings)
	messageID, err := client.SendMessage(ctx, req.To, req.Message)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"messageId": messageID,
		"message":   "WhatsApp message sent successfully",
	})
}
