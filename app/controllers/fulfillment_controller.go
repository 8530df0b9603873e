package controllers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/payliv/fulfillment-service/app/repository"
	"github.com/payliv/fulfillment-service/internal/pkg/database"
	"github.com/payliv/fulfillment-service/internal/pkg/fulfillment"
	"github.com/payliv/fulfillment-service/internal/pkg/mail"
)

var validate = validator.New()

type finalizeDigitalOrderRequest struct {
	OrderID               string `json:"orderId" validate:"required"`
	ProviderTransactionID string `json:"providerTransactionId" validate:"required"`
	PaymentProvider       string `json:"paymentProvider" validate:"required"`
}

// HandleFinalizeDigitalOrder runs the full digital fulfillment pipeline for
// one order.
func HandleFinalizeDigitalOrder(c *fiber.Ctx) error {
	var req finalizeDigitalOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderId, providerTransactionId and paymentProvider are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	svc := fulfillment.NewServiceFromDB(database.GetDB())
	result, err := svc.FinalizeDigitalOrder(ctx, req.OrderID, req.ProviderTransactionID, req.PaymentProvider)
	if err != nil {
		return c.Status(statusForFulfillmentError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Digital order finalized successfully",
		"orderId": result.OrderID,
	})
}

type createAccountFromOrderRequest struct {
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerName  string `json:"customerName" validate:"required"`
	OrderID       string `json:"orderId" validate:"required"`
}

// HandleCreateAccountFromOrder provisions a customer account for a paid
// order. Idempotent on email.
func HandleCreateAccountFromOrder(c *fiber.Ctx) error {
	var req createAccountFromOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "customerEmail, customerName and orderId are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	accounts := fulfillment.NewAccountService(repository.GetGlobalFactory().GetUserRepository(), mail.SendMail)
	result, err := accounts.EnsureAccount(ctx, req.CustomerEmail, req.CustomerName, req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !result.Created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "User already exists",
			"userId":  result.UserID,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":           "User account created successfully",
		"userId":            result.UserID,
		"temporaryPassword": result.TemporaryPassword,
	})
}
