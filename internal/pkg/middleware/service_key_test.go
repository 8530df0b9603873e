package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/payliv/fulfillment-service/internal/pkg/env"
)

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Use(ServiceKeyMiddleware())
	app.Get("/internal/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestServiceKeyMiddleware(t *testing.T) {
	env.Env = map[string]string{"FULFILLMENT_SERVICE_KEY": "secret-key"}
	defer func() { env.Env = nil }()

	app := newProtectedApp()

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "valid api key header", header: "X-API-Key", value: "secret-key", want: fiber.StatusOK},
		{name: "valid bearer token", header: "Authorization", value: "Bearer secret-key", want: fiber.StatusOK},
		{name: "wrong key", header: "X-API-Key", value: "wrong", want: fiber.StatusUnauthorized},
		{name: "wrong bearer", header: "Authorization", value: "Bearer wrong", want: fiber.StatusUnauthorized},
		{name: "missing key", want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/internal/ping", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServiceKeyMiddleware_NotConfigured(t *testing.T) {
	env.Env = map[string]string{}
	defer func() { env.Env = nil }()

	app := newProtectedApp()
	req := httptest.NewRequest("GET", "/internal/ping", nil)
	req.Header.Set("X-API-Key", "anything")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
