package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeoutMiddlewareDeadlineReachesHandlers(t *testing.T) {
	app := fiber.New()
	app.Use(requestTimeoutMiddleware(5 * time.Second))

	var hasDeadline bool
	var remaining time.Duration
	app.Get("/ping", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		hasDeadline = ok
		if ok {
			remaining = time.Until(deadline)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, hasDeadline)
	assert.LessOrEqual(t, remaining, 5*time.Second)
	assert.Greater(t, remaining, 4*time.Second)
}
