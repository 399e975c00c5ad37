package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

func newPathParsingApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	app.Get("/:type/:id", func(c *fiber.Ctx) error {
		if _, _, err := parseTypeAndID(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestParseTypeAndID(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "known type and id", path: "/complaint/12", wantStatus: http.StatusOK},
		{name: "unknown type", path: "/bogus/12", wantStatus: http.StatusNotFound},
		{name: "non-numeric id", path: "/complaint/abc", wantStatus: http.StatusNotFound},
		{name: "non-positive id", path: "/complaint/0", wantStatus: http.StatusNotFound},
	}

	app := newPathParsingApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
