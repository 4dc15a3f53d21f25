package routes

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/webhook"
)

// maxPayloadBytes matches the largest payload GitHub delivers.
const maxPayloadBytes = 25 << 20

func RegisterWebhook(injector *do.Injector, e *echo.Echo) {
	e.POST("/webhook", func(c echo.Context) error {
		router := do.MustInvoke[*webhook.Router](injector)

		req := c.Request()
		payload, err := io.ReadAll(io.LimitReader(req.Body, maxPayloadBytes))
		if err != nil {
			zerolog.Ctx(req.Context()).Warn().Err(err).Msg("read webhook body")
			return c.String(http.StatusBadRequest, webhook.BodyInvalid)
		}

		// a deployment keeps going when the provider hangs up mid-build
		ctx := context.WithoutCancel(req.Context())
		res := router.Route(ctx, req.Header, payload)
		return c.String(res.Status, res.Body)
	})
}
