package tracking

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/Additional-Code/rentcamp/internal/auth"
)

// Module wires HTTP tracking handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler, admin auth.AdminMiddleware) {
		Register(e, h, admin)
	}),
)
