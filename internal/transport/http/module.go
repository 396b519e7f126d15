package http

import (
	"go.uber.org/fx"

	ordertransport "github.com/Additional-Code/rentcamp/internal/transport/http/order"
	trackingtransport "github.com/Additional-Code/rentcamp/internal/transport/http/tracking"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	trackingtransport.Module,
)
