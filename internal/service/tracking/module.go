package tracking

import (
	"go.uber.org/fx"

	serviceorder "github.com/Additional-Code/rentcamp/internal/service/order"
)

// Module provides the tracking service to Fx.
var Module = fx.Provide(
	NewService,
	func(s *serviceorder.Service) OrderSource { return s },
)
