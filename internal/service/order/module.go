package order

import (
	"go.uber.org/fx"

	repo "github.com/Additional-Code/rentcamp/internal/repository/order"
)

// Module provides the order service to Fx.
var Module = fx.Provide(
	NewService,
	func(r *repo.Repository) Repository { return r },
)
