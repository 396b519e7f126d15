package thread

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/database"
	"github.com/Additional-Code/rentcamp/internal/thread"
)

// Module provides the configured support thread store to Fx.
var Module = fx.Provide(NewStore)

// NewStore selects the thread backend from THREAD_STORE.
func NewStore(cfg config.Config, conns *database.Connections, logger *zap.Logger) thread.Store {
	if cfg.Thread.Store == "memory" {
		logger.Warn("support threads kept in process memory; messages are lost on restart")
		return thread.NewMemoryStore()
	}
	return NewRepository(conns)
}
