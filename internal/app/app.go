package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/rentcamp/internal/auth"
	"github.com/Additional-Code/rentcamp/internal/cache"
	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/database"
	"github.com/Additional-Code/rentcamp/internal/logger"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	"github.com/Additional-Code/rentcamp/internal/observability"
	"github.com/Additional-Code/rentcamp/internal/realtime"
	repositoryorder "github.com/Additional-Code/rentcamp/internal/repository/order"
	repositorythread "github.com/Additional-Code/rentcamp/internal/repository/thread"
	grpcserver "github.com/Additional-Code/rentcamp/internal/server/grpc"
	httpserver "github.com/Additional-Code/rentcamp/internal/server/http"
	serviceorder "github.com/Additional-Code/rentcamp/internal/service/order"
	servicetracking "github.com/Additional-Code/rentcamp/internal/service/tracking"
	transporthttp "github.com/Additional-Code/rentcamp/internal/transport/http"
	"github.com/Additional-Code/rentcamp/internal/worker"
	workerchat "github.com/Additional-Code/rentcamp/internal/worker/chat"
	workerorder "github.com/Additional-Code/rentcamp/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	repositorythread.Module,
	serviceorder.Module,
	servicetracking.Module,
)

// HTTP wires the HTTP and gRPC servers on top of the core modules.
var HTTP = fx.Options(
	Core,
	auth.Module,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	realtime.Module,
	worker.Module,
	workerorder.Module,
	workerchat.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
