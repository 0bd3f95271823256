package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/bistro/internal/cache"
	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/database"
	"github.com/Additional-Code/bistro/internal/logger"
	"github.com/Additional-Code/bistro/internal/messaging"
	"github.com/Additional-Code/bistro/internal/observability"
	"github.com/Additional-Code/bistro/internal/realtime"
	repositorycategory "github.com/Additional-Code/bistro/internal/repository/category"
	repositorymenu "github.com/Additional-Code/bistro/internal/repository/menu"
	repositoryorder "github.com/Additional-Code/bistro/internal/repository/order"
	repositorytable "github.com/Additional-Code/bistro/internal/repository/table"
	httpserver "github.com/Additional-Code/bistro/internal/server/http"
	servicecategory "github.com/Additional-Code/bistro/internal/service/category"
	servicemenu "github.com/Additional-Code/bistro/internal/service/menu"
	serviceorder "github.com/Additional-Code/bistro/internal/service/order"
	servicetable "github.com/Additional-Code/bistro/internal/service/table"
	transporthttp "github.com/Additional-Code/bistro/internal/transport/http"
	"github.com/Additional-Code/bistro/internal/worker"
	workerorder "github.com/Additional-Code/bistro/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	realtime.Module,
	repositoryorder.Module,
	repositorytable.Module,
	repositorymenu.Module,
	repositorycategory.Module,
	serviceorder.Module,
	servicetable.Module,
	servicemenu.Module,
	servicecategory.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
