package http

import (
	"go.uber.org/fx"

	categorytransport "github.com/Additional-Code/bistro/internal/transport/http/category"
	menutransport "github.com/Additional-Code/bistro/internal/transport/http/menu"
	"github.com/Additional-Code/bistro/internal/transport/http/middleware"
	ordertransport "github.com/Additional-Code/bistro/internal/transport/http/order"
	realtimetransport "github.com/Additional-Code/bistro/internal/transport/http/realtime"
	tabletransport "github.com/Additional-Code/bistro/internal/transport/http/table"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	middleware.Module,
	ordertransport.Module,
	tabletransport.Module,
	menutransport.Module,
	categorytransport.Module,
	realtimetransport.Module,
)
