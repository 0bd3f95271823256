package table

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	"github.com/Additional-Code/bistro/internal/presentation/http/response"
	service "github.com/Additional-Code/bistro/internal/service/table"
	"github.com/Additional-Code/bistro/internal/transport/http/middleware"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/bistro/transport/http/table")

// Handler exposes table endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a table Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Customers only see
// available tables; everything else is dashboard territory.
func Register(e *echo.Echo, h *Handler, auth *middleware.Auth) {
	g := e.Group("/tables")
	g.GET("/available", h.listAvailable)

	owner := auth.RequireOwner()
	g.GET("", h.list, owner)
	g.PATCH("/:number", h.update, owner)
	g.PUT("/:number/free", h.free, owner)
	g.POST("/initialize", h.initialize, owner)
	g.POST("/set-total", h.setTotal, owner)
}

func (h *Handler) listAvailable(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.listAvailable")
	defer span.End()

	tables, err := h.svc.ListAvailable(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTOs(tables)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.list")
	defer span.End()

	tables, err := h.svc.ListAll(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTOs(tables)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	number, err := tableNumber(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.UpdateTableRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.IsActive == nil {
		return b.WithError(errorbank.BadRequest("isActive is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.update",
		trace.WithAttributes(attribute.Int("table.number", number), attribute.Bool("table.active", *payload.IsActive)))
	defer span.End()

	table, err := h.svc.SetActive(ctx, number, *payload.IsActive)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromTable(table)).Build()
}

func (h *Handler) free(c echo.Context) error {
	b := response.New(c)

	number, err := tableNumber(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.free", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	table, err := h.svc.Free(ctx, number)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromTable(table)).WithMessage(fmt.Sprintf("Table %d is now free", number)).Build()
}

func (h *Handler) initialize(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.initialize")
	defer span.End()

	total, created, err := h.svc.Initialize(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	status := http.StatusOK
	message := "Tables already initialized"
	if created {
		status = http.StatusCreated
		message = fmt.Sprintf("Initialized %d tables", total)
	}
	return b.WithStatus(status).WithMessage(message).WithMeta("total", total).Build()
}

func (h *Handler) setTotal(c echo.Context) error {
	b := response.New(c)

	var payload dto.SetTotalRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.setTotal", trace.WithAttributes(attribute.Int("table.total", payload.Total)))
	defer span.End()

	if err := h.svc.Resize(ctx, payload.Total); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithMessage(fmt.Sprintf("Table count set to %d", payload.Total)).Build()
}

func toDTOs(tables []entity.Table) []dto.TableResponse {
	out := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, dto.FromTable(&tables[i]))
	}
	return out
}

func tableNumber(c echo.Context) (int, error) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		return 0, errorbank.BadRequest("invalid table number")
	}
	return number, nil
}
