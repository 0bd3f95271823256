package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	"github.com/Additional-Code/bistro/internal/presentation/http/response"
	service "github.com/Additional-Code/bistro/internal/service/order"
	"github.com/Additional-Code/bistro/internal/transport/http/middleware"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/bistro/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Customer routes are
// anonymous; dashboard routes require an owner token.
func Register(e *echo.Echo, h *Handler, auth *middleware.Auth) {
	g := e.Group("/orders")
	g.POST("", h.create)
	g.GET("/token/:token", h.getByToken)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.editItems)
	g.PUT("/:id/add-items", h.addItems)

	owner := auth.RequireOwner()
	g.GET("", h.list, owner)
	g.PATCH("/:id", h.updateStatus, owner)
	g.PATCH("/:id/payment", h.markPaid, owner)
	g.PUT("/:id/cancel", h.cancel, owner)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create",
		trace.WithAttributes(attribute.String("order.type", payload.OrderType)))
	defer span.End()

	order, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	// The token comes back exactly once, here.
	return b.WithStatus(http.StatusCreated).WithData(dto.FromOrder(order, true)).Build()
}

func (h *Handler) getByToken(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByToken")
	defer span.End()

	order, err := h.svc.GetByToken(ctx, c.Param("token"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, true)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).Build()
}

func (h *Handler) editItems(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.UpdateItemsRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.editItems", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.EditItems(ctx, id, payload.Items)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).Build()
}

func (h *Handler) addItems(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.UpdateItemsRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.addItems", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.AddItems(ctx, id, payload.Items)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.UpdateStatusRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", payload.Status)))
	defer span.End()

	order, err := h.svc.AdvanceStatus(ctx, id, entity.OrderStatus(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).Build()
}

func (h *Handler) markPaid(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.markPaid", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.MarkPaid(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).WithMessage("Order marked as paid").Build()
}

func (h *Handler) cancel(c echo.Context) error {
	b := response.New(c)

	id, err := orderID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.cancel", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Cancel(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order, false)).WithMessage("Order cancelled").Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	query := service.ListQuery{
		Status:     c.QueryParam("status"),
		DateFilter: c.QueryParam("dateFilter"),
	}
	if raw := c.QueryParam("isClosed"); raw != "" {
		closed, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("isClosed must be true or false")).Build()
		}
		query.IsClosed = &closed
	}
	if raw := c.QueryParam("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("includeCancelled must be true or false")).Build()
		}
		query.IncludeCancelled = include
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx, query)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, dto.FromOrder(order, false))
	}
	return b.WithData(out).WithMeta("count", len(out)).Build()
}

func orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.BadRequest("invalid id")
	}
	return id, nil
}
