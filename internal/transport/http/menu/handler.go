package menu

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
	service "github.com/Additional-Code/bistro/internal/service/menu"
	"github.com/Additional-Code/bistro/internal/transport/http/middleware"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/bistro/transport/http/menu")

// Handler exposes menu endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, auth *middleware.Auth) {
	g := e.Group("/menu")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	owner := auth.RequireOwner()
	g.POST("", h.create, owner)
	g.PUT("/:id", h.update, owner)
	g.DELETE("/:id", h.delete, owner)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	var categoryID int64
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return b.WithError(errorbank.BadRequest("invalid category id")).Build()
		}
		categoryID = id
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.list")
	defer span.End()

	items, err := h.svc.List(ctx, categoryID)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toDTO(&items[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	id, err := itemID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.get", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	item, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTO(item)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.MenuItemRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.create", trace.WithAttributes(attribute.String("menu.name", payload.Name)))
	defer span.End()

	item, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(toDTO(item)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := itemID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.MenuItemRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.update", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	item, err := h.svc.Update(ctx, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTO(item)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := itemID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.delete", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithMessage("Menu item deleted").Build()
}

func toDTO(item *entity.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		CategoryID:  item.CategoryID,
		Price:       item.Price,
		Image:       item.Image,
		Available:   item.Available,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func itemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.BadRequest("invalid id")
	}
	return id, nil
}
