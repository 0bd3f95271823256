package category

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
	service "github.com/Additional-Code/bistro/internal/service/category"
	"github.com/Additional-Code/bistro/internal/transport/http/middleware"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/bistro/transport/http/category")

// Handler exposes category endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a category Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, auth *middleware.Auth) {
	g := e.Group("/categories")
	g.GET("", h.list)

	owner := auth.RequireOwner()
	g.POST("", h.create, owner)
	g.PUT("/:id", h.update, owner)
	g.DELETE("/:id", h.delete, owner)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.list")
	defer span.End()

	cats, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, toDTO(&cats[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CategoryRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.create", trace.WithAttributes(attribute.String("category.name", payload.Name)))
	defer span.End()

	cat, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(toDTO(cat)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := categoryID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.CategoryRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.update", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	cat, err := h.svc.Update(ctx, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(toDTO(cat)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := categoryID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "categories.delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithMessage("Category deleted").Build()
}

func toDTO(cat *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:       cat.ID,
		Name:     cat.Name,
		Position: cat.Position,
	}
}

func categoryID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.BadRequest("invalid id")
	}
	return id, nil
}
