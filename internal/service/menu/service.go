package menu

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/cache"
	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	categoryrepo "github.com/Additional-Code/bistro/internal/repository/category"
	repo "github.com/Additional-Code/bistro/internal/repository/menu"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/bistro/service/menu")

const listCacheKey = "menu:list"

// Store is the persistence surface the menu service needs.
type Store interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	Get(ctx context.Context, id int64) (*entity.MenuItem, error)
	List(ctx context.Context, categoryID int64) ([]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

// CategoryStore validates category references on writes.
type CategoryStore interface {
	Get(ctx context.Context, id int64) (*entity.Category, error)
}

// Service manages the menu catalogue. The full listing is cache-aside:
// it is the hottest read in the system (every customer page load) and
// writes are rare, so every mutation just drops the cached list.
type Service struct {
	store      Store
	categories CategoryStore
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Categories *categoryrepo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:      p.Repository,
		categories: p.Categories,
		cache:      p.Cache,
		cacheTTL:   p.Config.Cache.DefaultTTL,
		logger:     p.Logger,
	}
}

// Create adds a menu item after validating its category exists.
func (s *Service) Create(ctx context.Context, req dto.MenuItemRequest) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Create", trace.WithAttributes(attribute.String("menu.name", req.Name)))
	defer span.End()

	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &entity.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Image:       req.Image,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.store.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create menu item", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	return item, nil
}

// Get fetches a single menu item.
func (s *Service) Get(ctx context.Context, id int64) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Get", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	item, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu item", errorbank.WithCause(err))
	}
	return item, nil
}

// List returns menu items, optionally filtered by category. Only the
// unfiltered listing is cached.
func (s *Service) List(ctx context.Context, categoryID int64) ([]entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.List")
	defer span.End()

	if categoryID == 0 {
		if items, ok := s.listFromCache(ctx); ok {
			return items, nil
		}
	}

	items, err := s.store.List(ctx, categoryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list menu items", errorbank.WithCause(err))
	}

	if categoryID == 0 {
		s.storeList(ctx, items)
	}
	return items, nil
}

// Update replaces the mutable fields of a menu item.
func (s *Service) Update(ctx context.Context, id int64, req dto.MenuItemRequest) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Update", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.CategoryID = req.CategoryID
	item.Price = req.Price
	item.Image = req.Image
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update menu item", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	return item, nil
}

// Delete removes a menu item. Existing orders keep their snapshots.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Delete", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("Menu item not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete menu item", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	return nil
}

func (s *Service) validate(ctx context.Context, req dto.MenuItemRequest) error {
	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if req.Price < 0 {
		problems = append(problems, "price cannot be negative")
	}
	if req.CategoryID <= 0 {
		problems = append(problems, "categoryId is required")
	}
	if len(problems) > 0 {
		return errorbank.BadRequest(strings.Join(problems, ", "), errorbank.WithDetail("fields", problems))
	}

	if _, err := s.categories.Get(ctx, req.CategoryID); err != nil {
		if errors.Is(err, categoryrepo.ErrNotFound) {
			return errorbank.Unprocessable("Category does not exist")
		}
		return errorbank.Internal("failed to verify category", errorbank.WithCause(err))
	}
	return nil
}

func (s *Service) listFromCache(ctx context.Context) ([]entity.MenuItem, bool) {
	bytes, err := s.cache.Get(ctx, listCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("menu cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var items []entity.MenuItem
	if err := json.Unmarshal(bytes, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *Service) storeList(ctx context.Context, items []entity.MenuItem) {
	bytes, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL); err != nil {
		s.logger.Warn("menu cache write failed", zap.Error(err))
	}
}

func (s *Service) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("menu cache invalidation failed", zap.Error(err))
	}
}
