package category

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	repo "github.com/Additional-Code/bistro/internal/repository/category"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

// Store is the persistence surface the category service needs.
type Store interface {
	Create(ctx context.Context, cat *entity.Category) error
	Get(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, cat *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

// Service manages menu categories.
type Service struct {
	store  Store
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{store: p.Repository, logger: p.Logger}
}

// Create adds a category.
func (s *Service) Create(ctx context.Context, req dto.CategoryRequest) (*entity.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errorbank.BadRequest("name is required")
	}

	cat := &entity.Category{
		Name:     strings.TrimSpace(req.Name),
		Position: req.Position,
	}
	if err := s.store.Create(ctx, cat); err != nil {
		return nil, errorbank.Internal("failed to create category", errorbank.WithCause(err))
	}
	return cat, nil
}

// List returns categories in display order.
func (s *Service) List(ctx context.Context) ([]entity.Category, error) {
	cats, err := s.store.List(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to list categories", errorbank.WithCause(err))
	}
	return cats, nil
}

// Update renames or repositions a category.
func (s *Service) Update(ctx context.Context, id int64, req dto.CategoryRequest) (*entity.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errorbank.BadRequest("name is required")
	}

	cat, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Category not found")
		}
		return nil, errorbank.Internal("failed to load category", errorbank.WithCause(err))
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Position = req.Position

	if err := s.store.Update(ctx, cat); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Category not found")
		}
		return nil, errorbank.Internal("failed to update category", errorbank.WithCause(err))
	}
	return cat, nil
}

// Delete removes a category. Menu items keep their category id; the
// dashboard shows them as uncategorised until reassigned.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("Category not found")
		}
		return errorbank.Internal("failed to delete category", errorbank.WithCause(err))
	}
	return nil
}
