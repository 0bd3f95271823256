package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/bistro/internal/database"
	"github.com/Additional-Code/bistro/internal/entity"
)

// ErrNotFound is returned when a category is missing.
var ErrNotFound = errors.New("category not found")

// Repository encapsulates read/write access for categories.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new category.
func (r *Repository) Create(ctx context.Context, cat *entity.Category) error {
	if cat == nil {
		return errors.New("nil category")
	}
	_, err := r.writer.NewInsert().Model(cat).Exec(ctx)
	return err
}

// Get fetches a category by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*entity.Category, error) {
	cat := new(entity.Category)
	err := r.reader.NewSelect().Model(cat).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// List returns categories in display order.
func (r *Repository) List(ctx context.Context) ([]entity.Category, error) {
	var cats []entity.Category
	if err := r.reader.NewSelect().Model(&cats).Order("position ASC", "name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return cats, nil
}

// Update persists category name and position.
func (r *Repository) Update(ctx context.Context, cat *entity.Category) error {
	if cat == nil {
		return errors.New("nil category")
	}
	res, err := r.writer.NewUpdate().Model(cat).
		Column("name", "position").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.writer.NewDelete().Model((*entity.Category)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
