package menu

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/bistro/internal/database"
	"github.com/Additional-Code/bistro/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/bistro/repository/menu")

// ErrNotFound is returned when a menu item is missing.
var ErrNotFound = errors.New("menu item not found")

// Repository encapsulates read/write access for menu items.
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

// Create persists a new menu item.
func (r *Repository) Create(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Create", trace.WithAttributes(attribute.String("menu.name", item.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Get fetches a menu item by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Get", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	item := new(entity.MenuItem)
	err := r.reader.NewSelect().Model(item).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return item, nil
}

// List returns menu items, optionally restricted to one category.
func (r *Repository) List(ctx context.Context, categoryID int64) ([]entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.List")
	defer span.End()

	var items []entity.MenuItem
	q := r.reader.NewSelect().Model(&items).Order("name ASC")
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// Update persists mutable fields of a menu item.
func (r *Repository) Update(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Update", trace.WithAttributes(attribute.Int64("menu.id", item.ID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model(item).
		Column("name", "description", "category_id", "price", "image", "available", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
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

// Delete removes a menu item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "MenuRepository.Delete", trace.WithAttributes(attribute.Int64("menu.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.MenuItem)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
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
