package table

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/bistro/internal/database"
	"github.com/Additional-Code/bistro/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/bistro/repository/table")

// ErrNotFound is returned when a table is missing.
var ErrNotFound = errors.New("table not found")

// Repository encapsulates read/write access for the table pool. Every state
// flip is a conditional update so two interleaved requests can never both
// win the same table.
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

// Get fetches a table by its number.
func (r *Repository) Get(ctx context.Context, number int) (*entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.Get", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	table := new(entity.Table)
	err := r.reader.NewSelect().Model(table).Where("table_number = ?", number).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return table, nil
}

// List returns the pool ordered by table number, optionally restricted to
// tables a customer can pick (active and free).
func (r *Repository) List(ctx context.Context, availableOnly bool) ([]entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.List")
	defer span.End()

	var tables []entity.Table
	q := r.reader.NewSelect().Model(&tables).Order("table_number ASC")
	if availableOnly {
		q = q.Where("is_active").Where("NOT is_occupied")
	}
	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return tables, nil
}

// Count returns the pool size.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.Table)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return count, nil
}

// CreateRange bulk-inserts active, unoccupied tables numbered from..to.
func (r *Repository) CreateRange(ctx context.Context, from, to int) error {
	ctx, span := repoTracer.Start(ctx, "TableRepository.CreateRange",
		trace.WithAttributes(attribute.Int("table.from", from), attribute.Int("table.to", to)))
	defer span.End()

	now := time.Now().UTC()
	tables := make([]entity.Table, 0, to-from+1)
	for n := from; n <= to; n++ {
		tables = append(tables, entity.Table{
			TableNumber: n,
			IsActive:    true,
			IsOccupied:  false,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if len(tables) == 0 {
		return nil
	}
	_, err := r.writer.NewInsert().Model(&tables).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// DeleteRange removes tables numbered from..to. Callers must verify the
// range is unoccupied first.
func (r *Repository) DeleteRange(ctx context.Context, from, to int) error {
	ctx, span := repoTracer.Start(ctx, "TableRepository.DeleteRange",
		trace.WithAttributes(attribute.Int("table.from", from), attribute.Int("table.to", to)))
	defer span.End()

	_, err := r.writer.NewDelete().Model((*entity.Table)(nil)).
		Where("table_number BETWEEN ? AND ?", from, to).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
	}
	return err
}

// OccupiedNumbers lists the occupied table numbers inside from..to.
func (r *Repository) OccupiedNumbers(ctx context.Context, from, to int) ([]int, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.OccupiedNumbers")
	defer span.End()

	var numbers []int
	err := r.reader.NewSelect().Model((*entity.Table)(nil)).
		Column("table_number").
		Where("table_number BETWEEN ? AND ?", from, to).
		Where("is_occupied").
		Order("table_number ASC").
		Scan(ctx, &numbers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return numbers, nil
}

// Reserve atomically claims a free, active table. The WHERE clause is the
// whole point: a plain read-then-write would let two checkouts both win.
// Returns false when no row matched (missing, inactive, or occupied).
func (r *Repository) Reserve(ctx context.Context, number int) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.Reserve", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Table)(nil)).
		Set("is_occupied = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("table_number = ?", number).
		Where("is_active").
		Where("NOT is_occupied").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AttachOrder records the order holding an already-reserved table.
func (r *Repository) AttachOrder(ctx context.Context, number int, orderID int64) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.AttachOrder",
		trace.WithAttributes(attribute.Int("table.number", number), attribute.Int64("order.id", orderID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Table)(nil)).
		Set("current_order_id = ?", orderID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("table_number = ?", number).
		Where("is_occupied").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Release frees a table. Returns false when the table was already free,
// which callers treat as success or failure depending on the operation.
func (r *Repository) Release(ctx context.Context, number int) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.Release", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Table)(nil)).
		Set("is_occupied = ?", false).
		Set("current_order_id = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("table_number = ?", number).
		Where("is_occupied").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetActive toggles staff availability of a table.
func (r *Repository) SetActive(ctx context.Context, number int, active bool) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.SetActive",
		trace.WithAttributes(attribute.Int("table.number", number), attribute.Bool("table.active", active)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Table)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now().UTC()).
		Where("table_number = ?", number).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
