package order

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

var repoTracer = otel.Tracer("github.com/Additional-Code/bistro/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// ErrStale is returned when a conditional update matched no row: the order
// left the expected state between the caller's read and this write.
var ErrStale = errors.New("order state changed concurrently")

// ItemGuard selects which state an item rewrite requires.
type ItemGuard int

const (
	// GuardPending allows item rewrites only while the order is Pending.
	GuardPending ItemGuard = iota
	// GuardUnpaid allows item rewrites in any open, unpaid state.
	GuardUnpaid
)

// DateBucket selects a creation-time window for listings.
type DateBucket string

const (
	BucketAll       DateBucket = "all"
	BucketToday     DateBucket = "today"
	BucketYesterday DateBucket = "yesterday"
	BucketWeek      DateBucket = "week"
)

// ListFilter narrows order listings. Zero values mean "no constraint";
// cancelled orders are excluded unless IncludeCancelled is set.
type ListFilter struct {
	Status           entity.OrderStatus
	IsClosed         *bool
	Bucket           DateBucket
	IncludeCancelled bool
}

// Repository encapsulates read/write access for orders.
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

// Create persists a new order and its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.type", string(order.OrderType))))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		for _, item := range order.Items {
			item.OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if _, err := tx.NewInsert().Model(&order.Items).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Delete removes an order and its items. Used only to compensate a failed
// dine-in creation; lifecycle closure never deletes rows.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.OrderItem)(nil)).Where("order_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
	}
	return err
}

// Get fetches an order with its items by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Relation("Items").Where("o.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// GetByToken fetches an order by its customer-held resumption token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByToken")
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Relation("Items").Where("o.order_token = ?", token).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	var orders []*entity.Order
	q := r.reader.NewSelect().Model(&orders).Relation("Items").Order("o.created_at DESC")

	if filter.Status != "" {
		q = q.Where("o.status = ?", filter.Status)
	}
	if filter.IsClosed != nil {
		q = q.Where("o.is_closed = ?", *filter.IsClosed)
	}
	if !filter.IncludeCancelled {
		q = q.Where("NOT o.is_cancelled")
	}
	if from, to, bounded := bucketBounds(filter.Bucket, time.Now()); bounded {
		q = q.Where("o.created_at >= ?", from)
		if !to.IsZero() {
			q = q.Where("o.created_at < ?", to)
		}
	}

	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// bucketBounds resolves a date bucket against the server's local midnight.
func bucketBounds(bucket DateBucket, now time.Time) (from, to time.Time, bounded bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch bucket {
	case BucketToday:
		return midnight, time.Time{}, true
	case BucketYesterday:
		return midnight.AddDate(0, 0, -1), midnight, true
	case BucketWeek:
		return midnight.AddDate(0, 0, -6), time.Time{}, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// ReplaceItems rewrites an order's line items and total under the given
// state guard. The guard is re-checked in the UPDATE's WHERE clause so a
// concurrent close or status change loses no writes; ErrStale reports it.
func (r *Repository) ReplaceItems(ctx context.Context, order *entity.Order, guard ItemGuard) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ReplaceItems", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().Model((*entity.Order)(nil)).
			Set("total_amount = ?", order.TotalAmount).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", order.ID).
			Where("NOT is_closed").
			Where("NOT is_cancelled")
		switch guard {
		case GuardPending:
			q = q.Where("status = ?", entity.StatusPending)
		case GuardUnpaid:
			q = q.Where("payment_status = ?", entity.PaymentUnpaid)
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrStale
		}

		if _, err := tx.NewDelete().Model((*entity.OrderItem)(nil)).Where("order_id = ?", order.ID).Exec(ctx); err != nil {
			return err
		}
		for _, item := range order.Items {
			item.ID = 0
			item.OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if _, err := tx.NewInsert().Model(&order.Items).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrStale) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
	}
	return err
}

// UpdateStatus sets kitchen status on an open order.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("NOT is_closed").
		Where("NOT is_cancelled").
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
		return ErrStale
	}
	return nil
}

// MarkPaid settles a served order and closes it.
func (r *Repository) MarkPaid(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.MarkPaid", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("payment_status = ?", entity.PaymentPaid).
		Set("is_closed = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", entity.StatusServed).
		Where("payment_status = ?", entity.PaymentUnpaid).
		Where("NOT is_closed").
		Where("NOT is_cancelled").
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
		return ErrStale
	}
	return nil
}

// MarkCancelled cancels an open, unpaid order and closes it.
func (r *Repository) MarkCancelled(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.MarkCancelled", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("is_cancelled = ?", true).
		Set("is_closed = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("payment_status = ?", entity.PaymentUnpaid).
		Where("NOT is_closed").
		Where("NOT is_cancelled").
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
		return ErrStale
	}
	return nil
}
