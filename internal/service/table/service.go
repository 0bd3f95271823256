package table

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	"github.com/Additional-Code/bistro/internal/realtime"
	repo "github.com/Additional-Code/bistro/internal/repository/table"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/bistro/service/table")

// Reason codes attached to allocator failures so callers can branch.
const (
	ReasonTableNotFound = "TableNotFound"
	ReasonTableInactive = "TableInactive"
	ReasonTableOccupied = "TableOccupied"
	ReasonAlreadyFree   = "TableAlreadyFree"
)

// Store is the persistence surface the allocator needs. The concrete
// repository implements it; tests substitute an in-memory fake.
type Store interface {
	Get(ctx context.Context, number int) (*entity.Table, error)
	List(ctx context.Context, availableOnly bool) ([]entity.Table, error)
	Count(ctx context.Context) (int, error)
	CreateRange(ctx context.Context, from, to int) error
	DeleteRange(ctx context.Context, from, to int) error
	OccupiedNumbers(ctx context.Context, from, to int) ([]int, error)
	Reserve(ctx context.Context, number int) (bool, error)
	AttachOrder(ctx context.Context, number int, orderID int64) (bool, error)
	Release(ctx context.Context, number int) (bool, error)
	SetActive(ctx context.Context, number int, active bool) (bool, error)
}

// Service is the table allocator: it owns the one-open-dine-in-order-per-
// table invariant and the admin view of the pool. Order-flow paths
// (Reserve/AttachOrder/Release) emit no events; the order lifecycle does.
type Service struct {
	store       Store
	broadcaster realtime.Broadcaster
	logger      *zap.Logger
	defaultSize int
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository  *repo.Repository
	Broadcaster realtime.Broadcaster
	Config      config.Config
	Logger      *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:       p.Repository,
		broadcaster: p.Broadcaster,
		logger:      p.Logger,
		defaultSize: p.Config.Tables.Total,
	}
}

// Reserve atomically claims a free table for a pending dine-in order.
// Failure is diagnosed with a follow-up read purely for the error message;
// the claim itself is the store's single check-and-set.
func (s *Service) Reserve(ctx context.Context, number int) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.Reserve", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	ok, err := s.store.Reserve(ctx, number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to reserve table", errorbank.WithCause(err))
	}
	if ok {
		return nil
	}

	table, err := s.store.Get(ctx, number)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound(fmt.Sprintf("Table %d not found", number), errorbank.WithReason(ReasonTableNotFound))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}
	if !table.IsActive {
		return errorbank.Unprocessable(fmt.Sprintf("Table %d is not active", number), errorbank.WithReason(ReasonTableInactive))
	}
	// Occupied, or lost the race to a concurrent checkout. Same outcome for
	// the customer: pick another table.
	return errorbank.Conflict(fmt.Sprintf("Table %d is already occupied", number), errorbank.WithReason(ReasonTableOccupied))
}

// AttachOrder records which order holds a reserved table.
func (s *Service) AttachOrder(ctx context.Context, number int, orderID int64) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.AttachOrder",
		trace.WithAttributes(attribute.Int("table.number", number), attribute.Int64("order.id", orderID)))
	defer span.End()

	ok, err := s.store.AttachOrder(ctx, number, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to attach order to table", errorbank.WithCause(err))
	}
	if !ok {
		return errorbank.Internal(fmt.Sprintf("table %d lost its reservation", number))
	}
	return nil
}

// Release frees a table when its order closes. Idempotent: releasing an
// already-free table is a no-op, which keeps order closure safe to retry.
func (s *Service) Release(ctx context.Context, number int) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.Release", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	if _, err := s.store.Release(ctx, number); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to release table", errorbank.WithCause(err))
	}
	return nil
}

// Free is the explicit admin action. Unlike Release it reports an
// already-free table as a failure, so staff see stale dashboards.
func (s *Service) Free(ctx context.Context, number int) (*entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.Free", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	released, err := s.store.Release(ctx, number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to free table", errorbank.WithCause(err))
	}
	if !released {
		if _, err := s.store.Get(ctx, number); errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound(fmt.Sprintf("Table %d not found", number), errorbank.WithReason(ReasonTableNotFound))
		}
		return nil, errorbank.Unprocessable(fmt.Sprintf("Table %d is already free", number), errorbank.WithReason(ReasonAlreadyFree))
	}

	table, err := s.store.Get(ctx, number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}

	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventTableAvailable, Payload: dto.TableFreed{TableNumber: number}})
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventTableUpdated, Payload: dto.FromTable(table)})
	return table, nil
}

// Initialize provisions the configured pool if it does not exist yet.
// Returns the pool size and whether tables were created by this call.
func (s *Service) Initialize(ctx context.Context) (int, bool, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.Initialize")
	defer span.End()

	count, err := s.store.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return 0, false, errorbank.Internal("failed to count tables", errorbank.WithCause(err))
	}
	if count > 0 {
		return count, false, nil
	}

	if err := s.store.CreateRange(ctx, 1, s.defaultSize); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return 0, false, errorbank.Internal("failed to create tables", errorbank.WithCause(err))
	}

	s.logger.Info("table pool initialized", zap.Int("total", s.defaultSize))
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventTablesUpdated})
	return s.defaultSize, true, nil
}

// Resize grows or shrinks the pool to newTotal. Growth appends sequentially
// numbered tables; shrinking removes the highest numbers first and refuses
// to remove an occupied table, naming the offenders.
func (s *Service) Resize(ctx context.Context, newTotal int) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.Resize", trace.WithAttributes(attribute.Int("table.total", newTotal)))
	defer span.End()

	if newTotal < 1 {
		return errorbank.BadRequest("Total must be at least 1")
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to count tables", errorbank.WithCause(err))
	}

	switch {
	case newTotal == count:
		return nil
	case newTotal > count:
		if err := s.store.CreateRange(ctx, count+1, newTotal); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store error")
			return errorbank.Internal("failed to grow table pool", errorbank.WithCause(err))
		}
	default:
		occupied, err := s.store.OccupiedNumbers(ctx, newTotal+1, count)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store error")
			return errorbank.Internal("failed to inspect table pool", errorbank.WithCause(err))
		}
		if len(occupied) > 0 {
			return errorbank.Conflict(
				fmt.Sprintf("Cannot remove occupied tables: %v", occupied),
				errorbank.WithReason(ReasonTableOccupied),
				errorbank.WithDetail("occupiedTables", occupied),
			)
		}
		if err := s.store.DeleteRange(ctx, newTotal+1, count); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store error")
			return errorbank.Internal("failed to shrink table pool", errorbank.WithCause(err))
		}
	}

	s.logger.Info("table pool resized", zap.Int("from", count), zap.Int("to", newTotal))
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventTablesUpdated})
	return nil
}

// SetActive toggles whether customers may pick the table.
func (s *Service) SetActive(ctx context.Context, number int, active bool) (*entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.SetActive",
		trace.WithAttributes(attribute.Int("table.number", number), attribute.Bool("table.active", active)))
	defer span.End()

	ok, err := s.store.SetActive(ctx, number, active)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to update table", errorbank.WithCause(err))
	}
	if !ok {
		return nil, errorbank.NotFound(fmt.Sprintf("Table %d not found", number), errorbank.WithReason(ReasonTableNotFound))
	}

	table, err := s.store.Get(ctx, number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}

	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventTableUpdated, Payload: dto.FromTable(table)})
	return table, nil
}

// ListAll returns the whole pool for the admin dashboard.
func (s *Service) ListAll(ctx context.Context) ([]entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.ListAll")
	defer span.End()

	tables, err := s.store.List(ctx, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to list tables", errorbank.WithCause(err))
	}
	return tables, nil
}

// ListAvailable returns tables a customer can pick.
func (s *Service) ListAvailable(ctx context.Context) ([]entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.ListAvailable")
	defer span.End()

	tables, err := s.store.List(ctx, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal("failed to list tables", errorbank.WithCause(err))
	}
	return tables, nil
}
