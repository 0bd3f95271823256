package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
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
	"github.com/Additional-Code/bistro/internal/messaging"
	"github.com/Additional-Code/bistro/internal/realtime"
	repo "github.com/Additional-Code/bistro/internal/repository/order"
	tablesvc "github.com/Additional-Code/bistro/internal/service/table"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/bistro/service/order")

// Reason codes attached to guard violations.
const (
	ReasonNotEditable      = "NotEditable"
	ReasonNotServedYet     = "NotServedYet"
	ReasonAlreadyClosed    = "AlreadyClosed"
	ReasonAlreadyCancelled = "AlreadyCancelled"
	ReasonAlreadyPaid      = "AlreadyPaid"
	ReasonLostRace         = "ConcurrentModification"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Store is the persistence surface the lifecycle engine needs. The concrete
// repository implements it; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*entity.Order, error)
	GetByToken(ctx context.Context, token string) (*entity.Order, error)
	List(ctx context.Context, filter repo.ListFilter) ([]*entity.Order, error)
	ReplaceItems(ctx context.Context, order *entity.Order, guard repo.ItemGuard) error
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	MarkPaid(ctx context.Context, id int64) error
	MarkCancelled(ctx context.Context, id int64) error
}

// Allocator is the table-allocation capability the engine drives for dine-in
// orders. The table service implements it.
type Allocator interface {
	Reserve(ctx context.Context, number int) error
	AttachOrder(ctx context.Context, number int, orderID int64) error
	Release(ctx context.Context, number int) error
}

// Service is the order lifecycle engine. Every successful transition
// broadcasts its events synchronously after the store commit and before the
// call returns; guard failures are typed and never mutate state.
type Service struct {
	store       Store
	tables      Allocator
	broadcaster realtime.Broadcaster
	cache       cache.Store
	cacheTTL    time.Duration
	logger      *zap.Logger
	publisher   messaging.Client
	messaging   messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository  *repo.Repository
	Tables      *tablesvc.Service
	Broadcaster realtime.Broadcaster
	Cache       cache.Store
	Config      config.Config
	Logger      *zap.Logger
	Publisher   messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:       p.Repository,
		tables:      p.Tables,
		broadcaster: p.Broadcaster,
		cache:       p.Cache,
		cacheTTL:    p.Config.Cache.DefaultTTL,
		logger:      p.Logger,
		publisher:   p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Create validates a checkout, reserves the table for dine-in, and persists
// the order in Pending/Unpaid/open. The reservation and the insert form a
// two-step commit: a failed insert rolls the reservation back.
func (s *Service) Create(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.type", req.OrderType)))
	defer span.End()

	if err := validateCreate(req); err != nil {
		return nil, err
	}

	token, err := newOrderToken()
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to generate order token", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	order := &entity.Order{
		OrderToken:    token,
		OrderType:     entity.OrderType(req.OrderType),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: req.CustomerPhone,
		Status:        entity.StatusPending,
		PaymentStatus: entity.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range req.Items {
		order.Items = append(order.Items, &entity.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}
	order.RecomputeTotal()

	if order.IsDineIn() {
		order.TableNumber = req.TableNumber
		if err := s.tables.Reserve(ctx, *req.TableNumber); err != nil {
			return nil, err
		}
	}

	if err := s.store.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		if order.IsDineIn() {
			s.rollbackReservation(ctx, *order.TableNumber)
		}
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if order.IsDineIn() {
		if err := s.tables.AttachOrder(ctx, *order.TableNumber, order.ID); err != nil {
			span.RecordError(err)
			s.rollbackReservation(ctx, *order.TableNumber)
			if delErr := s.store.Delete(ctx, order.ID); delErr != nil {
				s.logger.Error("failed to delete order after reservation loss", zap.Int64("id", order.ID), zap.Error(delErr))
			}
			return nil, errorbank.Internal("failed to assign table", errorbank.WithCause(err))
		}
	}

	s.storeInCache(ctx, order)

	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventNewOrder, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	if order.IsDineIn() {
		s.broadcaster.Broadcast(realtime.Event{
			Kind:    realtime.EventTableOccupied,
			OrderID: order.ID,
			Payload: dto.TableOccupied{TableNumber: *order.TableNumber, OrderID: order.ID},
		})
	}
	s.publishEvent(ctx, "new-order", order)

	return order, nil
}

func (s *Service) rollbackReservation(ctx context.Context, tableNumber int) {
	if err := s.tables.Release(ctx, tableNumber); err != nil {
		s.logger.Error("failed to roll back table reservation", zap.Int("table", tableNumber), zap.Error(err))
	}
}

// EditItems replaces the entire item list. Customers may only do this while
// the kitchen has not started, i.e. the order is still Pending and open.
func (s *Service) EditItems(ctx context.Context, id int64, items []dto.OrderItemPayload) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.EditItems", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := validateItems(items); err != nil {
		return nil, err
	}

	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.StatusPending || !order.Open() {
		return nil, errorbank.Unprocessable("Order can no longer be edited", errorbank.WithReason(ReasonNotEditable))
	}

	order.Items = toEntityItems(items)
	order.RecomputeTotal()

	if err := s.store.ReplaceItems(ctx, order, repo.GuardPending); err != nil {
		return nil, s.mutationError(span, err, "failed to update order items")
	}

	s.finishMutation(ctx, order, realtime.EventOrderUpdated, "order-updated")
	return order, nil
}

// AddItems merges extra lines into an unpaid open order. Lines matching an
// existing menu item increment its quantity instead of duplicating the line.
func (s *Service) AddItems(ctx context.Context, id int64, items []dto.OrderItemPayload) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AddItems", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := validateItems(items); err != nil {
		return nil, err
	}

	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := openUnpaidGuard(order); err != nil {
		return nil, err
	}

	for _, line := range items {
		merged := false
		for _, existing := range order.Items {
			if existing.MenuItemID == line.MenuItemID {
				existing.Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			order.Items = append(order.Items, &entity.OrderItem{
				MenuItemID: line.MenuItemID,
				Name:       line.Name,
				Quantity:   line.Quantity,
				Price:      line.Price,
			})
		}
	}
	order.RecomputeTotal()

	if err := s.store.ReplaceItems(ctx, order, repo.GuardUnpaid); err != nil {
		return nil, s.mutationError(span, err, "failed to add order items")
	}

	s.finishMutation(ctx, order, realtime.EventOrderUpdated, "order-updated")
	return order, nil
}

// AdvanceStatus sets kitchen status. Any of the three values is accepted
// regardless of the current one; backward moves are deliberately allowed.
func (s *Service) AdvanceStatus(ctx context.Context, id int64, status entity.OrderStatus) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AdvanceStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	if !status.Valid() {
		return nil, errorbank.BadRequest("Please provide a valid status (Pending, Preparing, or Served)")
	}

	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := openGuard(order); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, s.mutationError(span, err, "failed to update order status")
	}
	order.Status = status

	s.finishMutation(ctx, order, realtime.EventOrderUpdated, "order-updated")
	return order, nil
}

// MarkPaid settles a served order, closes it, and frees its table.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.MarkPaid", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case order.IsCancelled:
		return nil, errorbank.Unprocessable("Order is cancelled", errorbank.WithReason(ReasonAlreadyCancelled))
	case order.PaymentStatus == entity.PaymentPaid:
		return nil, errorbank.Unprocessable("Order is already paid", errorbank.WithReason(ReasonAlreadyPaid))
	case order.IsClosed:
		return nil, errorbank.Unprocessable("Order is already closed", errorbank.WithReason(ReasonAlreadyClosed))
	case order.Status != entity.StatusServed:
		return nil, errorbank.Unprocessable("Order has not been served yet", errorbank.WithReason(ReasonNotServedYet))
	}

	if err := s.store.MarkPaid(ctx, id); err != nil {
		return nil, s.mutationError(span, err, "failed to mark order paid")
	}
	order.PaymentStatus = entity.PaymentPaid
	order.IsClosed = true

	s.releaseIfDineIn(ctx, order)

	s.invalidateCache(ctx, order)
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventOrderUpdated, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventOrderClosed, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	if order.IsDineIn() {
		s.broadcaster.Broadcast(realtime.Event{
			Kind:    realtime.EventTableAvailable,
			OrderID: order.ID,
			Payload: dto.TableFreed{TableNumber: *order.TableNumber},
		})
	}
	s.publishEvent(ctx, "order-closed", order)

	return order, nil
}

// Cancel closes an open, unpaid order as cancelled and frees its table.
func (s *Service) Cancel(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case order.IsCancelled:
		return nil, errorbank.Unprocessable("Order is already cancelled", errorbank.WithReason(ReasonAlreadyCancelled))
	case order.PaymentStatus == entity.PaymentPaid:
		return nil, errorbank.Unprocessable("Paid orders cannot be cancelled", errorbank.WithReason(ReasonAlreadyPaid))
	case order.IsClosed:
		return nil, errorbank.Unprocessable("Order is already closed", errorbank.WithReason(ReasonAlreadyClosed))
	}

	if err := s.store.MarkCancelled(ctx, id); err != nil {
		return nil, s.mutationError(span, err, "failed to cancel order")
	}
	order.IsCancelled = true
	order.IsClosed = true

	s.releaseIfDineIn(ctx, order)

	s.invalidateCache(ctx, order)
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventOrderCancelled, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	s.broadcaster.Broadcast(realtime.Event{Kind: realtime.EventOrderUpdated, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	if order.IsDineIn() {
		s.broadcaster.Broadcast(realtime.Event{
			Kind:    realtime.EventTableAvailable,
			OrderID: order.ID,
			Payload: dto.TableFreed{TableNumber: *order.TableNumber},
		})
	}
	s.publishEvent(ctx, "order-cancelled", order)

	return order, nil
}

// Get retrieves an order by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	return s.getForUpdate(ctx, id)
}

// GetByToken resolves the customer's resumption token, consulting cache
// first. Tokens are the only durable credential customers hold.
func (s *Service) GetByToken(ctx context.Context, token string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.GetByToken")
	defer span.End()

	if token == "" {
		return nil, errorbank.BadRequest("Order token is required")
	}

	if order, err := s.getFromCache(ctx, token); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("order cache read failed", zap.Error(err))
	}

	order, err := s.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	s.storeInCache(ctx, order)
	return order, nil
}

// ListQuery narrows the admin order listing.
type ListQuery struct {
	Status           string
	DateFilter       string
	IsClosed         *bool
	IncludeCancelled bool
}

// List returns orders for the admin dashboard, newest first. Cancelled
// orders are excluded unless explicitly requested.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	filter := repo.ListFilter{
		IsClosed:         q.IsClosed,
		IncludeCancelled: q.IncludeCancelled,
	}

	if q.Status != "" {
		status := entity.OrderStatus(q.Status)
		if !status.Valid() {
			return nil, errorbank.BadRequest("Please provide a valid status (Pending, Preparing, or Served)")
		}
		filter.Status = status
	}

	switch repo.DateBucket(q.DateFilter) {
	case "", repo.BucketAll:
		filter.Bucket = repo.BucketAll
	case repo.BucketToday, repo.BucketYesterday, repo.BucketWeek:
		filter.Bucket = repo.DateBucket(q.DateFilter)
	default:
		return nil, errorbank.BadRequest("Please provide a valid date filter (today, yesterday, week, or all)")
	}

	orders, err := s.store.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

func (s *Service) getForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("Order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// mutationError maps a failed conditional update. ErrStale means the order
// left the guarded state between our read and the write.
func (s *Service) mutationError(span trace.Span, err error, message string) error {
	if errors.Is(err, repo.ErrStale) {
		return errorbank.Conflict("Order was modified concurrently; please retry", errorbank.WithReason(ReasonLostRace))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "repository error")
	return errorbank.Internal(message, errorbank.WithCause(err))
}

// releaseIfDineIn frees the order's table after a terminal transition. The
// transition has already committed, so a release failure is logged and left
// for the explicit admin free action rather than failing the call.
func (s *Service) releaseIfDineIn(ctx context.Context, order *entity.Order) {
	if !order.IsDineIn() || order.TableNumber == nil {
		return
	}
	if err := s.tables.Release(ctx, *order.TableNumber); err != nil {
		s.logger.Error("failed to release table", zap.Int("table", *order.TableNumber), zap.Int64("order", order.ID), zap.Error(err))
	}
}

func (s *Service) finishMutation(ctx context.Context, order *entity.Order, kind realtime.EventKind, event string) {
	s.invalidateCache(ctx, order)
	s.broadcaster.Broadcast(realtime.Event{Kind: kind, OrderID: order.ID, Payload: dto.FromOrder(order, false)})
	s.publishEvent(ctx, event, order)
}

func openGuard(order *entity.Order) error {
	switch {
	case order.IsCancelled:
		return errorbank.Unprocessable("Order is cancelled", errorbank.WithReason(ReasonAlreadyCancelled))
	case order.IsClosed:
		return errorbank.Unprocessable("Order is already closed", errorbank.WithReason(ReasonAlreadyClosed))
	}
	return nil
}

func openUnpaidGuard(order *entity.Order) error {
	if order.PaymentStatus == entity.PaymentPaid {
		return errorbank.Unprocessable("Order is already paid", errorbank.WithReason(ReasonAlreadyPaid))
	}
	return openGuard(order)
}

func toEntityItems(items []dto.OrderItemPayload) []*entity.OrderItem {
	out := make([]*entity.OrderItem, 0, len(items))
	for _, line := range items {
		out = append(out, &entity.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}
	return out
}

// validateCreate collects every violation so the customer sees all of them
// at once instead of fixing the form one field at a time.
func validateCreate(req dto.CreateOrderRequest) error {
	var problems []string

	orderType := entity.OrderType(req.OrderType)
	if !orderType.Valid() {
		problems = append(problems, "orderType must be DineIn or Parcel")
	}
	if len(strings.TrimSpace(req.CustomerName)) < 2 {
		problems = append(problems, "customerName must be at least 2 characters")
	}
	if !phonePattern.MatchString(req.CustomerPhone) {
		problems = append(problems, "customerPhone must be a 10-digit number")
	}
	if orderType == entity.OrderTypeDineIn && (req.TableNumber == nil || *req.TableNumber < 1) {
		problems = append(problems, "tableNumber is required for dine-in orders")
	}
	problems = append(problems, itemProblems(req.Items)...)

	if len(problems) > 0 {
		return errorbank.BadRequest(strings.Join(problems, ", "), errorbank.WithDetail("fields", problems))
	}
	return nil
}

func validateItems(items []dto.OrderItemPayload) error {
	if problems := itemProblems(items); len(problems) > 0 {
		return errorbank.BadRequest(strings.Join(problems, ", "), errorbank.WithDetail("fields", problems))
	}
	return nil
}

func itemProblems(items []dto.OrderItemPayload) []string {
	if len(items) == 0 {
		return []string{"order must have at least one item"}
	}
	var problems []string
	for i, line := range items {
		if line.MenuItemID <= 0 {
			problems = append(problems, fmt.Sprintf("items[%d].menuItemId is required", i))
		}
		if strings.TrimSpace(line.Name) == "" {
			problems = append(problems, fmt.Sprintf("items[%d].name is required", i))
		}
		if line.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if line.Price < 0 {
			problems = append(problems, fmt.Sprintf("items[%d].price cannot be negative", i))
		}
	}
	return problems
}

// newOrderToken returns an unguessable resumption token for anonymous
// customers. 24 random bytes, hex encoded.
func newOrderToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *Service) cacheKey(token string) string {
	return "orders:token:" + token
}

func (s *Service) getFromCache(ctx context.Context, token string) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(token))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) {
	if s.cache == nil || order == nil {
		return
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(order.OrderToken), bytes, s.cacheTTL); err != nil {
		s.logger.Warn("order cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}
}

func (s *Service) invalidateCache(ctx context.Context, order *entity.Order) {
	if s.cache == nil || order == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(order.OrderToken)); err != nil {
		s.logger.Warn("order cache invalidation failed", zap.Int64("id", order.ID), zap.Error(err))
	}
}

// OrderEvent is the message published to the bus after each transition.
type OrderEvent struct {
	Event         string    `json:"event"`
	ID            int64     `json:"id"`
	OrderType     string    `json:"orderType"`
	TableNumber   *int      `json:"tableNumber,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   int64     `json:"totalAmount"`
	IsClosed      bool      `json:"isClosed"`
	IsCancelled   bool      `json:"isCancelled"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (s *Service) publishEvent(ctx context.Context, event string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	msg := OrderEvent{
		Event:         event,
		ID:            order.ID,
		OrderType:     string(order.OrderType),
		TableNumber:   order.TableNumber,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TotalAmount:   order.TotalAmount,
		IsClosed:      order.IsClosed,
		IsCancelled:   order.IsCancelled,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order event", zap.String("event", event), zap.Error(err))
	}
}
