package order

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/dto"
	"github.com/Additional-Code/bistro/internal/entity"
	"github.com/Additional-Code/bistro/internal/realtime"
	repo "github.com/Additional-Code/bistro/internal/repository/order"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

type fakeStore struct {
	mu     sync.Mutex
	orders map[int64]*entity.Order
	nextID int64

	createErr  error
	deleteErr  error
	forceStale bool

	deleted []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]*entity.Order)}
}

func (f *fakeStore) Create(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	order.ID = f.nextID
	for _, item := range order.Items {
		item.OrderID = order.ID
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (f *fakeStore) GetByToken(ctx context.Context, token string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.OrderToken == token {
			return cloneOrder(order), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeStore) List(ctx context.Context, filter repo.ListFilter) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, order := range f.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.IsClosed != nil && order.IsClosed != *filter.IsClosed {
			continue
		}
		if !filter.IncludeCancelled && order.IsCancelled {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	return out, nil
}

func (f *fakeStore) ReplaceItems(ctx context.Context, order *entity.Order, guard repo.ItemGuard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[order.ID]
	if !ok {
		return repo.ErrStale
	}
	if f.forceStale || !stored.Open() {
		return repo.ErrStale
	}
	if guard == repo.GuardPending && stored.Status != entity.StatusPending {
		return repo.ErrStale
	}
	if guard == repo.GuardUnpaid && stored.PaymentStatus != entity.PaymentUnpaid {
		return repo.ErrStale
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[id]
	if !ok || f.forceStale || !stored.Open() {
		return repo.ErrStale
	}
	stored.Status = status
	return nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[id]
	if !ok || f.forceStale || !stored.Open() || stored.Status != entity.StatusServed || stored.PaymentStatus != entity.PaymentUnpaid {
		return repo.ErrStale
	}
	stored.PaymentStatus = entity.PaymentPaid
	stored.IsClosed = true
	return nil
}

func (f *fakeStore) MarkCancelled(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[id]
	if !ok || f.forceStale || !stored.Open() || stored.PaymentStatus != entity.PaymentUnpaid {
		return repo.ErrStale
	}
	stored.IsCancelled = true
	stored.IsClosed = true
	return nil
}

func cloneOrder(order *entity.Order) *entity.Order {
	dup := *order
	dup.Items = make([]*entity.OrderItem, len(order.Items))
	for i, item := range order.Items {
		line := *item
		dup.Items[i] = &line
	}
	return &dup
}

type fakeAllocator struct {
	mu       sync.Mutex
	occupied map[int]bool

	reserveErr error
	attachErr  error
	releaseErr error

	reserved []int
	attached []int64
	released []int
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{occupied: make(map[int]bool)}
}

func (f *fakeAllocator) Reserve(ctx context.Context, number int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return f.reserveErr
	}
	if f.occupied[number] {
		return errorbank.Conflict("occupied")
	}
	f.occupied[number] = true
	f.reserved = append(f.reserved, number)
	return nil
}

func (f *fakeAllocator) AttachOrder(ctx context.Context, number int, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached = append(f.attached, orderID)
	return nil
}

func (f *fakeAllocator) Release(ctx context.Context, number int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.occupied[number] = false
	f.released = append(f.released, number)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Broadcast(ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []realtime.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func newTestService(store *fakeStore, alloc *fakeAllocator, rec *recorder) *Service {
	return &Service{
		store:       store,
		tables:      alloc,
		broadcaster: rec,
		logger:      zap.NewNop(),
	}
}

func tablePtr(n int) *int { return &n }

func validParcelRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		OrderType:     "Parcel",
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		Items: []dto.OrderItemPayload{
			{MenuItemID: 1, Name: "Butter Chicken", Quantity: 2, Price: 34000},
			{MenuItemID: 5, Name: "Garlic Naan", Quantity: 3, Price: 6000},
		},
	}
}

func validDineInRequest() dto.CreateOrderRequest {
	req := validParcelRequest()
	req.OrderType = "DineIn"
	req.TableNumber = tablePtr(4)
	return req
}

func TestCreateParcel(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	order, err := svc.Create(context.Background(), validParcelRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.Status != entity.StatusPending || order.PaymentStatus != entity.PaymentUnpaid {
		t.Fatalf("new order not Pending/Unpaid: %s/%s", order.Status, order.PaymentStatus)
	}
	if order.IsClosed || order.IsCancelled {
		t.Fatal("new order must be open")
	}
	if want := int64(2*34000 + 3*6000); order.TotalAmount != want {
		t.Fatalf("total = %d, want %d", order.TotalAmount, want)
	}
	if len(order.OrderToken) != 48 {
		t.Fatalf("token length = %d, want 48", len(order.OrderToken))
	}
	if _, err := hex.DecodeString(order.OrderToken); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
	if len(alloc.reserved) != 0 {
		t.Fatal("parcel order must not touch tables")
	}
	kinds := rec.kinds()
	if len(kinds) != 1 || kinds[0] != realtime.EventNewOrder {
		t.Fatalf("events = %v, want [new-order]", kinds)
	}
}

func TestCreateDineInReservesTable(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	order, err := svc.Create(context.Background(), validDineInRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(alloc.reserved) != 1 || alloc.reserved[0] != 4 {
		t.Fatalf("reserved = %v, want [4]", alloc.reserved)
	}
	if len(alloc.attached) != 1 || alloc.attached[0] != order.ID {
		t.Fatalf("attached = %v, want [%d]", alloc.attached, order.ID)
	}
	kinds := rec.kinds()
	if len(kinds) != 2 || kinds[0] != realtime.EventNewOrder || kinds[1] != realtime.EventTableOccupied {
		t.Fatalf("events = %v", kinds)
	}
}

func TestCreateDineInTableTaken(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	alloc.occupied[4] = true
	svc := newTestService(store, alloc, rec)

	_, err := svc.Create(context.Background(), validDineInRequest())
	if !errorbank.IsKind(err, errorbank.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(store.orders) != 0 {
		t.Fatal("no order may be created when the table is taken")
	}
	if len(rec.kinds()) != 0 {
		t.Fatal("no events on failed create")
	}
}

func TestCreateInsertFailureReleasesTable(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	store.createErr = errors.New("db down")
	svc := newTestService(store, alloc, rec)

	_, err := svc.Create(context.Background(), validDineInRequest())
	if !errorbank.IsKind(err, errorbank.KindInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
	if len(alloc.released) != 1 || alloc.released[0] != 4 {
		t.Fatalf("released = %v, want [4]", alloc.released)
	}
}

func TestCreateAttachFailureCompensates(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	alloc.attachErr = errors.New("attach failed")
	svc := newTestService(store, alloc, rec)

	_, err := svc.Create(context.Background(), validDineInRequest())
	if !errorbank.IsKind(err, errorbank.KindInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
	if len(alloc.released) != 1 {
		t.Fatalf("released = %v, want one release", alloc.released)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("deleted = %v, want the compensated order", store.deleted)
	}
	if len(store.orders) != 0 {
		t.Fatal("compensated order must not survive")
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateOrderRequest)
	}{
		{"bad type", func(r *dto.CreateOrderRequest) { r.OrderType = "Delivery" }},
		{"short name", func(r *dto.CreateOrderRequest) { r.CustomerName = " A " }},
		{"bad phone", func(r *dto.CreateOrderRequest) { r.CustomerPhone = "12345" }},
		{"no items", func(r *dto.CreateOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *dto.CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *dto.CreateOrderRequest) { r.Items[0].Price = -1 }},
		{"dine-in without table", func(r *dto.CreateOrderRequest) {
			r.OrderType = "DineIn"
			r.TableNumber = nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
			svc := newTestService(store, alloc, rec)

			req := validParcelRequest()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			if !errorbank.IsKind(err, errorbank.KindBadRequest) {
				t.Fatalf("err = %v, want bad_request", err)
			}
			if len(store.orders) != 0 {
				t.Fatal("invalid request must not persist anything")
			}
		})
	}
}

func TestCreateValidationCollectsAllProblems(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	req := validParcelRequest()
	req.CustomerName = "X"
	req.CustomerPhone = "abc"

	_, err := svc.Create(context.Background(), req)
	appErr := errorbank.From(err)
	fields, ok := appErr.Details()["fields"].([]string)
	if !ok || len(fields) != 2 {
		t.Fatalf("details = %v, want both violations reported", appErr.Details())
	}
}

func seedOrder(t *testing.T, svc *Service, req dto.CreateOrderRequest) *entity.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestEditItemsReplacesAndRecomputes(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	updated, err := svc.EditItems(context.Background(), order.ID, []dto.OrderItemPayload{
		{MenuItemID: 7, Name: "Masala Chai", Quantity: 1, Price: 4000},
	})
	if err != nil {
		t.Fatalf("EditItems: %v", err)
	}
	if len(updated.Items) != 1 || updated.TotalAmount != 4000 {
		t.Fatalf("items=%d total=%d, want full replacement", len(updated.Items), updated.TotalAmount)
	}
}

func TestEditItemsOnlyWhilePending(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	if _, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusPreparing); err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}

	_, err := svc.EditItems(context.Background(), order.ID, validParcelRequest().Items)
	if !errorbank.IsKind(err, errorbank.KindUnprocessableEntity) {
		t.Fatalf("err = %v, want unprocessable", err)
	}
	if errorbank.From(err).Reason() != ReasonNotEditable {
		t.Fatalf("reason = %q, want %q", errorbank.From(err).Reason(), ReasonNotEditable)
	}
}

func TestAddItemsMergesByMenuItem(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	if _, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusPreparing); err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}

	updated, err := svc.AddItems(context.Background(), order.ID, []dto.OrderItemPayload{
		{MenuItemID: 1, Name: "Butter Chicken", Quantity: 1, Price: 34000},
		{MenuItemID: 6, Name: "Gulab Jamun", Quantity: 2, Price: 12000},
	})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if len(updated.Items) != 3 {
		t.Fatalf("items = %d, want merged line plus new line", len(updated.Items))
	}
	for _, item := range updated.Items {
		if item.MenuItemID == 1 && item.Quantity != 3 {
			t.Fatalf("merged quantity = %d, want 3", item.Quantity)
		}
	}
	if want := int64(3*34000 + 3*6000 + 2*12000); updated.TotalAmount != want {
		t.Fatalf("total = %d, want %d", updated.TotalAmount, want)
	}
}

func TestGuardMatrix(t *testing.T) {
	serve := func(svc *Service, id int64) {
		if _, err := svc.AdvanceStatus(context.Background(), id, entity.StatusServed); err != nil {
			t.Fatalf("serve: %v", err)
		}
	}
	pay := func(svc *Service, id int64) {
		serve(svc, id)
		if _, err := svc.MarkPaid(context.Background(), id); err != nil {
			t.Fatalf("pay: %v", err)
		}
	}
	cancel := func(svc *Service, id int64) {
		if _, err := svc.Cancel(context.Background(), id); err != nil {
			t.Fatalf("cancel: %v", err)
		}
	}

	cases := []struct {
		name    string
		setup   func(*Service, int64)
		attempt func(*Service, int64) error
		reason  string
	}{
		{"pay before served", nil, func(svc *Service, id int64) error {
			_, err := svc.MarkPaid(context.Background(), id)
			return err
		}, ReasonNotServedYet},
		{"pay twice", pay, func(svc *Service, id int64) error {
			_, err := svc.MarkPaid(context.Background(), id)
			return err
		}, ReasonAlreadyPaid},
		{"pay cancelled", cancel, func(svc *Service, id int64) error {
			_, err := svc.MarkPaid(context.Background(), id)
			return err
		}, ReasonAlreadyCancelled},
		{"cancel paid", pay, func(svc *Service, id int64) error {
			_, err := svc.Cancel(context.Background(), id)
			return err
		}, ReasonAlreadyPaid},
		{"cancel twice", cancel, func(svc *Service, id int64) error {
			_, err := svc.Cancel(context.Background(), id)
			return err
		}, ReasonAlreadyCancelled},
		{"add items after payment", pay, func(svc *Service, id int64) error {
			_, err := svc.AddItems(context.Background(), id, validParcelRequest().Items)
			return err
		}, ReasonAlreadyPaid},
		{"status change after cancel", cancel, func(svc *Service, id int64) error {
			_, err := svc.AdvanceStatus(context.Background(), id, entity.StatusPreparing)
			return err
		}, ReasonAlreadyCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
			svc := newTestService(store, alloc, rec)
			order := seedOrder(t, svc, validParcelRequest())

			if tc.setup != nil {
				tc.setup(svc, order.ID)
			}

			err := tc.attempt(svc, order.ID)
			if !errorbank.IsKind(err, errorbank.KindUnprocessableEntity) {
				t.Fatalf("err = %v, want unprocessable", err)
			}
			if got := errorbank.From(err).Reason(); got != tc.reason {
				t.Fatalf("reason = %q, want %q", got, tc.reason)
			}
		})
	}
}

func TestAdvanceStatusBackwardAllowed(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	if _, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusServed); err != nil {
		t.Fatalf("forward: %v", err)
	}
	updated, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusPending)
	if err != nil {
		t.Fatalf("backward: %v", err)
	}
	if updated.Status != entity.StatusPending {
		t.Fatalf("status = %s, want Pending", updated.Status)
	}
}

func TestAdvanceStatusRejectsUnknown(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	_, err := svc.AdvanceStatus(context.Background(), order.ID, "Delivered")
	if !errorbank.IsKind(err, errorbank.KindBadRequest) {
		t.Fatalf("err = %v, want bad_request", err)
	}
}

func TestMarkPaidClosesAndFreesTable(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validDineInRequest())

	if _, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusServed); err != nil {
		t.Fatalf("serve: %v", err)
	}
	paid, err := svc.MarkPaid(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.PaymentStatus != entity.PaymentPaid || !paid.IsClosed {
		t.Fatal("paid order must be Paid and closed")
	}
	if len(alloc.released) != 1 || alloc.released[0] != 4 {
		t.Fatalf("released = %v, want [4]", alloc.released)
	}

	kinds := rec.kinds()
	tail := kinds[len(kinds)-3:]
	want := []realtime.EventKind{realtime.EventOrderUpdated, realtime.EventOrderClosed, realtime.EventTableAvailable}
	for i, kind := range want {
		if tail[i] != kind {
			t.Fatalf("closing events = %v, want %v", tail, want)
		}
	}
}

func TestCancelFreesTable(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validDineInRequest())

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !cancelled.IsCancelled || !cancelled.IsClosed {
		t.Fatal("cancelled order must be cancelled and closed")
	}
	if len(alloc.released) != 1 {
		t.Fatalf("released = %v, want the order's table", alloc.released)
	}

	kinds := rec.kinds()
	tail := kinds[len(kinds)-3:]
	want := []realtime.EventKind{realtime.EventOrderCancelled, realtime.EventOrderUpdated, realtime.EventTableAvailable}
	for i, kind := range want {
		if tail[i] != kind {
			t.Fatalf("cancel events = %v, want %v", tail, want)
		}
	}
}

func TestReleaseFailureDoesNotFailPayment(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validDineInRequest())

	if _, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusServed); err != nil {
		t.Fatalf("serve: %v", err)
	}

	alloc.releaseErr = errors.New("table gone")
	paid, err := svc.MarkPaid(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("MarkPaid must succeed despite release failure: %v", err)
	}
	if !paid.IsClosed {
		t.Fatal("order must still close")
	}
}

func TestStaleWriteMapsToConflict(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	store.forceStale = true
	_, err := svc.AdvanceStatus(context.Background(), order.ID, entity.StatusPreparing)
	if !errorbank.IsKind(err, errorbank.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if errorbank.From(err).Reason() != ReasonLostRace {
		t.Fatalf("reason = %q", errorbank.From(err).Reason())
	}
}

func TestGetByToken(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)
	order := seedOrder(t, svc, validParcelRequest())

	found, err := svc.GetByToken(context.Background(), order.OrderToken)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("resolved id = %d, want %d", found.ID, order.ID)
	}

	if _, err := svc.GetByToken(context.Background(), "deadbeef"); !errorbank.IsKind(err, errorbank.KindNotFound) {
		t.Fatalf("unknown token err = %v, want not_found", err)
	}
	if _, err := svc.GetByToken(context.Background(), ""); !errorbank.IsKind(err, errorbank.KindBadRequest) {
		t.Fatalf("empty token err = %v, want bad_request", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		order := seedOrder(t, svc, validParcelRequest())
		if seen[order.OrderToken] {
			t.Fatal("duplicate token generated")
		}
		seen[order.OrderToken] = true
	}
}

func TestListValidation(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	if _, err := svc.List(context.Background(), ListQuery{Status: "Delivered"}); !errorbank.IsKind(err, errorbank.KindBadRequest) {
		t.Fatalf("bad status err = %v", err)
	}
	if _, err := svc.List(context.Background(), ListQuery{DateFilter: "fortnight"}); !errorbank.IsKind(err, errorbank.KindBadRequest) {
		t.Fatalf("bad date filter err = %v", err)
	}
}

func TestListExcludesCancelledByDefault(t *testing.T) {
	store, alloc, rec := newFakeStore(), newFakeAllocator(), &recorder{}
	svc := newTestService(store, alloc, rec)

	keep := seedOrder(t, svc, validParcelRequest())
	doomed := seedOrder(t, svc, validParcelRequest())
	if _, err := svc.Cancel(context.Background(), doomed.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	orders, err := svc.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != keep.ID {
		t.Fatalf("default listing = %d orders, want only the open one", len(orders))
	}

	orders, err = svc.List(context.Background(), ListQuery{IncludeCancelled: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("inclusive listing = %d orders, want 2", len(orders))
	}
}
