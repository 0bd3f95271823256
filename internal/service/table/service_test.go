package table

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/entity"
	"github.com/Additional-Code/bistro/internal/realtime"
	repo "github.com/Additional-Code/bistro/internal/repository/table"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

// fakeTableStore mimics the repository's conditional updates: Reserve and
// Release are single check-and-set steps under one lock.
type fakeTableStore struct {
	mu     sync.Mutex
	tables map[int]*entity.Table
}

func newFakeTableStore(numbers ...int) *fakeTableStore {
	f := &fakeTableStore{tables: make(map[int]*entity.Table)}
	for _, n := range numbers {
		f.tables[n] = &entity.Table{TableNumber: n, IsActive: true}
	}
	return f
}

func (f *fakeTableStore) Get(ctx context.Context, number int) (*entity.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[number]
	if !ok {
		return nil, repo.ErrNotFound
	}
	dup := *table
	return &dup, nil
}

func (f *fakeTableStore) List(ctx context.Context, availableOnly bool) ([]entity.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Table
	for _, table := range f.tables {
		if availableOnly && (!table.IsActive || table.IsOccupied) {
			continue
		}
		out = append(out, *table)
	}
	return out, nil
}

func (f *fakeTableStore) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables), nil
}

func (f *fakeTableStore) CreateRange(ctx context.Context, from, to int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for n := from; n <= to; n++ {
		f.tables[n] = &entity.Table{TableNumber: n, IsActive: true}
	}
	return nil
}

func (f *fakeTableStore) DeleteRange(ctx context.Context, from, to int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for n := from; n <= to; n++ {
		delete(f.tables, n)
	}
	return nil
}

func (f *fakeTableStore) OccupiedNumbers(ctx context.Context, from, to int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for n := from; n <= to; n++ {
		if table, ok := f.tables[n]; ok && table.IsOccupied {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeTableStore) Reserve(ctx context.Context, number int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[number]
	if !ok || !table.IsActive || table.IsOccupied {
		return false, nil
	}
	table.IsOccupied = true
	return true, nil
}

func (f *fakeTableStore) AttachOrder(ctx context.Context, number int, orderID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[number]
	if !ok || !table.IsOccupied {
		return false, nil
	}
	table.CurrentOrderID = &orderID
	return true, nil
}

func (f *fakeTableStore) Release(ctx context.Context, number int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[number]
	if !ok || !table.IsOccupied {
		return false, nil
	}
	table.IsOccupied = false
	table.CurrentOrderID = nil
	return true, nil
}

func (f *fakeTableStore) SetActive(ctx context.Context, number int, active bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[number]
	if !ok {
		return false, nil
	}
	table.IsActive = active
	return true, nil
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

func newTestService(store Store, rec *recorder, defaultSize int) *Service {
	return &Service{
		store:       store,
		broadcaster: rec,
		logger:      zap.NewNop(),
		defaultSize: defaultSize,
	}
}

func TestReserveConcurrentCheckouts(t *testing.T) {
	store := newFakeTableStore(7)
	svc := newTestService(store, &recorder{}, 20)

	const racers = 32
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Reserve(context.Background(), 7)
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		lost++
		if !errorbank.IsKind(err, errorbank.KindConflict) {
			t.Fatalf("loser error = %v, want conflict", err)
		}
	}
	if won != 1 || lost != racers-1 {
		t.Fatalf("won=%d lost=%d, want exactly one winner", won, lost)
	}
}

func TestReserveDiagnosis(t *testing.T) {
	store := newFakeTableStore(1, 2)
	store.tables[2].IsActive = false
	svc := newTestService(store, &recorder{}, 20)

	if err := svc.Reserve(context.Background(), 99); !errorbank.IsKind(err, errorbank.KindNotFound) {
		t.Fatalf("missing table err = %v, want not_found", err)
	}
	if err := svc.Reserve(context.Background(), 2); !errorbank.IsKind(err, errorbank.KindUnprocessableEntity) {
		t.Fatalf("inactive table err = %v, want unprocessable", err)
	}

	if err := svc.Reserve(context.Background(), 1); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	err := svc.Reserve(context.Background(), 1)
	if !errorbank.IsKind(err, errorbank.KindConflict) {
		t.Fatalf("occupied table err = %v, want conflict", err)
	}
	if errorbank.From(err).Reason() != ReasonTableOccupied {
		t.Fatalf("reason = %q", errorbank.From(err).Reason())
	}
}

func TestReleaseIsIdempotentButFreeIsNot(t *testing.T) {
	store := newFakeTableStore(3)
	rec := &recorder{}
	svc := newTestService(store, rec, 20)

	if err := svc.Reserve(context.Background(), 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := svc.Release(context.Background(), 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := svc.Release(context.Background(), 3); err != nil {
		t.Fatalf("second release must be a no-op: %v", err)
	}

	_, err := svc.Free(context.Background(), 3)
	if !errorbank.IsKind(err, errorbank.KindUnprocessableEntity) {
		t.Fatalf("freeing a free table err = %v, want unprocessable", err)
	}
	if errorbank.From(err).Reason() != ReasonAlreadyFree {
		t.Fatalf("reason = %q", errorbank.From(err).Reason())
	}
}

func TestFreeEmitsEvents(t *testing.T) {
	store := newFakeTableStore(5)
	rec := &recorder{}
	svc := newTestService(store, rec, 20)

	if err := svc.Reserve(context.Background(), 5); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	table, err := svc.Free(context.Background(), 5)
	if err != nil {
		t.Fatalf("Free: %v", err)
	}
	if table.IsOccupied {
		t.Fatal("freed table still occupied")
	}

	kinds := rec.kinds()
	want := []realtime.EventKind{realtime.EventTableAvailable, realtime.EventTableUpdated}
	if len(kinds) != 2 || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := newFakeTableStore()
	svc := newTestService(store, &recorder{}, 20)

	total, created, err := svc.Initialize(context.Background())
	if err != nil || !created || total != 20 {
		t.Fatalf("first init: total=%d created=%v err=%v", total, created, err)
	}

	total, created, err = svc.Initialize(context.Background())
	if err != nil || created || total != 20 {
		t.Fatalf("second init: total=%d created=%v err=%v", total, created, err)
	}
}

func TestResize(t *testing.T) {
	store := newFakeTableStore()
	rec := &recorder{}
	svc := newTestService(store, rec, 10)

	if _, _, err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := svc.Resize(context.Background(), 14); err != nil {
		t.Fatalf("grow: %v", err)
	}
	if count, _ := store.Count(context.Background()); count != 14 {
		t.Fatalf("count = %d, want 14", count)
	}

	if err := svc.Reserve(context.Background(), 13); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	err := svc.Resize(context.Background(), 10)
	if !errorbank.IsKind(err, errorbank.KindConflict) {
		t.Fatalf("shrink over occupied table err = %v, want conflict", err)
	}
	occupied, ok := errorbank.From(err).Details()["occupiedTables"].([]int)
	if !ok || len(occupied) != 1 || occupied[0] != 13 {
		t.Fatalf("occupiedTables detail = %v", errorbank.From(err).Details())
	}

	if err := svc.Release(context.Background(), 13); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := svc.Resize(context.Background(), 10); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if count, _ := store.Count(context.Background()); count != 10 {
		t.Fatalf("count = %d, want 10", count)
	}

	if err := svc.Resize(context.Background(), 0); !errorbank.IsKind(err, errorbank.KindBadRequest) {
		t.Fatalf("zero total err = %v, want bad_request", err)
	}
}

func TestSetActiveUnknownTable(t *testing.T) {
	store := newFakeTableStore(1)
	svc := newTestService(store, &recorder{}, 20)

	if _, err := svc.SetActive(context.Background(), 42, false); !errorbank.IsKind(err, errorbank.KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}

	table, err := svc.SetActive(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if table.IsActive {
		t.Fatal("table still active")
	}
}
