package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/database"
	"github.com/Additional-Code/bistro/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db          *bun.DB
	logger      *zap.Logger
	tablesTotal int
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, cfg config.Config, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger, tablesTotal: cfg.Tables.Total}
}

// All runs every seeder in dependency order.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Categories(ctx); err != nil {
		return err
	}
	if err := s.Menu(ctx); err != nil {
		return err
	}
	return s.Tables(ctx)
}

// Categories seeds the default menu sections if they are missing.
func (s *Seeder) Categories(ctx context.Context) error {
	samples := []entity.Category{
		{Name: "Starters", Position: 1},
		{Name: "Mains", Position: 2},
		{Name: "Breads", Position: 3},
		{Name: "Desserts", Position: 4},
		{Name: "Beverages", Position: 5},
	}

	for _, sample := range samples {
		cat := sample
		_, err := s.db.NewInsert().Model(&cat).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seeded categories", zap.Int("count", len(samples)))
	return nil
}

// Menu seeds a small sample menu. Prices are in minor units.
func (s *Seeder) Menu(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.MenuItem{
		{Name: "Paneer Tikka", CategoryID: 1, Price: 22000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Veg Spring Rolls", CategoryID: 1, Price: 18000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Butter Chicken", CategoryID: 2, Price: 34000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Dal Makhani", CategoryID: 2, Price: 26000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Garlic Naan", CategoryID: 3, Price: 6000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Gulab Jamun", CategoryID: 4, Price: 12000, Available: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Masala Chai", CategoryID: 5, Price: 4000, Available: true, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		item := sample
		_, err := s.db.NewInsert().Model(&item).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seeded menu items", zap.Int("count", len(samples)))
	return nil
}

// Tables seeds the dining table pool, numbered 1..N.
func (s *Seeder) Tables(ctx context.Context) error {
	tables := make([]entity.Table, 0, s.tablesTotal)
	for n := 1; n <= s.tablesTotal; n++ {
		tables = append(tables, entity.Table{TableNumber: n, IsActive: true})
	}

	_, err := s.db.NewInsert().Model(&tables).
		On("CONFLICT (table_number) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("seeded tables", zap.Int("count", len(tables)))
	return nil
}
