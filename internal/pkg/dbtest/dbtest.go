// Package dbtest opens an in-memory database wired the way production
// storage is wired, so service tests exercise real transactions, the
// partial unique index on active sessions and translated constraint errors.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/order"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/domain/table"
)

var dbSeq atomic.Int64

// Open returns an isolated in-memory database carrying the full schema.
// TranslateError is on, matching the production connection, so unique
// violations surface as gorm.ErrDuplicatedKey here too.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the database alive across the pool's
	// connections for the duration of the test.
	dsn := fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&menu.Store{},
		&menu.MenuItem{},
		&menu.CustomizationGroup{},
		&menu.CustomizationOption{},
		&staff.Staff{},
		&table.Table{},
		&session.Session{},
		&cart.Cart{},
		&cart.CartItem{},
		&cart.CartItemOption{},
		&order.Order{},
		&order.Chunk{},
		&order.ChunkItem{},
		&order.ChunkItemOption{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	// The occupancy guard: at most one ACTIVE session per table.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_sessions_one_active_per_table
		ON sessions(table_id) WHERE status = 'ACTIVE'`).Error
	if err != nil {
		t.Fatalf("create partial unique index: %v", err)
	}

	return db
}

// Fixture is the minimal seeded world most service tests start from: one
// store with tax and service charge, one vacant table, one orderable item.
type Fixture struct {
	Store *menu.Store
	Table *table.Table
	Item  *menu.MenuItem
}

// Seed populates the database with a Fixture
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	store := &menu.Store{
		Name:              "Test Bistro",
		TaxRate:           Dec("0.07"),
		ServiceChargeRate: Dec("0.10"),
		Currency:          "USD",
		IsActive:          true,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	tbl := &table.Table{
		StoreID:       store.ID,
		Name:          "T1",
		Capacity:      4,
		CurrentStatus: table.StatusVacant,
	}
	if err := db.Create(tbl).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}

	item := &menu.MenuItem{
		StoreID:     store.ID,
		Name:        "Margherita Pizza",
		Price:       Dec("10.10"),
		IsAvailable: true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}

	return &Fixture{Store: store, Table: tbl, Item: item}
}

// Dec parses a decimal literal, panicking on malformed test input
func Dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Logger returns a logger that stays quiet during tests
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}
