// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/cart"
	"github.com/your-org/restaurant-backend/internal/domain/menu"
	"github.com/your-org/restaurant-backend/internal/domain/order"
	"github.com/your-org/restaurant-backend/internal/domain/session"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/domain/table"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:  db,
		cfg: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Store and catalog - base tables
		&menu.Store{},
		&menu.MenuItem{},
		&menu.CustomizationGroup{},
		&menu.CustomizationOption{},

		// Staff
		&staff.Staff{},

		// Floor plan
		&table.Table{},

		// Session domain
		&session.Session{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},
		&cart.CartItemOption{},

		// Order domain - dependent tables
		&order.Order{},
		&order.Chunk{},
		&order.ChunkItem{},
		&order.ChunkItemOption{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes. The partial unique index on
// sessions is the enforcement point for one-active-session-per-table; it
// cannot be expressed through gorm tags.
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Occupancy invariant
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_sessions_one_active_per_table ON sessions(table_id) WHERE status = 'ACTIVE'",

		// Session indexes
		"CREATE INDEX IF NOT EXISTS idx_sessions_store_status ON sessions(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_opened_at ON sessions(opened_at DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_item_options_item ON cart_item_options(cart_item_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_chunks_order ON order_chunks(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_chunks_status ON order_chunks(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_chunk_items_chunk ON order_chunk_items(chunk_id)",

		// Menu indexes
		"CREATE INDEX IF NOT EXISTS idx_menu_items_store_available ON menu_items(store_id, is_available, is_archived)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	store, err := m.seedStore()
	if err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	if err := m.seedTables(store.ID); err != nil {
		return fmt.Errorf("failed to seed tables: %w", err)
	}

	if err := m.seedStaff(store.ID); err != nil {
		return fmt.Errorf("failed to seed staff: %w", err)
	}

	if err := m.seedMenu(store.ID); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedStore creates the default store with the configured rates
func (m *Migration) seedStore() (*menu.Store, error) {
	var existing menu.Store
	if err := m.db.First(&existing).Error; err == nil {
		log.Printf("⏭️ Store already exists: %s", existing.Name)
		return &existing, nil
	}

	taxRate, err := decimal.NewFromString(m.cfg.Store.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid default tax rate %q: %w", m.cfg.Store.DefaultTaxRate, err)
	}
	serviceRate, err := decimal.NewFromString(m.cfg.Store.DefaultServiceRate)
	if err != nil {
		return nil, fmt.Errorf("invalid default service rate %q: %w", m.cfg.Store.DefaultServiceRate, err)
	}

	store := menu.Store{
		Name:              "Main Street Bistro",
		TaxRate:           taxRate,
		ServiceChargeRate: serviceRate,
		Currency:          m.cfg.Store.Currency,
		IsActive:          true,
	}
	if err := m.db.Create(&store).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Created store: %s", store.Name)
	return &store, nil
}

// seedTables creates a starter floor plan
func (m *Migration) seedTables(storeID uint) error {
	var count int64
	m.db.Model(&table.Table{}).Where("store_id = ?", storeID).Count(&count)
	if count > 0 {
		log.Println("⏭️ Tables already exist")
		return nil
	}

	tables := []table.Table{
		{StoreID: storeID, Name: "T1", Capacity: 2, CurrentStatus: table.StatusVacant},
		{StoreID: storeID, Name: "T2", Capacity: 2, CurrentStatus: table.StatusVacant},
		{StoreID: storeID, Name: "T3", Capacity: 4, CurrentStatus: table.StatusVacant},
		{StoreID: storeID, Name: "T4", Capacity: 4, CurrentStatus: table.StatusVacant},
		{StoreID: storeID, Name: "T5", Capacity: 6, CurrentStatus: table.StatusVacant},
		{StoreID: storeID, Name: "T6", Capacity: 8, CurrentStatus: table.StatusVacant},
	}
	for _, tbl := range tables {
		if err := m.db.Create(&tbl).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Created %d tables", len(tables))
	return nil
}

// seedStaff creates one account per role tier for development
func (m *Migration) seedStaff(storeID uint) error {
	accounts := []struct {
		email    string
		name     string
		tier     staff.RoleTier
		password string
	}{
		{"owner@example.com", "Olivia Owner", staff.TierOwner, "owner123"},
		{"manager@example.com", "Marco Manager", staff.TierManager, "manager123"},
		{"server@example.com", "Sam Server", staff.TierServer, "server123"},
	}

	for _, acct := range accounts {
		var existing staff.Staff
		if err := m.db.Where("email = ?", acct.email).First(&existing).Error; err == nil {
			log.Printf("⏭️ Staff member already exists: %s", acct.email)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(acct.password), m.cfg.Security.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		member := staff.Staff{
			StoreID:  storeID,
			Email:    acct.email,
			Password: string(hashed),
			Name:     acct.name,
			RoleTier: acct.tier,
			IsActive: true,
		}
		if err := m.db.Create(&member).Error; err != nil {
			return err
		}
		log.Printf("✅ Created staff member: %s (%s)", acct.email, acct.tier)
	}
	return nil
}

// seedMenu creates a small sample menu with customization groups
func (m *Migration) seedMenu(storeID uint) error {
	var count int64
	m.db.Model(&menu.MenuItem{}).Where("store_id = ?", storeID).Count(&count)
	if count > 0 {
		log.Println("⏭️ Menu items already exist")
		return nil
	}

	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}

	items := []menu.MenuItem{
		{
			StoreID:     storeID,
			Name:        "Margherita Pizza",
			Description: "Tomato, mozzarella, fresh basil",
			Price:       price("12.50"),
			IsAvailable: true,
			SortOrder:   1,
			Groups: []menu.CustomizationGroup{
				{
					Name:          "Size",
					MinSelectable: 1,
					MaxSelectable: 1,
					SortOrder:     1,
					Options: []menu.CustomizationOption{
						{Name: "Regular", Price: price("0.00"), IsAvailable: true, SortOrder: 1},
						{Name: "Large", Price: price("3.50"), IsAvailable: true, SortOrder: 2},
					},
				},
				{
					Name:          "Extra Toppings",
					MinSelectable: 0,
					MaxSelectable: 3,
					SortOrder:     2,
					Options: []menu.CustomizationOption{
						{Name: "Mushrooms", Price: price("1.00"), IsAvailable: true, SortOrder: 1},
						{Name: "Olives", Price: price("1.00"), IsAvailable: true, SortOrder: 2},
						{Name: "Prosciutto", Price: price("2.50"), IsAvailable: true, SortOrder: 3},
					},
				},
			},
		},
		{
			StoreID:     storeID,
			Name:        "Caesar Salad",
			Description: "Romaine, parmesan, house-made croutons",
			Price:       price("8.90"),
			IsAvailable: true,
			SortOrder:   2,
			Groups: []menu.CustomizationGroup{
				{
					Name:          "Protein",
					MinSelectable: 0,
					MaxSelectable: 1,
					SortOrder:     1,
					Options: []menu.CustomizationOption{
						{Name: "Grilled Chicken", Price: price("3.00"), IsAvailable: true, SortOrder: 1},
						{Name: "Shrimp", Price: price("4.50"), IsAvailable: true, SortOrder: 2},
					},
				},
			},
		},
		{
			StoreID:     storeID,
			Name:        "Sparkling Water",
			Description: "750ml bottle",
			Price:       price("3.50"),
			IsAvailable: true,
			SortOrder:   3,
		},
	}

	for _, item := range items {
		if err := m.db.Create(&item).Error; err != nil {
			return err
		}
		log.Printf("✅ Created menu item: %s", item.Name)
	}
	return nil
}
