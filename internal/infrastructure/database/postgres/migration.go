// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Run applies auto-migrations, the order number sequence and indexes
func (m *Migration) Run() error {
	if err := m.RunAutoMigrations(); err != nil {
		return err
	}
	if err := m.CreateSequences(); err != nil {
		return err
	}
	return m.CreateIndexes()
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	// Dependency order
	models := []interface{}{
		&inventory.Product{},
		&inventory.StockMovement{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateSequences creates the sequence order numbers are allocated from
func (m *Migration) CreateSequences() error {
	sql := fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", order.OrderNumberSequence)
	if err := m.db.Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to create order number sequence: %w", err)
	}
	return nil
}

// CreateIndexes creates indexes gorm tags do not express
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",

		// Stock movement indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order item indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// DevelopmentCatalog is the repair-parts catalog used by development seeds
func DevelopmentCatalog() []inventory.Product {
	return []inventory.Product{
		{ID: "scr-ip13", SKU: "SCR-IP13-OLED", Name: "iPhone 13 OLED Screen Assembly", Price: decimal.RequireFromString("89.99"), StockQuantity: 25, IsActive: true},
		{ID: "bat-ip12", SKU: "BAT-IP12", Name: "iPhone 12 Replacement Battery", Price: decimal.RequireFromString("29.50"), StockQuantity: 60, IsActive: true},
		{ID: "chg-usbc-s21", SKU: "CHG-USBC-S21", Name: "Galaxy S21 USB-C Charging Port Flex", Price: decimal.RequireFromString("12.75"), StockQuantity: 40, IsActive: true},
		{ID: "cam-px6-rear", SKU: "CAM-PX6-REAR", Name: "Pixel 6 Rear Camera Module", Price: decimal.RequireFromString("54.00"), StockQuantity: 8, IsActive: true},
		{ID: "kit-pentalobe", SKU: "KIT-PENTALOBE", Name: "Pentalobe Screwdriver Kit", Price: decimal.RequireFromString("9.99"), StockQuantity: 120, IsActive: true},
		{ID: "adh-strips", SKU: "ADH-STRIPS-10", Name: "Battery Adhesive Strips (10 pack)", Price: decimal.RequireFromString("4.25"), StockQuantity: 0, IsActive: true},
		{ID: "scr-ipx-lcd", SKU: "SCR-IPX-LCD", Name: "iPhone X LCD Screen (discontinued)", Price: decimal.RequireFromString("39.00"), StockQuantity: 3, IsActive: false},
	}
}

// SeedCatalog inserts the development repair-parts catalog
func (m *Migration) SeedCatalog() error {
	m.logger.Info("🌱 Seeding repair parts catalog...")

	products := DevelopmentCatalog()

	for i := range products {
		var existing inventory.Product
		err := m.db.Where("id = ?", products[i].ID).First(&existing).Error
		switch {
		case err == nil:
			m.logger.Debugf("⏭️ Product already exists: %s", products[i].Name)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := m.db.Create(&products[i]).Error; err != nil {
				m.logger.WithError(err).Warnf("⚠️ Failed to create product %s", products[i].SKU)
				continue
			}
			m.logger.Debugf("✅ Created product: %s", products[i].Name)
		default:
			return fmt.Errorf("failed to check product %s: %w", products[i].ID, err)
		}
	}

	m.logger.Info("✅ Catalog seeded successfully")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"order_status_history",
		"order_items",
		"orders",
		"stock_movements",
		"products",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	if err := m.db.Exec(fmt.Sprintf("DROP SEQUENCE IF EXISTS %s", order.OrderNumberSequence)).Error; err != nil {
		return fmt.Errorf("failed to drop order number sequence: %w", err)
	}

	m.logger.Info("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo logs the row count of every public table
func (m *Migration) GetTableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		m.logger.WithFields(logrus.Fields{
			"table":   table,
			"records": count,
		}).Debug("📊 Table info")
	}

	m.logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"records": totalRecords,
	}).Info("📈 Database summary")
	return nil
}
