// Package testutil opens throwaway SQL databases for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"storefront/internal/domain"
	infraMysql "storefront/internal/infra/mysql"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated gorm DB backed by a sqlite file in t.TempDir().
// A single connection keeps concurrent transactions serialized the way a
// row lock would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "storefront.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infraMysql.AutoMigrate(db))
	return db
}

func SeedProduct(t *testing.T, db *gorm.DB, name, price string, stock int64) domain.Product {
	t.Helper()
	p := domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func SeedUser(t *testing.T, db *gorm.DB, id, name, email string) domain.User {
	t.Helper()
	u := domain.User{ID: id, Name: name, Email: email}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Stock(t *testing.T, db *gorm.DB, productID uint64) int64 {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}

func CountOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	t.Helper()
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	return orders, items
}
