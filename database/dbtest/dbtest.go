// Package dbtest opens throwaway sqlite databases with the production schema.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stocks-portfolio/config"
	"stocks-portfolio/database"
	"stocks-portfolio/logging"
	"stocks-portfolio/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated database living in t's temp dir.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "stocks.db"),
	}
	log := logging.Discard()

	db, err := database.Open(cfg, log)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.Migrate(context.Background(), db, cfg.Driver, log), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a dummy password hash.
func CreateUser(t testing.TB, db *gorm.DB, login string, admin bool) models.User {
	t.Helper()
	u := models.User{Login: login, PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateStock inserts an active stock owned by owner (nil for no owner).
func CreateStock(t testing.TB, db *gorm.DB, name string, owner *models.User) models.Stock {
	t.Helper()
	s := models.Stock{
		Name:    name,
		Price:   100,
		DateBuy: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if owner != nil {
		s.OwnerID = &owner.ID
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// CreateDividend inserts a dividend for stock owned by owner.
func CreateDividend(t testing.TB, db *gorm.DB, stock models.Stock, price int, owner *models.User) models.Dividend {
	t.Helper()
	d := models.Dividend{Price: price, StockID: stock.ID}
	if owner != nil {
		d.OwnerID = &owner.ID
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}
