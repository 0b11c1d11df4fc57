package database_test

import (
	"context"
	"testing"

	"stocks-portfolio/config"
	"stocks-portfolio/database"
	"stocks-portfolio/database/dbtest"
	"stocks-portfolio/logging"
	"stocks-portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	db := dbtest.New(t)

	for _, table := range []string{"users", "stocks", "dividends"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, database.Migrate(context.Background(), db, "sqlite", logging.Discard()))
	})

	t.Run("unknown driver", func(t *testing.T) {
		err := database.Migrate(context.Background(), db, "oracle", logging.Discard())
		assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
	})
}

func TestForeignKeys(t *testing.T) {
	db := dbtest.New(t)
	owner := dbtest.CreateUser(t, db, "alice", false)
	stock := dbtest.CreateStock(t, db, "AAPL", &owner)
	dbtest.CreateDividend(t, db, stock, 5, &owner)

	t.Run("dividend needs an existing stock", func(t *testing.T) {
		err := db.Create(&models.Dividend{Price: 1, StockID: 9999}).Error
		assert.True(t, database.IsForeignKeyViolation(err), "got %v", err)
	})

	t.Run("stock with dividends cannot be deleted", func(t *testing.T) {
		err := db.Delete(&models.Stock{}, stock.ID).Error
		assert.True(t, database.IsForeignKeyViolation(err), "got %v", err)

		var count int64
		require.NoError(t, db.Model(&models.Stock{}).Where("id = ?", stock.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("empty stock name rejected", func(t *testing.T) {
		err := db.Create(&models.Stock{Name: "", DateBuy: stock.DateBuy}).Error
		assert.Error(t, err)
	})
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DBConfig{Driver: "mongo"}, logging.Discard())
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
