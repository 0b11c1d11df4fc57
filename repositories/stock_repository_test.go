package repositories_test

import (
	"context"
	"testing"
	"time"

	"stocks-portfolio/database/dbtest"
	"stocks-portfolio/models"
	"stocks-portfolio/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockIDs(stocks []models.Stock) []uint {
	ids := make([]uint, 0, len(stocks))
	for _, s := range stocks {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestStockRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewStockRepository(db)
	ctx := context.Background()

	alice := dbtest.CreateUser(t, db, "alice", false)
	bob := dbtest.CreateUser(t, db, "bob", false)

	t.Run("Add and GetByID", func(t *testing.T) {
		stock := &models.Stock{
			Name:    "AAPL",
			Price:   100,
			DateBuy: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		stock.SetOwner(alice)

		require.NoError(t, repo.Add(ctx, stock))
		require.NotZero(t, stock.ID)

		got, err := repo.GetByID(ctx, stock.ID)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", got.Name)
		assert.Equal(t, 100, got.Price)
		assert.True(t, got.DateBuy.Equal(stock.DateBuy))
		assert.False(t, got.IsDeleted)
		assert.Equal(t, "alice", got.OwnerName())
		ownerID, ok := got.OwnerRef()
		assert.True(t, ok)
		assert.Equal(t, alice.ID, ownerID)
	})

	t.Run("Add does not write the owner row", func(t *testing.T) {
		stock := &models.Stock{Name: "MSFT", Price: 1, DateBuy: time.Now()}
		stock.SetOwner(models.User{ID: bob.ID, Login: "renamed"})
		require.NoError(t, repo.Add(ctx, stock))

		var owner models.User
		require.NoError(t, db.First(&owner, bob.ID).Error)
		assert.Equal(t, "bob", owner.Login)
	})

	t.Run("GetByID for non-existent stock", func(t *testing.T) {
		stock, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Nil(t, stock)
	})

	t.Run("owner is optional", func(t *testing.T) {
		orphan := dbtest.CreateStock(t, db, "OFZ", nil)

		got, err := repo.GetByID(ctx, orphan.ID)
		require.NoError(t, err)
		_, ok := got.OwnerRef()
		assert.False(t, ok)
		assert.Equal(t, models.UnknownOwner, got.OwnerName())
	})

	t.Run("UpdateName and UpdateLogoURL", func(t *testing.T) {
		stock := dbtest.CreateStock(t, db, "GAZP", &alice)

		require.NoError(t, repo.UpdateName(ctx, stock.ID, "SBER"))
		require.NoError(t, repo.UpdateLogoURL(ctx, stock.ID, "/images/logo/stockLogo1.png"))

		got, err := repo.GetByID(ctx, stock.ID)
		require.NoError(t, err)
		assert.Equal(t, "SBER", got.Name)
		assert.Equal(t, "/images/logo/stockLogo1.png", got.LogoURL)

		assert.ErrorIs(t, repo.UpdateName(ctx, 999999, "X"), repositories.ErrNotFound)
		assert.ErrorIs(t, repo.UpdateLogoURL(ctx, 999999, "/x"), repositories.ErrNotFound)
	})

	t.Run("ListByOwner", func(t *testing.T) {
		stocks, err := repo.ListByOwner(ctx, bob.ID)
		require.NoError(t, err)
		for _, s := range stocks {
			id, _ := s.OwnerRef()
			assert.Equal(t, bob.ID, id)
			assert.False(t, s.IsDeleted)
		}
		assert.NotEmpty(t, stocks)
	})
}

func TestStockRepositoryListRecent(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewStockRepository(db)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "alice", false)

	var created []models.Stock
	for _, name := range []string{"A", "B", "C", "D"} {
		created = append(created, dbtest.CreateStock(t, db, name, &owner))
	}

	stocks, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{created[3].ID, created[2].ID, created[1].ID}, stockIDs(stocks))
	assert.Equal(t, "alice", stocks[0].OwnerName())

	stocks, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, stocks, 4)
}

func TestStockRepositorySoftDelete(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewStockRepository(db)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "alice", false)

	kept := dbtest.CreateStock(t, db, "KEEP", &owner)
	gone := dbtest.CreateStock(t, db, "GONE", &owner)

	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	active, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	deleted, err := repo.ListDeleted(ctx)
	require.NoError(t, err)

	assert.Equal(t, []uint{kept.ID}, stockIDs(active))
	assert.Equal(t, []uint{gone.ID}, stockIDs(deleted))
	assert.Equal(t, "alice", deleted[0].OwnerName())

	byOwner, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{kept.ID}, stockIDs(byOwner))

	got, err := repo.GetByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	assert.ErrorIs(t, repo.SoftDelete(ctx, 999999), repositories.ErrNotFound)
}

func TestStockRepositoryHardDelete(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewStockRepository(db)
	ctx := context.Background()
	owner := dbtest.CreateUser(t, db, "alice", false)

	t.Run("without dividends", func(t *testing.T) {
		stock := dbtest.CreateStock(t, db, "AAPL", &owner)
		require.NoError(t, repo.HardDelete(ctx, stock.ID))

		_, err := repo.GetByID(ctx, stock.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("with dividends", func(t *testing.T) {
		stock := dbtest.CreateStock(t, db, "MSFT", &owner)
		dividend := dbtest.CreateDividend(t, db, stock, 5, &owner)

		err := repo.HardDelete(ctx, stock.ID)
		assert.ErrorIs(t, err, repositories.ErrStockHasDividends)

		_, err = repo.GetByID(ctx, stock.ID)
		assert.NoError(t, err)
		var count int64
		require.NoError(t, db.Model(&models.Dividend{}).Where("id = ?", dividend.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("missing", func(t *testing.T) {
		assert.ErrorIs(t, repo.HardDelete(ctx, 999999), repositories.ErrNotFound)
	})
}
