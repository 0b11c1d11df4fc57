package repositories_test

import (
	"context"
	"testing"

	"stocks-portfolio/database/dbtest"
	"stocks-portfolio/models"
	"stocks-portfolio/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDividendRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewDividendRepository(db)
	ctx := context.Background()

	alice := dbtest.CreateUser(t, db, "alice", false)
	stock := dbtest.CreateStock(t, db, "AAPL", &alice)

	t.Run("Add and ListRecent", func(t *testing.T) {
		first := &models.Dividend{Price: 5, StockID: stock.ID}
		first.SetOwner(alice)
		require.NoError(t, repo.Add(ctx, first))
		second := &models.Dividend{Price: 7, StockID: stock.ID}
		require.NoError(t, repo.Add(ctx, second))

		dividends, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, dividends, 2)

		assert.Equal(t, second.ID, dividends[0].ID)
		assert.Equal(t, models.UnknownOwner, dividends[0].OwnerName())
		assert.Equal(t, first.ID, dividends[1].ID)
		assert.Equal(t, "AAPL", dividends[1].StockName())
		assert.Equal(t, "alice", dividends[1].OwnerName())
		assert.Equal(t, 5, dividends[1].Price)

		limited, err := repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("Add with unknown stock", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&models.Dividend{}).Count(&before).Error)

		err := repo.Add(ctx, &models.Dividend{Price: 1, StockID: 999999})
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		var after int64
		require.NoError(t, db.Model(&models.Dividend{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})

	t.Run("GetByID and Delete", func(t *testing.T) {
		dividend := dbtest.CreateDividend(t, db, stock, 3, &alice)

		got, err := repo.GetByID(ctx, dividend.ID)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", got.StockName())

		require.NoError(t, repo.Delete(ctx, dividend.ID))
		_, err = repo.GetByID(ctx, dividend.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, dividend.ID), repositories.ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Login: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byLogin, err := repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Login)

	err = repo.Create(ctx, &models.User{Login: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateLogin)

	_, err = repo.GetByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
