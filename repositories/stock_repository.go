package repositories

import (
	"context"
	"errors"
	"fmt"

	"stocks-portfolio/database"
	"stocks-portfolio/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	ListRecent(ctx context.Context, n int) ([]models.Stock, error)
	ListDeleted(ctx context.Context) ([]models.Stock, error)
	GetByID(ctx context.Context, id uint) (*models.Stock, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Stock, error)
	Add(ctx context.Context, stock *models.Stock) error
	UpdateName(ctx context.Context, id uint, name string) error
	UpdateLogoURL(ctx context.Context, id uint, url string) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepo{db: db}
}

// ListRecent returns up to n active stocks, newest first.
func (r *stockRepo) ListRecent(ctx context.Context, n int) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_deleted = ?", false).
		Order("id DESC").
		Limit(n).
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return stocks, nil
}

func (r *stockRepo) ListDeleted(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_deleted = ?", true).
		Order("id DESC").
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("list deleted stocks: %w", err)
	}
	return stocks, nil
}

// GetByID returns the stock with its owner loaded, deleted or not.
func (r *stockRepo) GetByID(ctx context.Context, id uint) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.WithContext(ctx).Preload("Owner").First(&stock, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock %d: %w", id, err)
	}
	return &stock, nil
}

func (r *stockRepo) ListByOwner(ctx context.Context, userID uint) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", userID, false).
		Order("name, id").
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("list stocks of user %d: %w", userID, err)
	}
	return stocks, nil
}

func (r *stockRepo) Add(ctx context.Context, stock *models.Stock) error {
	stock.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(stock).Error; err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	return nil
}

func (r *stockRepo) UpdateName(ctx context.Context, id uint, name string) error {
	return r.update(ctx, id, "name", name)
}

func (r *stockRepo) UpdateLogoURL(ctx context.Context, id uint, url string) error {
	return r.update(ctx, id, "logo_url", url)
}

// SoftDelete hides the stock from the active list. The row stays and shows
// up in ListDeleted.
func (r *stockRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.update(ctx, id, "is_deleted", true)
}

func (r *stockRepo) update(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Stock{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("update stock %d %s: %w", id, column, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete removes the row. Stocks that still have dividends are kept and
// ErrStockHasDividends is returned.
func (r *stockRepo) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dividends int64
		if err := tx.Model(&models.Dividend{}).Where("stock_id = ?", id).Count(&dividends).Error; err != nil {
			return fmt.Errorf("count dividends of stock %d: %w", id, err)
		}
		if dividends > 0 {
			return ErrStockHasDividends
		}

		res := tx.Delete(&models.Stock{}, id)
		if database.IsForeignKeyViolation(res.Error) {
			return ErrStockHasDividends
		}
		if res.Error != nil {
			return fmt.Errorf("delete stock %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
