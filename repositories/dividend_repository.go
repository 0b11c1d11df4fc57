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

type DividendRepository interface {
	ListRecent(ctx context.Context, n int) ([]models.Dividend, error)
	GetByID(ctx context.Context, id uint) (*models.Dividend, error)
	Add(ctx context.Context, dividend *models.Dividend) error
	Delete(ctx context.Context, id uint) error
}

type dividendRepo struct {
	db *gorm.DB
}

func NewDividendRepository(db *gorm.DB) DividendRepository {
	return &dividendRepo{db: db}
}

// ListRecent returns up to n dividends, newest first, with stock and owner.
func (r *dividendRepo) ListRecent(ctx context.Context, n int) ([]models.Dividend, error) {
	var dividends []models.Dividend
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Preload("Owner").
		Order("id DESC").
		Limit(n).
		Find(&dividends).Error
	if err != nil {
		return nil, fmt.Errorf("list dividends: %w", err)
	}
	return dividends, nil
}

func (r *dividendRepo) GetByID(ctx context.Context, id uint) (*models.Dividend, error) {
	var dividend models.Dividend
	err := r.db.WithContext(ctx).Preload("Stock").Preload("Owner").First(&dividend, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dividend %d: %w", id, err)
	}
	return &dividend, nil
}

// Add inserts the dividend. A missing stock yields ErrNotFound and no row.
func (r *dividendRepo) Add(ctx context.Context, dividend *models.Dividend) error {
	dividend.ID = 0
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(dividend).Error
	if database.IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("add dividend: %w", err)
	}
	return nil
}

func (r *dividendRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Dividend{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete dividend %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
