package repositories

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrStockHasDividends = errors.New("stock still has dividends")
	ErrDuplicateLogin    = errors.New("login already taken")
)
