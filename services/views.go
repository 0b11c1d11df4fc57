package services

import "time"

type StockView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	OwnerName string `json:"owner_name"`
	CanDelete bool   `json:"can_delete"`
	CanChange bool   `json:"can_change"`
}

type StockIndex struct {
	Stocks   []StockView `json:"stocks"`
	UserName string      `json:"user_name"`
	IsAdmin  bool        `json:"is_admin"`
}

type DeletedStocks struct {
	Stocks  []StockView `json:"stocks"`
	IsAdmin bool        `json:"is_admin"`
}

type StockDetail struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	LogoURL   string    `json:"logo_url"`
	DateBuy   time.Time `json:"date_buy"`
	OwnerName string    `json:"owner_name"`
	IsDeleted bool      `json:"is_deleted"`
}

type DividendView struct {
	ID        uint   `json:"id"`
	NameStock string `json:"name_stock"`
	Price     int    `json:"price"`
	OwnerName string `json:"owner_name"`
	CanDelete bool   `json:"can_delete"`
}

type DividendIndex struct {
	Dividends []DividendView `json:"dividends"`
	UserName  string         `json:"user_name"`
	IsAdmin   bool           `json:"is_admin"`
}

// StockOption is one entry of the stock picker on the add-dividend form.
type StockOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AddStockInput struct {
	Name    string
	Price   int
	DateBuy time.Time
}

type AddDividendInput struct {
	Price   int
	StockID uint
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
