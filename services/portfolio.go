package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"stocks-portfolio/auth"
	"stocks-portfolio/logging"
	"stocks-portfolio/models"
	"stocks-portfolio/permissions"
	"stocks-portfolio/repositories"
	"stocks-portfolio/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound          = repositories.ErrNotFound
	ErrStockHasDividends = repositories.ErrStockHasDividends
)

// Placeholder stock inserted by AddRandomStock.
const (
	RandomStockName  = "OFZ"
	RandomStockPrice = 1000
)

var allowedLogoExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

type PortfolioConfig struct {
	HomeLimit     int
	DividendLimit int
	LogoMaxBytes  int64
}

type PortfolioService struct {
	stocks        repositories.StockRepository
	dividends     repositories.DividendRepository
	logos         storage.LogoStore
	stockPerms    permissions.StockPermissions
	dividendPerms permissions.DividendPermissions
	cfg           PortfolioConfig
	now           func() time.Time
}

func NewPortfolioService(
	stocks repositories.StockRepository,
	dividends repositories.DividendRepository,
	logos storage.LogoStore,
	cfg PortfolioConfig,
) *PortfolioService {
	return &PortfolioService{
		stocks:    stocks,
		dividends: dividends,
		logos:     logos,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *PortfolioService) stockView(p auth.Principal, stock models.Stock) StockView {
	return StockView{
		ID:        stock.ID,
		Name:      stock.Name,
		Price:     stock.Price,
		OwnerName: stock.OwnerName(),
		CanDelete: s.stockPerms.CanDelete(p, stock),
		CanChange: s.stockPerms.CanChange(p, stock),
	}
}

// Home lists the most recent active stocks.
func (s *PortfolioService) Home(ctx context.Context, p auth.Principal) (*StockIndex, error) {
	stocks, err := s.stocks.ListRecent(ctx, s.cfg.HomeLimit)
	if err != nil {
		return nil, err
	}

	views := make([]StockView, 0, len(stocks))
	for _, stock := range stocks {
		views = append(views, s.stockView(p, stock))
	}
	return &StockIndex{Stocks: views, UserName: p.Name(), IsAdmin: p.Admin()}, nil
}

func (s *PortfolioService) DeletedStocks(ctx context.Context, p auth.Principal) (*DeletedStocks, error) {
	stocks, err := s.stocks.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]StockView, 0, len(stocks))
	for _, stock := range stocks {
		views = append(views, s.stockView(p, stock))
	}
	return &DeletedStocks{Stocks: views, IsAdmin: p.Admin()}, nil
}

func (s *PortfolioService) StockInformation(ctx context.Context, id uint) (*StockDetail, error) {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StockDetail{
		ID:        stock.ID,
		Name:      stock.Name,
		Price:     stock.Price,
		LogoURL:   stock.LogoURL,
		DateBuy:   stock.DateBuy,
		OwnerName: stock.OwnerName(),
		IsDeleted: stock.IsDeleted,
	}, nil
}

func ownerOf(p auth.Principal) models.User {
	return models.User{ID: p.UserID, Login: p.Login, IsAdmin: p.IsAdmin}
}

func (s *PortfolioService) AddStock(ctx context.Context, p auth.Principal, in AddStockInput) (*models.Stock, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "must not be empty")
	}
	if in.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}
	if in.DateBuy.IsZero() {
		return nil, invalid("date_buy", "is required")
	}

	stock := &models.Stock{Name: name, Price: in.Price, DateBuy: in.DateBuy}
	stock.SetOwner(ownerOf(p))
	if err := s.stocks.Add(ctx, stock); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{"stock_id": stock.ID, "user_id": p.UserID}).Info("stock added")
	return stock, nil
}

// AddRandomStock inserts a placeholder holding. Administrators only.
func (s *PortfolioService) AddRandomStock(ctx context.Context, p auth.Principal) (*models.Stock, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if !p.Admin() {
		return nil, forbidden("add random", "stock", 0)
	}

	stock := &models.Stock{Name: RandomStockName, Price: RandomStockPrice, DateBuy: s.now()}
	stock.SetOwner(ownerOf(p))
	if err := s.stocks.Add(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// loadStock fetches the stock and checks that p may act on it.
func (s *PortfolioService) loadStock(ctx context.Context, p auth.Principal, id uint, action string,
	allowed func(auth.Principal, models.Stock) bool) (*models.Stock, error) {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(p, *stock) {
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"stock_id": id, "user_id": p.UserID, "action": action,
		}).Warn("permission denied")
		return nil, forbidden(action, "stock", id)
	}
	return stock, nil
}

// RemoveStock soft deletes the stock.
func (s *PortfolioService) RemoveStock(ctx context.Context, p auth.Principal, id uint) error {
	if _, err := s.loadStock(ctx, p, id, "delete", s.stockPerms.CanDelete); err != nil {
		return err
	}
	if err := s.stocks.SoftDelete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).WithFields(logrus.Fields{"stock_id": id, "user_id": p.UserID}).Info("stock moved to deleted")
	return nil
}

// RemoveDeletedStock removes the stock permanently. It fails with
// ErrStockHasDividends while dividends reference it.
func (s *PortfolioService) RemoveDeletedStock(ctx context.Context, p auth.Principal, id uint) error {
	if _, err := s.loadStock(ctx, p, id, "delete", s.stockPerms.CanDelete); err != nil {
		return err
	}
	if err := s.stocks.HardDelete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).WithFields(logrus.Fields{"stock_id": id, "user_id": p.UserID}).Info("stock removed")
	return nil
}

func (s *PortfolioService) RenameStock(ctx context.Context, p auth.Principal, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if _, err := s.loadStock(ctx, p, id, "rename", s.stockPerms.CanChange); err != nil {
		return err
	}
	return s.stocks.UpdateName(ctx, id, name)
}

// UpdateLogo stores the uploaded image as the stock's logo and returns its URL.
func (s *PortfolioService) UpdateLogo(ctx context.Context, p auth.Principal, id uint, filename string, size int64, r io.Reader) (string, error) {
	if _, err := s.loadStock(ctx, p, id, "change logo of", s.stockPerms.CanChange); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedLogoExt[ext] {
		return "", invalid("logo", fmt.Sprintf("unsupported file type %q", ext))
	}
	if size > s.cfg.LogoMaxBytes {
		return "", invalid("logo", fmt.Sprintf("file exceeds %d bytes", s.cfg.LogoMaxBytes))
	}

	url, err := s.logos.Save(ctx, storage.LogoFileName(id, filename), io.LimitReader(r, s.cfg.LogoMaxBytes))
	if err != nil {
		return "", err
	}
	if err := s.stocks.UpdateLogoURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *PortfolioService) Dividends(ctx context.Context, p auth.Principal) (*DividendIndex, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	dividends, err := s.dividends.ListRecent(ctx, s.cfg.DividendLimit)
	if err != nil {
		return nil, err
	}

	views := make([]DividendView, 0, len(dividends))
	for _, d := range dividends {
		views = append(views, DividendView{
			ID:        d.ID,
			NameStock: d.StockName(),
			Price:     d.Price,
			OwnerName: d.OwnerName(),
			CanDelete: s.dividendPerms.CanDelete(p, d),
		})
	}
	return &DividendIndex{Dividends: views, UserName: p.Name(), IsAdmin: p.Admin()}, nil
}

// DividendForm lists the stocks p can record a dividend against.
func (s *PortfolioService) DividendForm(ctx context.Context, p auth.Principal) ([]StockOption, error) {
	id, ok := p.ID()
	if !ok {
		return nil, ErrUnauthenticated
	}
	stocks, err := s.stocks.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	options := make([]StockOption, 0, len(stocks))
	for _, stock := range stocks {
		options = append(options, StockOption{ID: stock.ID, Name: stock.Name})
	}
	return options, nil
}

func (s *PortfolioService) AddDividend(ctx context.Context, p auth.Principal, in AddDividendInput) (*models.Dividend, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if in.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}

	stock, err := s.loadStock(ctx, p, in.StockID, "add dividend to", s.stockPerms.CanChange)
	if err != nil {
		return nil, err
	}
	if stock.IsDeleted {
		return nil, invalid("stock_id", "stock is deleted")
	}

	dividend := &models.Dividend{Price: in.Price, StockID: stock.ID}
	dividend.SetOwner(ownerOf(p))
	if err := s.dividends.Add(ctx, dividend); err != nil {
		return nil, err
	}
	dividend.Stock = stock

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"dividend_id": dividend.ID, "stock_id": stock.ID, "user_id": p.UserID,
	}).Info("dividend added")
	return dividend, nil
}

func (s *PortfolioService) RemoveDividend(ctx context.Context, p auth.Principal, id uint) error {
	dividend, err := s.dividends.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.dividendPerms.CanDelete(p, *dividend) {
		return forbidden("delete", "dividend", id)
	}
	return s.dividends.Delete(ctx, id)
}
