package handlers

import (
	"net/http"
	"time"

	"stocks-portfolio/middleware"
	"stocks-portfolio/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type StockInput struct {
	Name    string `json:"name" binding:"required"`
	Price   int    `json:"price" binding:"min=0"`
	DateBuy string `json:"date_buy" binding:"required,datetime=2006-01-02"`
}

type RenameInput struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) ListStocks(c *gin.Context) {
	index, err := h.portfolio.Home(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

func (h *Handler) ListDeletedStocks(c *gin.Context) {
	deleted, err := h.portfolio.DeletedStocks(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *Handler) GetStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	detail, err := h.portfolio.StockInformation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) AddStock(c *gin.Context) {
	var input StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dateBuy, err := time.Parse(dateLayout, input.DateBuy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_buy must be YYYY-MM-DD"})
		return
	}

	stock, err := h.portfolio.AddStock(c.Request.Context(), middleware.CurrentUser(c), services.AddStockInput{
		Name:    input.Name,
		Price:   input.Price,
		DateBuy: dateBuy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stock added successfully", "id": stock.ID})
}

func (h *Handler) AddRandomStock(c *gin.Context) {
	stock, err := h.portfolio.AddRandomStock(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Stock added successfully", "id": stock.ID})
}

func (h *Handler) RenameStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input RenameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.portfolio.RenameStock(c.Request.Context(), middleware.CurrentUser(c), id, input.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock renamed successfully"})
}

func (h *Handler) UploadLogo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	url, err := h.portfolio.UpdateLogo(c.Request.Context(), middleware.CurrentUser(c), id, file.Filename, file.Size, src)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

// DeleteStock moves the stock to the deleted list.
func (h *Handler) DeleteStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.portfolio.RemoveStock(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock deleted successfully"})
}

func (h *Handler) RemoveDeletedStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.portfolio.RemoveDeletedStock(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock removed permanently"})
}
