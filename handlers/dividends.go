package handlers

import (
	"net/http"

	"stocks-portfolio/middleware"
	"stocks-portfolio/services"

	"github.com/gin-gonic/gin"
)

type DividendInput struct {
	Price   int  `json:"price" binding:"min=0"`
	StockID uint `json:"stock_id" binding:"required"`
}

func (h *Handler) ListDividends(c *gin.Context) {
	index, err := h.portfolio.Dividends(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

func (h *Handler) DividendForm(c *gin.Context) {
	options, err := h.portfolio.DividendForm(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": options})
}

func (h *Handler) AddDividend(c *gin.Context) {
	var input DividendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dividend, err := h.portfolio.AddDividend(c.Request.Context(), middleware.CurrentUser(c), services.AddDividendInput{
		Price:   input.Price,
		StockID: input.StockID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dividend added successfully", "id": dividend.ID})
}

func (h *Handler) DeleteDividend(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.portfolio.RemoveDividend(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dividend deleted successfully"})
}
