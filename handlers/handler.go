package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stocks-portfolio/auth"
	"stocks-portfolio/logging"
	"stocks-portfolio/middleware"
	"stocks-portfolio/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	portfolio *services.PortfolioService
	auth      *services.AuthService
}

func New(portfolio *services.PortfolioService, authService *services.AuthService) *Handler {
	return &Handler{portfolio: portfolio, auth: authService}
}

// RouterOptions configures the parts of the router that depend on deployment.
type RouterOptions struct {
	Issuer *auth.TokenIssuer
	Logger logrus.FieldLogger
	// LogoDir and LogoURLPrefix serve locally stored logos. Leave LogoDir
	// empty when logos live in object storage.
	LogoDir       string
	LogoURLPrefix string
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))

	if opts.LogoDir != "" {
		router.Static(opts.LogoURLPrefix, opts.LogoDir)
	}

	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)

	api := router.Group("/")
	api.Use(middleware.Authenticate(opts.Issuer))
	{
		api.GET("/stocks", h.ListStocks)
		api.GET("/stocks/:id", h.GetStock)
		api.POST("/stocks", middleware.RequireAuth(), h.AddStock)
		api.PATCH("/stocks/:id", h.RenameStock)
		api.POST("/stocks/:id/logo", h.UploadLogo)
		api.DELETE("/stocks/:id", h.DeleteStock)

		api.GET("/deleted-stocks", h.ListDeletedStocks)
		api.DELETE("/deleted-stocks/:id", h.RemoveDeletedStock)

		api.POST("/admin/random-stock", middleware.RequireAdmin(), h.AddRandomStock)

		dividends := api.Group("/dividends")
		dividends.Use(middleware.RequireAuth())
		{
			dividends.GET("", h.ListDividends)
			dividends.GET("/new", h.DividendForm)
			dividends.POST("", h.AddDividend)
			dividends.DELETE("/:id", h.DeleteDividend)
		}
	}

	return router
}

// paramID parses the :id path parameter. It writes a 400 response and
// returns false when the value is not a positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// respondError translates service errors into HTTP responses.
func respondError(c *gin.Context, err error) {
	var (
		forbidden  *services.ForbiddenError
		validation *services.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		body := gin.H{"error": "forbidden", "action": forbidden.Action, "entity": forbidden.Entity}
		if forbidden.ID != 0 {
			body["id"] = forbidden.ID
		}
		c.JSON(http.StatusForbidden, body)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrStockHasDividends), errors.Is(err, services.ErrDuplicateLogin):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
