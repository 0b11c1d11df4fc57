package middleware

import (
	"net/http"
	"strings"

	"stocks-portfolio/auth"
	"stocks-portfolio/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into a principal. Requests without
// an Authorization header continue as anonymous visitors.
func Authenticate(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			setPrincipal(c, auth.Anonymous)
			c.Next()
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a bearer token"})
			return
		}

		p, err := issuer.Parse(tokenString)
		if err != nil {
			logging.FromContext(c.Request.Context()).WithError(err).Debug("rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		setPrincipal(c, p)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
	ctx := auth.WithPrincipal(c.Request.Context(), p)
	if p.Authenticated() {
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).WithFields(logrus.Fields{"user_id": p.UserID}))
	}
	c.Request = c.Request.WithContext(ctx)
}

// RequireAuth rejects anonymous visitors.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everyone but administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentUser(c)
		if !p.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !p.Admin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal set by Authenticate, Anonymous if none.
func CurrentUser(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Anonymous
}

func CurrentUserID(c *gin.Context) (uint, bool) {
	return CurrentUser(c).ID()
}

func IsAdmin(c *gin.Context) bool {
	return CurrentUser(c).Admin()
}
