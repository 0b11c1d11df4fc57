package permissions

import (
	"testing"

	"stocks-portfolio/auth"
	"stocks-portfolio/models"

	"github.com/stretchr/testify/assert"
)

func ptr(id uint) *uint { return &id }

func TestStockPermissions(t *testing.T) {
	alice := auth.Principal{UserID: 1, Login: "alice"}
	bob := auth.Principal{UserID: 2, Login: "bob"}
	admin := auth.Principal{UserID: 3, Login: "root", IsAdmin: true}

	owned := models.Stock{ID: 10, Name: "AAPL", OwnerID: ptr(1)}
	orphan := models.Stock{ID: 11, Name: "OFZ"}

	tests := []struct {
		name  string
		user  auth.Principal
		stock models.Stock
		want  bool
	}{
		{name: "owner", user: alice, stock: owned, want: true},
		{name: "other user", user: bob, stock: owned, want: false},
		{name: "admin", user: admin, stock: owned, want: true},
		{name: "anonymous", user: auth.Anonymous, stock: owned, want: false},
		{name: "anonymous with admin flag", user: auth.Principal{IsAdmin: true}, stock: owned, want: false},
		{name: "no owner, user", user: alice, stock: orphan, want: false},
		{name: "no owner, admin", user: admin, stock: orphan, want: true},
		{name: "no owner, anonymous", user: auth.Anonymous, stock: orphan, want: false},
	}

	var perms StockPermissions
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, perms.CanDelete(tt.user, tt.stock), "CanDelete")
			assert.Equal(t, tt.want, perms.CanChange(tt.user, tt.stock), "CanChange")
		})
	}
}

func TestDividendPermissions(t *testing.T) {
	alice := auth.Principal{UserID: 1, Login: "alice"}
	bob := auth.Principal{UserID: 2, Login: "bob"}
	admin := auth.Principal{UserID: 3, Login: "root", IsAdmin: true}

	dividend := models.Dividend{ID: 5, Price: 5, StockID: 10, OwnerID: ptr(1)}

	var perms DividendPermissions
	assert.True(t, perms.CanDelete(alice, dividend))
	assert.False(t, perms.CanDelete(bob, dividend))
	assert.True(t, perms.CanDelete(admin, dividend))
	assert.False(t, perms.CanDelete(auth.Anonymous, dividend))
	assert.False(t, perms.CanDelete(alice, models.Dividend{ID: 6}))
	assert.True(t, perms.CanDelete(admin, models.Dividend{ID: 6}))
}
