// Package permissions decides who may modify stocks and dividends.
//
// Administrators may manage any record. Other authenticated users may manage
// only the records they own. Anonymous visitors may manage nothing, and a
// record with no known owner is manageable by administrators only.
package permissions

import (
	"stocks-portfolio/auth"
	"stocks-portfolio/models"
)

type StockPermissions struct{}

func (StockPermissions) CanDelete(p auth.Principal, s models.Stock) bool {
	return allowed(p, s)
}

func (StockPermissions) CanChange(p auth.Principal, s models.Stock) bool {
	return allowed(p, s)
}

type DividendPermissions struct{}

func (DividendPermissions) CanDelete(p auth.Principal, d models.Dividend) bool {
	return allowed(p, d)
}

type owned interface {
	OwnerRef() (uint, bool)
}

func allowed(p auth.Principal, record owned) bool {
	if !p.Authenticated() {
		return false
	}
	if p.Admin() {
		return true
	}
	ownerID, ok := record.OwnerRef()
	return ok && ownerID == p.UserID
}
