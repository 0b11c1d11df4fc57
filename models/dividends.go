package models

import "time"

// Dividend is a payment received for a stock. StockID is set once on
// creation and never updated.
type Dividend struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Price     int       `gorm:"not null" json:"price"`
	StockID   uint      `gorm:"not null;index" json:"stock_id"`
	Stock     *Stock    `gorm:"foreignKey:StockID" json:"-"`
	OwnerID   *uint     `gorm:"index" json:"owner_id,omitempty"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (d Dividend) OwnerRef() (uint, bool) {
	return ownerRef(d.OwnerID)
}

func (d Dividend) OwnerName() string {
	return ownerName(d.Owner)
}

func (d *Dividend) SetOwner(u User) {
	id := u.ID
	d.OwnerID = &id
	d.Owner = &u
}

// StockName returns the name of the referenced stock, empty if not loaded.
func (d Dividend) StockName() string {
	if d.Stock == nil {
		return ""
	}
	return d.Stock.Name
}
