package models

import (
	"time"
)

// UnknownOwner is shown in listings for records whose author is not known.
const UnknownOwner = "Unknown"

type Stock struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Price     int        `gorm:"not null" json:"price"`
	DateBuy   time.Time  `gorm:"not null" json:"date_buy"`
	LogoURL   string     `gorm:"not null;default:''" json:"logo_url"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	OwnerID   *uint      `gorm:"index" json:"owner_id,omitempty"`
	Owner     *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	Dividends []Dividend `gorm:"foreignKey:StockID;constraint:OnDelete:NO ACTION" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// OwnerRef reports the id of the user who added the stock, if known.
func (s Stock) OwnerRef() (uint, bool) {
	return ownerRef(s.OwnerID)
}

// OwnerName returns the owner's login, or UnknownOwner when the owner is
// absent or was not loaded.
func (s Stock) OwnerName() string {
	return ownerName(s.Owner)
}

// SetOwner attributes the stock to u.
func (s *Stock) SetOwner(u User) {
	id := u.ID
	s.OwnerID = &id
	s.Owner = &u
}

func ownerRef(id *uint) (uint, bool) {
	if id == nil {
		return 0, false
	}
	return *id, true
}

func ownerName(u *User) string {
	if u == nil || u.Login == "" {
		return UnknownOwner
	}
	return u.Login
}
