package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	// カートの楽観ロック用バージョン
	CartVersion int64       `gorm:"not null;default:0" json:"-"`
	Cart        []CartEntry `gorm:"constraint:OnDelete:CASCADE;" json:"cart,omitempty"`
	Items       []Item      `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasInCart reports whether itemID is already referenced by the cart.
func (u *User) HasInCart(itemID uuid.UUID) bool {
	for _, entry := range u.Cart {
		if entry.ItemID == itemID {
			return true
		}
	}
	return false
}

// CartEntry references an item by id only. There is no foreign key on ItemID, so an entry may
// point at an item that no longer (or never did) exist.
type CartEntry struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_item" json:"-"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_item" json:"itemId"`
	Position int       `gorm:"not null" json:"-"`
}
