package models

import (
	"gin-marketplace/constants"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	Conditions = []string{
		constants.ConditionNew,
		constants.ConditionUsed,
		constants.ConditionRefurbished,
		constants.ConditionLikeNew,
		constants.ConditionForParts,
	}
	Categories = []string{
		constants.CategoryElectronics,
		constants.CategoryBooks,
		constants.CategoryClothing,
		constants.CategoryHome,
		constants.CategoryFood,
		constants.CategoryOther,
	}
	MinPrice = decimal.RequireFromString("0.01")
)

type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string          `gorm:"not null" json:"title"`
	Condition string          `gorm:"not null;index" json:"condition"`
	Category  string          `gorm:"not null;index" json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Details   string          `json:"details,omitempty"`
	Image     string          `json:"image,omitempty"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"sellerId"`
	Seller    *User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func IsValidCondition(condition string) bool {
	return contains(Conditions, condition)
}

func IsValidCategory(category string) bool {
	return contains(Categories, category)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
