package dto

import (
	"encoding/json"
	"gin-marketplace/constants"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateItemInput struct {
	Title     string      `form:"title" json:"title" validate:"required"`
	Condition string      `form:"condition" json:"condition" validate:"required,condition"`
	Category  string      `form:"category" json:"category" validate:"required,category"`
	Price     json.Number `form:"price" json:"price" validate:"required,price"`
	Details   string      `form:"details" json:"details"`
	Image     string      `form:"image" json:"image"`
}

// The edit form does not require a category; an empty one keeps the stored value.
type UpdateItemInput struct {
	Title     string      `form:"title" json:"title" validate:"required"`
	Condition string      `form:"condition" json:"condition" validate:"required,condition"`
	Category  string      `form:"category" json:"category" validate:"omitempty,category"`
	Price     json.Number `form:"price" json:"price" validate:"required,price"`
	Details   string      `form:"details" json:"details"`
	Image     string      `form:"image" json:"image"`
}

// ItemFields is a validated item form.
type ItemFields struct {
	Title     string
	Condition string
	Category  string
	Price     decimal.Decimal
	Details   string
	Image     string
}

var itemMessages = map[string]string{
	"title.required":      "Title is required",
	"condition.required":  "Condition is required",
	"condition.condition": "Invalid condition",
	"category.required":   "Category is required",
	"category.category":   "Invalid category",
	"price.required":      "Price is required",
	"price.price":         "Price must be at least 0.01",
}

func (in CreateItemInput) Validate() (ItemFields, FieldErrors) {
	in.Title, in.Condition, in.Category = strings.TrimSpace(in.Title), strings.TrimSpace(in.Condition), strings.TrimSpace(in.Category)
	in.Price = json.Number(strings.TrimSpace(string(in.Price)))
	in.Details = strings.TrimSpace(in.Details)

	if errs := validateStruct(in, itemMessages); errs != nil {
		return ItemFields{}, errs
	}
	return newItemFields(in.Title, in.Condition, in.Category, in.Price, in.Details, in.Image), nil
}

func (in UpdateItemInput) Validate() (ItemFields, FieldErrors) {
	in.Title, in.Condition, in.Category = strings.TrimSpace(in.Title), strings.TrimSpace(in.Condition), strings.TrimSpace(in.Category)
	in.Price = json.Number(strings.TrimSpace(string(in.Price)))
	in.Details = strings.TrimSpace(in.Details)

	if errs := validateStruct(in, itemMessages); errs != nil {
		return ItemFields{}, errs
	}
	return newItemFields(in.Title, in.Condition, in.Category, in.Price, in.Details, in.Image), nil
}

// newItemFields expects a price that already passed the "price" validation.
func newItemFields(title, condition, category string, price json.Number, details, image string) ItemFields {
	return ItemFields{
		Title:     title,
		Condition: condition,
		Category:  category,
		Price:     decimal.RequireFromString(string(price)),
		Details:   details,
		Image:     strings.TrimSpace(image),
	}
}

// ItemFilter is the browse query string.
type ItemFilter struct {
	Keyword   string `form:"keyword" json:"keyword"`
	Category  string `form:"category" json:"category"`
	Condition string `form:"condition" json:"condition"`
	Sort      string `form:"sort" json:"sort"`
}

// Normalized fills in the defaults shown back to the browser.
func (f ItemFilter) Normalized() ItemFilter {
	f.Keyword = strings.TrimSpace(f.Keyword)
	if f.Category == "" {
		f.Category = constants.CategoryAll
	}
	if f.Sort != "desc" {
		f.Sort = "asc"
	}
	return f
}
