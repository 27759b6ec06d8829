package services

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/models"
	"gin-marketplace/repositories"

	"github.com/google/uuid"
)

type IItemService interface {
	FindAll(ctx context.Context, filter dto.ItemFilter) ([]models.Item, error)
	FindById(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	Create(ctx context.Context, fields dto.ItemFields, sellerID uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, target *models.Item, fields dto.ItemFields) (*models.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
}

type ItemService struct {
	repository repositories.IItemRepository
}

func NewItemService(repository repositories.IItemRepository) IItemService {
	return &ItemService{repository: repository}
}

func itemNotFound(itemID uuid.UUID) error {
	return apperrors.NotFound(fmt.Sprintf("Cannot find an item with id %s", itemID))
}

func (s *ItemService) FindAll(ctx context.Context, filter dto.ItemFilter) ([]models.Item, error) {
	filter = filter.Normalized()
	query := repositories.ItemQuery{
		Keyword:   filter.Keyword,
		Condition: filter.Condition,
		SortDesc:  filter.Sort == "desc",
	}
	if filter.Category != constants.CategoryAll {
		query.Category = filter.Category
	}
	return s.repository.FindAll(ctx, query)
}

func (s *ItemService) FindById(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.repository.FindById(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, itemNotFound(itemID)
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Create(ctx context.Context, fields dto.ItemFields, sellerID uuid.UUID) (*models.Item, error) {
	newItem := models.Item{
		Title:     fields.Title,
		Condition: fields.Condition,
		Category:  fields.Category,
		Price:     fields.Price,
		Details:   fields.Details,
		Image:     fields.Image,
		Active:    true,
		SellerID:  sellerID,
	}
	if err := s.repository.Create(ctx, &newItem); err != nil {
		return nil, err
	}
	return &newItem, nil
}

// Update applies fields to target. Callers are expected to have checked ownership already.
func (s *ItemService) Update(ctx context.Context, target *models.Item, fields dto.ItemFields) (*models.Item, error) {
	updated := *target
	updated.Title = fields.Title
	updated.Condition = fields.Condition
	if fields.Category != "" {
		updated.Category = fields.Category
	}
	updated.Price = fields.Price
	updated.Details = fields.Details
	if fields.Image != "" {
		updated.Image = fields.Image
	}

	item, err := s.repository.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, itemNotFound(target.ID)
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	err := s.repository.Delete(ctx, itemID)
	if errors.Is(err, repositories.ErrItemNotFound) {
		return itemNotFound(itemID)
	}
	return err
}
