package repositories

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/models"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemQuery narrows a listing search. Empty fields do not filter.
type ItemQuery struct {
	Keyword   string
	Category  string
	Condition string
	SortDesc  bool
}

type IItemRepository interface {
	FindAll(ctx context.Context, query ItemQuery) ([]models.Item, error)
	FindById(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	FindByIds(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]models.Item, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Item, error)
	Create(ctx context.Context, newItem *models.Item) error
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) IItemRepository {
	return &ItemRepository{db: db}
}

func preloadSeller(db *gorm.DB) *gorm.DB {
	return db.Preload("Seller", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "first_name", "last_name")
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ItemRepository) FindAll(ctx context.Context, query ItemQuery) ([]models.Item, error) {
	tx := preloadSeller(r.db.WithContext(ctx))

	if query.Keyword != "" {
		// 両辺ともDB側で小文字化する
		pattern := "%" + likeEscaper.Replace(query.Keyword) + "%"
		tx = tx.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.Condition != "" {
		tx = tx.Where("condition = ?", query.Condition)
	}
	if query.SortDesc {
		tx = tx.Order("price DESC")
	} else {
		tx = tx.Order("price ASC")
	}

	var items []models.Item
	if err := tx.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) FindById(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	result := preloadSeller(r.db.WithContext(ctx)).First(&item, "id = ?", itemID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", result.Error)
	}
	return &item, nil
}

// FindByIds returns the items that exist among itemIDs, keyed by id. Missing ids are simply
// absent from the map.
func (r *ItemRepository) FindByIds(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	found := make(map[uuid.UUID]models.Item, len(itemIDs))
	if len(itemIDs) == 0 {
		return found, nil
	}

	var items []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find items by ids: %w", err)
	}
	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

func (r *ItemRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	result := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("find items by seller: %w", result.Error)
	}
	return items, nil
}

func (r *ItemRepository) Create(ctx context.Context, newItem *models.Item) error {
	if err := r.db.WithContext(ctx).Omit("Seller").Create(newItem).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"title":     item.Title,
			"condition": item.Condition,
			"category":  item.Category,
			"price":     item.Price,
			"details":   item.Details,
			"image":     item.Image,
			"active":    item.Active,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	return r.FindById(ctx, item.ID)
}

func (r *ItemRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
