package repositories

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	SaveCart(ctx context.Context, user *models.User) error
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(user)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", result.Error)
	}
	return nil
}

func (r *UserRepository) FindUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", result.Error)
	}
	return &user, nil
}

// FindByID loads the user together with its cart entries in cart order.
func (r *UserRepository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		Preload("Cart", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", result.Error)
	}
	return &user, nil
}

// SaveCart replaces the stored cart with user.Cart. The write only succeeds if the stored
// cart version still equals user.CartVersion; otherwise ErrStaleCart is returned and nothing
// is written. On success user.CartVersion is advanced.
func (r *UserRepository) SaveCart(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND cart_version = ?", user.ID, user.CartVersion).
			Update("cart_version", gorm.Expr("cart_version + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleCart
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		if len(user.Cart) == 0 {
			return nil
		}

		entries := make([]models.CartEntry, len(user.Cart))
		for i, entry := range user.Cart {
			entries[i] = models.CartEntry{
				UserID:   user.ID,
				ItemID:   entry.ItemID,
				Position: i,
			}
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		if errors.Is(err, ErrStaleCart) {
			return err
		}
		return fmt.Errorf("save cart: %w", err)
	}

	user.CartVersion++
	return nil
}
