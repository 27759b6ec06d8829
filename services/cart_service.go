package services

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/logger"
	"gin-marketplace/models"
	"gin-marketplace/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCartEmpty is returned by PurchaseItems when there is nothing to buy.
var ErrCartEmpty = errors.New(constants.MsgCartEmpty)

// maxCartAttempts bounds the optimistic retries of a single cart mutation.
const maxCartAttempts = 3

// CartLine is one cart entry. Item is nil when the referenced item no longer exists.
type CartLine struct {
	ItemID uuid.UUID    `json:"itemId"`
	Item   *models.Item `json:"item"`
}

type CartView struct {
	Lines []CartLine   `json:"items"`
	Total models.Money `json:"total"`
}

type Receipt struct {
	ItemCount int          `json:"itemCount"`
	Total     models.Money `json:"total"`
}

type ICartService interface {
	// AddToCart reports false when the item was already in the cart.
	AddToCart(ctx context.Context, userID uuid.UUID, itemID string) (bool, error)
	RemoveFromCart(ctx context.Context, userID uuid.UUID, itemID string) error
	PurchaseItems(ctx context.Context, userID uuid.UUID) (*Receipt, error)
	ViewCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartService struct {
	users repositories.IUserRepository
	items repositories.IItemRepository
}

func NewCartService(users repositories.IUserRepository, items repositories.IItemRepository) ICartService {
	return &CartService{users: users, items: items}
}

func (s *CartService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound(constants.ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// mutateCart runs a read-modify-write on the user's cart. mutate returns whether the cart has
// to be saved. A concurrent write between the read and the save makes the whole cycle start
// over, up to maxCartAttempts times.
func (s *CartService) mutateCart(ctx context.Context, userID uuid.UUID, mutate func(user *models.User) (bool, error)) error {
	for attempt := 1; attempt <= maxCartAttempts; attempt++ {
		user, err := s.loadUser(ctx, userID)
		if err != nil {
			return err
		}

		save, err := mutate(user)
		if err != nil || !save {
			return err
		}

		err = s.users.SaveCart(ctx, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrStaleCart) {
			return err
		}
		logger.Warn(ctx, "Cart changed concurrently, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt),
		)
	}
	return apperrors.Conflict(constants.ErrCartConflict, repositories.ErrStaleCart)
}

// AddToCart does not check that the item exists. An itemID that is not a valid identifier
// is an unclassified error.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, itemID string) (bool, error) {
	var added bool
	err := s.mutateCart(ctx, userID, func(user *models.User) (bool, error) {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return false, fmt.Errorf("cast cart item id %q: %w", itemID, err)
		}

		added = !user.HasInCart(id)
		if !added {
			return false, nil
		}
		user.Cart = append(user.Cart, models.CartEntry{UserID: user.ID, ItemID: id})
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// RemoveFromCart is idempotent: removing an item that is not in the cart succeeds.
func (s *CartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, itemID string) error {
	return s.mutateCart(ctx, userID, func(user *models.User) (bool, error) {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return false, nil
		}

		kept := make([]models.CartEntry, 0, len(user.Cart))
		for _, entry := range user.Cart {
			if entry.ItemID != id {
				kept = append(kept, entry)
			}
		}
		if len(kept) == len(user.Cart) {
			return false, nil
		}
		user.Cart = kept
		return true, nil
	})
}

// PurchaseItems totals the cart and empties it. If the emptied cart cannot be saved the
// purchase fails; the computed total is never reported in that case.
func (s *CartService) PurchaseItems(ctx context.Context, userID uuid.UUID) (*Receipt, error) {
	var receipt *Receipt
	err := s.mutateCart(ctx, userID, func(user *models.User) (bool, error) {
		if len(user.Cart) == 0 {
			return false, ErrCartEmpty
		}

		_, total, err := s.resolve(ctx, user.Cart)
		if err != nil {
			return false, err
		}

		receipt = &Receipt{ItemCount: len(user.Cart), Total: total}
		user.Cart = []models.CartEntry{}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Cart purchased",
		zap.String("user_id", userID.String()),
		zap.Int("items", receipt.ItemCount),
		zap.String("total", receipt.Total.Amount.StringFixed(2)),
	)
	return receipt, nil
}

func (s *CartService) ViewCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, total, err := s.resolve(ctx, user.Cart)
	if err != nil {
		return nil, err
	}
	return &CartView{Lines: lines, Total: total}, nil
}

// resolve looks up the items behind the entries. Entries whose item is gone stay in the result
// with a nil Item and add nothing to the total.
func (s *CartService) resolve(ctx context.Context, entries []models.CartEntry) ([]CartLine, models.Money, error) {
	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ItemID
	}

	found, err := s.items.FindByIds(ctx, ids)
	if err != nil {
		return nil, models.Money{}, err
	}

	lines := make([]CartLine, len(entries))
	total := decimal.Zero
	for i, entry := range entries {
		lines[i] = CartLine{ItemID: entry.ItemID}
		if item, ok := found[entry.ItemID]; ok {
			lines[i].Item = &item
			total = total.Add(item.Price)
		}
	}
	return lines, models.USD(total), nil
}
