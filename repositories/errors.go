package repositories

import (
	"errors"
	"gin-marketplace/constants"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New(constants.ErrUserNotFound)
	ErrItemNotFound    = errors.New(constants.ErrItemNotFound)
	ErrSessionNotFound = errors.New("session not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	// ErrStaleCart means the cart was saved by someone else since it was loaded.
	ErrStaleCart = errors.New("cart was modified concurrently")
)

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
