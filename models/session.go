package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server side half of a login. The client only holds a signed token naming ID.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
