package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex" json:"email"`
	Password     string     `json:"-"`
	Role         string     `json:"role"`
	IsPremium    bool       `json:"is_premium"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`

	Timestamp
}

// HasActivePremium reports whether the premium subscription is still running
// at the given time. The flag alone is not enough: subscriptions expire and
// nothing clears the flag on expiry.
func (u *User) HasActivePremium(at time.Time) bool {
	return u.IsPremium && u.PremiumUntil != nil && u.PremiumUntil.After(at)
}
