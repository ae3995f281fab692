package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers. Tier changes happen in the billing system, not here.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// User is a photographer account. Owns agents and listings.
type User struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash;not null" json:"-"`
	BusinessName     *string   `gorm:"column:business_name" json:"business_name"`
	SubscriptionTier string    `gorm:"column:subscription_tier;type:varchar(20);not null;default:free" json:"subscription_tier"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets the UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
