package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing lifecycle statuses. Archived listings keep their slug but are
// not served on public pages and do not count against the free tier.
const (
	ListingActive   = "active"
	ListingArchived = "archived"
)

// Listing is a property listing. The slug is globally unique and drives
// the public page URLs /p/{slug} and /p/{slug}/mls.
type Listing struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PhotographerID uuid.UUID `gorm:"column:photographer_id;type:uuid;not null;index" json:"-"`
	AgentID        uuid.UUID `gorm:"column:agent_id;type:uuid;not null" json:"agent_id"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Address        string    `gorm:"column:address;not null" json:"address"`
	Price          int       `gorm:"column:price;not null" json:"price"`
	Beds           int       `gorm:"column:beds;not null" json:"beds"`
	Baths          int       `gorm:"column:baths;not null" json:"baths"`
	Sqft           int       `gorm:"column:sqft;not null" json:"sqft"`
	Description    *string   `gorm:"column:description;type:text" json:"description"`
	MLSNumber      *string   `gorm:"column:mls_number" json:"mls_number"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
