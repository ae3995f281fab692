package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPhotosPerListing caps photo uploads per listing.
const MaxPhotosPerListing = 50

// ListingPhoto is one image in a listing's gallery, hosted at the image
// provider. Position is the ordering key; gaps are allowed after deletes,
// only relative order matters.
type ListingPhoto struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID       uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"-"`
	ProviderImageID string    `gorm:"column:provider_image_id;not null" json:"-"`
	URL             string    `gorm:"column:url;not null" json:"url"`
	ThumbnailURL    string    `gorm:"column:thumbnail_url;not null" json:"thumbnail_url"`
	Position        int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ListingPhoto) TableName() string {
	return "listing_photos"
}

func (p *ListingPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
