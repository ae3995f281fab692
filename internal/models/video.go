package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxVideosPerListing caps videos per listing.
const MaxVideosPerListing = 2

// Video statuses. ready and error are terminal; they are set only by the
// provider webhook, matched on the provider asset id.
const (
	VideoWaiting    = "waiting"
	VideoProcessing = "processing"
	VideoReady      = "ready"
	VideoError      = "error"
)

// ListingVideo is a video asset at the provider. ProviderUploadID is the
// direct-upload session returned at creation time; the webhook links it
// to the asset id once the upload completes. Asset and playback ids stay
// nil until the provider reports them.
type ListingVideo struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID         uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"-"`
	ProviderUploadID  *string   `gorm:"column:provider_upload_id;index" json:"-"`
	ProviderAssetID   *string   `gorm:"column:provider_asset_id;index" json:"provider_asset_id"`
	PlaybackID        *string   `gorm:"column:playback_id" json:"playback_id"`
	Title             *string   `gorm:"column:title" json:"title"`
	Status            string    `gorm:"column:status;type:varchar(20);not null;default:waiting" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (ListingVideo) TableName() string {
	return "listing_videos"
}

func (v *ListingVideo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
