package videos

import (
	"context"
	"errors"

	"propertyflow-backend/internal/media"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages a listing's videos. Uploads go directly from the
// browser to the provider; we only create the upload session and then
// track the asset through webhook-driven status transitions.
type Service struct {
	DB         *gorm.DB
	Videos     media.VideoClient
	CorsOrigin string
}

// UploadSession is the answer to a create-upload request: the id of the
// pending video record and the URL the client PUTs the file to.
type UploadSession struct {
	VideoID   uuid.UUID `json:"video_id"`
	UploadURL string    `json:"upload_url"`
}

func (s *Service) listing(ctx context.Context, ownerID, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND photographer_id = ?", listingID, ownerID).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// CreateUpload opens a direct-upload session at the provider and records
// a waiting video carrying the session id, which the asset-created
// webhook later matches on. The cap counts every video regardless of
// status, so abandoned uploads hold a slot until deleted.
func (s *Service) CreateUpload(ctx context.Context, ownerID, listingID uuid.UUID, title *string) (*UploadSession, error) {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.ListingVideo{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= models.MaxVideosPerListing {
		return nil, &apperrors.LimitError{Resource: "videos", Limit: models.MaxVideosPerListing}
	}

	upload, err := s.Videos.CreateDirectUpload(ctx, s.CorsOrigin)
	if err != nil {
		return nil, &apperrors.UpstreamError{Op: "video upload session", Err: err}
	}

	video := &models.ListingVideo{
		ListingID:        listingID,
		ProviderUploadID: &upload.UploadID,
		Title:            title,
		Status:           models.VideoWaiting,
	}
	if err := s.DB.WithContext(ctx).Create(video).Error; err != nil {
		return nil, err
	}
	return &UploadSession{VideoID: video.ID, UploadURL: upload.URL}, nil
}

// List returns the listing's videos, oldest first.
func (s *Service) List(ctx context.Context, ownerID, listingID uuid.UUID) ([]models.ListingVideo, error) {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return nil, err
	}
	var videos []models.ListingVideo
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// Get returns one video so the client can poll its processing status.
func (s *Service) Get(ctx context.Context, ownerID, listingID, videoID uuid.UUID) (*models.ListingVideo, error) {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return nil, err
	}
	var video models.ListingVideo
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND listing_id = ?", videoID, listingID).
		First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Delete removes the video record and frees its slot. The provider asset
// is left to the provider's own retention; we only drop our reference.
func (s *Service) Delete(ctx context.Context, ownerID, listingID, videoID uuid.UUID) error {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return err
	}
	result := s.DB.WithContext(ctx).
		Where("id = ? AND listing_id = ?", videoID, listingID).
		Delete(&models.ListingVideo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
