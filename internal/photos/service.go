package photos

import (
	"context"
	"errors"

	"propertyflow-backend/internal/media"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages a listing's photo gallery: provider uploads, the
// position index, and best-effort provider cleanup on delete.
type Service struct {
	DB     *gorm.DB
	Images media.ImageClient
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

func (s *Service) count(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.ListingPhoto{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count, err
}

// Upload admits a new photo at the end of the gallery. The cap is
// checked before the provider call so a full gallery never costs an
// upload; the provider failure propagates as the request's failure.
func (s *Service) Upload(ctx context.Context, ownerID, listingID uuid.UUID, fileBytes []byte, filename string) (*models.ListingPhoto, error) {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return nil, err
	}

	count, err := s.count(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxPhotosPerListing {
		return nil, &apperrors.LimitError{Resource: "photos", Limit: models.MaxPhotosPerListing}
	}

	if filename == "" {
		filename = "photo.jpg"
	}
	upload, err := s.Images.Upload(ctx, fileBytes, filename)
	if err != nil {
		return nil, &apperrors.UpstreamError{Op: "image upload", Err: err}
	}

	photo := &models.ListingPhoto{
		ListingID:       listingID,
		ProviderImageID: upload.ProviderID,
		URL:             upload.URL,
		ThumbnailURL:    upload.ThumbnailURL,
		Position:        int(count), // append to end
	}
	if err := s.DB.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// Reorder assigns position = index for each id that belongs to the
// listing; foreign ids are ignored, not an error. Returns the full set
// sorted by position.
func (s *Service) Reorder(ctx context.Context, ownerID, listingID uuid.UUID, photoIDs []uuid.UUID) ([]models.ListingPhoto, error) {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, photoID := range photoIDs {
			if err := tx.Model(&models.ListingPhoto{}).
				Where("id = ? AND listing_id = ?", photoID, listingID).
				Update("position", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var photos []models.ListingPhoto
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("position ASC, created_at ASC").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// Delete removes the photo at the provider, then locally. Remaining
// positions are not renumbered; gaps are fine, only relative order
// matters. A provider failure surfaces as this operation's failure.
func (s *Service) Delete(ctx context.Context, ownerID, listingID, photoID uuid.UUID) error {
	if _, err := s.listing(ctx, ownerID, listingID); err != nil {
		return err
	}

	var photo models.ListingPhoto
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND listing_id = ?", photoID, listingID).
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if err := s.Images.Delete(ctx, photo.ProviderImageID); err != nil {
		return &apperrors.UpstreamError{Op: "image delete", Err: err}
	}
	return s.DB.WithContext(ctx).Delete(&photo).Error
}
