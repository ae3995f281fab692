package public

import (
	"context"
	"errors"

	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"
	"propertyflow-backend/internal/projection"

	"gorm.io/gorm"
)

// Service serves the public listing pages. Only active listings are
// visible; archived or unknown slugs are indistinguishable 404s.
type Service struct {
	DB *gorm.DB
}

func (s *Service) aggregate(ctx context.Context, slug string) (*projection.Aggregate, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.ListingActive).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	agg := projection.Aggregate{Listing: listing}

	var agent models.Agent
	if err := s.DB.WithContext(ctx).First(&agent, "id = ?", listing.AgentID).Error; err == nil {
		agg.Agent = &agent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listing.ID).
		Order("position ASC, created_at ASC").
		Find(&agg.Photos).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listing.ID).
		Order("created_at ASC").
		Find(&agg.Videos).Error; err != nil {
		return nil, err
	}
	return &agg, nil
}

// Branded returns the agent-branded page payload.
func (s *Service) Branded(ctx context.Context, slug string) (*projection.PublicBranded, error) {
	agg, err := s.aggregate(ctx, slug)
	if err != nil {
		return nil, err
	}
	page := projection.ToPublicBranded(*agg)
	return &page, nil
}

// Unbranded returns the MLS-compliant page payload, which carries no
// agent identity at all.
func (s *Service) Unbranded(ctx context.Context, slug string) (*projection.PublicUnbranded, error) {
	agg, err := s.aggregate(ctx, slug)
	if err != nil {
		return nil, err
	}
	page := projection.ToPublicUnbranded(*agg)
	return &page, nil
}
