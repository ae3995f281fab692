package listings

import (
	"context"
	"errors"
	"strings"

	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"
	"propertyflow-backend/internal/projection"
	"propertyflow-backend/internal/slug"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates listing operations. Every query takes the owning
// account id explicitly; ownership filtering happens here, not in
// handlers.
type Service struct {
	DB *gorm.DB
}

type CreateListingInput struct {
	AgentID     uuid.UUID `json:"agent_id"`
	Address     string    `json:"address"`
	Price       int       `json:"price"`
	Beds        int       `json:"beds"`
	Baths       int       `json:"baths"`
	Sqft        int       `json:"sqft"`
	Description *string   `json:"description"`
	MLSNumber   *string   `json:"mls_number"`
}

type UpdateListingInput struct {
	Address     *string `json:"address"`
	Price       *int    `json:"price"`
	Beds        *int    `json:"beds"`
	Baths       *int    `json:"baths"`
	Sqft        *int    `json:"sqft"`
	Description *string `json:"description"`
	MLSNumber   *string `json:"mls_number"`
}

func (s *Service) owner(ctx context.Context, ownerID uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", ownerID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) activeCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Listing{}).
		Where("photographer_id = ? AND status = ?", ownerID, models.ListingActive).
		Count(&count).Error
	return count, err
}

// checkTier enforces the free-tier active-listing cap. The count check
// can race under concurrent requests; the unique indexes hold the hard
// invariants.
func (s *Service) checkTier(ctx context.Context, owner *models.User) error {
	count, err := s.activeCount(ctx, owner.ID)
	if err != nil {
		return err
	}
	if !CanActivate(owner.SubscriptionTier, count) {
		return &apperrors.QuotaError{Limit: FreeTierLimit}
	}
	return nil
}

// uniqueSlug derives a free slug for address. excludeID skips the
// listing's own row when re-deriving on an address edit.
func (s *Service) uniqueSlug(ctx context.Context, address string, excludeID uuid.UUID) (string, error) {
	return slug.Unique(address, func(candidate string) (bool, error) {
		var count int64
		q := s.DB.WithContext(ctx).Model(&models.Listing{}).Where("slug = ?", candidate)
		if excludeID != uuid.Nil {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
}

func validateFacts(price, beds, baths, sqft int) error {
	if price < 0 || beds < 0 || baths < 0 || sqft < 0 {
		return apperrors.Validation("price, beds, baths and sqft must be non-negative")
	}
	return nil
}

// Create validates agent ownership, enforces the tier policy, derives a
// unique slug and stores the listing as active.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateListingInput) (*projection.OwnerSummary, error) {
	if strings.TrimSpace(in.Address) == "" {
		return nil, apperrors.Validation("address is required")
	}
	if err := validateFacts(in.Price, in.Beds, in.Baths, in.Sqft); err != nil {
		return nil, err
	}

	owner, err := s.owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var agent models.Agent
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND photographer_id = ?", in.AgentID, ownerID).
		First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if err := s.checkTier(ctx, owner); err != nil {
		return nil, err
	}

	newSlug, err := s.uniqueSlug(ctx, in.Address, uuid.Nil)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		PhotographerID: ownerID,
		AgentID:        in.AgentID,
		Slug:           newSlug,
		Address:        strings.TrimSpace(in.Address),
		Price:          in.Price,
		Beds:           in.Beds,
		Baths:          in.Baths,
		Sqft:           in.Sqft,
		Description:    in.Description,
		MLSNumber:      in.MLSNumber,
		Status:         models.ListingActive,
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}

	sum := projection.ToOwnerSummary(projection.Aggregate{Listing: *listing, Agent: &agent})
	return &sum, nil
}

// List returns owner summaries, optionally filtered by status.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, status string) ([]projection.OwnerSummary, error) {
	q := s.DB.WithContext(ctx).Where("photographer_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var listings []models.Listing
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}

	out := make([]projection.OwnerSummary, 0, len(listings))
	for _, l := range listings {
		agg, err := s.loadAggregate(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, projection.ToOwnerSummary(agg))
	}
	return out, nil
}

// getModel returns the raw listing row scoped to its owner.
func (s *Service) getModel(ctx context.Context, ownerID, listingID uuid.UUID) (*models.Listing, error) {
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

// loadAggregate materializes the full entity graph for projection.
func (s *Service) loadAggregate(ctx context.Context, listing models.Listing) (projection.Aggregate, error) {
	agg := projection.Aggregate{Listing: listing}

	var agent models.Agent
	err := s.DB.WithContext(ctx).Where("id = ?", listing.AgentID).First(&agent).Error
	if err == nil {
		agg.Agent = &agent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return agg, err
	}

	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listing.ID).
		Order("position ASC, created_at ASC").
		Find(&agg.Photos).Error; err != nil {
		return agg, err
	}
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listing.ID).
		Order("created_at ASC").
		Find(&agg.Videos).Error; err != nil {
		return agg, err
	}
	return agg, nil
}

// Get returns the owner detail view.
func (s *Service) Get(ctx context.Context, ownerID, listingID uuid.UUID) (*projection.OwnerDetail, error) {
	listing, err := s.getModel(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}
	agg, err := s.loadAggregate(ctx, *listing)
	if err != nil {
		return nil, err
	}
	detail := projection.ToOwnerDetail(agg)
	return &detail, nil
}

// Update applies a partial edit. An address change re-derives the slug;
// the old slug is not preserved.
func (s *Service) Update(ctx context.Context, ownerID, listingID uuid.UUID, in UpdateListingInput) (*projection.OwnerSummary, error) {
	listing, err := s.getModel(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}

	if in.Address != nil && strings.TrimSpace(*in.Address) != listing.Address {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			return nil, apperrors.Validation("address cannot be empty")
		}
		newSlug, err := s.uniqueSlug(ctx, addr, listing.ID)
		if err != nil {
			return nil, err
		}
		listing.Address = addr
		listing.Slug = newSlug
	}
	if in.Price != nil {
		listing.Price = *in.Price
	}
	if in.Beds != nil {
		listing.Beds = *in.Beds
	}
	if in.Baths != nil {
		listing.Baths = *in.Baths
	}
	if in.Sqft != nil {
		listing.Sqft = *in.Sqft
	}
	if err := validateFacts(listing.Price, listing.Beds, listing.Baths, listing.Sqft); err != nil {
		return nil, err
	}
	if in.Description != nil {
		listing.Description = in.Description
	}
	if in.MLSNumber != nil {
		listing.MLSNumber = in.MLSNumber
	}

	if err := s.DB.WithContext(ctx).Save(listing).Error; err != nil {
		return nil, err
	}

	agg, err := s.loadAggregate(ctx, *listing)
	if err != nil {
		return nil, err
	}
	sum := projection.ToOwnerSummary(agg)
	return &sum, nil
}

// UpdateStatus transitions between active and archived. Activating a
// non-active listing re-checks the tier policy; archiving never does.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, listingID uuid.UUID, status string) (*projection.OwnerSummary, error) {
	if status != models.ListingActive && status != models.ListingArchived {
		return nil, apperrors.Validation("Status must be 'active' or 'archived'")
	}
	listing, err := s.getModel(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}

	if status == models.ListingActive && listing.Status != models.ListingActive {
		owner, err := s.owner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if err := s.checkTier(ctx, owner); err != nil {
			return nil, err
		}
	}

	listing.Status = status
	if err := s.DB.WithContext(ctx).Save(listing).Error; err != nil {
		return nil, err
	}

	agg, err := s.loadAggregate(ctx, *listing)
	if err != nil {
		return nil, err
	}
	sum := projection.ToOwnerSummary(agg)
	return &sum, nil
}

// Delete removes the listing and its photos, videos and leads in one
// transaction. Provider-side image assets are not touched here; that
// cleanup is the photo delete endpoint's concern.
func (s *Service) Delete(ctx context.Context, ownerID, listingID uuid.UUID) error {
	listing, err := s.getModel(ctx, ownerID, listingID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Lead{}).Error; err != nil {
			return err
		}
		return tx.Delete(listing).Error
	})
}
