package leads

import (
	"context"
	"errors"
	"strings"

	"propertyflow-backend/internal/emails"
	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"
	"propertyflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service records leads from public listing pages and lists them for
// the owning photographer.
type Service struct {
	DB     *gorm.DB
	Emails emails.Sender
}

// SubmitLeadInput is the public inquiry form.
type SubmitLeadInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Message *string `json:"message"`
}

// LeadView is a lead with its listing's address joined in. On the
// public submit response the address is always present; on the owner's
// inbox it is omitted if the listing has gone away.
type LeadView struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone"`
	Message        *string   `json:"message"`
	Notified       bool      `json:"notified"`
	CreatedAt      string    `json:"created_at"`
	ListingAddress *string   `json:"listing_address,omitempty"`
}

func toView(lead *models.Lead, address *string) LeadView {
	return LeadView{
		ID:             lead.ID,
		ListingID:      lead.ListingID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Message:        lead.Message,
		Notified:       lead.Notified,
		CreatedAt:      lead.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		ListingAddress: address,
	}
}

// Submit records an inquiry against an active listing. The notification
// email is best effort: a send failure (or an agent with no email) still
// returns 201, it just leaves Notified false.
func (s *Service) Submit(ctx context.Context, slug string, in SubmitLeadInput) (*LeadView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, apperrors.Validation("Name and email are required")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, apperrors.Validation("Invalid email format")
	}

	var listing models.Listing
	if err := s.DB.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.ListingActive).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	lead := &models.Lead{
		ListingID: listing.ID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
	}
	if err := s.DB.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}

	s.notify(ctx, lead, &listing)

	view := toView(lead, &listing.Address)
	return &view, nil
}

func (s *Service) notify(ctx context.Context, lead *models.Lead, listing *models.Listing) {
	if s.Emails == nil {
		return
	}
	var agent models.Agent
	if err := s.DB.WithContext(ctx).First(&agent, "id = ?", listing.AgentID).Error; err != nil {
		log.Warn().Err(err).Str("listing_id", listing.ID.String()).Msg("Lead notification skipped, agent lookup failed")
		return
	}
	if agent.Email == nil || *agent.Email == "" {
		return
	}

	err := s.Emails.SendLeadNotification(ctx, emails.LeadNotification{
		AgentEmail:     *agent.Email,
		AgentName:      agent.Name,
		LeadName:       lead.Name,
		LeadEmail:      lead.Email,
		LeadPhone:      lead.Phone,
		Message:        lead.Message,
		ListingAddress: listing.Address,
	})
	if err != nil {
		log.Error().Err(err).Str("lead_id", lead.ID.String()).Msg("Lead notification email failed")
		return
	}

	if err := s.DB.WithContext(ctx).Model(lead).Update("notified", true).Error; err != nil {
		log.Error().Err(err).Str("lead_id", lead.ID.String()).Msg("Failed to mark lead notified")
		return
	}
	lead.Notified = true
}

type leadRow struct {
	models.Lead    `gorm:"embedded"`
	ListingAddress *string `gorm:"column:listing_address"`
}

// List returns every lead across the owner's listings, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]LeadView, error) {
	var rows []leadRow
	err := s.DB.WithContext(ctx).Model(&models.Lead{}).
		Select("leads.*, listings.address AS listing_address").
		Joins("JOIN listings ON listings.id = leads.listing_id").
		Where("listings.photographer_id = ?", ownerID).
		Order("leads.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]LeadView, 0, len(rows))
	for i := range rows {
		views = append(views, toView(&rows[i].Lead, rows[i].ListingAddress))
	}
	return views, nil
}
