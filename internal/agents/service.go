package agents

import (
	"context"
	"errors"
	"strings"

	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates agent CRUD. Every query takes the owning account
// id explicitly so no caller can forget the ownership filter.
type Service struct {
	DB *gorm.DB
}

type CreateAgentInput struct {
	Name             string  `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	BrokerageName    *string `json:"brokerage_name"`
	PhotoURL         *string `json:"photo_url"`
	BrokerageLogoURL *string `json:"brokerage_logo_url"`
}

type UpdateAgentInput struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	BrokerageName    *string `json:"brokerage_name"`
	PhotoURL         *string `json:"photo_url"`
	BrokerageLogoURL *string `json:"brokerage_logo_url"`
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]models.Agent, error) {
	var agents []models.Agent
	if err := s.DB.WithContext(ctx).
		Where("photographer_id = ?", ownerID).
		Order("created_at ASC").
		Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateAgentInput) (*models.Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}
	agent := &models.Agent{
		PhotographerID:   ownerID,
		Name:             strings.TrimSpace(in.Name),
		Email:            in.Email,
		Phone:            in.Phone,
		BrokerageName:    in.BrokerageName,
		PhotoURL:         in.PhotoURL,
		BrokerageLogoURL: in.BrokerageLogoURL,
	}
	if err := s.DB.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// Get returns the agent, or NotFound when the agent is absent or belongs
// to a different account.
func (s *Service) Get(ctx context.Context, ownerID, agentID uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND photographer_id = ?", agentID, ownerID).
		First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func (s *Service) Update(ctx context.Context, ownerID, agentID uuid.UUID, in UpdateAgentInput) (*models.Agent, error) {
	agent, err := s.Get(ctx, ownerID, agentID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		agent.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		agent.Email = in.Email
	}
	if in.Phone != nil {
		agent.Phone = in.Phone
	}
	if in.BrokerageName != nil {
		agent.BrokerageName = in.BrokerageName
	}
	if in.PhotoURL != nil {
		agent.PhotoURL = in.PhotoURL
	}
	if in.BrokerageLogoURL != nil {
		agent.BrokerageLogoURL = in.BrokerageLogoURL
	}
	if err := s.DB.WithContext(ctx).Save(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// Delete refuses while any listing still references the agent, so a
// published branded page can never end up with an empty agent block.
func (s *Service) Delete(ctx context.Context, ownerID, agentID uuid.UUID) error {
	agent, err := s.Get(ctx, ownerID, agentID)
	if err != nil {
		return err
	}
	var listings int64
	if err := s.DB.WithContext(ctx).Model(&models.Listing{}).
		Where("agent_id = ?", agentID).
		Count(&listings).Error; err != nil {
		return err
	}
	if listings > 0 {
		return apperrors.Validation("Agent has listings. Reassign or delete them first.")
	}
	return s.DB.WithContext(ctx).Delete(agent).Error
}
