package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent is a real-estate agent managed by one photographer account.
type Agent struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PhotographerID   uuid.UUID `gorm:"column:photographer_id;type:uuid;not null;index" json:"-"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	Email            *string   `gorm:"column:email" json:"email"`
	Phone            *string   `gorm:"column:phone" json:"phone"`
	BrokerageName    *string   `gorm:"column:brokerage_name" json:"brokerage_name"`
	PhotoURL         *string   `gorm:"column:photo_url" json:"photo_url"`
	BrokerageLogoURL *string   `gorm:"column:brokerage_logo_url" json:"brokerage_logo_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Agent) TableName() string {
	return "agents"
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
