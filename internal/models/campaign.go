package models

import (
	"time"

	"gorm.io/datatypes"
)

// Campaign statuses.
const (
	CampaignStatusScheduled = "SCHEDULED"
	CampaignStatusSending   = "SENDING"
	CampaignStatusSent      = "SENT"
	CampaignStatusFailed    = "FAILED"
)

// Campaign links a template to a bulk send. The template reference is an
// explicit foreign key, never inferred from names.
type Campaign struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	TemplateID string         `gorm:"type:uuid;not null;index" json:"template_id"`
	Template   *EmailTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`

	Name    string `gorm:"not null" json:"name"`
	Subject string `json:"subject"`

	Status string `gorm:"type:varchar(32);default:'SCHEDULED';index" json:"status"`

	// ParticipantType optionally narrows the audience (empty means everyone).
	ParticipantType string `gorm:"type:varchar(32)" json:"participant_type"`

	RecipientCount int `gorm:"default:0" json:"recipient_count"`
	SuccessCount   int `gorm:"default:0" json:"success_count"`
	FailureCount   int `gorm:"default:0" json:"failure_count"`

	ScheduledAt *time.Time `gorm:"index" json:"scheduled_at"`
	SentAt      *time.Time `json:"sent_at"`

	Metadata datatypes.JSON `json:"metadata"`
}
