package models

import "time"

// Event statuses.
const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusArchived  = "ARCHIVED"
)

// Event is the root aggregate: everything else is scoped to an event.
type Event struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	StartDate time.Time `gorm:"index" json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Location  string    `json:"location"`
	Timezone  string    `gorm:"default:'Europe/Paris'" json:"timezone"`

	// BannerURL references hosted object storage rather than inline payloads.
	BannerURL string `json:"banner_url"`

	Status       string `gorm:"type:varchar(32);default:'DRAFT';index" json:"status"`
	OrganizerName string `json:"organizer_name"`
	SupportEmail  string `json:"support_email"`
	Capacity      int    `json:"capacity"`

	Participants []Participant `gorm:"foreignKey:EventID" json:"participants,omitempty"`
	Sessions     []ProgramSession `gorm:"foreignKey:EventID" json:"sessions,omitempty"`
	Speakers     []Speaker     `gorm:"foreignKey:EventID" json:"speakers,omitempty"`
	Sponsors     []Sponsor     `gorm:"foreignKey:EventID" json:"sponsors,omitempty"`
}
