package models

// Speaker is a presenter attached to an event and optionally to program sessions.
type Speaker struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `json:"email"`
	Bio       string `gorm:"type:text" json:"bio"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	PhotoURL  string `json:"photo_url"`

	Sessions []ProgramSession `gorm:"many2many:session_speakers;" json:"sessions,omitempty"`
}
