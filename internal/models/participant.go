package models

// Participant types.
const (
	ParticipantTypeAttendee  = "ATTENDEE"
	ParticipantTypeExhibitor = "EXHIBITOR"
	ParticipantTypeSpeaker   = "SPEAKER"
	ParticipantTypeOrganizer = "ORGANIZER"
)

// Participant is a registered attendee of a single event.
// Email is unique per event, not globally.
type Participant struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;uniqueIndex:idx_participant_event_email" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"not null;uniqueIndex:idx_participant_event_email" json:"email"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`

	Type      string `gorm:"type:varchar(32);default:'ATTENDEE';index" json:"type"`
	Confirmed bool   `gorm:"default:false;index" json:"confirmed"`

	// StandNumber is only meaningful for exhibitors.
	StandNumber string `json:"stand_number"`
}

// FullName returns the display name used in appointment lists and emails.
func (p Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}
