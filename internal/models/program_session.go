package models

import "time"

// ProgramSession is a scheduled slot in the event program (talk, workshop,
// networking break).
type ProgramSession struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartsAt    time.Time `gorm:"index" json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Room        string    `json:"room"`
	Track       string    `json:"track"`
	Capacity    int       `json:"capacity"`

	Speakers []Speaker `gorm:"many2many:session_speakers;" json:"speakers,omitempty"`
}
