package models

import "time"

// Appointment statuses. PENDING is the initial state; DECLINED and COMPLETED
// are terminal.
const (
	AppointmentStatusPending   = "PENDING"
	AppointmentStatusAccepted  = "ACCEPTED"
	AppointmentStatusDeclined  = "DECLINED"
	AppointmentStatusCompleted = "COMPLETED"
)

// appointmentTransitions is the full set of legal status edges.
var appointmentTransitions = map[string][]string{
	AppointmentStatusPending:  {AppointmentStatusAccepted, AppointmentStatusDeclined},
	AppointmentStatusAccepted: {AppointmentStatusCompleted},
}

// CanTransitionAppointment reports whether the status edge from -> to is legal.
func CanTransitionAppointment(from, to string) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsAppointmentStatus reports whether the value is a known appointment status.
func IsAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusAccepted,
		AppointmentStatusDeclined, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment is a meeting request between two participants of the same event.
// Appointments are never physically deleted.
type Appointment struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	RequesterID string       `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester   *Participant `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	RecipientID string       `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *Participant `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	Status  string `gorm:"type:varchar(16);default:'PENDING';index" json:"status"`
	Message string `gorm:"type:text" json:"message"`

	ProposedTime  *time.Time `json:"proposed_time"`
	ConfirmedTime *time.Time `json:"confirmed_time"`
	Location      string     `json:"location"`
	Notes         string     `gorm:"type:text" json:"notes"`
}
