package models

// Template types.
const (
	TemplateTypeInvitation   = "INVITATION"
	TemplateTypeAnnouncement = "ANNOUNCEMENT"
	TemplateTypeReminder     = "REMINDER"
	TemplateTypeFollowUp     = "FOLLOW_UP"
)

// Template categories. Category codes follow the product's seed catalog and
// group into four audiences: registration, participant, exhibitor, speaker.
const (
	TemplateCategoryRegistrationConfirmation = "CONFIRMATION_INSCRIPTION"

	TemplateCategoryParticipantWelcome   = "BIENVENUE_PARTICIPANT"
	TemplateCategoryEventReminder        = "RAPPEL_EVENEMENT"
	TemplateCategoryPostEventFollowUp    = "SUIVI_POST_EVENEMENT"
	TemplateCategoryNetworkingInvitation = "INVITATION_NETWORKING"

	TemplateCategoryExhibitorWelcome    = "BIENVENUE_EXPOSANT"
	TemplateCategoryStandSetupReminder  = "RAPPEL_INSTALLATION_STAND"
	TemplateCategoryExhibitorPracticals = "INFOS_PRATIQUES_EXPOSANT"
	TemplateCategoryExhibitorFollowUp   = "SUIVI_EXPOSANT"

	TemplateCategorySpeakerWelcome      = "BIENVENUE_INTERVENANT"
	TemplateCategoryTalkReminder        = "RAPPEL_PRESENTATION"
	TemplateCategorySpeakerTechDetails  = "INFOS_TECHNIQUES_INTERVENANT"
	TemplateCategorySpeakerFollowUp     = "SUIVI_INTERVENANT"
)

// EmailTemplate stores a reusable subject/HTML pair with merge-field tokens.
// Global default templates have no event scoping; organizers activate and
// customise per-event copies through the dashboard.
type EmailTemplate struct {
	BaseModel

	EventID *string `gorm:"type:uuid;index" json:"event_id"`
	Event   *Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Subject     string `gorm:"not null" json:"subject"`
	Category    string `gorm:"type:varchar(64);not null;index" json:"category"`
	Type        string `gorm:"type:varchar(32);not null" json:"type"`

	HTMLContent string `gorm:"type:text;not null" json:"html_content"`
	TextContent string `gorm:"type:text" json:"text_content"`

	IsActive  bool `gorm:"default:false;index" json:"is_active"`
	IsDefault bool `gorm:"default:false;index" json:"is_default"`
	IsGlobal  bool `gorm:"default:false" json:"is_global"`
}
