package models

// Sponsor tiers.
const (
	SponsorTierPlatinum = "PLATINUM"
	SponsorTierGold     = "GOLD"
	SponsorTierSilver   = "SILVER"
	SponsorTierBronze   = "BRONZE"
	SponsorTierPartner  = "PARTNER"
)

// Sponsor is a commercial partner displayed on the event page.
type Sponsor struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Name        string `gorm:"not null" json:"name"`
	Tier        string `gorm:"type:varchar(32);default:'PARTNER';index" json:"tier"`
	Description string `gorm:"type:text" json:"description"`
	LogoURL     string `json:"logo_url"`
	WebsiteURL  string `json:"website_url"`
}
