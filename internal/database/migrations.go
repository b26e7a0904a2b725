package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/templates"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Session{},
		&models.AuditLog{},
		&models.Notification{},
		&models.Event{},
		&models.Participant{},
		&models.ProgramSession{},
		&models.Speaker{},
		&models.Sponsor{},
		&models.Appointment{},
		&models.EmailTemplate{},
		&models.Campaign{},
	)
}

// SeedData populates default roles and the default template catalog.
func SeedData(db *gorm.DB) error {
	roles := []models.Role{
		{
			BaseModel:   models.BaseModel{ID: "admin"},
			Name:        "Administrator",
			Description: "Full platform access",
			IsSystem:    true,
		},
		{
			BaseModel:   models.BaseModel{ID: "organizer"},
			Name:        "Organizer",
			Description: "Manage events, participants, communications and appointments",
			IsSystem:    true,
		},
		{
			BaseModel:   models.BaseModel{ID: "staff"},
			Name:        "Staff",
			Description: "Read-only access to event data",
			IsSystem:    true,
		},
	}

	for _, role := range roles {
		if err := db.Where(models.Role{BaseModel: models.BaseModel{ID: role.ID}}).Attrs(role).FirstOrCreate(&models.Role{}).Error; err != nil {
			return err
		}
	}

	return SeedDefaultTemplates(db)
}

// SeedDefaultTemplates upserts the fixed catalog of default email templates.
// Existing default rows are replaced wholesale, so running the seed twice
// leaves exactly one row per catalog entry. Inserted templates are inactive,
// global and marked default.
func SeedDefaultTemplates(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_default = ?", true).Delete(&models.EmailTemplate{}).Error; err != nil {
			return fmt.Errorf("delete default templates: %w", err)
		}

		for _, entry := range templates.DefaultCatalog() {
			row := models.EmailTemplate{
				Name:        entry.Name,
				Description: entry.Description,
				Subject:     entry.Subject,
				Category:    entry.Category,
				Type:        entry.Type,
				HTMLContent: entry.HTMLContent,
				TextContent: entry.TextContent,
				IsActive:    false,
				IsDefault:   true,
				IsGlobal:    true,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert default template %q: %w", entry.Name, err)
			}
		}
		return nil
	})
}
