package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/database/testutil"
	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/pkg/mail"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func seedEvent(t *testing.T, db *gorm.DB) *models.Event {
	t.Helper()

	event := models.Event{
		Name:          "Salon Tech Paris",
		Slug:          "salon-tech-paris-" + t.Name(),
		StartDate:     time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 10, 13, 18, 0, 0, 0, time.UTC),
		Location:      "Paris Expo",
		Timezone:      "Europe/Paris",
		Status:        models.EventStatusPublished,
		OrganizerName: "Evencio",
		SupportEmail:  "support@evencio.example",
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func seedParticipant(t *testing.T, db *gorm.DB, eventID, email, ptype string) *models.Participant {
	t.Helper()

	participant := models.Participant{
		EventID:   eventID,
		FirstName: "Test",
		LastName:  "Participant",
		Email:     email,
		Type:      ptype,
	}
	require.NoError(t, db.Create(&participant).Error)
	return &participant
}

func seedConfirmedParticipant(t *testing.T, db *gorm.DB, eventID, email, ptype string) *models.Participant {
	t.Helper()

	participant := seedParticipant(t, db, eventID, email, ptype)
	require.NoError(t, db.Model(participant).Update("confirmed", true).Error)
	participant.Confirmed = true
	return participant
}

func seedTemplate(t *testing.T, db *gorm.DB, eventID *string, active bool) *models.EmailTemplate {
	t.Helper()

	tpl := models.EmailTemplate{
		EventID:     eventID,
		Name:        "Bienvenue",
		Subject:     "Bienvenue à {{eventName}}",
		Category:    models.TemplateCategoryParticipantWelcome,
		Type:        models.TemplateTypeInvitation,
		HTMLContent: "<p>Bonjour {{participantName}}</p>",
		IsActive:    active,
		IsGlobal:    eventID == nil,
	}
	require.NoError(t, db.Create(&tpl).Error)
	return &tpl
}

// fakeMailer records outbound messages and optionally fails per recipient.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []mail.Message
	failTo map[string]error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rcpt := range msg.To {
		if err, ok := m.failTo[rcpt]; ok {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
