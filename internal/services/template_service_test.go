package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

func TestTemplateListIncludesGlobalDefaults(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	seedTemplate(t, db, nil, false)
	seedTemplate(t, db, &event.ID, true)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), event.ID, ListTemplatesOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(context.Background(), event.ID, ListTemplatesOptions{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].EventID)
	assert.Equal(t, event.ID, *active[0].EventID)
}

func TestTemplateDefaultsAreReadOnly(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	def := seedTemplate(t, db, nil, false)
	require.NoError(t, db.Model(def).Update("is_default", true).Error)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), event.ID, def.ID, TemplateInput{Name: "Edited"})
	require.Error(t, err)
	assert.Equal(t, "TEMPLATE_READ_ONLY", apperrors.FromError(err).Code)

	_, err = svc.SetActive(context.Background(), event.ID, def.ID, true)
	require.Error(t, err)

	err = svc.Delete(context.Background(), event.ID, def.ID)
	require.Error(t, err)
}

func TestTemplateDuplicateCreatesEditableCopy(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	def := seedTemplate(t, db, nil, false)
	require.NoError(t, db.Model(def).Update("is_default", true).Error)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	copyRow, err := svc.Duplicate(context.Background(), event.ID, def.ID)
	require.NoError(t, err)
	require.NotNil(t, copyRow.EventID)
	assert.Equal(t, event.ID, *copyRow.EventID)
	assert.False(t, copyRow.IsDefault)
	assert.Equal(t, def.Subject, copyRow.Subject)

	activated, err := svc.SetActive(context.Background(), event.ID, copyRow.ID, true)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	updated, err := svc.Update(context.Background(), event.ID, copyRow.ID, TemplateInput{Subject: "Nouvelle édition {{eventName}}"})
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle édition {{eventName}}", updated.Subject)
}

func TestTemplateDeleteBlockedWhenReferenced(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	tpl := seedTemplate(t, db, &event.ID, true)

	require.NoError(t, db.Create(&models.Campaign{
		EventID: event.ID, TemplateID: tpl.ID, Name: "Launch",
		Status: models.CampaignStatusScheduled,
	}).Error)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), event.ID, tpl.ID)
	require.Error(t, err)
	assert.Equal(t, "TEMPLATE_IN_USE", apperrors.FromError(err).Code)
}

func TestTemplatePreviewUsesSampleParticipant(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	tpl := seedTemplate(t, db, &event.ID, true)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	preview, err := svc.Preview(context.Background(), event.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bienvenue à Salon Tech Paris", preview.Subject)
	assert.Contains(t, preview.HTML, "Jean Dupont")
	assert.NotContains(t, preview.HTML, "{{participantName}}")
}

func TestTemplateSendTest(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	tpl := seedTemplate(t, db, &event.ID, true)

	mailer := &fakeMailer{}
	svc, err := NewTemplateService(db, mailer)
	require.NoError(t, err)

	require.NoError(t, svc.SendTest(context.Background(), event.ID, tpl.ID, "orga@example.com"))
	require.Equal(t, 1, mailer.sentCount())
	assert.True(t, mailer.sent[0].HTML)
	assert.Equal(t, []string{"orga@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Jean Dupont")
}

func TestTemplateSendTestWithoutMailer(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	tpl := seedTemplate(t, db, &event.ID, true)

	svc, err := NewTemplateService(db, nil)
	require.NoError(t, err)

	err = svc.SendTest(context.Background(), event.ID, tpl.ID, "orga@example.com")
	require.Error(t, err)
	assert.Equal(t, "SMTP_DISABLED", apperrors.FromError(err).Code)
}
