package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

func TestEventCreateDerivesSlug(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	event, err := svc.Create(context.Background(), EventInput{
		Name:      "Salon du Numérique 2026",
		StartDate: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 3, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "salon-du-num-rique-2026", event.Slug)
	assert.Equal(t, models.EventStatusDraft, event.Status)
	assert.Equal(t, "Europe/Paris", event.Timezone)
}

func TestEventCreateRejectsSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	input := EventInput{
		Name:      "Tech Days",
		Slug:      "tech-days",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	}
	_, err = svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "EVENT_SLUG_TAKEN", apperrors.FromError(err).Code)
}

func TestEventCreateRejectsInvertedDates(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), EventInput{
		Name:      "Backwards",
		StartDate: time.Now().Add(time.Hour),
		EndDate:   time.Now(),
	})
	require.Error(t, err)
}

func TestEventStatusLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	event, err := svc.Create(context.Background(), EventInput{
		Name:      "Lifecycle",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	published, err := svc.SetStatus(context.Background(), event.ID, models.EventStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusPublished, published.Status)

	archived, err := svc.SetStatus(context.Background(), event.ID, models.EventStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusArchived, archived.Status)

	_, err = svc.SetStatus(context.Background(), event.ID, models.EventStatusPublished)
	require.Error(t, err)
	assert.Equal(t, "EVENT_ARCHIVED", apperrors.FromError(err).Code)
}

func TestEventListFilters(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	draft, err := svc.Create(context.Background(), EventInput{
		Name: "Draft Expo", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	published, err := svc.Create(context.Background(), EventInput{
		Name: "Live Forum", Location: "Lyon", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), published.ID, models.EventStatusPublished)
	require.NoError(t, err)

	drafts, err := svc.List(context.Background(), ListEventsOptions{Status: models.EventStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	byLocation, err := svc.List(context.Background(), ListEventsOptions{Search: "lyon"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, published.ID, byLocation[0].ID)
}

func TestEventDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	participant := seedParticipant(t, db, event.ID, "p@example.com", models.ParticipantTypeAttendee)
	other := seedParticipant(t, db, event.ID, "q@example.com", models.ParticipantTypeExhibitor)

	require.NoError(t, db.Create(&models.Appointment{
		EventID: event.ID, RequesterID: participant.ID, RecipientID: other.ID,
		Status: models.AppointmentStatusPending,
	}).Error)

	svc, err := NewEventService(db)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), event.ID))

	var participants, appointments int64
	require.NoError(t, db.Model(&models.Participant{}).Where("event_id = ?", event.ID).Count(&participants).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Where("event_id = ?", event.ID).Count(&appointments).Error)
	assert.Zero(t, participants)
	assert.Zero(t, appointments)

	_, err = svc.Get(context.Background(), event.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventStats(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	seedParticipant(t, db, event.ID, "p1@example.com", models.ParticipantTypeAttendee)
	seedParticipant(t, db, event.ID, "p2@example.com", models.ParticipantTypeExhibitor)
	confirmed := seedParticipant(t, db, event.ID, "p3@example.com", models.ParticipantTypeAttendee)
	require.NoError(t, db.Model(confirmed).Update("confirmed", true).Error)

	svc, err := NewEventService(db)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.ParticipantCount)
	assert.EqualValues(t, 1, stats.ConfirmedCount)
	assert.EqualValues(t, 2, stats.ByType[models.ParticipantTypeAttendee])
	assert.EqualValues(t, 1, stats.ByType[models.ParticipantTypeExhibitor])
}
