package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

func TestParticipantCreateNormalisesEmail(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	svc, err := NewParticipantService(db)
	require.NoError(t, err)

	participant, err := svc.Create(context.Background(), event.ID, ParticipantInput{
		FirstName: "Marie",
		LastName:  "Curie",
		Email:     "  Marie.Curie@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, "marie.curie@example.com", participant.Email)
	assert.Equal(t, models.ParticipantTypeAttendee, participant.Type)
	assert.False(t, participant.Confirmed)
}

func TestParticipantEmailUniquePerEvent(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	svc, err := NewParticipantService(db)
	require.NoError(t, err)

	input := ParticipantInput{FirstName: "A", LastName: "B", Email: "dup@example.com"}
	_, err = svc.Create(context.Background(), event.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, input)
	require.Error(t, err)
	assert.Equal(t, "PARTICIPANT_EXISTS", apperrors.FromError(err).Code)

	// The same address is fine on a different event.
	other := models.Event{Name: "Other", Slug: "other-participants"}
	require.NoError(t, db.Create(&other).Error)
	_, err = svc.Create(context.Background(), other.ID, input)
	require.NoError(t, err)
}

func TestParticipantRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	svc, err := NewParticipantService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, ParticipantInput{
		FirstName: "A", LastName: "B", Email: "x@example.com", Type: "ROBOT",
	})
	require.Error(t, err)
}

func TestParticipantListFilters(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	svc, err := NewParticipantService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, ParticipantInput{
		FirstName: "Anne", LastName: "Martin", Email: "anne@example.com",
		Type: models.ParticipantTypeExhibitor, Company: "Acme", StandNumber: "B12",
	})
	require.NoError(t, err)
	confirmed := true
	_, err = svc.Create(context.Background(), event.ID, ParticipantInput{
		FirstName: "Paul", LastName: "Bernard", Email: "paul@example.com",
		Confirmed: &confirmed,
	})
	require.NoError(t, err)

	exhibitors, err := svc.List(context.Background(), event.ID, ListParticipantsOptions{Type: models.ParticipantTypeExhibitor})
	require.NoError(t, err)
	require.Len(t, exhibitors, 1)
	assert.Equal(t, "B12", exhibitors[0].StandNumber)

	confirmedOnly, err := svc.List(context.Background(), event.ID, ListParticipantsOptions{Confirmed: &confirmed})
	require.NoError(t, err)
	require.Len(t, confirmedOnly, 1)
	assert.Equal(t, "paul@example.com", confirmedOnly[0].Email)

	bySearch, err := svc.List(context.Background(), event.ID, ListParticipantsOptions{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "anne@example.com", bySearch[0].Email)
}

func TestParticipantConfirmIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	participant := seedParticipant(t, db, event.ID, "c@example.com", models.ParticipantTypeAttendee)

	svc, err := NewParticipantService(db)
	require.NoError(t, err)

	first, err := svc.Confirm(context.Background(), event.ID, participant.ID)
	require.NoError(t, err)
	assert.True(t, first.Confirmed)

	second, err := svc.Confirm(context.Background(), event.ID, participant.ID)
	require.NoError(t, err)
	assert.True(t, second.Confirmed)
}

func TestParticipantDeleteRemovesAppointments(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)

	require.NoError(t, db.Create(&models.Appointment{
		EventID: event.ID, RequesterID: a.ID, RecipientID: b.ID,
		Status: models.AppointmentStatusPending,
	}).Error)

	svc, err := NewParticipantService(db)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), event.ID, a.ID))

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).
		Where("requester_id = ? OR recipient_id = ?", a.ID, a.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}
