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

func TestAppointmentCreateAndRespond(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	requester := seedParticipant(t, db, event.ID, "alice@example.com", models.ParticipantTypeAttendee)
	recipient := seedParticipant(t, db, event.ID, "bob@example.com", models.ParticipantTypeExhibitor)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	proposed := time.Date(2026, 10, 12, 14, 0, 0, 0, time.UTC)
	appointment, err := svc.Create(context.Background(), event.ID, AppointmentInput{
		RequesterID:  requester.ID,
		RecipientID:  recipient.ID,
		Message:      "Meet at our stand?",
		ProposedTime: &proposed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusPending, appointment.Status)

	accepted, err := svc.Respond(context.Background(), event.ID, appointment.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ConfirmedTime)
	assert.True(t, accepted.ConfirmedTime.Equal(proposed), "accepting without a time confirms the proposal")

	completed, err := svc.Complete(context.Background(), event.ID, appointment.ID, "great meeting")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusCompleted, completed.Status)
	assert.Equal(t, "great meeting", completed.Notes)
}

func TestAppointmentRejectsSelfRequest(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	participant := seedParticipant(t, db, event.ID, "solo@example.com", models.ParticipantTypeAttendee)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{
		RequesterID: participant.ID,
		RecipientID: participant.ID,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest.StatusCode, apperrors.FromError(err).StatusCode)
}

func TestAppointmentRejectsCrossEventParticipants(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	other := models.Event{Name: "Other", Slug: "other-event", Status: models.EventStatusPublished,
		StartDate: time.Now(), EndDate: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&other).Error)

	requester := seedParticipant(t, db, event.ID, "alice@example.com", models.ParticipantTypeAttendee)
	outsider := seedParticipant(t, db, other.ID, "eve@example.com", models.ParticipantTypeAttendee)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{
		RequesterID: requester.ID,
		RecipientID: outsider.ID,
	})
	require.Error(t, err)
}

func TestAppointmentRejectsDuplicateOpenPair(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)

	// Same pair in the opposite direction is still a duplicate while open.
	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: b.ID, RecipientID: a.ID})
	require.Error(t, err)
	assert.Equal(t, "APPOINTMENT_EXISTS", apperrors.FromError(err).Code)
}

func TestAppointmentAllowsNewRequestAfterDecline(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	first, err := svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), event.ID, first.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusDeclined,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)
}

func TestAppointmentIllegalTransitions(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	appointment, err := svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)

	// PENDING cannot jump straight to COMPLETED.
	_, err = svc.Complete(context.Background(), event.ID, appointment.ID, "")
	require.Error(t, err)
	assert.Equal(t, "APPOINTMENT_ILLEGAL_TRANSITION", apperrors.FromError(err).Code)

	_, err = svc.Respond(context.Background(), event.ID, appointment.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusDeclined,
	})
	require.NoError(t, err)

	// DECLINED is terminal.
	_, err = svc.Respond(context.Background(), event.ID, appointment.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusAccepted,
	})
	require.Error(t, err)
	assert.Equal(t, "APPOINTMENT_ILLEGAL_TRANSITION", apperrors.FromError(err).Code)
}

func TestAppointmentListFilters(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)
	c := seedParticipant(t, db, event.ID, "c@example.com", models.ParticipantTypeSpeaker)

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	first, err := svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: c.ID, RecipientID: b.ID})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), event.ID, first.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusAccepted,
	})
	require.NoError(t, err)

	accepted, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{Status: models.AppointmentStatusAccepted})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, first.ID, accepted[0].ID)
	require.NotNil(t, accepted[0].Requester)
	assert.Equal(t, a.ID, accepted[0].Requester.ID)

	mine, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{ParticipantID: c.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAppointmentNotifierReceivesChanges(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	a := seedParticipant(t, db, event.ID, "a@example.com", models.ParticipantTypeAttendee)
	b := seedParticipant(t, db, event.ID, "b@example.com", models.ParticipantTypeExhibitor)

	notifier := &recordingNotifier{}
	svc, err := NewAppointmentService(db, notifier)
	require.NoError(t, err)

	appointment, err := svc.Create(context.Background(), event.ID, AppointmentInput{RequesterID: a.ID, RecipientID: b.ID})
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), event.ID, appointment.ID, AppointmentResponseInput{
		Status: models.AppointmentStatusAccepted,
	})
	require.NoError(t, err)

	require.Len(t, notifier.changes, 2)
	assert.Equal(t, "", notifier.changes[0].previous)
	assert.Equal(t, models.AppointmentStatusPending, notifier.changes[1].previous)
}

type notifierChange struct {
	status   string
	previous string
}

type recordingNotifier struct {
	changes []notifierChange
}

func (r *recordingNotifier) AppointmentChanged(_ context.Context, appointment *models.Appointment, previous string) {
	r.changes = append(r.changes, notifierChange{status: appointment.Status, previous: previous})
}

func TestAppointmentDirectionAndSearchFilters(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	alice := models.Participant{EventID: event.ID, FirstName: "Alice", LastName: "Durand", Email: "alice@example.com", Type: models.ParticipantTypeAttendee}
	bruno := models.Participant{EventID: event.ID, FirstName: "Bruno", LastName: "Martin", Email: "bruno@example.com", Type: models.ParticipantTypeExhibitor}
	chloe := models.Participant{EventID: event.ID, FirstName: "Chloé", LastName: "Petit", Email: "chloe@example.com", Type: models.ParticipantTypeSpeaker}
	for _, p := range []*models.Participant{&alice, &bruno, &chloe} {
		require.NoError(t, db.Create(p).Error)
	}

	svc, err := NewAppointmentService(db, nil)
	require.NoError(t, err)

	sent, err := svc.Create(context.Background(), event.ID, AppointmentInput{
		RequesterID: bruno.ID,
		RecipientID: alice.ID,
		Message:     "Passez sur notre stand",
	})
	require.NoError(t, err)
	received, err := svc.Create(context.Background(), event.ID, AppointmentInput{
		RequesterID: chloe.ID,
		RecipientID: bruno.ID,
	})
	require.NoError(t, err)

	fromBruno, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{
		ParticipantID: bruno.ID,
		Direction:     AppointmentDirectionSent,
	})
	require.NoError(t, err)
	require.Len(t, fromBruno, 1)
	assert.Equal(t, sent.ID, fromBruno[0].ID)

	toBruno, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{
		ParticipantID: bruno.ID,
		Direction:     AppointmentDirectionReceived,
	})
	require.NoError(t, err)
	require.Len(t, toBruno, 1)
	assert.Equal(t, received.ID, toBruno[0].ID)

	_, err = svc.List(context.Background(), event.ID, ListAppointmentsOptions{Direction: AppointmentDirectionSent})
	require.Error(t, err)
	_, err = svc.List(context.Background(), event.ID, ListAppointmentsOptions{ParticipantID: bruno.ID, Direction: "sideways"})
	require.Error(t, err)

	// Search matches full names and message bodies, case-insensitively.
	byName, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{Search: "chloé petit"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, received.ID, byName[0].ID)

	byMessage, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{Search: "STAND"})
	require.NoError(t, err)
	require.Len(t, byMessage, 1)
	assert.Equal(t, sent.ID, byMessage[0].ID)

	none, err := svc.List(context.Background(), event.ID, ListAppointmentsOptions{Search: "aucun résultat"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
