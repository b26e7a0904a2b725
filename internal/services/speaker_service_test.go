package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/evencio/evencio/pkg/errors"
)

func TestSpeakerCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	svc, err := NewSpeakerService(db)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), event.ID, SpeakerInput{
		FirstName: "  Marie ",
		LastName:  "Lefèvre",
		Email:     "Marie.Lefevre@Example.COM",
		Company:   "Acme Conseil",
		Title:     "CTO",
		PhotoURL:  "https://cdn.evencio.example/speakers/marie.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Marie", created.FirstName)
	assert.Equal(t, "marie.lefevre@example.com", created.Email)
	assert.Equal(t, "https://cdn.evencio.example/speakers/marie.jpg", created.PhotoURL)

	loaded, err := svc.Get(context.Background(), event.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lefèvre", loaded.LastName)

	// Speakers are scoped to their event.
	_, err = svc.Get(context.Background(), "another-event", created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSpeakerCreateValidation(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	svc, err := NewSpeakerService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), event.ID, SpeakerInput{FirstName: "Marie"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest.Code, apperrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), "missing-event", SpeakerInput{
		FirstName: "Marie", LastName: "Lefèvre",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSpeakerListOrdersByName(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	svc, err := NewSpeakerService(db)
	require.NoError(t, err)

	for _, name := range [][2]string{{"Paul", "Moreau"}, {"Anne", "Bernard"}, {"Luc", "Moreau"}} {
		_, err = svc.Create(context.Background(), event.ID, SpeakerInput{
			FirstName: name[0], LastName: name[1],
		})
		require.NoError(t, err)
	}

	speakers, err := svc.List(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, speakers, 3)
	assert.Equal(t, "Bernard", speakers[0].LastName)
	assert.Equal(t, "Luc", speakers[1].FirstName)
	assert.Equal(t, "Paul", speakers[2].FirstName)
}

func TestSpeakerUpdateKeepsUnsetFields(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	svc, err := NewSpeakerService(db)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), event.ID, SpeakerInput{
		FirstName: "Marie", LastName: "Lefèvre", Bio: "Cloud et données",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), event.ID, created.ID, SpeakerInput{
		Title:    "VP Engineering",
		PhotoURL: "https://cdn.evencio.example/speakers/ml.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "VP Engineering", updated.Title)
	assert.Equal(t, "https://cdn.evencio.example/speakers/ml.png", updated.PhotoURL)
	assert.Equal(t, "Marie", updated.FirstName)
	assert.Equal(t, "Cloud et données", updated.Bio)
}

func TestSpeakerDeleteClearsSessionAssignments(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)

	speakers, err := NewSpeakerService(db)
	require.NoError(t, err)
	sessions, err := NewProgramSessionService(db)
	require.NoError(t, err)

	speaker, err := speakers.Create(context.Background(), event.ID, SpeakerInput{
		FirstName: "Marie", LastName: "Lefèvre",
	})
	require.NoError(t, err)

	session, err := sessions.Create(context.Background(), event.ID, ProgramSessionInput{
		Title:      "Ouverture",
		StartsAt:   event.StartDate,
		EndsAt:     event.StartDate.Add(time.Hour),
		SpeakerIDs: []string{speaker.ID},
	})
	require.NoError(t, err)

	require.NoError(t, speakers.Delete(context.Background(), event.ID, speaker.ID))

	_, err = speakers.Get(context.Background(), event.ID, speaker.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reloaded, err := sessions.Get(context.Background(), event.ID, session.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Speakers)
}
