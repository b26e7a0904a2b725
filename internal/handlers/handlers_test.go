package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/database/testutil"
	"github.com/evencio/evencio/internal/models"
)

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func jsonRequest(t *testing.T, engine *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	rec := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func seedHandlerEvent(t *testing.T, db *gorm.DB) models.Event {
	t.Helper()
	event := models.Event{
		Name:      "Salon Tech Paris",
		Slug:      "salon-tech-paris",
		Status:    models.EventStatusPublished,
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
		Timezone:  "Europe/Paris",
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func seedHandlerParticipant(t *testing.T, db *gorm.DB, eventID, email string) models.Participant {
	t.Helper()
	participant := models.Participant{
		EventID:   eventID,
		FirstName: "Alice",
		LastName:  "Durand",
		Email:     email,
		Type:      models.ParticipantTypeAttendee,
	}
	require.NoError(t, db.Create(&participant).Error)
	return participant
}
