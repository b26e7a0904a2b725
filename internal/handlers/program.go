package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/response"
)

// ProgramHandler exposes HTTP endpoints for program sessions, speakers and sponsors.
type ProgramHandler struct {
	sessions *services.ProgramSessionService
	speakers *services.SpeakerService
	sponsors *services.SponsorService
}

// NewProgramHandler constructs a program handler.
func NewProgramHandler(db *gorm.DB) (*ProgramHandler, error) {
	sessions, err := services.NewProgramSessionService(db)
	if err != nil {
		return nil, err
	}
	speakers, err := services.NewSpeakerService(db)
	if err != nil {
		return nil, err
	}
	sponsors, err := services.NewSponsorService(db)
	if err != nil {
		return nil, err
	}
	return &ProgramHandler{sessions: sessions, speakers: speakers, sponsors: sponsors}, nil
}

type sessionPayload struct {
	Title       string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Room        string     `json:"room"`
	Track       string     `json:"track"`
	Capacity    int        `json:"capacity" validate:"omitempty,min=0"`
	SpeakerIDs  []string   `json:"speaker_ids"`
}

func (p sessionPayload) toInput() services.ProgramSessionInput {
	input := services.ProgramSessionInput{
		Title:       p.Title,
		Description: p.Description,
		Room:        p.Room,
		Track:       p.Track,
		Capacity:    p.Capacity,
		SpeakerIDs:  p.SpeakerIDs,
	}
	if p.StartsAt != nil {
		input.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		input.EndsAt = *p.EndsAt
	}
	return input
}

// ListSessions returns the event program in chronological order.
func (h *ProgramHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(requestContext(c), eventID(c), c.Query("track"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sessions)
}

// GetSession returns a single program session.
func (h *ProgramHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// CreateSession schedules a new program session.
func (h *ProgramHandler) CreateSession(c *gin.Context) {
	var payload sessionPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	session, err := h.sessions.Create(requestContext(c), eventID(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, session)
}

// UpdateSession patches a program session.
func (h *ProgramHandler) UpdateSession(c *gin.Context) {
	var payload sessionPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	session, err := h.sessions.Update(requestContext(c), eventID(c), c.Param("id"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// DeleteSession removes a session from the program.
func (h *ProgramHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type speakerPayload struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,min=1,max=255"`
	Email     string `json:"email" validate:"omitempty,email"`
	Bio       string `json:"bio"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	PhotoURL  string `json:"photo_url" validate:"omitempty,url"`
}

func (p speakerPayload) toInput() services.SpeakerInput {
	return services.SpeakerInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Bio:       p.Bio,
		Company:   p.Company,
		Title:     p.Title,
		PhotoURL:  p.PhotoURL,
	}
}

// ListSpeakers returns the event's speakers.
func (h *ProgramHandler) ListSpeakers(c *gin.Context) {
	speakers, err := h.speakers.List(requestContext(c), eventID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, speakers)
}

// CreateSpeaker adds a speaker to the event.
func (h *ProgramHandler) CreateSpeaker(c *gin.Context) {
	var payload speakerPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	speaker, err := h.speakers.Create(requestContext(c), eventID(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, speaker)
}

// UpdateSpeaker patches a speaker.
func (h *ProgramHandler) UpdateSpeaker(c *gin.Context) {
	var payload speakerPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	speaker, err := h.speakers.Update(requestContext(c), eventID(c), c.Param("id"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, speaker)
}

// DeleteSpeaker removes a speaker and their session assignments.
func (h *ProgramHandler) DeleteSpeaker(c *gin.Context) {
	if err := h.speakers.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type sponsorPayload struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=255"`
	Tier        string `json:"tier" validate:"omitempty,oneof=PLATINUM GOLD SILVER BRONZE PARTNER"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url"`
}

func (p sponsorPayload) toInput() services.SponsorInput {
	return services.SponsorInput{
		Name:        p.Name,
		Tier:        p.Tier,
		Description: p.Description,
		LogoURL:     p.LogoURL,
		WebsiteURL:  p.WebsiteURL,
	}
}

// ListSponsors returns the event's sponsors grouped by tier.
func (h *ProgramHandler) ListSponsors(c *gin.Context) {
	sponsors, err := h.sponsors.List(requestContext(c), eventID(c), c.Query("tier"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sponsors)
}

// CreateSponsor adds a sponsor to the event.
func (h *ProgramHandler) CreateSponsor(c *gin.Context) {
	var payload sponsorPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	sponsor, err := h.sponsors.Create(requestContext(c), eventID(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sponsor)
}

// UpdateSponsor patches a sponsor.
func (h *ProgramHandler) UpdateSponsor(c *gin.Context) {
	var payload sponsorPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	sponsor, err := h.sponsors.Update(requestContext(c), eventID(c), c.Param("id"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sponsor)
}

// DeleteSponsor removes a sponsor.
func (h *ProgramHandler) DeleteSponsor(c *gin.Context) {
	if err := h.sponsors.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
