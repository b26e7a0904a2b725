package templates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/evencio/evencio/internal/models"
)

// conditionalBlock matches {{#if key}}...{{/if}} sections. Blocks do not nest.
var conditionalBlock = regexp.MustCompile(`(?s)\{\{#if\s+([a-zA-Z0-9_]+)\}\}(.*?)\{\{/if\}\}`)

// Render substitutes {{key}} tokens from the merge map into content.
// Conditional blocks are kept only when the key resolves to a non-empty value.
// Tokens without a matching key are left verbatim. Substitution is literal,
// with no escaping.
func Render(content string, fields map[string]string) string {
	out := conditionalBlock.ReplaceAllStringFunc(content, func(block string) string {
		match := conditionalBlock.FindStringSubmatch(block)
		if strings.TrimSpace(fields[match[1]]) == "" {
			return ""
		}
		return match[2]
	})

	for key, value := range fields {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// MergeFields assembles the token map for an event and participant pair.
// Extra entries override or extend the computed fields.
func MergeFields(event *models.Event, participant *models.Participant, extra map[string]string) map[string]string {
	fields := map[string]string{}

	if event != nil {
		fields["eventName"] = event.Name
		fields["eventLocation"] = event.Location
		fields["eventBanner"] = event.BannerURL
		fields["organizerName"] = event.OrganizerName
		fields["supportEmail"] = event.SupportEmail
		fields["eventDate"] = formatDate(event.StartDate, event.Timezone)
		fields["eventTime"] = formatTime(event.StartDate, event.Timezone)
	}

	if participant != nil {
		fields["participantName"] = participant.FullName()
		fields["participantEmail"] = participant.Email
		fields["participantCompany"] = participant.Company
		fields["standNumber"] = participant.StandNumber
	}

	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

// SampleParticipant returns the fixed participant used for template previews.
func SampleParticipant() *models.Participant {
	return &models.Participant{
		FirstName: "Jean",
		LastName:  "Dupont",
		Email:     "jean.dupont@example.com",
		Company:   "Acme SARL",
		JobTitle:  "Directeur Commercial",
		Type:      models.ParticipantTypeAttendee,
	}
}

func formatDate(t time.Time, tz string) string {
	if t.IsZero() {
		return ""
	}
	return inZone(t, tz).Format("02/01/2006")
}

func formatTime(t time.Time, tz string) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%sh%s", inZone(t, tz).Format("15"), inZone(t, tz).Format("04"))
}

func inZone(t time.Time, tz string) time.Time {
	if tz == "" {
		return t
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t
	}
	return t.In(loc)
}
