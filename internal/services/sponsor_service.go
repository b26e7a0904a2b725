package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

// SponsorService manages event sponsors.
type SponsorService struct {
	db *gorm.DB
}

// SponsorInput describes sponsor create/update payloads.
type SponsorInput struct {
	Name        string
	Tier        string
	Description string
	LogoURL     string
	WebsiteURL  string
}

// NewSponsorService constructs a sponsor service.
func NewSponsorService(db *gorm.DB) (*SponsorService, error) {
	if db == nil {
		return nil, errors.New("sponsor service: db is required")
	}
	return &SponsorService{db: db}, nil
}

// Create adds a sponsor to the event.
func (s *SponsorService) Create(ctx context.Context, eventID string, input SponsorInput) (*models.Sponsor, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("sponsor service: load event: %w", err)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("Sponsor name is required")
	}
	tier := strings.ToUpper(defaultIfEmpty(input.Tier, models.SponsorTierPartner))
	if !isSponsorTier(tier) {
		return nil, apperrors.NewBadRequest("Unknown sponsor tier")
	}

	sponsor := models.Sponsor{
		EventID:     event.ID,
		Name:        strings.TrimSpace(input.Name),
		Tier:        tier,
		Description: strings.TrimSpace(input.Description),
		LogoURL:     strings.TrimSpace(input.LogoURL),
		WebsiteURL:  strings.TrimSpace(input.WebsiteURL),
	}

	if err := s.db.WithContext(ctx).Create(&sponsor).Error; err != nil {
		return nil, fmt.Errorf("sponsor service: create: %w", err)
	}
	return &sponsor, nil
}

// Get loads a sponsor scoped to the event.
func (s *SponsorService) Get(ctx context.Context, eventID, id string) (*models.Sponsor, error) {
	ctx = ensureContext(ctx)

	var sponsor models.Sponsor
	err := s.db.WithContext(ctx).
		First(&sponsor, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("sponsor service: get: %w", err)
	}
	return &sponsor, nil
}

// List returns the event's sponsors, highest tier first.
func (s *SponsorService) List(ctx context.Context, eventID string, tier string) ([]models.Sponsor, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Sponsor{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("tier ASC, name ASC")
	if tier = strings.ToUpper(strings.TrimSpace(tier)); tier != "" {
		query = query.Where("tier = ?", tier)
	}

	var sponsors []models.Sponsor
	if err := query.Find(&sponsors).Error; err != nil {
		return nil, fmt.Errorf("sponsor service: list: %w", err)
	}

	sortSponsorsByTier(sponsors)
	return sponsors, nil
}

// Update applies the input to an existing sponsor.
func (s *SponsorService) Update(ctx context.Context, eventID, id string, input SponsorInput) (*models.Sponsor, error) {
	ctx = ensureContext(ctx)

	sponsor, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		sponsor.Name = v
	}
	if input.Tier != "" {
		tier := strings.ToUpper(strings.TrimSpace(input.Tier))
		if !isSponsorTier(tier) {
			return nil, apperrors.NewBadRequest("Unknown sponsor tier")
		}
		sponsor.Tier = tier
	}
	if input.Description != "" {
		sponsor.Description = strings.TrimSpace(input.Description)
	}
	if input.LogoURL != "" {
		sponsor.LogoURL = strings.TrimSpace(input.LogoURL)
	}
	if input.WebsiteURL != "" {
		sponsor.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
	}

	if err := s.db.WithContext(ctx).Save(sponsor).Error; err != nil {
		return nil, fmt.Errorf("sponsor service: update: %w", err)
	}
	return sponsor, nil
}

// Delete removes a sponsor.
func (s *SponsorService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	sponsor, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Sponsor{}, "id = ?", sponsor.ID).Error; err != nil {
		return fmt.Errorf("sponsor service: delete: %w", err)
	}
	return nil
}

// sponsorTierRank orders tiers from most to least prominent.
var sponsorTierRank = map[string]int{
	models.SponsorTierPlatinum: 0,
	models.SponsorTierGold:     1,
	models.SponsorTierSilver:   2,
	models.SponsorTierBronze:   3,
	models.SponsorTierPartner:  4,
}

func sortSponsorsByTier(sponsors []models.Sponsor) {
	sort.SliceStable(sponsors, func(i, j int) bool {
		ri, rj := sponsorTierRank[sponsors[i].Tier], sponsorTierRank[sponsors[j].Tier]
		if ri != rj {
			return ri < rj
		}
		return sponsors[i].Name < sponsors[j].Name
	})
}

func isSponsorTier(value string) bool {
	_, ok := sponsorTierRank[value]
	return ok
}
