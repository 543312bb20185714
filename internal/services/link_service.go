package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/models"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/resource"
)

// slugLength is the length of generated short-link slugs.
const slugLength = 8

// LinkService manages tracked links.
type LinkService struct {
	links     *repository.LinkRepository
	campaigns *repository.CampaignRepository
	logger    *zap.Logger

	createMut *resource.Mutation[CreateLinkInput, models.TrackedLink]
}

// CreateLinkInput carries the fields for a new tracked link.
type CreateLinkInput struct {
	PartnerID  uuid.UUID `json:"-"`
	CampaignID uuid.UUID `json:"campaign_id" binding:"required"`
	Slug       string    `json:"slug"`
}

// NewLinkService creates a new link service.
func NewLinkService(links *repository.LinkRepository, campaigns *repository.CampaignRepository, logger *zap.Logger) *LinkService {
	s := &LinkService{
		links:     links,
		campaigns: campaigns,
		logger:    logger,
	}
	s.createMut = resource.NewMutation(s.create)
	return s
}

// Create mints a tracked link into an active campaign. A custom slug is
// honored when supplied; otherwise one is generated.
func (s *LinkService) Create(ctx context.Context, input CreateLinkInput) (models.TrackedLink, error) {
	return s.createMut.Mutate(ctx, input)
}

func (s *LinkService) create(ctx context.Context, input CreateLinkInput) (models.TrackedLink, error) {
	campaign, err := s.campaigns.GetByID(ctx, input.CampaignID)
	if err != nil {
		return models.TrackedLink{}, err
	}
	if campaign.Status != models.CampaignStatusActive {
		return models.TrackedLink{}, fmt.Errorf("campaign %s is not active", campaign.ID)
	}

	slug := input.Slug
	if slug == "" {
		slug, err = generateSlug()
		if err != nil {
			return models.TrackedLink{}, err
		}
	}

	link := models.TrackedLink{
		ID:         uuid.New(),
		CampaignID: campaign.ID,
		PartnerID:  input.PartnerID,
		Slug:       slug,
		TargetURL:  campaign.TargetURL,
	}

	if err := s.links.Create(ctx, &link); err != nil {
		return models.TrackedLink{}, err
	}

	s.logger.Info("tracked link created",
		zap.String("link_id", link.ID.String()),
		zap.String("slug", link.Slug),
	)
	return link, nil
}

// ListByPartner returns a partner's links.
func (s *LinkService) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.TrackedLink, error) {
	return s.links.ListByPartner(ctx, partnerID)
}

// Delete removes a link owned by the partner.
func (s *LinkService) Delete(ctx context.Context, partnerID, linkID uuid.UUID) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link.PartnerID != partnerID {
		return fmt.Errorf("link %s does not belong to partner %s", linkID, partnerID)
	}
	return s.links.Delete(ctx, linkID)
}

// generateSlug returns a random URL-safe short slug.
func generateSlug() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	slug := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return strings.ToLower(slug[:slugLength]), nil
}
