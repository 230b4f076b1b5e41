package businessflow

import (
	"context"
	"log"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/google/uuid"
)

// ClickAttributionFlow records one attribution row per eligible redirect and
// bumps the link's derived counters.
// Persistence failures are logged and swallowed: the visitor's redirect must
// never fail because tracking failed.
type ClickAttributionFlow interface {
	RecordClick(ctx context.Context, link *models.AdLink, utm models.UTMParams, metadata *ClientMetadata)
}

type ClickAttributionFlowImpl struct {
	clickRepo  repository.AdLinkClickRepository
	adLinkRepo repository.AdLinkRepository
}

func NewClickAttributionFlow(clickRepo repository.AdLinkClickRepository, adLinkRepo repository.AdLinkRepository) ClickAttributionFlow {
	return &ClickAttributionFlowImpl{clickRepo: clickRepo, adLinkRepo: adLinkRepo}
}

func (f *ClickAttributionFlowImpl) RecordClick(ctx context.Context, link *models.AdLink, utm models.UTMParams, metadata *ClientMetadata) {
	click := f.buildClick(link, utm, metadata)

	if err := f.clickRepo.Save(ctx, click); err != nil {
		log.Printf("click attribution: failed to persist click for slug %s: %v", link.Slug, err)
		return
	}

	// IsUnique is always recorded true, so both counters move together
	if err := f.adLinkRepo.IncrementClickCounters(ctx, link.ID, click.IsUnique); err != nil {
		log.Printf("click attribution: failed to increment counters for slug %s: %v", link.Slug, err)
	}
}

func (f *ClickAttributionFlowImpl) buildClick(link *models.AdLink, utm models.UTMParams, metadata *ClientMetadata) *models.AdLinkClick {
	ip := utils.FallbackClientIP
	var userAgent, referrer *string
	country, region, city := utils.GeoCountryFallback, utils.GeoRegionFallback, utils.GeoCityFallback

	if metadata != nil {
		if metadata.IPAddress != "" {
			ip = metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			userAgent = &metadata.UserAgent
		}
		if metadata.Referrer != "" {
			referrer = &metadata.Referrer
		}
		if loc := metadata.Location; loc != nil {
			if loc.Country != "" {
				country = loc.Country
			}
			if loc.Region != "" {
				region = loc.Region
			}
			if loc.City != "" {
				city = loc.City
			}
		}
	}

	return &models.AdLinkClick{
		AdLinkID:  link.ID,
		Slug:      link.Slug,
		IP:        ip,
		UserAgent: userAgent,
		Referrer:  referrer,
		Country:   country,
		Region:    region,
		City:      city,
		UTM:       utm,
		SessionID: uuid.New().String(),
		IsUnique:  true,
		CreatedAt: utils.UTCNow(),
	}
}
