package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/redis/go-redis/v9"
)

// utmKeys in resolution order; the wire parameter is "utm_" + key
var utmKeys = [5]string{"source", "medium", "campaign", "term", "content"}

// RedirectDecision is the outcome of resolving a slug.
// ClientSide true means the visitor leaves our origin and gets the
// interstitial page; false means a plain 302.
type RedirectDecision struct {
	TargetURL  string
	ClientSide bool
}

// RedirectFlow resolves an ad link slug into a redirect decision and tracks
// the click. It never returns an error: any failure on the lookup path
// degrades to a redirect to the site root with nothing recorded.
type RedirectFlow interface {
	Resolve(ctx context.Context, slug string, query url.Values, metadata *ClientMetadata) *RedirectDecision
}

type RedirectFlowImpl struct {
	adLinkRepo  repository.AdLinkRepository
	clickFlow   ClickAttributionFlow
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	siteBaseURL string
}

func NewRedirectFlow(
	adLinkRepo repository.AdLinkRepository,
	clickFlow ClickAttributionFlow,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	siteBaseURL string,
) RedirectFlow {
	return &RedirectFlowImpl{
		adLinkRepo:  adLinkRepo,
		clickFlow:   clickFlow,
		rc:          rc,
		cacheConfig: cacheConfig,
		siteBaseURL: siteBaseURL,
	}
}

var homeDecision = &RedirectDecision{TargetURL: "/", ClientSide: false}

func (f *RedirectFlowImpl) Resolve(ctx context.Context, slug string, query url.Values, metadata *ClientMetadata) *RedirectDecision {
	if slug == "" {
		return homeDecision
	}

	link, err := f.lookup(ctx, slug)
	if err != nil {
		log.Printf("redirect: lookup failed for slug %s: %v", slug, err)
		return homeDecision
	}
	if link == nil {
		return homeDecision
	}
	if !link.IsEligible() {
		return homeDecision
	}

	utm := resolveUTM(link, query)

	// Tracked before the redirect is served; failures are swallowed inside
	f.clickFlow.RecordClick(ctx, link, utm, metadata)

	target := buildTargetURL(link.TargetURL, utm, query)

	return &RedirectDecision{
		TargetURL:  target,
		ClientSide: isForeignOrigin(target, f.siteBaseURL),
	}
}

// lookup reads the ad link through the Redis cache when one is configured,
// falling back to the database. Cache errors are treated as misses.
func (f *RedirectFlowImpl) lookup(ctx context.Context, slug string) (*models.AdLink, error) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return f.adLinkRepo.BySlug(ctx, slug)
	}

	cacheKey := adLinkCacheKey(*f.cacheConfig, slug)
	if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
		var cached models.AdLink
		if err := json.Unmarshal(bs, &cached); err == nil {
			return &cached, nil
		}
	}

	link, err := f.adLinkRepo.BySlug(ctx, slug)
	if err != nil || link == nil {
		return link, err
	}

	if bs, err := json.Marshal(link); err == nil {
		_ = f.rc.Set(ctx, cacheKey, bs, f.cacheConfig.DefaultTTL).Err()
	}

	return link, nil
}

// resolveUTM merges the incoming query parameters with the link's stored
// defaults. An incoming non-empty utm_ parameter wins; otherwise the stored
// default applies; when neither exists the parameter stays empty.
func resolveUTM(link *models.AdLink, query url.Values) models.UTMParams {
	defaults := link.UTMDefaults()

	resolved := make(map[string]string, len(utmKeys))
	for _, key := range utmKeys {
		if v := query.Get("utm_" + key); v != "" {
			resolved[key] = v
		} else if v, ok := defaults[key]; ok {
			resolved[key] = v
		}
	}

	return models.UTMParams{
		Source:   resolved["source"],
		Medium:   resolved["medium"],
		Campaign: resolved["campaign"],
		Term:     resolved["term"],
		Content:  resolved["content"],
	}
}

// buildTargetURL attaches the resolved UTM set and the non-utm incoming
// parameters to the link's target. The target's own query survives; its
// utm_ parameters are overridden by the resolved set. An unparseable
// target is returned verbatim.
func buildTargetURL(target string, utm models.UTMParams, query url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	q := u.Query()

	for key, vs := range query {
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		if _, exists := q[key]; exists {
			continue
		}
		q[key] = vs
	}

	setUTM := func(key, v string) {
		if v != "" {
			q.Set("utm_"+key, v)
		}
	}
	setUTM("source", utm.Source)
	setUTM("medium", utm.Medium)
	setUTM("campaign", utm.Campaign)
	setUTM("term", utm.Term)
	setUTM("content", utm.Content)

	u.RawQuery = q.Encode()
	return u.String()
}

// isForeignOrigin reports whether target points outside the configured site
// origin. Relative targets and parse failures count as same-origin.
func isForeignOrigin(target, siteBaseURL string) bool {
	tu, err := url.Parse(target)
	if err != nil || !tu.IsAbs() || tu.Host == "" {
		return false
	}

	su, err := url.Parse(siteBaseURL)
	if err != nil || su.Host == "" {
		return true
	}

	return !strings.EqualFold(tu.Scheme, su.Scheme) || !strings.EqualFold(tu.Host, su.Host)
}

func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", cfg.RedisPrefix, key)
}

func adLinkCacheKey(cfg config.CacheConfig, slug string) string {
	return redisKey(cfg, "ad_link:slug:"+slug)
}
