package businessflow

import (
	"net/url"
	"testing"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSiteBaseURL = "https://cutroom.academy"

func newRedirectTestFlow(testDB *testingutil.TestDB) RedirectFlow {
	adLinkRepo := repository.NewAdLinkRepository(testDB.DB)
	clickRepo := repository.NewAdLinkClickRepository(testDB.DB)
	clickFlow := NewClickAttributionFlow(clickRepo, adLinkRepo)
	return NewRedirectFlow(adLinkRepo, clickFlow, nil, nil, testSiteBaseURL)
}

func TestRedirectFlowResolve(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newRedirectTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		adLinkRepo := repository.NewAdLinkRepository(testDB.DB)
		clickRepo := repository.NewAdLinkClickRepository(testDB.DB)

		t.Run("UnknownSlugGoesHome", func(t *testing.T) {
			decision := flow.Resolve(ctx, "no-such-slug", url.Values{}, nil)
			assert.Equal(t, "/", decision.TargetURL)
			assert.False(t, decision.ClientSide)
		})

		t.Run("EmptySlugGoesHome", func(t *testing.T) {
			decision := flow.Resolve(ctx, "", url.Values{}, nil)
			assert.Equal(t, "/", decision.TargetURL)
		})

		t.Run("InactiveLinkGoesHomeWithoutTracking", func(t *testing.T) {
			link, err := fixtures.CreateTestAdLink("paused-campaign", "https://cutroom.academy/curso")
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(link).Update("is_active", false).Error)

			decision := flow.Resolve(ctx, "paused-campaign", url.Values{}, nil)
			assert.Equal(t, "/", decision.TargetURL)

			count, err := clickRepo.CountByAdLink(ctx, link.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("ExpiredLinkGoesHome", func(t *testing.T) {
			_, err := fixtures.CreateExpiredAdLink("old-campaign", "https://cutroom.academy/curso")
			require.NoError(t, err)

			decision := flow.Resolve(ctx, "old-campaign", url.Values{}, nil)
			assert.Equal(t, "/", decision.TargetURL)
		})

		t.Run("SameOriginRedirectTracksAndMergesUTM", func(t *testing.T) {
			link, err := fixtures.CreateTestAdLink("promo-enero", "https://cutroom.academy/curso")
			require.NoError(t, err)

			query := url.Values{}
			query.Set("utm_source", "tiktok")
			query.Set("ref", "bio")

			metadata := NewClientMetadata("203.0.113.10", "Mozilla/5.0")
			decision := flow.Resolve(ctx, "promo-enero", query, metadata)

			assert.False(t, decision.ClientSide)

			target, err := url.Parse(decision.TargetURL)
			require.NoError(t, err)
			q := target.Query()
			// Incoming utm_source wins over the stored default
			assert.Equal(t, "tiktok", q.Get("utm_source"))
			// Stored defaults fill the rest
			assert.Equal(t, "cpc", q.Get("utm_medium"))
			assert.Equal(t, "promo-enero", q.Get("utm_campaign"))
			// Non-utm parameters pass through
			assert.Equal(t, "bio", q.Get("ref"))

			clicks, err := clickRepo.RecentByAdLink(ctx, link.ID, 10)
			require.NoError(t, err)
			require.Len(t, clicks, 1)
			assert.Equal(t, "tiktok", clicks[0].UTM.Source)
			assert.Equal(t, "cpc", clicks[0].UTM.Medium)
			assert.Equal(t, "203.0.113.10", clicks[0].IP)
			assert.True(t, clicks[0].IsUnique)
			assert.NotEmpty(t, clicks[0].SessionID)

			fresh, err := adLinkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), fresh.TotalClicks)
			assert.Equal(t, uint64(1), fresh.UniqueClicks)
		})

		t.Run("ForeignOriginUsesClientSideRedirect", func(t *testing.T) {
			_, err := fixtures.CreateTestAdLink("hotmart-offer", "https://pay.hotmart.com/ABC123")
			require.NoError(t, err)

			decision := flow.Resolve(ctx, "hotmart-offer", url.Values{}, nil)
			assert.True(t, decision.ClientSide)
			assert.Contains(t, decision.TargetURL, "pay.hotmart.com")
		})

		t.Run("RelativeTargetIsSameOrigin", func(t *testing.T) {
			_, err := fixtures.CreateTestAdLink("landing-page", "/curso-pro")
			require.NoError(t, err)

			decision := flow.Resolve(ctx, "landing-page", url.Values{}, nil)
			assert.False(t, decision.ClientSide)
		})

		t.Run("EveryClickCountsAsUnique", func(t *testing.T) {
			link, err := fixtures.CreateTestAdLink("repeat-visits", "https://cutroom.academy/curso")
			require.NoError(t, err)

			metadata := NewClientMetadata("203.0.113.10", "Mozilla/5.0")
			for i := 0; i < 3; i++ {
				flow.Resolve(ctx, "repeat-visits", url.Values{}, metadata)
			}

			fresh, err := adLinkRepo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), fresh.TotalClicks)
			assert.Equal(t, uint64(3), fresh.UniqueClicks)
		})

		t.Run("MissingMetadataUsesFallbacks", func(t *testing.T) {
			link, err := fixtures.CreateTestAdLink("no-metadata", "https://cutroom.academy/curso")
			require.NoError(t, err)

			flow.Resolve(ctx, "no-metadata", url.Values{}, nil)

			clicks, err := clickRepo.RecentByAdLink(ctx, link.ID, 1)
			require.NoError(t, err)
			require.Len(t, clicks, 1)
			assert.Equal(t, "0.0.0.0", clicks[0].IP)
			assert.Equal(t, "Development", clicks[0].Country)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestResolveUTM(t *testing.T) {
	link := &models.AdLink{
		UTMSource:   strPtr("instagram"),
		UTMMedium:   strPtr("cpc"),
		UTMCampaign: strPtr("promo-enero"),
	}

	t.Run("DefaultsApplyWhenQueryEmpty", func(t *testing.T) {
		utm := resolveUTM(link, url.Values{})
		assert.Equal(t, "instagram", utm.Source)
		assert.Equal(t, "cpc", utm.Medium)
		assert.Equal(t, "promo-enero", utm.Campaign)
		assert.Empty(t, utm.Term)
		assert.Empty(t, utm.Content)
	})

	t.Run("IncomingWins", func(t *testing.T) {
		query := url.Values{}
		query.Set("utm_source", "youtube")
		query.Set("utm_term", "editing course")

		utm := resolveUTM(link, query)
		assert.Equal(t, "youtube", utm.Source)
		assert.Equal(t, "cpc", utm.Medium)
		assert.Equal(t, "editing course", utm.Term)
	})

	t.Run("EmptyIncomingValueFallsBackToDefault", func(t *testing.T) {
		query := url.Values{}
		query.Set("utm_source", "")

		utm := resolveUTM(link, query)
		assert.Equal(t, "instagram", utm.Source)
	})
}

func TestBuildTargetURL(t *testing.T) {
	t.Run("TargetQuerySurvives", func(t *testing.T) {
		out := buildTargetURL("https://pay.hotmart.com/ABC?off=xyz", models.UTMParams{Source: "instagram"}, url.Values{})
		u, err := url.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "xyz", u.Query().Get("off"))
		assert.Equal(t, "instagram", u.Query().Get("utm_source"))
	})

	t.Run("ResolvedUTMOverridesTargetUTM", func(t *testing.T) {
		out := buildTargetURL("https://example.com/?utm_source=old", models.UTMParams{Source: "new"}, url.Values{})
		u, err := url.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "new", u.Query().Get("utm_source"))
	})

	t.Run("TargetParamBeatsIncomingDuplicate", func(t *testing.T) {
		query := url.Values{}
		query.Set("off", "incoming")
		out := buildTargetURL("https://example.com/?off=original", models.UTMParams{}, query)
		u, err := url.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "original", u.Query().Get("off"))
	})
}

func TestIsForeignOrigin(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		foreign bool
	}{
		{"SameOrigin", "https://cutroom.academy/curso", false},
		{"SameOriginDifferentCase", "HTTPS://CUTROOM.ACADEMY/curso", false},
		{"Subdomain", "https://www.cutroom.academy/curso", true},
		{"ForeignHost", "https://pay.hotmart.com/ABC", true},
		{"SchemeMismatch", "http://cutroom.academy/curso", true},
		{"Relative", "/curso", false},
		{"SchemelessHost", "cutroom.academy/curso", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.foreign, isForeignOrigin(tc.target, testSiteBaseURL))
		})
	}
}

func strPtr(s string) *string { return &s }
