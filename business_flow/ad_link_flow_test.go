package businessflow

import (
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdLinkTestFlow(testDB *testingutil.TestDB) AdLinkFlow {
	adLinkRepo := repository.NewAdLinkRepository(testDB.DB)
	clickRepo := repository.NewAdLinkClickRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewAdLinkFlow(adLinkRepo, clickRepo, auditRepo, nil, nil, testDB.DB)
}

func TestCreateAdLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAdLinkTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		t.Run("CreatesActiveLink", func(t *testing.T) {
			source := "instagram"
			result, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:      "promo-enero",
				Name:      "January promo",
				TargetURL: "https://cutroom.academy/curso",
				UTMSource: &source,
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "promo-enero", result.Slug)
			assert.True(t, utils.IsTrue(result.IsActive))
			assert.NotEmpty(t, result.UUID)
			require.NotNil(t, result.UTMSource)
			assert.Equal(t, "instagram", *result.UTMSource)
		})

		t.Run("NormalizesSlugCase", func(t *testing.T) {
			result, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:      "  Black-Friday  ",
				Name:      "Black Friday",
				TargetURL: "https://cutroom.academy/curso",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "black-friday", result.Slug)
		})

		t.Run("RejectsInvalidSlug", func(t *testing.T) {
			_, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:      "no spaces allowed",
				Name:      "Bad",
				TargetURL: "https://example.com",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidSlug(err))
		})

		t.Run("RejectsDuplicateSlug", func(t *testing.T) {
			_, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:      "promo-enero",
				Name:      "Duplicate",
				TargetURL: "https://example.com",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsSlugTaken(err))
		})

		t.Run("RejectsEmptyTarget", func(t *testing.T) {
			_, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:      "empty-target",
				Name:      "Empty",
				TargetURL: "   ",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsTargetURLEmpty(err))
		})

		t.Run("RejectsBadExpirationFormat", func(t *testing.T) {
			bad := "next friday"
			_, err := flow.CreateAdLink(ctx, &dto.CreateAdLinkRequest{
				Slug:           "bad-expiry",
				Name:           "Bad expiry",
				TargetURL:      "https://example.com",
				ExpirationDate: &bad,
			}, actor.ID, nil)
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateAndDeactivateAdLink(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAdLinkTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		link, err := fixtures.CreateTestAdLink("promo-enero", "https://cutroom.academy/curso")
		require.NoError(t, err)

		t.Run("PartialUpdateKeepsRest", func(t *testing.T) {
			name := "Renamed campaign"
			result, err := flow.UpdateAdLink(ctx, link.ID, &dto.UpdateAdLinkRequest{Name: &name}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "Renamed campaign", result.Name)
			assert.Equal(t, link.TargetURL, result.TargetURL)
			assert.Equal(t, "promo-enero", result.Slug)
		})

		t.Run("EmptyTargetRejected", func(t *testing.T) {
			empty := " "
			_, err := flow.UpdateAdLink(ctx, link.ID, &dto.UpdateAdLinkRequest{TargetURL: &empty}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsTargetURLEmpty(err))
		})

		t.Run("Deactivate", func(t *testing.T) {
			result, err := flow.DeactivateAdLink(ctx, link.ID, actor.ID, nil)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(result.IsActive))
		})

		t.Run("MissingLink", func(t *testing.T) {
			_, err := flow.DeactivateAdLink(ctx, 999999, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsAdLinkNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestValidateSlugAndStats(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newAdLinkTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		link, err := fixtures.CreateTestAdLink("promo-enero", "https://cutroom.academy/curso")
		require.NoError(t, err)

		t.Run("AvailableSlug", func(t *testing.T) {
			result, err := flow.ValidateSlug(ctx, &dto.ValidateSlugRequest{Slug: "fresh-slug"})
			require.NoError(t, err)
			assert.True(t, result.IsValid)
			assert.True(t, result.IsAvailable)
		})

		t.Run("TakenSlug", func(t *testing.T) {
			result, err := flow.ValidateSlug(ctx, &dto.ValidateSlugRequest{Slug: "promo-enero"})
			require.NoError(t, err)
			assert.True(t, result.IsValid)
			assert.False(t, result.IsAvailable)
		})

		t.Run("TakenSlugExcludingItself", func(t *testing.T) {
			result, err := flow.ValidateSlug(ctx, &dto.ValidateSlugRequest{Slug: "promo-enero", ExcludeID: &link.ID})
			require.NoError(t, err)
			assert.True(t, result.IsAvailable)
		})

		t.Run("MalformedSlug", func(t *testing.T) {
			result, err := flow.ValidateSlug(ctx, &dto.ValidateSlugRequest{Slug: "Bad Slug!"})
			require.NoError(t, err)
			assert.False(t, result.IsValid)
			assert.False(t, result.IsAvailable)
		})

		t.Run("StatsCountsClicks", func(t *testing.T) {
			for i := 0; i < 2; i++ {
				_, err := fixtures.CreateTestClick(link)
				require.NoError(t, err)
			}

			stats, err := flow.AdLinkStats(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), stats.ClickCount)
			assert.Len(t, stats.RecentClicks, 2)
			assert.Equal(t, "promo-enero", stats.AdLink.Slug)
			assert.Equal(t, "instagram", stats.RecentClicks[0].UTM["source"])
		})

		t.Run("StatsMissingLink", func(t *testing.T) {
			_, err := flow.AdLinkStats(ctx, 999999)
			require.Error(t, err)
			assert.True(t, IsAdLinkNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdLinkCacheInvalidation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rc.Close()

		cacheConfig := &config.CacheConfig{
			Enabled:     true,
			RedisPrefix: "cutroom",
			DefaultTTL:  time.Minute,
		}

		adLinkRepo := repository.NewAdLinkRepository(testDB.DB)
		clickRepo := repository.NewAdLinkClickRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		clickFlow := NewClickAttributionFlow(clickRepo, adLinkRepo)
		redirectFlow := NewRedirectFlow(adLinkRepo, clickFlow, rc, cacheConfig, testSiteBaseURL)
		flow := NewAdLinkFlow(adLinkRepo, clickRepo, auditRepo, rc, cacheConfig, testDB.DB)

		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		link, err := fixtures.CreateTestAdLink("cached-promo", "https://partner.example.com/offer")
		require.NoError(t, err)

		cacheKey := "cutroom:ad_link:slug:cached-promo"

		t.Run("ResolvePopulatesCache", func(t *testing.T) {
			decision := redirectFlow.Resolve(ctx, "cached-promo", url.Values{}, nil)
			assert.Contains(t, decision.TargetURL, "partner.example.com/offer")
			assert.True(t, mr.Exists(cacheKey))
		})

		t.Run("DeactivateDropsCachedEntry", func(t *testing.T) {
			_, err := flow.DeactivateAdLink(ctx, link.ID, actor.ID, nil)
			require.NoError(t, err)
			assert.False(t, mr.Exists(cacheKey))

			decision := redirectFlow.Resolve(ctx, "cached-promo", url.Values{}, nil)
			assert.Equal(t, "/", decision.TargetURL)
		})

		t.Run("UpdateDropsCachedEntry", func(t *testing.T) {
			newTarget := "https://partner.example.com/relaunch"
			_, err := flow.UpdateAdLink(ctx, link.ID, &dto.UpdateAdLinkRequest{
				TargetURL: &newTarget,
				IsActive:  utils.ToPtr(true),
			}, actor.ID, nil)
			require.NoError(t, err)

			decision := redirectFlow.Resolve(ctx, "cached-promo", url.Values{}, nil)
			assert.Contains(t, decision.TargetURL, "partner.example.com/relaunch")
			assert.True(t, mr.Exists(cacheKey))

			_, err = flow.UpdateAdLink(ctx, link.ID, &dto.UpdateAdLinkRequest{
				TargetURL: utils.ToPtr("https://partner.example.com/final"),
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.False(t, mr.Exists(cacheKey))

			decision = redirectFlow.Resolve(ctx, "cached-promo", url.Values{}, nil)
			assert.Contains(t, decision.TargetURL, "partner.example.com/final")
		})

		return nil
	})
	require.NoError(t, err)
}
