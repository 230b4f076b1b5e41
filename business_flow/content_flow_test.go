package businessflow

import (
	"testing"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	testingutil "github.com/cutroom-academy/cutroom-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentTestFlow(testDB *testingutil.TestDB) ContentFlow {
	contentRepo := repository.NewContentItemRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewContentFlow(contentRepo, auditRepo)
}

func TestUpsertContent(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newContentTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		t.Run("CreatesTextItem", func(t *testing.T) {
			result, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "hero_title",
				Kind:    "text",
				Text:    "Edita como un profesional",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "landing", result.Section)
			assert.Equal(t, "hero_title", result.Key)
			assert.Equal(t, "text", result.Kind)
			assert.Equal(t, "Edita como un profesional", result.Text)
			assert.NotEmpty(t, result.UpdatedAt)
		})

		t.Run("ReplacesExistingKey", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "hero_title",
				Kind:    "text",
				Text:    "Nuevo titular",
			}, actor.ID, nil)
			require.NoError(t, err)

			contentRepo := repository.NewContentItemRepository(testDB.DB)
			row, err := contentRepo.BySectionAndKey(ctx, "landing", "hero_title")
			require.NoError(t, err)
			require.NotNil(t, row)
			require.NotNil(t, row.Text)
			assert.Equal(t, "Nuevo titular", *row.Text)

			count, err := contentRepo.Count(ctx, models.ContentItemFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("ImageRequiresURL", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "hero_image",
				Kind:    "image",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsContentValueMissing(err))
		})

		t.Run("ImageKeepsAltText", func(t *testing.T) {
			result, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "hero_image",
				Kind:    "image",
				URL:     "https://cdn.cutroom.academy/hero.webp",
				AltText: "Editor at work",
			}, actor.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, "https://cdn.cutroom.academy/hero.webp", result.URL)
			assert.Equal(t, "Editor at work", result.AltText)
		})

		t.Run("TextRequiresText", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "empty_text",
				Kind:    "text",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsContentValueMissing(err))
		})

		t.Run("RejectsUnknownKind", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "hero_title",
				Kind:    "carousel",
				Text:    "x",
			}, actor.ID, nil)
			require.Error(t, err)
			assert.True(t, IsInvalidContentKind(err))
		})

		t.Run("RejectsBlankSectionAndKey", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "   ",
				Key:     "hero_title",
				Kind:    "text",
				Text:    "x",
			}, actor.ID, nil)
			require.Error(t, err)

			_, err = flow.UpsertContent(ctx, &dto.UpsertContentRequest{
				Section: "landing",
				Key:     "   ",
				Kind:    "text",
				Text:    "x",
			}, actor.ID, nil)
			require.Error(t, err)
		})

		t.Run("RejectsNilRequest", func(t *testing.T) {
			_, err := flow.UpsertContent(ctx, nil, actor.ID, nil)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSectionContent(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newContentTestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		actor, err := fixtures.CreateTestProfile(models.RoleAdmin)
		require.NoError(t, err)

		_, err = fixtures.CreateTestContentItem("pricing", "plan_name", "Curso Pro")
		require.NoError(t, err)
		_, err = flow.UpsertContent(ctx, &dto.UpsertContentRequest{
			Section: "pricing",
			Key:     "banner",
			Kind:    "image",
			URL:     "https://cdn.cutroom.academy/pricing.webp",
			AltText: "Pricing banner",
		}, actor.ID, nil)
		require.NoError(t, err)
		_, err = fixtures.CreateTestContentItem("faq", "q1", "How long do I keep access?")
		require.NoError(t, err)

		t.Run("RendersOnlyRequestedSection", func(t *testing.T) {
			result, err := flow.SectionContent(ctx, "pricing")
			require.NoError(t, err)
			assert.Equal(t, "pricing", result.Section)
			require.Len(t, result.Items, 2)

			// BySection orders by key, so banner comes first
			assert.Equal(t, "banner", result.Items[0].Key)
			assert.Equal(t, "image", result.Items[0].Kind)
			assert.Equal(t, "https://cdn.cutroom.academy/pricing.webp", result.Items[0].Value)
			assert.Equal(t, "Pricing banner", result.Items[0].AltText)

			assert.Equal(t, "plan_name", result.Items[1].Key)
			assert.Equal(t, "text", result.Items[1].Kind)
			assert.Equal(t, "Curso Pro", result.Items[1].Value)
		})

		t.Run("EmptySectionReturnsNoItems", func(t *testing.T) {
			result, err := flow.SectionContent(ctx, "testimonials")
			require.NoError(t, err)
			assert.Empty(t, result.Items)
		})

		t.Run("BlankSectionRejected", func(t *testing.T) {
			_, err := flow.SectionContent(ctx, "  ")
			require.Error(t, err)
		})

		t.Run("ListSectionItemsReturnsRawRows", func(t *testing.T) {
			items, err := flow.ListSectionItems(ctx, "pricing")
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "banner", items[0].Key)
			assert.Equal(t, "https://cdn.cutroom.academy/pricing.webp", items[0].URL)
			assert.Equal(t, "plan_name", items[1].Key)
			assert.Equal(t, "Curso Pro", items[1].Text)
		})

		return nil
	})
	require.NoError(t, err)
}
