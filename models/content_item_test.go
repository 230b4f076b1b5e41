package models

import (
	"testing"

	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/stretchr/testify/assert"
)

func TestContentKindValid(t *testing.T) {
	assert.True(t, ContentKindText.Valid())
	assert.True(t, ContentKindImage.Valid())
	assert.True(t, ContentKindVideo.Valid())
	assert.False(t, ContentKind("audio").Valid())
	assert.False(t, ContentKind("").Valid())
}

func TestContentItemRender(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		item := &ContentItem{
			Section: "hero",
			Key:     "headline",
			Kind:    ContentKindText,
			Text:    utils.ToPtr("Aprende a editar"),
		}
		out := item.Render()
		assert.Equal(t, "hero", out.Section)
		assert.Equal(t, "headline", out.Key)
		assert.Equal(t, "text", out.Kind)
		assert.Equal(t, "Aprende a editar", out.Value)
		assert.Empty(t, out.AltText)
	})

	t.Run("Image", func(t *testing.T) {
		item := &ContentItem{
			Section: "hero",
			Key:     "banner",
			Kind:    ContentKindImage,
			URL:     utils.ToPtr("https://cdn.example.com/banner.jpg"),
			AltText: utils.ToPtr("Course banner"),
		}
		out := item.Render()
		assert.Equal(t, "image", out.Kind)
		assert.Equal(t, "https://cdn.example.com/banner.jpg", out.Value)
		assert.Equal(t, "Course banner", out.AltText)
	})

	t.Run("Video", func(t *testing.T) {
		item := &ContentItem{
			Section: "hero",
			Key:     "trailer",
			Kind:    ContentKindVideo,
			URL:     utils.ToPtr("https://cdn.example.com/trailer.mp4"),
			AltText: utils.ToPtr("Trailer caption"),
		}
		out := item.Render()
		assert.Equal(t, "video", out.Kind)
		assert.Equal(t, "https://cdn.example.com/trailer.mp4", out.Value)
		assert.Equal(t, "Trailer caption", out.AltText)
	})

	t.Run("UnsetValueRendersEmpty", func(t *testing.T) {
		item := &ContentItem{Section: "hero", Key: "headline", Kind: ContentKindText}
		out := item.Render()
		assert.Empty(t, out.Value)
	})

	t.Run("UnknownKindFallsBackToText", func(t *testing.T) {
		item := &ContentItem{Section: "hero", Key: "legacy", Kind: ContentKind("audio")}
		out := item.Render()
		assert.Equal(t, "text", out.Kind)
		assert.Empty(t, out.Value)
	})
}
