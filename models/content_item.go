package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"gorm.io/gorm"
)

// ContentKind tags the variant of an editable content item
type ContentKind string

const (
	ContentKindText  ContentKind = "text"
	ContentKindImage ContentKind = "image"
	ContentKindVideo ContentKind = "video"
)

// Valid checks if the kind is one of the known variants
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindText, ContentKindImage, ContentKindVideo:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ContentKind
func (k *ContentKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = ContentKind(v)
	case []byte:
		*k = ContentKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ContentKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ContentKind
func (k ContentKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid ContentKind: %s", k)
	}
	return string(k), nil
}

// ContentItem is one editable value on the marketing site, addressed by
// section+key. The kind decides which value fields are meaningful: text items
// carry Text, image and video items carry URL (video additionally AltText as
// a caption).
type ContentItem struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	Section string      `gorm:"size:128;not null;uniqueIndex:uk_content_items_section_key,priority:1;index:idx_content_items_section" json:"section"`
	Key     string      `gorm:"size:128;not null;uniqueIndex:uk_content_items_section_key,priority:2" json:"key"`
	Kind    ContentKind `gorm:"size:16;not null" json:"kind"`

	Text    *string `gorm:"type:text" json:"text,omitempty"`
	URL     *string `gorm:"type:text" json:"url,omitempty"`
	AltText *string `gorm:"size:255" json:"alt_text,omitempty"`

	UpdatedBy *uint      `json:"updated_by,omitempty"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for ContentItem
func (ContentItem) TableName() string { return "content_items" }

// BeforeCreate is called before creating a new record
func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *ContentItem) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// RenderedContent is the public shape of a content item after variant dispatch
type RenderedContent struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	AltText string `json:"alt_text,omitempty"`
}

// Render dispatches on the content kind and produces the public value shape.
// Unknown kinds render as empty text so a stale row never breaks a page.
func (c *ContentItem) Render() RenderedContent {
	out := RenderedContent{
		Section: c.Section,
		Key:     c.Key,
		Kind:    string(c.Kind),
	}

	switch c.Kind {
	case ContentKindText:
		if c.Text != nil {
			out.Value = *c.Text
		}
	case ContentKindImage, ContentKindVideo:
		if c.URL != nil {
			out.Value = *c.URL
		}
		if c.AltText != nil {
			out.AltText = *c.AltText
		}
	default:
		out.Kind = string(ContentKindText)
	}

	return out
}

// ContentItemFilter provides filter fields for repository queries
type ContentItemFilter struct {
	ID      *uint
	Section *string
	Key     *string
	Kind    *ContentKind
}
