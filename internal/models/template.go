package models

import (
	"fmt"
	"time"
)

var _ Model = (*Template)(nil)

// Template is a reusable title/description/tags preset applied to new publish
// requests.
type Template struct {
	id          string
	name        string
	title       string
	description string
	tags        []string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTemplate creates a named preset.
func NewTemplate(name, title, description string, tags []string) *Template {
	now := time.Now()
	return &Template{
		name:        name,
		title:       title,
		description: description,
		tags:        tags,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (t *Template) ID() string           { return t.id }
func (t *Template) Name() string         { return t.name }
func (t *Template) TitleText() string    { return t.title }
func (t *Template) Description() string  { return t.description }
func (t *Template) TagList() []string    { return t.tags }
func (t *Template) CreatedAt() time.Time { return t.createdAt }
func (t *Template) UpdatedAt() time.Time { return t.updatedAt }

func (t *Template) SetID(id string)           { t.id = id }
func (t *Template) SetCreatedAt(at time.Time) { t.createdAt = at }
func (t *Template) SetUpdatedAt(at time.Time) { t.updatedAt = at }

// Validate checks that the template is named.
func (t *Template) Validate() error {
	if t.name == "" {
		return fmt.Errorf("template name is required")
	}
	return nil
}
