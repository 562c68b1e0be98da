package catalog

import (
	"strings"
	"testing"

	"cvcraft/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Contains(t, c.Skills(), "JavaScript")
	assert.Equal(t, []string{
		"English", "French", "Spanish", "German", "Mandarin", "Arabic", "Hindi", "Portuguese",
		"Russian", "Italian", "Japanese", "Korean", "Swahili", "Turkish", "Dutch",
	}, c.Languages())
	assert.NotEmpty(t, c.Summaries())

	for _, a := range c.Achievements() {
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.Date)
	}

	var ids []model.Template
	for _, tpl := range c.Templates() {
		ids = append(ids, tpl.ID)
		assert.Len(t, tpl.Features, 3)
	}
	assert.Equal(t, model.Templates, ids)
}

func TestEntriesAreUnique(t *testing.T) {
	c := Default()
	for name, list := range map[string][]string{
		"skills":    c.Skills(),
		"languages": c.Languages(),
		"summaries": c.Summaries(),
	} {
		seen := map[string]bool{}
		for _, v := range list {
			key := strings.ToLower(v)
			assert.False(t, seen[key], "%s has duplicate %q", name, v)
			seen[key] = true
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	skills := c.Skills()
	skills[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Skills()[0])

	tpls := c.Templates()
	tpls[0].Features[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Templates()[0].Features[0])
}

func TestIndexedLookups(t *testing.T) {
	c := Default()

	a, ok := c.Achievement(0)
	require.True(t, ok)
	rec := a.Record()
	assert.Empty(t, rec.ID)
	assert.Equal(t, a.Title, rec.Title)

	_, ok = c.Achievement(len(c.Achievements()))
	assert.False(t, ok)

	_, ok = c.Summary(-1)
	assert.False(t, ok)
}

func TestLoadRejectsUnknownTemplate(t *testing.T) {
	_, err := Load(strings.NewReader("templates:\n  - id: retro\n    name: Retro\n"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("hobbies: [chess]\n"))
	assert.Error(t, err)
}
