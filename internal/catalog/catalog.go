// Package catalog holds the built-in suggestions offered while editing a CV.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"sync"

	"cvcraft/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

type Achievement struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Date        string `yaml:"date" json:"date"`
	Category    string `yaml:"category" json:"category,omitempty"`
}

// Record converts the suggestion into an achievement without an id.
func (a Achievement) Record() model.Achievement {
	return model.Achievement{Title: a.Title, Description: a.Description, Date: a.Date, Category: a.Category}
}

// TemplateInfo describes a template for the picker.
type TemplateInfo struct {
	ID          model.Template `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Preview     string         `yaml:"preview" json:"preview"`
	Features    []string       `yaml:"features" json:"features"`
}

// Catalog is read-only after Load; accessors return copies.
type Catalog struct {
	skills       []string
	languages    []string
	achievements []Achievement
	summaries    []string
	templates    []TemplateInfo
}

type file struct {
	Skills       []string       `yaml:"skills"`
	Languages    []string       `yaml:"languages"`
	Achievements []Achievement  `yaml:"achievements"`
	Summaries    []string       `yaml:"summaries"`
	Templates    []TemplateInfo `yaml:"templates"`
}

func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, t := range f.Templates {
		if !t.ID.Known() {
			return nil, fmt.Errorf("catalog lists unknown template %q", t.ID)
		}
	}
	return &Catalog{
		skills:       f.Skills,
		languages:    f.Languages,
		achievements: f.Achievements,
		summaries:    f.Summaries,
		templates:    f.Templates,
	}, nil
}

var Default = sync.OnceValue(func() *Catalog {
	c, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(err)
	}
	return c
})

func (c *Catalog) Skills() []string            { return slices.Clone(c.skills) }
func (c *Catalog) Languages() []string         { return slices.Clone(c.languages) }
func (c *Catalog) Achievements() []Achievement { return slices.Clone(c.achievements) }
func (c *Catalog) Summaries() []string         { return slices.Clone(c.summaries) }

func (c *Catalog) Templates() []TemplateInfo {
	out := make([]TemplateInfo, len(c.templates))
	for i, t := range c.templates {
		t.Features = slices.Clone(t.Features)
		out[i] = t
	}
	return out
}

// Achievement returns the suggestion at index i.
func (c *Catalog) Achievement(i int) (Achievement, bool) {
	if i < 0 || i >= len(c.achievements) {
		return Achievement{}, false
	}
	return c.achievements[i], true
}

func (c *Catalog) Summary(i int) (string, bool) {
	if i < 0 || i >= len(c.summaries) {
		return "", false
	}
	return c.summaries[i], true
}
