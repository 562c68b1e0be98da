// Package render turns a CV document into an A4 HTML page for one of the
// built-in templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"cvcraft/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// View is the output of a renderer: an HTML fragment sized to one A4 page
// plus the sections it contains, in document order.
type View struct {
	Template model.Template
	HTML     template.HTML
	Sections []model.SectionKey
}

// Has reports whether the view contains the section.
func (v *View) Has(k model.SectionKey) bool {
	for _, s := range v.Sections {
		if s == k {
			return true
		}
	}
	return false
}

type Renderer interface {
	Template() model.Template
	Render(doc model.CVDocument) (*View, error)
}

type layout struct {
	sidebar []model.SectionKey
	main    []model.SectionKey
}

var standardOrder = []model.SectionKey{
	model.SectionSummary,
	model.SectionExperience,
	model.SectionEducation,
	model.SectionOtherWorks,
	model.SectionAchievements,
	model.SectionSkills,
	model.SectionLanguages,
}

// htmlRenderer executes one named template from templates/.
type htmlRenderer struct {
	name   model.Template
	layout layout
}

func (r *htmlRenderer) Template() model.Template { return r.name }

func (r *htmlRenderer) Render(doc model.CVDocument) (*View, error) {
	data := buildPageData(doc, r.layout)
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(r.name), data); err != nil {
		return nil, fmt.Errorf("render %s: %w", r.name, err)
	}
	sections := make([]model.SectionKey, 0, len(data.Sidebar)+len(data.Main))
	for _, s := range append(data.Sidebar, data.Main...) {
		sections = append(sections, model.SectionKey(s))
	}
	return &View{Template: r.name, HTML: template.HTML(buf.String()), Sections: sections}, nil
}

var (
	Modern = &htmlRenderer{
		name:   model.TemplateModern,
		layout: layout{main: standardOrder},
	}
	Classic = &htmlRenderer{
		name:   model.TemplateClassic,
		layout: layout{main: standardOrder},
	}
	Executive = &htmlRenderer{
		name:   model.TemplateExecutive,
		layout: layout{main: standardOrder},
	}
	// Creative has no room for other works or achievements.
	Creative = &htmlRenderer{
		name: model.TemplateCreative,
		layout: layout{
			sidebar: []model.SectionKey{model.SectionSkills, model.SectionLanguages},
			main:    []model.SectionKey{model.SectionSummary, model.SectionExperience, model.SectionEducation},
		},
	}
)

// Select returns the renderer for t. Any unknown or empty value gets Modern.
func Select(t model.Template) Renderer {
	switch t {
	case model.TemplateModern:
		return Modern
	case model.TemplateClassic:
		return Classic
	case model.TemplateCreative:
		return Creative
	case model.TemplateExecutive:
		return Executive
	default:
		return Modern
	}
}

// Document renders doc with the template it selects.
func Document(doc model.CVDocument) (*View, error) {
	return Select(doc.Template).Render(doc)
}
