package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"cvcraft/internal/model"
)

// SurfaceSelector locates the rendered document inside a page, whichever
// template is active.
const SurfaceSelector = "[data-cv-preview]"

// Surface is a complete HTML page holding one rendered view. It is what the
// preview shows and what export captures.
type Surface struct {
	Template model.Template
	HTML     string
}

type PageOptions struct {
	Title string
	// Toolbar adds the preview controls above the page. They sit outside the
	// tagged surface and never appear in exports.
	Toolbar bool
	// Dark switches the page chrome to a dark theme. The surface itself is
	// always white.
	Dark bool
}

// Page wraps view in a standalone HTML document.
func Page(view *View, opts PageOptions) (*Surface, error) {
	if view == nil {
		return nil, fmt.Errorf("render page: nil view")
	}
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "CV Preview"
	}
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "page", struct {
		Title    string
		Template model.Template
		Toolbar  bool
		Dark     bool
		Body     template.HTML
	}{title, view.Template, opts.Toolbar, opts.Dark, view.HTML})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return &Surface{Template: view.Template, HTML: buf.String()}, nil
}

// Preview renders doc and wraps it in a page in one step.
func Preview(doc model.CVDocument, opts PageOptions) (*Surface, *View, error) {
	view, err := Document(doc)
	if err != nil {
		return nil, nil, err
	}
	if opts.Title == "" {
		opts.Title = previewTitle(doc.PersonalInfo)
	}
	s, err := Page(view, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, view, nil
}

func previewTitle(info model.PersonalInfo) string {
	name := strings.TrimSpace(info.FirstName + " " + info.LastName)
	if name == "" {
		return "CV Preview"
	}
	return name + " - CV"
}
