package render

import (
	"strings"
	"testing"

	"cvcraft/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func renderAll(t *testing.T, doc model.CVDocument) map[model.Template]*View {
	t.Helper()
	out := map[model.Template]*View{}
	for _, tpl := range model.Templates {
		v, err := Select(tpl).Render(doc)
		require.NoError(t, err, tpl)
		out[tpl] = v
	}
	return out
}

func sectionsIn(t *testing.T, v *View) []model.SectionKey {
	t.Helper()
	var out []model.SectionKey
	parse(t, string(v.HTML)).Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("data-section")
		out = append(out, model.SectionKey(key))
	})
	return out
}

func fullDocument() model.CVDocument {
	doc := model.New()
	doc.PersonalInfo = model.PersonalInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "555-0100", Location: "Berlin"}
	doc.Summary = "Engineer who ships."
	doc.Experience = []model.Experience{
		{ID: "x1", Company: "Acme", Position: "Lead", StartDate: "2021", EndDate: "2023", Description: []string{"Led the team", ""}},
		{ID: "x2", Company: "Initech", Position: "Dev", StartDate: "2018", EndDate: "2021", Description: []string{"Wrote code"}},
	}
	doc.Education = []model.Education{{ID: "e1", Institution: "MIT", Degree: "BSc", Field: "Computer Science", StartDate: "2014", EndDate: "2018", GPA: "3.9"}}
	doc.Skills = []model.Skill{
		{ID: "s1", Name: "Go", Level: model.SkillExpert},
		{ID: "s2", Name: "SQL", Level: model.SkillAdvanced},
		{ID: "s3", Name: "CSS", Level: model.SkillIntermediate},
		{ID: "s4", Name: "Rust", Level: model.SkillBeginner},
	}
	doc.Languages = []model.Language{{ID: "l1", Name: "German", Proficiency: model.ProficiencyFluent}}
	doc.OtherWorks = []model.OtherWork{{ID: "o1", Title: "Talk", Organization: "GopherCon", Date: "2022"}}
	doc.Achievements = []model.Achievement{{ID: "a1", Title: "Award", Description: "Won", Date: "2020", Category: "Prize"}}
	return doc
}

func TestSelectIsTotal(t *testing.T) {
	assert.Equal(t, model.TemplateModern, Select(model.TemplateModern).Template())
	assert.Equal(t, model.TemplateClassic, Select(model.TemplateClassic).Template())
	assert.Equal(t, model.TemplateCreative, Select(model.TemplateCreative).Template())
	assert.Equal(t, model.TemplateExecutive, Select(model.TemplateExecutive).Template())

	for _, unknown := range []string{"", "retro", "MODERN", " classic", "executive\n"} {
		assert.Equal(t, model.TemplateModern, Select(model.Template(unknown)).Template(), "%q", unknown)
	}
}

func TestUnknownTemplateRendersModern(t *testing.T) {
	doc := fullDocument()
	doc.Template = "retro"

	v, err := Document(doc)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateModern, v.Template)
	assert.Equal(t, 1, parse(t, string(v.HTML)).Find(`[data-template="modern"]`).Length())
}

func TestEmptyDocumentRendersNoSections(t *testing.T) {
	for tpl, v := range renderAll(t, model.New()) {
		assert.Empty(t, v.Sections, tpl)
		assert.Empty(t, sectionsIn(t, v), tpl)
		assert.Equal(t, 0, parse(t, string(v.HTML)).Find("h2").Length(), "%s renders a heading", tpl)
	}
}

func TestSectionOrder(t *testing.T) {
	views := renderAll(t, fullDocument())

	standard := []model.SectionKey{
		model.SectionSummary, model.SectionExperience, model.SectionEducation,
		model.SectionOtherWorks, model.SectionAchievements, model.SectionSkills, model.SectionLanguages,
	}
	for _, tpl := range []model.Template{model.TemplateModern, model.TemplateClassic, model.TemplateExecutive} {
		assert.Equal(t, standard, views[tpl].Sections, tpl)
		assert.Equal(t, standard, sectionsIn(t, views[tpl]), tpl)
	}

	creative := []model.SectionKey{
		model.SectionSkills, model.SectionLanguages,
		model.SectionSummary, model.SectionExperience, model.SectionEducation,
	}
	assert.Equal(t, creative, views[model.TemplateCreative].Sections)
	assert.Equal(t, creative, sectionsIn(t, views[model.TemplateCreative]))
	assert.False(t, views[model.TemplateCreative].Has(model.SectionOtherWorks))
	assert.False(t, views[model.TemplateCreative].Has(model.SectionAchievements))
}

func TestConditionalSectionRoundTrip(t *testing.T) {
	doc := model.New()
	for tpl, v := range renderAll(t, doc) {
		assert.False(t, v.Has(model.SectionSkills), tpl)
	}

	doc.Skills = []model.Skill{{ID: "s1", Name: "Go", Level: model.SkillExpert}}
	for tpl, v := range renderAll(t, doc) {
		assert.True(t, v.Has(model.SectionSkills), tpl)
		assert.Equal(t, 1, parse(t, string(v.HTML)).Find(`[data-section="skills"]`).Length(), tpl)
	}

	doc.Skills = []model.Skill{}
	for tpl, v := range renderAll(t, doc) {
		assert.False(t, v.Has(model.SectionSkills), tpl)
		assert.Equal(t, 0, parse(t, string(v.HTML)).Find(`[data-section="skills"]`).Length(), tpl)
	}
}

func TestBlankSummaryIsAbsent(t *testing.T) {
	doc := model.New()
	doc.Summary = "  \n\t "
	for tpl, v := range renderAll(t, doc) {
		assert.False(t, v.Has(model.SectionSummary), tpl)
	}

	doc.Summary = "  Hello  "
	for tpl, v := range renderAll(t, doc) {
		require.True(t, v.Has(model.SectionSummary), tpl)
		text := parse(t, string(v.HTML)).Find(`[data-section="summary"] p`).Text()
		assert.Equal(t, "Hello", text, tpl)
	}
}

func TestCurrentExperienceShowsPresent(t *testing.T) {
	doc := model.New()
	doc.Experience = []model.Experience{{
		ID: "x1", Company: "Acme", Position: "Lead", StartDate: "2018", EndDate: "2020", Current: true,
		Description: []string{"Shipped"},
	}}

	for tpl, v := range renderAll(t, doc) {
		date := parse(t, string(v.HTML)).Find(`[data-section="experience"] .cv-date`).First().Text()
		assert.Equal(t, "2018 - Present", date, tpl)
		assert.True(t, strings.HasSuffix(date, PresentLabel), tpl)
		assert.NotContains(t, string(v.HTML), "2020", tpl)
	}
}

func TestExperienceKeepsInsertionOrder(t *testing.T) {
	doc := fullDocument()
	for tpl, v := range renderAll(t, doc) {
		var companies []string
		parse(t, string(v.HTML)).Find(`[data-section="experience"] h3`).Each(func(_ int, s *goquery.Selection) {
			companies = append(companies, s.Text())
		})
		assert.Equal(t, []string{"Lead", "Dev"}, companies, tpl)
	}
}

func TestBlankBulletsAreSkipped(t *testing.T) {
	v, err := Modern.Render(fullDocument())
	require.NoError(t, err)
	items := parse(t, string(v.HTML)).Find(`[data-section="experience"] li`)
	assert.Equal(t, 2, items.Length())
}

func TestSkillBars(t *testing.T) {
	assert.Equal(t, 100, SkillPercent(model.SkillExpert))
	assert.Equal(t, 80, SkillPercent(model.SkillAdvanced))
	assert.Equal(t, 60, SkillPercent(model.SkillIntermediate))
	assert.Equal(t, 40, SkillPercent(model.SkillBeginner))
	assert.Equal(t, 40, SkillPercent("Guru"))

	v, err := Creative.Render(fullDocument())
	require.NoError(t, err)

	var widths []string
	parse(t, string(v.HTML)).Find(".cv-bar-fill").Each(func(_ int, s *goquery.Selection) {
		p, _ := s.Attr("data-percent")
		widths = append(widths, p)
		style, _ := s.Attr("style")
		assert.Contains(t, style, p+"%")
	})
	assert.Equal(t, []string{"100", "80", "60", "40"}, widths)

	// other templates show plain labels
	for _, r := range []Renderer{Modern, Classic, Executive} {
		v, err := r.Render(fullDocument())
		require.NoError(t, err)
		html := parse(t, string(v.HTML))
		assert.Equal(t, 0, html.Find(".cv-bar-fill").Length())
		assert.Contains(t, html.Find(`[data-section="skills"]`).Text(), "Expert")
	}
}

func TestHeadings(t *testing.T) {
	views := renderAll(t, fullDocument())
	heading := func(tpl model.Template, section string) string {
		return strings.TrimSpace(parse(t, string(views[tpl].HTML)).Find(`[data-section="` + section + `"] h2, [data-section="` + section + `"] h3.cv-side-title`).First().Text())
	}

	assert.Equal(t, "Professional Summary", heading(model.TemplateModern, "summary"))
	assert.Equal(t, "Work Experience", heading(model.TemplateModern, "experience"))
	assert.Equal(t, "Professional Experience", heading(model.TemplateClassic, "experience"))
	assert.Equal(t, "Core Competencies", heading(model.TemplateClassic, "skills"))
	assert.Equal(t, "Executive Summary", heading(model.TemplateExecutive, "summary"))
	assert.Equal(t, "Education & Credentials", heading(model.TemplateExecutive, "education"))
	assert.Equal(t, "Key Achievements", heading(model.TemplateExecutive, "achievements"))
	assert.Equal(t, "About Me", heading(model.TemplateCreative, "summary"))
	assert.Equal(t, "Skills", heading(model.TemplateCreative, "skills"))
}

func TestEducationHeadingAndGPA(t *testing.T) {
	v, err := Modern.Render(fullDocument())
	require.NoError(t, err)
	edu := parse(t, string(v.HTML)).Find(`[data-section="education"]`)
	assert.Equal(t, "BSc in Computer Science", edu.Find("h3").First().Text())
	assert.Contains(t, edu.Text(), "GPA: 3.9")
	assert.Contains(t, edu.Text(), "2014 - 2018")
}

func TestProfileImage(t *testing.T) {
	doc := fullDocument()
	for tpl, v := range renderAll(t, doc) {
		assert.Equal(t, 0, parse(t, string(v.HTML)).Find("img").Length(), tpl)
	}

	img := "data:image/png;base64,iVBORw0KGgo="
	doc.PersonalInfo.ProfileImage = &img
	for tpl, v := range renderAll(t, doc) {
		src, ok := parse(t, string(v.HTML)).Find(".cv-photo img").Attr("src")
		require.True(t, ok, tpl)
		assert.Equal(t, img, src, tpl)
	}

	remote := "javascript:alert(1)"
	doc.PersonalInfo.ProfileImage = &remote
	for tpl, v := range renderAll(t, doc) {
		assert.Equal(t, 0, parse(t, string(v.HTML)).Find("img").Length(), tpl)
	}
}

func TestContactsOnlyWhenSet(t *testing.T) {
	doc := model.New()
	doc.PersonalInfo.Email = "a@b.c"
	for tpl, v := range renderAll(t, doc) {
		contacts := parse(t, string(v.HTML)).Find("[data-contact]")
		require.Equal(t, 1, contacts.Length(), tpl)
		kind, _ := contacts.Attr("data-contact")
		assert.Equal(t, "email", kind)
	}
}

func TestUserTextIsEscaped(t *testing.T) {
	doc := model.New()
	doc.Summary = `<script>alert("x")</script>`
	for tpl, v := range renderAll(t, doc) {
		html := parse(t, string(v.HTML))
		assert.Equal(t, 0, html.Find("script").Length(), tpl)
		assert.Equal(t, doc.Summary, html.Find(`[data-section="summary"] p`).Text(), tpl)
	}
}

func TestPageTagsSurface(t *testing.T) {
	doc := fullDocument()
	for _, tpl := range model.Templates {
		doc.Template = tpl
		s, v, err := Preview(doc, PageOptions{Toolbar: true})
		require.NoError(t, err)
		assert.Equal(t, tpl, s.Template)

		page := parse(t, s.HTML)
		surface := page.Find(SurfaceSelector)
		require.Equal(t, 1, surface.Length(), tpl)
		assert.Equal(t, 1, surface.Find(`[data-template="`+string(tpl)+`"]`).Length())
		assert.Equal(t, len(v.Sections), surface.Find("[data-section]").Length())
		// the toolbar stays outside the captured surface
		assert.Equal(t, 1, page.Find(".cv-toolbar").Length())
		assert.Equal(t, 0, surface.Find(".cv-toolbar").Length())
		assert.Equal(t, "Jane Doe - CV", page.Find("title").Text())
	}
}

func TestPageRejectsNilView(t *testing.T) {
	_, err := Page(nil, PageOptions{})
	assert.Error(t, err)
}
