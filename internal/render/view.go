package render

import (
	"html/template"
	"strings"

	"cvcraft/internal/model"
)

// PresentLabel replaces the end date of a current position.
const PresentLabel = "Present"

const dateSeparator = " - "

// HasText reports whether s contains anything besides whitespace.
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasItems reports whether a section list is non-empty.
func HasItems[T any](list []T) bool {
	return len(list) > 0
}

// ExperienceDates formats the date range of an experience. A stored end date
// is ignored while the position is current.
func ExperienceDates(e model.Experience) string {
	end := e.EndDate
	if e.Current {
		end = PresentLabel
	}
	return e.StartDate + dateSeparator + end
}

func EducationDates(e model.Education) string {
	return e.StartDate + dateSeparator + e.EndDate
}

// SkillPercent maps a skill level to the width of its bar.
func SkillPercent(l model.SkillLevel) int {
	switch l {
	case model.SkillExpert:
		return 100
	case model.SkillAdvanced:
		return 80
	case model.SkillIntermediate:
		return 60
	default:
		return 40
	}
}

type contactItem struct {
	Kind  string
	Value string
}

type experienceItem struct {
	Position string
	Company  string
	Location string
	Dates    string
	Bullets  []string
	Last     bool
}

type educationItem struct {
	Heading     string
	Institution string
	Degree      string
	Field       string
	Dates       string
	GPA         string
	Description string
}

type skillItem struct {
	Name    string
	Level   model.SkillLevel
	Percent int
}

// pageData is what every template executes against.
type pageData struct {
	FirstName    string
	LastName     string
	FullName     string
	Image        template.URL
	HasImage     bool
	Contacts     []contactItem
	Summary      string
	Experience   []experienceItem
	Education    []educationItem
	Skills       []skillItem
	Languages    []model.Language
	OtherWorks   []model.OtherWork
	Achievements []model.Achievement
	Sidebar      []string
	Main         []string
}

func buildPageData(doc model.CVDocument, l layout) pageData {
	info := doc.PersonalInfo
	d := pageData{
		FirstName:    info.FirstName,
		LastName:     info.LastName,
		FullName:     strings.TrimSpace(info.FirstName + " " + info.LastName),
		Summary:      strings.TrimSpace(doc.Summary),
		Languages:    doc.Languages,
		OtherWorks:   doc.OtherWorks,
		Achievements: doc.Achievements,
	}
	if img := info.ProfileImage; img != nil && strings.HasPrefix(*img, "data:image/") {
		// only inline images are trusted as sources
		d.Image = template.URL(*img)
		d.HasImage = true
	}
	for _, c := range []contactItem{
		{"email", info.Email},
		{"phone", info.Phone},
		{"location", info.Location},
		{"linkedin", info.LinkedIn},
		{"website", info.Website},
	} {
		if HasText(c.Value) {
			d.Contacts = append(d.Contacts, c)
		}
	}
	for i, e := range doc.Experience {
		var bullets []string
		for _, b := range e.Description {
			if HasText(b) {
				bullets = append(bullets, b)
			}
		}
		d.Experience = append(d.Experience, experienceItem{
			Position: e.Position,
			Company:  e.Company,
			Location: e.Location,
			Dates:    ExperienceDates(e),
			Bullets:  bullets,
			Last:     i == len(doc.Experience)-1,
		})
	}
	for _, e := range doc.Education {
		d.Education = append(d.Education, educationItem{
			Heading:     e.Degree + " in " + e.Field,
			Institution: e.Institution,
			Degree:      e.Degree,
			Field:       e.Field,
			Dates:       EducationDates(e),
			GPA:         e.GPA,
			Description: e.Description,
		})
	}
	for _, s := range doc.Skills {
		d.Skills = append(d.Skills, skillItem{Name: s.Name, Level: s.Level, Percent: SkillPercent(s.Level)})
	}
	d.Sidebar = present(doc, l.sidebar)
	d.Main = present(doc, l.main)
	return d
}

// present filters the layout down to the sections that have content.
func present(doc model.CVDocument, order []model.SectionKey) []string {
	var out []string
	for _, k := range order {
		if sectionPresent(doc, k) {
			out = append(out, string(k))
		}
	}
	return out
}

func sectionPresent(doc model.CVDocument, k model.SectionKey) bool {
	switch k {
	case model.SectionSummary:
		return HasText(doc.Summary)
	case model.SectionExperience:
		return HasItems(doc.Experience)
	case model.SectionEducation:
		return HasItems(doc.Education)
	case model.SectionSkills:
		return HasItems(doc.Skills)
	case model.SectionLanguages:
		return HasItems(doc.Languages)
	case model.SectionOtherWorks:
		return HasItems(doc.OtherWorks)
	case model.SectionAchievements:
		return HasItems(doc.Achievements)
	}
	return false
}
