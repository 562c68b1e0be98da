package model

// Go models for the CV document. JSON keys follow cv.schema.json.

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

// SkillLevels lists the levels in ascending order.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

type Proficiency string

const (
	ProficiencyBasic          Proficiency = "Basic"
	ProficiencyConversational Proficiency = "Conversational"
	ProficiencyFluent         Proficiency = "Fluent"
	ProficiencyNative         Proficiency = "Native"
)

var Proficiencies = []Proficiency{ProficiencyBasic, ProficiencyConversational, ProficiencyFluent, ProficiencyNative}

func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBasic, ProficiencyConversational, ProficiencyFluent, ProficiencyNative:
		return true
	}
	return false
}

// Template names the visual layout used to render a document. Values outside
// the four known names are representable; rendering treats them as Modern.
type Template string

const (
	TemplateModern    Template = "modern"
	TemplateClassic   Template = "classic"
	TemplateCreative  Template = "creative"
	TemplateExecutive Template = "executive"
)

var Templates = []Template{TemplateModern, TemplateClassic, TemplateCreative, TemplateExecutive}

func (t Template) Known() bool {
	switch t {
	case TemplateModern, TemplateClassic, TemplateCreative, TemplateExecutive:
		return true
	}
	return false
}

type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Website   string `json:"website"`
	// ProfileImage is a data URI, nil when no image is set.
	ProfileImage *string `json:"profileImage"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Current   bool   `json:"current"`
	// Description holds the bullet points, at least one.
	Description []string `json:"description"`
}

type Skill struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

type Language struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
}

type OtherWork struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
	Description  string `json:"description"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category,omitempty"`
}

// Certifications, projects and references are carried through load/save
// untouched; nothing edits or renders them yet.

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	GitHub       string   `json:"github,omitempty"`
}

type Reference struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// CVDocument is the whole résumé. It is treated as an immutable value: every
// edit produces a new document and slices are never modified in place, so a
// shallow copy is safe to hand to renderers.
type CVDocument struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []Skill         `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Languages      []Language      `json:"languages"`
	References     []Reference     `json:"references"`
	OtherWorks     []OtherWork     `json:"otherWorks"`
	Achievements   []Achievement   `json:"achievements"`
	Template       Template        `json:"template"`
}

// New returns the document a session starts with.
func New() CVDocument {
	return CVDocument{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []Skill{},
		Certifications: []Certification{},
		Projects:       []Project{},
		Languages:      []Language{},
		References:     []Reference{},
		OtherWorks:     []OtherWork{},
		Achievements:   []Achievement{},
		Template:       TemplateModern,
	}
}

func (e Education) RecordID() string     { return e.ID }
func (e Experience) RecordID() string    { return e.ID }
func (s Skill) RecordID() string         { return s.ID }
func (l Language) RecordID() string      { return l.ID }
func (o OtherWork) RecordID() string     { return o.ID }
func (a Achievement) RecordID() string   { return a.ID }
func (c Certification) RecordID() string { return c.ID }
func (p Project) RecordID() string       { return p.ID }
func (r Reference) RecordID() string     { return r.ID }
