package model

import (
	"fmt"
)

// SectionKey names one independently replaceable part of a CVDocument.
type SectionKey string

const (
	SectionPersonalInfo   SectionKey = "personalInfo"
	SectionSummary        SectionKey = "summary"
	SectionEducation      SectionKey = "education"
	SectionExperience     SectionKey = "experience"
	SectionSkills         SectionKey = "skills"
	SectionCertifications SectionKey = "certifications"
	SectionProjects       SectionKey = "projects"
	SectionLanguages      SectionKey = "languages"
	SectionReferences     SectionKey = "references"
	SectionOtherWorks     SectionKey = "otherWorks"
	SectionAchievements   SectionKey = "achievements"
	SectionTemplate       SectionKey = "template"
)

var SectionKeys = []SectionKey{
	SectionPersonalInfo, SectionSummary, SectionEducation, SectionExperience,
	SectionSkills, SectionCertifications, SectionProjects, SectionLanguages,
	SectionReferences, SectionOtherWorks, SectionAchievements, SectionTemplate,
}

func ParseSectionKey(s string) (SectionKey, bool) {
	for _, k := range SectionKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ReplaceSection returns a copy of doc with the section named by key set to
// value. The value must have the section's Go type (for example
// []Education for SectionEducation); otherwise doc is returned unchanged
// along with an error. Field contents are not validated.
func ReplaceSection(doc CVDocument, key SectionKey, value any) (CVDocument, error) {
	out := doc
	ok := true
	switch key {
	case SectionPersonalInfo:
		var v PersonalInfo
		if v, ok = value.(PersonalInfo); ok {
			out.PersonalInfo = v
		}
	case SectionSummary:
		var v string
		if v, ok = value.(string); ok {
			out.Summary = v
		}
	case SectionEducation:
		var v []Education
		if v, ok = value.([]Education); ok {
			out.Education = v
		}
	case SectionExperience:
		var v []Experience
		if v, ok = value.([]Experience); ok {
			out.Experience = v
		}
	case SectionSkills:
		var v []Skill
		if v, ok = value.([]Skill); ok {
			out.Skills = v
		}
	case SectionCertifications:
		var v []Certification
		if v, ok = value.([]Certification); ok {
			out.Certifications = v
		}
	case SectionProjects:
		var v []Project
		if v, ok = value.([]Project); ok {
			out.Projects = v
		}
	case SectionLanguages:
		var v []Language
		if v, ok = value.([]Language); ok {
			out.Languages = v
		}
	case SectionReferences:
		var v []Reference
		if v, ok = value.([]Reference); ok {
			out.References = v
		}
	case SectionOtherWorks:
		var v []OtherWork
		if v, ok = value.([]OtherWork); ok {
			out.OtherWorks = v
		}
	case SectionAchievements:
		var v []Achievement
		if v, ok = value.([]Achievement); ok {
			out.Achievements = v
		}
	case SectionTemplate:
		var v Template
		if v, ok = value.(Template); ok {
			out.Template = v
		}
	default:
		return doc, fmt.Errorf("unknown section %q", key)
	}
	if !ok {
		return doc, fmt.Errorf("section %q cannot hold a value of type %T", key, value)
	}
	return out, nil
}

// CheckSection prepares a whole-section value coming from an editor before
// it is passed to ReplaceSection. List records must have distinct, non-empty
// ids, and experience records without bullets get one empty bullet. Values
// of any other shape are returned as given.
func CheckSection(value any) (any, error) {
	switch v := value.(type) {
	case []Education:
		return v, uniqueIDs(v)
	case []Experience:
		return withBullets(v), uniqueIDs(v)
	case []Skill:
		return v, uniqueIDs(v)
	case []Certification:
		return v, uniqueIDs(v)
	case []Project:
		return v, uniqueIDs(v)
	case []Language:
		return v, uniqueIDs(v)
	case []Reference:
		return v, uniqueIDs(v)
	case []OtherWork:
		return v, uniqueIDs(v)
	case []Achievement:
		return v, uniqueIDs(v)
	}
	return value, nil
}

type record interface{ RecordID() string }

func uniqueIDs[T record](list []T) error {
	seen := make(map[string]struct{}, len(list))
	for i, r := range list {
		id := r.RecordID()
		if id == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// withBullets gives every experience at least one bullet, copying list only
// when something has to change.
func withBullets(list []Experience) []Experience {
	for _, exp := range list {
		if len(exp.Description) > 0 {
			continue
		}
		fixed := make([]Experience, len(list))
		copy(fixed, list)
		for j := range fixed {
			if len(fixed[j].Description) == 0 {
				fixed[j].Description = []string{""}
			}
		}
		return fixed
	}
	return list
}

func (d CVDocument) WithPersonalInfo(p PersonalInfo) CVDocument { d.PersonalInfo = p; return d }
func (d CVDocument) WithSummary(s string) CVDocument            { d.Summary = s; return d }
func (d CVDocument) WithTemplate(t Template) CVDocument         { d.Template = t; return d }
func (d CVDocument) WithEducation(v []Education) CVDocument     { d.Education = v; return d }
func (d CVDocument) WithExperience(v []Experience) CVDocument   { d.Experience = v; return d }
func (d CVDocument) WithSkills(v []Skill) CVDocument            { d.Skills = v; return d }
func (d CVDocument) WithLanguages(v []Language) CVDocument      { d.Languages = v; return d }
func (d CVDocument) WithOtherWorks(v []OtherWork) CVDocument    { d.OtherWorks = v; return d }
func (d CVDocument) WithAchievements(v []Achievement) CVDocument {
	d.Achievements = v
	return d
}
