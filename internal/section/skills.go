package section

import (
	"cvcraft/internal/ident"
	"cvcraft/internal/model"
)

type SkillField string

const (
	SkillName  SkillField = "name"
	SkillLevel SkillField = "level"
)

func ParseSkillField(s string) (SkillField, error) {
	switch f := SkillField(s); f {
	case SkillName, SkillLevel:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "skill", Field: s}
}

func NewSkill(id string) model.Skill {
	return model.Skill{ID: id, Level: model.SkillIntermediate}
}

func AddSkill(list []model.Skill, gen ident.Generator) ([]model.Skill, string) {
	s := NewSkill(gen.NewID())
	return appendRecord(list, s), s.ID
}

func UpdateSkill(list []model.Skill, id string, field SkillField, value string) []model.Skill {
	return updateRecord(list, id, func(s *model.Skill) {
		switch field {
		case SkillName:
			s.Name = value
		case SkillLevel:
			// stored as given; unknown levels render like beginner
			s.Level = model.SkillLevel(value)
		}
	})
}

func RemoveSkill(list []model.Skill, id string) []model.Skill {
	return removeRecord(list, id)
}

type LanguageField string

const (
	LanguageName        LanguageField = "name"
	LanguageProficiency LanguageField = "proficiency"
)

func ParseLanguageField(s string) (LanguageField, error) {
	switch f := LanguageField(s); f {
	case LanguageName, LanguageProficiency:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "language", Field: s}
}

func NewLanguage(id string) model.Language {
	return model.Language{ID: id, Proficiency: model.ProficiencyConversational}
}

func AddLanguage(list []model.Language, gen ident.Generator) ([]model.Language, string) {
	l := NewLanguage(gen.NewID())
	return appendRecord(list, l), l.ID
}

func UpdateLanguage(list []model.Language, id string, field LanguageField, value string) []model.Language {
	return updateRecord(list, id, func(l *model.Language) {
		switch field {
		case LanguageName:
			l.Name = value
		case LanguageProficiency:
			// stored as given, like an unknown template
			l.Proficiency = model.Proficiency(value)
		}
	})
}

func RemoveLanguage(list []model.Language, id string) []model.Language {
	return removeRecord(list, id)
}
