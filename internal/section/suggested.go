package section

import (
	"slices"
	"strings"

	"cvcraft/internal/ident"
	"cvcraft/internal/model"
)

// Suggested adds skip items already present. Names, titles and descriptions
// are compared case-insensitively with surrounding space ignored.

func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// AddSuggestedSkill adds a skill at the default level unless one with the
// same name exists. The returned id is empty when nothing was added.
func AddSuggestedSkill(list []model.Skill, gen ident.Generator, name string) ([]model.Skill, string) {
	if slices.ContainsFunc(list, func(s model.Skill) bool { return sameKey(s.Name, name) }) {
		return list, ""
	}
	s := NewSkill(gen.NewID())
	s.Name = name
	return appendRecord(list, s), s.ID
}

func AddSuggestedLanguage(list []model.Language, gen ident.Generator, name string) ([]model.Language, string) {
	if slices.ContainsFunc(list, func(l model.Language) bool { return sameKey(l.Name, name) }) {
		return list, ""
	}
	l := NewLanguage(gen.NewID())
	l.Name = name
	return appendRecord(list, l), l.ID
}

// AddSuggestedAchievement copies a catalog achievement in under a fresh id
// unless one with the same title and description exists.
func AddSuggestedAchievement(list []model.Achievement, gen ident.Generator, item model.Achievement) ([]model.Achievement, string) {
	if slices.ContainsFunc(list, func(a model.Achievement) bool {
		return sameKey(a.Title, item.Title) && sameKey(a.Description, item.Description)
	}) {
		return list, ""
	}
	item.ID = gen.NewID()
	return appendRecord(list, item), item.ID
}
