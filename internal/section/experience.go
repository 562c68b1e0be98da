package section

import (
	"slices"

	"cvcraft/internal/ident"
	"cvcraft/internal/model"
)

// ExperienceField covers the text fields of an experience. Current and the
// bullet list have their own setters.
type ExperienceField string

const (
	ExperienceCompany   ExperienceField = "company"
	ExperiencePosition  ExperienceField = "position"
	ExperienceLocation  ExperienceField = "location"
	ExperienceStartDate ExperienceField = "startDate"
	ExperienceEndDate   ExperienceField = "endDate"
)

func ParseExperienceField(s string) (ExperienceField, error) {
	switch f := ExperienceField(s); f {
	case ExperienceCompany, ExperiencePosition, ExperienceLocation, ExperienceStartDate, ExperienceEndDate:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "experience", Field: s}
}

// NewExperience returns an empty experience with one blank bullet.
func NewExperience(id string) model.Experience {
	return model.Experience{ID: id, Description: []string{""}}
}

func AddExperience(list []model.Experience, gen ident.Generator) ([]model.Experience, string) {
	e := NewExperience(gen.NewID())
	return appendRecord(list, e), e.ID
}

// UpdateExperience sets one text field. The end date is read-only while the
// position is current, so such updates are ignored.
func UpdateExperience(list []model.Experience, id string, field ExperienceField, value string) []model.Experience {
	if field == ExperienceEndDate {
		if i := indexOf(list, id); i >= 0 && list[i].Current {
			return list
		}
	}
	return updateRecord(list, id, func(e *model.Experience) {
		switch field {
		case ExperienceCompany:
			e.Company = value
		case ExperiencePosition:
			e.Position = value
		case ExperienceLocation:
			e.Location = value
		case ExperienceStartDate:
			e.StartDate = value
		case ExperienceEndDate:
			e.EndDate = value
		}
	})
}

// SetExperienceCurrent toggles the current flag. A stored end date is kept;
// renderers ignore it while current is set.
func SetExperienceCurrent(list []model.Experience, id string, current bool) []model.Experience {
	return updateRecord(list, id, func(e *model.Experience) {
		e.Current = current
	})
}

// EndDateEditable reports whether the end date input should accept edits.
func EndDateEditable(e model.Experience) bool {
	return !e.Current
}

func RemoveExperience(list []model.Experience, id string) []model.Experience {
	return removeRecord(list, id)
}

// AddBullet appends a blank bullet to the experience's description.
func AddBullet(list []model.Experience, id string) []model.Experience {
	return updateRecord(list, id, func(e *model.Experience) {
		e.Description = appendRecord(e.Description, "")
	})
}

func UpdateBullet(list []model.Experience, id string, index int, text string) []model.Experience {
	i := indexOf(list, id)
	if i < 0 || index < 0 || index >= len(list[i].Description) {
		return list
	}
	return updateRecord(list, id, func(e *model.Experience) {
		d := slices.Clone(e.Description)
		d[index] = text
		e.Description = d
	})
}

// RemoveBullet drops one bullet. The last remaining bullet is never removed.
func RemoveBullet(list []model.Experience, id string, index int) []model.Experience {
	i := indexOf(list, id)
	if i < 0 || len(list[i].Description) <= 1 || index < 0 || index >= len(list[i].Description) {
		return list
	}
	return updateRecord(list, id, func(e *model.Experience) {
		e.Description = slices.Delete(slices.Clone(e.Description), index, index+1)
	})
}
