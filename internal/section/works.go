package section

import (
	"cvcraft/internal/ident"
	"cvcraft/internal/model"
)

type OtherWorkField string

const (
	OtherWorkTitle        OtherWorkField = "title"
	OtherWorkOrganization OtherWorkField = "organization"
	OtherWorkDate         OtherWorkField = "date"
	OtherWorkDescription  OtherWorkField = "description"
)

func ParseOtherWorkField(s string) (OtherWorkField, error) {
	switch f := OtherWorkField(s); f {
	case OtherWorkTitle, OtherWorkOrganization, OtherWorkDate, OtherWorkDescription:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "other work", Field: s}
}

func NewOtherWork(id string) model.OtherWork {
	return model.OtherWork{ID: id}
}

func AddOtherWork(list []model.OtherWork, gen ident.Generator) ([]model.OtherWork, string) {
	w := NewOtherWork(gen.NewID())
	return appendRecord(list, w), w.ID
}

func UpdateOtherWork(list []model.OtherWork, id string, field OtherWorkField, value string) []model.OtherWork {
	return updateRecord(list, id, func(w *model.OtherWork) {
		switch field {
		case OtherWorkTitle:
			w.Title = value
		case OtherWorkOrganization:
			w.Organization = value
		case OtherWorkDate:
			w.Date = value
		case OtherWorkDescription:
			w.Description = value
		}
	})
}

func RemoveOtherWork(list []model.OtherWork, id string) []model.OtherWork {
	return removeRecord(list, id)
}

type AchievementField string

const (
	AchievementTitle       AchievementField = "title"
	AchievementDescription AchievementField = "description"
	AchievementDate        AchievementField = "date"
	AchievementCategory    AchievementField = "category"
)

func ParseAchievementField(s string) (AchievementField, error) {
	switch f := AchievementField(s); f {
	case AchievementTitle, AchievementDescription, AchievementDate, AchievementCategory:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "achievement", Field: s}
}

func NewAchievement(id string) model.Achievement {
	return model.Achievement{ID: id}
}

func AddAchievement(list []model.Achievement, gen ident.Generator) ([]model.Achievement, string) {
	a := NewAchievement(gen.NewID())
	return appendRecord(list, a), a.ID
}

func UpdateAchievement(list []model.Achievement, id string, field AchievementField, value string) []model.Achievement {
	return updateRecord(list, id, func(a *model.Achievement) {
		switch field {
		case AchievementTitle:
			a.Title = value
		case AchievementDescription:
			a.Description = value
		case AchievementDate:
			a.Date = value
		case AchievementCategory:
			a.Category = value
		}
	})
}

func RemoveAchievement(list []model.Achievement, id string) []model.Achievement {
	return removeRecord(list, id)
}
