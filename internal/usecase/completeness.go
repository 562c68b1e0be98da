package usecase

import (
	"errors"
	"reflect"
	"strings"

	"cvcraft/internal/model"

	"github.com/go-playground/validator/v10"
)

// CompletenessReport lists the fields a finished CV would normally have.
// It is advisory; nothing blocks on it.
type CompletenessReport struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

type completenessView struct {
	FirstName  string             `json:"personalInfo.firstName" validate:"required"`
	LastName   string             `json:"personalInfo.lastName" validate:"required"`
	Email      string             `json:"personalInfo.email" validate:"required,email"`
	Education  []model.Education  `json:"education" validate:"min=1"`
	Experience []model.Experience `json:"experience" validate:"min=1"`
	Skills     []model.Skill      `json:"skills" validate:"min=1"`
}

var completenessValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Completeness reports which conventionally required parts of doc are empty
// or malformed.
func Completeness(doc model.CVDocument) CompletenessReport {
	view := completenessView{
		FirstName:  strings.TrimSpace(doc.PersonalInfo.FirstName),
		LastName:   strings.TrimSpace(doc.PersonalInfo.LastName),
		Email:      strings.TrimSpace(doc.PersonalInfo.Email),
		Education:  doc.Education,
		Experience: doc.Experience,
		Skills:     doc.Skills,
	}
	report := CompletenessReport{Complete: true, Missing: []string{}}
	err := completenessValidator.Struct(view)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		report.Complete = false
		for _, fe := range verrs {
			report.Missing = append(report.Missing, fe.Field())
		}
	}
	return report
}
