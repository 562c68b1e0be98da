package section

import (
	"cvcraft/internal/ident"
	"cvcraft/internal/model"
)

type EducationField string

const (
	EducationInstitution  EducationField = "institution"
	EducationDegree       EducationField = "degree"
	EducationFieldOfStudy EducationField = "field"
	EducationStartDate    EducationField = "startDate"
	EducationEndDate      EducationField = "endDate"
	EducationGPA          EducationField = "gpa"
	EducationDescription  EducationField = "description"
)

func ParseEducationField(s string) (EducationField, error) {
	switch f := EducationField(s); f {
	case EducationInstitution, EducationDegree, EducationFieldOfStudy, EducationStartDate,
		EducationEndDate, EducationGPA, EducationDescription:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "education", Field: s}
}

func NewEducation(id string) model.Education {
	return model.Education{ID: id}
}

func AddEducation(list []model.Education, gen ident.Generator) ([]model.Education, string) {
	e := NewEducation(gen.NewID())
	return appendRecord(list, e), e.ID
}

func UpdateEducation(list []model.Education, id string, field EducationField, value string) []model.Education {
	return updateRecord(list, id, func(e *model.Education) {
		switch field {
		case EducationInstitution:
			e.Institution = value
		case EducationDegree:
			e.Degree = value
		case EducationFieldOfStudy:
			e.Field = value
		case EducationStartDate:
			e.StartDate = value
		case EducationEndDate:
			e.EndDate = value
		case EducationGPA:
			e.GPA = value
		case EducationDescription:
			e.Description = value
		}
	})
}

func RemoveEducation(list []model.Education, id string) []model.Education {
	return removeRecord(list, id)
}
