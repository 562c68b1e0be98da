package section

import "cvcraft/internal/model"

// PersonalField is a text field of PersonalInfo. The profile image is set
// through the upload path instead.
type PersonalField string

const (
	PersonalFirstName PersonalField = "firstName"
	PersonalLastName  PersonalField = "lastName"
	PersonalEmail     PersonalField = "email"
	PersonalPhone     PersonalField = "phone"
	PersonalLocation  PersonalField = "location"
	PersonalLinkedIn  PersonalField = "linkedin"
	PersonalWebsite   PersonalField = "website"
)

func ParsePersonalField(s string) (PersonalField, error) {
	switch f := PersonalField(s); f {
	case PersonalFirstName, PersonalLastName, PersonalEmail, PersonalPhone,
		PersonalLocation, PersonalLinkedIn, PersonalWebsite:
		return f, nil
	}
	return "", &UnknownFieldError{Entity: "personal info", Field: s}
}

func UpdatePersonalInfo(info model.PersonalInfo, field PersonalField, value string) model.PersonalInfo {
	switch field {
	case PersonalFirstName:
		info.FirstName = value
	case PersonalLastName:
		info.LastName = value
	case PersonalEmail:
		info.Email = value
	case PersonalPhone:
		info.Phone = value
	case PersonalLocation:
		info.Location = value
	case PersonalLinkedIn:
		info.LinkedIn = value
	case PersonalWebsite:
		info.Website = value
	}
	return info
}

// SetProfileImage returns info with the image replaced; nil clears it.
func SetProfileImage(info model.PersonalInfo, uri *string) model.PersonalInfo {
	if uri != nil {
		v := *uri
		uri = &v
	}
	info.ProfileImage = uri
	return info
}
