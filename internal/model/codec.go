package model

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	apperrors "cvcraft/internal/errors"
)

// Decode reads a CV document as JSON, validating it against cv.schema.json.
// Missing or null lists decode as empty lists and a missing template as
// modern. Unknown template names are kept.
func Decode(r io.Reader) (CVDocument, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return CVDocument{}, apperrors.NewIOError(apperrors.CodeReadFailed, "failed to read document", err)
	}
	if err := ValidateJSON(b); err != nil {
		return CVDocument{}, apperrors.NewValidationError(apperrors.CodeInvalidDocument, "document does not match the CV schema", err)
	}
	doc := New()
	if err := json.Unmarshal(b, &doc); err != nil {
		return CVDocument{}, apperrors.NewValidationError(apperrors.CodeInvalidDocument, "document is not valid JSON", err)
	}
	if err := distinctIDs(doc); err != nil {
		return CVDocument{}, apperrors.NewValidationError(apperrors.CodeInvalidDocument, "document has conflicting record ids", err)
	}
	return normalize(doc), nil
}

func distinctIDs(doc CVDocument) error {
	for _, err := range []error{
		uniqueIDs(doc.Education),
		uniqueIDs(doc.Experience),
		uniqueIDs(doc.Skills),
		uniqueIDs(doc.Certifications),
		uniqueIDs(doc.Projects),
		uniqueIDs(doc.Languages),
		uniqueIDs(doc.References),
		uniqueIDs(doc.OtherWorks),
		uniqueIDs(doc.Achievements),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc CVDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(normalize(doc))
}

func LoadFile(path string) (CVDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return CVDocument{}, apperrors.NewIOError(apperrors.CodeOpenFailed, "failed to open document", err).WithContext("path", path)
	}
	defer f.Close()
	return Decode(f)
}

func SaveFile(path string, doc CVDocument) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewIOError(apperrors.CodeWriteFailed, "failed to write document", err).WithContext("path", path)
	}
	return nil
}

func normalize(doc CVDocument) CVDocument {
	if doc.Education == nil {
		doc.Education = []Education{}
	}
	if doc.Experience == nil {
		doc.Experience = []Experience{}
	}
	if doc.Skills == nil {
		doc.Skills = []Skill{}
	}
	if doc.Certifications == nil {
		doc.Certifications = []Certification{}
	}
	if doc.Projects == nil {
		doc.Projects = []Project{}
	}
	if doc.Languages == nil {
		doc.Languages = []Language{}
	}
	if doc.References == nil {
		doc.References = []Reference{}
	}
	if doc.OtherWorks == nil {
		doc.OtherWorks = []OtherWork{}
	}
	if doc.Achievements == nil {
		doc.Achievements = []Achievement{}
	}
	if doc.Template == "" {
		doc.Template = TemplateModern
	}
	doc.Experience = withBullets(doc.Experience)
	return doc
}
