package usecase

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	apperrors "cvcraft/internal/errors"
)

// MaxImageBytes is the largest profile image accepted (5 MiB).
const MaxImageBytes int64 = 5 * 1024 * 1024

// ImageUpload describes a user-selected profile picture. Size and
// ContentType are what the client declared; the body is checked again.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// EncodeImage checks an upload and returns it as a data URI.
func EncodeImage(up ImageUpload) (string, error) {
	mediaType, err := imageMediaType(up.ContentType)
	if err != nil {
		return "", err
	}
	if up.Size > MaxImageBytes {
		return "", tooLarge(up.Size)
	}
	if up.Body == nil {
		return "", apperrors.NewIOError(apperrors.CodeReadFailed, "image body is missing", nil)
	}
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxImageBytes+1))
	if err != nil {
		return "", apperrors.NewIOError(apperrors.CodeReadFailed, "could not read image", err).WithContext("filename", up.Filename)
	}
	if int64(len(data)) > MaxImageBytes {
		return "", tooLarge(int64(len(data)))
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func imageMediaType(contentType string) (string, error) {
	notImage := apperrors.NewValidationError(apperrors.CodeNotAnImage, "Please select an image file", nil).
		WithContext("contentType", contentType)
	if strings.TrimSpace(contentType) == "" {
		return "", notImage
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		notImage.Cause = err
		return "", notImage
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", notImage
	}
	return mediaType, nil
}

func tooLarge(n int64) *apperrors.AppError {
	return apperrors.NewValidationError(apperrors.CodeTooLarge, "Image must be smaller than 5MB",
		fmt.Errorf("%d bytes exceeds %d", n, MaxImageBytes)).WithContext("size", n)
}
