package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleMismatch       = errors.New("this account is not registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")

	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidReportID = errors.New("invalid report id")
	ErrInvalidStatus   = errors.New("invalid report status")
	ErrInvalidImage    = errors.New("uploaded file must be an image")
	ErrImageTooLarge   = errors.New("image is too large")
	ErrForbidden       = errors.New("access forbidden")
	ErrAdminRequired   = errors.New("admin access required")
)

// MaxImageBytes is the upload ceiling shared by the server and the client.
const MaxImageBytes = 10 * 1024 * 1024

// IsAcceptedImageType reports whether a sniffed MIME type may be stored.
// SVG is refused because it can carry script.
func IsAcceptedImageType(mime string) bool {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.HasPrefix(mime, "image/") && mime != "image/svg+xml"
}

// MinDescriptionLength is the shortest accepted report description.
const MinDescriptionLength = 10
