package submission

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/wastewise/wastewise/internal/client/reports"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// RejectReason tells why an image was refused.
type RejectReason int

const (
	RejectOther RejectReason = iota
	RejectTooLarge
	RejectInvalidType
)

func (r RejectReason) String() string {
	switch r {
	case RejectTooLarge:
		return "too_large"
	case RejectInvalidType:
		return "invalid_type"
	}
	return "other"
}

// RejectError carries a user-facing message per reason.
type RejectError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectError) Error() string {
	switch e.Reason {
	case RejectTooLarge:
		return "Image must be smaller than 10MB"
	case RejectInvalidType:
		return "Only image files are allowed"
	}
	return "Invalid file"
}

// inspectImage sniffs data and enforces the size ceiling.
func inspectImage(name string, data []byte) (reports.Image, error) {
	if len(data) == 0 {
		return reports.Image{}, &RejectError{Reason: RejectOther, Detail: "empty file"}
	}
	if len(data) > domain.MaxImageBytes {
		return reports.Image{}, &RejectError{
			Reason: RejectTooLarge,
			Detail: fmt.Sprintf("%d bytes", len(data)),
		}
	}

	mt := mimetype.Detect(data)
	if !domain.IsAcceptedImageType(mt.String()) {
		return reports.Image{}, &RejectError{Reason: RejectInvalidType, Detail: mt.String()}
	}

	if strings.TrimSpace(name) == "" {
		name = "image" + mt.Extension()
	}
	return reports.Image{Name: name, MIME: mt.String(), Data: data}, nil
}
