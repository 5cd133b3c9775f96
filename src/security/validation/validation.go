package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrValidationFailed wraps all upload validation failures so handlers can
// map them to a 400 without inspecting each cause.
var ErrValidationFailed = errors.New("validation failed")

// AllowedClientContentTypes is a map for quick lookup of allowed
// client-declared MIME types for CSV imports.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // often used for CSV by older Excel
	"text/plain":               true,
	"application/octet-stream": true,
}

// ValidateClientContentType checks the Content-Type header provided by the
// client against the CSV allow list.
func ValidateClientContentType(contentType string) error {
	base := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed := AllowedClientContentTypes[base]; !allowed {
		return fmt.Errorf("%w: file type '%s' is not allowed for CSV import", ErrValidationFailed, contentType)
	}
	return nil
}

// StripUnprintable removes non-printable characters from free text, keeping
// common whitespace. Applied to imported notes before storage.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
