package errors

import (
	"regexp"
	"strings"
)

// sessionIDRegex matches the canonical textual form of a UUID.
var sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSessionID validates a document session identifier.
// Session ids double as file names in the file store, so anything that is not
// a lowercase UUID is rejected.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", format, strings.Join(allowed, ", "))
}
