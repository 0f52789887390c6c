package utils

import "strings"

// TrimPtr trims whitespace from the string s points to.
// A nil pointer stays nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
