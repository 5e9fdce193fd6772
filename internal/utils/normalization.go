package utils

import "strings"

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// NormalizeTestID trims a test code. Codes stay case sensitive.
func NormalizeTestID(id string) string {
	return strings.TrimSpace(id)
}
