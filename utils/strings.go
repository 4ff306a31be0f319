package utils

import (
	"regexp"
	"strings"
)

// FormatNameForDisplay capitalizes the first letter of a name for display
func FormatNameForDisplay(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	return strings.ToUpper(string(name[0])) + name[1:]
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	// Replace invalid characters with underscore
	reg := regexp.MustCompile(`[<>:"/\\|?*]`)
	cleaned := reg.ReplaceAllString(filename, "_")

	// Remove extra spaces and trim
	cleaned = strings.TrimSpace(cleaned)
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, "_")

	return cleaned
}
