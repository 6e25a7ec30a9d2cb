package config

import (
	"strings"
)

// GenerateConfigContent returns the defaults file with every value
// commented out, ready to be saved as a project or user file.
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues comments out every assignment line, leaving
// comments, blank lines and section headers alone.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
