package llm

import (
	"fmt"
	"strings"
)

// CleanText strips markdown code fences and surrounding quotes or
// whitespace from model output. Empty output is ErrInvalidOutput.
func CleanText(raw string) (string, error) {
	s := strings.TrimSpace(stripCodeFences(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}
	return s, nil
}

// stripCodeFences removes markdown fence lines (```text ... ``` or ``` ... ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
