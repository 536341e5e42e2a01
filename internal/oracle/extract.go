package oracle

import (
	"regexp"
	"strings"
)

var (
	jsonFence  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	plainFence = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// ExtractJSONBlock returns the contents of the first ```json fence, falling back
// to the first unlabeled fence and then to the whole trimmed text.
func ExtractJSONBlock(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := plainFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// IsNullAnswer reports whether the model explicitly declined to answer.
func IsNullAnswer(content string) bool {
	switch strings.ToLower(strings.TrimSpace(content)) {
	case "", "null", "none":
		return true
	}
	return false
}
