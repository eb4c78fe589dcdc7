package service

import "strings"

// Slugify lowercases the title and collapses every run of characters
// outside [a-z0-9] into a single hyphen, trimming leading and trailing
// hyphens. Uniqueness is the caller's concern.
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingHyphen := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// ReadTime estimates reading minutes for the given content at 200 words
// per minute, rounded up. Empty content reads in zero minutes.
func ReadTime(content string) int {
	words := strings.Fields(content)
	if len(words) == 0 {
		return 0
	}

	minutes := len(words) / 200
	if len(words)%200 != 0 {
		minutes++
	}
	return minutes
}
