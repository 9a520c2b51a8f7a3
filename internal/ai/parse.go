package ai

import (
	"regexp"
	"strings"
)

var fenceRE = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// StripCodeFence replaces the first fenced block in text with its contents
// and trims the result. Text without a fence is only trimmed.
func StripCodeFence(text string) string {
	loc := fenceRE.FindStringSubmatchIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:loc[0]] + text[loc[2]:loc[3]] + text[loc[1]:])
}
