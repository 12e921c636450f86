// Package redact masks secret-looking values before they reach reports or logs.
package redact

import (
	"regexp"
	"slices"
	"strings"
)

// SecretKeyPatterns are upper-case fragments of key names whose values are
// treated as secrets.
var SecretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"PASSWD",
	"API_KEY",
	"APIKEY",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes identify well-known credential formats by their first
// characters.
var TokenPrefixes = []string{
	"ghp_", "gho_", "ghu_", "ghs_", "ghr_", // GitHub
	"glpat-",                  // GitLab
	"sk-",                     // OpenAI and Anthropic
	"AKIA",                    // AWS access key ID
	"xoxb-", "xoxp-", "xoxa-", // Slack
}

// assignmentValue matches the value side of key=value and key: value pairs.
var assignmentValue = regexp.MustCompile(`([=:]\s*["']?)([^"'\s,;]+)`)

// MaskValue hides value, leaving its last four characters visible when it
// is long enough for that to be safe.
func MaskValue(value string) string {
	const visible = 4
	runes := []rune(value)
	if len(runes) <= visible {
		return "********"
	}
	return "****" + string(runes[len(runes)-visible:])
}

// ShouldMask reports whether key, compared case-insensitively, names a
// secret.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	return slices.ContainsFunc(SecretKeyPatterns, func(p string) bool {
		return strings.Contains(upper, p)
	})
}

// ContainsTokenPrefix reports whether value looks like a known credential.
func ContainsTokenPrefix(value string) bool {
	return slices.ContainsFunc(TokenPrefixes, func(p string) bool {
		return strings.HasPrefix(value, p)
	})
}

// Line masks every assignment value and token-prefixed word in a line of
// source text so findings can quote the line without leaking the secret.
func Line(line string) string {
	masked := assignmentValue.ReplaceAllStringFunc(line, func(m string) string {
		sub := assignmentValue.FindStringSubmatch(m)
		return sub[1] + MaskValue(sub[2])
	})

	fields := strings.Fields(masked)
	for _, f := range fields {
		word := strings.Trim(f, `"'`)
		if ContainsTokenPrefix(word) {
			masked = strings.ReplaceAll(masked, word, MaskValue(word))
		}
	}
	return masked
}
