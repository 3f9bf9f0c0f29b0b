package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The model occasionally slips into other scripts despite the
// Japanese-only instruction. Bengali, Cyrillic, Arabic, Thai,
// Devanagari and Hangul have all been observed; drop them outright.
var foreignScriptRe = regexp.MustCompile(`[\x{0980}-\x{09FF}\x{0400}-\x{04FF}\x{0600}-\x{06FF}\x{0E00}-\x{0E7F}\x{0900}-\x{097F}\x{1100}-\x{11FF}\x{AC00}-\x{D7AF}]`)

var blankRunsRe = regexp.MustCompile(`\n{3,}`)

// SanitizeReply strips foreign scripts and collapses blank-line runs.
func SanitizeReply(reply string) string {
	reply = foreignScriptRe.ReplaceAllString(reply, "")
	reply = blankRunsRe.ReplaceAllString(reply, "\n\n")
	return strings.TrimSpace(reply)
}

var (
	jsonArrayRe     = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe    = regexp.MustCompile(`(?s)\{.*\}`)
	ctrlCharRe      = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	badEscapeRe     = regexp.MustCompile(`([^\\])\\([^"\\/bfnrtu])`)
)

// decodeJSONArray finds the array in free-form model output and decodes
// it, scrubbing control characters, trailing commas and stray escapes
// before a second attempt.
func decodeJSONArray(text string, v interface{}) error {
	raw := strings.TrimSpace(text)
	if m := jsonArrayRe.FindString(raw); m != "" {
		raw = m
	}
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	cleaned := ctrlCharRe.ReplaceAllString(raw, " ")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	cleaned = badEscapeRe.ReplaceAllString(cleaned, "$1$2")
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return nil
}

// decodeJSONObject is decodeJSONArray for a single object.
func decodeJSONObject(text string, v interface{}) error {
	raw := strings.TrimSpace(text)
	if m := jsonObjectRe.FindString(raw); m != "" {
		raw = m
	}
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	cleaned := ctrlCharRe.ReplaceAllString(raw, " ")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	cleaned = badEscapeRe.ReplaceAllString(cleaned, "$1$2")
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return nil
}
