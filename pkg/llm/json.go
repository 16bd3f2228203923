package llm

import (
	"regexp"
	"strings"
)

// citationPattern matches bracketed reference numbers like [1] that
// web-search-augmented generation injects into responses.
var citationPattern = regexp.MustCompile(`\[\d+\]`)

// inlineLinkPattern matches markdown inline links [label](url).
var inlineLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// fencedBlockPattern matches a fenced code block labeled as JSON (or
// unlabeled) and captures its interior.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// StripSearchArtifacts removes citation markers and replaces markdown
// inline links with their visible label text.
func StripSearchArtifacts(text string) string {
	cleaned := inlineLinkPattern.ReplaceAllString(text, "$1")
	cleaned = citationPattern.ReplaceAllString(cleaned, "")
	return cleaned
}

// ExtractCandidateJSON returns the best-effort JSON substring of a raw
// generative response: the interior of a fenced code block if present,
// otherwise the span from the first '{' to the last '}' inclusive,
// otherwise the cleaned text itself. The result is not guaranteed to be
// valid JSON; callers parse it and fall back to repair on failure.
func ExtractCandidateJSON(raw string) string {
	cleaned := StripSearchArtifacts(raw)

	if m := fencedBlockPattern.FindStringSubmatch(cleaned); len(m) >= 2 && m[1] != "" {
		return strings.TrimSpace(m[1])
	}

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start != -1 && end > start {
		return strings.TrimSpace(cleaned[start : end+1])
	}

	return strings.TrimSpace(cleaned)
}
