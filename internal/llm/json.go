package llm

import (
	"strings"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// ExtractJSON pulls the first well-formed JSON object out of a model
// response. Models wrap JSON in fenced code blocks or surround it with
// explanatory prose, so the raw text is first stripped of fences and then
// scanned for the first balanced brace-delimited substring.
func ExtractJSON(raw string) (string, error) {
	s := stripCodeFences(raw)

	if obj := firstJSONObject(s); obj != "" {
		return obj, nil
	}
	return "", domain.TranslationError("no JSON object found in model response", nil)
}

// stripCodeFences removes a surrounding ```json / ``` fence, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}

// firstJSONObject scans for the first balanced {...} substring, ignoring
// braces inside JSON string literals.
func firstJSONObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			if start != -1 {
				inString = !inString
			}
		case '{':
			if inString {
				continue
			}
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if inString || start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
