package translate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// minFieldLength is the minimum length a translation or summary field must
// reach to be considered a genuine response.
const minFieldLength = 10

// failureMarkers are substrings whose presence marks a refusal or degraded
// output rather than a real translation. Matched against lowercased text.
var failureMarkers = []string{
	"unable to",
	"cannot",
	"i'm sorry",
	"as an ai",
	"error",
	"failed",
	"לא ניתן לתרגם",
	"אין באפשרותי",
	"איני יכול",
	"מצטער, אך",
}

// validateField checks one response field: it must be non-empty, at least
// minFieldLength characters, and free of failure markers.
func validateField(name, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return domain.TranslationError(fmt.Sprintf("%s field is empty", name), nil)
	}
	if utf8.RuneCountInString(trimmed) < minFieldLength {
		return domain.TranslationError(fmt.Sprintf("%s field is too short (%d characters)", name, utf8.RuneCountInString(trimmed)), nil)
	}

	lowered := strings.ToLower(trimmed)
	for _, marker := range failureMarkers {
		if strings.Contains(lowered, marker) {
			return domain.TranslationError(fmt.Sprintf("%s field contains failure marker %q", name, marker), nil)
		}
	}
	return nil
}

// validatePayload applies field validation to the translation and summary
// independently. Any invalid field fails the whole attempt. Title fields are
// not validated: they are legitimately empty or short.
func validatePayload(p *pagePayload) error {
	if err := validateField("translation", p.Translation); err != nil {
		return err
	}
	if err := validateField("summary", p.Summary); err != nil {
		return err
	}
	return nil
}
