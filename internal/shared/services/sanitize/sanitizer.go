// Package sanitize cleans free text (attendance comments, session notes)
// before it is stored.
package sanitize

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/davomat-inc/davomat/internal/shared/errors"
)

type TextSanitizer interface {
	// Clean strips markup from s and trims it. A nil or blank s yields nil.
	// Text longer than maxLen characters is a validation error.
	Clean(field string, s *string, maxLen int) (*string, error)
}

type textSanitizerImpl struct {
	policy *bluemonday.Policy
}

func NewTextSanitizer() TextSanitizer {
	return &textSanitizerImpl{policy: bluemonday.StrictPolicy()}
}

func (s *textSanitizerImpl) Clean(field string, in *string, maxLen int) (*string, error) {
	if in == nil {
		return nil, nil
	}
	// the strict policy escapes the text it keeps; stored text is plain
	out := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(strings.TrimSpace(*in))))
	if out == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(out) > maxLen {
		return nil, errors.NewValidationError(fmt.Sprintf("%s must be at most %d characters long", field, maxLen))
	}
	return &out, nil
}
