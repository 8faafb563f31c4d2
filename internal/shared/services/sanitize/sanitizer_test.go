package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/shared/errors"
)

func strPtr(s string) *string { return &s }

func TestClean(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "blank", in: strPtr("   "), want: nil},
		{name: "trimmed", in: strPtr("  came late  "), want: strPtr("came late")},
		{name: "markup stripped", in: strPtr("<b>sick</b> <script>alert(1)</script>"), want: strPtr("sick")},
		{name: "punctuation kept", in: strPtr("didn't bring homework & book"), want: strPtr("didn't bring homework & book")},
		{name: "only markup", in: strPtr("<img src=x onerror=alert(1)>"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Clean("comment", tt.in, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClean_RejectsLongText(t *testing.T) {
	s := NewTextSanitizer()

	ok, err := s.Clean("note", strPtr(strings.Repeat("ж", 200)), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, len([]rune(*ok)))

	_, err = s.Clean("note", strPtr(strings.Repeat("a", 201)), 200)
	assert.True(t, errors.IsValidationError(err))
}
