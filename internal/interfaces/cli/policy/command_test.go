package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	rule, err := ParseRule(" manager ", "Enrollment", "DELETE")
	require.NoError(t, err)
	assert.Equal(t, Rule{Role: "MANAGER", Resource: "enrollment", Action: "delete"}, rule)

	tests := []struct {
		name                   string
		role, resource, action string
	}{
		{"unknown role", "ROOT", "attendance", "read"},
		{"unknown resource", "ADMIN", "payments", "read"},
		{"unknown action", "ADMIN", "attendance", "approve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.role, tt.resource, tt.action)
			assert.Error(t, err)
		})
	}
}
