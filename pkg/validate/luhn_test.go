package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLuhn(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{
			name:     "Valid Number",
			number:   "2377225624",
			expected: true,
		},
		{
			name:     "Valid Card Number",
			number:   "4561261212345467",
			expected: true,
		},
		{
			name:     "Invalid Checksum",
			number:   "12345",
			expected: false,
		},
		{
			name:     "Non-Numeric",
			number:   "abc123",
			expected: false,
		},
		{
			name:     "Empty String",
			number:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLuhn(tt.number))
		})
	}
}
