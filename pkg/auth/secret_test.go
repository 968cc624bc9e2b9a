package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretVerifier(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		candidate  string
		expected   bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "wrong", false},
		{"empty candidate", "s3cret", "", false},
		{"unconfigured fails closed", "", "anything", false},
		{"unconfigured and empty candidate", "", "", false},
		{"prefix is not a match", "s3cret", "s3c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewSecretVerifier(tt.configured)
			assert.Equal(t, tt.expected, v.Verify(tt.candidate))
		})
	}
}
