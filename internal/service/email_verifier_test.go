package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMXVerifier(t *testing.T) {
	tests := []struct {
		name      string
		sender    string
		expectErr bool
	}{
		{name: "bare address", sender: "no-reply@quizhub.local"},
		{name: "display name form", sender: "Quizhub <no-reply@quizhub.local>"},
		{name: "not an address", sender: "Quizhub", expectErr: true},
		{name: "empty", sender: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, err := NewMXVerifier(tt.sender)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, verifier)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, verifier)
		})
	}
}
