package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		title   string
		idea    string
		wantErr error
	}{
		{"valid", 1, "  کافه کتاب  ", "کافه با کتابخانه", nil},
		{"empty name", 1, "   ", "", ErrEmptyName},
		{"long name", 1, strings.Repeat("ن", MaxNameLength+1), "", ErrNameTooLong},
		{"long idea", 1, "x", strings.Repeat("a", MaxIdeaLength+1), ErrIdeaTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProject(tt.userID, tt.title, tt.idea)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "کافه کتاب", p.Name())
		})
	}

	_, err := NewProject(0, "x", "")
	assert.Error(t, err)
}

func TestProject_SetID(t *testing.T) {
	p, err := NewProject(1, "x", "")
	require.NoError(t, err)

	require.NoError(t, p.SetID(9))
	assert.Equal(t, uint(9), p.ID())
	assert.Error(t, p.SetID(10))
}
