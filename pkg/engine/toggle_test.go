package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_Resolve(t *testing.T) {
	assert.True(t, ToggleOn.Resolve(false))
	assert.False(t, ToggleOff.Resolve(true))
	assert.True(t, ToggleAuto.Resolve(true))
	assert.False(t, ToggleAuto.Resolve(false))

	// zero value behaves like auto
	var zero Toggle
	assert.True(t, zero.Resolve(true))
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    Toggle
		wantErr bool
	}{
		{"true", ToggleOn, false},
		{"TRUE", ToggleOn, false},
		{"on", ToggleOn, false},
		{"false", ToggleOff, false},
		{"off", ToggleOff, false},
		{"auto", ToggleAuto, false},
		{"", ToggleAuto, false},
		{"maybe", ToggleAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseToggle(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleFromBool(t *testing.T) {
	assert.Equal(t, ToggleOn, ToggleFromBool(true))
	assert.Equal(t, ToggleOff, ToggleFromBool(false))
}
