package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresent(t *testing.T) {
	tests := []struct {
		count  int
		label  string
		hidden bool
	}{
		{count: -3, label: "0", hidden: true},
		{count: 0, label: "0", hidden: true},
		{count: 1, label: "1"},
		{count: 42, label: "42"},
		{count: 99, label: "99"},
		{count: 100, label: "99+"},
		{count: 150, label: "99+"},
	}

	for _, tt := range tests {
		s := Present(tt.count)
		assert.Equal(t, tt.label, s.Label, "count %d", tt.count)
		assert.Equal(t, tt.hidden, s.Hidden, "count %d", tt.count)
		assert.Equal(t, !tt.hidden, s.Marker, "count %d", tt.count)
	}
}

func TestViewHidesZero(t *testing.T) {
	assert.NotContains(t, View(Present(0), true), "0")
	assert.Contains(t, View(Present(5), true), "5")
	assert.Contains(t, View(Present(150), true), "99+")
}

func TestViewWithoutBadgeBinding(t *testing.T) {
	out := View(Present(5), false)
	assert.Contains(t, out, Bell)
	assert.NotContains(t, out, "5")
}
