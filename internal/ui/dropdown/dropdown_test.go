package dropdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsClosed(t *testing.T) {
	var m Machine
	assert.Equal(t, Closed, m.State())
	assert.False(t, m.IsOpen())
}

func TestToggle(t *testing.T) {
	var m Machine

	assert.True(t, m.Toggle())
	assert.True(t, m.IsOpen())
	assert.Equal(t, "open", m.State().String())

	assert.False(t, m.Toggle())
	assert.False(t, m.IsOpen())
	assert.Equal(t, "closed", m.State().String())
}

func TestDismiss(t *testing.T) {
	var m Machine
	assert.False(t, m.Dismiss(), "dismiss while closed is a no-op")

	m.Toggle()
	assert.True(t, m.Dismiss())
	assert.Equal(t, Closed, m.State())
	assert.False(t, m.Dismiss())
}
