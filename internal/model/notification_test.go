package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationDecodesServicePayload(t *testing.T) {
	raw := `{
		"id": "42",
		"tipo": "parto",
		"titulo": "Nuevo parto",
		"mensaje": "Parto registrado",
		"link": "#",
		"leida": false,
		"fecha": "3 minutos atrás",
		"fecha_iso": "2026-01-01T00:00:00Z"
	}`

	var n Notification
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.Equal(t, "42", n.ID)
	assert.Equal(t, TypeBirth, n.Type)
	assert.Equal(t, "Nuevo parto", n.Title)
	assert.Equal(t, "3 minutos atrás", n.DisplayTimestamp)
	assert.False(t, n.Read)
	assert.False(t, n.HasLink(), "sentinel link means no navigation")
	assert.Equal(t, CategoryBirth, n.Category())
}

func TestNotificationCategoryFallsBack(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want Category
	}{
		{TypeCorrection, CategoryCorrection},
		{TypeBirth, CategoryBirth},
		{TypeSystem, CategorySystem},
		{"recordatorio", CategoryGeneric},
		{"", CategoryGeneric},
	}

	for _, tt := range tests {
		n := Notification{Type: tt.typ}
		assert.Equal(t, tt.want, n.Category(), "type %q", tt.typ)
	}
	assert.Equal(t, "🔔", CategoryGeneric.Icon())
}

func TestNotificationHasLink(t *testing.T) {
	assert.False(t, Notification{}.HasLink())
	assert.False(t, Notification{Link: " # "}.HasLink())
	assert.True(t, Notification{Link: "/partos/7/"}.HasLink())
}

func TestNotificationDeletableOnlyWhenRead(t *testing.T) {
	assert.False(t, Notification{Read: false}.Deletable())
	assert.True(t, Notification{Read: true}.Deletable())
}

func TestNotificationDetailPath(t *testing.T) {
	n := Notification{ID: "abc"}
	assert.Equal(t, "/notifications/abc/", n.DetailPath("/notifications/{id}/"))
}
