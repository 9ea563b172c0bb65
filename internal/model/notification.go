package model

import "strings"

// NotificationType is the server-assigned kind of a notification. The set is
// open: values the client does not recognize fall back to CategoryGeneric.
type NotificationType string

const (
	TypeCorrection NotificationType = "correccion"
	TypeBirth      NotificationType = "parto"
	TypeSystem     NotificationType = "sistema"
)

// Category is the display bucket a notification type maps to.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryCorrection
	CategoryBirth
	CategorySystem
)

// NoLink is the sentinel the service uses for "no navigation target".
const NoLink = "#"

// Notification represents a server-owned alert shown in the notification
// panel.
type Notification struct {
	// ID is the stable identifier assigned by the service.
	ID string `json:"id"`

	// Type identifies the kind of event that produced this notification.
	Type NotificationType `json:"tipo"`

	// Title is the short headline.
	Title string `json:"titulo"`

	// Message is the human-readable notification text.
	Message string `json:"mensaje"`

	// DisplayTimestamp is pre-formatted by the service and shown verbatim.
	DisplayTimestamp string `json:"fecha"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"leida"`

	// Link is the optional navigation target. Empty or NoLink means none.
	Link string `json:"link,omitempty"`
}

// Category maps the notification type onto its display category.
func (n Notification) Category() Category {
	switch n.Type {
	case TypeCorrection:
		return CategoryCorrection
	case TypeBirth:
		return CategoryBirth
	case TypeSystem:
		return CategorySystem
	default:
		return CategoryGeneric
	}
}

// HasLink reports whether the notification carries a navigation target.
func (n Notification) HasLink() bool {
	link := strings.TrimSpace(n.Link)
	return link != "" && link != NoLink
}

// Deletable reports whether the delete affordance applies. The service
// enforces the same rule authoritatively.
func (n Notification) Deletable() bool {
	return n.Read
}

// DetailPath expands a detail route template such as "/notifications/{id}/"
// for this notification.
func (n Notification) DetailPath(route string) string {
	return strings.ReplaceAll(route, "{id}", n.ID)
}

// String returns the label used for a category in the panel.
func (c Category) String() string {
	switch c {
	case CategoryCorrection:
		return "correccion"
	case CategoryBirth:
		return "parto"
	case CategorySystem:
		return "sistema"
	default:
		return "aviso"
	}
}

// Icon returns the glyph drawn next to a notification of this category.
func (c Category) Icon() string {
	switch c {
	case CategoryCorrection:
		return "📝"
	case CategoryBirth:
		return "👶"
	default:
		return "🔔"
	}
}
