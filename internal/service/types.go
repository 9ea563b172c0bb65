package service

import "github.com/nhle/notification-center/internal/model"

// envelope is the status part shared by every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// CountResponse is the response of the count endpoint.
type CountResponse struct {
	envelope
	Count int `json:"count"`
}

// ListResponse is the response of the list endpoint.
type ListResponse struct {
	envelope
	Notifications []model.Notification `json:"notificaciones"`
	TotalCount    int                  `json:"count_total"`
	UnreadCount   int                  `json:"count_no_leidas"`
}

// MarkReadResponse is the response of the mark-read endpoint.
type MarkReadResponse struct {
	envelope
	NewCount int `json:"nuevo_conteo"`
}

// MarkAllReadResponse is the response of the mark-all-read endpoint.
type MarkAllReadResponse struct {
	envelope
	Count int `json:"count"`
}

// DeleteResponse is the response of the delete endpoint.
type DeleteResponse struct {
	envelope
}

// idRequest is the body of the mark-read and delete endpoints.
type idRequest struct {
	NotificationID string `json:"notificacion_id"`
}

// ListResult is a page of notifications plus the authoritative unread count.
type ListResult struct {
	Notifications []model.Notification
	UnreadCount   int
}
