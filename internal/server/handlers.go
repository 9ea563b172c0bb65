package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/store"
)

// defaultLimit is the list size when the limit parameter is absent.
const defaultLimit = 10

// Error texts returned in the "error" field.
const (
	errInvalidJSON   = "JSON inválido"
	errMissingID     = "ID de notificación requerido"
	errNotFound      = "Notificación no encontrada"
	errInvalidLimit  = "Parámetro limit inválido"
	errDeleteUnread  = "No se puede eliminar una notificación no leída"
	errInternalError = "Error interno del servidor"
)

// notificationResponse is the JSON shape of one notification in the list.
type notificationResponse struct {
	ID      string `json:"id"`
	Type    string `json:"tipo"`
	Title   string `json:"titulo"`
	Message string `json:"mensaje"`
	Link    string `json:"link"`
	Read    bool   `json:"leida"`
	Date    string `json:"fecha"`
	DateISO string `json:"fecha_iso"`
}

// idRequest is the body of the per-notification mutations.
type idRequest struct {
	NotificationID string `json:"notificacion_id"`
}

func (s *Server) toResponse(r store.Record, now time.Time) notificationResponse {
	link := r.Link
	if link == "" {
		link = model.NoLink
	}
	return notificationResponse{
		ID:      r.ID,
		Type:    r.Type,
		Title:   r.Title,
		Message: r.Message,
		Link:    link,
		Read:    r.Read,
		Date:    relativeTime(r.CreatedAt, now),
		DateISO: r.CreatedAt.Format(time.RFC3339),
	}
}

// fail writes the failure envelope.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// internalError logs err and answers 500.
func (s *Server) internalError(c *gin.Context, op string, err error) {
	s.logger.Error().Err(err).Str("op", op).Msg("request failed")
	fail(c, http.StatusInternalServerError, errInternalError)
}

// handleCount returns the unread count.
func (s *Server) handleCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.store.CountUnread(c.Request.Context(), s.recipient)
		if err != nil {
			s.internalError(c, "count", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}

// handleList returns the newest notifications, optionally unread only.
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
		if err != nil || limit < 0 {
			fail(c, http.StatusBadRequest, errInvalidLimit)
			return
		}
		unreadOnly := strings.EqualFold(c.DefaultQuery("solo_no_leidas", "false"), "true")

		ctx := c.Request.Context()
		total, err := s.store.Count(ctx, s.recipient, unreadOnly)
		if err != nil {
			s.internalError(c, "list", err)
			return
		}
		unread, err := s.store.CountUnread(ctx, s.recipient)
		if err != nil {
			s.internalError(c, "list", err)
			return
		}

		var records []store.Record
		if limit > 0 {
			records, err = s.store.List(ctx, s.recipient, store.ListFilter{
				Limit:      limit,
				UnreadOnly: unreadOnly,
			})
			if err != nil {
				s.internalError(c, "list", err)
				return
			}
		}

		now := s.now()
		items := make([]notificationResponse, 0, len(records))
		for _, r := range records {
			items = append(items, s.toResponse(r, now))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"notificaciones":  items,
			"count_total":     total,
			"count_no_leidas": unread,
		})
	}
}

// bindID decodes the notification id from the request body, answering 400
// when the body is malformed or the id is missing.
func bindID(c *gin.Context) (string, bool) {
	data, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, errInvalidJSON)
		return "", false
	}
	var req idRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fail(c, http.StatusBadRequest, errInvalidJSON)
		return "", false
	}
	id := strings.TrimSpace(req.NotificationID)
	if id == "" {
		fail(c, http.StatusBadRequest, errMissingID)
		return "", false
	}
	return id, true
}

// handleMarkRead marks one notification read and returns the new count.
func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := s.store.MarkRead(ctx, s.recipient, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, errNotFound)
				return
			}
			s.internalError(c, "mark_read", err)
			return
		}

		count, err := s.store.CountUnread(ctx, s.recipient)
		if err != nil {
			s.internalError(c, "mark_read", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "Notificación marcada como leída",
			"nuevo_conteo": count,
		})
	}
}

// handleMarkAllRead marks every unread notification read.
func (s *Server) handleMarkAllRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.store.MarkAllRead(c.Request.Context(), s.recipient)
		if err != nil {
			s.internalError(c, "mark_all_read", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("%d notificaciones marcadas como leídas", count),
			"count":   count,
		})
	}
}

// handleDelete deletes a read notification.
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindID(c)
		if !ok {
			return
		}

		err := s.store.Delete(c.Request.Context(), s.recipient, id)
		switch {
		case errors.Is(err, store.ErrUnread):
			fail(c, http.StatusBadRequest, errDeleteUnread)
		case errors.Is(err, store.ErrNotFound):
			fail(c, http.StatusNotFound, errNotFound)
		case err != nil:
			s.internalError(c, "delete", err)
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notificación eliminada"})
		}
	}
}
