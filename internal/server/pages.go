package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/store"
)

const shellTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="csrf-token" content="{{.Token}}">
<title>{{.Title}}</title>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <a href="#" id="notifications-bell" aria-label="Notificaciones">
    <span id="notifications-badge"{{if eq .Unread 0}} hidden{{end}}>{{.Badge}}</span>
  </a>
  <div id="notifications-overlay" hidden></div>
  <div id="notifications-dropdown" hidden>
    <button type="button" id="btn-mark-all-read">Marcar todas como leídas</button>
    <div id="notifications-list"></div>
  </div>
</header>
<form method="post" action="/logout/">
  <input type="hidden" name="csrfmiddlewaretoken" value="{{.Token}}">
</form>
</body>
</html>
`

const detailTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Notification.Title}}</title>
</head>
<body>
<article>
  <h1>{{.Notification.Title}}</h1>
  <p>{{.Notification.Message}}</p>
  <time datetime="{{.DateISO}}">{{.Date}}</time>
  {{if .HasLink}}<p><a href="{{.Notification.Link}}">Ver detalle</a></p>{{end}}
</article>
<p><a href="/">Volver</a></p>
</body>
</html>
`

const notFoundTemplate = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>No encontrada</title></head>
<body><p>Notificación no encontrada</p></body>
</html>
`

var pageTemplates = template.Must(
	template.Must(
		template.Must(template.New("shell.html").Parse(shellTemplate)).
			New("detail.html").Parse(detailTemplate),
	).New("not_found.html").Parse(notFoundTemplate),
)

// handleShell renders the application page carrying the notification
// element ids and the anti-forgery token.
func (s *Server) handleShell() gin.HandlerFunc {
	return func(c *gin.Context) {
		unread, err := s.store.CountUnread(c.Request.Context(), s.recipient)
		if err != nil {
			s.logger.Error().Err(err).Msg("counting unread for shell page")
			c.Status(http.StatusInternalServerError)
			return
		}

		badge := "99+"
		if unread <= 99 {
			badge = strconv.Itoa(unread)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CSRFCookie, s.token, 0, "/", "", false, true)
		c.HTML(http.StatusOK, "shell.html", gin.H{
			"Title":  s.title,
			"Token":  s.token,
			"Unread": unread,
			"Badge":  badge,
		})
	}
}

// handleDetail renders one notification and marks it read.
func (s *Server) handleDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		if err := s.store.MarkRead(ctx, s.recipient, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.HTML(http.StatusNotFound, "not_found.html", nil)
				return
			}
			s.logger.Error().Err(err).Str("id", id).Msg("marking notification read from detail page")
			c.Status(http.StatusInternalServerError)
			return
		}

		r, err := s.store.Get(ctx, s.recipient, id)
		if err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("loading notification detail")
			c.Status(http.StatusInternalServerError)
			return
		}

		resp := s.toResponse(*r, s.now())
		n := model.Notification{Link: r.Link}
		c.HTML(http.StatusOK, "detail.html", gin.H{
			"Notification": resp,
			"Date":         resp.Date,
			"DateISO":      resp.DateISO,
			"HasLink":      n.HasLink(),
		})
	}
}
