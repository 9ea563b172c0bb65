package notiflist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/theme"
)

// Texts of the non-item views.
const (
	LoadingText = "Cargando notificaciones..."
	ErrorText   = "Error al cargar notificaciones"
	EmptyText   = "No tienes notificaciones"
)

// Kind selects which view a Tree describes.
type Kind int

const (
	KindLoading Kind = iota
	KindError
	KindEmpty
	KindItems
)

// Element is the rendered form of one notification.
type Element struct {
	ID        string
	Title     string
	Message   string
	Category  model.Category
	Timestamp string
	Unread    bool
	Deletable bool
	Removing  bool
	Selected  bool
	Target    string
}

// Tree is the output of the render step.
type Tree struct {
	Kind     Kind
	Text     string
	Elements []Element
}

// Snapshot is everything the render step reads.
type Snapshot struct {
	State       CacheState
	Items       []model.Notification
	Selected    int
	Removing    map[string]bool
	DetailRoute string
}

// Render maps a snapshot onto a tree. It has no side effects.
func Render(s Snapshot) Tree {
	switch {
	case s.State == Loading:
		return Tree{Kind: KindLoading, Text: LoadingText}
	case s.State == Error:
		return Tree{Kind: KindError, Text: ErrorText}
	case s.Items == nil:
		return Tree{Kind: KindLoading, Text: LoadingText}
	case len(s.Items) == 0:
		return Tree{Kind: KindEmpty, Text: EmptyText}
	}

	elements := make([]Element, len(s.Items))
	for i, n := range s.Items {
		elements[i] = Element{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Category:  n.Category(),
			Timestamp: n.DisplayTimestamp,
			Unread:    !n.Read,
			Deletable: n.Deletable(),
			Removing:  s.Removing[n.ID],
			Selected:  i == s.Selected,
			Target:    n.DetailPath(s.DetailRoute),
		}
	}
	return Tree{Kind: KindItems, Elements: elements}
}

// Draw turns a tree into terminal output at most width cells wide. spinner
// is prefixed to the loading text.
func Draw(t Tree, width int, spinner string) string {
	switch t.Kind {
	case KindLoading:
		return theme.HelpStyle.Render(strings.TrimSpace(spinner + " " + t.Text))
	case KindError:
		return theme.ErrorStyle.Render("⚠ " + t.Text)
	case KindEmpty:
		return theme.HelpStyle.Render("🔕 " + t.Text)
	}

	rows := make([]string, 0, len(t.Elements))
	for _, e := range t.Elements {
		rows = append(rows, drawElement(e, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func drawElement(e Element, width int) string {
	inner := width - 3
	if inner < 10 {
		inner = 10
	}

	marker := "  "
	if e.Unread {
		marker = theme.UnreadMarkerStyle.Render("●") + " "
	}

	category := theme.CategoryStyle(e.Category).Render(e.Category.Icon() + " " + e.Category.String())
	title := e.Title
	if e.Unread {
		title = theme.UnreadItemStyle.Render(title)
	}
	head := ansi.Truncate(marker+category+" "+title, inner, "…")

	message := ansi.Truncate(e.Message, inner, "…")

	meta := theme.TimestampStyle.Render("🕑 " + e.Timestamp)
	if e.Deletable {
		meta += theme.HelpStyle.Render("  d: eliminar")
	} else {
		meta += theme.HelpStyle.Render("  m: marcar leída")
	}

	block := lipgloss.JoinVertical(lipgloss.Left, head, message, meta)

	switch {
	case e.Removing:
		return theme.RemovingItemStyle.Render(ansi.Strip(block))
	case e.Selected:
		return theme.SelectedItemStyle.Render(block)
	default:
		return theme.ListItemStyle.Render(block)
	}
}
