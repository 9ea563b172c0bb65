// Package page reads the hospital application's shell page: which
// notification elements it includes and which anti-forgery tokens it embeds.
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Element ids of the notification feature in the shell page.
const (
	IDTrigger  = "notifications-bell"
	IDBadge    = "notifications-badge"
	IDDropdown = "notifications-dropdown"
	IDOverlay  = "notifications-overlay"
	IDList     = "notifications-list"
	IDMarkAll  = "btn-mark-all-read"
)

// Document is a parsed snapshot of the shell page. Only the parts the
// notification center consumes are retained.
type Document struct {
	ids    map[string]bool
	meta   map[string]string
	fields map[string]string
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	doc := &Document{
		ids:    make(map[string]bool),
		meta:   make(map[string]string),
		fields: make(map[string]string),
	}
	doc.walk(root)
	return doc, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if id := attr(n, "id"); id != "" {
			d.ids[id] = true
		}
		switch n.Data {
		case "meta":
			if name := attr(n, "name"); name != "" {
				if _, seen := d.meta[name]; !seen {
					d.meta[name] = attr(n, "content")
				}
			}
		case "input", "textarea", "select":
			if name := attr(n, "name"); name != "" {
				if _, seen := d.fields[name]; !seen {
					d.fields[name] = attr(n, "value")
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasElement reports whether an element with the given id exists.
func (d *Document) HasElement(id string) bool {
	if d == nil {
		return false
	}
	return d.ids[id]
}

// Meta returns the content of <meta name=name>, if present.
func (d *Document) Meta(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.meta[name]
	return v, ok
}

// FieldValue returns the value of the first form field named name.
func (d *Document) FieldValue(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.fields[name]
	return v, ok
}
