package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shellPage = `<!doctype html>
<html>
<head>
  <meta name="csrf-token" content="meta-token">
  <meta name="csrf-token" content="second">
</head>
<body>
  <button id="notifications-bell"><span id="notifications-badge" class="hidden">0</span></button>
  <div id="notifications-overlay"></div>
  <div id="notifications-dropdown">
    <button id="btn-mark-all-read">Marcar todas</button>
    <div id="notifications-list"></div>
  </div>
  <form><input type="hidden" name="csrfmiddlewaretoken" value="form-token"></form>
</body>
</html>`

func TestParseCollectsIDsMetaAndFields(t *testing.T) {
	doc, err := ParseString(shellPage)
	require.NoError(t, err)

	assert.True(t, doc.HasElement(IDTrigger))
	assert.False(t, doc.HasElement("missing"))

	token, ok := doc.Meta("csrf-token")
	require.True(t, ok)
	assert.Equal(t, "meta-token", token, "first meta wins")

	field, ok := doc.FieldValue("csrfmiddlewaretoken")
	require.True(t, ok)
	assert.Equal(t, "form-token", field)
}

func TestProbeFullPage(t *testing.T) {
	doc, err := ParseString(shellPage)
	require.NoError(t, err)

	caps := Probe(doc)
	assert.Equal(t, All(), caps)
	assert.True(t, caps.Enabled())
	assert.True(t, caps.CanOpen())
}

func TestProbeWithoutTriggerDisablesCenter(t *testing.T) {
	doc, err := ParseString(`<html><body><div id="notifications-list"></div></body></html>`)
	require.NoError(t, err)

	caps := Probe(doc)
	assert.False(t, caps.Enabled())
	assert.False(t, caps.CanOpen())
	assert.True(t, caps.List)
}

func TestNilDocumentHasNothing(t *testing.T) {
	var doc *Document
	assert.False(t, doc.HasElement(IDTrigger))
	_, ok := doc.Meta("csrf-token")
	assert.False(t, ok)
	assert.Equal(t, Capabilities{}, Probe(doc))
}
