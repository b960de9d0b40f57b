package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDropsWhitespaceAndComments(t *testing.T) {
	root, err := ParseString(`<!DOCTYPE html>
<html>
  <!-- generated -->
  <body>
    <div id="RpcStatusArea">
      <table>
        <tr><td>  PDU Voltage L1-N </td><td>230.1</td><td>VAC</td></tr>
      </table>
    </div>
  </body>
</html>`)
	require.NoError(t, err)
	require.Equal(t, "html", root.Name())

	div := root.Find("div", "RpcStatusArea")
	require.NotNil(t, div)
	assert.Len(t, div.Elements(), 1)
	assert.Len(t, div.Children(), 1, "whitespace-only text must be dropped")

	td := div.FindFirst("td")
	require.NotNil(t, td)
	text, ok := td.FirstText()
	require.True(t, ok)
	assert.Equal(t, "PDU Voltage L1-N", text)
}

func TestParseKeepsNonBreakingSpace(t *testing.T) {
	root, err := ParseString(`<table><tr><td>Power Factor</td><td>0.98</td><td>&nbsp;</td></tr></table>`)
	require.NoError(t, err)

	tr := root.FindFirst("tr")
	require.NotNil(t, tr)
	cells := tr.Elements()
	require.Len(t, cells, 3)

	unit, ok := cells[2].FirstText()
	require.True(t, ok)
	assert.Equal(t, "\u00a0", unit)
}

func TestFindAndAttributes(t *testing.T) {
	img := Element("img", map[string]string{"src": "../../../images/warn.png"})
	cell := Element("td", nil, Element("span", map[string]string{"title": "On"}), img)
	row := Element("tr", map[string]string{"id": "1-2-3"}, cell)

	assert.Equal(t, "1-2-3", row.ID())
	assert.Same(t, img, row.FindFirst("img"))
	assert.Nil(t, row.FindFirst("table"))
	assert.Same(t, row, row.Find("tr", ""))
	assert.Nil(t, row.Find("tr", "4-5-6"))

	src, ok := img.Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "../../../images/warn.png", src)

	_, ok = img.Attr("alt")
	assert.False(t, ok)

	span := cell.FirstChild()
	require.NotNil(t, span)
	assert.True(t, span.Is("span"))
	assert.Same(t, img, cell.Child("img"))
}

func TestElementIsImmutable(t *testing.T) {
	attrs := map[string]string{"id": "a"}
	children := []*Node{Text("one")}
	n := Element("div", attrs, children...)

	attrs["id"] = "b"
	children[0] = Text("two")
	n.Children()[0] = Text("three")

	assert.Equal(t, "a", n.ID())
	text, _ := n.FirstText()
	assert.Equal(t, "one", text)
}

func TestTextNodeAccessors(t *testing.T) {
	n := Text("hello")
	assert.True(t, n.IsText())
	assert.False(t, n.IsElement())
	assert.Equal(t, "", n.Name())
	assert.Equal(t, "hello", n.Content())
	assert.Nil(t, n.Elements())
	assert.Nil(t, n.Find("td", ""))

	var missing *Node
	_, ok := missing.FirstText()
	assert.False(t, ok)
}
