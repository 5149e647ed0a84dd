package dom_test

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

const testHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<div class="content">
			<p>P1</p><p>P2</p>
			<ul>
				<li>Item 1</li>
				<li>Item 2</li>
				<li id="special">Item 3</li>
			</ul>
		</div>
		<div class="content"><p>P3</p></div>
	</body>
	</html>
	`

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func ids(nodes []*html.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dom.Attr(n, "id"))
	}
	return out
}

func TestGenerateUniqueXPath(t *testing.T) {
	doc := parse(t, testHTML)

	tests := []struct {
		name          string
		targetXPath   string
		expectedXPath string
	}{
		{"Body", "//body", "/html[1]/body[1]"},
		{"Element with ID", "//div[@id='header']", `//*[@id='header']`},
		{"Child of ID element", "//h1", `//*[@id='header']/h1[1]`},
		{"Specific index", "(//p)[2]", "/html[1]/body[1]/div[2]/p[2]"},
		{"List item", "//ul/li[2]", "/html[1]/body[1]/div[2]/ul[1]/li[2]"},
		{"List item with ID", "//li[@id='special']", `//*[@id='special']`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := htmlquery.FindOne(doc, tt.targetXPath)
			require.NotNil(t, target, "target node not found with %s", tt.targetXPath)

			generated := dom.GenerateUniqueXPath(target)
			assert.Equal(t, tt.expectedXPath, generated)
			assert.Equal(t, target, htmlquery.FindOne(doc, generated), "generated XPath must select the original node")
		})
	}
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `'plain'`, dom.XPathLiteral("plain"))
	assert.Equal(t, `"it's"`, dom.XPathLiteral("it's"))
	assert.Equal(t, `concat('say "hi', "'", 's')`, dom.XPathLiteral(`say "hi's`))

	doc := parse(t, `<html><body><p id="it's">a</p><p id='say "hi&#39;s'>b</p><p id="x">c</p></body></html>`)
	for _, id := range []string{"it's", `say "hi's`} {
		t.Run(id, func(t *testing.T) {
			n, err := dom.Query(doc, "//*[@id="+dom.XPathLiteral(id)+"]")
			require.NoError(t, err)
			assert.Equal(t, id, dom.Attr(n, "id"))

			generated := dom.GenerateUniqueXPath(n)
			assert.Equal(t, n, htmlquery.FindOne(doc, generated), "generated XPath must select the original node")
		})
	}
}

func TestDescribe(t *testing.T) {
	doc := parse(t, testHTML)
	assert.Equal(t, "#special", dom.Describe(htmlquery.FindOne(doc, "//li[@id='special']")))
	assert.Equal(t, "/html[1]/body[1]/div[2]/ul[1]/li[1]", dom.Describe(htmlquery.FindOne(doc, "//ul/li[1]")))
	assert.Equal(t, "<nil>", dom.Describe(nil))
}

func TestAttributesAndClasses(t *testing.T) {
	n := dom.NewElement("DIV")
	assert.Equal(t, "div", n.Data)

	assert.False(t, dom.HasAttr(n, "data-drag-item"))
	dom.SetAttr(n, "data-drag-item", "")
	assert.True(t, dom.HasAttr(n, "data-drag-item"), "empty-valued attributes still count as present")
	dom.RemoveAttr(n, "data-drag-item")
	assert.False(t, dom.HasAttr(n, "data-drag-item"))
	dom.RemoveAttr(n, "data-drag-item")

	dom.AddClass(n, "card")
	dom.AddClass(n, "dragging")
	dom.AddClass(n, "dragging")
	assert.Equal(t, "card dragging", dom.Attr(n, "class"))

	dom.RemoveClass(n, "card")
	assert.Equal(t, []string{"dragging"}, dom.Classes(n))
	dom.RemoveClass(n, "dragging")
	assert.False(t, dom.HasAttr(n, "class"), "an emptied class list drops the attribute")

	dom.AddClass(n, "")
	assert.False(t, dom.HasAttr(n, "class"))
}

func TestStyle(t *testing.T) {
	t.Run("Parse and serialize", func(t *testing.T) {
		st := dom.ParseStyle(" height: 40px ;WIDTH:100%; bogus; :x; color: ")
		assert.Equal(t, "40px", st.Get("height"))
		assert.Equal(t, "100%", st.Get("width"))
		assert.Equal(t, "height: 40px; width: 100%;", st.String())
	})

	t.Run("Set and remove on element", func(t *testing.T) {
		n := dom.NewElement("div")
		dom.SetStyle(n, "position", "fixed")
		dom.SetStyle(n, "left", dom.PX(12.5))
		dom.SetStyle(n, "position", "absolute")
		assert.Equal(t, "position: absolute; left: 12.5px;", dom.Attr(n, "style"))

		dom.RemoveStyle(n, "position")
		dom.RemoveStyle(n, "left")
		assert.False(t, dom.HasAttr(n, "style"))
	})

	t.Run("Lengths", func(t *testing.T) {
		cases := []struct {
			in   string
			ref  float64
			want float64
			ok   bool
		}{
			{"40px", 0, 40, true},
			{"50%", 300, 150, true},
			{"12", 0, 12, true},
			{"auto", 100, 0, false},
			{"", 100, 0, false},
			{"3em", 100, 0, false},
		}
		for _, c := range cases {
			got, ok := dom.ParseLength(c.in, c.ref)
			assert.Equal(t, c.ok, ok, c.in)
			assert.InDelta(t, c.want, got, 0.001, c.in)
		}
	})
}

func TestInsertAdjacent(t *testing.T) {
	doc := parse(t, `<html><body><ul id="list"><li id="a"></li><li id="b"></li></ul><ul id="empty"></ul></body></html>`)
	list := htmlquery.FindOne(doc, "//*[@id='list']")
	empty := htmlquery.FindOne(doc, "//*[@id='empty']")
	a := htmlquery.FindOne(doc, "//*[@id='a']")
	b := htmlquery.FindOne(doc, "//*[@id='b']")

	x := dom.NewElement("li")
	dom.SetAttr(x, "id", "x")

	require.NoError(t, dom.InsertAdjacent(a, dom.BeforeBegin, x))
	assert.Equal(t, []string{"x", "a", "b"}, ids(dom.ElementChildren(list)))

	require.NoError(t, dom.InsertAdjacent(b, dom.AfterEnd, x))
	assert.Equal(t, []string{"a", "b", "x"}, ids(dom.ElementChildren(list)))

	require.NoError(t, dom.InsertAdjacent(a, dom.AfterEnd, x))
	assert.Equal(t, []string{"a", "x", "b"}, ids(dom.ElementChildren(list)))

	require.NoError(t, dom.InsertAdjacent(empty, dom.AfterBegin, x))
	assert.Equal(t, []string{"x"}, ids(dom.ElementChildren(empty)))
	assert.Equal(t, 2, dom.ElementChildCount(list))

	require.NoError(t, dom.InsertAdjacent(list, dom.BeforeEnd, x))
	assert.Equal(t, []string{"a", "b", "x"}, ids(dom.ElementChildren(list)))

	assert.Equal(t, b, dom.PrevElementSibling(x))
	assert.Equal(t, x, dom.NextElementSibling(b))
	assert.Nil(t, dom.NextElementSibling(x))

	t.Run("Rejects invalid references", func(t *testing.T) {
		detached := dom.NewElement("li")
		assert.Error(t, dom.InsertAdjacent(detached, dom.AfterEnd, dom.NewElement("li")))
		assert.Error(t, dom.InsertAdjacent(a, dom.AfterBegin, a))
		assert.Error(t, dom.InsertAdjacent(a, dom.AfterBegin, list), "cannot insert an ancestor into its descendant")
		assert.Error(t, dom.InsertAdjacent(nil, dom.AfterBegin, x))
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		dom.Remove(x)
		dom.Remove(x)
		assert.Nil(t, x.Parent)
		assert.Equal(t, []string{"a", "b"}, ids(dom.ElementChildren(list)))
	})
}

func TestRectAndMetrics(t *testing.T) {
	r := dom.Rect{X: 10, Y: 20, Width: 100, Height: 40}
	assert.Equal(t, 40.0, r.MidY())
	assert.True(t, r.Contains(10, 20))
	assert.False(t, r.Contains(110, 20), "right edge is exclusive")
	assert.False(t, r.Contains(50, 60), "bottom edge is exclusive")

	clip := r.Intersect(dom.Rect{X: 50, Y: 0, Width: 100, Height: 30})
	assert.Equal(t, dom.Rect{X: 50, Y: 20, Width: 60, Height: 10}, clip)
	assert.True(t, r.Intersect(dom.Rect{X: 500, Y: 500, Width: 1, Height: 1}).Empty())

	m := dom.ScrollMetrics{Top: 0, Height: 500, ClientHeight: 200, Width: 100, ClientWidth: 100}
	assert.Equal(t, 300.0, m.MaxTop())
	assert.True(t, m.Overflows())
	assert.False(t, dom.ScrollMetrics{Height: 100, ClientHeight: 100}.Overflows())
}
