package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendChildReparents(t *testing.T) {
	a := NewElement("div", HTMLNamespace, nil)
	b := NewElement("span", HTMLNamespace, nil)
	child := NewText("x")

	a.AppendChild(child)
	require.Equal(t, a, child.Parent)

	b.AppendChild(child)
	assert.Equal(t, b, child.Parent)
	assert.Empty(t, a.Children)
	assert.Equal(t, []*Node{child}, b.Children)
}

func TestInsertBefore(t *testing.T) {
	parent := NewElement("div", HTMLNamespace, nil)
	first := NewText("1")
	second := NewText("2")
	parent.AppendChild(first)
	parent.AppendChild(second)

	inserted := NewText("x")
	parent.InsertBefore(inserted, second)
	assert.Equal(t, []*Node{first, inserted, second}, parent.Children)
}

func TestInsertBeforeMovesWithinSameParent(t *testing.T) {
	parent := NewElement("div", HTMLNamespace, nil)
	a := NewText("a")
	b := NewText("b")
	c := NewText("c")
	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	// moving c before a must account for the detach shifting indices
	parent.InsertBefore(c, a)
	assert.Equal(t, []*Node{c, a, b}, parent.Children)
}

func TestDetach(t *testing.T) {
	parent := NewElement("div", HTMLNamespace, nil)
	child := NewText("x")
	parent.AppendChild(child)

	child.Detach()
	assert.Nil(t, child.Parent)
	assert.Empty(t, parent.Children)

	// detaching an orphan is a no-op
	assert.NotPanics(t, func() { child.Detach() })
}

func TestReparentChildren(t *testing.T) {
	from := NewElement("p", HTMLNamespace, nil)
	to := NewElement("b", HTMLNamespace, nil)
	a := NewText("a")
	b := NewText("b")
	from.AppendChild(a)
	from.AppendChild(b)

	from.ReparentChildren(to)
	assert.Empty(t, from.Children)
	assert.Equal(t, []*Node{a, b}, to.Children)
	assert.Equal(t, to, a.Parent)
}

func TestCloneShallow(t *testing.T) {
	n := NewElement("font", HTMLNamespace, AttrList{{Name: "color", Value: "red"}})
	n.AppendChild(NewText("x"))

	clone := n.CloneShallow()
	assert.Equal(t, "font", clone.Tag)
	assert.Empty(t, clone.Children)
	assert.Nil(t, clone.Parent)
	require.Len(t, clone.Attrs, 1)

	// attribute storage must not be shared
	clone.Attrs[0].Value = "blue"
	assert.Equal(t, "red", n.Attrs[0].Value)
}

func TestSiblingAccessors(t *testing.T) {
	parent := NewElement("div", HTMLNamespace, nil)
	a := NewText("a")
	b := NewText("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	assert.Equal(t, a, parent.FirstChild())
	assert.Equal(t, b, parent.LastChild())
	assert.Equal(t, a, b.PreviousSibling())
	assert.Nil(t, a.PreviousSibling())
}

func TestIsElement(t *testing.T) {
	svg := NewElement("svg", SVGNamespace, nil)
	assert.True(t, svg.IsElement(SVGNamespace, "svg"))
	assert.False(t, svg.IsHTMLElement("svg"))

	div := NewElement("div", HTMLNamespace, nil)
	assert.True(t, div.IsHTMLElement("p", "div", "span"))
	assert.False(t, div.IsHTMLElement("p", "span"))

	text := NewText("x")
	assert.False(t, text.IsHTMLElement("div"))
}

func TestAttrListMerge(t *testing.T) {
	a := AttrList{{Name: "id", Value: "x"}}
	a.Merge(AttrList{{Name: "id", Value: "y"}, {Name: "class", Value: "c"}})

	v, _ := a.Get("id")
	assert.Equal(t, "x", v)
	v, _ = a.Get("class")
	assert.Equal(t, "c", v)
}

func TestAttrListEqualIgnoresOrder(t *testing.T) {
	a := AttrList{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	b := AttrList{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}
	c := AttrList{{Name: "a", Value: "1"}, {Name: "b", Value: "3"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(AttrList{{Name: "a", Value: "1"}}))
}

func TestSerializeDocument(t *testing.T) {
	doc := NewDocument()
	doc.AppendChild(NewDoctype("html", "", ""))
	html := NewElement("html", HTMLNamespace, nil)
	doc.AppendChild(html)
	head := NewElement("head", HTMLNamespace, nil)
	body := NewElement("body", HTMLNamespace, nil)
	html.AppendChild(head)
	html.AppendChild(body)
	div := NewElement("div", HTMLNamespace, AttrList{{Name: "id", Value: "a"}, {Name: "class", Value: "b"}})
	body.AppendChild(div)
	div.AppendChild(NewText("hi"))
	div.AppendChild(NewComment("note"))

	expected := `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <div>
|       class="b"
|       id="a"
|       "hi"
|       <!-- note -->`
	assert.Equal(t, expected, doc.String())
}

func TestSerializeForeignPrefixes(t *testing.T) {
	svg := NewElement("svg", SVGNamespace, AttrList{{Namespace: XLinkNamespace, Name: "href", Value: "u"}})
	assert.Equal(t, `| <svg svg>
|   xlink href="u"`, svg.String())

	math := NewElement("math", MathMLNamespace, nil)
	assert.Equal(t, "| <math math>", math.String())
}

func TestSerializeDoctypeIdentifiers(t *testing.T) {
	d := NewDoctype("html", "-//W3C//DTD HTML 4.01//EN", "http://www.w3.org/TR/html4/strict.dtd")
	assert.Equal(t, `| <!DOCTYPE html "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`, d.String())
}

func TestDumpLabels(t *testing.T) {
	doc := NewDocument()
	html := NewElement("html", HTMLNamespace, nil)
	doc.AppendChild(html)
	body := NewElement("body", HTMLNamespace, nil)
	html.AppendChild(body)
	a := NewElement("a", HTMLNamespace, AttrList{{Name: "href", Value: "u"}})
	body.AppendChild(a)
	a.AppendChild(NewText("link"))

	out := doc.Dump()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "#document", lines[0])
	assert.Len(t, lines, 5)
	assert.Contains(t, out, `a [href="u"]`)
	assert.Contains(t, out, `"link"`)
}
