package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperjet/paperjet/parser/dom"
)

func parseToString(t *testing.T, in string, opts ...Option) string {
	t.Helper()
	doc, err := ParseHTMLDocument(in, opts...)
	require.NoError(t, err)
	return doc.String()
}

type treeTest struct {
	name     string
	in       string
	expected string
}

func TestTreeConstructionBasic(t *testing.T) {
	tests := []treeTest{
		{
			name: "bare text synthesizes document structure",
			in:   "Test",
			expected: `#document
| <html>
|   <head>
|   <body>
|     "Test"`,
		},
		{
			name: "empty input",
			in:   "",
			expected: `#document
| <html>
|   <head>
|   <body>`,
		},
		{
			name: "doctype is preserved",
			in:   "<!DOCTYPE html><p>One<p>Two",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <p>
|       "One"
|     <p>
|       "Two"`,
		},
		{
			name: "comment before doctype stays on the document",
			in:   "<!--c--><!DOCTYPE html>",
			expected: `#document
| <!-- c -->
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>`,
		},
		{
			name: "html attributes merge onto the root",
			in:   `<html lang="en"><head></head><body></body></html>`,
			expected: `#document
| <html>
|   lang="en"
|   <head>
|   <body>`,
		},
		{
			name: "attributes serialize sorted",
			in:   `<!DOCTYPE html><div id="a" class="b">x</div>`,
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <div>
|       class="b"
|       id="a"
|       "x"`,
		},
		{
			name: "stray end tag is ignored",
			in:   "<!DOCTYPE html><div>x</div></div>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <div>
|       "x"`,
		},
		{
			name: "headings close each other",
			in:   "<!DOCTYPE html><h1>A<h2>B",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <h1>
|       "A"
|     <h2>
|       "B"`,
		},
		{
			name: "list items close each other",
			in:   "<!DOCTYPE html><ul><li>a<li>b</ul>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <ul>
|       <li>
|         "a"
|       <li>
|         "b"`,
		},
		{
			name: "head content",
			in:   `<!DOCTYPE html><title>a<b>c</title><meta charset="utf-8">x`,
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|     <title>
|       "a<b>c"
|     <meta>
|       charset="utf-8"
|   <body>
|     "x"`,
		},
		{
			name: "script body is raw text",
			in:   "<!DOCTYPE html><script>if (a < b) {}</script>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|     <script>
|       "if (a < b) {}"
|   <body>`,
		},
		{
			name: "textarea drops its leading newline",
			in:   "<!DOCTYPE html><textarea>\nabc</textarea>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <textarea>
|       "abc"`,
		},
		{
			name: "pre drops only the first newline",
			in:   "<!DOCTYPE html><pre>\n\nx</pre>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <pre>
|       "
x"`,
		},
		{
			name: "comment after body lands on html",
			in:   "<!DOCTYPE html><p>x</p></body><!--c-->",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <p>
|       "x"
|   <!-- c -->`,
		},
	}
	runTreeTests(t, tests)
}

func TestTreeConstructionFormatting(t *testing.T) {
	tests := []treeTest{
		{
			name: "adoption agency with block in the middle",
			in:   "<b>1<i>2<p>3</b>4",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <b>
|       "1"
|       <i>
|         "2"
|     <i>
|       <p>
|         <b>
|           "3"
|         "4"`,
		},
		{
			name: "formatting reopened after explicit close",
			in:   "<b>1<i>2<p>3</p>4</b>5",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <b>
|       "1"
|       <i>
|         "2"
|         <p>
|           "3"
|         "4"
|     <i>
|       "5"`,
		},
		{
			name: "anchor does not wrap trailing text",
			in:   "<a>1<p>2</a>3</p>",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <a>
|       "1"
|     <p>
|       <a>
|         "2"
|       "3"`,
		},
		{
			name: "bold reconstructed into the next paragraph",
			in:   "<!DOCTYPE html><p>1<b>2<p>3",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <p>
|       "1"
|       <b>
|         "2"
|     <p>
|       <b>
|         "3"`,
		},
	}
	runTreeTests(t, tests)
}

func TestTreeConstructionTables(t *testing.T) {
	tests := []treeTest{
		{
			name: "implied tbody and tr",
			in:   "<!DOCTYPE html><table><td>1</table>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <table>
|       <tbody>
|         <tr>
|           <td>
|             "1"`,
		},
		{
			name: "stray table text is foster parented",
			in:   "<table>X<tr>Y</tr></table>",
			expected: `#document
| <html>
|   <head>
|   <body>
|     "XY"
|     <table>
|       <tbody>
|         <tr>`,
		},
		{
			name: "caption",
			in:   "<!DOCTYPE html><table><caption>hi</caption></table>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <table>
|       <caption>
|         "hi"`,
		},
		{
			name: "col implies colgroup",
			in:   `<!DOCTYPE html><table><col span="2"></table>`,
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <table>
|       <colgroup>
|         <col>
|           span="2"`,
		},
		{
			name: "whitespace stays inside the table",
			in:   "<!DOCTYPE html><table> <tr> </tr> </table>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <table>
|       " "
|       <tbody>
|         <tr>
|           " "
|         " "`,
		},
	}
	runTreeTests(t, tests)
}

func TestTreeConstructionSelect(t *testing.T) {
	tests := []treeTest{
		{
			name: "options become siblings",
			in:   "<!DOCTYPE html><select><option>A<option>B</select>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <select>
|       <option>
|         "A"
|       <option>
|         "B"`,
		},
		{
			name: "optgroup closes an open option",
			in:   "<!DOCTYPE html><select><option>A<optgroup label=\"g\"><option>B</select>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <select>
|       <option>
|         "A"
|       <optgroup>
|         label="g"
|         <option>
|           "B"`,
		},
	}
	runTreeTests(t, tests)
}

func TestTreeConstructionForeignContent(t *testing.T) {
	tests := []treeTest{
		{
			name: "svg subtree with self-closing child",
			in:   "<p><svg><path/></svg>q",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <p>
|       <svg svg>
|         <svg path>
|       "q"`,
		},
		{
			name: "svg tag name case is adjusted",
			in:   "<svg><foreignobject></foreignobject></svg>",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <svg svg>
|       <svg foreignObject>`,
		},
		{
			name: "html breakout tag pops the foreign subtree",
			in:   "<svg><b>x</b></svg>",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <svg svg>
|     <b>
|       "x"`,
		},
		{
			name: "mathml text integration point takes html characters",
			in:   "<math><mi>x</mi></math>y",
			expected: `#document
| <html>
|   <head>
|   <body>
|     <math math>
|       <math mi>
|         "x"
|     "y"`,
		},
		{
			name: "xlink attribute gets its namespace prefix",
			in:   `<svg><a xlink:href="u"></a></svg>`,
			expected: `#document
| <html>
|   <head>
|   <body>
|     <svg svg>
|       <svg a>
|         xlink href="u"`,
		},
	}
	runTreeTests(t, tests)
}

func TestTreeConstructionFrameset(t *testing.T) {
	tests := []treeTest{
		{
			name: "frameset replaces the body slot",
			in:   "<!DOCTYPE html><frameset><frame></frameset><noframes>x</noframes>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <frameset>
|     <frame>
|   <noframes>
|     "x"`,
		},
		{
			name: "late frameset is ignored after content",
			in:   "<!DOCTYPE html>text<frameset>",
			expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     "text"`,
		},
	}
	runTreeTests(t, tests)
}

func runTreeTests(t *testing.T, tests []treeTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseToString(t, tt.in))
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	in := "<b>1<i>2<p>3</b>4<table>X<tr><td>Y</table>"
	first := parseToString(t, in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, parseToString(t, in))
	}
}

func TestEndOfFileErrorReporting(t *testing.T) {
	countErrors := func(in string) int {
		n := 0
		_, err := ParseHTMLDocument(in, WithParseErrorHandler(func(err parseError, t *Token) {
			if err != noError {
				n++
			}
		}))
		require.NoError(t, err)
		return n
	}

	// p, li, td and friends may dangle at end of input
	assert.Equal(t, 0, countErrors("<!DOCTYPE html><p>"))
	assert.Equal(t, 0, countErrors("<!DOCTYPE html><table><tr><td>x"))
	// an unclosed div is reported
	assert.Equal(t, 1, countErrors("<!DOCTYPE html><div>"))
}

func TestReconstructionIsIdempotent(t *testing.T) {
	tok, err := NewHTMLTokenizer(strings.NewReader(""))
	require.NoError(t, err)
	c := NewHTMLTreeConstructor(tok, defaultConfig())

	html := dom.NewElement("html", dom.HTMLNamespace, nil)
	c.Document.AppendChild(html)
	c.openElements.pushHTML(html)
	body := dom.NewElement("body", dom.HTMLNamespace, nil)
	html.AppendChild(body)
	c.openElements.pushBody(body)

	// a formatting entry with no matching open element
	c.activeFormatting.append(dom.NewElement("b", dom.HTMLNamespace, nil))

	c.reconstructActiveFormattingElements()
	require.Len(t, body.Children, 1)
	reopened := body.Children[0]
	assert.True(t, c.openElements.contains(reopened))

	c.reconstructActiveFormattingElements()
	assert.Len(t, body.Children, 1)
	assert.Equal(t, reopened, body.Children[0])
}

func TestFinishedHandlerRunsOnce(t *testing.T) {
	n := 0
	_, err := ParseHTMLDocument("<!DOCTYPE html><p>x", WithFinishedHandler(func() { n++ }))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNoscriptDependsOnScriptingFlag(t *testing.T) {
	in := "<!DOCTYPE html><head><noscript><p>x</noscript></head>"

	withScripting := `#document
| <!DOCTYPE html>
| <html>
|   <head>
|     <noscript>
|       "<p>x"
|   <body>`
	doc, err := ParseHTMLDocument(in, WithScripting(true))
	require.NoError(t, err)
	assert.Equal(t, withScripting, doc.String())

	withoutScripting := `#document
| <!DOCTYPE html>
| <html>
|   <head>
|     <noscript>
|   <body>
|     <p>
|       "x"`
	doc, err = ParseHTMLDocument(in, WithScripting(false))
	require.NoError(t, err)
	assert.Equal(t, withoutScripting, doc.String())
}
