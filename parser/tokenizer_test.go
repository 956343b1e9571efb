package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperjet/paperjet/parser/dom"
)

func tokenize(t *testing.T, in string) []*Token {
	t.Helper()
	tok, err := NewHTMLTokenizer(strings.NewReader(in))
	require.NoError(t, err)
	var out []*Token
	for tok.Next() {
		out = append(out, tok.Token())
	}
	return out
}

func TestTokenizeStartTagWithAttributes(t *testing.T) {
	tokens := tokenize(t, `<div id="a" class='b' hidden>x</div>`)
	require.Len(t, tokens, 4)

	assert.Equal(t, startTagToken, tokens[0].TokenType)
	assert.Equal(t, "div", tokens[0].TagName)
	assert.Equal(t, dom.AttrList{
		{Name: "id", Value: "a"},
		{Name: "class", Value: "b"},
		{Name: "hidden", Value: ""},
	}, tokens[0].Attributes)

	assert.Equal(t, characterToken, tokens[1].TokenType)
	assert.Equal(t, "x", tokens[1].Data)

	assert.Equal(t, endTagToken, tokens[2].TokenType)
	assert.Equal(t, "div", tokens[2].TagName)

	assert.Equal(t, endOfFileToken, tokens[3].TokenType)
}

func TestTokenizeTagNamesAreLowercased(t *testing.T) {
	tokens := tokenize(t, "<DIV ID=a></DIV>")
	assert.Equal(t, "div", tokens[0].TagName)
	assert.Equal(t, "id", tokens[0].Attributes[0].Name)
	assert.Equal(t, "div", tokens[1].TagName)
}

func TestTokenizeRepeatedAttributeKeepsFirst(t *testing.T) {
	tokens := tokenize(t, `<a x="1" x="2">`)
	require.Len(t, tokens[0].Attributes, 1)
	assert.Equal(t, "1", tokens[0].Attributes[0].Value)
}

func TestTokenizeSelfClosing(t *testing.T) {
	tokens := tokenize(t, "<br/><img src=u />")
	assert.True(t, tokens[0].SelfClosing)
	assert.True(t, tokens[1].SelfClosing)
	assert.Equal(t, "u", tokens[1].Attributes[0].Value)
}

func TestTokenizeSplitsSpaceAndNonSpaceRuns(t *testing.T) {
	tokens := tokenize(t, "a b")
	require.Len(t, tokens, 4)
	assert.Equal(t, characterToken, tokens[0].TokenType)
	assert.Equal(t, "a", tokens[0].Data)
	assert.Equal(t, spaceCharacterToken, tokens[1].TokenType)
	assert.Equal(t, " ", tokens[1].Data)
	assert.Equal(t, characterToken, tokens[2].TokenType)
	assert.Equal(t, "b", tokens[2].Data)
}

func TestTokenizeNormalizesNewlines(t *testing.T) {
	tokens := tokenize(t, "a\r\nb\rc")
	var data strings.Builder
	for _, tok := range tokens {
		data.WriteString(tok.Data)
	}
	assert.Equal(t, "a\nb\nc", data.String())
}

func TestTokenizeComment(t *testing.T) {
	tokens := tokenize(t, "<!-- hello -->")
	require.Len(t, tokens, 2)
	assert.Equal(t, commentToken, tokens[0].TokenType)
	assert.Equal(t, " hello ", tokens[0].Data)
}

func TestTokenizeBogusComment(t *testing.T) {
	tokens := tokenize(t, "<?xml version=\"1.0\"?>")
	assert.Equal(t, commentToken, tokens[0].TokenType)
	assert.Equal(t, "?xml version=\"1.0\"?", tokens[0].Data)
}

func TestTokenizeDoctype(t *testing.T) {
	tokens := tokenize(t, "<!DOCTYPE html>")
	require.Len(t, tokens, 2)
	d := tokens[0]
	assert.Equal(t, doctypeToken, d.TokenType)
	assert.Equal(t, "html", d.TagName)
	assert.Equal(t, missing, d.PublicIdentifier)
	assert.Equal(t, missing, d.SystemIdentifier)
	assert.False(t, d.ForceQuirks)
}

func TestTokenizeDoctypeWithIdentifiers(t *testing.T) {
	in := `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`
	d := tokenize(t, in)[0]
	assert.Equal(t, "html", d.TagName)
	assert.Equal(t, "-//W3C//DTD HTML 4.01//EN", d.PublicIdentifier)
	assert.Equal(t, "http://www.w3.org/TR/html4/strict.dtd", d.SystemIdentifier)
	assert.False(t, d.ForceQuirks)
}

func TestTokenizeDoctypeMissingName(t *testing.T) {
	d := tokenize(t, "<!DOCTYPE>")[0]
	assert.Equal(t, doctypeToken, d.TokenType)
	assert.True(t, d.ForceQuirks)
}

func TestTokenizeRawText(t *testing.T) {
	tok, err := NewHTMLTokenizer(strings.NewReader("<script>if (a < b) {}</script>after"))
	require.NoError(t, err)

	first := tok.Token()
	require.Equal(t, startTagToken, first.TokenType)
	require.Equal(t, "script", first.TagName)

	// the tree constructor flips the state when it sees <script>
	tok.SetState(ScriptDataState)

	var body strings.Builder
	for {
		next := tok.Token()
		if next.TokenType == endTagToken {
			assert.Equal(t, "script", next.TagName)
			break
		}
		body.WriteString(next.Data)
	}
	assert.Equal(t, "if (a < b) {}", body.String())

	after := tok.Token()
	assert.Equal(t, characterToken, after.TokenType)
	assert.Equal(t, "after", after.Data)
}

func TestTokenizeRawTextIgnoresOtherEndTags(t *testing.T) {
	tok, err := NewHTMLTokenizer(strings.NewReader("<title>a</b>c</title>"))
	require.NoError(t, err)
	tok.Token() // <title>
	tok.SetState(RCDATAState)

	var body strings.Builder
	for {
		next := tok.Token()
		if next.TokenType == endTagToken {
			break
		}
		body.WriteString(next.Data)
	}
	assert.Equal(t, "a</b>c", body.String())
}

func TestTokenizePlaintextRunsToEOF(t *testing.T) {
	tok, err := NewHTMLTokenizer(strings.NewReader("<plaintext></plaintext><p>"))
	require.NoError(t, err)
	tok.Token() // <plaintext>
	tok.SetState(PlaintextState)

	var body strings.Builder
	for tok.Next() {
		next := tok.Token()
		if next.TokenType == endOfFileToken {
			break
		}
		body.WriteString(next.Data)
	}
	assert.Equal(t, "</plaintext><p>", body.String())
}

func TestTokenizeStrayLessThan(t *testing.T) {
	tokens := tokenize(t, "a < b")
	var data strings.Builder
	for _, tok := range tokens {
		data.WriteString(tok.Data)
	}
	assert.Equal(t, "a < b", data.String())
}

func TestTokenizeEmptyEndTagProducesNothing(t *testing.T) {
	tokens := tokenize(t, "a</>b")
	require.Len(t, tokens, 3)
	assert.Equal(t, "a", tokens[0].Data)
	assert.Equal(t, "b", tokens[1].Data)
	assert.Equal(t, endOfFileToken, tokens[2].TokenType)
}

func TestTokenizeEOFIsFinal(t *testing.T) {
	tok, err := NewHTMLTokenizer(strings.NewReader("x"))
	require.NoError(t, err)
	n := 0
	for tok.Next() {
		tok.Token()
		n++
	}
	assert.Equal(t, 2, n)
	assert.False(t, tok.Next())
}
