package parser

import (
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"

	"github.com/paperjet/paperjet/parser/dom"
)

// TokenizerState is the coarse tokenizer state the tree constructor is
// allowed to flip when it enters the Text insertion mode or <plaintext>.
// The fine-grained sub-states (tag scanning, comments, doctypes) stay
// internal to the tokenizer.
type TokenizerState uint8

const (
	DataState TokenizerState = iota
	RCDATAState
	RAWTEXTState
	ScriptDataState
	PlaintextState
)

// HTMLTokenizer classifies raw input into the token stream the tree
// constructor consumes. It is pull-based: the caller asks for one token at a
// time, which is what lets the tree constructor change the tokenizer state
// between tokens (<script>, <style>, <textarea>, ...).
type HTMLTokenizer struct {
	input   []rune
	pos     int
	state   TokenizerState
	pending []*Token

	// lastStartTagName is the most recent start tag emitted; RCDATA and
	// RAWTEXT sections end only at the matching end tag.
	lastStartTagName string
	emittedEOF       bool
}

// NewHTMLTokenizer reads all of htmlIn and returns a tokenizer over it. The
// input is consumed eagerly; newline normalization (CRLF and CR to LF)
// happens here so no later stage ever sees a carriage return.
func NewHTMLTokenizer(htmlIn io.Reader) (*HTMLTokenizer, error) {
	raw, err := ioutil.ReadAll(htmlIn)
	if err != nil {
		return nil, errors.Wrap(err, "reading markup input")
	}
	normalized := strings.ReplaceAll(string(raw), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return &HTMLTokenizer{input: []rune(normalized)}, nil
}

// SetState switches the tokenizer state. Only the tree constructor calls
// this, and only between tokens.
func (p *HTMLTokenizer) SetState(s TokenizerState) {
	p.state = s
}

// Next reports whether another token is available. The end-of-file token is
// the last one.
func (p *HTMLTokenizer) Next() bool {
	return !p.emittedEOF
}

// Token returns the next token. After the end-of-file token has been
// returned, Next reports false.
func (p *HTMLTokenizer) Token() *Token {
	for len(p.pending) == 0 {
		p.scan()
	}
	t := p.pending[0]
	p.pending = p.pending[1:]
	if t.TokenType == endOfFileToken {
		p.emittedEOF = true
	}
	return t
}

func (p *HTMLTokenizer) scan() {
	switch p.state {
	case DataState:
		p.scanData()
	case RCDATAState, RAWTEXTState, ScriptDataState:
		p.scanRawText()
	case PlaintextState:
		p.scanPlaintext()
	}
}

func (p *HTMLTokenizer) emit(t *Token) {
	p.pending = append(p.pending, t)
}

func (p *HTMLTokenizer) emitEOF() {
	p.emit(&Token{TokenType: endOfFileToken})
}

// emitText splits a run of characters into alternating space and non-space
// character tokens; the table modes need to know which is which before
// deciding between direct insertion and foster parenting.
func (p *HTMLTokenizer) emitText(s string) {
	if s == "" {
		return
	}
	runes := []rune(s)
	start := 0
	inSpace := isSpaceRune(runes[0])
	for i, r := range runes {
		if isSpaceRune(r) == inSpace {
			continue
		}
		p.emitTextRun(string(runes[start:i]), inSpace)
		start = i
		inSpace = !inSpace
	}
	p.emitTextRun(string(runes[start:]), inSpace)
}

func (p *HTMLTokenizer) emitTextRun(s string, space bool) {
	tt := characterToken
	if space {
		tt = spaceCharacterToken
	}
	p.emit(&Token{TokenType: tt, Data: s})
}

func isSpaceRune(r rune) bool {
	switch r {
	case '\t', '\n', '\f', ' ':
		return true
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func (p *HTMLTokenizer) eof() bool {
	return p.pos >= len(p.input)
}

func (p *HTMLTokenizer) peek(ahead int) (rune, bool) {
	if p.pos+ahead >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos+ahead], true
}

func (p *HTMLTokenizer) hasPrefixFoldAt(ahead int, s string) bool {
	if p.pos+ahead+len(s) > len(p.input) {
		return false
	}
	return strings.EqualFold(string(p.input[p.pos+ahead:p.pos+ahead+len(s)]), s)
}

func (p *HTMLTokenizer) scanData() {
	if p.eof() {
		p.emitEOF()
		return
	}

	if p.input[p.pos] == '<' {
		p.scanMarkup()
		return
	}

	start := p.pos
	for !p.eof() && p.input[p.pos] != '<' {
		p.pos++
	}
	p.emitText(string(p.input[start:p.pos]))
}

func (p *HTMLTokenizer) scanMarkup() {
	// pos is at '<'
	next, ok := p.peek(1)
	switch {
	case !ok:
		p.pos++
		p.emitText("<")
	case isASCIILetter(next):
		p.pos++
		p.scanTag(startTagToken)
	case next == '/':
		p.scanEndTagOpen()
	case next == '!':
		p.scanMarkupDeclaration()
	case next == '?':
		// bogus comment per the standard
		p.pos += 2
		p.scanBogusComment("?")
	default:
		p.pos++
		p.emitText("<")
	}
}

func (p *HTMLTokenizer) scanEndTagOpen() {
	// pos is at '<', next is '/'
	next, ok := p.peek(2)
	switch {
	case !ok:
		p.pos = len(p.input)
		p.emitEOF()
	case isASCIILetter(next):
		p.pos += 2
		p.scanTag(endTagToken)
	case next == '>':
		// "</>" produces nothing
		p.pos += 3
	default:
		p.pos += 2
		p.scanBogusComment("")
	}
}

func (p *HTMLTokenizer) scanMarkupDeclaration() {
	// pos is at '<', next is '!'
	switch {
	case p.hasPrefixFoldAt(2, "--"):
		p.pos += 2 + len("--")
		p.scanComment()
	case p.hasPrefixFoldAt(2, "doctype"):
		p.pos += 2 + len("doctype")
		p.scanDoctype()
	default:
		p.pos += 2
		p.scanBogusComment("")
	}
}

func (p *HTMLTokenizer) scanComment() {
	start := p.pos
	for ; p.pos < len(p.input); p.pos++ {
		if p.input[p.pos] == '-' && p.hasPrefixFoldAt(0, "-->") {
			data := string(p.input[start:p.pos])
			p.pos += len("-->")
			p.emit(&Token{TokenType: commentToken, Data: data})
			return
		}
	}
	// eof in comment
	p.emit(&Token{TokenType: commentToken, Data: string(p.input[start:])})
	p.emitEOF()
}

func (p *HTMLTokenizer) scanBogusComment(prefix string) {
	start := p.pos
	for !p.eof() && p.input[p.pos] != '>' {
		p.pos++
	}
	data := prefix + string(p.input[start:p.pos])
	if !p.eof() {
		p.pos++ // consume '>'
	}
	p.emit(&Token{TokenType: commentToken, Data: data})
}

func (p *HTMLTokenizer) scanTag(tt tokenType) {
	// pos is at the first letter of the tag name
	t := &Token{TokenType: tt}
	start := p.pos
	for !p.eof() {
		r := p.input[p.pos]
		if isSpaceRune(r) || r == '/' || r == '>' {
			break
		}
		p.pos++
	}
	t.TagName = strings.ToLower(string(p.input[start:p.pos]))

	for {
		p.skipSpace()
		if p.eof() {
			p.emitEOF()
			return
		}
		switch p.input[p.pos] {
		case '>':
			p.pos++
			p.finishTag(t)
			return
		case '/':
			if next, ok := p.peek(1); ok && next == '>' {
				p.pos += 2
				t.SelfClosing = true
				p.finishTag(t)
				return
			}
			// stray slash inside a tag is dropped
			p.pos++
		default:
			p.scanAttribute(t)
		}
	}
}

func (p *HTMLTokenizer) finishTag(t *Token) {
	if t.TokenType == startTagToken {
		p.lastStartTagName = t.TagName
	}
	p.emit(t)
}

func (p *HTMLTokenizer) scanAttribute(t *Token) {
	start := p.pos
	for !p.eof() {
		r := p.input[p.pos]
		if isSpaceRune(r) || r == '=' || r == '/' || r == '>' {
			break
		}
		p.pos++
	}
	name := strings.ToLower(string(p.input[start:p.pos]))
	var value string

	p.skipSpace()
	if !p.eof() && p.input[p.pos] == '=' {
		p.pos++
		p.skipSpace()
		value = p.scanAttributeValue()
	}

	if name == "" {
		return
	}
	// a repeated attribute name keeps the first occurrence
	for _, attr := range t.Attributes {
		if attr.Name == name {
			return
		}
	}
	t.Attributes = append(t.Attributes, dom.Attr{Name: name, Value: value})
}

func (p *HTMLTokenizer) scanAttributeValue() string {
	if p.eof() {
		return ""
	}
	if q := p.input[p.pos]; q == '"' || q == '\'' {
		p.pos++
		start := p.pos
		for !p.eof() && p.input[p.pos] != q {
			p.pos++
		}
		value := string(p.input[start:p.pos])
		if !p.eof() {
			p.pos++ // closing quote
		}
		return value
	}
	start := p.pos
	for !p.eof() {
		r := p.input[p.pos]
		if isSpaceRune(r) || r == '>' {
			break
		}
		p.pos++
	}
	return string(p.input[start:p.pos])
}

func (p *HTMLTokenizer) skipSpace() {
	for !p.eof() && isSpaceRune(p.input[p.pos]) {
		p.pos++
	}
}

// scanRawText covers RCDATA, RAWTEXT, and script data: everything up to the
// matching end tag is character data. Character references and the script
// escape states are out of scope here.
func (p *HTMLTokenizer) scanRawText() {
	start := p.pos
	for !p.eof() {
		if p.input[p.pos] == '<' && p.rawTextEndTagAhead() {
			p.emitText(string(p.input[start:p.pos]))
			p.pos += 2 // "</"
			p.state = DataState
			p.scanTag(endTagToken)
			return
		}
		p.pos++
	}
	p.emitText(string(p.input[start:]))
	p.state = DataState
	p.emitEOF()
}

func (p *HTMLTokenizer) rawTextEndTagAhead() bool {
	if next, ok := p.peek(1); !ok || next != '/' {
		return false
	}
	if !p.hasPrefixFoldAt(2, p.lastStartTagName) {
		return false
	}
	after, ok := p.peek(2 + len(p.lastStartTagName))
	if !ok {
		return true
	}
	return isSpaceRune(after) || after == '/' || after == '>'
}

func (p *HTMLTokenizer) scanPlaintext() {
	p.emitText(string(p.input[p.pos:]))
	p.pos = len(p.input)
	p.state = DataState
	p.emitEOF()
}

func (p *HTMLTokenizer) scanDoctype() {
	t := &Token{
		TokenType:        doctypeToken,
		PublicIdentifier: missing,
		SystemIdentifier: missing,
	}
	p.skipSpace()
	if p.eof() {
		t.ForceQuirks = true
		p.emit(t)
		p.emitEOF()
		return
	}
	if p.input[p.pos] == '>' {
		p.pos++
		t.ForceQuirks = true
		p.emit(t)
		return
	}

	start := p.pos
	for !p.eof() && !isSpaceRune(p.input[p.pos]) && p.input[p.pos] != '>' {
		p.pos++
	}
	t.TagName = strings.ToLower(string(p.input[start:p.pos]))

	p.skipSpace()
	switch {
	case p.eof():
		t.ForceQuirks = true
	case p.input[p.pos] == '>':
		p.pos++
	case p.hasPrefixFoldAt(0, "public"):
		p.pos += len("public")
		p.scanDoctypeIdentifiers(t, true)
	case p.hasPrefixFoldAt(0, "system"):
		p.pos += len("system")
		p.scanDoctypeIdentifiers(t, false)
	default:
		t.ForceQuirks = true
		p.skipToTagClose()
	}
	p.emit(t)
}

func (p *HTMLTokenizer) scanDoctypeIdentifiers(t *Token, public bool) {
	p.skipSpace()
	id, ok := p.scanQuotedIdentifier()
	if !ok {
		t.ForceQuirks = true
		p.skipToTagClose()
		return
	}
	if public {
		t.PublicIdentifier = id
		p.skipSpace()
		if sys, ok := p.scanQuotedIdentifier(); ok {
			t.SystemIdentifier = sys
		}
	} else {
		t.SystemIdentifier = id
	}
	p.skipSpace()
	if !p.eof() && p.input[p.pos] == '>' {
		p.pos++
		return
	}
	if p.eof() {
		t.ForceQuirks = true
		return
	}
	p.skipToTagClose()
}

func (p *HTMLTokenizer) scanQuotedIdentifier() (string, bool) {
	if p.eof() {
		return "", false
	}
	q := p.input[p.pos]
	if q != '"' && q != '\'' {
		return "", false
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.input[p.pos] != q && p.input[p.pos] != '>' {
		p.pos++
	}
	id := string(p.input[start:p.pos])
	if !p.eof() && p.input[p.pos] == q {
		p.pos++
	}
	return id, true
}

func (p *HTMLTokenizer) skipToTagClose() {
	for !p.eof() && p.input[p.pos] != '>' {
		p.pos++
	}
	if !p.eof() {
		p.pos++
	}
}
