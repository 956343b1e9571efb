package parser

import (
	"github.com/paperjet/paperjet/parser/dom"
)

//go:generate stringer -type=tokenType
type tokenType uint8

const (
	characterToken tokenType = iota
	spaceCharacterToken
	startTagToken
	endTagToken
	commentToken
	doctypeToken
	endOfFileToken
)

// missing marks an absent DOCTYPE public or system identifier, which the
// quirks-mode rules distinguish from an empty one.
const missing string = "MISSING"

// Token is one unit of tokenizer output. Tokens are transient: the tree
// constructor owns a token for the duration of one dispatch and never stores
// it.
type Token struct {
	TokenType        tokenType
	TagName          string
	Attributes       dom.AttrList
	SelfClosing      bool
	Data             string
	PublicIdentifier string
	SystemIdentifier string
	ForceQuirks      bool
}

// fakeStartTagToken synthesizes an attribute-less start tag, used to act as
// if a start tag had been seen in the markup.
func fakeStartTagToken(tagName string) *Token {
	return &Token{TokenType: startTagToken, TagName: tagName}
}

// fakeEndTagToken synthesizes an end tag, used to act as if an end tag had
// been seen in the markup.
func fakeEndTagToken(tagName string) *Token {
	return &Token{TokenType: endTagToken, TagName: tagName}
}
