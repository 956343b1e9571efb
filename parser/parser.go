package parser

import (
	"io"
	"strings"

	"github.com/paperjet/paperjet/parser/dom"
)

// Parser couples a tokenizer with a tree constructor. The tree constructor
// drives the tokenizer state for RCDATA, RAWTEXT, script data, and plaintext
// elements, which is why the two halves share one struct.
type Parser struct {
	Tokenizer       *HTMLTokenizer
	TreeConstructor *HTMLTreeConstructor
}

// NewParser reads the whole input up front and prepares a parser for it.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tokenizer, err := NewHTMLTokenizer(r)
	if err != nil {
		return nil, err
	}
	return &Parser{
		Tokenizer:       tokenizer,
		TreeConstructor: NewHTMLTreeConstructor(tokenizer, config),
	}, nil
}

// Parse runs the token stream to completion and returns the document node.
// Malformed markup never fails a parse; recovery is built into the tree
// construction rules.
func (p *Parser) Parse() *dom.Node {
	for p.Tokenizer.Next() {
		p.TreeConstructor.ProcessToken(p.Tokenizer.Token())
	}
	return p.TreeConstructor.Document
}

// ParseHTMLDocument parses a complete HTML document held in a string.
func ParseHTMLDocument(input string, opts ...Option) (*dom.Node, error) {
	p, err := NewParser(strings.NewReader(input), opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(), nil
}
