package parser

import (
	"strings"

	"github.com/paperjet/paperjet/parser/dom"
)

//go:generate stringer -type=insertionMode
type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	inHeadNoscript
	afterHead
	inBody
	text
	inTable
	inTableText
	inCaption
	inColumnGroup
	inTableBody
	inRow
	inCell
	inSelect
	inSelectInTable
	afterBody
	inFrameset
	afterFrameset
	afterAfterBody
	afterAfterFrameset
	inForeignContent
)

type quirksMode string

const (
	noQuirks      quirksMode = "no-quirks"
	quirks        quirksMode = "quirks"
	limitedQuirks quirksMode = "limited-quirks"
)

type treeConstructionModeHandler func(t *Token) parseError

// HTMLTreeConstructor holds the state of the tree construction phase: the
// document being built, the stack of open elements, the list of active
// formatting elements, and the insertion mode machine that drives them.
type HTMLTreeConstructor struct {
	tokenizer *HTMLTokenizer
	config    htmlParserConfig

	Document *dom.Node

	insertionMode         insertionMode
	originalInsertionMode insertionMode
	mappings              map[insertionMode]treeConstructionModeHandler

	openElements     openElementStack
	activeFormatting activeFormattingList

	// head survives leaving head processing; form is the single live
	// <form>, at most one per parse.
	head *dom.Node
	form *dom.Node

	framesetOK             bool
	fosterRedirecting      bool
	skipLeadingNewline     bool
	pendingTableCharacters []*Token
	quirksMode             quirksMode
}

// NewHTMLTreeConstructor creates a tree constructor bound to a tokenizer.
// The tokenizer binding is what lets the constructor flip tokenizer state
// for RCDATA, RAWTEXT, script data, and plaintext elements.
func NewHTMLTreeConstructor(tokenizer *HTMLTokenizer, config htmlParserConfig) *HTMLTreeConstructor {
	c := &HTMLTreeConstructor{
		tokenizer:  tokenizer,
		config:     config,
		Document:   dom.NewDocument(),
		framesetOK: true,
		quirksMode: noQuirks,
	}
	c.createMappings()
	return c
}

func (c *HTMLTreeConstructor) createMappings() {
	c.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:            c.initialModeHandler,
		beforeHTML:         c.beforeHTMLModeHandler,
		beforeHead:         c.beforeHeadModeHandler,
		inHead:             c.inHeadModeHandler,
		inHeadNoscript:     c.inHeadNoscriptModeHandler,
		afterHead:          c.afterHeadModeHandler,
		inBody:             c.inBodyModeHandler,
		text:               c.textModeHandler,
		inTable:            c.inTableModeHandler,
		inTableText:        c.inTableTextModeHandler,
		inCaption:          c.inCaptionModeHandler,
		inColumnGroup:      c.inColumnGroupModeHandler,
		inTableBody:        c.inTableBodyModeHandler,
		inRow:              c.inRowModeHandler,
		inCell:             c.inCellModeHandler,
		inSelect:           c.inSelectModeHandler,
		inSelectInTable:    c.inSelectInTableModeHandler,
		afterBody:          c.afterBodyModeHandler,
		inFrameset:         c.inFramesetModeHandler,
		afterFrameset:      c.afterFramesetModeHandler,
		afterAfterBody:     c.afterAfterBodyModeHandler,
		afterAfterFrameset: c.afterAfterFramesetModeHandler,
		inForeignContent:   c.inForeignContentModeHandler,
	}
}

// ProcessToken runs one token through the machine. Any number of tree
// mutations, mode switches, and synthesized-token re-dispatches happen
// before it returns.
func (c *HTMLTreeConstructor) ProcessToken(t *Token) {
	if c.skipLeadingNewline {
		c.skipLeadingNewline = false
		if t.TokenType == spaceCharacterToken && strings.HasPrefix(t.Data, "\n") {
			trimmed := t.Data[1:]
			if trimmed == "" {
				return
			}
			t = &Token{TokenType: spaceCharacterToken, Data: trimmed}
		}
	}
	c.dispatch(t)
}

// dispatch hands the token to the handler for the effective insertion mode,
// accounting for the foreign content override, and reports any recovered
// parse error. Handlers re-enter dispatch for synthesized tokens and for
// reprocessing after a mode switch.
func (c *HTMLTreeConstructor) dispatch(t *Token) {
	mode := c.insertionMode
	if c.shouldUseForeignContentRules(t) {
		mode = inForeignContent
	}
	if err := c.mappings[mode](t); err != noError {
		c.config.errorHandler(err, t)
	}
}

// shouldUseForeignContentRules implements the tree construction dispatcher
// rule: the adjusted current node's namespace decides whether the token goes
// to the HTML insertion mode or the foreign content rules.
func (c *HTMLTreeConstructor) shouldUseForeignContentRules(t *Token) bool {
	if c.openElements.empty() {
		return false
	}
	adjusted := c.openElements.top()
	if adjusted.Namespace == dom.HTMLNamespace {
		return false
	}
	if t.TokenType == endOfFileToken {
		return false
	}
	if isMathMLTextIntegrationPoint(adjusted) {
		if t.TokenType == startTagToken && t.TagName != "mglyph" && t.TagName != "malignmark" {
			return false
		}
		if t.TokenType == characterToken || t.TokenType == spaceCharacterToken {
			return false
		}
	}
	if adjusted.IsElement(dom.MathMLNamespace, "annotation-xml") &&
		t.TokenType == startTagToken && t.TagName == "svg" {
		return false
	}
	if isHTMLIntegrationPoint(adjusted) {
		switch t.TokenType {
		case startTagToken, characterToken, spaceCharacterToken:
			return false
		}
	}
	return true
}

// useRulesFor processes the token with another mode's handler without
// changing the current mode.
func (c *HTMLTreeConstructor) useRulesFor(t *Token, mode insertionMode) parseError {
	return c.mappings[mode](t)
}

// element insertion ------------------------------------------------------

func (c *HTMLTreeConstructor) createElementForToken(t *Token, ns dom.Namespace) *dom.Node {
	return dom.NewElement(t.TagName, ns, t.Attributes)
}

// insertionLocation returns the appropriate place for inserting a node:
// usually (current node, append), redirected when foster parenting applies.
func (c *HTMLTreeConstructor) insertionLocation() (parent, before *dom.Node) {
	if c.shouldFosterParent() {
		return c.fosterLocation()
	}
	return c.openElements.top(), nil
}

func (c *HTMLTreeConstructor) insertNode(n *dom.Node) {
	parent, before := c.insertionLocation()
	if before != nil {
		parent.InsertBefore(n, before)
		return
	}
	parent.AppendChild(n)
}

func (c *HTMLTreeConstructor) insertHTMLElementForToken(t *Token) *dom.Node {
	elem := c.createElementForToken(t, dom.HTMLNamespace)
	c.insertNode(elem)
	c.openElements.push(elem)
	return elem
}

// insertSelfClosingHTMLElement inserts a void element: it lands in the tree
// but never on the stack.
func (c *HTMLTreeConstructor) insertSelfClosingHTMLElement(t *Token) *dom.Node {
	elem := c.createElementForToken(t, dom.HTMLNamespace)
	c.insertNode(elem)
	return elem
}

func (c *HTMLTreeConstructor) insertForeignElementForToken(t *Token, ns dom.Namespace) *dom.Node {
	tag := t.TagName
	if ns == dom.SVGNamespace {
		tag = adjustSVGTagName(tag)
	}
	elem := dom.NewElement(tag, ns, adjustForeignAttributes(t.Attributes, ns))
	c.insertNode(elem)
	if !t.SelfClosing {
		c.openElements.push(elem)
	}
	return elem
}

func (c *HTMLTreeConstructor) insertHeadElementForToken(t *Token) *dom.Node {
	elem := c.createElementForToken(t, dom.HTMLNamespace)
	c.insertNode(elem)
	c.openElements.pushHead(elem)
	c.head = elem
	return elem
}

func (c *HTMLTreeConstructor) insertBodyElementForToken(t *Token) *dom.Node {
	elem := c.createElementForToken(t, dom.HTMLNamespace)
	c.insertNode(elem)
	c.openElements.pushBody(elem)
	return elem
}

// insertCharacters puts character data at the insertion location, merging
// into an existing adjacent text node so consecutive runs become one node.
func (c *HTMLTreeConstructor) insertCharacters(data string) {
	parent, before := c.insertionLocation()
	if parent.Type == dom.DocumentNode {
		// characters are never document children
		return
	}
	if before != nil {
		if prev := before.PreviousSibling(); prev != nil && prev.Type == dom.TextNode {
			prev.Data += data
			return
		}
		parent.InsertBefore(dom.NewText(data), before)
		return
	}
	if last := parent.LastChild(); last != nil && last.Type == dom.TextNode {
		last.Data += data
		return
	}
	parent.AppendChild(dom.NewText(data))
}

func (c *HTMLTreeConstructor) insertComment(t *Token) {
	c.insertNode(dom.NewComment(t.Data))
}

func (c *HTMLTreeConstructor) insertCommentOn(t *Token, parent *dom.Node) {
	parent.AppendChild(dom.NewComment(t.Data))
}

// foster parenting -------------------------------------------------------

// shouldFosterParent is true exactly when foster redirection is armed and
// the insertion would otherwise land inside table structure.
func (c *HTMLTreeConstructor) shouldFosterParent() bool {
	return c.fosterRedirecting &&
		c.openElements.top().IsHTMLElement("table", "tbody", "tfoot", "thead", "tr")
}

// fosterLocation finds the lowest open <table> and redirects the insertion
// to immediately before it. A detached table falls back to the stack entry
// below it.
func (c *HTMLTreeConstructor) fosterLocation() (parent, before *dom.Node) {
	table := c.openElements.topmost("table")
	if table == nil {
		return c.openElements.at(0), nil
	}
	if table.Parent != nil {
		return table.Parent, table
	}
	return c.openElements.previous(table), nil
}

// active formatting reconstruction ---------------------------------------

// reconstructActiveFormattingElements re-opens every live formatting entry
// that is no longer on the stack of open elements, cloning each and swapping
// the clone into the list so the list always refers to open elements.
// Calling it twice in a row is a no-op the second time.
func (c *HTMLTreeConstructor) reconstructActiveFormattingElements() {
	l := &c.activeFormatting
	if l.len() == 0 {
		return
	}
	last := l.at(l.len() - 1)
	if last == nil || c.openElements.contains(last) {
		return
	}

	// rewind to the entry after the last marker or open element
	i := l.len() - 1
	for {
		entry := l.at(i)
		if entry == nil || c.openElements.contains(entry) {
			i++
			break
		}
		if i == 0 {
			break
		}
		i--
	}

	for ; i < l.len(); i++ {
		clone := l.at(i).CloneShallow()
		c.insertNode(clone)
		c.openElements.push(clone)
		l.entries[i] = clone
	}
}

// shared closures --------------------------------------------------------

// closePElement closes the open <p>, popping any implied end tags above it.
func (c *HTMLTreeConstructor) closePElement() parseError {
	c.openElements.generateImpliedEndTagsExcept("p")
	err := noError
	if !c.openElements.top().IsHTMLElement("p") {
		err = generalParseError
	}
	c.openElements.popUntilPopped("p")
	return err
}

// anyOtherEndTagInBody is the generic scoped closure for end tags with no
// special rule: find a matching open element, close it, or ignore the token
// if a special element intervenes.
func (c *HTMLTreeConstructor) anyOtherEndTagInBody(t *Token) parseError {
	for i := c.openElements.len() - 1; i >= 0; i-- {
		node := c.openElements.at(i)
		if node.IsHTMLElement(t.TagName) {
			c.openElements.generateImpliedEndTagsExcept(t.TagName)
			err := noError
			if node != c.openElements.top() {
				err = generalParseError
			}
			c.openElements.popUntilElementPopped(node)
			return err
		}
		if isSpecialElement(node) {
			return generalParseError
		}
	}
	return generalParseError
}

// parseRawText starts a raw-text-ish element: insert it, flip the tokenizer,
// and park the current mode until the matching end tag arrives.
func (c *HTMLTreeConstructor) parseRawText(t *Token, state TokenizerState) {
	c.insertHTMLElementForToken(t)
	c.tokenizer.SetState(state)
	c.originalInsertionMode = c.insertionMode
	c.insertionMode = text
}

// resetInsertionMode recomputes the mode from the stack contents, used after
// closing tables, selects, and cells.
func (c *HTMLTreeConstructor) resetInsertionMode() {
	for i := c.openElements.len() - 1; i >= 0; i-- {
		node := c.openElements.at(i)
		last := i == 0
		if node.Namespace != dom.HTMLNamespace {
			if last {
				break
			}
			continue
		}
		switch node.Tag {
		case "select":
			c.insertionMode = inSelect
			for j := i - 1; j >= 0; j-- {
				if c.openElements.at(j).IsHTMLElement("table") {
					c.insertionMode = inSelectInTable
					break
				}
			}
			return
		case "td", "th":
			if !last {
				c.insertionMode = inCell
				return
			}
		case "tr":
			c.insertionMode = inRow
			return
		case "tbody", "thead", "tfoot":
			c.insertionMode = inTableBody
			return
		case "caption":
			c.insertionMode = inCaption
			return
		case "colgroup":
			c.insertionMode = inColumnGroup
			return
		case "table":
			c.insertionMode = inTable
			return
		case "head":
			c.insertionMode = inHead
			return
		case "body":
			c.insertionMode = inBody
			return
		case "frameset":
			c.insertionMode = inFrameset
			return
		case "html":
			if c.head == nil {
				c.insertionMode = beforeHead
			} else {
				c.insertionMode = afterHead
			}
			return
		}
	}
	c.insertionMode = inBody
}

// stopParsing force-drains the stack; the document is complete.
func (c *HTMLTreeConstructor) stopParsing() {
	c.openElements.drain()
	if c.config.finishedHandler != nil {
		c.config.finishedHandler()
	}
}
