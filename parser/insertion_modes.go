package parser

import (
	"strings"

	"github.com/paperjet/paperjet/parser/dom"
)

// The handlers below implement one insertion mode each. A handler mutates
// the tree and the parser state for one token and returns whether a parse
// error was recovered while doing so. Handlers synthesize missing structure
// by building fake tokens and re-entering dispatch, so a single input token
// can ripple through several modes before settling.

func (c *HTMLTreeConstructor) initialModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		return noError
	case commentToken:
		c.insertCommentOn(t, c.Document)
		return noError
	case doctypeToken:
		err := noError
		if t.TagName != "html" ||
			t.PublicIdentifier != missing ||
			(t.SystemIdentifier != missing && t.SystemIdentifier != "about:legacy-compat") {
			err = generalParseError
		}
		pub, sys := t.PublicIdentifier, t.SystemIdentifier
		if pub == missing {
			pub = ""
		}
		if sys == missing {
			sys = ""
		}
		c.Document.AppendChild(dom.NewDoctype(t.TagName, pub, sys))
		c.quirksMode = quirksModeFromDoctype(t)
		c.insertionMode = beforeHTML
		return err
	}
	// a document with no DOCTYPE renders in quirks mode
	c.quirksMode = quirks
	c.insertionMode = beforeHTML
	c.dispatch(t)
	return generalParseError
}

func (c *HTMLTreeConstructor) beforeHTMLModeHandler(t *Token) parseError {
	switch t.TokenType {
	case doctypeToken:
		return generalParseError
	case commentToken:
		c.insertCommentOn(t, c.Document)
		return noError
	case spaceCharacterToken:
		return noError
	case startTagToken:
		if t.TagName == "html" {
			elem := c.createElementForToken(t, dom.HTMLNamespace)
			c.Document.AppendChild(elem)
			c.openElements.pushHTML(elem)
			c.insertionMode = beforeHead
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			return generalParseError
		}
	}
	elem := dom.NewElement("html", dom.HTMLNamespace, nil)
	c.Document.AppendChild(elem)
	c.openElements.pushHTML(elem)
	c.insertionMode = beforeHead
	c.dispatch(t)
	return noError
}

func (c *HTMLTreeConstructor) beforeHeadModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "head":
			c.insertHeadElementForToken(t)
			c.insertionMode = inHead
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			return generalParseError
		}
	}
	c.dispatch(fakeStartTagToken("head"))
	c.dispatch(t)
	return noError
}

func (c *HTMLTreeConstructor) inHeadModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "base", "basefont", "bgsound", "link", "meta":
			c.insertSelfClosingHTMLElement(t)
			return noError
		case "title":
			c.parseRawText(t, RCDATAState)
			return noError
		case "noscript":
			if c.config.scriptingEnabled {
				c.parseRawText(t, RAWTEXTState)
				return noError
			}
			c.insertHTMLElementForToken(t)
			c.insertionMode = inHeadNoscript
			return noError
		case "noframes", "style":
			c.parseRawText(t, RAWTEXTState)
			return noError
		case "script":
			c.parseRawText(t, ScriptDataState)
			return noError
		case "head":
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "head":
			c.openElements.popHead()
			c.insertionMode = afterHead
			return noError
		case "body", "html", "br":
		default:
			return generalParseError
		}
	}
	c.openElements.popHead()
	c.insertionMode = afterHead
	c.dispatch(t)
	return noError
}

func (c *HTMLTreeConstructor) inHeadNoscriptModeHandler(t *Token) parseError {
	switch t.TokenType {
	case doctypeToken:
		return generalParseError
	case spaceCharacterToken, commentToken:
		return c.useRulesFor(t, inHead)
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return c.useRulesFor(t, inHead)
		case "head", "noscript":
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "noscript":
			c.openElements.pop()
			c.insertionMode = inHead
			return noError
		case "br":
		default:
			return generalParseError
		}
	}
	c.openElements.pop()
	c.insertionMode = inHead
	c.dispatch(t)
	return generalParseError
}

func (c *HTMLTreeConstructor) afterHeadModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "body":
			c.insertBodyElementForToken(t)
			c.framesetOK = false
			c.insertionMode = inBody
			return noError
		case "frameset":
			c.insertHTMLElementForToken(t)
			c.insertionMode = inFrameset
			return noError
		case "base", "basefont", "bgsound", "link", "meta",
			"noframes", "script", "style", "title":
			// the head has already been closed; reopen it for this one token
			head := c.head
			c.openElements.pushHead(head)
			err := c.useRulesFor(t, inHead)
			c.openElements.removeHeadElement(head)
			if err == noError {
				err = generalParseError
			}
			return err
		case "head":
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "body", "html", "br":
		default:
			return generalParseError
		}
	}
	c.insertBodyElementForToken(fakeStartTagToken("body"))
	c.insertionMode = inBody
	c.dispatch(t)
	return noError
}

// eofPermittedOpenTags are the elements that may legitimately still be open
// when the input ends.
var eofPermittedOpenTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "p": true,
	"tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "body": true, "html": true,
}

func (c *HTMLTreeConstructor) inBodyModeHandler(t *Token) parseError {
	switch t.TokenType {
	case characterToken:
		err := noError
		data := t.Data
		if strings.ContainsRune(data, 0) {
			data = strings.ReplaceAll(data, "\x00", "")
			err = generalParseError
			if data == "" {
				return err
			}
		}
		c.reconstructActiveFormattingElements()
		c.insertCharacters(data)
		c.framesetOK = false
		return err
	case spaceCharacterToken:
		c.reconstructActiveFormattingElements()
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case endOfFileToken:
		err := noError
		for _, n := range c.openElements.elements {
			if n.Namespace != dom.HTMLNamespace || !eofPermittedOpenTags[n.Tag] {
				err = generalParseError
				break
			}
		}
		c.stopParsing()
		return err
	case startTagToken:
		return c.inBodyStartTag(t)
	case endTagToken:
		return c.inBodyEndTag(t)
	}
	return noError
}

func (c *HTMLTreeConstructor) inBodyStartTag(t *Token) parseError {
	switch t.TagName {
	case "html":
		if c.openElements.htmlEl != nil {
			c.openElements.htmlEl.Attrs.Merge(t.Attributes)
		}
		return generalParseError
	case "base", "basefont", "bgsound", "link", "meta",
		"noframes", "script", "style", "title":
		return c.useRulesFor(t, inHead)
	case "body":
		if c.openElements.bodyEl != nil {
			c.framesetOK = false
			c.openElements.bodyEl.Attrs.Merge(t.Attributes)
		}
		return generalParseError
	case "frameset":
		if c.openElements.bodyEl == nil || !c.framesetOK {
			return generalParseError
		}
		c.openElements.removeBodyElement()
		c.insertHTMLElementForToken(t)
		c.insertionMode = inFrameset
		return generalParseError
	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		err := c.closePElementIfInButtonScope()
		c.insertHTMLElementForToken(t)
		return err
	case "h1", "h2", "h3", "h4", "h5", "h6":
		err := c.closePElementIfInButtonScope()
		if c.openElements.top().IsHTMLElement("h1", "h2", "h3", "h4", "h5", "h6") {
			err = generalParseError
			c.openElements.pop()
		}
		c.insertHTMLElementForToken(t)
		return err
	case "pre", "listing":
		err := c.closePElementIfInButtonScope()
		c.insertHTMLElementForToken(t)
		c.skipLeadingNewline = true
		c.framesetOK = false
		return err
	case "form":
		if c.form != nil {
			return generalParseError
		}
		err := c.closePElementIfInButtonScope()
		c.form = c.insertHTMLElementForToken(t)
		return err
	case "li":
		return c.listItemStartTag(t, "li")
	case "dd", "dt":
		return c.listItemStartTag(t, "dd", "dt")
	case "plaintext":
		err := c.closePElementIfInButtonScope()
		c.insertHTMLElementForToken(t)
		c.tokenizer.SetState(PlaintextState)
		return err
	case "button":
		err := noError
		if c.openElements.hasInScope("button") {
			err = generalParseError
			c.openElements.generateImpliedEndTags()
			c.openElements.popUntilPopped("button")
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		return err
	case "a":
		err := noError
		if open := c.activeFormatting.closestElementInScope("a"); open != nil {
			err = generalParseError
			c.adoptionAgency(fakeEndTagToken("a"))
			c.activeFormatting.remove(open)
			c.openElements.removeElement(open)
		}
		c.reconstructActiveFormattingElements()
		c.activeFormatting.append(c.insertHTMLElementForToken(t))
		return err
	case "b", "big", "code", "em", "font", "i", "s",
		"small", "strike", "strong", "tt", "u":
		c.reconstructActiveFormattingElements()
		c.activeFormatting.append(c.insertHTMLElementForToken(t))
		return noError
	case "nobr":
		err := noError
		c.reconstructActiveFormattingElements()
		if c.openElements.hasInScope("nobr") {
			err = generalParseError
			c.adoptionAgency(fakeEndTagToken("nobr"))
			c.reconstructActiveFormattingElements()
		}
		c.activeFormatting.append(c.insertHTMLElementForToken(t))
		return err
	case "applet", "marquee", "object":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.activeFormatting.appendMarker()
		c.framesetOK = false
		return noError
	case "table":
		err := noError
		if c.quirksMode != quirks && c.openElements.hasInButtonScope("p") {
			err = c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		c.insertionMode = inTable
		return err
	case "area", "br", "embed", "img", "keygen", "wbr":
		c.reconstructActiveFormattingElements()
		c.insertSelfClosingHTMLElement(t)
		c.framesetOK = false
		return noError
	case "input":
		c.reconstructActiveFormattingElements()
		c.insertSelfClosingHTMLElement(t)
		if typ, ok := t.Attributes.Get("type"); !ok || !strings.EqualFold(typ, "hidden") {
			c.framesetOK = false
		}
		return noError
	case "param", "source", "track":
		c.insertSelfClosingHTMLElement(t)
		return noError
	case "hr":
		err := c.closePElementIfInButtonScope()
		c.insertSelfClosingHTMLElement(t)
		c.framesetOK = false
		return err
	case "image":
		// the classic misnomer fixup
		retagged := *t
		retagged.TagName = "img"
		c.dispatch(&retagged)
		return generalParseError
	case "textarea":
		c.insertHTMLElementForToken(t)
		c.skipLeadingNewline = true
		c.tokenizer.SetState(RCDATAState)
		c.originalInsertionMode = c.insertionMode
		c.framesetOK = false
		c.insertionMode = text
		return noError
	case "xmp":
		err := c.closePElementIfInButtonScope()
		c.reconstructActiveFormattingElements()
		c.framesetOK = false
		c.parseRawText(t, RAWTEXTState)
		return err
	case "iframe":
		c.framesetOK = false
		c.parseRawText(t, RAWTEXTState)
		return noError
	case "noembed":
		c.parseRawText(t, RAWTEXTState)
		return noError
	case "noscript":
		if c.config.scriptingEnabled {
			c.parseRawText(t, RAWTEXTState)
			return noError
		}
	case "select":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		switch c.insertionMode {
		case inTable, inCaption, inTableBody, inRow, inCell:
			c.insertionMode = inSelectInTable
		default:
			c.insertionMode = inSelect
		}
		return noError
	case "optgroup", "option":
		if c.openElements.top().IsHTMLElement("option") {
			c.openElements.pop()
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		return noError
	case "rb", "rtc":
		err := noError
		if c.openElements.hasInScope("ruby") {
			c.openElements.generateImpliedEndTags()
			if !c.openElements.top().IsHTMLElement("ruby") {
				err = generalParseError
			}
		}
		c.insertHTMLElementForToken(t)
		return err
	case "rp", "rt":
		err := noError
		if c.openElements.hasInScope("ruby") {
			c.openElements.generateImpliedEndTagsExcept("rtc")
			if !c.openElements.top().IsHTMLElement("ruby", "rtc") {
				err = generalParseError
			}
		}
		c.insertHTMLElementForToken(t)
		return err
	case "math":
		c.reconstructActiveFormattingElements()
		c.insertForeignElementForToken(t, dom.MathMLNamespace)
		return noError
	case "svg":
		c.reconstructActiveFormattingElements()
		c.insertForeignElementForToken(t, dom.SVGNamespace)
		return noError
	case "caption", "col", "colgroup", "frame", "head",
		"tbody", "td", "tfoot", "th", "thead", "tr":
		return generalParseError
	}
	c.reconstructActiveFormattingElements()
	c.insertHTMLElementForToken(t)
	return noError
}

func (c *HTMLTreeConstructor) closePElementIfInButtonScope() parseError {
	if c.openElements.hasInButtonScope("p") {
		return c.closePElement()
	}
	return noError
}

// listItemStartTag handles li/dd/dt: close an open item of the same kind
// first, unless a special element other than address/div/p intervenes.
func (c *HTMLTreeConstructor) listItemStartTag(t *Token, closeTags ...string) parseError {
	c.framesetOK = false
	for i := c.openElements.len() - 1; i >= 0; i-- {
		node := c.openElements.at(i)
		if node.IsHTMLElement(closeTags...) {
			c.dispatch(fakeEndTagToken(node.Tag))
			break
		}
		if isSpecialElement(node) && !node.IsHTMLElement("address", "div", "p") {
			break
		}
	}
	err := c.closePElementIfInButtonScope()
	c.insertHTMLElementForToken(t)
	return err
}

// bodyEndPermittedOpenTags are the elements an explicit </body> may leave
// open without a parse error.
var bodyEndPermittedOpenTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "body": true, "html": true,
}

func (c *HTMLTreeConstructor) inBodyEndTag(t *Token) parseError {
	switch t.TagName {
	case "body", "html":
		if !c.openElements.hasInScope("body") {
			return generalParseError
		}
		err := noError
		for _, n := range c.openElements.elements {
			if n.Namespace != dom.HTMLNamespace || !bodyEndPermittedOpenTags[n.Tag] {
				err = generalParseError
				break
			}
		}
		c.insertionMode = afterBody
		if t.TagName == "html" {
			c.dispatch(t)
		}
		return err
	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !c.openElements.hasInScope(t.TagName) {
			return generalParseError
		}
		c.openElements.generateImpliedEndTags()
		err := noError
		if !c.openElements.top().IsHTMLElement(t.TagName) {
			err = generalParseError
		}
		c.openElements.popUntilPopped(t.TagName)
		return err
	case "form":
		node := c.form
		c.form = nil
		if node == nil || !c.openElements.hasElementInScope(node) {
			return generalParseError
		}
		c.openElements.generateImpliedEndTags()
		err := noError
		if c.openElements.top() != node {
			err = generalParseError
		}
		c.openElements.removeElement(node)
		return err
	case "p":
		if !c.openElements.hasInButtonScope("p") {
			c.insertHTMLElementForToken(fakeStartTagToken("p"))
			c.closePElement()
			return generalParseError
		}
		return c.closePElement()
	case "li":
		if !c.openElements.hasInListItemScope("li") {
			return generalParseError
		}
		c.openElements.generateImpliedEndTagsExcept("li")
		err := noError
		if !c.openElements.top().IsHTMLElement("li") {
			err = generalParseError
		}
		c.openElements.popUntilPopped("li")
		return err
	case "dd", "dt":
		if !c.openElements.hasInScope(t.TagName) {
			return generalParseError
		}
		c.openElements.generateImpliedEndTagsExcept(t.TagName)
		err := noError
		if !c.openElements.top().IsHTMLElement(t.TagName) {
			err = generalParseError
		}
		c.openElements.popUntilPopped(t.TagName)
		return err
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if !c.openElements.hasNumberedHeaderInScope() {
			return generalParseError
		}
		c.openElements.generateImpliedEndTags()
		err := noError
		if !c.openElements.top().IsHTMLElement(t.TagName) {
			err = generalParseError
		}
		c.openElements.popUntilNumberedHeaderElementPopped()
		return err
	case "a", "b", "big", "code", "em", "font", "i", "nobr",
		"s", "small", "strike", "strong", "tt", "u":
		return c.adoptionAgency(t)
	case "applet", "marquee", "object":
		if !c.openElements.hasInScope(t.TagName) {
			return generalParseError
		}
		c.openElements.generateImpliedEndTags()
		err := noError
		if !c.openElements.top().IsHTMLElement(t.TagName) {
			err = generalParseError
		}
		c.openElements.popUntilPopped(t.TagName)
		c.activeFormatting.clearToLastMarker()
		return err
	case "br":
		// </br> behaves as <br>
		c.reconstructActiveFormattingElements()
		c.insertSelfClosingHTMLElement(fakeStartTagToken("br"))
		c.framesetOK = false
		return generalParseError
	}
	return c.anyOtherEndTagInBody(t)
}

func (c *HTMLTreeConstructor) textModeHandler(t *Token) parseError {
	switch t.TokenType {
	case characterToken, spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case endOfFileToken:
		c.openElements.pop()
		c.insertionMode = c.originalInsertionMode
		c.dispatch(t)
		return generalParseError
	case endTagToken:
		c.openElements.pop()
		c.insertionMode = c.originalInsertionMode
		return noError
	}
	return noError
}

func (c *HTMLTreeConstructor) inTableModeHandler(t *Token) parseError {
	switch t.TokenType {
	case characterToken, spaceCharacterToken:
		if c.openElements.top().IsHTMLElement("table", "tbody", "tfoot", "thead", "tr") {
			c.pendingTableCharacters = nil
			c.originalInsertionMode = c.insertionMode
			c.insertionMode = inTableText
			c.dispatch(t)
			return noError
		}
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "caption":
			c.openElements.popUntilTableScopeMarker()
			c.activeFormatting.appendMarker()
			c.insertHTMLElementForToken(t)
			c.insertionMode = inCaption
			return noError
		case "colgroup":
			c.openElements.popUntilTableScopeMarker()
			c.insertHTMLElementForToken(t)
			c.insertionMode = inColumnGroup
			return noError
		case "col":
			c.dispatch(fakeStartTagToken("colgroup"))
			c.dispatch(t)
			return noError
		case "tbody", "tfoot", "thead":
			c.openElements.popUntilTableScopeMarker()
			c.insertHTMLElementForToken(t)
			c.insertionMode = inTableBody
			return noError
		case "td", "th", "tr":
			c.dispatch(fakeStartTagToken("tbody"))
			c.dispatch(t)
			return noError
		case "table":
			if !c.openElements.hasInTableScope("table") {
				return generalParseError
			}
			c.openElements.popUntilPopped("table")
			c.resetInsertionMode()
			c.dispatch(t)
			return generalParseError
		case "style", "script":
			return c.useRulesFor(t, inHead)
		case "input":
			if typ, ok := t.Attributes.Get("type"); ok && strings.EqualFold(typ, "hidden") {
				c.insertSelfClosingHTMLElement(t)
				return generalParseError
			}
		case "form":
			if c.form == nil {
				elem := c.insertHTMLElementForToken(t)
				c.form = elem
				c.openElements.pop()
			}
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "table":
			if !c.openElements.hasInTableScope("table") {
				return generalParseError
			}
			c.openElements.popUntilPopped("table")
			c.resetInsertionMode()
			return noError
		case "body", "caption", "col", "colgroup", "html",
			"tbody", "td", "tfoot", "th", "thead", "tr":
			return generalParseError
		}
	case endOfFileToken:
		return c.useRulesFor(t, inBody)
	}
	// anything else lands outside the table via foster parenting
	c.fosterRedirecting = true
	c.useRulesFor(t, inBody)
	c.fosterRedirecting = false
	return generalParseError
}

func (c *HTMLTreeConstructor) inTableTextModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.pendingTableCharacters = append(c.pendingTableCharacters, t)
		return noError
	case characterToken:
		err := noError
		if strings.ContainsRune(t.Data, 0) {
			data := strings.ReplaceAll(t.Data, "\x00", "")
			err = generalParseError
			if data == "" {
				return err
			}
			t = &Token{TokenType: characterToken, Data: data}
		}
		c.pendingTableCharacters = append(c.pendingTableCharacters, t)
		return err
	}
	err := c.flushPendingTableCharacters()
	c.insertionMode = c.originalInsertionMode
	c.dispatch(t)
	return err
}

// flushPendingTableCharacters decides retroactively where buffered table
// text belongs: pure whitespace stays in the table, anything else is
// replayed through the body rules with foster parenting armed.
func (c *HTMLTreeConstructor) flushPendingTableCharacters() parseError {
	pending := c.pendingTableCharacters
	c.pendingTableCharacters = nil
	anyNonSpace := false
	for _, tok := range pending {
		if tok.TokenType == characterToken {
			anyNonSpace = true
			break
		}
	}
	if !anyNonSpace {
		for _, tok := range pending {
			c.insertCharacters(tok.Data)
		}
		return noError
	}
	c.fosterRedirecting = true
	for _, tok := range pending {
		c.useRulesFor(tok, inBody)
	}
	c.fosterRedirecting = false
	return generalParseError
}

func (c *HTMLTreeConstructor) inCaptionModeHandler(t *Token) parseError {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !c.closeCaption() {
				return generalParseError
			}
			c.dispatch(t)
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "caption":
			if !c.closeCaption() {
				return generalParseError
			}
			return noError
		case "table":
			if !c.closeCaption() {
				return generalParseError
			}
			c.dispatch(t)
			return generalParseError
		case "body", "col", "colgroup", "html",
			"tbody", "td", "tfoot", "th", "thead", "tr":
			return generalParseError
		}
	}
	return c.useRulesFor(t, inBody)
}

func (c *HTMLTreeConstructor) closeCaption() bool {
	if !c.openElements.hasInTableScope("caption") {
		return false
	}
	c.openElements.generateImpliedEndTags()
	c.openElements.popUntilPopped("caption")
	c.activeFormatting.clearToLastMarker()
	c.insertionMode = inTable
	return true
}

func (c *HTMLTreeConstructor) inColumnGroupModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "col":
			c.insertSelfClosingHTMLElement(t)
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "colgroup":
			if !c.openElements.top().IsHTMLElement("colgroup") {
				return generalParseError
			}
			c.openElements.pop()
			c.insertionMode = inTable
			return noError
		case "col":
			return generalParseError
		}
	case endOfFileToken:
		return c.useRulesFor(t, inBody)
	}
	if !c.openElements.top().IsHTMLElement("colgroup") {
		return generalParseError
	}
	c.openElements.pop()
	c.insertionMode = inTable
	c.dispatch(t)
	return noError
}

func (c *HTMLTreeConstructor) inTableBodyModeHandler(t *Token) parseError {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "tr":
			c.openElements.popUntilTableBodyScopeMarker()
			c.insertHTMLElementForToken(t)
			c.insertionMode = inRow
			return noError
		case "th", "td":
			c.dispatch(fakeStartTagToken("tr"))
			c.dispatch(t)
			return generalParseError
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !c.closeTableBody() {
				return generalParseError
			}
			c.dispatch(t)
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "tbody", "tfoot", "thead":
			if !c.openElements.hasInTableScope(t.TagName) {
				return generalParseError
			}
			c.openElements.popUntilTableBodyScopeMarker()
			c.openElements.pop()
			c.insertionMode = inTable
			return noError
		case "table":
			if !c.closeTableBody() {
				return generalParseError
			}
			c.dispatch(t)
			return noError
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return generalParseError
		}
	}
	return c.useRulesFor(t, inTable)
}

func (c *HTMLTreeConstructor) closeTableBody() bool {
	if !c.openElements.hasInTableScope("tbody") &&
		!c.openElements.hasInTableScope("thead") &&
		!c.openElements.hasInTableScope("tfoot") {
		return false
	}
	c.openElements.popUntilTableBodyScopeMarker()
	c.openElements.pop()
	c.insertionMode = inTable
	return true
}

func (c *HTMLTreeConstructor) inRowModeHandler(t *Token) parseError {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "th", "td":
			c.openElements.popUntilTableRowScopeMarker()
			c.insertHTMLElementForToken(t)
			c.insertionMode = inCell
			c.activeFormatting.appendMarker()
			return noError
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !c.closeTableRow() {
				return generalParseError
			}
			c.dispatch(t)
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "tr":
			if !c.closeTableRow() {
				return generalParseError
			}
			return noError
		case "table":
			if !c.closeTableRow() {
				return generalParseError
			}
			c.dispatch(t)
			return noError
		case "tbody", "tfoot", "thead":
			if !c.openElements.hasInTableScope(t.TagName) {
				return generalParseError
			}
			if !c.closeTableRow() {
				return generalParseError
			}
			c.dispatch(t)
			return noError
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return generalParseError
		}
	}
	return c.useRulesFor(t, inTable)
}

func (c *HTMLTreeConstructor) closeTableRow() bool {
	if !c.openElements.hasInTableScope("tr") {
		return false
	}
	c.openElements.popUntilTableRowScopeMarker()
	c.openElements.pop()
	c.insertionMode = inTableBody
	return true
}

func (c *HTMLTreeConstructor) inCellModeHandler(t *Token) parseError {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !c.openElements.hasInTableScope("td") && !c.openElements.hasInTableScope("th") {
				return generalParseError
			}
			c.closeCell()
			c.dispatch(t)
			return noError
		}
	case endTagToken:
		switch t.TagName {
		case "td", "th":
			if !c.openElements.hasInTableScope(t.TagName) {
				return generalParseError
			}
			c.openElements.generateImpliedEndTags()
			err := noError
			if !c.openElements.top().IsHTMLElement(t.TagName) {
				err = generalParseError
			}
			c.openElements.popUntilPopped(t.TagName)
			c.activeFormatting.clearToLastMarker()
			c.insertionMode = inRow
			return err
		case "body", "caption", "col", "colgroup", "html":
			return generalParseError
		case "table", "tbody", "tfoot", "thead", "tr":
			if !c.openElements.hasInTableScope(t.TagName) {
				return generalParseError
			}
			c.closeCell()
			c.dispatch(t)
			return noError
		}
	}
	return c.useRulesFor(t, inBody)
}

func (c *HTMLTreeConstructor) closeCell() {
	if c.openElements.hasInTableScope("td") {
		c.dispatch(fakeEndTagToken("td"))
		return
	}
	c.dispatch(fakeEndTagToken("th"))
}

func (c *HTMLTreeConstructor) inSelectModeHandler(t *Token) parseError {
	switch t.TokenType {
	case characterToken, spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "option":
			if c.openElements.top().IsHTMLElement("option") {
				c.openElements.pop()
			}
			c.insertHTMLElementForToken(t)
			return noError
		case "optgroup":
			if c.openElements.top().IsHTMLElement("option") {
				c.openElements.pop()
			}
			if c.openElements.top().IsHTMLElement("optgroup") {
				c.openElements.pop()
			}
			c.insertHTMLElementForToken(t)
			return noError
		case "select":
			if c.openElements.hasInSelectScope("select") {
				c.openElements.popUntilPopped("select")
				c.resetInsertionMode()
			}
			return generalParseError
		case "input", "keygen", "textarea":
			if !c.openElements.hasInSelectScope("select") {
				return generalParseError
			}
			c.openElements.popUntilPopped("select")
			c.resetInsertionMode()
			c.dispatch(t)
			return generalParseError
		case "script":
			return c.useRulesFor(t, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "optgroup":
			top := c.openElements.top()
			if top.IsHTMLElement("option") {
				if below := c.openElements.previous(top); below != nil && below.IsHTMLElement("optgroup") {
					c.openElements.pop()
				}
			}
			if c.openElements.top().IsHTMLElement("optgroup") {
				c.openElements.pop()
				return noError
			}
			return generalParseError
		case "option":
			if c.openElements.top().IsHTMLElement("option") {
				c.openElements.pop()
				return noError
			}
			return generalParseError
		case "select":
			if !c.openElements.hasInSelectScope("select") {
				return generalParseError
			}
			c.openElements.popUntilPopped("select")
			c.resetInsertionMode()
			return noError
		}
	case endOfFileToken:
		return c.useRulesFor(t, inBody)
	}
	return generalParseError
}

func (c *HTMLTreeConstructor) inSelectInTableModeHandler(t *Token) parseError {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			c.openElements.popUntilPopped("select")
			c.resetInsertionMode()
			c.dispatch(t)
			return generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !c.openElements.hasInTableScope(t.TagName) {
				return generalParseError
			}
			c.openElements.popUntilPopped("select")
			c.resetInsertionMode()
			c.dispatch(t)
			return generalParseError
		}
	}
	return c.useRulesFor(t, inSelect)
}

func (c *HTMLTreeConstructor) afterBodyModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		return c.useRulesFor(t, inBody)
	case commentToken:
		c.insertCommentOn(t, c.openElements.htmlEl)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, inBody)
		}
	case endTagToken:
		if t.TagName == "html" {
			c.insertionMode = afterAfterBody
			return noError
		}
	case endOfFileToken:
		c.stopParsing()
		return noError
	}
	c.insertionMode = inBody
	c.dispatch(t)
	return generalParseError
}

func (c *HTMLTreeConstructor) inFramesetModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "frameset":
			c.insertHTMLElementForToken(t)
			return noError
		case "frame":
			c.insertSelfClosingHTMLElement(t)
			return noError
		case "noframes":
			return c.useRulesFor(t, inHead)
		}
	case endTagToken:
		if t.TagName == "frameset" {
			if c.openElements.top().IsHTMLElement("html") {
				return generalParseError
			}
			c.openElements.pop()
			if !c.openElements.top().IsHTMLElement("frameset") {
				c.insertionMode = afterFrameset
			}
			return noError
		}
	case endOfFileToken:
		err := noError
		if !c.openElements.top().IsHTMLElement("html") {
			err = generalParseError
		}
		c.stopParsing()
		return err
	}
	return generalParseError
}

func (c *HTMLTreeConstructor) afterFramesetModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "noframes":
			return c.useRulesFor(t, inHead)
		}
	case endTagToken:
		if t.TagName == "html" {
			c.insertionMode = afterAfterFrameset
			return noError
		}
	case endOfFileToken:
		c.stopParsing()
		return noError
	}
	return generalParseError
}

func (c *HTMLTreeConstructor) afterAfterBodyModeHandler(t *Token) parseError {
	switch t.TokenType {
	case commentToken:
		c.insertCommentOn(t, c.Document)
		return noError
	case doctypeToken, spaceCharacterToken:
		return c.useRulesFor(t, inBody)
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, inBody)
		}
	case endOfFileToken:
		c.stopParsing()
		return noError
	}
	c.insertionMode = inBody
	c.dispatch(t)
	return generalParseError
}

func (c *HTMLTreeConstructor) afterAfterFramesetModeHandler(t *Token) parseError {
	switch t.TokenType {
	case commentToken:
		c.insertCommentOn(t, c.Document)
		return noError
	case doctypeToken, spaceCharacterToken:
		return c.useRulesFor(t, inBody)
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inBody)
		case "noframes":
			return c.useRulesFor(t, inHead)
		}
	case endOfFileToken:
		c.stopParsing()
		return noError
	}
	return generalParseError
}

func (c *HTMLTreeConstructor) inForeignContentModeHandler(t *Token) parseError {
	switch t.TokenType {
	case spaceCharacterToken:
		c.insertCharacters(t.Data)
		return noError
	case characterToken:
		err := noError
		data := t.Data
		if strings.ContainsRune(data, 0) {
			data = strings.ReplaceAll(data, "\x00", "�")
			err = generalParseError
		}
		c.insertCharacters(data)
		c.framesetOK = false
		return err
	case commentToken:
		c.insertComment(t)
		return noError
	case doctypeToken:
		return generalParseError
	case startTagToken:
		if isHTMLBreakoutToken(t) {
			c.openElements.popUntilForeignContentScopeMarker()
			c.dispatch(t)
			return generalParseError
		}
		ns := c.openElements.top().Namespace
		c.insertForeignElementForToken(t, ns)
		return noError
	case endTagToken:
		node := c.openElements.top()
		err := noError
		if strings.ToLower(node.Tag) != t.TagName {
			err = generalParseError
		}
		for i := c.openElements.len() - 1; i > 0; i-- {
			node = c.openElements.at(i)
			if strings.ToLower(node.Tag) == t.TagName {
				c.openElements.popUntilElementPopped(node)
				return err
			}
			below := c.openElements.at(i - 1)
			if below.Namespace == dom.HTMLNamespace {
				break
			}
		}
		// no foreign match; the HTML rules get a shot at it
		c.useRulesFor(t, c.insertionMode)
		return err
	}
	return noError
}
