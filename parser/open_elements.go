package parser

import (
	"fmt"

	"github.com/paperjet/paperjet/parser/dom"
)

// impliedEndTags are the tags that generateImpliedEndTags may close.
var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "option": true,
	"optgroup": true, "p": true, "rp": true, "rt": true,
}

// openElementStack is the stack of open elements. The root html element and
// the head and body elements are tracked by dedicated handles; pushing or
// popping them goes through the dedicated operations, never push/pop.
type openElementStack struct {
	elements []*dom.Node

	htmlEl *dom.Node
	headEl *dom.Node
	bodyEl *dom.Node
}

func (s *openElementStack) len() int { return len(s.elements) }

func (s *openElementStack) empty() bool { return len(s.elements) == 0 }

// top returns the current node.
func (s *openElementStack) top() *dom.Node {
	if len(s.elements) == 0 {
		return nil
	}
	return s.elements[len(s.elements)-1]
}

func (s *openElementStack) at(i int) *dom.Node { return s.elements[i] }

func (s *openElementStack) indexOf(n *dom.Node) int {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i] == n {
			return i
		}
	}
	return -1
}

func (s *openElementStack) contains(n *dom.Node) bool {
	return s.indexOf(n) != -1
}

// previous returns the stack entry immediately below n, or nil. The adoption
// agency finds the common ancestor this way.
func (s *openElementStack) previous(n *dom.Node) *dom.Node {
	i := s.indexOf(n)
	if i <= 0 {
		return nil
	}
	return s.elements[i-1]
}

// topmost returns the entry nearest the top with the given HTML tag, or nil.
func (s *openElementStack) topmost(tag string) *dom.Node {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i].IsHTMLElement(tag) {
			return s.elements[i]
		}
	}
	return nil
}

// push pushes an ordinary element. html, head, and body go through their
// dedicated operations.
func (s *openElementStack) push(n *dom.Node) {
	if n.IsHTMLElement("html", "head", "body") {
		panic(fmt.Sprintf("parser: push of singleton <%s> through generic stack operation", n.Tag))
	}
	s.elements = append(s.elements, n)
}

// pop pops an ordinary element.
func (s *openElementStack) pop() *dom.Node {
	n := s.top()
	if n == nil {
		panic("parser: pop of empty open element stack")
	}
	if n.IsHTMLElement("html", "head", "body") {
		panic(fmt.Sprintf("parser: pop of singleton <%s> through generic stack operation", n.Tag))
	}
	s.elements = s.elements[:len(s.elements)-1]
	return n
}

func (s *openElementStack) pushHTML(n *dom.Node) {
	if !n.IsHTMLElement("html") || s.htmlEl != nil || len(s.elements) != 0 {
		panic("parser: pushHTML requires an <html> element on an empty stack")
	}
	s.htmlEl = n
	s.elements = append(s.elements, n)
}

func (s *openElementStack) pushHead(n *dom.Node) {
	if !n.IsHTMLElement("head") {
		panic("parser: pushHead requires a <head> element")
	}
	s.headEl = n
	s.elements = append(s.elements, n)
}

func (s *openElementStack) pushBody(n *dom.Node) {
	if !n.IsHTMLElement("body") {
		panic("parser: pushBody requires a <body> element")
	}
	s.bodyEl = n
	s.elements = append(s.elements, n)
}

func (s *openElementStack) popHead() {
	if s.top() != s.headEl {
		panic("parser: popHead with <head> not on top")
	}
	s.elements = s.elements[:len(s.elements)-1]
}

// removeHeadElement removes the tracked head element from any stack position
// without touching the tree.
func (s *openElementStack) removeHeadElement(n *dom.Node) {
	if n != s.headEl {
		panic("parser: removeHeadElement of a non-head element")
	}
	s.removeElement(n)
}

// removeBodyElement pops everything down to and including the body element.
// Elements above it simply vanish from the stack; the body is also detached
// from the tree. Used when a late <frameset> replaces the body.
func (s *openElementStack) removeBodyElement() {
	i := s.indexOf(s.bodyEl)
	if i < 0 {
		panic("parser: removeBodyElement without an open body")
	}
	s.elements = s.elements[:i]
	s.bodyEl.Detach()
	s.bodyEl = nil
}

// removeElement deletes n from an arbitrary stack position.
func (s *openElementStack) removeElement(n *dom.Node) {
	i := s.indexOf(n)
	if i < 0 {
		return
	}
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
}

// replaceElement swaps old for new in place.
func (s *openElementStack) replaceElement(old, new *dom.Node) {
	i := s.indexOf(old)
	if i < 0 {
		panic("parser: replaceElement of element not on stack")
	}
	s.elements[i] = new
}

// insertAfter places n immediately above ref on the stack.
func (s *openElementStack) insertAfter(ref, n *dom.Node) {
	i := s.indexOf(ref)
	if i < 0 {
		panic("parser: insertAfter of element not on stack")
	}
	if i+1 == len(s.elements) {
		s.elements = append(s.elements, n)
		return
	}
	s.elements = append(s.elements, nil)
	copy(s.elements[i+2:], s.elements[i+1:])
	s.elements[i+1] = n
}

// popUntil pops until an element with the given HTML tag is on top; the
// match itself stays.
func (s *openElementStack) popUntil(tag string) {
	for !s.top().IsHTMLElement(tag) {
		s.pop()
	}
}

// popUntilPopped pops until an element with the given HTML tag has been
// popped.
func (s *openElementStack) popUntilPopped(tag string) {
	s.popUntil(tag)
	s.pop()
}

// popUntilElementPopped pops until exactly n has been popped.
func (s *openElementStack) popUntilElementPopped(n *dom.Node) {
	for s.pop() != n {
	}
}

func (s *openElementStack) popUntilNumberedHeaderElementPopped() {
	for !s.top().IsHTMLElement("h1", "h2", "h3", "h4", "h5", "h6") {
		s.pop()
	}
	s.pop()
}

// popUntilTableScopeMarker clears the stack back to a table context.
func (s *openElementStack) popUntilTableScopeMarker() {
	for !s.top().IsHTMLElement("table", "html") {
		s.pop()
	}
}

func (s *openElementStack) popUntilTableBodyScopeMarker() {
	for !s.top().IsHTMLElement("tbody", "tfoot", "thead", "html") {
		s.pop()
	}
}

func (s *openElementStack) popUntilTableRowScopeMarker() {
	for !s.top().IsHTMLElement("tr", "html") {
		s.pop()
	}
}

// popUntilForeignContentScopeMarker pops foreign elements until the top is
// back in HTML territory (an HTML element or an integration point).
func (s *openElementStack) popUntilForeignContentScopeMarker() {
	for {
		top := s.top()
		if top.Namespace == dom.HTMLNamespace || isHTMLIntegrationPoint(top) || isMathMLTextIntegrationPoint(top) {
			return
		}
		s.pop()
	}
}

func (s *openElementStack) generateImpliedEndTags() {
	s.generateImpliedEndTagsExcept("")
}

func (s *openElementStack) generateImpliedEndTagsExcept(exclude string) {
	for {
		top := s.top()
		if top.Namespace != dom.HTMLNamespace || !impliedEndTags[top.Tag] || top.Tag == exclude {
			return
		}
		s.pop()
	}
}

// Scope queries. Each flavor scans from the top down and stops at its own
// marker set; html is a marker for every flavor, so a well-formed stack
// always terminates the scan.

func isScopeMarker(n *dom.Node) bool {
	if n.IsHTMLElement("applet", "caption", "html", "table", "td", "th", "object", "marquee") {
		return true
	}
	if n.IsElement(dom.MathMLNamespace, "mi", "mo", "mn", "ms", "mtext", "annotation-xml") {
		return true
	}
	return n.IsElement(dom.SVGNamespace, "foreignObject", "desc", "title")
}

func (s *openElementStack) inSpecificScope(stop func(*dom.Node) bool, match func(*dom.Node) bool) bool {
	for i := len(s.elements) - 1; i >= 0; i-- {
		n := s.elements[i]
		if match(n) {
			return true
		}
		if stop(n) {
			return false
		}
	}
	panic("parser: scope query ran off the open element stack")
}

func matchHTMLTag(tag string) func(*dom.Node) bool {
	return func(n *dom.Node) bool { return n.IsHTMLElement(tag) }
}

func (s *openElementStack) hasInScope(tag string) bool {
	return s.inSpecificScope(isScopeMarker, matchHTMLTag(tag))
}

// hasElementInScope is the identity flavor of the generic scope query, used
// by the adoption agency.
func (s *openElementStack) hasElementInScope(target *dom.Node) bool {
	return s.inSpecificScope(isScopeMarker, func(n *dom.Node) bool { return n == target })
}

func (s *openElementStack) hasInButtonScope(tag string) bool {
	stop := func(n *dom.Node) bool { return isScopeMarker(n) || n.IsHTMLElement("button") }
	return s.inSpecificScope(stop, matchHTMLTag(tag))
}

func (s *openElementStack) hasInListItemScope(tag string) bool {
	stop := func(n *dom.Node) bool { return isScopeMarker(n) || n.IsHTMLElement("ol", "ul") }
	return s.inSpecificScope(stop, matchHTMLTag(tag))
}

func (s *openElementStack) hasInTableScope(tag string) bool {
	stop := func(n *dom.Node) bool { return n.IsHTMLElement("table", "html") }
	return s.inSpecificScope(stop, matchHTMLTag(tag))
}

// hasInSelectScope: anything that is not optgroup/option ends the scope.
func (s *openElementStack) hasInSelectScope(tag string) bool {
	stop := func(n *dom.Node) bool { return !n.IsHTMLElement("optgroup", "option") }
	return s.inSpecificScope(stop, matchHTMLTag(tag))
}

func (s *openElementStack) hasNumberedHeaderInScope() bool {
	match := func(n *dom.Node) bool { return n.IsHTMLElement("h1", "h2", "h3", "h4", "h5", "h6") }
	return s.inSpecificScope(isScopeMarker, match)
}

// furthestBlock returns the special element nearest above the formatting
// element on the stack, or nil when no special element separates the
// formatting element from the top.
func (s *openElementStack) furthestBlock(formattingElement *dom.Node) *dom.Node {
	var fb *dom.Node
	for i := len(s.elements) - 1; i >= 0; i-- {
		n := s.elements[i]
		if n == formattingElement {
			return fb
		}
		if isSpecialElement(n) {
			fb = n
		}
	}
	return nil
}

// drain forcibly empties the stack at end of file, including the tracked
// singletons.
func (s *openElementStack) drain() {
	s.elements = s.elements[:0]
	s.htmlEl, s.headEl, s.bodyEl = nil, nil, nil
}
