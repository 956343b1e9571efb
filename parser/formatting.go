package parser

import (
	"github.com/paperjet/paperjet/parser/dom"
)

// formattingTags are the elements tracked by the active formatting list; an
// end tag for any of them triggers the adoption agency.
var formattingTags = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true,
	"font": true, "i": true, "nobr": true, "s": true, "small": true,
	"strike": true, "strong": true, "tt": true, "u": true,
}

func isFormattingTag(tag string) bool { return formattingTags[tag] }

// activeFormattingList is the list of active formatting elements. A nil
// entry is a marker; markers bound reconstruction and clearing.
type activeFormattingList struct {
	entries []*dom.Node
}

func (l *activeFormattingList) len() int { return len(l.entries) }

func (l *activeFormattingList) at(i int) *dom.Node { return l.entries[i] }

func (l *activeFormattingList) indexOf(n *dom.Node) int {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i] != nil && l.entries[i] == n {
			return i
		}
	}
	return -1
}

func (l *activeFormattingList) contains(n *dom.Node) bool {
	return l.indexOf(n) != -1
}

// append adds a formatting element, first applying the Noah's Ark clause:
// with three matching live entries already between here and the last marker,
// the oldest match is removed. Matching means same tag, namespace, and
// attribute set.
func (l *activeFormattingList) append(n *dom.Node) {
	var matches []int
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if entry == nil {
			break
		}
		if entry.Tag == n.Tag && entry.Namespace == n.Namespace && entry.Attrs.Equal(n.Attrs) {
			matches = append(matches, i)
		}
	}
	if len(matches) >= 3 {
		// matches were collected newest first; the last one is the oldest
		l.removeAt(matches[len(matches)-1])
	}
	l.entries = append(l.entries, n)
}

// appendMarker adds a marker sentinel.
func (l *activeFormattingList) appendMarker() {
	l.entries = append(l.entries, nil)
}

// clearToLastMarker pops entries until a marker has been popped or the list
// is empty. Leaving applet/object/marquee, captions, and cells clears this
// way.
func (l *activeFormattingList) clearToLastMarker() {
	for len(l.entries) > 0 {
		last := l.entries[len(l.entries)-1]
		l.entries = l.entries[:len(l.entries)-1]
		if last == nil {
			return
		}
	}
}

// closestElementInScope scans backward for an element with the given tag,
// not looking past the first marker.
func (l *activeFormattingList) closestElementInScope(tag string) *dom.Node {
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if entry == nil {
			return nil
		}
		if entry.IsHTMLElement(tag) {
			return entry
		}
	}
	return nil
}

func (l *activeFormattingList) remove(n *dom.Node) {
	if i := l.indexOf(n); i >= 0 {
		l.removeAt(i)
	}
}

func (l *activeFormattingList) removeAt(i int) {
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

func (l *activeFormattingList) replace(old, new *dom.Node) {
	if i := l.indexOf(old); i >= 0 {
		l.entries[i] = new
	}
}

func (l *activeFormattingList) insertAt(i int, n *dom.Node) {
	if i >= len(l.entries) {
		l.entries = append(l.entries, n)
		return
	}
	l.entries = append(l.entries, nil)
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = n
}
