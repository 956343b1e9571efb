package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperjet/paperjet/parser/dom"
)

func formattingElement(tag string, attrs ...dom.Attr) *dom.Node {
	return dom.NewElement(tag, dom.HTMLNamespace, dom.AttrList(attrs))
}

func TestAppendCapsIdenticalEntriesAtThree(t *testing.T) {
	var l activeFormattingList
	first := formattingElement("b")
	l.append(first)
	l.append(formattingElement("b"))
	l.append(formattingElement("b"))
	l.append(formattingElement("b"))

	assert.Equal(t, 3, l.len())
	// the oldest entry was evicted
	assert.False(t, l.contains(first))
}

func TestAppendDistinguishesAttributes(t *testing.T) {
	var l activeFormattingList
	l.append(formattingElement("font", dom.Attr{Name: "color", Value: "red"}))
	l.append(formattingElement("font", dom.Attr{Name: "color", Value: "blue"}))
	l.append(formattingElement("font", dom.Attr{Name: "color", Value: "red"}))
	l.append(formattingElement("font", dom.Attr{Name: "color", Value: "red"}))
	l.append(formattingElement("font", dom.Attr{Name: "color", Value: "red"}))

	// three reds and one blue survive
	assert.Equal(t, 4, l.len())
}

func TestAppendCountsOnlyBackToTheLastMarker(t *testing.T) {
	var l activeFormattingList
	l.append(formattingElement("b"))
	l.append(formattingElement("b"))
	l.append(formattingElement("b"))
	l.appendMarker()
	l.append(formattingElement("b"))

	assert.Equal(t, 5, l.len())
}

func TestClearToLastMarker(t *testing.T) {
	var l activeFormattingList
	kept := formattingElement("b")
	l.append(kept)
	l.appendMarker()
	l.append(formattingElement("i"))
	l.append(formattingElement("em"))

	l.clearToLastMarker()
	assert.Equal(t, 1, l.len())
	assert.True(t, l.contains(kept))
}

func TestClosestElementInScopeStopsAtMarker(t *testing.T) {
	var l activeFormattingList
	outer := formattingElement("a")
	l.append(outer)
	l.appendMarker()
	inner := formattingElement("b")
	l.append(inner)

	assert.Equal(t, inner, l.closestElementInScope("b"))
	assert.Nil(t, l.closestElementInScope("a"))
}

func TestReplaceAndInsertAt(t *testing.T) {
	var l activeFormattingList
	old := formattingElement("b")
	l.append(old)
	l.append(formattingElement("i"))

	clone := old.CloneShallow()
	l.replace(old, clone)
	assert.Equal(t, clone, l.at(0))

	extra := formattingElement("em")
	l.insertAt(1, extra)
	assert.Equal(t, extra, l.at(1))
	assert.Equal(t, 3, l.len())
}

func TestIsFormattingTag(t *testing.T) {
	assert.True(t, isFormattingTag("a"))
	assert.True(t, isFormattingTag("nobr"))
	assert.False(t, isFormattingTag("div"))
	assert.False(t, isFormattingTag("span"))
}
