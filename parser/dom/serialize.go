package dom

import (
	"sort"
	"strings"
)

// String renders the tree rooted at n in the html5lib tree-dump format:
//
//	#document
//	| <html>
//	|   <head>
//	|   <body>
//	|     "text"
//
// The golden tree-construction tests compare against this form.
func (n *Node) String() string {
	var b strings.Builder
	n.serialize(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (n *Node) serialize(b *strings.Builder, depth int) {
	if n.Type == DocumentNode {
		b.WriteString("#document\n")
		for _, c := range n.Children {
			c.serialize(b, 0)
		}
		return
	}

	indent := "| " + strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(n.label())
	b.WriteString("\n")

	if n.Type == ElementNode && len(n.Attrs) > 0 {
		attrIndent := "| " + strings.Repeat("  ", depth+1)
		for _, line := range n.attrLines() {
			b.WriteString(attrIndent)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	for _, c := range n.Children {
		c.serialize(b, depth+1)
	}
}

func (n *Node) label() string {
	switch n.Type {
	case ElementNode:
		return "<" + namespacePrefix(n.Namespace) + n.Tag + ">"
	case TextNode:
		return "\"" + n.Data + "\""
	case CommentNode:
		return "<!-- " + n.Data + " -->"
	case DoctypeNode:
		d := "<!DOCTYPE " + n.Tag
		if n.PublicID != "" || n.SystemID != "" {
			d += " \"" + n.PublicID + "\" \"" + n.SystemID + "\""
		}
		return d + ">"
	default:
		return "#unknown"
	}
}

func (n *Node) attrLines() []string {
	lines := make([]string, 0, len(n.Attrs))
	for _, attr := range n.Attrs {
		lines = append(lines, attrNamespacePrefix(attr.Namespace)+attr.Name+"=\""+attr.Value+"\"")
	}
	sort.Strings(lines)
	return lines
}

func namespacePrefix(ns Namespace) string {
	switch ns {
	case SVGNamespace:
		return "svg "
	case MathMLNamespace:
		return "math "
	}
	return ""
}

func attrNamespacePrefix(ns Namespace) string {
	switch ns {
	case XLinkNamespace:
		return "xlink "
	case XMLNamespace:
		return "xml "
	case XMLNSNamespace:
		return "xmlns "
	}
	return ""
}
