// Package dom holds the element tree that the parser builds. It is a small,
// parser-facing node model, not a full WebIDL DOM: one Node struct covers
// documents, elements, text, comments, and doctypes, discriminated by Type.
package dom

// NodeType discriminates the kinds of nodes the parser can create.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	DocumentNode
	DoctypeNode
)

// Namespace identifies the namespace an element or attribute belongs to.
type Namespace uint8

const (
	HTMLNamespace Namespace = iota
	MathMLNamespace
	SVGNamespace
	XLinkNamespace
	XMLNamespace
	XMLNSNamespace
)

// Node is a single node in the document tree. Tag is set for elements and
// doctypes, Data for text and comments. Children are ordered; sibling
// navigation goes through the parent's child list.
type Node struct {
	Type      NodeType
	Tag       string
	Namespace Namespace
	Attrs     AttrList
	Data      string

	PublicID string
	SystemID string

	Parent   *Node
	Children []*Node
}

// NewDocument returns an empty document node.
func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

// NewElement returns an unattached element.
func NewElement(tag string, ns Namespace, attrs AttrList) *Node {
	return &Node{Type: ElementNode, Tag: tag, Namespace: ns, Attrs: attrs}
}

// NewText returns an unattached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment returns an unattached comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// NewDoctype returns an unattached doctype node.
func NewDoctype(name, publicID, systemID string) *Node {
	return &Node{Type: DoctypeNode, Tag: name, PublicID: publicID, SystemID: systemID}
}

// CloneShallow returns a new unattached element with the same tag, namespace,
// and attributes. The active formatting reconstruction and the adoption agency
// both build replacement elements this way.
func (n *Node) CloneShallow() *Node {
	return &Node{
		Type:      n.Type,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
	}
}

// AppendChild detaches c from its current parent and appends it to n.
func (n *Node) AppendChild(c *Node) {
	c.Detach()
	c.Parent = n
	n.Children = append(n.Children, c)
}

// InsertBefore detaches c and inserts it into n's children immediately before
// ref. If ref is not a child of n, c is appended instead.
func (n *Node) InsertBefore(c, ref *Node) {
	i := n.childIndex(ref)
	if i < 0 {
		n.AppendChild(c)
		return
	}
	c.Detach()
	// detaching c may have shifted ref's position
	i = n.childIndex(ref)
	c.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// RemoveChild unlinks c from n. It is a no-op if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	i := n.childIndex(c)
	if i < 0 {
		return
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	c.Parent = nil
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReparentChildren moves every child of n under newParent, preserving order.
func (n *Node) ReparentChildren(newParent *Node) {
	children := n.Children
	n.Children = nil
	for _, c := range children {
		c.Parent = newParent
		newParent.Children = append(newParent.Children, c)
	}
}

// FirstChild returns n's first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns n's last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// PreviousSibling returns the child of n's parent immediately before n, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	i := n.Parent.childIndex(n)
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

// IsElement reports whether n is an element in the given namespace with one of
// the given tags. With no tags it matches any element in the namespace.
func (n *Node) IsElement(ns Namespace, tags ...string) bool {
	if n.Type != ElementNode || n.Namespace != ns {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if n.Tag == tag {
			return true
		}
	}
	return false
}

// IsHTMLElement reports whether n is an HTML element with one of the given
// tags (any HTML element when no tags are given).
func (n *Node) IsHTMLElement(tags ...string) bool {
	return n.IsElement(HTMLNamespace, tags...)
}

func (n *Node) childIndex(c *Node) int {
	for i, child := range n.Children {
		if child == c {
			return i
		}
	}
	return -1
}
