// Package markup provides a small immutable document tree used by the MPX
// parsers. A tree is made of element nodes (name, attributes and ordered
// children) and text leaves. Trees are either built directly with Element and
// Text or produced from raw markup with Parse.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type Kind int

const (
	ElementNode Kind = iota
	TextNode
)

// asciiSpace is the whitespace set stripped from text leaves. Non-breaking
// spaces decoded from "&nbsp;" are kept because the device uses them as
// placeholder content.
const asciiSpace = " \t\n\f\r"

type Node struct {
	kind     Kind
	name     string
	attrs    map[string]string
	children []*Node
	text     string
}

// Element creates an element node. The attribute map and the children slice
// are copied so later changes by the caller do not leak into the tree.
func Element(name string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{
		kind:     ElementNode,
		name:     name,
		attrs:    make(map[string]string, len(attrs)),
		children: make([]*Node, 0, len(children)),
	}
	for k, v := range attrs {
		n.attrs[k] = v
	}
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{kind: TextNode, text: s}
}

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsElement() bool { return n != nil && n.kind == ElementNode }

func (n *Node) IsText() bool { return n != nil && n.kind == TextNode }

// Name returns the tag name of an element, or an empty string for text.
func (n *Node) Name() string {
	if !n.IsElement() {
		return ""
	}
	return n.name
}

// Is reports whether n is an element with the given tag name.
func (n *Node) Is(name string) bool {
	return n.IsElement() && n.name == name
}

// ID returns the element's "id" attribute.
func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

func (n *Node) Attr(key string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	v, ok := n.attrs[key]
	return v, ok
}

// Content returns the text of a text leaf.
func (n *Node) Content() string {
	if !n.IsText() {
		return ""
	}
	return n.text
}

func (n *Node) Children() []*Node {
	if !n.IsElement() {
		return nil
	}
	return append([]*Node(nil), n.children...)
}

// Elements returns the element children of n in document order.
func (n *Node) Elements() []*Node {
	if !n.IsElement() {
		return nil
	}
	elems := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.kind == ElementNode {
			elems = append(elems, c)
		}
	}
	return elems
}

// Child returns the first element child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Elements() {
		if c.name == name {
			return c
		}
	}
	return nil
}

// FirstChild returns the first element child regardless of its name.
func (n *Node) FirstChild() *Node {
	elems := n.Elements()
	if len(elems) == 0 {
		return nil
	}
	return elems[0]
}

// FirstText returns the first text leaf found in a depth-first walk of n.
func (n *Node) FirstText() (string, bool) {
	if n == nil {
		return "", false
	}
	if n.kind == TextNode {
		return n.text, true
	}
	for _, c := range n.children {
		if s, ok := c.FirstText(); ok {
			return s, true
		}
	}
	return "", false
}

// Find returns the first element (n included) in a depth-first walk that has
// the given name and, when id is not empty, the given id.
func (n *Node) Find(name, id string) *Node {
	if !n.IsElement() {
		return nil
	}
	if n.name == name && (id == "" || n.ID() == id) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name, id); found != nil {
			return found
		}
	}
	return nil
}

// FindFirst returns the first descendant element (n excluded) with the given
// name.
func (n *Node) FindFirst(name string) *Node {
	if !n.IsElement() {
		return nil
	}
	for _, c := range n.children {
		if found := c.Find(name, ""); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.kind == TextNode {
		return fmt.Sprintf("%q", n.text)
	}
	if id := n.ID(); id != "" {
		return fmt.Sprintf("<%s id=%q>", n.name, id)
	}
	return fmt.Sprintf("<%s>", n.name)
}

// Parse reads markup from r and returns the root "html" element. Comments and
// doctype nodes are dropped, text is trimmed of ASCII whitespace and text that
// is empty after trimming is dropped.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return convert(c), nil
		}
	}
	return nil, fmt.Errorf("failed to parse markup: no root element")
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func convert(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		s := strings.Trim(h.Data, asciiSpace)
		if s == "" {
			return nil
		}
		return Text(s)
	case html.ElementNode:
		attrs := make(map[string]string, len(h.Attr))
		for _, a := range h.Attr {
			attrs[a.Key] = a.Val
		}
		var children []*Node
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if n := convert(c); n != nil {
				children = append(children, n)
			}
		}
		return Element(h.Data, attrs, children...)
	default:
		return nil
	}
}
