// Package dom exposes the small slice of a document tree that the markdown
// serializer and role detector need, so they can run against a parsed page or
// an in-memory fixture alike.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind identifies what a node is.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindElement
)

// Node is a read-only view of one node in a document tree.
type Node interface {
	Kind() Kind
	// Tag returns the lower-case element name, or "" for non-elements.
	Tag() string
	// Text returns the data of a text node, or "" for anything else.
	Text() string
	Attr(name string) (string, bool)
	Children() []Node
}

// ParseHTML parses a full document and returns its root.
func ParseHTML(r io.Reader) (Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return Wrap(doc), nil
}

// Wrap adapts an x/net/html node. A nil node wraps to nil.
func Wrap(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

// Unwrap returns the underlying x/net/html node for a node produced by Wrap.
func Unwrap(n Node) (*html.Node, bool) {
	hn, ok := n.(htmlNode)
	if !ok {
		return nil, false
	}
	return hn.n, true
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Kind() Kind {
	switch h.n.Type {
	case html.TextNode:
		return KindText
	case html.ElementNode:
		return KindElement
	default:
		return KindOther
	}
}

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(h.n.Data)
}

func (h htmlNode) Text() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}

// AttrOr returns the attribute value or def when it is absent.
func AttrOr(n Node, name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// TextContent concatenates all descendant text, untrimmed.
func TextContent(n Node) string {
	var sb strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		if n.Kind() == KindText {
			sb.WriteString(n.Text())
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Find returns the first descendant of n, in document order, for which match
// reports true. n itself is not considered.
func Find(n Node, match func(Node) bool) Node {
	for _, c := range n.Children() {
		if match(c) {
			return c
		}
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of n for which match reports true.
func FindAll(n Node, match func(Node) bool) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		for _, c := range n.Children() {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// ChildElements returns the direct element children of n.
func ChildElements(n Node) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// IsTag returns a matcher for elements with one of the given names.
func IsTag(tags ...string) func(Node) bool {
	return func(n Node) bool {
		if n.Kind() != KindElement {
			return false
		}
		for _, t := range tags {
			if n.Tag() == t {
				return true
			}
		}
		return false
	}
}

// HasAttr returns a matcher for elements carrying name, with value when
// value is non-empty.
func HasAttr(name, value string) func(Node) bool {
	return func(n Node) bool {
		if n.Kind() != KindElement {
			return false
		}
		v, ok := n.Attr(name)
		if !ok {
			return false
		}
		return value == "" || v == value
	}
}

// ClassTokens splits the class attribute on whitespace.
func ClassTokens(n Node) []string {
	return strings.Fields(AttrOr(n, "class", ""))
}

// HasClass reports whether n's class list contains name.
func HasClass(n Node, name string) bool {
	for _, c := range ClassTokens(n) {
		if c == name {
			return true
		}
	}
	return false
}
