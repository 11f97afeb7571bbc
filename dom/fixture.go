package dom

import "strings"

// Attrs is the attribute set of a fixture element.
type Attrs map[string]string

type memNode struct {
	kind     Kind
	tag      string
	text     string
	attrs    Attrs
	children []Node
}

// Element builds an in-memory element.
func Element(tag string, attrs Attrs, children ...Node) Node {
	return &memNode{
		kind:     KindElement,
		tag:      strings.ToLower(tag),
		attrs:    attrs,
		children: children,
	}
}

// TextNode builds an in-memory text node.
func TextNode(s string) Node {
	return &memNode{kind: KindText, text: s}
}

// Comment builds an in-memory node that is neither text nor element.
func Comment(s string) Node {
	return &memNode{kind: KindOther, text: s}
}

func (m *memNode) Kind() Kind { return m.kind }
func (m *memNode) Tag() string {
	if m.kind != KindElement {
		return ""
	}
	return m.tag
}

func (m *memNode) Text() string {
	if m.kind != KindText {
		return ""
	}
	return m.text
}

func (m *memNode) Attr(name string) (string, bool) {
	v, ok := m.attrs[name]
	return v, ok
}

func (m *memNode) Children() []Node { return m.children }
