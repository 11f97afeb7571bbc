// Package collector finds the chat turns on a page and turns them into
// role-tagged Markdown messages.
package collector

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"chatmd/chat"
	"chatmd/dom"
	"chatmd/markdown"
	"chatmd/qa"
)

// Collector walks a document with a fixed set of discovery rules. It keeps no
// state between calls, so it can be rerun against a changing page.
type Collector struct {
	sel *compiled
	log zerolog.Logger
}

// New compiles the selectors. An invalid selector fails here rather than on
// every collection.
func New(sel Selectors, log zerolog.Logger) (*Collector, error) {
	c, err := compile(sel)
	if err != nil {
		return nil, err
	}
	return &Collector{sel: c, log: log}, nil
}

// ParseDocument reads an HTML page for collection.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// Messages returns one message per distinct turn container under root, in
// document order. Turns with an unknown role or no content are included.
func (c *Collector) Messages(root *goquery.Selection) []chat.Message {
	nodes := unique(root.FindMatcher(c.sel.message).Nodes)

	messages := make([]chat.Message, 0, len(nodes))
	for _, n := range nodes {
		messages = append(messages, c.serialize(n))
	}

	c.log.Debug().
		Int("containers", len(nodes)).
		Msg("collected messages")
	return messages
}

func (c *Collector) serialize(n *html.Node) chat.Message {
	return chat.Message{
		Role:    chat.DetectRole(dom.Wrap(n)),
		Content: c.content(n),
	}
}

// content serializes the most specific body element of a container.
func (c *Collector) content(n *html.Node) string {
	root := n
	s := goquery.NewDocumentFromNode(n).Selection
	for _, m := range c.sel.contentRoots {
		if found := s.FindMatcher(m); found.Length() > 0 {
			root = found.Get(0)
			break
		}
	}
	return strings.TrimRight(markdown.Serialize(dom.Wrap(root)), " \t\r\n")
}

func unique(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Pairs is a convenience for Messages followed by qa.Group.
func (c *Collector) Pairs(root *goquery.Selection) []chat.QAPair {
	return qa.Group(c.Messages(root))
}
