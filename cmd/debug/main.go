// Debug tool to see how chatmd reads a page: the element tree with the
// attributes discovery relies on, then every turn the collector found.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"chatmd/chat"
	"chatmd/collector"
	"chatmd/config"
	"chatmd/dom"
	"chatmd/fetcher"
)

// Attributes worth showing in the tree.
var shownAttrs = map[string]bool{
	"id":                       true,
	"class":                    true,
	"data-testid":              true,
	"data-message-id":          true,
	"data-message-author-role": true,
}

func main() {
	target := "-"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}
	maxDepth := 6

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(config.FormatError(err))
		return
	}

	res, err := fetcher.Load(context.Background(), target)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	doc, err := collector.ParseDocument(strings.NewReader(res.HTML))
	if err != nil {
		fmt.Println("Parse error:", err)
		return
	}

	body := doc.Find("body").Get(0)
	if body == nil {
		fmt.Println("No body found!")
		return
	}

	fmt.Println("Body found, analyzing children...")
	analyzeNode(body, 0, maxDepth)

	c, err := collector.New(cfg.Selectors, zerolog.Nop())
	if err != nil {
		fmt.Println("Selector error:", err)
		return
	}

	msgs := c.Messages(doc.Selection)
	fmt.Printf("\n%d message containers\n", len(msgs))
	for i, m := range msgs {
		fmt.Printf("%3d. %-9s %5d chars  %s\n", i+1, m.Role, len(m.Content), preview(m.Content))
	}

	pairs := c.Pairs(doc.Selection)
	fmt.Printf("\n%d answered questions\n", len(pairs))
	for _, p := range pairs {
		fmt.Printf("  %-6s %s -> %s\n", p.ID, p.Summary, chat.RoleLabel(p.Answers[0].Role))
	}

	questions := c.UserQuestions(doc.Selection)
	fmt.Printf("\n%d navigable questions\n", len(questions))
	for _, q := range questions {
		fmt.Printf("  %-20s %s\n", q.ID, q.Summary)
	}
}

func analyzeNode(n *html.Node, depth, maxDepth int) {
	if depth > maxDepth {
		return
	}

	indent := strings.Repeat("  ", depth)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "script", "style", "svg", "noscript":
			continue
		}

		attrs := ""
		for _, a := range c.Attr {
			if shownAttrs[a.Key] {
				val := a.Val
				if len(val) > 40 {
					val = val[:40] + "..."
				}
				attrs += fmt.Sprintf(" %s=%q", a.Key, val)
			}
		}

		role := ""
		if r := chat.DetectRole(dom.Wrap(c)); r != chat.RoleUnknown {
			role = "  [" + string(r) + "]"
		}
		fmt.Printf("%s<%s%s>%s\n", indent, c.Data, attrs, role)
		analyzeNode(c, depth+1, maxDepth)
	}
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
