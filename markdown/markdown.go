// Package markdown converts rendered chat markup into Markdown text.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"chatmd/dom"
)

// context is the per-recursion state carried down the tree.
type context struct {
	inPre     bool
	listDepth int
}

var (
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	newlineRe  = regexp.MustCompile(`\n+`)
	languageRe = regexp.MustCompile(`language-([\w+-]+)`)
	isBadge    = dom.HasAttr("data-testid", "language-badge")
	isCode     = dom.IsTag("code")
	isRow      = dom.IsTag("tr")
	isCell     = dom.IsTag("th", "td")
	isListItem = dom.IsTag("li")
)

// Serialize renders the children of root as Markdown. The result is trimmed
// and never contains more than one consecutive blank line.
func Serialize(root dom.Node) string {
	if root == nil {
		return ""
	}
	content := serializeNodes(root.Children(), context{})
	return NormalizeBlankLines(strings.TrimSpace(content))
}

// NormalizeBlankLines collapses runs of three or more newlines to exactly
// two. It is idempotent.
func NormalizeBlankLines(s string) string {
	return blankRunRe.ReplaceAllString(s, "\n\n")
}

func serializeNodes(nodes []dom.Node, ctx context) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(serializeNode(n, ctx))
	}
	return sb.String()
}

func serializeNode(n dom.Node, ctx context) string {
	switch n.Kind() {
	case dom.KindText:
		if ctx.inPre {
			return n.Text()
		}
		return collapseSpace(n.Text())
	case dom.KindElement:
	default:
		return ""
	}

	children := func() string { return serializeNodes(n.Children(), ctx) }

	switch n.Tag() {
	case "br":
		return "  \n"

	case "p":
		return block(children())

	case "strong", "b":
		return "**" + children() + "**"

	case "em", "i":
		return "*" + children() + "*"

	case "u":
		return "__" + children() + "__"

	case "code":
		if ctx.inPre {
			return children()
		}
		return "`" + children() + "`"

	case "pre":
		return serializePre(n)

	case "ul":
		return serializeList(n, false, ctx.listDepth)

	case "ol":
		return serializeList(n, true, ctx.listDepth)

	case "li":
		return serializeListItem(n, ctx)

	case "blockquote":
		lines := strings.Split(trimEnd(children()), "\n")
		for i, line := range lines {
			if line == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + line
			}
		}
		return block(strings.Join(lines, "\n"))

	case "a":
		href := dom.AttrOr(n, "href", "")
		text := children()
		if text == "" {
			text = href
		}
		if href == "" {
			href = "#"
		}
		return "[" + text + "](" + href + ")"

	case "img":
		src := dom.AttrOr(n, "src", "")
		if src == "" {
			return ""
		}
		return "![" + dom.AttrOr(n, "alt", "") + "](" + src + ")"

	case "table":
		return block(serializeTable(n))

	default:
		// span, div and anything unrecognised are transparent.
		return children()
	}
}

func serializePre(pre dom.Node) string {
	code := dom.Find(pre, isCode)

	language := detectLanguage(pre, code)
	if language == "" {
		language = dom.AttrOr(pre, "data-language", "")
	}

	var body string
	if code != nil {
		body = dom.TextContent(code)
	} else {
		body = dom.TextContent(pre)
	}

	return block("```" + language + "\n" + trimEnd(body) + "\n```")
}

// detectLanguage looks at the code element's class list, then a language
// badge next to it, then its data-language attribute.
func detectLanguage(pre, code dom.Node) string {
	if code == nil {
		return ""
	}
	if m := languageRe.FindStringSubmatch(dom.AttrOr(code, "class", "")); m != nil {
		return m[1]
	}
	parent := parentOf(pre, code)
	if parent == nil {
		parent = pre
	}
	if badge := dom.Find(parent, isBadge); badge != nil {
		return strings.TrimSpace(dom.TextContent(badge))
	}
	return dom.AttrOr(code, "data-language", "")
}

func parentOf(root, target dom.Node) dom.Node {
	for _, c := range root.Children() {
		if c == target {
			return root
		}
		if p := parentOf(c, target); p != nil {
			return p
		}
	}
	return nil
}

func serializeList(list dom.Node, ordered bool, depth int) string {
	var items []string
	n := 0
	for _, child := range dom.ChildElements(list) {
		if !isListItem(child) {
			continue
		}
		n++
		prefix := "- "
		if ordered {
			prefix = strconv.Itoa(n) + ". "
		}
		inner := serializeListItem(child, context{listDepth: depth})
		items = append(items, indentLines(inner, prefix))
	}

	out := strings.Join(items, "\n") + "\n\n"
	if depth > 0 {
		// A nested list must start on its own line even when it follows
		// inline text inside the parent item.
		out = "\n" + out
	}
	return out
}

func serializeListItem(item dom.Node, ctx context) string {
	next := context{inPre: ctx.inPre, listDepth: ctx.listDepth + 1}
	content := serializeNodes(item.Children(), next)
	return strings.TrimSpace(NormalizeBlankLines(content))
}

// indentLines prefixes the first line and indents the rest by two spaces.
// Nested lists are serialized flush left and pick up their indentation from
// the enclosing item, so each level sits two columns deeper.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")

	var sb strings.Builder
	sb.WriteString(prefix + lines[0])
	for _, line := range lines[1:] {
		sb.WriteString("\n  " + line)
	}
	return sb.String()
}

func serializeTable(table dom.Node) string {
	rows := dom.FindAll(table, isRow)
	if len(rows) == 0 {
		return ""
	}

	headers := rowCells(rows[0])
	dividers := make([]string, len(headers))
	for i := range dividers {
		dividers[i] = "---"
	}

	parts := []string{
		"| " + strings.Join(headers, " | ") + " |",
		"| " + strings.Join(dividers, " | ") + " |",
	}

	var body []string
	for _, row := range rows[1:] {
		body = append(body, "| "+strings.Join(rowCells(row), " | ")+" |")
	}
	if len(body) > 0 {
		parts = append(parts, strings.Join(body, "\n"))
	}
	return strings.Join(parts, "\n")
}

func rowCells(row dom.Node) []string {
	var out []string
	for _, cell := range dom.FindAll(row, isCell) {
		text := serializeNodes(cell.Children(), context{})
		out = append(out, strings.TrimSpace(newlineRe.ReplaceAllString(text, " ")))
	}
	return out
}

func block(content string) string {
	return trimEnd(content) + "\n\n"
}

func trimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
