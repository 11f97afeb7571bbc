package markdown

import (
	"strings"
	"testing"

	"chatmd/dom"
)

func el(tag string, children ...dom.Node) dom.Node {
	return dom.Element(tag, nil, children...)
}

func text(s string) dom.Node { return dom.TextNode(s) }

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		root dom.Node
		want string
	}{
		{
			name: "paragraph with marks",
			root: el("div", el("p", text("Hello "), el("strong", text("bold")), text(" and "), el("em", text("it")), text(" "), el("u", text("u")))),
			want: "Hello **bold** and *it* __u__",
		},
		{
			name: "whitespace collapses outside pre",
			root: el("div", el("p", text("a \n\t  b"))),
			want: "a b",
		},
		{
			name: "inline code",
			root: el("div", el("p", text("run "), el("code", text("go test")))),
			want: "run `go test`",
		},
		{
			name: "line break",
			root: el("div", text("a"), el("br"), text("b")),
			want: "a  \nb",
		},
		{
			name: "code block with language class",
			root: el("div", el("pre", dom.Element("code", dom.Attrs{"class": "hljs language-python"}, text("print(1)\n")))),
			want: "```python\nprint(1)\n```",
		},
		{
			name: "code block keeps inner whitespace",
			root: el("div", el("pre", el("code", text("if x:\n    y\n\n")))),
			want: "```\nif x:\n    y\n```",
		},
		{
			name: "code block language from badge",
			root: el("div", el("pre", el("div",
				dom.Element("span", dom.Attrs{"data-testid": "language-badge"}, text(" go ")),
				el("code", text("x := 1")),
			))),
			want: "```go\nx := 1\n```",
		},
		{
			name: "code block language from pre attribute",
			root: el("div", dom.Element("pre", dom.Attrs{"data-language": "sh"}, el("code", text("ls")))),
			want: "```sh\nls\n```",
		},
		{
			name: "pre without code element",
			root: el("div", el("pre", text("raw text"))),
			want: "```\nraw text\n```",
		},
		{
			name: "ordered list",
			root: el("div", el("ol", el("li", text("a")), el("li", text("b")))),
			want: "1. a\n2. b",
		},
		{
			name: "unordered list ignores non-li children",
			root: el("div", el("ul", el("li", text("a")), el("span", text("x")), el("li", text("b")))),
			want: "- a\n- b",
		},
		{
			name: "nested list",
			root: el("div", el("ul", el("li", text("a"), el("ul", el("li", text("b")))))),
			want: "- a\n  - b",
		},
		{
			name: "three-level nested list",
			root: el("div", el("ul", el("li", text("a"), el("ul", el("li", text("b"), el("ul", el("li", text("c")))))))),
			want: "- a\n  - b\n    - c",
		},
		{
			name: "nested ordered list under unordered item",
			root: el("div", el("ul", el("li", text("a"), el("ol", el("li", text("x")), el("li", text("y")))), el("li", text("b")))),
			want: "- a\n  1. x\n  2. y\n- b",
		},
		{
			name: "multi-line item",
			root: el("div", el("ul", el("li", el("p", text("one")), el("p", text("two"))))),
			want: "- one\n  \n  two",
		},
		{
			name: "blockquote",
			root: el("div", el("blockquote", el("p", text("one")), el("p", text("two")))),
			want: "> one\n>\n> two",
		},
		{
			name: "link",
			root: el("div", dom.Element("a", dom.Attrs{"href": "https://x.io"}, text("site"))),
			want: "[site](https://x.io)",
		},
		{
			name: "link without text uses href",
			root: el("div", dom.Element("a", dom.Attrs{"href": "https://x.io"})),
			want: "[https://x.io](https://x.io)",
		},
		{
			name: "link without href",
			root: el("div", el("a", text("here"))),
			want: "[here](#)",
		},
		{
			name: "image",
			root: el("div", dom.Element("img", dom.Attrs{"src": "a.png", "alt": "pic"})),
			want: "![pic](a.png)",
		},
		{
			name: "image without src",
			root: el("div", dom.Element("img", dom.Attrs{"alt": "pic"})),
			want: "",
		},
		{
			name: "table",
			root: el("div", el("table",
				el("thead", el("tr", el("th", text("A")), el("th", text("B")))),
				el("tbody",
					el("tr", el("td", text("1")), el("td", text("2"))),
					el("tr", el("td", text("3")), el("td", el("p", text("x")), el("p", text("y")))),
				),
			)),
			want: "| A | B |\n| --- | --- |\n| 1 | 2 |\n| 3 | x y |",
		},
		{
			name: "table without rows",
			root: el("div", el("table")),
			want: "",
		},
		{
			name: "comments are dropped",
			root: el("div", dom.Comment("hidden"), el("p", text("shown"))),
			want: "shown",
		},
		{
			name: "unknown tags are transparent",
			root: el("div", el("section", el("span", text("inside")))),
			want: "inside",
		},
		{
			name: "blank lines are normalized",
			root: el("div", el("p", text("a")), el("p"), el("p"), el("p", text("b"))),
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.root); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeNodeBlocks(t *testing.T) {
	pre := el("pre", dom.Element("code", dom.Attrs{"class": "language-python"}, text("print(1)\n")))
	if got := serializeNode(pre, context{}); got != "```python\nprint(1)\n```\n\n" {
		t.Errorf("pre = %q", got)
	}

	ol := el("ol", el("li", text("a")), el("li", text("b")))
	if got := serializeNode(ol, context{}); got != "1. a\n2. b\n\n" {
		t.Errorf("ol = %q", got)
	}
}

func TestSerializeHTMLDocument(t *testing.T) {
	root, err := dom.ParseHTML(strings.NewReader(`<div><p>Use <code>ls</code>:</p><pre><code class="language-bash">ls -la
</code></pre><ol><li>one</li><li>two</li></ol></div>`))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	body := dom.Find(root, dom.IsTag("body"))

	want := "Use `ls`:\n\n```bash\nls -la\n```\n\n1. one\n2. two"
	if got := Serialize(body); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestNormalizeBlankLinesIdempotent(t *testing.T) {
	in := "a\n\n\n\nb\n\n\nc\nd"
	once := NormalizeBlankLines(in)
	if once != "a\n\nb\n\nc\nd" {
		t.Errorf("NormalizeBlankLines = %q", once)
	}
	if twice := NormalizeBlankLines(once); twice != once {
		t.Errorf("not idempotent: %q != %q", twice, once)
	}
}

func TestSerializeNil(t *testing.T) {
	if got := Serialize(nil); got != "" {
		t.Errorf("Serialize(nil) = %q", got)
	}
}
