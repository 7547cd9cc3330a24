package document

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// AllowList is the set of node types the renderer will emit markup for.
// Anything outside it is dropped wholesale: the node and everything below
// it contribute no output. Unknown input degrades to silence, never to
// markup.
type AllowList map[string]struct{}

func NewAllowList(types ...string) AllowList {
	al := make(AllowList, len(types))
	for _, t := range types {
		al[t] = struct{}{}
	}
	return al
}

func (al AllowList) Contains(nodeType string) bool {
	_, ok := al[nodeType]
	return ok
}

// DefaultAllowList covers every node type the console editor can produce.
func DefaultAllowList() AllowList {
	return NewAllowList(
		"doc",
		"paragraph",
		"heading",
		"text",
		"bulletList",
		"orderedList",
		"listItem",
		"blockquote",
		"image",
		"hardBreak",
		"video",
	)
}

// Render walks the tree and emits HTML for allowed nodes. It is a pure
// function of (doc, allow): same inputs, byte-identical output.
func Render(doc *Node, allow AllowList) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	renderNode(&sb, doc, allow)
	return sb.String()
}

func renderNode(sb *strings.Builder, n *Node, allow AllowList) {
	if !allow.Contains(n.Type) {
		return
	}

	switch n.Type {

	case "doc":
		renderChildren(sb, n, allow)

	case "paragraph":
		sb.WriteString("<p>")
		renderChildren(sb, n, allow)
		sb.WriteString("</p>")

	case "heading":
		level := headingLevel(n.Attr("level"))
		fmt.Fprintf(sb, "<h%d>", level)
		renderChildren(sb, n, allow)
		fmt.Fprintf(sb, "</h%d>", level)

	case "text":
		text := html.EscapeString(n.Attr("text"))
		bold := n.Attr("bold") == "true"
		italic := n.Attr("italic") == "true"
		if bold {
			sb.WriteString("<strong>")
		}
		if italic {
			sb.WriteString("<em>")
		}
		sb.WriteString(text)
		if italic {
			sb.WriteString("</em>")
		}
		if bold {
			sb.WriteString("</strong>")
		}

	case "bulletList":
		sb.WriteString("<ul>")
		renderChildren(sb, n, allow)
		sb.WriteString("</ul>")

	case "orderedList":
		sb.WriteString("<ol>")
		renderChildren(sb, n, allow)
		sb.WriteString("</ol>")

	case "listItem":
		sb.WriteString("<li>")
		renderChildren(sb, n, allow)
		sb.WriteString("</li>")

	case "blockquote":
		sb.WriteString("<blockquote>")
		renderChildren(sb, n, allow)
		sb.WriteString("</blockquote>")

	case "image":
		src := n.Attr("src")
		if !isSafeImageSource(src) {
			return
		}
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`,
			html.EscapeString(src), html.EscapeString(n.Attr("alt")))

	case "hardBreak":
		sb.WriteString("<br>")

	case "video":
		id, ok := VideoID(n.Attr("src"))
		if !ok {
			// unrecognized source renders nothing rather than a broken embed
			return
		}
		fmt.Fprintf(sb, `<iframe src="https://www.youtube.com/embed/%s" allowfullscreen></iframe>`, id)
	}
}

func renderChildren(sb *strings.Builder, n *Node, allow AllowList) {
	for i := range n.Children {
		renderNode(sb, &n.Children[i], allow)
	}
}

func headingLevel(raw string) int {
	level, err := strconv.Atoi(raw)
	if err != nil || level < 1 || level > 6 {
		return 2
	}
	return level
}

// isSafeImageSource accepts site-relative paths and http(s) URLs only, so
// a tampered document cannot smuggle a javascript: or data: source.
func isSafeImageSource(s string) bool {
	if s == "" {
		return false
	}

	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.HasPrefix(s, "/")
}
