package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// nodePred matches a single HTML node.
type nodePred func(*html.Node) bool

// selector is one entry in an ordered try-list. Selectors are evaluated in
// sequence until one yields a match; site layouts shift often enough that a
// single selector per field does not survive.
type selector struct {
	name string
	pred nodePred
}

func parseHTML(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

func byTag(tag string) nodePred {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// byClass matches elements of the given tag ("" = any) whose class attribute
// contains the given token as a substring.
func byClass(tag, class string) nodePred {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if tag != "" && n.Data != tag {
			return false
		}
		return strings.Contains(attrVal(n, "class"), class)
	}
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findAll collects nodes matching pred in document order, up to limit
// (0 = unlimited). Matching nodes are not descended into, so nested card
// containers yield only the outermost.
func findAll(root *html.Node, pred nodePred, limit int) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(out) >= limit {
			return
		}
		if pred(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, pred nodePred) *html.Node {
	nodes := findAll(root, pred, 1)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// nodeText returns the concatenated text content of n with runs of
// whitespace collapsed to single spaces.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// nodeLines returns the text of n split on element boundaries: each block of
// contiguous text becomes one line. Card heuristics work on these lines.
func nodeLines(n *html.Node) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				lines = append(lines, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return lines
}

// cardsBySelectors runs the try-list against root and returns the name of the
// first selector that matched together with its nodes.
func cardsBySelectors(root *html.Node, selectors []selector, limit int) (string, []*html.Node) {
	for _, sel := range selectors {
		if nodes := findAll(root, sel.pred, limit); len(nodes) > 0 {
			return sel.name, nodes
		}
	}
	return "", nil
}

// textBySelectors returns the text of the first node matched by the
// try-list, or "".
func textBySelectors(root *html.Node, selectors []selector) string {
	for _, sel := range selectors {
		if n := findFirst(root, sel.pred); n != nil {
			if s := nodeText(n); s != "" {
				return s
			}
		}
	}
	return ""
}

// anchorHref returns the href of the first anchor under root whose href
// contains the given fragment.
func anchorHref(root *html.Node, contains string) string {
	n := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			strings.Contains(attrVal(n, "href"), contains)
	})
	if n == nil {
		return ""
	}
	return attrVal(n, "href")
}
