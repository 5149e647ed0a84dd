// internal/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// GenerateUniqueXPath builds an XPath that selects exactly this node.
// An ancestor with an id attribute anchors the path and stops the walk.
func GenerateUniqueXPath(node *html.Node) string {
	if node == nil {
		return ""
	}

	var path []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if tag == "" {
			continue
		}

		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			path = append(path, "//*[@id="+XPathLiteral(id)+"]")
			break
		}

		// XPath indices are 1-based.
		index := 1
		for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
				index++
			}
		}
		path = append(path, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(path) == 0 {
		return "/"
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	xpath := strings.Join(path, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}

// XPathLiteral quotes s as an XPath 1.0 string literal. Values holding both
// quote kinds are built with concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts)-1)
	for i, part := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if part != "" {
			args = append(args, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// Describe is a short human label for logs: `#id` when present, otherwise the XPath.
func Describe(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	if id := Attr(n, "id"); id != "" {
		return "#" + id
	}
	return GenerateUniqueXPath(n)
}

// Query returns the first node matching expr.
func Query(root *html.Node, expr string) (*html.Node, error) {
	n, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath selector '%s': %w", expr, err)
	}
	if n == nil {
		return nil, fmt.Errorf("element not found matching selector '%s'", expr)
	}
	return n, nil
}

// QueryAll returns every node matching expr in document order.
func QueryAll(root *html.Node, expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath selector '%s': %w", expr, err)
	}
	return nodes, nil
}
