// internal/dragdrop/geometry.go
package dragdrop

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// maxAncestorDepth bounds the scroll-parent walk.
const maxAncestorDepth = 1024

// ScrollParent returns the nearest element, starting at n, whose content
// overflows it on either axis. The walk ends at the body, where the document
// element takes over as the viewport scroller.
func ScrollParent(host Host, n *html.Node) *html.Node {
	root := host.DocumentElement()
	body := host.Body()

	for depth := 0; n != nil && depth < maxAncestorDepth; depth++ {
		if !dom.IsElement(n) {
			break
		}
		if host.ScrollMetrics(n).Overflows() {
			return n
		}
		if n == body || n == root {
			break
		}
		n = n.Parent
	}
	return root
}

func (c *Controller) scrollContextFor(n *html.Node) scrollContext {
	el := ScrollParent(c.host, n)
	return scrollContext{element: el, rect: c.host.BoundingRect(el)}
}
