package doc

import (
	"mjed/utils/debug"
)

// Dump renders the document as indented tree, ids included. Intended for logs
// and test failures.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	d.Walk(func(n *Node, depth int) bool {
		tw.Line(depth, "%s [%s]", n.Tag, n.ID)
		tw.Attrs(depth+1, n.Attributes)
		if n.Content != "" {
			tw.TextBlock(depth+1, "content", n.Content)
		}
		return true
	})
	return tw.String()
}
