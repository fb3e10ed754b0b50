package process

import (
	"mjed/cascade"
	"mjed/css"
	"mjed/doc"
	"mjed/utils/debug"
)

// DumpAttributes lists body components with their effective attributes,
// preceded by attribute classes defined in document head. Inline style is
// additionally broken into declarations.
func DumpAttributes(d *doc.Document) string {
	r := cascade.NewResolver(d)
	tw := debug.NewTreeWriter()

	defs := r.Defaults()
	if names := defs.ClassNames(); len(names) > 0 {
		tw.Line(0, "classes")
		for _, name := range names {
			tw.Line(1, "%s", name)
			tw.Attrs(2, defs.Class(name))
		}
	}

	d.WalkFrom(doc.BodyID, func(n *doc.Node, depth int) bool {
		if depth == 0 {
			tw.Line(0, "%s", n.Tag)
			return true
		}
		tw.Line(depth, "%s [%s]", n.Tag, n.ID)
		attrs := r.Resolve(n.ID)
		tw.Attrs(depth+1, attrs)
		if decls := css.ParseDeclarations(attrs["style"]); len(decls) > 0 {
			tw.Line(depth+1, "style")
			for _, d := range decls {
				tw.Line(depth+2, "%s", d)
			}
		}
		if n.Content != "" {
			tw.TextBlock(depth+1, "content", n.Content)
		}
		return true
	})
	return tw.String()
}
