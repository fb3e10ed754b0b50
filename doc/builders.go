package doc

import (
	"mjed/schema"
)

// blueprint describes a subtree before ids are minted.
type blueprint struct {
	tag      string
	attrs    map[string]string
	content  string
	children []blueprint
}

// Builder produces new detached subtree for tag: id of subtree root and all
// nodes in pre-order. Builders do not touch any document.
type Builder func(tag string, newID IDSource) (string, []Node)

// builders is the dispatch table for tags with mandatory inner structure,
// every other tag gets a single bare node.
var builders = map[string]func() blueprint{
	schema.TagTable: func() blueprint {
		return tableBlueprint(2, 2)
	},
	schema.TagRow: func() blueprint {
		return blueprint{tag: schema.TagRow, children: []blueprint{{tag: schema.TagCell}}}
	},
	schema.TagNavbar: func() blueprint {
		return blueprint{tag: schema.TagNavbar, children: []blueprint{
			{tag: schema.TagNavbarLink, attrs: map[string]string{"href": "#"}, content: "Link"},
		}}
	},
	schema.TagCarousel: func() blueprint {
		return blueprint{tag: schema.TagCarousel, children: []blueprint{
			{tag: schema.TagCarouselImage},
		}}
	},
	schema.TagSocial: func() blueprint {
		return blueprint{tag: schema.TagSocial, children: []blueprint{
			{tag: schema.TagSocialElement, attrs: map[string]string{"name": "facebook"}, content: "Facebook"},
		}}
	},
	schema.TagAccordion: func() blueprint {
		return blueprint{tag: schema.TagAccordion, children: []blueprint{accordionElementBlueprint()}}
	},
	schema.TagAccordionElement: accordionElementBlueprint,
}

func accordionElementBlueprint() blueprint {
	return blueprint{tag: schema.TagAccordionElement, children: []blueprint{
		{tag: schema.TagAccordionTitle, content: "Title"},
		{tag: schema.TagAccordionText, content: "Text"},
	}}
}

// tableBlueprint creates rows x cols grid, first row is made of header cells.
func tableBlueprint(rows, cols int) blueprint {
	table := blueprint{tag: schema.TagTable}
	for r := range rows {
		table.children = append(table.children, rowBlueprint(cellTagForRow(r), cols))
	}
	return table
}

func rowBlueprint(cellTag string, cols int) blueprint {
	row := blueprint{tag: schema.TagRow}
	for range cols {
		row.children = append(row.children, blueprint{tag: cellTag})
	}
	return row
}

func cellTagForRow(r int) string {
	if r == 0 {
		return schema.TagHeaderCell
	}
	return schema.TagCell
}

func blueprintFor(tag string) blueprint {
	if b, ok := builders[tag]; ok {
		return b()
	}
	return blueprint{tag: tag}
}

// BuildSubtree is default Builder.
func BuildSubtree(tag string, newID IDSource) (string, []Node) {
	nodes := blueprintFor(tag).flatten(newID, "")
	return nodes[0].ID, nodes
}

// flatten mints ids and lists nodes in pre-order, the first node gets parent
// as back reference.
func (bp blueprint) flatten(newID IDSource, parent string) []Node {
	n := Node{
		ID:         newID(),
		Tag:        bp.tag,
		Parent:     parent,
		Content:    bp.content,
		Attributes: make(map[string]string, len(bp.attrs)),
	}
	for k, v := range bp.attrs {
		n.Attributes[k] = v
	}
	nodes := []Node{n}
	for _, child := range bp.children {
		sub := child.flatten(newID, n.ID)
		nodes[0].Items = append(nodes[0].Items, sub[0].ID)
		nodes = append(nodes, sub...)
	}
	return nodes
}
