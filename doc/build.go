package doc

import (
	"fmt"

	"mjed/interchange"
	"mjed/schema"
)

// Build materializes canonical interchange tree: root tag with exactly one
// head and one body child. Ids are never imported, every node gets a fresh
// one (sentinels get reserved ids) and back references are assigned top-down.
// Input which does not satisfy document invariants is refused, use normalize
// package for arbitrary input.
func Build(root *interchange.Element, opts ...Option) (*Document, error) {
	if root == nil || root.Tag != schema.TagRoot {
		return nil, fmt.Errorf("document root must be %s", schema.TagRoot)
	}
	var heads, bodies int
	for _, c := range root.Children {
		switch c.Tag {
		case schema.TagHead:
			heads++
		case schema.TagBody:
			bodies++
		}
	}
	if heads != 1 || bodies != 1 {
		return nil, fmt.Errorf("document must have exactly one head and one body, got %d and %d", heads, bodies)
	}

	d := newDocument(opts...)
	d.materialize(root, "")
	if err := d.Check(); err != nil {
		return nil, fmt.Errorf("document is not canonical: %w", err)
	}
	return d, nil
}

func (d *Document) materialize(el *interchange.Element, parent string) string {
	var id string
	switch {
	case parent == "" && el.Tag == schema.TagRoot:
		id = RootID
	case parent == RootID && el.Tag == schema.TagHead:
		id = HeadID
	case parent == RootID && el.Tag == schema.TagBody:
		id = BodyID
	default:
		id = d.newID()
	}

	n := &Node{
		ID:         id,
		Tag:        el.Tag,
		Parent:     parent,
		Attributes: make(map[string]string, len(el.Attributes)),
	}
	for k, v := range el.Attributes {
		n.Attributes[k] = v
	}
	if len(el.Children) == 0 {
		n.Content = el.Content
	}
	d.nodes[id] = n
	for _, c := range el.Children {
		n.Items = append(n.Items, d.materialize(c, id))
	}
	return id
}
