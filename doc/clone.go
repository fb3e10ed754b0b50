package doc

// Deep copy helpers used by duplication.

// cloneSubtree copies subtree rooted at id minting fresh ids throughout. The
// result is listed in pre-order, attributes and content are copied, relative
// structure is preserved.
func (d *Document) cloneSubtree(id string) []Node {
	ids := d.subtree(id)
	remap := make(map[string]string, len(ids))
	for _, old := range ids {
		remap[old] = d.newID()
	}

	nodes := make([]Node, 0, len(ids))
	for _, old := range ids {
		n := d.nodes[old].clone()
		n.ID = remap[old]
		n.Parent = remap[n.Parent] // empty for the subtree root
		for i, cid := range n.Items {
			n.Items[i] = remap[cid]
		}
		nodes = append(nodes, *n)
	}
	return nodes
}

// Clone returns independent deep copy of the whole document sharing id
// generator and logger.
func (d *Document) Clone() *Document {
	return &Document{
		nodes: d.snapshot(),
		newID: d.newID,
		log:   d.log,
	}
}
