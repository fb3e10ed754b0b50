package doc

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"mjed/schema"
)

// Check verifies structural invariants and returns all violations found:
//   - no id is owned by more than one parent (or twice by the same one)
//   - every referenced id exists, no node is left unreachable
//   - leaves have no children
//   - every edge is permitted by the schema
//   - head and body exist and appear exactly once under root
//   - back references, when present, point to the owner
func (d *Document) Check() (err error) {
	root, ok := d.nodes[RootID]
	if !ok || root.Tag != schema.TagRoot {
		return fmt.Errorf("root node is missing or has wrong tag")
	}

	owner := make(map[string]string, len(d.nodes))
	for _, pid := range slices.Sorted(maps.Keys(d.nodes)) {
		p := d.nodes[pid]
		if schema.IsLeaf(p.Tag) && len(p.Items) > 0 {
			err = multierr.Append(err, fmt.Errorf("leaf %s (%s) has %d children", pid, p.Tag, len(p.Items)))
		}
		for _, cid := range p.Items {
			if prev, dup := owner[cid]; dup {
				err = multierr.Append(err, fmt.Errorf("node %s owned by both %s and %s", cid, prev, pid))
				continue
			}
			owner[cid] = pid
			c, ok := d.nodes[cid]
			if !ok {
				err = multierr.Append(err, fmt.Errorf("dangling reference %s in %s", cid, pid))
				continue
			}
			if !schema.CanAccept(p.Tag, c.Tag) {
				err = multierr.Append(err, fmt.Errorf("%s does not accept %s (%s in %s)", p.Tag, c.Tag, cid, pid))
			}
			if c.Parent != "" && c.Parent != pid {
				err = multierr.Append(err, fmt.Errorf("node %s back reference %s, owned by %s", cid, c.Parent, pid))
			}
		}
	}

	for _, id := range []string{HeadID, BodyID} {
		n, ok := d.nodes[id]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("sentinel %s is missing", id))
			continue
		}
		if owner[id] != RootID || slices.Index(root.Items, id) < 0 {
			err = multierr.Append(err, fmt.Errorf("sentinel %s is not a child of root", id))
		}
		want := schema.TagHead
		if id == BodyID {
			want = schema.TagBody
		}
		if n.Tag != want {
			err = multierr.Append(err, fmt.Errorf("sentinel %s has tag %s", id, n.Tag))
		}
	}
	for _, cid := range root.Items {
		if tag := d.Tag(cid); (tag == schema.TagHead && cid != HeadID) || (tag == schema.TagBody && cid != BodyID) {
			err = multierr.Append(err, fmt.Errorf("extra %s %s under root", tag, cid))
		}
	}

	reachable := make(map[string]struct{}, len(d.nodes))
	d.Walk(func(n *Node, _ int) bool {
		if _, seen := reachable[n.ID]; seen {
			return false
		}
		reachable[n.ID] = struct{}{}
		return true
	})
	for _, id := range slices.Sorted(maps.Keys(d.nodes)) {
		if _, ok := reachable[id]; !ok {
			err = multierr.Append(err, fmt.Errorf("node %s (%s) is not reachable from root", id, d.nodes[id].Tag))
		}
	}
	return err
}

// Equal compares documents structurally: tags, attributes, content and child
// order. Ids are ignored.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.equalSubtree(RootID, other, RootID)
}

func (d *Document) equalSubtree(id string, other *Document, oid string) bool {
	a, okA := d.nodes[id]
	b, okB := other.nodes[oid]
	if !okA || !okB {
		return okA == okB
	}
	if a.Tag != b.Tag || a.Content != b.Content || len(a.Items) != len(b.Items) {
		return false
	}
	if len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for k, v := range a.Attributes {
		if bv, ok := b.Attributes[k]; !ok || bv != v {
			return false
		}
	}
	for i := range a.Items {
		if !d.equalSubtree(a.Items[i], other, b.Items[i]) {
			return false
		}
	}
	return true
}
