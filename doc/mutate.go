package doc

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mjed/schema"
)

// reject logs ignored edit. Illegal edits are expected - UI filters drop
// targets with the same schema queries - so this is debug level only.
func (d *Document) reject(op, reason string, fields ...zap.Field) {
	d.log.Debug("Edit rejected", append([]zap.Field{zap.String("op", op), zap.String("reason", reason)}, fields...)...)
}

// snapshotSubtree captures deep copy of subtree rooted at id in pre-order.
func (d *Document) snapshotSubtree(id string) []Node {
	ids := d.subtree(id)
	nodes := make([]Node, 0, len(ids))
	for _, nid := range ids {
		nodes = append(nodes, *d.nodes[nid].clone())
	}
	return nodes
}

// insert attaches freshly built subtree at index of parent.
func (d *Document) insert(label, parent string, index int, nodes []Node, attach bool) *Change {
	fwd := []Op{OpInsertSubtree{Parent: parent, Index: index, Nodes: nodes, Detached: !attach}}
	inv := []Op{OpDeleteSubtree{ID: nodes[0].ID}}
	return d.commit(label, fwd, inv)
}

// AppendChild creates new subtree for tag and appends it to parent's items.
// Root is treated as alias for body: new top level content always lands in
// the body. When attachBackReference is false new node's Parent is left empty.
func (d *Document) AppendChild(parentID, tag string, attachBackReference bool) (string, *Change) {
	if parentID == RootID {
		parentID = BodyID
	}
	p, ok := d.nodes[parentID]
	if !ok {
		d.reject("append", "no parent", zap.String("parent", parentID))
		return "", nil
	}
	if !schema.CanAccept(p.Tag, tag) {
		d.reject("append", "tag not accepted", zap.String("parent", p.Tag), zap.String("tag", tag))
		return "", nil
	}
	id, nodes := BuildSubtree(tag, d.newID)
	return id, d.insert("append "+tag, parentID, len(p.Items), nodes, attachBackReference)
}

// InsertSiblingAfter creates new subtree for tag right after id in its
// parent's items.
func (d *Document) InsertSiblingAfter(id, tag string) (string, *Change) {
	parent := d.ParentOf(id)
	if parent == "" {
		d.reject("insert-after", "no parent", zap.String("id", id))
		return "", nil
	}
	p := d.nodes[parent]
	if schema.IsSentinel(tag) {
		d.reject("insert-after", "sentinel tag", zap.String("tag", tag))
		return "", nil
	}
	if !schema.CanAccept(p.Tag, tag) {
		d.reject("insert-after", "tag not accepted", zap.String("parent", p.Tag), zap.String("tag", tag))
		return "", nil
	}
	nid, nodes := BuildSubtree(tag, d.newID)
	return nid, d.insert("insert "+tag, parent, d.indexOf(parent, id)+1, nodes, true)
}

// Destination is insertion point of a move: parent and, optionally, index in
// its items.
type Destination struct {
	Parent   string
	Index    int
	HasIndex bool
}

// ParseDestination decodes "parent" (append at the end) or "parent:index".
func ParseDestination(path string) Destination {
	if i := strings.LastIndexByte(path, ':'); i >= 0 {
		if idx, err := strconv.Atoi(path[i+1:]); err == nil && idx >= 0 {
			return Destination{Parent: path[:i], Index: idx, HasIndex: true}
		}
	}
	return Destination{Parent: path}
}

func (dst Destination) String() string {
	if dst.HasIndex {
		return fmt.Sprintf("%s:%d", dst.Parent, dst.Index)
	}
	return dst.Parent
}

// MoveComponent reparents or reorders node id. Within the same parent only an
// explicit index reorders. Across parents the new parent must accept node's
// tag.
func (d *Document) MoveComponent(dst Destination, id string) *Change {
	n, ok := d.nodes[id]
	if !ok {
		d.reject("move", "no node", zap.String("id", id))
		return nil
	}
	if IsSentinel(id) {
		d.reject("move", "sentinel", zap.String("id", id))
		return nil
	}
	target, ok := d.nodes[dst.Parent]
	if !ok {
		d.reject("move", "no destination", zap.Stringer("dst", dst))
		return nil
	}
	from := d.ParentOf(id)
	if from == "" {
		d.reject("move", "detached node", zap.String("id", id))
		return nil
	}
	fromIndex := d.indexOf(from, id)

	if from == dst.Parent {
		if !dst.HasIndex {
			d.reject("move", "same parent without index", zap.String("id", id))
			return nil
		}
		// array move: index counts positions after the node is taken out
		to := clampIndex(dst.Index, len(target.Items)-1)
		if to == fromIndex {
			return nil
		}
		return d.commit("move "+n.Tag,
			[]Op{OpMove{ID: id, Parent: from, Index: to}},
			[]Op{OpMove{ID: id, Parent: from, Index: fromIndex}})
	}

	if !schema.CanAccept(target.Tag, n.Tag) {
		d.reject("move", "tag not accepted", zap.String("parent", target.Tag), zap.String("tag", n.Tag))
		return nil
	}
	if dst.Parent == id || d.IsDescendant(dst.Parent, id) {
		d.reject("move", "into own subtree", zap.String("id", id))
		return nil
	}
	to := len(target.Items)
	if dst.HasIndex {
		to = clampIndex(dst.Index, len(target.Items))
	}
	return d.commit("move "+n.Tag,
		[]Op{OpMove{ID: id, Parent: dst.Parent, Index: to}},
		[]Op{OpMove{ID: id, Parent: from, Index: fromIndex}})
}

// DuplicateComponent deep clones subtree rooted at id with fresh ids. The
// clone goes right after the original when target is the original parent
// (empty target means the same), otherwise it is appended to target.
func (d *Document) DuplicateComponent(id, targetParentID string) (string, *Change) {
	n, ok := d.nodes[id]
	if !ok {
		d.reject("duplicate", "no node", zap.String("id", id))
		return "", nil
	}
	if IsSentinel(id) {
		d.reject("duplicate", "sentinel", zap.String("id", id))
		return "", nil
	}
	from := d.ParentOf(id)
	if targetParentID == "" {
		targetParentID = from
	}
	target, ok := d.nodes[targetParentID]
	if !ok {
		d.reject("duplicate", "no target", zap.String("target", targetParentID))
		return "", nil
	}
	if !schema.CanAccept(target.Tag, n.Tag) {
		d.reject("duplicate", "tag not accepted", zap.String("parent", target.Tag), zap.String("tag", n.Tag))
		return "", nil
	}
	index := len(target.Items)
	if targetParentID == from {
		index = d.indexOf(from, id) + 1
	}
	nodes := d.cloneSubtree(id)
	return nodes[0].ID, d.insert("duplicate "+n.Tag, targetParentID, index, nodes, true)
}

// RemoveComponent deletes full subtree rooted at id.
func (d *Document) RemoveComponent(id string) *Change {
	n, ok := d.nodes[id]
	if !ok {
		d.reject("remove", "no node", zap.String("id", id))
		return nil
	}
	if IsSentinel(id) {
		d.reject("remove", "sentinel", zap.String("id", id))
		return nil
	}
	parent := d.ParentOf(id)
	if parent == "" {
		d.reject("remove", "detached node", zap.String("id", id))
		return nil
	}
	inv := []Op{OpInsertSubtree{
		Parent:   parent,
		Index:    d.indexOf(parent, id),
		Nodes:    d.snapshotSubtree(id),
		Detached: n.Parent == "",
	}}
	return d.commit("remove "+n.Tag, []Op{OpDeleteSubtree{ID: id}}, inv)
}

// SetAttribute sets inline attribute, no-op if value is unchanged.
func (d *Document) SetAttribute(id, key, value string) *Change {
	n, ok := d.nodes[id]
	if !ok || key == "" {
		return nil
	}
	old, present := n.Attributes[key]
	if present && old == value {
		return nil
	}
	return d.commit("set "+key,
		[]Op{OpSetAttr{ID: id, Key: key, Value: value, Present: true}},
		[]Op{OpSetAttr{ID: id, Key: key, Value: old, Present: present}})
}

// RemoveAttribute drops inline attribute, no-op if it is absent.
func (d *Document) RemoveAttribute(id, key string) *Change {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	old, present := n.Attributes[key]
	if !present {
		return nil
	}
	return d.commit("remove "+key,
		[]Op{OpSetAttr{ID: id, Key: key}},
		[]Op{OpSetAttr{ID: id, Key: key, Value: old, Present: true}})
}

// RenameAttribute moves value from one key to another. Existing value under
// the target key is overwritten.
func (d *Document) RenameAttribute(id, fromKey, toKey string) *Change {
	n, ok := d.nodes[id]
	if !ok || toKey == "" || toKey == fromKey {
		return nil
	}
	value, present := n.Attributes[fromKey]
	if !present {
		return nil
	}
	oldTo, hadTo := n.Attributes[toKey]
	return d.commit("rename "+fromKey,
		[]Op{
			OpSetAttr{ID: id, Key: toKey, Value: value, Present: true},
			OpSetAttr{ID: id, Key: fromKey},
		},
		[]Op{
			OpSetAttr{ID: id, Key: fromKey, Value: value, Present: true},
			OpSetAttr{ID: id, Key: toKey, Value: oldTo, Present: hadTo},
		})
}

// SetContent replaces text of a leaf node.
func (d *Document) SetContent(id, content string) *Change {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	if !schema.IsLeaf(n.Tag) {
		d.reject("content", "not a leaf", zap.String("tag", n.Tag))
		return nil
	}
	if n.Content == content {
		return nil
	}
	return d.commit("edit "+n.Tag,
		[]Op{OpSetContent{ID: id, Content: content}},
		[]Op{OpSetContent{ID: id, Content: n.Content}})
}
