// Package doc keeps email template document as an arena of nodes keyed by id
// and provides the only set of primitives allowed to change it.
//
// Every mutation is atomic: it either applies completely, keeping all
// structural invariants intact, or leaves the document untouched. Mutations
// never fail loudly - illegal edits (tag not accepted by the target parent,
// missing nodes, attempts to move or remove sentinels) are ignored and
// reported as nil *Change. Successful mutations return a *Change holding both
// forward and inverse operations, which is what history replays.
package doc

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mjed/schema"
)

// Reserved sentinel ids.
const (
	RootID = "root"
	HeadID = "root-head"
	BodyID = "root-body"
)

// IsSentinel reports whether id is one of the never removable ids.
func IsSentinel(id string) bool {
	return id == RootID || id == HeadID || id == BodyID
}

// Node is a single addressable unit of the document. Items are owning
// references to children, Parent is a back reference used only for upward
// traversal and may be empty when the node was attached without it.
type Node struct {
	ID         string
	Tag        string
	Items      []string
	Parent     string
	Attributes map[string]string
	Content    string
}

func (n *Node) clone() *Node {
	c := *n
	c.Items = slices.Clone(n.Items)
	if n.Attributes != nil {
		c.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			c.Attributes[k] = v
		}
	} else {
		c.Attributes = map[string]string{}
	}
	return &c
}

// IDSource mints process unique node ids.
type IDSource func() string

// NewID is default IDSource, time ordered UUIDs.
func NewID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Document owns all nodes of one email template.
type Document struct {
	nodes map[string]*Node
	newID IDSource
	log   *zap.Logger
}

type Option func(*Document)

// WithIDSource replaces default id generator, mostly useful for tests.
func WithIDSource(src IDSource) Option {
	return func(d *Document) {
		if src != nil {
			d.newID = src
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates empty canonical document: root with head and body.
func New(opts ...Option) *Document {
	d := newDocument(opts...)
	d.nodes[RootID] = &Node{ID: RootID, Tag: schema.TagRoot, Items: []string{HeadID, BodyID}, Attributes: map[string]string{}}
	d.nodes[HeadID] = &Node{ID: HeadID, Tag: schema.TagHead, Parent: RootID, Attributes: map[string]string{}}
	d.nodes[BodyID] = &Node{ID: BodyID, Tag: schema.TagBody, Parent: RootID, Attributes: map[string]string{}}
	return d
}

func newDocument(opts ...Option) *Document {
	d := &Document{
		nodes: make(map[string]*Node),
		newID: NewID,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.Named("doc")
	return d
}

// Logger returns logger document was created with.
func (d *Document) Logger() *zap.Logger {
	return d.log
}

// IDSource returns id generator used by the document.
func (d *Document) IDSource() IDSource {
	return d.newID
}

// Len returns number of nodes in the document.
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) Has(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Get returns detached copy of the node, modifying it does not affect the
// document.
func (d *Document) Get(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, false
	}
	return n.clone(), true
}

// Tag returns tag of the node or empty string.
func (d *Document) Tag(id string) string {
	if n, ok := d.nodes[id]; ok {
		return n.Tag
	}
	return ""
}

// Children returns copy of node's child ids.
func (d *Document) Children(id string) []string {
	if n, ok := d.nodes[id]; ok {
		return slices.Clone(n.Items)
	}
	return nil
}

// Attributes returns copy of node's inline attributes, nil if node does not exist.
func (d *Document) Attributes(id string) map[string]string {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return n.clone().Attributes
}

// ParentOf returns id of the node owning id in its items. When back reference
// has not been attached the owner is found by scanning the arena.
func (d *Document) ParentOf(id string) string {
	n, ok := d.nodes[id]
	if !ok {
		return ""
	}
	if n.Parent != "" {
		return n.Parent
	}
	if id == RootID {
		return ""
	}
	for pid, p := range d.nodes {
		if slices.Contains(p.Items, id) {
			return pid
		}
	}
	return ""
}

// ReindexParents recomputes every back reference from items.
func (d *Document) ReindexParents() {
	for _, n := range d.nodes {
		n.Parent = ""
	}
	for pid, p := range d.nodes {
		for _, cid := range p.Items {
			if c, ok := d.nodes[cid]; ok {
				c.Parent = pid
			}
		}
	}
}

// IDs returns all ids reachable from root in depth-first pre-order.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.nodes))
	d.Walk(func(n *Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Walk visits nodes reachable from root depth-first, pre-order. Returning
// false from fn skips node's children. Nodes passed to fn must not be modified.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	d.walkFrom(RootID, 0, fn)
}

// WalkFrom is Walk starting at arbitrary node.
func (d *Document) WalkFrom(id string, fn func(n *Node, depth int) bool) {
	d.walkFrom(id, 0, fn)
}

func (d *Document) walkFrom(id string, depth int, fn func(n *Node, depth int) bool) {
	n, ok := d.nodes[id]
	if !ok {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, cid := range n.Items {
		d.walkFrom(cid, depth+1, fn)
	}
}

// Path returns chain of ancestors of id starting with root and ending with
// direct parent.
func (d *Document) Path(id string) []string {
	var path []string
	seen := map[string]struct{}{id: {}}
	for p := d.ParentOf(id); p != ""; p = d.ParentOf(p) {
		if _, loop := seen[p]; loop {
			break
		}
		seen[p] = struct{}{}
		path = append(path, p)
	}
	slices.Reverse(path)
	return path
}

// IsDescendant reports whether id lies strictly inside subtree of ancestor.
func (d *Document) IsDescendant(id, ancestor string) bool {
	if id == ancestor || !d.Has(id) {
		return false
	}
	return slices.Contains(d.Path(id), ancestor)
}

// indexOf returns position of child in parent's items or -1.
func (d *Document) indexOf(parent, child string) int {
	if p, ok := d.nodes[parent]; ok {
		return slices.Index(p.Items, child)
	}
	return -1
}

// subtree returns ids of the subtree rooted at id in pre-order.
func (d *Document) subtree(id string) []string {
	var ids []string
	d.walkFrom(id, 0, func(n *Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}
