package doc

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Op is a single reversible step of a structural edit. Each op validates
// everything it needs before touching the document, so a failing op leaves
// the document unchanged.
type Op interface {
	apply(d *Document) error
	String() string
}

// OpInsertSubtree attaches a detached subtree, Nodes are listed in pre-order
// and the first one is the subtree root.
type OpInsertSubtree struct {
	Parent   string
	Index    int
	Nodes    []Node
	Detached bool // do not set back reference of the subtree root
}

// OpDeleteSubtree removes node with every node reachable from it.
type OpDeleteSubtree struct {
	ID string
}

// OpMove detaches node from its current parent and inserts it at Index of
// Parent. Index is the final position of the node.
type OpMove struct {
	ID     string
	Parent string
	Index  int
}

// OpSetAttr sets attribute value, or removes the key when Present is false.
type OpSetAttr struct {
	ID      string
	Key     string
	Value   string
	Present bool
}

type OpSetContent struct {
	ID      string
	Content string
}

// Change is a recorded committed mutation: applying Inverse after Forward
// restores previous document state.
type Change struct {
	Label   string
	Forward []Op
	Inverse []Op
}

var (
	ErrNoNode    = errors.New("node does not exist")
	ErrNodeExist = errors.New("node already exists")
	ErrSentinel  = errors.New("sentinel node")
	ErrCycle     = errors.New("node cannot be moved into its own subtree")
)

func clampIndex(idx, n int) int {
	return max(0, min(idx, n))
}

func (op OpInsertSubtree) apply(d *Document) error {
	p, ok := d.nodes[op.Parent]
	if !ok {
		return fmt.Errorf("parent %q: %w", op.Parent, ErrNoNode)
	}
	if len(op.Nodes) == 0 {
		return errors.New("empty subtree")
	}
	for i := range op.Nodes {
		if d.Has(op.Nodes[i].ID) {
			return fmt.Errorf("%q: %w", op.Nodes[i].ID, ErrNodeExist)
		}
	}
	for i := range op.Nodes {
		n := op.Nodes[i].clone()
		if i == 0 {
			n.Parent = op.Parent
			if op.Detached {
				n.Parent = ""
			}
		}
		d.nodes[n.ID] = n
	}
	p.Items = slices.Insert(p.Items, clampIndex(op.Index, len(p.Items)), op.Nodes[0].ID)
	return nil
}

func (op OpInsertSubtree) String() string {
	tag := ""
	if len(op.Nodes) > 0 {
		tag = op.Nodes[0].Tag
	}
	return fmt.Sprintf("insert %s(%d nodes) into %s at %d", tag, len(op.Nodes), op.Parent, op.Index)
}

func (op OpDeleteSubtree) apply(d *Document) error {
	if IsSentinel(op.ID) {
		return fmt.Errorf("%q: %w", op.ID, ErrSentinel)
	}
	if !d.Has(op.ID) {
		return fmt.Errorf("%q: %w", op.ID, ErrNoNode)
	}
	if parent := d.ParentOf(op.ID); parent != "" {
		p := d.nodes[parent]
		p.Items = slices.DeleteFunc(p.Items, func(id string) bool { return id == op.ID })
	}
	for _, id := range d.subtree(op.ID) {
		delete(d.nodes, id)
	}
	return nil
}

func (op OpDeleteSubtree) String() string {
	return fmt.Sprintf("delete %s", op.ID)
}

func (op OpMove) apply(d *Document) error {
	n, ok := d.nodes[op.ID]
	if !ok {
		return fmt.Errorf("%q: %w", op.ID, ErrNoNode)
	}
	target, ok := d.nodes[op.Parent]
	if !ok {
		return fmt.Errorf("parent %q: %w", op.Parent, ErrNoNode)
	}
	if IsSentinel(op.ID) {
		return fmt.Errorf("%q: %w", op.ID, ErrSentinel)
	}
	if op.Parent == op.ID || d.IsDescendant(op.Parent, op.ID) {
		return fmt.Errorf("%q into %q: %w", op.ID, op.Parent, ErrCycle)
	}
	if old := d.ParentOf(op.ID); old != "" {
		p := d.nodes[old]
		p.Items = slices.DeleteFunc(p.Items, func(id string) bool { return id == op.ID })
	}
	target.Items = slices.Insert(target.Items, clampIndex(op.Index, len(target.Items)), op.ID)
	n.Parent = op.Parent
	return nil
}

func (op OpMove) String() string {
	return fmt.Sprintf("move %s to %s at %d", op.ID, op.Parent, op.Index)
}

func (op OpSetAttr) apply(d *Document) error {
	n, ok := d.nodes[op.ID]
	if !ok {
		return fmt.Errorf("%q: %w", op.ID, ErrNoNode)
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	if op.Present {
		n.Attributes[op.Key] = op.Value
	} else {
		delete(n.Attributes, op.Key)
	}
	return nil
}

func (op OpSetAttr) String() string {
	if !op.Present {
		return fmt.Sprintf("unset %s@%s", op.ID, op.Key)
	}
	return fmt.Sprintf("set %s@%s=%q", op.ID, op.Key, op.Value)
}

func (op OpSetContent) apply(d *Document) error {
	n, ok := d.nodes[op.ID]
	if !ok {
		return fmt.Errorf("%q: %w", op.ID, ErrNoNode)
	}
	n.Content = op.Content
	return nil
}

func (op OpSetContent) String() string {
	return fmt.Sprintf("content %s (%d bytes)", op.ID, len(op.Content))
}

// Apply replays operations in order. It is all or nothing: on error the
// document is restored to the state it had before the call. Errors only
// happen when ops do not belong to this document state.
func (d *Document) Apply(ops []Op) error {
	if len(ops) == 1 {
		return ops[0].apply(d)
	}
	saved := d.snapshot()
	for i, op := range ops {
		if err := op.apply(d); err != nil {
			d.nodes = saved
			return fmt.Errorf("op %d (%s): %w", i, op, err)
		}
	}
	return nil
}

// commit applies forward ops and packs them with inverse into a Change.
func (d *Document) commit(label string, forward, inverse []Op) *Change {
	if err := d.Apply(forward); err != nil {
		// validated by the caller, should never happen
		d.log.Error("Unable to apply edit", zap.String("edit", label), zap.Error(err))
		return nil
	}
	return &Change{Label: label, Forward: forward, Inverse: inverse}
}

func (d *Document) snapshot() map[string]*Node {
	saved := make(map[string]*Node, len(d.nodes))
	for id, n := range d.nodes {
		saved[id] = n.clone()
	}
	return saved
}
