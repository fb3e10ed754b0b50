package doc

import (
	"go.uber.org/zap"

	"mjed/schema"
)

// Table grid editing. Header and body cells are told apart only by tag: the
// first row is expected to hold header cells, when that cannot be inferred
// from existing cells the row position decides.

// AppendTableWithSize creates table with rows x cols grid and attaches it as
// AppendChild would. Sizes below one are raised to one.
func (d *Document) AppendTableWithSize(parentID string, rows, cols int) (string, *Change) {
	if parentID == RootID {
		parentID = BodyID
	}
	p, ok := d.nodes[parentID]
	if !ok {
		d.reject("append-table", "no parent", zap.String("parent", parentID))
		return "", nil
	}
	if !schema.CanAccept(p.Tag, schema.TagTable) {
		d.reject("append-table", "tag not accepted", zap.String("parent", p.Tag))
		return "", nil
	}
	nodes := tableBlueprint(max(rows, 1), max(cols, 1)).flatten(d.newID, "")
	return nodes[0].ID, d.insert("append table", parentID, len(p.Items), nodes, true)
}

func (d *Document) table(op, id string) (*Node, bool) {
	t, ok := d.nodes[id]
	if !ok {
		d.reject(op, "no node", zap.String("id", id))
		return nil, false
	}
	if t.Tag != schema.TagTable {
		d.reject(op, "not a table", zap.String("tag", t.Tag))
		return nil, false
	}
	return t, true
}

// tableWidth is the number of cells in the widest row, at least one.
func (d *Document) tableWidth(t *Node) int {
	width := 1
	for _, rid := range t.Items {
		width = max(width, len(d.nodes[rid].Items))
	}
	return width
}

// AppendTableRow adds a row as wide as the widest existing row. The row is
// made of header cells only when it becomes the first row.
func (d *Document) AppendTableRow(tableID string) *Change {
	t, ok := d.table("append-row", tableID)
	if !ok {
		return nil
	}
	nodes := rowBlueprint(cellTagForRow(len(t.Items)), d.tableWidth(t)).flatten(d.newID, "")
	return d.insert("append row", tableID, len(t.Items), nodes, true)
}

// AppendTableColumn adds one cell to every existing row. Cell tag follows the
// first cell of the row, empty first row gets a header cell.
func (d *Document) AppendTableColumn(tableID string) *Change {
	t, ok := d.table("append-column", tableID)
	if !ok {
		return nil
	}
	if len(t.Items) == 0 {
		d.reject("append-column", "table has no rows", zap.String("id", tableID))
		return nil
	}

	var fwd, inv []Op
	for r, rid := range t.Items {
		row := d.nodes[rid]
		tag := cellTagForRow(r)
		if len(row.Items) > 0 {
			tag = d.nodes[row.Items[0]].Tag
		}
		cell := blueprint{tag: tag}.flatten(d.newID, "")
		fwd = append(fwd, OpInsertSubtree{Parent: rid, Index: len(row.Items), Nodes: cell})
		inv = append([]Op{OpDeleteSubtree{ID: cell[0].ID}}, inv...)
	}
	return d.commit("append column", fwd, inv)
}

// TableSize reports rows and widest row of the table.
func (d *Document) TableSize(tableID string) (rows, cols int) {
	t, ok := d.nodes[tableID]
	if !ok || t.Tag != schema.TagTable {
		return 0, 0
	}
	for _, rid := range t.Items {
		cols = max(cols, len(d.nodes[rid].Items))
	}
	return len(t.Items), cols
}
