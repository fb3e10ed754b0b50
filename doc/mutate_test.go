package doc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mjed/schema"
)

func TestNew(t *testing.T) {
	d := newTestDocument(t)
	mustCheck(t, d)

	if diff := cmp.Diff([]string{RootID, HeadID, BodyID}, d.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	if d.ParentOf(BodyID) != RootID || d.ParentOf(RootID) != "" {
		t.Error("unexpected sentinel parents")
	}
}

func TestAppendChild(t *testing.T) {
	t.Run("root_is_alias_for_body", func(t *testing.T) {
		d := newTestDocument(t)
		id, ch := d.AppendChild(RootID, schema.TagSection, true)
		if ch == nil || id == "" {
			t.Fatal("append rejected")
		}
		if d.ParentOf(id) != BodyID {
			t.Errorf("section parent = %q, want %q", d.ParentOf(id), BodyID)
		}
		mustCheck(t, d)
	})

	t.Run("rejects_unaccepted_tag", func(t *testing.T) {
		d, _, column := withColumn(t)
		before := d.Clone()
		for _, tc := range []struct{ parent, tag string }{
			{BodyID, schema.TagText},
			{column, schema.TagSection},
			{HeadID, schema.TagColumn},
			{"missing", schema.TagText},
			{column, "mj-unknown"},
		} {
			if id, ch := d.AppendChild(tc.parent, tc.tag, true); ch != nil || id != "" {
				t.Errorf("AppendChild(%s, %s) accepted", tc.parent, tc.tag)
			}
		}
		if !d.Equal(before) {
			t.Error("rejected appends changed the document")
		}
	})

	t.Run("rejects_children_of_leaf", func(t *testing.T) {
		d, _, column := withColumn(t)
		text, _ := d.AppendChild(column, schema.TagText, true)
		if _, ch := d.AppendChild(text, schema.TagText, true); ch != nil {
			t.Error("leaf accepted a child")
		}
	})

	t.Run("synthesizes_inner_structure", func(t *testing.T) {
		d, _, column := withColumn(t)
		tests := []struct {
			tag  string
			want []string
		}{
			{schema.TagNavbar, []string{schema.TagNavbarLink}},
			{schema.TagCarousel, []string{schema.TagCarouselImage}},
			{schema.TagSocial, []string{schema.TagSocialElement}},
			{schema.TagAccordion, []string{schema.TagAccordionElement}},
			{schema.TagTable, []string{schema.TagRow, schema.TagRow}},
			{schema.TagText, []string{}},
		}
		for _, tt := range tests {
			id, ch := d.AppendChild(column, tt.tag, true)
			if ch == nil {
				t.Fatalf("append %s rejected", tt.tag)
			}
			if diff := cmp.Diff(tt.want, tags(d, d.Children(id))); diff != "" {
				t.Errorf("%s children mismatch (-want +got):\n%s", tt.tag, diff)
			}
		}
		mustCheck(t, d)
	})

	t.Run("fresh_table_is_two_by_two", func(t *testing.T) {
		d, _, column := withColumn(t)
		table, _ := d.AppendChild(column, schema.TagTable, true)
		rows := d.Children(table)
		if diff := cmp.Diff([]string{schema.TagHeaderCell, schema.TagHeaderCell}, tags(d, d.Children(rows[0]))); diff != "" {
			t.Errorf("header row mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{schema.TagCell, schema.TagCell}, tags(d, d.Children(rows[1]))); diff != "" {
			t.Errorf("body row mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("accordion_element_has_title_and_text", func(t *testing.T) {
		d, _, column := withColumn(t)
		acc, _ := d.AppendChild(column, schema.TagAccordion, true)
		el := d.Children(acc)[0]
		if diff := cmp.Diff([]string{schema.TagAccordionTitle, schema.TagAccordionText}, tags(d, d.Children(el))); diff != "" {
			t.Errorf("accordion element mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("without_back_reference", func(t *testing.T) {
		d, _, column := withColumn(t)
		id, ch := d.AppendChild(column, schema.TagText, false)
		if ch == nil {
			t.Fatal("append rejected")
		}
		n, _ := d.Get(id)
		if n.Parent != "" {
			t.Errorf("Parent = %q, want empty", n.Parent)
		}
		if d.ParentOf(id) != column {
			t.Errorf("ParentOf() = %q, want %q", d.ParentOf(id), column)
		}
		mustCheck(t, d)

		d.ReindexParents()
		if n, _ = d.Get(id); n.Parent != column {
			t.Errorf("after reindex Parent = %q, want %q", n.Parent, column)
		}
	})
}

func TestInsertSiblingAfter(t *testing.T) {
	d, _, column := withColumn(t)
	first, _ := d.AppendChild(column, schema.TagText, true)
	last, _ := d.AppendChild(column, schema.TagImage, true)

	id, ch := d.InsertSiblingAfter(first, schema.TagButton)
	if ch == nil {
		t.Fatal("insert rejected")
	}
	if diff := cmp.Diff([]string{first, id, last}, d.Children(column)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if _, ch := d.InsertSiblingAfter(first, schema.TagSection); ch != nil {
		t.Error("column accepted section sibling")
	}
	if _, ch := d.InsertSiblingAfter(RootID, schema.TagSection); ch != nil {
		t.Error("root has no parent, insert must be rejected")
	}
	if _, ch := d.InsertSiblingAfter("missing", schema.TagText); ch != nil {
		t.Error("insert after missing node accepted")
	}
	mustCheck(t, d)
}

func TestMoveComponent(t *testing.T) {
	t.Run("reorder_within_parent", func(t *testing.T) {
		d, _, column := withColumn(t)
		a, _ := d.AppendChild(column, schema.TagText, true)
		b, _ := d.AppendChild(column, schema.TagImage, true)
		c, _ := d.AppendChild(column, schema.TagButton, true)

		if ch := d.MoveComponent(Destination{Parent: column, Index: 2, HasIndex: true}, a); ch == nil {
			t.Fatal("reorder rejected")
		}
		if diff := cmp.Diff([]string{b, c, a}, d.Children(column)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}

		if ch := d.MoveComponent(Destination{Parent: column, Index: 0, HasIndex: true}, a); ch == nil {
			t.Fatal("reorder rejected")
		}
		if diff := cmp.Diff([]string{a, b, c}, d.Children(column)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}

		if ch := d.MoveComponent(Destination{Parent: column}, a); ch != nil {
			t.Error("same parent move without index must be ignored")
		}
		if ch := d.MoveComponent(Destination{Parent: column, Index: 0, HasIndex: true}, a); ch != nil {
			t.Error("move to the same position must be ignored")
		}
		if ch := d.MoveComponent(Destination{Parent: column, Index: 99, HasIndex: true}, a); ch == nil {
			t.Error("index must be clamped")
		} else if diff := cmp.Diff([]string{b, c, a}, d.Children(column)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		mustCheck(t, d)
	})

	t.Run("across_parents", func(t *testing.T) {
		d, section, column := withColumn(t)
		other, _ := d.AppendChild(section, schema.TagColumn, true)
		text, _ := d.AppendChild(column, schema.TagText, true)
		img, _ := d.AppendChild(other, schema.TagImage, true)

		if ch := d.MoveComponent(ParseDestination(other+":0"), text); ch == nil {
			t.Fatal("move rejected")
		}
		if diff := cmp.Diff([]string{text, img}, d.Children(other)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if len(d.Children(column)) != 0 {
			t.Error("node not detached from old parent")
		}
		if n, _ := d.Get(text); n.Parent != other {
			t.Errorf("back reference = %q, want %q", n.Parent, other)
		}

		if ch := d.MoveComponent(ParseDestination(column), text); ch == nil {
			t.Fatal("append move rejected")
		}
		if diff := cmp.Diff([]string{text}, d.Children(column)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		mustCheck(t, d)
	})

	t.Run("illegal_target_leaves_tree_unchanged", func(t *testing.T) {
		d, section, column := withColumn(t)
		text, _ := d.AppendChild(column, schema.TagText, true)
		before := d.Clone()

		if ch := d.MoveComponent(ParseDestination(text), column); ch != nil {
			t.Error("column moved under text leaf")
		}
		if ch := d.MoveComponent(ParseDestination(BodyID), column); ch != nil {
			t.Error("column moved under body")
		}
		if ch := d.MoveComponent(ParseDestination(column), section); ch != nil {
			t.Error("section moved into own subtree")
		}
		if ch := d.MoveComponent(ParseDestination("missing"), text); ch != nil {
			t.Error("move to missing parent accepted")
		}
		for _, id := range []string{RootID, HeadID, BodyID} {
			if ch := d.MoveComponent(ParseDestination(column), id); ch != nil {
				t.Errorf("sentinel %s moved", id)
			}
		}
		if !d.Equal(before) {
			t.Errorf("rejected moves changed the document:\n%s", d.Dump())
		}
	})
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		in   string
		want Destination
	}{
		{"root-body", Destination{Parent: "root-body"}},
		{"n5:3", Destination{Parent: "n5", Index: 3, HasIndex: true}},
		{"n5:x", Destination{Parent: "n5:x"}},
		{"n5:-1", Destination{Parent: "n5:-1"}},
	}
	for _, tt := range tests {
		got := ParseDestination(tt.in)
		if got != tt.want {
			t.Errorf("ParseDestination(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}

func TestDuplicateComponent(t *testing.T) {
	d, section, column := withColumn(t)
	table, _ := d.AppendChild(column, schema.TagTable, true)
	after, _ := d.AppendChild(column, schema.TagText, true)
	d.SetAttribute(table, "border", "1px solid #000")

	clone, ch := d.DuplicateComponent(table, "")
	if ch == nil {
		t.Fatal("duplicate rejected")
	}
	if diff := cmp.Diff([]string{table, clone, after}, d.Children(column)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := d.Attributes(clone)["border"]; got != "1px solid #000" {
		t.Errorf("clone border = %q", got)
	}

	orig := map[string]struct{}{}
	d.WalkFrom(table, func(n *Node, _ int) bool {
		orig[n.ID] = struct{}{}
		return true
	})
	count := 0
	d.WalkFrom(clone, func(n *Node, _ int) bool {
		count++
		if _, shared := orig[n.ID]; shared {
			t.Errorf("clone reuses id %s", n.ID)
		}
		return true
	})
	if count != len(orig) {
		t.Errorf("clone has %d nodes, original %d", count, len(orig))
	}

	other, _ := d.AppendChild(section, schema.TagColumn, true)
	moved, ch := d.DuplicateComponent(after, other)
	if ch == nil || d.ParentOf(moved) != other {
		t.Error("duplicate into other column failed")
	}

	if _, ch := d.DuplicateComponent(after, BodyID); ch != nil {
		t.Error("body accepted duplicated text")
	}
	if _, ch := d.DuplicateComponent(BodyID, ""); ch != nil {
		t.Error("sentinel duplicated")
	}
	mustCheck(t, d)
}

func TestRemoveComponent(t *testing.T) {
	d, section, _ := withColumn(t)
	total := d.Len()

	if ch := d.RemoveComponent(section); ch == nil {
		t.Fatal("remove rejected")
	}
	if d.Len() != total-2 {
		t.Errorf("Len() = %d, want %d", d.Len(), total-2)
	}
	if len(d.Children(BodyID)) != 0 {
		t.Error("section still attached")
	}
	for _, id := range []string{RootID, HeadID, BodyID, "missing"} {
		if ch := d.RemoveComponent(id); ch != nil {
			t.Errorf("RemoveComponent(%s) accepted", id)
		}
	}
	mustCheck(t, d)
}

func TestAttributes(t *testing.T) {
	d, _, column := withColumn(t)
	text, _ := d.AppendChild(column, schema.TagText, true)

	if ch := d.SetAttribute(text, "color", "red"); ch == nil {
		t.Fatal("set rejected")
	}
	if ch := d.SetAttribute(text, "color", "red"); ch != nil {
		t.Error("unchanged value produced change")
	}
	if ch := d.SetAttribute("missing", "color", "red"); ch != nil {
		t.Error("missing node produced change")
	}

	if ch := d.RenameAttribute(text, "color", "color"); ch != nil {
		t.Error("rename to same key produced change")
	}
	if ch := d.RenameAttribute(text, "color", ""); ch != nil {
		t.Error("rename to empty key produced change")
	}
	if ch := d.RenameAttribute(text, "absent", "x"); ch != nil {
		t.Error("rename of absent key produced change")
	}
	if ch := d.RenameAttribute(text, "color", "background-color"); ch == nil {
		t.Fatal("rename rejected")
	}
	if diff := cmp.Diff(map[string]string{"background-color": "red"}, d.Attributes(text)); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	if ch := d.RemoveAttribute(text, "color"); ch != nil {
		t.Error("remove of absent key produced change")
	}
	if ch := d.RemoveAttribute(text, "background-color"); ch == nil {
		t.Fatal("remove rejected")
	}
	if len(d.Attributes(text)) != 0 {
		t.Errorf("attributes left: %v", d.Attributes(text))
	}
}

func TestSetContent(t *testing.T) {
	d, _, column := withColumn(t)
	text, _ := d.AppendChild(column, schema.TagText, true)

	if ch := d.SetContent(text, "Hello"); ch == nil {
		t.Fatal("content rejected")
	}
	if ch := d.SetContent(text, "Hello"); ch != nil {
		t.Error("unchanged content produced change")
	}
	if ch := d.SetContent(column, "Hello"); ch != nil {
		t.Error("container accepted content")
	}
	if n, _ := d.Get(text); n.Content != "Hello" {
		t.Errorf("Content = %q", n.Content)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	d, _, column := withColumn(t)
	n, _ := d.Get(column)
	n.Attributes["width"] = "50%"
	n.Items = append(n.Items, "bogus")
	if len(d.Attributes(column)) != 0 || len(d.Children(column)) != 0 {
		t.Error("Get() exposes internal node")
	}
}

func TestPathAndDescendants(t *testing.T) {
	d, section, column := withColumn(t)
	text, _ := d.AppendChild(column, schema.TagText, true)

	if diff := cmp.Diff([]string{RootID, BodyID, section, column}, d.Path(text)); diff != "" {
		t.Errorf("Path() mismatch (-want +got):\n%s", diff)
	}
	if !d.IsDescendant(text, BodyID) || d.IsDescendant(BodyID, BodyID) || d.IsDescendant(HeadID, BodyID) {
		t.Error("IsDescendant() wrong")
	}
}
