package doc

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"mjed/schema"
)

func sequentialIDs() IDSource {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	return New(WithIDSource(sequentialIDs()), WithLogger(zaptest.NewLogger(t)))
}

// withColumn returns document holding body > section > column.
func withColumn(t *testing.T) (d *Document, section, column string) {
	t.Helper()
	d = newTestDocument(t)
	section, ch := d.AppendChild(BodyID, schema.TagSection, true)
	if ch == nil {
		t.Fatal("unable to append section")
	}
	column, ch = d.AppendChild(section, schema.TagColumn, true)
	if ch == nil {
		t.Fatal("unable to append column")
	}
	return d, section, column
}

func mustCheck(t *testing.T, d *Document) {
	t.Helper()
	if err := d.Check(); err != nil {
		t.Fatalf("invariants violated: %v\n%s", err, d.Dump())
	}
}

func tags(d *Document, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.Tag(id))
	}
	return out
}
