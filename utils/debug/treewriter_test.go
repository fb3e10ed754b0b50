package debug

import (
	"testing"
)

func TestNewTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw == nil {
		t.Fatal("NewTreeWriter() returned nil")
	}
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "mjml", want: "mjml\n"},
		{name: "depth 1", depth: 1, format: "mj-body", want: "  mj-body\n"},
		{name: "depth 2", depth: 2, format: "mj-section", want: "    mj-section\n"},
		{name: "with formatting", depth: 1, format: "%s [%d]", args: []any{"tr", 3}, want: "  tr [3]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tw := NewTreeWriter()
	tw.TextBlock(1, "content", "Hello \"world\"")
	tw.TextBlock(0, "empty", "")

	want := "  content: \"Hello \\\"world\\\"\"\nempty: \n"
	if got := tw.String(); got != want {
		t.Errorf("TextBlock() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Attrs(t *testing.T) {
	tw := NewTreeWriter()
	tw.Attrs(1, map[string]string{
		"padding-10": "x",
		"padding-2":  "y",
		"color":      "red",
	})

	want := "  @color=\"red\"\n  @padding-2=\"y\"\n  @padding-10=\"x\"\n"
	if got := tw.String(); got != want {
		t.Errorf("Attrs() = %q, want %q", got, want)
	}
}
