package interchange

import (
	"strings"
	"testing"
)

func TestParseMarkup(t *testing.T) {
	src := `<mjml>
  <mj-head>
    <mj-attributes>
      <mj-all font-family="Arial" />
    </mj-attributes>
  </mj-head>
  <mj-body background-color="#fff">
    <mj-section>
      <mj-column>
        <mj-text color="red">Hello <b>world</b>&nbsp;!</mj-text>
        <mj-image src="a.png" />
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>`

	el, err := ParseMarkup(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkup() error = %v", err)
	}
	if el.Tag != "mjml" || len(el.Children) != 2 {
		t.Fatalf("unexpected root %s with %d children", el.Tag, len(el.Children))
	}

	head, body := el.Children[0], el.Children[1]
	if head.Tag != "mj-head" || body.Tag != "mj-body" {
		t.Fatalf("unexpected children %s, %s", head.Tag, body.Tag)
	}
	if got := head.Children[0].Children[0].Attributes["font-family"]; got != "Arial" {
		t.Errorf("mj-all font-family = %q", got)
	}
	if got := body.Attributes["background-color"]; got != "#fff" {
		t.Errorf("body background-color = %q", got)
	}

	column := body.Children[0].Children[0]
	if len(column.Children) != 2 {
		t.Fatalf("column has %d children, want 2", len(column.Children))
	}
	text := column.Children[0]
	if len(text.Children) != 0 {
		t.Errorf("leaf must not have children, got %d", len(text.Children))
	}
	if !strings.HasPrefix(text.Content, "Hello <b>world</b>") {
		t.Errorf("text content = %q", text.Content)
	}
	if column.Children[1].Content != "" {
		t.Errorf("image content = %q, want empty", column.Children[1].Content)
	}
}

func TestParseMarkup_Errors(t *testing.T) {
	if _, err := ParseMarkup(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestLoad(t *testing.T) {
	el, f, err := Load([]byte(`<mj-text>Hi</mj-text>`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f != FormatMarkup || el.Tag != "mj-text" || el.Content != "Hi" {
		t.Errorf("Load() = %+v, %v", el, f)
	}

	el, f, err = Load([]byte(`{"tagName":"mj-text","attributes":{},"content":"Hi"}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f != FormatJSON || el.Content != "Hi" {
		t.Errorf("Load() = %+v, %v", el, f)
	}

	if _, _, err := Load([]byte("plain text")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseMarkup_DeclaredEncoding(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"windows-1251\"?>\n<mj-text>\xcf\xf0\xe8\xe2\xe5\xf2</mj-text>"
	el, err := ParseMarkup(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkup() error = %v", err)
	}
	if el.Content != "Привет" {
		t.Errorf("content = %q, want %q", el.Content, "Привет")
	}
}
