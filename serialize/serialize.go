// Package serialize converts documents into interchange trees and indented
// markup.
package serialize

import (
	"maps"
	"slices"
	"strings"

	"mjed/doc"
	"mjed/interchange"
	"mjed/schema"
)

// ToInterchange converts the whole document into interchange tree. Content is
// emitted only for childless nodes.
func ToInterchange(d *doc.Document) *interchange.Element {
	return toElement(d, doc.RootID)
}

// SubtreeToInterchange converts subtree rooted at id, nil if there is no such
// node.
func SubtreeToInterchange(d *doc.Document, id string) *interchange.Element {
	if !d.Has(id) {
		return nil
	}
	return toElement(d, id)
}

func toElement(d *doc.Document, id string) *interchange.Element {
	n, _ := d.Get(id)
	el := &interchange.Element{Tag: n.Tag, Attributes: n.Attributes}
	if len(n.Items) == 0 {
		el.Content = n.Content
		return el
	}
	el.Children = make([]*interchange.Element, 0, len(n.Items))
	for _, cid := range n.Items {
		el.Children = append(el.Children, toElement(d, cid))
	}
	return el
}

type options struct {
	indent string
}

type Option func(*options)

// WithIndent sets number of spaces per nesting level, default is 2.
func WithIndent(spaces int) Option {
	return func(o *options) {
		if spaces >= 0 {
			o.indent = strings.Repeat(" ", spaces)
		}
	}
}

func newOptions(opts []Option) options {
	o := options{indent: "  "}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ToMarkup renders document as indented markup. Inline attributes are used,
// cascade is left to the markup compiler.
func ToMarkup(d *doc.Document, opts ...Option) string {
	return ElementToMarkup(ToInterchange(d), opts...)
}

// ElementToMarkup renders interchange tree the same way ToMarkup renders
// documents.
func ElementToMarkup(el *interchange.Element, opts ...Option) string {
	if el == nil {
		return ""
	}
	w := markupWriter{opts: newOptions(opts)}
	w.element(el, 0)
	return w.b.String()
}

type markupWriter struct {
	b    strings.Builder
	opts options
}

func (w *markupWriter) pad(depth int) {
	for range depth {
		w.b.WriteString(w.opts.indent)
	}
}

func (w *markupWriter) open(el *interchange.Element) {
	w.b.WriteByte('<')
	w.b.WriteString(el.Tag)
	attrs := el.Attributes
	if schema.IsTableTag(el.Tag) {
		attrs = foldStyle(attrs)
	}
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if v := attrs[k]; v != "" {
			w.b.WriteByte(' ')
			w.b.WriteString(k)
			w.b.WriteString(`="`)
			w.b.WriteString(escapeAttr(v))
			w.b.WriteByte('"')
		}
	}
	w.b.WriteByte('>')
}

func (w *markupWriter) close(el *interchange.Element) {
	w.b.WriteString("</")
	w.b.WriteString(el.Tag)
	w.b.WriteString(">\n")
}

func (w *markupWriter) element(el *interchange.Element, depth int) {
	w.pad(depth)
	w.open(el)
	if len(el.Children) == 0 {
		// leaf content is markup itself and goes out verbatim
		w.b.WriteString(el.Content)
		w.close(el)
		return
	}
	w.b.WriteByte('\n')
	for _, c := range el.Children {
		w.element(c, depth+1)
	}
	w.pad(depth)
	w.close(el)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `"`, "&quot;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
