package interchange

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"mjed/schema"
)

// ParseMarkup converts template markup into interchange tree. Leaf tags keep
// their inner markup verbatim as content, text between container tags is
// ignored. No structural validation happens here, the result may be as
// malformed as the input and is expected to go through normalization.
func ParseMarkup(r io.Reader) (*Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
		Entity:        xml.HTMLEntity,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse markup: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("markup has no root element")
	}
	return fromXML(root), nil
}

func fromXML(el *etree.Element) *Element {
	out := &Element{
		Tag:        el.FullTag(),
		Attributes: make(map[string]string, len(el.Attr)),
	}
	for _, a := range el.Attr {
		out.Attributes[a.FullKey()] = a.Value
	}
	if schema.IsLeaf(out.Tag) {
		out.Content = innerXML(el)
		return out
	}
	for _, child := range el.ChildElements() {
		out.Children = append(out.Children, fromXML(child))
	}
	return out
}

// innerXML serializes element's children. Tokens are moved out of the source
// tree, the element is not usable afterwards.
func innerXML(el *etree.Element) string {
	if len(el.Child) == 0 {
		return ""
	}
	tmp := etree.NewDocument()
	for _, tok := range slices.Clone(el.Child) {
		tmp.AddChild(tok)
	}
	s, err := tmp.WriteToString()
	if err != nil {
		return strings.TrimSpace(el.Text())
	}
	return strings.TrimSpace(s)
}
