// Package interchange defines JSON tree shape used to load and save email
// templates. The shape is the load/save contract with the outside world and
// must stay stable:
//
//	{"tagName": "mj-text", "attributes": {"color": "red"}, "content": "Hello"}
//
// "children" is present only for nodes with children, "content" only for
// nodes without them.
package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Element is one node of interchange tree.
type Element struct {
	Tag        string            `json:"tagName"`
	Attributes map[string]string `json:"attributes"`
	Children   []*Element        `json:"children,omitempty"`
	Content    string            `json:"content,omitempty"`
}

// Clone returns deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		Tag:        e.Tag,
		Content:    e.Content,
		Attributes: make(map[string]string, len(e.Attributes)),
	}
	for k, v := range e.Attributes {
		c.Attributes[k] = v
	}
	for _, child := range e.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Walk visits element and its descendants in pre-order, returning false
// skips children.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(0, fn)
}

func (e *Element) walk(depth int, fn func(el *Element, depth int) bool) {
	if e == nil || !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(depth+1, fn)
	}
}

// Decode reads single JSON interchange tree.
func Decode(r io.Reader) (*Element, error) {
	var el Element
	dec := json.NewDecoder(r)
	if err := dec.Decode(&el); err != nil {
		return nil, fmt.Errorf("unable to decode interchange document: %w", err)
	}
	if el.Tag == "" {
		return nil, fmt.Errorf("interchange document has no tagName")
	}
	return &el, nil
}

// Encode writes JSON interchange tree, optionally indented.
func Encode(w io.Writer, el *Element, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(el); err != nil {
		return fmt.Errorf("unable to encode interchange document: %w", err)
	}
	return nil
}

// Format of the source data.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatMarkup
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// Detect guesses data format from the first non blank byte.
func Detect(data []byte) Format {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return FormatUnknown
	}
	switch data[0] {
	case '{':
		return FormatJSON
	case '<':
		return FormatMarkup
	}
	return FormatUnknown
}

// Load reads either JSON interchange or markup.
func Load(data []byte) (*Element, Format, error) {
	switch f := Detect(data); f {
	case FormatJSON:
		el, err := Decode(bytes.NewReader(data))
		return el, f, err
	case FormatMarkup:
		el, err := ParseMarkup(bytes.NewReader(data))
		return el, f, err
	default:
		return nil, f, fmt.Errorf("unable to detect document format")
	}
}

// LoadFile is Load for files.
func LoadFile(path string) (*Element, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("unable to read document: %w", err)
	}
	return Load(data)
}
