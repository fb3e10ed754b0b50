// Package cascade computes effective attributes of body nodes.
//
// Values are layered from the least to the most specific source:
//
//	mj-all  ->  per-tag defaults  ->  mj-class (in listed order)  ->  inline
//
// Defaults are declared inside mj-attributes blocks of the document head.
package cascade

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"mjed/doc"
	"mjed/schema"
)

// ClassAttr is inline attribute listing classes of a node.
const ClassAttr = "mj-class"

// Defaults holds attribute layers collected from the document head.
type Defaults struct {
	global  map[string]string
	tags    map[string]map[string]string
	classes map[string]map[string]string
}

// Collect reads every mj-attributes block of the head in document order,
// later declarations override earlier ones key by key.
func Collect(d *doc.Document) *Defaults {
	defs := &Defaults{
		global:  map[string]string{},
		tags:    map[string]map[string]string{},
		classes: map[string]map[string]string{},
	}
	for _, block := range d.Children(doc.HeadID) {
		if d.Tag(block) != schema.TagAttributes {
			continue
		}
		for _, id := range d.Children(block) {
			attrs := d.Attributes(id)
			switch tag := d.Tag(id); tag {
			case schema.TagAll:
				maps.Copy(defs.global, attrs)
			case schema.TagClass:
				name := attrs["name"]
				if name == "" {
					continue
				}
				delete(attrs, "name")
				merge(defs.classes, name, attrs)
			default:
				merge(defs.tags, tag, attrs)
			}
		}
	}
	return defs
}

func merge(layers map[string]map[string]string, key string, attrs map[string]string) {
	layer, ok := layers[key]
	if !ok {
		layer = make(map[string]string, len(attrs))
		layers[key] = layer
	}
	maps.Copy(layer, attrs)
}

// Global returns copy of mj-all layer.
func (defs *Defaults) Global() map[string]string {
	return maps.Clone(defs.global)
}

// Tag returns copy of defaults declared for tag, nil if none.
func (defs *Defaults) Tag(tag string) map[string]string {
	return maps.Clone(defs.tags[tag])
}

// Class returns copy of attributes of named class, nil if none.
func (defs *Defaults) Class(name string) map[string]string {
	return maps.Clone(defs.classes[name])
}

// ClassNames lists declared classes in natural order.
func (defs *Defaults) ClassNames() []string {
	names := slices.Collect(maps.Keys(defs.classes))
	sort.Sort(natural.StringSlice(names))
	return names
}

// Classes splits mj-class attribute value.
func Classes(value string) []string {
	return strings.Fields(value)
}

// Resolver resolves many nodes of the same document against once collected
// defaults. It must be recreated after head changes.
type Resolver struct {
	d    *doc.Document
	defs *Defaults
}

func NewResolver(d *doc.Document) *Resolver {
	return &Resolver{d: d, defs: Collect(d)}
}

// Defaults returns collected layers.
func (r *Resolver) Defaults() *Defaults {
	return r.defs
}

// Resolve returns effective attributes of node id. Only nodes strictly inside
// the body are cascaded, everything else gets its inline attributes. Missing
// node resolves to nil.
func (r *Resolver) Resolve(id string) map[string]string {
	inline := r.d.Attributes(id)
	if inline == nil {
		return nil
	}
	if !r.d.IsDescendant(id, doc.BodyID) {
		return inline
	}

	out := maps.Clone(r.defs.global)
	maps.Copy(out, r.defs.tags[r.d.Tag(id)])
	for _, name := range Classes(inline[ClassAttr]) {
		maps.Copy(out, r.defs.classes[name])
	}
	maps.Copy(out, inline)
	return out
}

// Resolve is a shortcut for single lookup.
func Resolve(d *doc.Document, id string) map[string]string {
	return NewResolver(d).Resolve(id)
}
