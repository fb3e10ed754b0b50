// Package normalize turns arbitrary imported trees into canonical documents.
//
// Import never fails: whatever comes in is rearranged into root with single
// head and single body, misplaced elements are wrapped into structure their
// parent accepts, unknown elements are kept as raw markup and what cannot be
// placed anywhere is dropped. Every repair is logged.
package normalize

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"mjed/doc"
	"mjed/interchange"
	"mjed/schema"
	"mjed/serialize"
)

type normalizer struct {
	log     *zap.Logger
	newID   doc.IDSource
	repairs int
}

type Option func(*normalizer)

func WithLogger(log *zap.Logger) Option {
	return func(n *normalizer) {
		if log != nil {
			n.log = log
		}
	}
}

// WithIDSource sets id generator for produced document.
func WithIDSource(src doc.IDSource) Option {
	return func(n *normalizer) {
		n.newID = src
	}
}

func newNormalizer(opts []Option) *normalizer {
	n := &normalizer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load normalizes el and materializes result as document with fresh ids.
// Nil input produces empty document.
func Load(el *interchange.Element, opts ...Option) *doc.Document {
	n := newNormalizer(opts)
	canonical := n.canonical(el)

	docOpts := []doc.Option{doc.WithLogger(n.log), doc.WithIDSource(n.newID)}
	d, err := doc.Build(canonical, docOpts...)
	if err != nil {
		// canonical tree always satisfies Build, should never happen
		n.log.Error("Unable to build normalized document, starting from scratch", zap.Error(err))
		return doc.New(docOpts...)
	}
	n.log.Debug("Document loaded", zap.Int("nodes", d.Len()), zap.Int("repairs", n.repairs))
	return d
}

// Normalize returns canonical copy of el without building document. Input is
// not modified.
func Normalize(el *interchange.Element, opts ...Option) *interchange.Element {
	return newNormalizer(opts).canonical(el)
}

func newElement(tag string) *interchange.Element {
	return &interchange.Element{Tag: tag, Attributes: map[string]string{}}
}

func (n *normalizer) warn(msg string, fields ...zap.Field) {
	n.repairs++
	n.log.Warn(msg, fields...)
}

func (n *normalizer) canonical(in *interchange.Element) *interchange.Element {
	if in == nil {
		in = newElement(schema.TagRoot)
	} else {
		in = in.Clone()
		if in.Attributes == nil {
			in.Attributes = map[string]string{}
		}
	}

	var root, head, body *interchange.Element
	var headExtra, bodyExtra []*interchange.Element

	switch in.Tag {
	case schema.TagRoot:
		root = newElement(schema.TagRoot)
		root.Attributes = in.Attributes
		for _, c := range in.Children {
			switch {
			case c.Tag == schema.TagHead:
				if head == nil {
					head = c
					root.Children = append(root.Children, c)
					continue
				}
				n.warn("Merging duplicate head", zap.Int("children", len(c.Children)))
				head.Children = append(head.Children, c.Children...)
			case c.Tag == schema.TagBody:
				if body == nil {
					body = c
					root.Children = append(root.Children, c)
					continue
				}
				n.warn("Merging duplicate body", zap.Int("children", len(c.Children)))
				body.Children = append(body.Children, c.Children...)
			case !schema.IsKnown(c.Tag):
				root.Children = append(root.Children, n.passthrough(c))
			case schema.CanAccept(schema.TagRoot, c.Tag):
				root.Children = append(root.Children, c)
			case schema.CanAccept(schema.TagHead, c.Tag):
				n.warn("Moving element into head", zap.String("tag", c.Tag))
				headExtra = append(headExtra, c)
			default:
				n.warn("Moving element into body", zap.String("tag", c.Tag))
				bodyExtra = append(bodyExtra, c)
			}
		}
	case schema.TagHead:
		root, head = newElement(schema.TagRoot), in
		root.Children = []*interchange.Element{head}
	case schema.TagBody:
		root, body = newElement(schema.TagRoot), in
		root.Children = []*interchange.Element{body}
	default:
		n.warn("Wrapping fragment into body", zap.String("tag", in.Tag))
		root = newElement(schema.TagRoot)
		bodyExtra = append(bodyExtra, in)
	}

	if head == nil {
		head = newElement(schema.TagHead)
		root.Children = slices.Insert(root.Children, 0, head)
	}
	if body == nil {
		body = newElement(schema.TagBody)
		root.Children = slices.Insert(root.Children, slices.Index(root.Children, head)+1, body)
	}

	// sort out head and body content put into the wrong section
	head.Children, bodyExtra = n.relocate(head, schema.TagBody, head.Children, bodyExtra)
	body.Children, headExtra = n.relocate(body, schema.TagHead, body.Children, headExtra)
	head.Children = append(head.Children, headExtra...)
	body.Children = append(body.Children, bodyExtra...)

	for _, c := range root.Children {
		n.repair(c)
	}
	return root
}

// relocate splits children of section into ones which stay and ones which
// belong to the other section.
func (n *normalizer) relocate(section *interchange.Element, other string, children, moved []*interchange.Element) (stay, out []*interchange.Element) {
	out = moved
	for _, c := range children {
		if schema.CanAccept(section.Tag, c.Tag) || !schema.IsKnown(c.Tag) || schema.IsSentinel(c.Tag) {
			stay = append(stay, c)
			continue
		}
		if _, ok := schema.WrapperChain(other, c.Tag); ok {
			n.warn("Moving element between head and body", zap.String("tag", c.Tag), zap.String("to", other))
			out = append(out, c)
			continue
		}
		stay = append(stay, c)
	}
	return stay, out
}

// passthrough keeps element which cannot be placed as raw markup.
func (n *normalizer) passthrough(el *interchange.Element) *interchange.Element {
	n.warn("Keeping element as raw markup", zap.String("tag", el.Tag))
	raw := newElement(schema.TagRaw)
	raw.Content = strings.TrimSuffix(serialize.ElementToMarkup(el, serialize.WithIndent(0)), "\n")
	return raw
}

// repair fixes children of el recursively so every edge is permitted.
func (n *normalizer) repair(el *interchange.Element) {
	if el.Attributes == nil {
		el.Attributes = map[string]string{}
	}
	if schema.IsLeaf(el.Tag) {
		if len(el.Children) > 0 {
			n.warn("Dropping children of leaf element", zap.String("tag", el.Tag), zap.Int("children", len(el.Children)))
			if el.Content == "" {
				var b strings.Builder
				for _, c := range el.Children {
					b.WriteString(serialize.ElementToMarkup(c, serialize.WithIndent(0)))
				}
				el.Content = strings.TrimSuffix(b.String(), "\n")
			}
			el.Children = nil
		}
		return
	}

	var (
		out        []*interchange.Element
		groupChain []string
		groupInner *interchange.Element
	)
	for _, c := range el.Children {
		if !schema.IsKnown(c.Tag) {
			c = n.passthrough(c)
		}
		if schema.CanAccept(el.Tag, c.Tag) {
			out = append(out, c)
			groupChain, groupInner = nil, nil
			continue
		}
		chain, ok := schema.WrapperChain(el.Tag, c.Tag)
		if !ok && c.Tag != schema.TagRaw {
			c = n.passthrough(c)
			if schema.CanAccept(el.Tag, c.Tag) {
				out = append(out, c)
				groupChain, groupInner = nil, nil
				continue
			}
			chain, ok = schema.WrapperChain(el.Tag, c.Tag)
		}
		if !ok {
			n.warn("Dropping element which cannot be placed", zap.String("parent", el.Tag), zap.String("tag", c.Tag))
			continue
		}
		if groupInner != nil && slices.Equal(groupChain, chain) {
			groupInner.Children = append(groupInner.Children, c)
			continue
		}
		n.warn("Wrapping misplaced element", zap.String("parent", el.Tag), zap.String("tag", c.Tag), zap.Strings("wrappers", chain))
		top, inner := wrap(chain)
		inner.Children = []*interchange.Element{c}
		out = append(out, top)
		groupChain, groupInner = chain, inner
	}
	el.Children = out

	for _, c := range el.Children {
		n.repair(c)
	}
}

// wrap builds nested empty wrappers for chain returning outermost and
// innermost ones.
func wrap(chain []string) (top, inner *interchange.Element) {
	for _, tag := range chain {
		w := newElement(tag)
		if top == nil {
			top = w
		} else {
			inner.Children = []*interchange.Element{w}
		}
		inner = w
	}
	return top, inner
}
