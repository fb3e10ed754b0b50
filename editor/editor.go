// Package editor is the entry point for template editing: it owns document,
// its undo history and transient interaction state and keeps them consistent.
package editor

import (
	"go.uber.org/zap"

	"mjed/cascade"
	"mjed/doc"
	"mjed/history"
	"mjed/interchange"
	"mjed/normalize"
	"mjed/serialize"
)

// Interaction is transient UI state referencing document nodes.
type Interaction struct {
	Active string
	Hover  string
	Drag   string
}

// Resync clears references to nodes which no longer exist.
func (i *Interaction) Resync(d *doc.Document) {
	for _, id := range []*string{&i.Active, &i.Hover, &i.Drag} {
		if *id != "" && !d.Has(*id) {
			*id = ""
		}
	}
}

type Editor struct {
	d     *doc.Document
	h     *history.Manager
	ui    Interaction
	rev   uint64
	log   *zap.Logger
	newID doc.IDSource

	depth  int
	indent int
}

type Option func(*Editor)

func WithLogger(log *zap.Logger) Option {
	return func(e *Editor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithHistoryDepth limits number of undoable changes.
func WithHistoryDepth(depth int) Option {
	return func(e *Editor) {
		e.depth = depth
	}
}

// WithIndent sets markup indentation width.
func WithIndent(spaces int) Option {
	return func(e *Editor) {
		e.indent = spaces
	}
}

func WithIDSource(src doc.IDSource) Option {
	return func(e *Editor) {
		e.newID = src
	}
}

// New creates editor with empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		log:    zap.NewNop(),
		depth:  history.DefaultDepth,
		indent: 2,
		newID:  doc.NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.d = doc.New(e.docOptions()...)
	e.h = history.New(e.d, e.depth, e.log)
	return e
}

func (e *Editor) docOptions() []doc.Option {
	return []doc.Option{doc.WithLogger(e.log), doc.WithIDSource(e.newID)}
}

// Document gives read access to the current document. Changing it directly
// bypasses history.
func (e *Editor) Document() *doc.Document {
	return e.d
}

// Revision increments on every change of the tree including undo, redo and
// load.
func (e *Editor) Revision() uint64 {
	return e.rev
}

func (e *Editor) Interaction() Interaction {
	return e.ui
}

func (e *Editor) touch() {
	e.rev++
	e.ui.Resync(e.d)
}

func (e *Editor) commit(ch *doc.Change) bool {
	if ch == nil {
		return false
	}
	e.h.Record(ch)
	e.touch()
	return true
}

// LoadDocument replaces the document with normalized el. History is reset.
func (e *Editor) LoadDocument(el *interchange.Element) {
	e.d = normalize.Load(el, normalize.WithLogger(e.log), normalize.WithIDSource(e.newID))
	e.h.Reset(e.d)
	e.touch()
	e.log.Debug("Document replaced", zap.Int("nodes", e.d.Len()), zap.Uint64("revision", e.rev))
}

func (e *Editor) Undo() bool {
	if !e.h.Undo() {
		return false
	}
	e.touch()
	return true
}

func (e *Editor) Redo() bool {
	if !e.h.Redo() {
		return false
	}
	e.touch()
	return true
}

func (e *Editor) CanUndo() bool { return e.h.CanUndo() }
func (e *Editor) CanRedo() bool { return e.h.CanRedo() }

// History lists labels of undoable changes, oldest first.
func (e *Editor) History() []string {
	return e.h.Labels()
}

// AppendChild adds new tag to parent, new id is empty when edit is rejected.
func (e *Editor) AppendChild(parent, tag string) string {
	id, ch := e.d.AppendChild(parent, tag, true)
	if !e.commit(ch) {
		return ""
	}
	return id
}

func (e *Editor) InsertSiblingAfter(id, tag string) string {
	nid, ch := e.d.InsertSiblingAfter(id, tag)
	if !e.commit(ch) {
		return ""
	}
	return nid
}

// MoveComponent moves id to destination path, see doc.ParseDestination.
func (e *Editor) MoveComponent(dst string, id string) bool {
	return e.commit(e.d.MoveComponent(doc.ParseDestination(dst), id))
}

func (e *Editor) DuplicateComponent(id, target string) string {
	nid, ch := e.d.DuplicateComponent(id, target)
	if !e.commit(ch) {
		return ""
	}
	return nid
}

func (e *Editor) RemoveComponent(id string) bool {
	return e.commit(e.d.RemoveComponent(id))
}

func (e *Editor) SetAttribute(id, key, value string) bool {
	return e.commit(e.d.SetAttribute(id, key, value))
}

func (e *Editor) RemoveAttribute(id, key string) bool {
	return e.commit(e.d.RemoveAttribute(id, key))
}

func (e *Editor) RenameAttribute(id, from, to string) bool {
	return e.commit(e.d.RenameAttribute(id, from, to))
}

func (e *Editor) SetContent(id, content string) bool {
	return e.commit(e.d.SetContent(id, content))
}

func (e *Editor) AppendTableWithSize(parent string, rows, cols int) string {
	id, ch := e.d.AppendTableWithSize(parent, rows, cols)
	if !e.commit(ch) {
		return ""
	}
	return id
}

func (e *Editor) AppendTableRow(id string) bool {
	return e.commit(e.d.AppendTableRow(id))
}

func (e *Editor) AppendTableColumn(id string) bool {
	return e.commit(e.d.AppendTableColumn(id))
}

// SetActive selects node, empty id clears selection. Unknown ids are
// refused.
func (e *Editor) SetActive(id string) bool {
	return e.setRef(&e.ui.Active, id)
}

func (e *Editor) SetHover(id string) bool {
	return e.setRef(&e.ui.Hover, id)
}

func (e *Editor) SetDrag(id string) bool {
	return e.setRef(&e.ui.Drag, id)
}

func (e *Editor) setRef(ref *string, id string) bool {
	if id != "" && !e.d.Has(id) {
		return false
	}
	*ref = id
	return true
}

// EffectiveAttributes returns cascaded attributes of id.
func (e *Editor) EffectiveAttributes(id string) map[string]string {
	return cascade.Resolve(e.d, id)
}

func (e *Editor) ToInterchange() *interchange.Element {
	return serialize.ToInterchange(e.d)
}

func (e *Editor) ToMarkup() string {
	return serialize.ToMarkup(e.d, serialize.WithIndent(e.indent))
}
