// Package history implements bounded undo/redo over document changes.
package history

import (
	"go.uber.org/zap"

	"mjed/doc"
)

// DefaultDepth is used when depth passed to New is not positive.
const DefaultDepth = 100

// Manager keeps past and future stacks of committed changes. Undo replays
// inverse operations of the latest change, redo replays forward operations of
// the latest undone one. Recording new change discards the future.
type Manager struct {
	d      *doc.Document
	past   []*doc.Change
	future []*doc.Change
	depth  int
	log    *zap.Logger
}

func New(d *doc.Document, depth int, log *zap.Logger) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{d: d, depth: depth, log: log.Named("history")}
}

// Record pushes committed change. Nil changes (rejected edits) are ignored.
func (m *Manager) Record(ch *doc.Change) {
	if ch == nil {
		return
	}
	m.past = append(m.past, ch)
	if over := len(m.past) - m.depth; over > 0 {
		m.log.Debug("Evicting oldest history entries", zap.Int("count", over))
		clear(m.past[:over])
		m.past = m.past[over:]
	}
	m.future = nil
}

// Undo reverts the latest recorded change. It returns false when there is
// nothing to undo or inverse could not be applied, in the latter case stacks
// are left as they were.
func (m *Manager) Undo() bool {
	if len(m.past) == 0 {
		return false
	}
	ch := m.past[len(m.past)-1]
	if err := m.d.Apply(ch.Inverse); err != nil {
		m.log.Error("Unable to undo", zap.String("change", ch.Label), zap.Error(err))
		return false
	}
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, ch)
	m.log.Debug("Undo", zap.String("change", ch.Label))
	return true
}

// Redo re-applies the most recently undone change.
func (m *Manager) Redo() bool {
	if len(m.future) == 0 {
		return false
	}
	ch := m.future[len(m.future)-1]
	if err := m.d.Apply(ch.Forward); err != nil {
		m.log.Error("Unable to redo", zap.String("change", ch.Label), zap.Error(err))
		return false
	}
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, ch)
	m.log.Debug("Redo", zap.String("change", ch.Label))
	return true
}

func (m *Manager) CanUndo() bool { return len(m.past) > 0 }
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Len returns sizes of past and future stacks.
func (m *Manager) Len() (past, future int) {
	return len(m.past), len(m.future)
}

// Labels lists recorded changes oldest first.
func (m *Manager) Labels() []string {
	labels := make([]string, 0, len(m.past))
	for _, ch := range m.past {
		labels = append(labels, ch.Label)
	}
	return labels
}

// Reset drops both stacks and binds manager to (possibly new) document.
func (m *Manager) Reset(d *doc.Document) {
	m.d = d
	m.past, m.future = nil, nil
}
