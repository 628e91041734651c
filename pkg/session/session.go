// Package session implements an editing session: the single owner of
// a document, its undo/redo history, and the current selection.
//
// Every method is an intent. Intents referring to unknown kinds,
// presets, blocks or fields, as well as undo/redo at a history boundary,
// are no-ops; they report false and never return an error.
package session

import (
	"iter"

	"go.uber.org/zap"

	"github.com/stateful/launchpad/internal/ulid"
	"github.com/stateful/launchpad/pkg/block"
	"github.com/stateful/launchpad/pkg/document"
	"github.com/stateful/launchpad/pkg/history"
	"github.com/stateful/launchpad/pkg/render"
)

const (
	// ExportName is the file name of the exported page.
	ExportName = "landing-page.html"
	// ExportMediaType is the media type of the exported page.
	ExportMediaType = "text/html; charset=utf-8"
)

const noSelection = 0

// Artifact is a single self-contained exported document.
type Artifact struct {
	Name      string
	MediaType string
	Content   []byte
}

type Session struct {
	ID string

	doc      *document.Document
	history  *history.History[document.Snapshot]
	registry *block.Registry
	renderer *render.Renderer
	logger   *zap.Logger
	selected int
}

type Option func(*Session)

func WithRegistry(registry *block.Registry) Option {
	return func(s *Session) {
		s.registry = registry
	}
}

func WithRenderer(renderer *render.Renderer) Option {
	return func(s *Session) {
		s.renderer = renderer
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session with an empty document. The empty state is the
// first history entry, so the first mutation can be undone.
func New(opts ...Option) *Session {
	s := &Session{
		ID:      ulid.GenerateID(),
		history: history.New[document.Snapshot](history.DefaultLimit),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = block.Default()
	}
	if s.renderer == nil {
		s.renderer = render.New(s.registry)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("session", s.ID))

	s.doc = document.New(s.registry)
	s.commit()

	return s
}

func (s *Session) commit() {
	s.history.Commit(s.doc.Snapshot())
}

func (s *Session) restore(snapshot document.Snapshot) {
	// Snapshots are produced by the document itself.
	if err := s.doc.Restore(snapshot); err != nil {
		s.logger.Error("failed to restore snapshot", zap.Error(err))
	}
	s.selected = noSelection
}

// AddBlock appends a block of kind, selects it, and returns its id.
func (s *Session) AddBlock(kind string) (int, bool) {
	id, err := s.doc.AddBlock(kind)
	if err != nil {
		s.logger.Debug("ignored add block", zap.String("kind", kind), zap.Error(err))
		return 0, false
	}
	s.commit()
	s.selected = id
	s.logger.Debug("added block", zap.Int("id", id), zap.String("kind", kind))
	return id, true
}

func (s *Session) UpdateField(id int, field, value string) bool {
	if err := s.doc.UpdateField(id, field, value); err != nil {
		s.logger.Debug("ignored update field", zap.Int("id", id), zap.String("field", field), zap.Error(err))
		return false
	}
	s.commit()
	s.logger.Debug("updated field", zap.Int("id", id), zap.String("field", field))
	return true
}

func (s *Session) RemoveBlock(id int) bool {
	if err := s.doc.RemoveBlock(id); err != nil {
		s.logger.Debug("ignored remove block", zap.Int("id", id), zap.Error(err))
		return false
	}
	if s.selected == id {
		s.selected = noSelection
	}
	s.commit()
	s.logger.Debug("removed block", zap.Int("id", id))
	return true
}

func (s *Session) Clear() {
	s.doc.Clear()
	s.selected = noSelection
	s.commit()
	s.logger.Debug("cleared document")
}

// LoadTemplate replaces the document with the blocks of the named preset
// and records the result as a single history entry.
func (s *Session) LoadTemplate(name string) bool {
	kinds, err := s.registry.ExpandPreset(name)
	if err != nil {
		s.logger.Debug("ignored load template", zap.String("name", name), zap.Error(err))
		return false
	}

	s.doc.Clear()
	s.selected = noSelection
	for _, kind := range kinds {
		if _, err := s.doc.AddBlock(kind); err != nil {
			// The registry guarantees presets refer to known kinds.
			s.logger.Error("failed to add preset block", zap.String("kind", kind), zap.Error(err))
		}
	}
	s.commit()
	s.logger.Debug("loaded template", zap.String("name", name), zap.Int("blocks", s.doc.Len()))
	return true
}

// Load replaces the document with serialized state, such as the bytes of
// a previous [Session.Snapshot], as a single history entry. Invalid state
// leaves the document untouched.
func (s *Session) Load(data []byte) bool {
	snapshot, err := document.ParseSnapshot(data)
	if err != nil {
		s.logger.Debug("ignored load", zap.Error(err))
		return false
	}
	s.restore(snapshot)
	s.commit()
	s.logger.Debug("loaded state", zap.Int("blocks", s.doc.Len()))
	return true
}

func (s *Session) Undo() bool {
	snapshot, ok := s.history.Undo()
	if !ok {
		s.logger.Debug("nothing to undo")
		return false
	}
	s.restore(snapshot)
	return true
}

func (s *Session) Redo() bool {
	snapshot, ok := s.history.Redo()
	if !ok {
		s.logger.Debug("nothing to redo")
		return false
	}
	s.restore(snapshot)
	return true
}

// Select marks the block with id as the one being edited.
// Selection is not part of the history.
func (s *Session) Select(id int) bool {
	if _, ok := s.doc.Block(id); !ok {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the id of the selected block.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.selected != noSelection
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }

func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Blocks returns the blocks in document order.
func (s *Session) Blocks() iter.Seq[document.Block] {
	return s.doc.Blocks()
}

func (s *Session) Block(id int) (document.Block, bool) {
	return s.doc.Block(id)
}

func (s *Session) Len() int { return s.doc.Len() }

// Snapshot returns the current document state.
func (s *Session) Snapshot() document.Snapshot {
	return s.doc.Snapshot()
}

func (s *Session) Registry() *block.Registry { return s.registry }

// EditableMarkup returns the canvas view with editor affordances.
func (s *Session) EditableMarkup() string {
	return s.renderer.Editable(s.doc, s.selected)
}

// CleanMarkup returns the standalone page. Preview and export both use it.
func (s *Session) CleanMarkup() string {
	return s.renderer.Clean(s.doc)
}

// MarkdownMarkup returns the clean content converted to Markdown.
func (s *Session) MarkdownMarkup() (string, error) {
	return s.renderer.Markdown(s.doc)
}

// Export returns the clean page as a downloadable artifact.
func (s *Session) Export() Artifact {
	return Artifact{
		Name:      ExportName,
		MediaType: ExportMediaType,
		Content:   []byte(s.CleanMarkup()),
	}
}

// Where returns a view of the document with the blocks for which keep
// reports true. keep is evaluated once per block, eagerly.
func (s *Session) Where(keep func(document.Block) (bool, error)) (document.Blocks, error) {
	included := make(map[int]bool, s.doc.Len())
	for b := range s.doc.Blocks() {
		ok, err := keep(b)
		if err != nil {
			return nil, err
		}
		included[b.ID] = ok
	}
	return document.Filter(s.doc, func(b document.Block) bool { return included[b.ID] }), nil
}

// ExportWhere is like [Session.Export] but only includes the blocks selected by keep.
func (s *Session) ExportWhere(keep func(document.Block) (bool, error)) (Artifact, error) {
	view, err := s.Where(keep)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Name:      ExportName,
		MediaType: ExportMediaType,
		Content:   []byte(s.renderer.Clean(view)),
	}, nil
}

// MarkdownWhere is like [Session.MarkdownMarkup] but only includes the blocks selected by keep.
func (s *Session) MarkdownWhere(keep func(document.Block) (bool, error)) (string, error) {
	view, err := s.Where(keep)
	if err != nil {
		return "", err
	}
	return s.renderer.Markdown(view)
}
