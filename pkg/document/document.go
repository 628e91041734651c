package document

import (
	"iter"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/stateful/launchpad/pkg/block"
)

// ErrNotFound is returned when an operation refers to an unknown
// block kind, block id, or field.
var ErrNotFound = block.ErrNotFound

// Block is an instance of a block kind placed on the page.
type Block struct {
	ID     int               `json:"id"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// Field returns the current value of the field name.
func (b Block) Field(name string) (string, bool) {
	v, ok := b.Fields[name]
	return v, ok
}

func (b Block) clone() Block {
	return Block{
		ID:     b.ID,
		Kind:   b.Kind,
		Fields: maps.Clone(b.Fields),
	}
}

// Resolver looks up block templates by kind.
type Resolver interface {
	Resolve(kind string) (*block.Template, error)
}

// Blocks is a read-only, ordered view of blocks.
type Blocks interface {
	Blocks() iter.Seq[Block]
}

// Document is an ordered sequence of blocks. It is not safe
// for concurrent use.
type Document struct {
	blocks   []*Block
	lastID   int
	resolver Resolver
}

// New creates an empty document. Kinds passed to [Document.AddBlock]
// must be known to resolver.
func New(resolver Resolver) *Document {
	if resolver == nil {
		resolver = block.Default()
	}
	return &Document{resolver: resolver}
}

// AddBlock appends a block of kind with the template's default field values
// and returns its id.
func (d *Document) AddBlock(kind string) (int, error) {
	tmpl, err := d.resolver.Resolve(kind)
	if err != nil {
		return 0, err
	}

	d.lastID++
	d.blocks = append(d.blocks, &Block{
		ID:     d.lastID,
		Kind:   kind,
		Fields: tmpl.Defaults(),
	})

	return d.lastID, nil
}

// UpdateField overwrites the value of field on the block with id.
// The field must be declared by the block's template.
func (d *Document) UpdateField(id int, field, value string) error {
	b := d.find(id)
	if b == nil {
		return errors.Wrapf(ErrNotFound, "block %d", id)
	}

	tmpl, err := d.resolver.Resolve(b.Kind)
	if err != nil {
		return err
	}
	if !tmpl.HasField(field) {
		return errors.Wrapf(ErrNotFound, "field %q of block %d", field, id)
	}

	b.Fields[field] = value
	return nil
}

// RemoveBlock removes the block with id, keeping the order of the others.
func (d *Document) RemoveBlock(id int) error {
	idx := slices.IndexFunc(d.blocks, func(b *Block) bool { return b.ID == id })
	if idx == -1 {
		return errors.Wrapf(ErrNotFound, "block %d", id)
	}
	d.blocks = slices.Delete(d.blocks, idx, idx+1)
	return nil
}

// Clear removes all blocks. Ids are not reused afterwards.
func (d *Document) Clear() {
	d.blocks = nil
}

// Blocks returns a sequence of copies of the blocks in document order.
// The sequence can be iterated multiple times and always reflects
// the current state.
func (d *Document) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for _, b := range d.blocks {
			if !yield(b.clone()) {
				return
			}
		}
	}
}

// Block returns a copy of the block with id.
func (d *Document) Block(id int) (Block, bool) {
	b := d.find(id)
	if b == nil {
		return Block{}, false
	}
	return b.clone(), true
}

func (d *Document) Len() int { return len(d.blocks) }

func (d *Document) IsEmpty() bool { return len(d.blocks) == 0 }

func (d *Document) find(id int) *Block {
	for _, b := range d.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

type filtered struct {
	source Blocks
	keep   func(Block) bool
}

func (f filtered) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for b := range f.source.Blocks() {
			if !f.keep(b) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Filter returns a view of source with only the blocks for which keep returns true.
func Filter(source Blocks, keep func(Block) bool) Blocks {
	return filtered{source: source, keep: keep}
}
