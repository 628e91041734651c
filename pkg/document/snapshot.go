package document

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Snapshot is an immutable capture of a document state.
type Snapshot struct {
	data []byte
}

type snapshotData struct {
	LastID int     `json:"lastId"`
	Blocks []Block `json:"blocks"`
}

// Snapshot captures the current state.
func (d *Document) Snapshot() Snapshot {
	s := snapshotData{
		LastID: d.lastID,
		Blocks: make([]Block, 0, len(d.blocks)),
	}
	for _, b := range d.blocks {
		s.Blocks = append(s.Blocks, *b)
	}

	// Only plain strings and ints are marshaled, so it cannot fail.
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return Snapshot{data: data}
}

// Restore replaces the blocks with the ones from s. The id counter
// never goes backwards so that ids handed out after an undo stay unique.
func (d *Document) Restore(s Snapshot) error {
	data, err := s.decode()
	if err != nil {
		return err
	}

	blocks := make([]*Block, 0, len(data.Blocks))
	for i := range data.Blocks {
		b := data.Blocks[i]
		if b.Fields == nil {
			b.Fields = map[string]string{}
		}
		blocks = append(blocks, &b)
	}

	d.blocks = blocks
	d.lastID = max(d.lastID, data.LastID)
	return nil
}

func (s Snapshot) decode() (snapshotData, error) {
	var data snapshotData
	if err := json.Unmarshal(s.data, &data); err != nil {
		return data, errors.Wrap(err, "failed to decode snapshot")
	}
	return data, nil
}

// Bytes returns a copy of the serialized snapshot.
func (s Snapshot) Bytes() []byte {
	return bytes.Clone(s.data)
}

func (s Snapshot) Equal(other Snapshot) bool {
	return bytes.Equal(s.data, other.data)
}

// ParseSnapshot validates serialized document state. Block kinds are not
// checked against any registry; renderers degrade unknown kinds to a placeholder.
func ParseSnapshot(data []byte) (Snapshot, error) {
	s := Snapshot{data: bytes.Clone(data)}

	decoded, err := s.decode()
	if err != nil {
		return Snapshot{}, err
	}

	seen := make(map[int]bool, len(decoded.Blocks))
	for _, b := range decoded.Blocks {
		if b.ID <= 0 {
			return Snapshot{}, errors.Errorf("invalid block id %d", b.ID)
		}
		if seen[b.ID] {
			return Snapshot{}, errors.Errorf("duplicate block id %d", b.ID)
		}
		seen[b.ID] = true
		decoded.LastID = max(decoded.LastID, b.ID)
	}

	normalized, err := json.Marshal(decoded)
	if err != nil {
		return Snapshot{}, errors.WithStack(err)
	}
	return Snapshot{data: normalized}, nil
}
