package history

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KlikkAI/verdict/pkg/metrics"
	"github.com/zeebo/blake3"
)

// Backend persists snapshot history. The store keeps the working set in
// memory; backends only see full loads and saves, which keeps them trivial
// to implement for any keyed or file-based medium.
type Backend interface {
	Load() ([]metrics.Snapshot, error)
	Save(snapshots []metrics.Snapshot) error
	Reset() error
	Close() error
}

// MemoryBackend keeps history only for the lifetime of the process.
type MemoryBackend struct {
	snapshots []metrics.Snapshot
}

// NewMemoryBackend creates an ephemeral backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load() ([]metrics.Snapshot, error) {
	out := make([]metrics.Snapshot, len(b.snapshots))
	copy(out, b.snapshots)
	return out, nil
}

func (b *MemoryBackend) Save(snapshots []metrics.Snapshot) error {
	b.snapshots = make([]metrics.Snapshot, len(snapshots))
	copy(b.snapshots, snapshots)
	return nil
}

func (b *MemoryBackend) Reset() error {
	b.snapshots = nil
	return nil
}

func (b *MemoryBackend) Close() error { return nil }

// fileDocument is the on-disk shape for the file backend. The checksum
// covers the serialized snapshot list so partial writes are detected on
// load instead of surfacing as corrupt statistics later.
type fileDocument struct {
	Checksum  string            `json:"checksum"`
	Snapshots []json.RawMessage `json:"snapshots"`
}

// FileBackend persists history as a single JSON document with a BLAKE3
// integrity checksum.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file-based backend at the given path. Parent
// directories are created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load() ([]metrics.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt history file %s: %w", b.path, err)
	}

	payload, err := json.Marshal(doc.Snapshots)
	if err != nil {
		return nil, err
	}
	if sum := hashHex(payload); sum != doc.Checksum {
		return nil, fmt.Errorf("history file %s failed checksum verification", b.path)
	}

	snapshots := make([]metrics.Snapshot, 0, len(doc.Snapshots))
	for _, raw := range doc.Snapshots {
		var s metrics.Snapshot
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("corrupt snapshot in %s: %w", b.path, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func (b *FileBackend) Save(snapshots []metrics.Snapshot) error {
	raws := make([]json.RawMessage, 0, len(snapshots))
	for i := range snapshots {
		raw, err := json.Marshal(&snapshots[i])
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}

	payload, err := json.Marshal(raws)
	if err != nil {
		return err
	}

	doc := fileDocument{Checksum: hashHex(payload), Snapshots: raws}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(b.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Write-then-rename so a crash mid-write never corrupts history.
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

func (b *FileBackend) Reset() error {
	err := os.Remove(b.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

func hashHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
