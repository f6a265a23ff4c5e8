package history

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

var snapshotPrefix = []byte("snapshot/")

// BadgerBackend persists history in an embedded Badger database. Keys are
// prefixed and ordered by timestamp so loads iterate in chronological order.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend opens (or creates) a Badger database at dir.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func snapshotKey(s *metrics.Snapshot) []byte {
	return fmt.Appendf(nil, "%s%020d/%016x", snapshotPrefix, s.Timestamp.UnixNano(), s.Fingerprint())
}

func (b *BadgerBackend) Load() ([]metrics.Snapshot, error) {
	var snapshots []metrics.Snapshot
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = snapshotPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(snapshotPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var s metrics.Snapshot
				if err := json.Unmarshal(val, &s); err != nil {
					return fmt.Errorf("corrupt snapshot record: %w", err)
				}
				snapshots = append(snapshots, s)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (b *BadgerBackend) Save(snapshots []metrics.Snapshot) error {
	if err := b.db.DropPrefix(snapshotPrefix); err != nil {
		return err
	}
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range snapshots {
		val, err := json.Marshal(&snapshots[i])
		if err != nil {
			return err
		}
		if err := wb.Set(snapshotKey(&snapshots[i]), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *BadgerBackend) Reset() error {
	return b.db.DropPrefix(snapshotPrefix)
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
