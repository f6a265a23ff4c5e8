package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Registry persists benchmark configs and per-config result history.
type Registry interface {
	SaveConfig(cfg *Config) error
	Config(name string) (*Config, error)
	Configs() ([]*Config, error)
	SaveResult(result *Result) error
	Result(id string) (*Result, error)
	ResultsForConfig(name string) ([]*Result, error)
	Close() error
}

// MemoryRegistry keeps configs and results for the process lifetime.
// Suitable for one-shot CLI invocations and tests.
type MemoryRegistry struct {
	configs map[string]*Config
	results map[string]*Result
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		configs: make(map[string]*Config),
		results: make(map[string]*Result),
	}
}

func (r *MemoryRegistry) SaveConfig(cfg *Config) error {
	stamped := *cfg
	now := time.Now().UTC()
	if existing, ok := r.configs[cfg.Name]; ok {
		stamped.CreatedAt = existing.CreatedAt
	} else {
		stamped.CreatedAt = now
	}
	stamped.UpdatedAt = now
	r.configs[cfg.Name] = &stamped
	return nil
}

func (r *MemoryRegistry) Config(name string) (*Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, &NotFoundError{Kind: "config", Name: name}
	}
	out := *cfg
	return &out, nil
}

func (r *MemoryRegistry) Configs() ([]*Config, error) {
	out := make([]*Config, 0, len(r.configs))
	for _, cfg := range r.configs {
		c := *cfg
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRegistry) SaveResult(result *Result) error {
	stored := *result
	r.results[result.ID] = &stored
	return nil
}

func (r *MemoryRegistry) Result(id string) (*Result, error) {
	result, ok := r.results[id]
	if !ok {
		return nil, &NotFoundError{Kind: "result", Name: id}
	}
	out := *result
	return &out, nil
}

func (r *MemoryRegistry) ResultsForConfig(name string) ([]*Result, error) {
	var out []*Result
	for _, result := range r.results {
		if result.ConfigName == name {
			res := *result
			out = append(out, &res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *MemoryRegistry) Close() error { return nil }

// BadgerRegistry persists configs and results in an embedded Badger
// database so result history survives across runs.
type BadgerRegistry struct {
	db *badger.DB
}

var (
	configPrefix = []byte("benchmark/config/")
	resultPrefix = []byte("benchmark/result/")
)

// NewBadgerRegistry opens (or creates) a registry database at dir.
func NewBadgerRegistry(dir string) (*BadgerRegistry, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark registry: %w", err)
	}
	return &BadgerRegistry{db: db}, nil
}

// NewBadgerRegistryFromDB wraps an already-open database, allowing the
// registry to share storage with snapshot history.
func NewBadgerRegistryFromDB(db *badger.DB) *BadgerRegistry {
	return &BadgerRegistry{db: db}
}

func configKey(name string) []byte {
	return append(append([]byte(nil), configPrefix...), name...)
}

func resultKey(id string) []byte {
	return append(append([]byte(nil), resultPrefix...), id...)
}

func (r *BadgerRegistry) SaveConfig(cfg *Config) error {
	stamped := *cfg
	now := time.Now().UTC()
	if existing, err := r.Config(cfg.Name); err == nil {
		stamped.CreatedAt = existing.CreatedAt
	} else {
		stamped.CreatedAt = now
	}
	stamped.UpdatedAt = now

	val, err := json.Marshal(&stamped)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(configKey(cfg.Name), val)
	})
}

func (r *BadgerRegistry) Config(name string) (*Config, error) {
	var cfg Config
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(configKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cfg)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &NotFoundError{Kind: "config", Name: name}
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *BadgerRegistry) Configs() ([]*Config, error) {
	var out []*Config
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = configPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(configPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var cfg Config
				if err := json.Unmarshal(val, &cfg); err != nil {
					return err
				}
				out = append(out, &cfg)
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
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BadgerRegistry) SaveResult(result *Result) error {
	val, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(result.ID), val)
	})
}

func (r *BadgerRegistry) Result(id string) (*Result, error) {
	var result Result
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &NotFoundError{Kind: "result", Name: id}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *BadgerRegistry) ResultsForConfig(name string) ([]*Result, error) {
	var out []*Result
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = resultPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(resultPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var result Result
				if err := json.Unmarshal(val, &result); err != nil {
					return err
				}
				if result.ConfigName == name {
					out = append(out, &result)
				}
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
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *BadgerRegistry) Close() error {
	return r.db.Close()
}
