package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces snapshot keys inside the database.
const keyPrefix = "snap/"

// Key identifies a snapshot: the structure fingerprint and a hash of the
// configuration that produced the chain.
type Key struct {
	Fingerprint uint64
	Config      uint64
}

// NewKey hashes config (any stable encoding of the stack configuration).
func NewKey(fingerprint uint64, config []byte) Key {
	return Key{Fingerprint: fingerprint, Config: xxhash.Sum64(config)}
}

// String renders the key as "<fingerprint>-<config>" in hex.
func (k Key) String() string { return fmt.Sprintf("%016x-%016x", k.Fingerprint, k.Config) }

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	fp, cfg, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Key{}, fmt.Errorf("key %q: %w", s, ErrBadKey)
	}
	a, err := strconv.ParseUint(fp, 16, 64)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: %v: %w", s, err, ErrBadKey)
	}
	b, err := strconv.ParseUint(cfg, 16, 64)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: %v: %w", s, err, ErrBadKey)
	}

	return Key{Fingerprint: a, Config: b}, nil
}

func (k Key) bytes() []byte { return []byte(keyPrefix + k.String()) }

// Options configures Open.
type Options struct {
	// Dir holds the database files; ignored when InMemory is set.
	Dir string
	// InMemory keeps everything in memory.
	InMemory bool
	// SyncWrites flushes every Put to disk.
	SyncWrites bool
	// Logger receives badger's own log lines; nil silences them.
	Logger *slog.Logger
}

// Store persists encoded snapshots.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, snapshotErrorf("Open", ErrNoPath)
	}

	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, snapshotErrorf("Open", err)
		}
		bo = badger.DefaultOptions(opts.Dir)
	}
	bo = bo.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)

	logger := opts.Logger
	if logger != nil {
		bo = bo.WithLogger(&badgerLogger{logger: logger})
	} else {
		bo = bo.WithLogger(nil)
		logger = slog.Default()
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, snapshotErrorf("Open", err)
	}

	return &Store{db: db, logger: logger.With("component", "snapshot")}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores the encoding of snap under k, replacing any previous value.
func (s *Store) Put(k Key, snap *Snapshot) error {
	data, err := snap.MarshalBinary()
	if err != nil {
		return snapshotErrorf("Put", err)
	}

	return s.PutRaw(k, data)
}

// PutRaw stores an encoding as-is.
func (s *Store) PutRaw(k Key, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k.bytes(), data)
	})
	if err != nil {
		return snapshotErrorf("Put", err)
	}
	s.logger.Debug("snapshot stored", "key", k.String(), "bytes", len(data))

	return nil
}

// GetRaw returns the stored encoding of k.
func (s *Store) GetRaw(k Key) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k.bytes())
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, snapshotErrorf("Get", fmt.Errorf("%s: %w", k, ErrNotFound))
	}
	if err != nil {
		return nil, snapshotErrorf("Get", err)
	}

	return data, nil
}

// Get decodes the snapshot stored under k.
func (s *Store) Get(k Key) (*Snapshot, error) {
	data, err := s.GetRaw(k)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Has reports whether k is stored.
func (s *Store) Has(k Key) (bool, error) {
	_, err := s.GetRaw(k)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Delete removes k; a missing key is not an error.
func (s *Store) Delete(k Key) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k.bytes())
	})
	if err != nil {
		return snapshotErrorf("Delete", err)
	}

	return nil
}

// Keys lists every stored key in key order.
func (s *Store) Keys() ([]Key, error) {
	var keys []Key
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k, err := ParseKey(strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
			if err != nil {
				return err
			}
			keys = append(keys, k)
		}

		return nil
	})
	if err != nil {
		return nil, snapshotErrorf("Keys", err)
	}

	return keys, nil
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
