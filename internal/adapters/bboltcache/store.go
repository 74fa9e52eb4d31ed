// Package bboltcache implements the ports.Cache interface using bbolt
// (embedded B+ tree). One top-level bucket per taxonomy file id holds the
// content hash and the JSON document snapshot. Writes are transactional, so
// a crash mid-write cannot corrupt previously committed entries.
package bboltcache

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/eslabs/cmdata/internal/ports"
)

// Bucket keys
var (
	keyHash     = []byte("hash")
	keySnapshot = []byte("snapshot")
)

// Store implements ports.Cache backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.Cache = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load retrieves the cached snapshot for a file id.
func (s *Store) Load(fileID string) (string, []byte, error) {
	var hash string
	var snapshot []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(fileID))
		if b == nil {
			return nil
		}
		hash = string(b.Get(keyHash))
		if v := b.Get(keySnapshot); v != nil {
			snapshot = make([]byte, len(v))
			copy(snapshot, v)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("load %s: %w", fileID, err)
	}
	return hash, snapshot, nil
}

// Save stores a snapshot and its content hash for a file id.
func (s *Store) Save(fileID, hash string, snapshot []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(fileID))
		if err != nil {
			return err
		}
		if err := b.Put(keyHash, []byte(hash)); err != nil {
			return err
		}
		return b.Put(keySnapshot, snapshot)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", fileID, err)
	}
	return nil
}

// Delete removes the entry for a file id. Deleting a nonexistent entry is
// not an error.
func (s *Store) Delete(fileID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(fileID)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(fileID))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", fileID, err)
	}
	return nil
}
