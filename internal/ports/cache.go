// Package ports defines the interfaces (contracts) that adapters must
// implement. Domain logic depends only on these interfaces, never on
// concrete implementations.
package ports

// Cache persists parsed taxonomy documents between runs, keyed by file id.
// The snapshot is opaque to the cache; the catalog serializes documents to
// JSON and checks the content hash before trusting an entry.
//
// Crash safety: Save must be transactional. A crash mid-write must not
// corrupt previously committed entries.
type Cache interface {
	// Load retrieves the cached snapshot for a file id.
	// Returns "", nil, nil if no entry exists.
	Load(fileID string) (hash string, snapshot []byte, err error)

	// Save stores a snapshot and its content hash for a file id.
	// Overwrites any prior entry.
	Save(fileID, hash string, snapshot []byte) error

	// Delete removes the entry for a file id. Idempotent.
	Delete(fileID string) error

	// Close releases the underlying store.
	Close() error
}
