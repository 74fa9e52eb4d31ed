package ports

// Watcher monitors a directory of taxonomy files for changes.
type Watcher interface {
	// Watch starts monitoring path recursively. onChange is called with the
	// absolute path of each changed file. Non-blocking; events are delivered
	// from a background goroutine until Stop.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources.
	// Safe to call multiple times.
	Stop() error
}
