package index

// TopologyStore defines the cache operations used by Cache.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type TopologyStore interface {
	Upsert(e Entry) error
	Get(path string) (*Entry, error)
	Delete(path string) error
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies TopologyStore at compile time.
var _ TopologyStore = (*DB)(nil)
