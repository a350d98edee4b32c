package badger

import "github.com/halcyon/trendwatch/storage"

// NewMemoryStores opens an in-memory backend with both repositories on top.
// Intended for tests and ephemeral runs; the caller owns the backend and
// must Close it.
func NewMemoryStores() (storage.RecordStore, storage.VectorIndex, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}
	return NewRecordStore(backend), NewVectorIndex(backend), backend, nil
}
