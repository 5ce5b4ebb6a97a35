package credentials

import "sync"

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a thread-safe in-memory implementation of Store. It does not
// survive process restarts and is intended for tests and embedded use.
type MemoryStore struct {
	mu   sync.RWMutex
	pair Pair
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Set(pair Pair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return IncompletePairErr
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.pair = pair
	return nil
}

func (ms *MemoryStore) Access() (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.pair.Access, ms.pair.Access != ""
}

func (ms *MemoryStore) Refresh() (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.pair.Refresh, ms.pair.Refresh != ""
}

func (ms *MemoryStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.pair = Pair{}
	return nil
}

func (ms *MemoryStore) IsAuthenticated() bool {
	_, ok := ms.Access()
	return ok
}
