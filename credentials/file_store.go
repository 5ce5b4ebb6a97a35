package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the credential pair in a JSON file so a session survives a
// full restart of the client process. Writes go through a temp file followed
// by a rename, so readers never observe a half-written pair.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by the file at path. The file and its
// parent directory are created lazily on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, StorePathErr
	}
	return &FileStore{path: path}, nil
}

func (fs *FileStore) Set(pair Pair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return IncompletePairErr
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Set] marshal pair")
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Set] create credentials directory")
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return errors.Wrap(err, "[FileStore.Set] create temp file")
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Set] chmod temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Set] write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Set] close temp file")
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Set] rename into place")
	}
	return nil
}

func (fs *FileStore) Access() (string, bool) {
	pair := fs.load()
	return pair.Access, pair.Access != ""
}

func (fs *FileStore) Refresh() (string, bool) {
	pair := fs.load()
	return pair.Refresh, pair.Refresh != ""
}

func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove credentials file")
	}
	return nil
}

func (fs *FileStore) IsAuthenticated() bool {
	_, ok := fs.Access()
	return ok
}

// load reads the pair from disk. A missing or unreadable file simply means
// no session.
func (fs *FileStore) load() Pair {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		return Pair{}
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}
	}
	return pair
}
