package db

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileBlobStore keeps the blob in a single JSON file on local disk.
type FileBlobStore struct {
	Path string
}

func NewFileBlobStore(path string) *FileBlobStore {
	return &FileBlobStore{Path: path}
}

func (f *FileBlobStore) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, errors.Wrapf(err, "reading %s", f.Path)
	}
	return data, nil
}

// Save writes to a temp file next to Path and renames it over, so a reader
// never sees a half-written blob.
func (f *FileBlobStore) Save(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return errors.Wrapf(err, "replacing %s", f.Path)
	}
	return nil
}

func (f *FileBlobStore) Delete() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", f.Path)
	}
	return nil
}
