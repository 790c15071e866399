// Package store keeps trained model blobs on local disk or in an
// S3-compatible object store, and loads them with retries at service startup.
package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/pricefactor/config"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Store reads and writes one model blob.
type Store interface {
	Load(ctx context.Context) (*factor.State, error)
	Save(ctx context.Context, state *factor.State) error
	// Location describes where the blob lives, for logs.
	Location() string
}

// New builds the store selected by cfg.Store.
func New(cfg config.ModelConfig) (Store, error) {
	switch cfg.Store {
	case "", config.StoreFile:
		return NewFileStore(cfg.Path), nil
	case config.StoreS3:
		return NewS3Store(cfg.S3, cfg.Path)
	default:
		return nil, errors.NewValidationError("model.store", "unknown store", cfg.Store)
	}
}

// FileStore keeps the blob in a local file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Location implements Store.
func (f *FileStore) Location() string { return f.path }

// Load implements Store. A missing file is reported with fs.ErrNotExist in
// the chain so that LoadWithRetry can wait for it to appear.
func (f *FileStore) Load(ctx context.Context) (*factor.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "model blob %s", f.path)
	}
	return factor.LoadFile(f.path)
}

// Save implements Store. Parent directories are created as needed.
func (f *FileStore) Save(ctx context.Context, state *factor.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewSerializationError("FileStore.Save", err)
		}
	}
	return state.SaveFile(f.path)
}
