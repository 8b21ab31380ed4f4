package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// BlobStore is a key -> bytes store. Keys are slash-separated relative paths.
type BlobStore interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
}

var _ BlobStore = (*FileBlobs)(nil)

// FileBlobs stores each key as a file under Root on an afero filesystem.
type FileBlobs struct {
	FS   afero.Fs
	Root string
}

// NewFileBlobs creates a file-backed blob store without touching the filesystem.
func NewFileBlobs(fsys afero.Fs, root string) *FileBlobs {
	return &FileBlobs{FS: fsys, Root: root}
}

func (b *FileBlobs) path(key string) string {
	return filepath.Join(b.Root, filepath.FromSlash(path.Clean("/" + key)))
}

func (b *FileBlobs) Read(key string) ([]byte, error) {
	data, err := afero.ReadFile(b.FS, b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return data, err
}

// Write replaces the blob atomically: data goes to a temp file that is renamed
// over the target, so readers never see a partial file.
func (b *FileBlobs) Write(key string, data []byte) error {
	p := b.path(key)
	dir := filepath.Dir(p)
	if err := b.FS.MkdirAll(dir, FileMode0755); err != nil {
		return err
	}

	f, err := afero.TempFile(b.FS, dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = b.FS.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = b.FS.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = b.FS.Remove(tmp)
		return err
	}
	if err := b.FS.Chmod(tmp, FileMode0644); err != nil {
		_ = b.FS.Remove(tmp)
		return err
	}
	if err := b.FS.Rename(tmp, p); err != nil {
		_ = b.FS.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes the blob; a missing key is not an error.
func (b *FileBlobs) Delete(key string) error {
	err := b.FS.Remove(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
