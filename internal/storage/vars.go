package storage

import (
	"errors"
)

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

const (
	DefaultMetaFile = "db_meta.json"
	DefaultDataDir  = "data"
)

var (
	// ErrPersistence wraps every adapter I/O or encoding failure.
	ErrPersistence = errors.New("persistence failure")
	// ErrBlobNotFound is returned by BlobStore.Read for a key never written.
	ErrBlobNotFound = errors.New("blob not found")
)
