package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/tuannm99/primdb/internal/catalog"
	"github.com/tuannm99/primdb/internal/record"
)

// Store is the persistence boundary for schemas and per-table records.
type Store interface {
	LoadSchemas() ([]catalog.TableMeta, error)
	SaveSchemas(metas []catalog.TableMeta) error
	// LoadRecords returns an empty slice for a table that was never saved.
	LoadRecords(table string) ([]record.Record, error)
	SaveRecords(table string, records []record.Record) error
	DeleteRecords(table string) error
}

var _ Store = (*JSONStore)(nil)

// JSONStore keeps all schemas in one JSON document and each table's records in
// <dataDir>/<table>.json.
type JSONStore struct {
	blobs   BlobStore
	metaKey string
	dataDir string
}

func NewJSONStore(blobs BlobStore, metaFile, dataDir string) *JSONStore {
	if metaFile == "" {
		metaFile = DefaultMetaFile
	}
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return &JSONStore{blobs: blobs, metaKey: metaFile, dataDir: dataDir}
}

func (s *JSONStore) recordsKey(table string) string {
	return path.Join(s.dataDir, table+".json")
}

func (s *JSONStore) LoadSchemas() ([]catalog.TableMeta, error) {
	data, err := s.blobs.Read(s.metaKey)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, s.metaKey, err)
	}

	var metas []catalog.TableMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, s.metaKey, err)
	}
	return metas, nil
}

func (s *JSONStore) SaveSchemas(metas []catalog.TableMeta) error {
	if metas == nil {
		metas = []catalog.TableMeta{}
	}
	return s.write(s.metaKey, metas)
}

func (s *JSONStore) LoadRecords(table string) ([]record.Record, error) {
	key := s.recordsKey(table)
	data, err := s.blobs.Read(key)
	if errors.Is(err, ErrBlobNotFound) {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, key, err)
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, key, err)
	}
	if records == nil {
		records = []record.Record{}
	}
	return records, nil
}

func (s *JSONStore) SaveRecords(table string, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}
	return s.write(s.recordsKey(table), records)
}

func (s *JSONStore) DeleteRecords(table string) error {
	key := s.recordsKey(table)
	if err := s.blobs.Delete(key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrPersistence, key, err)
	}
	return nil
}

func (s *JSONStore) write(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, key, err)
	}
	if err := s.blobs.Write(key, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, key, err)
	}
	return nil
}
