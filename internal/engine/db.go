package engine

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/primdb/internal/catalog"
	"github.com/tuannm99/primdb/internal/heap"
	"github.com/tuannm99/primdb/internal/record"
	"github.com/tuannm99/primdb/internal/storage"
)

// DatabaseOperation is everything the executor needs from a database.
type DatabaseOperation interface {
	CreateTable(name string, columnSpecs []string) (record.Schema, error)
	DropTable(name string) error
	ListTables() []string
	Describe(name string) (record.Schema, int, error)

	Insert(table string, values []record.Value) (record.Record, error)
	Select(table string, where map[string]record.Value) (record.Schema, []record.Record, error)
	Update(table string, set, where map[string]record.Value) (int, error)
	Delete(table string, where map[string]record.Value) (int, error)
}

var _ DatabaseOperation = (*Database)(nil)

// Database owns the catalog and the loaded tables for the process lifetime.
// It is not safe for concurrent use; commands run one at a time.
type Database struct {
	store   storage.Store
	catalog *catalog.Catalog
	tables  map[string]*heap.Table
}

// Open loads every schema from store. Table records are loaded on first use.
func Open(store storage.Store) (*Database, error) {
	metas, err := store.LoadSchemas()
	if err != nil {
		return nil, err
	}
	cat := catalog.New()
	if err := cat.Load(metas); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}
	slog.Debug("database opened", "tables", len(metas))

	return &Database{
		store:   store,
		catalog: cat,
		tables:  make(map[string]*heap.Table),
	}, nil
}

// table returns the loaded record store for name, reading it from disk once.
func (db *Database) table(name string) (*heap.Table, error) {
	if tbl, ok := db.tables[name]; ok {
		return tbl, nil
	}
	schema, err := db.catalog.Describe(name)
	if err != nil {
		return nil, err
	}

	records, err := db.store.LoadRecords(name)
	if err != nil {
		return nil, err
	}
	tbl := heap.NewTable(name, schema, records, db.catalog.LastID(name))
	if err := tbl.CheckRecords(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}
	slog.Debug("table loaded", "table", name, "records", tbl.Len())

	db.tables[name] = tbl
	return tbl, nil
}

func (db *Database) CreateTable(name string, columnSpecs []string) (record.Schema, error) {
	schema, err := db.catalog.CreateTable(name, columnSpecs)
	if err != nil {
		return record.Schema{}, err
	}
	// an empty data file replaces anything left behind by an earlier drop
	if err := db.store.SaveRecords(name, []record.Record{}); err != nil {
		slog.Warn("create table: save records failed, rolling back", "table", name, "err", err)
		_ = db.catalog.DropTable(name)
		return record.Schema{}, err
	}
	if err := db.store.SaveSchemas(db.catalog.Tables()); err != nil {
		slog.Warn("create table: save schemas failed, rolling back", "table", name, "err", err)
		_ = db.catalog.DropTable(name)
		return record.Schema{}, err
	}

	db.tables[name] = heap.NewTable(name, schema, nil, 0)
	return schema, nil
}

func (db *Database) DropTable(name string) error {
	before := db.catalog.Tables()
	if err := db.catalog.DropTable(name); err != nil {
		return err
	}
	if err := db.store.SaveSchemas(db.catalog.Tables()); err != nil {
		slog.Warn("drop table: save schemas failed, rolling back", "table", name, "err", err)
		_ = db.catalog.Load(before)
		return err
	}
	delete(db.tables, name)

	// The schema is gone already; leftover data is unreachable and overwritten
	// if the table is created again.
	if err := db.store.DeleteRecords(name); err != nil {
		slog.Warn("drop table: delete records failed", "table", name, "err", err)
		return err
	}
	return nil
}

func (db *Database) ListTables() []string {
	return db.catalog.ListTables()
}

// Describe returns the schema and the current record count.
func (db *Database) Describe(name string) (record.Schema, int, error) {
	tbl, err := db.table(name)
	if err != nil {
		return record.Schema{}, 0, err
	}
	return tbl.Schema, tbl.Len(), nil
}

func (db *Database) Insert(table string, values []record.Value) (record.Record, error) {
	tbl, err := db.table(table)
	if err != nil {
		return nil, err
	}

	snap := tbl.Snapshot()
	rec, err := tbl.Insert(values)
	if err != nil {
		return nil, err
	}
	if err := db.saveTable(tbl, snap); err != nil {
		return nil, err
	}
	return rec, nil
}

// Select returns the schema (for column order) and the matching records.
func (db *Database) Select(table string, where map[string]record.Value) (record.Schema, []record.Record, error) {
	tbl, err := db.table(table)
	if err != nil {
		return record.Schema{}, nil, err
	}
	return tbl.Schema, tbl.Collect(where), nil
}

func (db *Database) Update(table string, set, where map[string]record.Value) (int, error) {
	tbl, err := db.table(table)
	if err != nil {
		return 0, err
	}

	snap := tbl.Snapshot()
	n, err := tbl.Update(set, where)
	if err != nil || n == 0 {
		return n, err
	}
	if err := db.saveTable(tbl, snap); err != nil {
		return 0, err
	}
	return n, nil
}

func (db *Database) Delete(table string, where map[string]record.Value) (int, error) {
	tbl, err := db.table(table)
	if err != nil {
		return 0, err
	}

	snap := tbl.Snapshot()
	n := tbl.Delete(where)
	if n == 0 {
		return 0, nil
	}
	if err := db.saveTable(tbl, snap); err != nil {
		return 0, err
	}
	return n, nil
}

// saveTable persists records, then the ID high-water mark when it moved.
// On failure the table is restored to snap.
func (db *Database) saveTable(tbl *heap.Table, snap heap.Snapshot) error {
	if err := db.store.SaveRecords(tbl.Name, tbl.Records()); err != nil {
		slog.Warn("save records failed, rolling back", "table", tbl.Name, "err", err)
		tbl.Restore(snap)
		return err
	}

	prev := db.catalog.LastID(tbl.Name)
	if tbl.LastID() == prev {
		return nil
	}
	db.catalog.SetLastID(tbl.Name, tbl.LastID())
	if err := db.store.SaveSchemas(db.catalog.Tables()); err != nil {
		// records were written already; put the previous ones back
		slog.Warn("save id sequence failed", "table", tbl.Name, "err", err)
		db.catalog.SetLastID(tbl.Name, prev)
		tbl.Restore(snap)
		if rerr := db.store.SaveRecords(tbl.Name, tbl.Records()); rerr != nil {
			slog.Warn("restore records failed", "table", tbl.Name, "err", rerr)
		}
		return err
	}
	return nil
}
