// Package primdb is the top-level facade for the primdb record store.
package primdb

import (
	"github.com/spf13/afero"

	"github.com/tuannm99/primdb/internal/engine"
	"github.com/tuannm99/primdb/internal/storage"
)

type Database = engine.Database

// Open opens the database persisted under workdir on the OS filesystem,
// using the default file layout.
func Open(workdir string) (*Database, error) {
	return OpenFs(afero.NewOsFs(), workdir, storage.DefaultMetaFile, storage.DefaultDataDir)
}

// OpenFs opens the database rooted at workdir on fs. Empty metaFile or dataDir
// select the defaults.
func OpenFs(fs afero.Fs, workdir, metaFile, dataDir string) (*Database, error) {
	store := storage.NewJSONStore(storage.NewFileBlobs(fs, workdir), metaFile, dataDir)
	return engine.Open(store)
}
