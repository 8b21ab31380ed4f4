package catalog

import (
	"github.com/tuannm99/primdb/internal/record"
)

// TableMeta is the persisted schema entry of one table.
type TableMeta struct {
	Name    string          `json:"name"`
	Columns []record.Column `json:"columns"`
	// LastID is the highest ID ever handed out, so deleted IDs are not reused.
	LastID int64 `json:"last_id"`
}

func (m TableMeta) Schema() record.Schema {
	return record.Schema{Cols: m.Columns}
}
