package encql

import (
	"encoding/json"
	"sort"
)

// tablesDoc is the JSON form of a set of table declarations:
//
//	{"tables": {"users": {"email": {"equality": {}, "cast_as": "string"}}}}
type tablesDoc struct {
	Tables map[string]map[string]IndexConfig `json:"tables"`
}

// TablesFromJSON loads table declarations from JSON, applying the same
// validation as code-level declaration. Tables are returned sorted by name
// so output is deterministic.
func TablesFromJSON(b []byte) ([]*Table, error) {
	var doc tablesDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, Wrap(ErrConfig, "invalid tables JSON", err)
	}
	if len(doc.Tables) == 0 {
		return nil, New(ErrConfig, "tables JSON must declare at least one table")
	}

	names := make([]string, 0, len(doc.Tables))
	for name := range doc.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Table, 0, len(names))
	for _, name := range names {
		t := NewTable(name)
		colNames := make([]string, 0, len(doc.Tables[name]))
		for col := range doc.Tables[name] {
			colNames = append(colNames, col)
		}
		sort.Strings(colNames)
		for _, col := range colNames {
			t.Column(col, doc.Tables[name][col])
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// TablesToJSON serializes table declarations back to the JSON form accepted
// by TablesFromJSON.
func TablesToJSON(tables ...*Table) ([]byte, error) {
	doc := tablesDoc{Tables: make(map[string]map[string]IndexConfig, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		cols := make(map[string]IndexConfig, len(t.cols))
		for _, c := range t.Columns() {
			cols[c.name] = c.cfg
		}
		doc.Tables[t.name] = cols
	}
	return json.MarshalIndent(doc, "", "  ")
}
