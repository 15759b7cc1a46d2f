package encql

import (
	"encoding/json"
)

// EncryptConfig is the versioned descriptor the native engine consumes once
// at initialization: which indexes each column carries and how its plaintext
// is cast. It mirrors the declared IndexConfig; nothing here is algorithmic.
type EncryptConfig struct {
	V      int                                   `json:"v"`
	Tables map[string]map[string]ColumnDescriptor `json:"tables"`
}

// ColumnDescriptor is one column's entry in the encrypt config.
type ColumnDescriptor struct {
	CastAs  CastAs         `json:"cast_as"`
	Indexes map[string]any `json:"indexes"`
}

// Extract builds the encrypt config for the given tables. Each table is
// validated first, so a config that would fail at query time fails here too.
func Extract(tables ...*Table) (EncryptConfig, error) {
	cfg := EncryptConfig{V: 1, Tables: make(map[string]map[string]ColumnDescriptor, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return EncryptConfig{}, err
		}
		cols := make(map[string]ColumnDescriptor, len(t.cols))
		for _, c := range t.Columns() {
			cols[c.name] = describeColumn(c)
		}
		cfg.Tables[t.name] = cols
	}
	return cfg, nil
}

// ExtractJSON is Extract serialized to the engine's JSON wire format.
func ExtractJSON(tables ...*Table) ([]byte, error) {
	cfg, err := Extract(tables...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func describeColumn(c *Column) ColumnDescriptor {
	d := ColumnDescriptor{
		CastAs:  c.cfg.castAs(),
		Indexes: make(map[string]any),
	}
	if eq := c.cfg.Equality; eq != nil {
		d.Indexes["equality"] = *eq
	}
	if c.cfg.OrderAndRange != nil {
		d.Indexes["ore"] = struct{}{}
	}
	if m := c.cfg.FreeText; m != nil {
		d.Indexes["match"] = *m
	}
	if sv := c.cfg.SearchableJSON; sv != nil {
		out := *sv
		if out.Prefix == "" {
			out.Prefix = c.table.name + "/" + c.name
		}
		d.Indexes["ste_vec"] = out
	}
	return d
}
