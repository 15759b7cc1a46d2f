package encql

import (
	"fmt"
	"regexp"
)

// CastAs is the logical plaintext type of an encrypted column.
type CastAs string

const (
	CastString  CastAs = "string"
	CastNumber  CastAs = "number"
	CastBoolean CastAs = "boolean"
	CastJSON    CastAs = "json"
)

// TokenFilter transforms plaintext before an index term is derived.
type TokenFilter string

const (
	TokenFilterDowncase TokenFilter = "downcase"
)

// Tokenizer configures how free-text plaintext is split into match tokens.
type Tokenizer struct {
	Kind        string `json:"kind"` // "standard" or "ngram"
	TokenLength int    `json:"token_length,omitempty"`
}

// EqualityIndex enables exact-match queries via HMAC terms.
type EqualityIndex struct {
	TokenFilters []TokenFilter `json:"token_filters,omitempty"`
}

// OreIndex enables order and range queries via order-revealing terms.
type OreIndex struct{}

// MatchIndex enables free-text search via bloom-filter match terms.
type MatchIndex struct {
	Tokenizer       *Tokenizer    `json:"tokenizer,omitempty"`
	TokenFilters    []TokenFilter `json:"token_filters,omitempty"`
	K               int           `json:"k,omitempty"`
	M               int           `json:"m,omitempty"`
	IncludeOriginal bool          `json:"include_original,omitempty"`
}

// SteVecIndex enables containment and path queries on encrypted JSON via
// structured-encryption-vector terms. Prefix defaults to "table/column".
type SteVecIndex struct {
	Prefix string `json:"prefix,omitempty"`
}

// IndexConfig declares which search capabilities a column supports.
// A zero IndexConfig means the column is stored without any query index;
// operators against it fall through to plain comparisons.
type IndexConfig struct {
	CastAs         CastAs         `json:"cast_as,omitempty"`
	Equality       *EqualityIndex `json:"equality,omitempty"`
	OrderAndRange  *OreIndex      `json:"order_and_range,omitempty"`
	FreeText       *MatchIndex    `json:"free_text_search,omitempty"`
	SearchableJSON *SteVecIndex   `json:"searchable_json,omitempty"`
}

// castAs returns the effective cast, defaulting to string.
func (c IndexConfig) castAs() CastAs {
	if c.CastAs == "" {
		return CastString
	}
	return c.CastAs
}

var validIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is a set of declared columns. Columns are identified by their
// *Column handle, never by ambient string lookup; two tables may freely
// declare columns with the same name.
type Table struct {
	name  string
	cols  map[string]*Column
	order []string
}

func NewTable(name string) *Table {
	return &Table{name: name, cols: make(map[string]*Column)}
}

func (t *Table) Name() string { return t.name }

// Column declares a column with the given index configuration and returns
// its handle. Declaring the same name twice replaces the earlier config.
// Structural problems (bad names, contradictory index config) are reported
// by Validate and by the operator that first trips over them.
func (t *Table) Column(name string, cfg IndexConfig) *Column {
	c := &Column{table: t, name: name, cfg: cfg}
	if _, ok := t.cols[name]; !ok {
		t.order = append(t.order, name)
	}
	t.cols[name] = c
	return c
}

// Columns returns the declared columns in declaration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.cols[name])
	}
	return out
}

// Validate checks table and column names plus per-column invariants.
func (t *Table) Validate() error {
	if !validIdentRe.MatchString(t.name) {
		return New(ErrConfig, fmt.Sprintf("invalid table name: %q (must match %s)", t.name, validIdentRe.String()))
	}
	if len(t.cols) == 0 {
		return New(ErrConfig, fmt.Sprintf("table %q must declare at least one column", t.name))
	}
	for _, name := range t.order {
		if err := t.cols[name].validate(); err != nil {
			return err
		}
	}
	return nil
}

// Column is the structural handle for one declared column. Immutable after
// declaration; safe for concurrent reads.
type Column struct {
	table *Table
	name  string
	cfg   IndexConfig
}

func (c *Column) Name() string        { return c.name }
func (c *Column) TableName() string   { return c.table.name }
func (c *Column) Config() IndexConfig { return c.cfg }

func (c *Column) validate() error {
	if !validIdentRe.MatchString(c.name) {
		return configError(c, "", fmt.Sprintf("invalid column name: %q (must match %s)", c.name, validIdentRe.String()))
	}
	switch c.cfg.castAs() {
	case CastString, CastNumber, CastBoolean, CastJSON:
	default:
		return configError(c, "", fmt.Sprintf("unknown cast type %q", c.cfg.CastAs))
	}
	if c.cfg.SearchableJSON != nil && c.cfg.castAs() != CastJSON {
		return configError(c, "", fmt.Sprintf("searchable_json requires cast_as json, got %q", c.cfg.castAs()))
	}
	return nil
}

// ident returns the column name quoted for direct SQL interpolation. Names
// that fail validation must never reach here; operators check first.
func (c *Column) ident() string {
	return `"` + c.name + `"`
}
