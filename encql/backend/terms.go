package backend

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// SteVecEntry is one path+value pair of a structured-encryption vector:
// a tokenized selector, the term derived for the value at that path, and
// optionally the record ciphertext for extraction queries.
type SteVecEntry struct {
	Selector string `json:"s"`
	Term     string `json:"t"`
	Record   string `json:"r,omitempty"`
}

// Term is one encrypted query term in the engine's wire format. Exactly one
// shape is populated, depending on the query type:
//
//	{hm}     equality HMAC
//	{ob}     order-revealing bytes, non-empty
//	{bf}     match bloom filter bits
//	{s}      selector only (path addressing, no value)
//	{s, sv}  selector with structured value entries, sv non-empty
//	{sv}     containment vector, no selector required
type Term struct {
	HM string        `json:"hm,omitempty"`
	OB []string      `json:"ob,omitempty"`
	BF []int         `json:"bf,omitempty"`
	S  string        `json:"s,omitempty"`
	SV []SteVecEntry `json:"sv,omitempty"`
}

func (t Term) IsZero() bool {
	return t.HM == "" && len(t.OB) == 0 && len(t.BF) == 0 && t.S == "" && len(t.SV) == 0
}

// Validate checks the shape invariants for the given query type.
func (t Term) Validate(qt QueryType) error {
	switch qt {
	case QueryEquality:
		if t.HM == "" {
			return errors.New("equality term requires hm")
		}
	case QueryOre:
		if len(t.OB) == 0 {
			return errors.New("ore term requires non-empty ob")
		}
	case QueryMatch:
		if len(t.BF) == 0 {
			return errors.New("match term requires non-empty bf")
		}
	case QuerySteVec:
		if t.S == "" && len(t.SV) == 0 {
			return errors.New("ste_vec term requires s or sv")
		}
		if t.S != "" && t.SV != nil && len(t.SV) == 0 {
			return errors.New("ste_vec sv must be non-empty when present")
		}
	default:
		return fmt.Errorf("unknown query type %q", qt)
	}
	return nil
}

// Value implements driver.Valuer so a Term can be bound directly as a SQL
// argument; it serializes to the engine's JSON wire format.
func (t Term) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
