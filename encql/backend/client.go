// Package backend defines the interface to the native encryption engine and
// the wire shapes of the query terms it produces. The engine itself (key
// management, ciphertext formats, transport) lives outside this module; this
// package only fixes the request/response contract the query layer depends on.
package backend

import "context"

// QueryType names the searchable-encryption scheme a term is derived for.
type QueryType string

const (
	QueryEquality QueryType = "equality"
	QueryOre      QueryType = "ore"
	QueryMatch    QueryType = "match"
	QuerySteVec   QueryType = "ste_vec"
)

// TermRequest asks the engine to derive one query term. Value carries the
// plaintext operand; for ste_vec requests Path addresses the JSON sub-value
// and SelectorOnly requests a bare selector with no accompanying value.
type TermRequest struct {
	Value        any       `json:"value,omitempty"`
	Path         string    `json:"path,omitempty"`
	Table        string    `json:"table"`
	Column       string    `json:"column"`
	QueryType    QueryType `json:"query_type"`
	SelectorOnly bool      `json:"selector_only,omitempty"`
}

// SearchTermRequest asks for a JSON-path search term. A nil Value yields a
// selector-only term.
type SearchTermRequest struct {
	Path   string `json:"path"`
	Value  any    `json:"value,omitempty"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Client is the encryption engine as seen by the query layer.
//
// Implementations may assume every request carries a non-nil Value unless it
// is selector-only; the query layer short-circuits nil plaintext to nil terms
// before reaching the client. Batch responses must preserve request order:
// response slot i corresponds to request slot i, always.
type Client interface {
	// EncryptQuery derives a single query term.
	EncryptQuery(ctx context.Context, req TermRequest) (*Term, error)

	// EncryptQueryBatch derives terms for all requests in one round-trip.
	// len(result) == len(reqs) on success; partial success is not supported.
	EncryptQueryBatch(ctx context.Context, reqs []TermRequest) ([]Term, error)

	// CreateSearchTerms derives JSON-path search terms ({s} or {s, sv}) for
	// all requests in one round-trip, preserving order.
	CreateSearchTerms(ctx context.Context, reqs []SearchTermRequest) ([]Term, error)
}
