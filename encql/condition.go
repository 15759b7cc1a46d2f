package encql

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/encql/encql/encql/backend"
)

// Postgres support functions emitted by encrypted finalizers. The condition
// layer never inspects SQL text beyond embedding these calls.
const (
	fnMatch          = "cs_match_v2"
	fnSteVecContains = "cs_ste_vec_contains_v2"
	fnSteVecTerm     = "cs_ste_vec_term_v2"
	fnSteVecTerms    = "cs_ste_vec_terms_v2"
	fnSteVecValue    = "cs_ste_vec_value_v2"
	fnPathExists     = "cs_ste_vec_path_exists_v2"
	fnArrayLength    = "cs_ste_vec_array_length_v2"
	fnOrderBy        = "cs_order_by_v2"
)

// EncryptionKind tags what a pending operator needs encrypted.
type EncryptionKind int

const (
	// EncryptValue: the operand is encrypted as a plain query value.
	EncryptValue EncryptionKind = iota
	// EncryptSelector: the JSON path itself is encrypted, no value.
	EncryptSelector
	// EncryptNone: nothing needs encryption (e.g. root-path array length).
	EncryptNone
)

// Condition is one node of a boolean expression tree: either a plain,
// already-usable comparison, a pending encrypted comparison awaiting a
// batched term derivation, or a composite combining children with AND/OR.
// Combinators pattern-match on the variant instead of duck-typing.
type Condition interface {
	isCondition()
}

// Plain wraps a resolved comparison; no encryption round-trip is needed.
type Plain struct {
	Cond sq.Sqlizer
}

func (Plain) isCondition() {}

// PlainCond embeds an already-resolved squirrel condition in an expression
// tree, letting unencrypted predicates compose with pending ones.
func PlainCond(cond sq.Sqlizer) Condition {
	return Plain{Cond: cond}
}

// Pending is a deferred encrypted comparison. It is owned exclusively by the
// combinator that resolves it and is consumed exactly once.
type Pending struct {
	node *operatorNode
}

func (Pending) isCondition() {}

// composite is a lazy And/Or over children; leaves across arbitrarily nested
// composites are flushed in a single batch by the outermost resolution.
type composite struct {
	or    bool
	conds []Condition
}

func (composite) isCondition() {}

// invalid carries a configuration error created at operator-build time.
// It surfaces from the combinator before any backend call is made.
type invalid struct {
	err error
}

func (invalid) isCondition() {}

func errCond(err error) Condition {
	return invalid{err: err}
}

// operatorNode describes one not-yet-encrypted comparison: which terms to
// request and how to turn the resolved terms into the final condition.
// reqs and the finalizer's terms argument correlate by index.
type operatorNode struct {
	col      *Column
	op       opKind
	path     Path
	enc      EncryptionKind
	reqs     []backend.TermRequest
	finalize func(terms []*backend.Term) (sq.Sqlizer, error)
}

// notSqlizer wraps a condition with logical NOT.
type notSqlizer struct {
	inner sq.Sqlizer
}

func (n notSqlizer) ToSql() (string, []any, error) {
	s, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + s + ")", args, nil
}

// Not negates a condition. Pending nodes keep their term requests and wrap
// only the finalized comparison, so negation never re-derives terms.
func Not(cond Condition) Condition {
	switch c := cond.(type) {
	case Plain:
		return Plain{Cond: notSqlizer{inner: c.Cond}}
	case Pending:
		inner := c.node.finalize
		node := &operatorNode{
			col:  c.node.col,
			op:   c.node.op,
			path: c.node.path,
			enc:  c.node.enc,
			reqs: c.node.reqs,
			finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
				s, err := inner(terms)
				if err != nil {
					return nil, err
				}
				return notSqlizer{inner: s}, nil
			},
		}
		return Pending{node: node}
	case composite:
		return composite{or: !c.or, conds: negateAll(c.conds)}
	default:
		return cond
	}
}

func negateAll(conds []Condition) []Condition {
	out := make([]Condition, len(conds))
	for i, c := range conds {
		if c == nil {
			continue
		}
		out[i] = Not(c)
	}
	return out
}
