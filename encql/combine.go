package encql

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/encql/encql/encql/backend"
)

// And combines conditions with logical AND. The combination is lazy: nested
// And/Or trees share a single batched term derivation when the outermost
// tree is resolved. Nil entries are discarded.
func And(conds ...Condition) Condition {
	return composite{or: false, conds: conds}
}

// Or combines conditions with logical OR. Same laziness and nil tolerance
// as And.
func Or(conds ...Condition) Condition {
	return composite{or: true, conds: conds}
}

// Querier resolves condition trees against one encryption backend.
type Querier struct {
	client backend.Client
}

func NewQuerier(client backend.Client) *Querier {
	return &Querier{client: client}
}

// And resolves And(conds...) in one backend round-trip.
func (q *Querier) And(ctx context.Context, conds ...Condition) (sq.Sqlizer, error) {
	return q.Resolve(ctx, And(conds...))
}

// Or resolves Or(conds...) in one backend round-trip.
func (q *Querier) Or(ctx context.Context, conds ...Condition) (sq.Sqlizer, error) {
	return q.Resolve(ctx, Or(conds...))
}

// Resolve turns a condition tree into a usable squirrel condition.
//
// Two phases: collect walks the tree in argument order gathering every
// pending node's term requests into one ordered batch; flush issues exactly
// one EncryptQueryBatch call for the whole tree, then each node's finalizer
// is fed its slice of the response, correlated by index. A solitary pending
// condition resolves the same way with a batch of its own requests.
//
// Batching is all-or-nothing: if the backend call fails, Resolve fails and
// no partially-resolved terms are used.
func (q *Querier) Resolve(ctx context.Context, cond Condition) (sq.Sqlizer, error) {
	if cond == nil {
		return nil, nil
	}

	b := &batch{}
	if err := b.collect(cond); err != nil {
		return nil, err
	}
	if err := b.flush(ctx, q.client); err != nil {
		return nil, err
	}
	return b.assemble(cond)
}

// batch is the two-phase collector: descriptors first, one flush, then
// reassembly. Request order follows the tree walk, so response slot i always
// belongs to request slot i.
type batch struct {
	reqs    []backend.TermRequest
	spans   map[*operatorNode][2]int
	results []*backend.Term
}

func (b *batch) collect(cond Condition) error {
	switch c := cond.(type) {
	case nil:
		return nil
	case invalid:
		return c.err
	case Plain:
		return nil
	case Pending:
		if b.spans == nil {
			b.spans = make(map[*operatorNode][2]int)
		}
		start := len(b.reqs)
		b.reqs = append(b.reqs, c.node.reqs...)
		b.spans[c.node] = [2]int{start, len(b.reqs)}
		return nil
	case composite:
		for _, child := range c.conds {
			if child == nil {
				continue
			}
			if err := b.collect(child); err != nil {
				return err
			}
		}
		return nil
	default:
		return New(ErrSQL, "unknown condition variant")
	}
}

// flush issues the single batched call. Requests whose plaintext is nil are
// short-circuited to nil terms without reaching the backend; if nothing
// remains, no call is made at all.
func (b *batch) flush(ctx context.Context, client backend.Client) error {
	b.results = make([]*backend.Term, len(b.reqs))
	if len(b.reqs) == 0 {
		return nil
	}

	wire := make([]backend.TermRequest, 0, len(b.reqs))
	slots := make([]int, 0, len(b.reqs))
	for i, req := range b.reqs {
		if req.Value == nil && !req.SelectorOnly {
			continue
		}
		wire = append(wire, req)
		slots = append(slots, i)
	}
	if len(wire) == 0 {
		return nil
	}
	if client == nil {
		return New(ErrBackend, "no encryption backend configured")
	}

	terms, err := client.EncryptQueryBatch(ctx, wire)
	if err != nil {
		return Wrap(ErrBackend, "batched encrypt query", err)
	}
	if len(terms) != len(wire) {
		return New(ErrBackend, "batched response length does not match request")
	}
	for i := range terms {
		t := terms[i]
		b.results[slots[i]] = &t
	}
	return nil
}

func (b *batch) assemble(cond Condition) (sq.Sqlizer, error) {
	switch c := cond.(type) {
	case Plain:
		return c.Cond, nil
	case Pending:
		span := b.spans[c.node]
		return c.node.finalize(b.results[span[0]:span[1]])
	case composite:
		parts := make([]sq.Sqlizer, 0, len(c.conds))
		for _, child := range c.conds {
			if child == nil {
				continue
			}
			s, err := b.assemble(child)
			if err != nil {
				return nil, err
			}
			if s != nil {
				parts = append(parts, s)
			}
		}
		switch len(parts) {
		case 0:
			return nil, nil
		case 1:
			return parts[0], nil
		}
		if c.or {
			return sq.Or(parts), nil
		}
		return sq.And(parts), nil
	default:
		return nil, New(ErrSQL, "unknown condition variant")
	}
}
