package encql

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/encql/encql/encql/backend"
)

// JSONBuilder chains path segments and terminal operators for a
// searchable-JSON column. Builders are immutable: each chaining call returns
// a derived builder, so partial paths can be reused.
//
// Root-path structural access (Get, PathExtractFirst, array length) needs no
// encryption; any non-root path requires an encrypted selector, derived
// either in the batched flush (terminal operators) or by a standalone
// CreateSearchTerms call (Get, PathExtract).
type JSONBuilder struct {
	col  *Column
	path Path
}

// JSONPath starts a builder at the given path. Requesting one for a column
// without a searchable_json index, or whose cast is not json, is a
// configuration error reported here, not deferred.
func JSONPath(col *Column, path any) (*JSONBuilder, error) {
	if col == nil {
		return nil, New(ErrConfig, "nil column for json path builder")
	}
	if err := col.validate(); err != nil {
		return nil, err
	}
	if col.cfg.SearchableJSON == nil {
		return nil, configError(col, "jsonPath", "searchable_json index required")
	}
	if col.cfg.castAs() != CastJSON {
		return nil, configError(col, "jsonPath",
			fmt.Sprintf("searchable_json requires cast_as json, got %q", col.cfg.castAs()))
	}
	return &JSONBuilder{col: col, path: NormalizePath(path)}, nil
}

// Key descends into an object field.
func (b *JSONBuilder) Key(k string) *JSONBuilder {
	return &JSONBuilder{col: b.col, path: appendSeg(b.path, Key(k))}
}

// Each descends into every element of an array.
func (b *JSONBuilder) Each() *JSONBuilder {
	return &JSONBuilder{col: b.col, path: appendSeg(b.path, Wildcard{})}
}

// At descends into one array element; negative indexes count from the end.
func (b *JSONBuilder) At(i int) *JSONBuilder {
	return &JSONBuilder{col: b.col, path: appendSeg(b.path, Index(i))}
}

func appendSeg(p Path, seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Path returns the builder's normalized path.
func (b *JSONBuilder) Path() Path { return b.path }

// Eq matches the value at the path.
func (b *JSONBuilder) Eq(v any) Condition { return b.valueTerm(opJSONEq, v) }

// Ne is the negation of Eq; the term is shared, not re-derived.
func (b *JSONBuilder) Ne(v any) Condition { return Not(b.valueTerm(opJSONNe, v)) }

// Contains tests containment of v under the path.
func (b *JSONBuilder) Contains(v any) Condition { return b.valueTerm(opContains, v) }

// ContainedBy tests the flipped containment.
func (b *JSONBuilder) ContainedBy(v any) Condition {
	return b.valueTerm(opContainedBy, v)
}

func (b *JSONBuilder) valueTerm(op opKind, v any) Condition {
	ident := b.col.ident()
	flipped := op == opContainedBy
	node := &operatorNode{
		col:  b.col,
		op:   op,
		path: b.path,
		enc:  EncryptValue,
		reqs: []backend.TermRequest{{
			Value:     v,
			Path:      b.path.String(),
			Table:     b.col.table.name,
			Column:    b.col.name,
			QueryType: backend.QuerySteVec,
		}},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			if terms[0] == nil {
				return sq.Expr("FALSE"), nil
			}
			if flipped {
				return sq.Expr(fnSteVecContains+"(?, "+ident+")", *terms[0]), nil
			}
			return sq.Expr(fnSteVecContains+"("+ident+", ?)", *terms[0]), nil
		},
	}
	return Pending{node: node}
}

// Exists tests that a value is present at the path. The root path needs no
// selector: it degenerates to a NULL check on the column itself.
func (b *JSONBuilder) Exists() Condition {
	ident := b.col.ident()
	if b.path.IsRoot() {
		return Plain{Cond: sq.NotEq{ident: nil}}
	}
	node := &operatorNode{
		col:  b.col,
		op:   opPathExists,
		path: b.path,
		enc:  EncryptSelector,
		reqs: []backend.TermRequest{b.selectorReq()},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			return sq.Expr(fnPathExists+"("+ident+", ?)", *terms[0]), nil
		},
	}
	return Pending{node: node}
}

// ArrayLength switches the builder into array-length mode; the returned
// value compares the length of the array at the path.
func (b *JSONBuilder) ArrayLength() *JSONArrayLength {
	return &JSONArrayLength{b: b}
}

// JSONArrayLength compares the length of an encrypted array. For a non-root
// path the selector is encrypted to identify which array; at the root the
// length is a property of the column as a whole and nothing needs encryption.
type JSONArrayLength struct {
	b *JSONBuilder
}

func (a *JSONArrayLength) Eq(n int) Condition  { return a.cmp("=", n) }
func (a *JSONArrayLength) Gt(n int) Condition  { return a.cmp(">", n) }
func (a *JSONArrayLength) Gte(n int) Condition { return a.cmp(">=", n) }
func (a *JSONArrayLength) Lt(n int) Condition  { return a.cmp("<", n) }
func (a *JSONArrayLength) Lte(n int) Condition { return a.cmp("<=", n) }

func (a *JSONArrayLength) cmp(op string, n int) Condition {
	ident := a.b.col.ident()
	if a.b.path.IsRoot() {
		node := &operatorNode{
			col:  a.b.col,
			op:   opArrayLength,
			path: a.b.path,
			enc:  EncryptNone,
			finalize: func([]*backend.Term) (sq.Sqlizer, error) {
				return sq.Expr(fnArrayLength+"("+ident+") "+op+" "+strconv.Itoa(n)), nil
			},
		}
		return Pending{node: node}
	}
	node := &operatorNode{
		col:  a.b.col,
		op:   opArrayLength,
		path: a.b.path,
		enc:  EncryptSelector,
		reqs: []backend.TermRequest{a.b.selectorReq()},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			return sq.Expr(fnArrayLength+"("+ident+", ?) "+op+" "+strconv.Itoa(n), *terms[0]), nil
		},
	}
	return Pending{node: node}
}

// Get extracts the value at the path, deriving the selector itself. The root
// path returns the column directly without touching the backend.
func (b *JSONBuilder) Get(ctx context.Context, client backend.Client) (sq.Sqlizer, error) {
	if b.path.IsRoot() {
		return sq.Expr(b.col.ident()), nil
	}
	term, err := b.searchTerm(ctx, client)
	if err != nil {
		return nil, err
	}
	return sq.Expr(fnSteVecValue+"("+b.col.ident()+", ?)", term), nil
}

// GetSync extracts the value at the path using a pre-encrypted selector.
// Only the root path works without one.
func (b *JSONBuilder) GetSync(selector string) (sq.Sqlizer, error) {
	if b.path.IsRoot() {
		return sq.Expr(b.col.ident()), nil
	}
	if selector == "" {
		return nil, New(ErrPath, fmt.Sprintf("path %q requires a selector; encrypt one with Get or pass it explicitly", b.path))
	}
	return sq.Expr(fnSteVecValue+"("+b.col.ident()+", ?)", selector), nil
}

// PathExtract extracts every value matching the path (set-returning). The
// root path is a scalar by definition and cannot be extracted as a set.
func (b *JSONBuilder) PathExtract(ctx context.Context, client backend.Client) (sq.Sqlizer, error) {
	if b.path.IsRoot() {
		return nil, configError(b.col, opPathQuery.String(), "cannot extract a set of values at the root path")
	}
	term, err := b.searchTerm(ctx, client)
	if err != nil {
		return nil, err
	}
	return sq.Expr(fnSteVecTerms+"("+b.col.ident()+", ?)", term), nil
}

// PathExtractFirst extracts the first value matching the path. On the root
// path it degenerates to the column itself.
func (b *JSONBuilder) PathExtractFirst(ctx context.Context, client backend.Client) (sq.Sqlizer, error) {
	if b.path.IsRoot() {
		return sq.Expr(b.col.ident()), nil
	}
	term, err := b.searchTerm(ctx, client)
	if err != nil {
		return nil, err
	}
	return sq.Expr(fnSteVecTerm+"("+b.col.ident()+", ?)", term), nil
}

// PathExtractWithSelector is the escape hatch for callers that already hold
// an encrypted selector.
func (b *JSONBuilder) PathExtractWithSelector(selector string) sq.Sqlizer {
	return sq.Expr(fnSteVecTerms+"("+b.col.ident()+", ?)", selector)
}

func (b *JSONBuilder) selectorReq() backend.TermRequest {
	return backend.TermRequest{
		Path:         b.path.String(),
		Table:        b.col.table.name,
		Column:       b.col.name,
		QueryType:    backend.QuerySteVec,
		SelectorOnly: true,
	}
}

func (b *JSONBuilder) searchTerm(ctx context.Context, client backend.Client) (*backend.Term, error) {
	if client == nil {
		return nil, New(ErrBackend, "no encryption backend configured")
	}
	terms, err := client.CreateSearchTerms(ctx, []backend.SearchTermRequest{{
		Path:   b.path.String(),
		Table:  b.col.table.name,
		Column: b.col.name,
	}})
	if err != nil {
		return nil, Wrap(ErrBackend, "create search terms", err)
	}
	if len(terms) != 1 {
		return nil, New(ErrBackend, "search term response length does not match request")
	}
	return &terms[0], nil
}
