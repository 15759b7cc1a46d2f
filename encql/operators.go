package encql

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/encql/encql/encql/backend"
)

// Operators are pure builders: they resolve the backing index, then either
// return a plain condition immediately (index not configured, no encryption)
// or a pending node whose finalizer shapes the comparison once the batched
// term derivation has run.

// Eq matches the column exactly. Falls back to a plain "=" when no equality
// index is configured.
func Eq(col *Column, v any) Condition { return compare(col, opEq, v) }

// Ne is the negation of Eq.
func Ne(col *Column, v any) Condition { return compare(col, opNe, v) }

func Gt(col *Column, v any) Condition  { return compare(col, opGt, v) }
func Gte(col *Column, v any) Condition { return compare(col, opGte, v) }
func Lt(col *Column, v any) Condition  { return compare(col, opLt, v) }
func Lte(col *Column, v any) Condition { return compare(col, opLte, v) }

func compare(col *Column, op opKind, v any) Condition {
	if c := checkCol(col, op); c != nil {
		return c
	}
	kind, err := resolveIndex(col, op, v)
	if err != nil {
		return errCond(err)
	}
	ident := col.ident()
	if kind == IndexNone {
		return Plain{Cond: plainCompare(ident, op, v)}
	}

	node := &operatorNode{
		col:  col,
		op:   op,
		enc:  EncryptValue,
		reqs: []backend.TermRequest{termReq(col, kind, v)},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			if terms[0] == nil {
				return nullCompare(ident, op), nil
			}
			return plainCompare(ident, op, *terms[0]), nil
		},
	}
	return Pending{node: node}
}

func plainCompare(ident string, op opKind, v any) sq.Sqlizer {
	switch op {
	case opEq:
		return sq.Eq{ident: v}
	case opNe:
		return sq.NotEq{ident: v}
	case opGt:
		return sq.Gt{ident: v}
	case opGte:
		return sq.GtOrEq{ident: v}
	case opLt:
		return sq.Lt{ident: v}
	case opLte:
		return sq.LtOrEq{ident: v}
	default:
		return sq.Expr("FALSE")
	}
}

// nullCompare shapes a comparison whose operand was NULL. Equality maps to
// IS NULL / IS NOT NULL; ordering against NULL matches nothing.
func nullCompare(ident string, op opKind) sq.Sqlizer {
	switch op {
	case opEq:
		return sq.Eq{ident: nil}
	case opNe:
		return sq.NotEq{ident: nil}
	default:
		return sq.Expr("FALSE")
	}
}

// Between matches lo <= col <= hi. Both bounds are encrypted in the same
// node, so a solitary Between still costs a single round-trip.
func Between(col *Column, lo, hi any) Condition {
	if c := checkCol(col, opBetween); c != nil {
		return c
	}
	kind, err := resolveIndex(col, opBetween, lo, hi)
	if err != nil {
		return errCond(err)
	}
	ident := col.ident()
	if kind == IndexNone {
		return Plain{Cond: sq.And{sq.GtOrEq{ident: lo}, sq.LtOrEq{ident: hi}}}
	}

	node := &operatorNode{
		col: col,
		op:  opBetween,
		enc: EncryptValue,
		reqs: []backend.TermRequest{
			termReq(col, kind, lo),
			termReq(col, kind, hi),
		},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			if terms[0] == nil || terms[1] == nil {
				return sq.Expr("FALSE"), nil
			}
			return sq.And{
				sq.GtOrEq{ident: *terms[0]},
				sq.LtOrEq{ident: *terms[1]},
			}, nil
		},
	}
	return Pending{node: node}
}

// NotBetween wraps Between with NOT; the two bound terms are not re-derived.
func NotBetween(col *Column, lo, hi any) Condition {
	return Not(Between(col, lo, hi))
}

// InArray matches any of the given values. All elements are encrypted as
// sub-requests of one node, so a solitary InArray is still one round-trip.
func InArray(col *Column, vals []any) Condition {
	if c := checkCol(col, opInArray); c != nil {
		return c
	}
	kind, err := resolveIndex(col, opInArray, vals...)
	if err != nil {
		return errCond(err)
	}
	ident := col.ident()
	if kind == IndexNone {
		return Plain{Cond: sq.Eq{ident: vals}}
	}

	reqs := make([]backend.TermRequest, len(vals))
	for i, v := range vals {
		reqs[i] = termReq(col, kind, v)
	}
	node := &operatorNode{
		col:  col,
		op:   opInArray,
		enc:  EncryptValue,
		reqs: reqs,
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			or := make(sq.Or, 0, len(terms))
			for _, t := range terms {
				if t == nil {
					or = append(or, sq.Eq{ident: nil})
					continue
				}
				or = append(or, sq.Eq{ident: *t})
			}
			if len(or) == 0 {
				return sq.Expr("FALSE"), nil
			}
			return or, nil
		},
	}
	return Pending{node: node}
}

// NotInArray is the negation of InArray: NOT (a OR b ...) without
// re-deriving any term.
func NotInArray(col *Column, vals []any) Condition {
	return Not(InArray(col, vals))
}

// Like and friends derive a match term when a free-text index is configured
// and fall back to the plain SQL operator otherwise. A non-string operand
// against a configured match index is a configuration error.
func Like(col *Column, pattern any) Condition  { return textMatch(col, opLike, pattern) }
func ILike(col *Column, pattern any) Condition { return textMatch(col, opILike, pattern) }

func NotLike(col *Column, pattern any) Condition {
	return Not(textMatch(col, opNotLike, pattern))
}

func NotILike(col *Column, pattern any) Condition {
	return Not(textMatch(col, opNotILike, pattern))
}

func textMatch(col *Column, op opKind, pattern any) Condition {
	if c := checkCol(col, op); c != nil {
		return c
	}
	kind, err := resolveIndex(col, op, pattern)
	if err != nil {
		return errCond(err)
	}
	ident := col.ident()
	if kind == IndexNone {
		// Negated variants are wrapped with NOT by the caller, so the
		// positive operator shape is emitted here in all four cases.
		if op == opILike || op == opNotILike {
			return Plain{Cond: sq.ILike{ident: pattern}}
		}
		return Plain{Cond: sq.Like{ident: pattern}}
	}

	node := &operatorNode{
		col:  col,
		op:   op,
		enc:  EncryptValue,
		reqs: []backend.TermRequest{termReq(col, kind, pattern)},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			if terms[0] == nil {
				return sq.Expr("FALSE"), nil
			}
			return sq.Expr(fnMatch+"("+ident+", ?)", *terms[0]), nil
		},
	}
	return Pending{node: node}
}

// Contains tests structured-vector containment: col @> value.
func Contains(col *Column, v any) Condition {
	return containment(col, opContains, v)
}

// ContainedBy is Contains with the argument order flipped: value @> col.
func ContainedBy(col *Column, v any) Condition {
	return containment(col, opContainedBy, v)
}

func containment(col *Column, op opKind, v any) Condition {
	if c := checkCol(col, op); c != nil {
		return c
	}
	kind, err := resolveIndex(col, op, v)
	if err != nil {
		return errCond(err)
	}
	ident := col.ident()
	_ = kind // always IndexSteVec here; resolver errors otherwise

	node := &operatorNode{
		col:  col,
		op:   op,
		enc:  EncryptValue,
		reqs: []backend.TermRequest{termReq(col, IndexSteVec, v)},
		finalize: func(terms []*backend.Term) (sq.Sqlizer, error) {
			if terms[0] == nil {
				return sq.Expr("FALSE"), nil
			}
			if op == opContainedBy {
				return sq.Expr(fnSteVecContains+"(?, "+ident+")", *terms[0]), nil
			}
			return sq.Expr(fnSteVecContains+"("+ident+", ?)", *terms[0]), nil
		},
	}
	return Pending{node: node}
}

// Asc and Desc emit order-by fragments. An order_and_range index wraps the
// column so the database sorts by the order-revealing term; otherwise the
// bare column is used. No term derivation is needed either way.
func Asc(col *Column) Condition  { return orderBy(col, opAsc) }
func Desc(col *Column) Condition { return orderBy(col, opDesc) }

func orderBy(col *Column, op opKind) Condition {
	if c := checkCol(col, op); c != nil {
		return c
	}
	kind, err := resolveIndex(col, op)
	if err != nil {
		return errCond(err)
	}
	dir := "ASC"
	if op == opDesc {
		dir = "DESC"
	}
	if kind == IndexOre {
		return Plain{Cond: sq.Expr(fnOrderBy + "(" + col.ident() + ") " + dir)}
	}
	return Plain{Cond: sq.Expr(col.ident() + " " + dir)}
}

// IsNull and IsNotNull are pass-throughs; NULL-ness of the ciphertext column
// equals NULL-ness of the plaintext, no index required.
func IsNull(col *Column) Condition {
	if c := checkCol(col, opEq); c != nil {
		return c
	}
	return Plain{Cond: sq.Eq{col.ident(): nil}}
}

func IsNotNull(col *Column) Condition {
	if c := checkCol(col, opNe); c != nil {
		return c
	}
	return Plain{Cond: sq.NotEq{col.ident(): nil}}
}

// Exists embeds a raw subquery as an EXISTS predicate.
func Exists(sub sq.Sqlizer) Condition {
	return Plain{Cond: sq.Expr("EXISTS (?)", sub)}
}

// Raw embeds an arbitrary SQL fragment.
func Raw(sql string, args ...any) Condition {
	return Plain{Cond: sq.Expr(sql, args...)}
}

func checkCol(col *Column, op opKind) Condition {
	if col == nil {
		return errCond(New(ErrConfig, fmt.Sprintf("nil column for operator %s", op)))
	}
	if err := col.validate(); err != nil {
		return errCond(err)
	}
	return nil
}

func termReq(col *Column, kind IndexKind, v any) backend.TermRequest {
	return backend.TermRequest{
		Value:     v,
		Table:     col.table.name,
		Column:    col.name,
		QueryType: queryTypeFor(kind),
	}
}

func queryTypeFor(kind IndexKind) backend.QueryType {
	switch kind {
	case IndexEquality:
		return backend.QueryEquality
	case IndexOre:
		return backend.QueryOre
	case IndexMatch:
		return backend.QueryMatch
	case IndexSteVec:
		return backend.QuerySteVec
	default:
		return ""
	}
}
