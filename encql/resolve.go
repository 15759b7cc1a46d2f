package encql

import (
	"fmt"
	"math"
)

// IndexKind identifies which searchable-encryption index backs an operation.
type IndexKind int

const (
	IndexNone IndexKind = iota // not configured: plain, unencrypted comparison
	IndexEquality
	IndexOre
	IndexMatch
	IndexSteVec
)

func (k IndexKind) String() string {
	switch k {
	case IndexNone:
		return "none"
	case IndexEquality:
		return "equality"
	case IndexOre:
		return "order_and_range"
	case IndexMatch:
		return "free_text_search"
	case IndexSteVec:
		return "searchable_json"
	default:
		return "?"
	}
}

type opKind int

const (
	opEq opKind = iota
	opNe
	opInArray
	opNotInArray

	opGt
	opGte
	opLt
	opLte
	opBetween
	opNotBetween
	opAsc
	opDesc

	opLike
	opILike
	opNotLike
	opNotILike

	opContains
	opContainedBy

	opJSONEq
	opJSONNe
	opArrayLength
	opPathExists
	opPathQuery
	opPathQueryFirst
)

func (op opKind) String() string {
	switch op {
	case opEq:
		return "eq"
	case opNe:
		return "ne"
	case opInArray:
		return "inArray"
	case opNotInArray:
		return "notInArray"
	case opGt:
		return "gt"
	case opGte:
		return "gte"
	case opLt:
		return "lt"
	case opLte:
		return "lte"
	case opBetween:
		return "between"
	case opNotBetween:
		return "notBetween"
	case opAsc:
		return "asc"
	case opDesc:
		return "desc"
	case opLike:
		return "like"
	case opILike:
		return "ilike"
	case opNotLike:
		return "notLike"
	case opNotILike:
		return "notIlike"
	case opContains:
		return "contains"
	case opContainedBy:
		return "containedBy"
	case opJSONEq:
		return "jsonEq"
	case opJSONNe:
		return "jsonNe"
	case opArrayLength:
		return "jsonbArrayLength"
	case opPathExists:
		return "jsonbPathExists"
	case opPathQuery:
		return "jsonbPathQuery"
	case opPathQueryFirst:
		return "jsonbPathQueryFirst"
	default:
		return "?"
	}
}

func (op opKind) isEqualityFamily() bool {
	return op == opEq || op == opNe || op == opInArray || op == opNotInArray
}

func (op opKind) isRangeFamily() bool {
	switch op {
	case opGt, opGte, opLt, opLte, opBetween, opNotBetween, opAsc, opDesc:
		return true
	}
	return false
}

func (op opKind) isTextFamily() bool {
	return op == opLike || op == opILike || op == opNotLike || op == opNotILike
}

func (op opKind) isJSONFamily() bool {
	switch op {
	case opContains, opContainedBy, opJSONEq, opJSONNe, opArrayLength,
		opPathExists, opPathQuery, opPathQueryFirst:
		return true
	}
	return false
}

// resolveIndex decides which index type backs an operator on a column.
// IndexNone with a nil error means "not configured": the caller must emit a
// plain, non-encrypted comparison instead of failing. A non-nil error is a
// configuration error for operators that structurally cannot fall back.
//
// Resolution order is first-match-wins. A column with both equality and
// order_and_range prefers the equality index for equality-family operators;
// equality terms are smaller and carry exact-match semantics.
func resolveIndex(col *Column, op opKind, operands ...any) (IndexKind, error) {
	// Non-finite operands are rejected before any index is considered;
	// no index encoding can represent them.
	for _, v := range operands {
		if f, ok := asFloat(v); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return IndexNone, operandError(col, op.String(), fmt.Sprintf("non-finite operand %v", f))
		}
	}

	cfg := col.cfg

	switch {
	case op.isEqualityFamily():
		if cfg.Equality == nil {
			return IndexNone, nil
		}
		return IndexEquality, nil

	case op.isRangeFamily():
		if cfg.OrderAndRange == nil {
			return IndexNone, nil
		}
		return IndexOre, nil

	case op.isTextFamily():
		if cfg.FreeText == nil {
			return IndexNone, nil
		}
		// Match-index ciphertexts are derived from text tokens; they are
		// not comparable to numeric encodings.
		for _, v := range operands {
			if _, ok := v.(string); !ok {
				return IndexNone, configError(col, op.String(),
					fmt.Sprintf("free_text_search requires a string operand, got %T", v))
			}
		}
		return IndexMatch, nil

	case op.isJSONFamily():
		if cfg.SearchableJSON == nil {
			return IndexNone, configError(col, op.String(), "searchable_json index required")
		}
		if cfg.castAs() != CastJSON {
			return IndexNone, configError(col, op.String(),
				fmt.Sprintf("searchable_json requires cast_as json, got %q", cfg.castAs()))
		}
		return IndexSteVec, nil

	default:
		return IndexNone, configError(col, op.String(), "unknown operator")
	}
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	return 0, false
}
