package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermValidateEquality(t *testing.T) {
	assert.NoError(t, Term{HM: "abc"}.Validate(QueryEquality))
	assert.Error(t, Term{}.Validate(QueryEquality))
	assert.Error(t, Term{OB: []string{"x"}}.Validate(QueryEquality))
}

func TestTermValidateOre(t *testing.T) {
	assert.NoError(t, Term{OB: []string{"a", "b"}}.Validate(QueryOre))
	assert.Error(t, Term{}.Validate(QueryOre))
	assert.Error(t, Term{HM: "abc"}.Validate(QueryOre))
}

func TestTermValidateMatch(t *testing.T) {
	assert.NoError(t, Term{BF: []int{1, 2, 3}}.Validate(QueryMatch))
	assert.Error(t, Term{}.Validate(QueryMatch))
}

func TestTermValidateSteVec(t *testing.T) {
	// Selector only.
	assert.NoError(t, Term{S: "sel"}.Validate(QuerySteVec))
	// Selector with entries.
	assert.NoError(t, Term{S: "sel", SV: []SteVecEntry{{Selector: "s", Term: "t"}}}.Validate(QuerySteVec))
	// Containment vector without a top-level selector.
	assert.NoError(t, Term{SV: []SteVecEntry{{Selector: "s", Term: "t"}}}.Validate(QuerySteVec))
	assert.Error(t, Term{}.Validate(QuerySteVec))
}

func TestTermValidateUnknownQueryType(t *testing.T) {
	assert.Error(t, Term{HM: "abc"}.Validate(QueryType("bogus")))
}

func TestTermIsZero(t *testing.T) {
	assert.True(t, Term{}.IsZero())
	assert.False(t, Term{HM: "x"}.IsZero())
	assert.False(t, Term{SV: []SteVecEntry{{}}}.IsZero())
}

func TestTermValueOmitsEmptyShapes(t *testing.T) {
	v, err := Term{HM: "abc"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"hm":"abc"}`, v.(string))

	v, err = Term{S: "sel", SV: []SteVecEntry{{Selector: "s1", Term: "t1", Record: "r1"}}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"sel","sv":[{"s":"s1","t":"t1","r":"r1"}]}`, v.(string))
}

func TestTermJSONRoundTrip(t *testing.T) {
	in := Term{OB: []string{"aa", "bb"}}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Term
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
