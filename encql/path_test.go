package encql

import (
	"reflect"
	"testing"
)

func TestNormalizePathRoot(t *testing.T) {
	for _, in := range []any{nil, "", "$", []string{}, Path(nil)} {
		p := NormalizePath(in)
		if !p.IsRoot() {
			t.Fatalf("expected root for %#v, got %v", in, p)
		}
	}
}

func TestNormalizePathDollarPrefix(t *testing.T) {
	got := NormalizePath("$.user.name")
	want := Path{Key("user"), Key("name")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizePathBrackets(t *testing.T) {
	got := NormalizePath("items[0].name")
	want := Path{Key("items"), Index(0), Key("name")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizePathWildcards(t *testing.T) {
	got := NormalizePath("array[*]")
	want := Path{Key("array"), Wildcard{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = NormalizePath("matrix[@][@]")
	want = Path{Key("matrix"), Wildcard{}, Wildcard{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("repeated wildcard groups: got %v, want %v", got, want)
	}
}

func TestNormalizePathNegativeIndex(t *testing.T) {
	got := NormalizePath("items[-1]")
	want := Path{Key("items"), Index(-1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizePathStringSliceBypassesParsing(t *testing.T) {
	// Keys given as a slice are taken literally; dots and brackets inside
	// them are not split.
	got := NormalizePath([]string{"a.b", "c[0]"})
	want := Path{Key("a.b"), Key("c[0]")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizePathMalformedBestEffort(t *testing.T) {
	// Unmatched bracket: the remainder stays part of the path as a key.
	got := NormalizePath("a[1")
	want := Path{Key("a"), Key("[1")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unmatched bracket: got %v, want %v", got, want)
	}

	// Non-numeric bracket contents are kept as a key, not dropped.
	got = NormalizePath("a[x]")
	want = Path{Key("a"), Key("[x]")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("non-numeric group: got %v, want %v", got, want)
	}
}

func TestNormalizePathEquivalentInputs(t *testing.T) {
	want := Path{Key("a"), Key("b")}
	for _, in := range []any{"$.a.b", "a.b", []string{"a", "b"}} {
		got := NormalizePath(in)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("NormalizePath(%#v) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizePathExistingPathUnchanged(t *testing.T) {
	in := Path{Key("a"), Index(2)}
	got := NormalizePath(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got %v, want %v", got, in)
	}
}

func TestPathString(t *testing.T) {
	cases := []struct {
		p    Path
		want string
	}{
		{nil, ""},
		{Path{Key("a"), Key("b")}, "a.b"},
		{Path{Key("items"), Index(0), Key("name")}, "items[0].name"},
		{Path{Key("array"), Wildcard{}}, "array[*]"},
		{Path{Key("items"), Index(-1)}, "items[-1]"},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Fatalf("Path%v.String() = %q, want %q", c.p, got, c.want)
		}
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	for _, s := range []string{"a.b", "items[0].name", "array[*]", "m[*][*]"} {
		p := NormalizePath(s)
		if got := p.String(); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}
