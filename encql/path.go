package encql

import (
	"strconv"
	"strings"
)

// Segment is one step of a normalized JSON path.
type Segment interface {
	isSegment()
}

// Key addresses an object field.
type Key string

func (Key) isSegment() {}

// Wildcard addresses every element of an array ("[*]" or "[@]").
type Wildcard struct{}

func (Wildcard) isSegment() {}

// Index addresses one array element; negative values count from the end.
type Index int

func (Index) isSegment() {}

// Path is a normalized sequence of segments. The empty path is the root and
// denotes the column's own value, not a JSON field.
type Path []Segment

func (p Path) IsRoot() bool { return len(p) == 0 }

// String renders the path back to dot/bracket notation. Root renders as "".
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		switch s := seg.(type) {
		case Key:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(string(s))
		case Wildcard:
			b.WriteString("[*]")
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(int(s)))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// NormalizePath converts a path expression into a canonical segment list.
// Accepted inputs:
//   - a Path (returned unchanged)
//   - a string in dot notation, optionally with a "$." / "$" prefix and
//     bracket groups: "items[0].name", "array[*]", "matrix[@][@]"
//   - a []string of already-split keys (bypasses string parsing)
//   - nil, "", "$" or an empty slice, all meaning the root
//
// Malformed input degrades to best-effort splitting; normalization never
// fails. Unmatched or non-numeric bracket groups are kept as part of the key.
func NormalizePath(path any) Path {
	switch p := path.(type) {
	case nil:
		return nil
	case Path:
		return p
	case []Segment:
		return Path(p)
	case string:
		return parsePathString(p)
	case []string:
		out := make(Path, 0, len(p))
		for _, key := range p {
			if key == "" {
				continue
			}
			out = append(out, Key(key))
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func parsePathString(s string) Path {
	if s == "" || s == "$" {
		return nil
	}
	s = strings.TrimPrefix(s, "$.")

	var out Path
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			continue
		}
		out = append(out, splitBracketGroups(part)...)
	}
	return out
}

// splitBracketGroups splits "key[0][*]" into Key("key"), Index(0), Wildcard{}.
// Repeats per bracket group so "matrix[@][@]" yields two wildcards.
func splitBracketGroups(part string) []Segment {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		return []Segment{Key(part)}
	}

	var segs []Segment
	if open > 0 {
		segs = append(segs, Key(part[:open]))
	}

	rest := part[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			// Trailing garbage after a bracket group; keep it as a key.
			segs = append(segs, Key(rest))
			break
		}
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			// Unmatched bracket: best effort, treat the remainder as a key.
			segs = append(segs, Key(rest))
			break
		}
		inner := rest[1:close]
		switch {
		case inner == "*" || inner == "@":
			segs = append(segs, Wildcard{})
		default:
			if n, err := strconv.Atoi(inner); err == nil {
				segs = append(segs, Index(n))
			} else {
				segs = append(segs, Key(rest[:close+1]))
			}
		}
		rest = rest[close+1:]
	}
	return segs
}
