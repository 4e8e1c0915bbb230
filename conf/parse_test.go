package conf

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func mustParse(t *testing.T, text string) *Node {
	t.Helper()

	doc, err := Parse([]byte(text), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	return doc.Root
}

func mustJSON(t *testing.T, n *Node) string {
	t.Helper()

	data, err := n.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	return string(data)
}

func TestParseScalars(t *testing.T) {
	root := mustParse(t, `
name: demo
count: 3
ratio: 0.5
enabled: true
missing: null
`)

	if root.Kind != KindMapping {
		t.Fatalf("root kind = %v, want Mapping", root.Kind)
	}

	tests := []struct {
		key  string
		kind Kind
	}{
		{"name", KindString},
		{"count", KindInt},
		{"ratio", KindFloat},
		{"enabled", KindBool},
		{"missing", KindNull},
	}

	for _, tt := range tests {
		n, ok := root.Get(tt.key)
		if !ok {
			t.Fatalf("key %q missing", tt.key)
		}

		if n.Kind != tt.kind {
			t.Errorf("%s kind = %v, want %v", tt.key, n.Kind, tt.kind)
		}
	}

	if n, _ := root.Get("count"); n.Int != 3 {
		t.Errorf("count = %d, want 3", n.Int)
	}
}

func TestParseIntegerRange(t *testing.T) {
	root := mustParse(t, `
max: 9223372036854775807
huge: 18446744073709551615
`)

	n, _ := root.Get("max")
	if n == nil || n.Kind != KindInt || n.Int != math.MaxInt64 {
		t.Errorf("max = %v, want MaxInt64 integer", n)
	}

	// An unsigned value past the int64 range degrades to a float instead of
	// wrapping negative.
	n, _ = root.Get("huge")
	if n == nil || n.Kind != KindFloat {
		t.Fatalf("huge = %v, want float", n)
	}

	if n.Float != float64(math.MaxUint64) {
		t.Errorf("huge = %v, want %v", n.Float, float64(math.MaxUint64))
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	root := mustParse(t, `
zebra: 1
apple: 2
mango: 3
banana: 4
`)

	want := []string{"zebra", "apple", "mango", "banana"}

	got := root.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseSingleEntryMapping(t *testing.T) {
	root := mustParse(t, "only: value\n")

	if root.Kind != KindMapping || root.Len() != 1 {
		t.Fatalf("root = %s, want single-entry mapping", mustJSON(t, root))
	}
}

func TestParseNestedStructures(t *testing.T) {
	root := mustParse(t, `
connections:
  primary:
    host: localhost
    port: 5432
packages:
  - dplyr
  - ggplot2
`)

	port, ok := root.Get("connections")
	if !ok {
		t.Fatal("connections missing")
	}

	primary, _ := port.Get("primary")
	if primary == nil {
		t.Fatal("connections.primary missing")
	}

	p, _ := primary.Get("port")
	if p == nil || p.Int != 5432 {
		t.Errorf("port = %v, want 5432", p)
	}

	pkgs, _ := root.Get("packages")
	if pkgs == nil || pkgs.Kind != KindSequence || pkgs.Len() != 2 {
		t.Fatalf("packages = %v, want 2-element sequence", pkgs)
	}

	if pkgs.Seq[0].Str != "dplyr" {
		t.Errorf("packages[0] = %q, want dplyr", pkgs.Seq[0].Str)
	}
}

func TestParseCustomTagFlattens(t *testing.T) {
	root := mustParse(t, "path: !expr 'cwd()'\n")

	n, ok := root.Get("path")
	if !ok || n.Kind != KindString {
		t.Fatalf("path = %v, want string scalar", n)
	}

	if n.Str != "!expr cwd()" {
		t.Errorf("path = %q, want %q", n.Str, "!expr cwd()")
	}
}

func TestParseStandardTagBuildsValue(t *testing.T) {
	root := mustParse(t, "count: !!str 42\n")

	n, ok := root.Get("count")
	if !ok || n.Kind != KindString || n.Str != "42" {
		t.Fatalf("count = %v, want string \"42\"", n)
	}
}

func TestParseAnchorsAndAliases(t *testing.T) {
	root := mustParse(t, `
base: &shared
  host: localhost
copy: *shared
`)

	c, _ := root.Get("copy")
	if c == nil {
		t.Fatal("copy missing")
	}

	h, _ := c.Get("host")
	if h == nil || h.Str != "localhost" {
		t.Errorf("copy.host = %v, want localhost", h)
	}

	// Aliases are deep copies, not shared references.
	b, _ := root.Get("base")
	b.Set("host", NewString("changed"))

	h, _ = c.Get("host")
	if h.Str != "localhost" {
		t.Errorf("alias shares storage with anchor: %q", h.Str)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse(nil, "")
	if err != nil {
		t.Fatalf("Parse(empty) failed: %v", err)
	}

	if doc.Root.Kind != KindNull {
		t.Errorf("empty doc root = %v, want Null", doc.Root.Kind)
	}

	if doc.Source != "inline" {
		t.Errorf("source = %q, want inline", doc.Source)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("key: [unclosed\n"), "broken.yml")
	if err == nil {
		t.Fatal("expected parse error")
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("error does not match ErrParse: %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is not *ParseError: %T", err)
	}

	if pe.Source != "broken.yml" {
		t.Errorf("source = %q, want broken.yml", pe.Source)
	}

	if !strings.Contains(pe.Error(), "broken.yml") {
		t.Errorf("message %q does not name the source", pe.Error())
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/config.yml")
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error does not match ErrFileNotFound: %v", err)
	}
}

func TestNodeJSONOrder(t *testing.T) {
	root := mustParse(t, `
b: 1
a:
  z: true
  m: [1, 2]
`)

	want := `{"b":1,"a":{"z":true,"m":[1,2]}}`
	if got := mustJSON(t, root); got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}
