package conf

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strataconf/strata/log"
)

// quiet routes resolver logging away from test output.
func quiet() Option {
	return WithLogger(log.Make(io.Discard))
}

func writeFixture(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}

	return path
}

func resolveText(t *testing.T, text string, opts ...Option) *Config {
	t.Helper()

	// A neutral process environment comes first so a live STRATA_ENV cannot
	// leak into tests; callers may still override it.
	base := []Option{WithProcessEnv("TEST=1"), quiet()}

	cfg, err := Resolve(
		context.Background(), []byte(text), append(base, opts...)...,
	)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	return cfg
}

func resolveFixtureFile(t *testing.T, path string, opts ...Option) *Config {
	t.Helper()

	base := []Option{WithProcessEnv("TEST=1"), quiet()}

	cfg, err := ResolveFile(
		context.Background(), path, append(base, opts...)...,
	)
	if err != nil {
		t.Fatalf("ResolveFile failed: %v", err)
	}

	return cfg
}

func TestResolveFlatDocumentPassthrough(t *testing.T) {
	cfg := resolveText(t, `
name: demo
version: 2
`)

	if got := cfg.GetString("name", ""); got != "demo" {
		t.Errorf("name = %q, want demo", got)
	}

	if cfg.Environment() != DefaultSection {
		t.Errorf("environment = %q, want default", cfg.Environment())
	}

	// Canonical sections are appended after the document's own keys.
	want := []string{
		"name", "version", "data", "connections", "directories", "packages",
	}

	got := cfg.Root().Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveDefaultSectionUnwrapped(t *testing.T) {
	cfg := resolveText(t, `
default:
  data: {}
  packages: [dplyr]
`)

	pkgs, ok := cfg.Lookup("packages")
	if !ok || pkgs.Kind != KindSequence || pkgs.Len() != 1 {
		t.Fatalf("packages = %v, want 1-element sequence", pkgs)
	}

	if pkgs.Seq[0].Str != "dplyr" {
		t.Errorf("packages[0] = %q, want dplyr", pkgs.Seq[0].Str)
	}

	// The environment wrapper itself must not survive.
	if _, ok := cfg.Lookup(DefaultSection); ok {
		t.Error("default wrapper leaked into resolved tree")
	}

	for _, name := range CanonicalSections() {
		if _, ok := cfg.Lookup(name); !ok {
			t.Errorf("canonical section %q missing", name)
		}
	}
}

func TestResolveEnvironmentMerge(t *testing.T) {
	text := `
default:
  data:
    batch_size: 100
    retries: 3
  packages: [dplyr, ggplot2]
production:
  data:
    batch_size: 500
  packages: [data.table]
`

	cfg := resolveText(t, text, WithEnvironment("production"))

	if cfg.Environment() != "production" {
		t.Errorf("environment = %q, want production", cfg.Environment())
	}

	if got := cfg.Get("data.batch_size", nil); got != int64(500) {
		t.Errorf("batch_size = %v, want 500", got)
	}

	if got := cfg.Get("data.retries", nil); got != int64(3) {
		t.Errorf("retries = %v, want 3", got)
	}

	// Sequences replace wholesale under environment merge.
	pkgs, _ := cfg.Lookup("packages")
	if pkgs == nil || pkgs.Len() != 1 || pkgs.Seq[0].Str != "data.table" {
		t.Errorf("packages = %v, want [data.table]", pkgs)
	}
}

func TestResolveEnvironmentFromProcessVariable(t *testing.T) {
	text := `
default:
  mode: base
production:
  mode: live
`

	cfg := resolveText(t, text, WithProcessEnv("STRATA_ENV=production"))

	if got := cfg.GetString("mode", ""); got != "live" {
		t.Errorf("mode = %q, want live", got)
	}

	// An explicit option takes priority over the process variable.
	cfg = resolveText(t, text,
		WithProcessEnv("STRATA_ENV=production"),
		WithEnvironment(DefaultSection),
	)

	if got := cfg.GetString("mode", ""); got != "base" {
		t.Errorf("mode = %q, want base", got)
	}
}

func TestResolveEnvironmentFromLiveProcessVariable(t *testing.T) {
	const text = `
default:
  mode: base
production:
  mode: live
`

	// No WithProcessEnv override: selection reads the live STRATA_ENV.
	t.Setenv(EnvironmentVariable, "production")

	cfg, err := Resolve(context.Background(), []byte(text), quiet())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Environment() != "production" {
		t.Errorf("environment = %q, want production", cfg.Environment())
	}

	if got := cfg.GetString("mode", ""); got != "live" {
		t.Errorf("mode = %q, want live", got)
	}

	t.Setenv(EnvironmentVariable, DefaultSection)

	cfg, err = Resolve(context.Background(), []byte(text), quiet())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := cfg.GetString("mode", ""); got != "base" {
		t.Errorf("mode = %q, want base", got)
	}
}

func TestResolveMissingDefaultSectionFatal(t *testing.T) {
	_, err := Resolve(context.Background(), []byte(`
production:
  data: {}
`), quiet())
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrMissingDefaultEnvironment) {
		t.Errorf("error = %v, want ErrMissingDefaultEnvironment", err)
	}
}

func TestResolveUnknownEnvironmentWarns(t *testing.T) {
	var handled []Warning

	cfg := resolveText(t, `
default:
  mode: base
production:
  mode: live
`,
		WithEnvironment("producton"),
		WithWarningHandler(func(w Warning) { handled = append(handled, w) }),
	)

	// Fallback is the default section's content alone.
	if got := cfg.GetString("mode", ""); got != "base" {
		t.Errorf("mode = %q, want base", got)
	}

	if len(cfg.Warnings()) != 1 || len(handled) != 1 {
		t.Fatalf("warnings = %d (handler %d), want 1",
			len(cfg.Warnings()), len(handled))
	}

	w, ok := cfg.Warnings()[0].(UnknownEnvironmentWarning)
	if !ok {
		t.Fatalf("warning type = %T", cfg.Warnings()[0])
	}

	if w.Requested != "producton" {
		t.Errorf("requested = %q", w.Requested)
	}

	if w.Suggestion != "production" {
		t.Errorf("suggestion = %q, want production", w.Suggestion)
	}
}

func TestResolveFileSplitReference(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "database.yml", `
database:
  adapter: postgres
  host: localhost
`)

	root := writeFixture(t, dir, "config.yml", `
default:
  database: database.yml
`)

	cfg := resolveFixtureFile(t, root)

	if got := cfg.GetString("database.adapter", ""); got != "postgres" {
		t.Errorf("database.adapter = %q, want postgres", got)
	}

	if cfg.Source() == "" || !filepath.IsAbs(cfg.Source()) {
		t.Errorf("source = %q, want absolute path", cfg.Source())
	}
}

func TestResolveRootDocumentWinsConflict(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "database.yml", `
default:
  database:
    adapter: postgres
  default_connection: from_split
`)

	root := writeFixture(t, dir, "config.yml", `
default:
  database: database.yml
  default_connection: main_db
`)

	cfg := resolveFixtureFile(t, root)

	if got := cfg.GetString("default_connection", ""); got != "main_db" {
		t.Errorf("default_connection = %q, want main_db", got)
	}

	if got := cfg.GetString("database.adapter", ""); got != "postgres" {
		t.Errorf("database.adapter = %q, want postgres", got)
	}

	if len(cfg.Warnings()) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", cfg.Warnings())
	}

	w, ok := cfg.Warnings()[0].(ConflictWarning)
	if !ok {
		t.Fatalf("warning type = %T", cfg.Warnings()[0])
	}

	if w.Key != "default_connection" {
		t.Errorf("conflict key = %q", w.Key)
	}

	if w.Owner != "main" {
		t.Errorf("conflict owner = %q, want main", w.Owner)
	}

	if !strings.HasSuffix(w.Source, "database.yml") {
		t.Errorf("conflict source = %q", w.Source)
	}
}

func TestResolveFirstSplitWinsConflict(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "one.yml", `
alpha:
  x: 1
shared: first
`)

	writeFixture(t, dir, "two.yml", `
beta:
  y: 2
shared: second
`)

	root := writeFixture(t, dir, "config.yml", `
default:
  alpha: one.yml
  beta: two.yml
`)

	cfg := resolveFixtureFile(t, root)

	if got := cfg.GetString("shared", ""); got != "first" {
		t.Errorf("shared = %q, want first", got)
	}

	if got := cfg.Get("alpha.x", nil); got != int64(1) {
		t.Errorf("alpha.x = %v, want 1", got)
	}

	if got := cfg.Get("beta.y", nil); got != int64(2) {
		t.Errorf("beta.y = %v, want 2", got)
	}

	if len(cfg.Warnings()) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", cfg.Warnings())
	}

	w, ok := cfg.Warnings()[0].(ConflictWarning)
	if !ok {
		t.Fatalf("warning type = %T", cfg.Warnings()[0])
	}

	if !strings.HasSuffix(w.Owner, "one.yml") {
		t.Errorf("owner = %q, want one.yml", w.Owner)
	}

	if !strings.HasSuffix(w.Source, "two.yml") {
		t.Errorf("dropped source = %q, want two.yml", w.Source)
	}
}

func TestResolveCycleDetected(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "a.yml", "link: b.yml\n")
	writeFixture(t, dir, "b.yml", "back: a.yml\n")

	root := writeFixture(t, dir, "config.yml", `
default:
  chain: a.yml
`)

	_, err := ResolveFile(
		context.Background(), root, WithProcessEnv("TEST=1"), quiet(),
	)
	if err == nil {
		t.Fatal("expected cycle error")
	}

	if !errors.Is(err, ErrCircularReference) {
		t.Fatalf("error = %v, want ErrCircularReference", err)
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error is not *CycleError: %T", err)
	}

	msg := ce.Error()
	if !strings.Contains(msg, "a.yml") || !strings.Contains(msg, "b.yml") {
		t.Errorf("chain %q does not name both documents", msg)
	}
}

func TestResolveSameFileReferencedTwice(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "common.yml", "v: 1\n")

	root := writeFixture(t, dir, "config.yml", `
default:
  x: common.yml
  y: common.yml
`)

	cfg := resolveFixtureFile(t, root)

	if got := cfg.Get("x.v", nil); got != int64(1) {
		t.Errorf("x.v = %v, want 1", got)
	}

	if got := cfg.Get("y.v", nil); got != int64(1) {
		t.Errorf("y.v = %v, want 1", got)
	}

	if len(cfg.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", cfg.Warnings())
	}
}

func TestResolveSequenceElementReference(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "item.yml", "v: 1\n")

	root := writeFixture(t, dir, "config.yml", `
default:
  items:
    - item.yml
    - plain
`)

	cfg := resolveFixtureFile(t, root)

	items, ok := cfg.Lookup("items")
	if !ok || items.Len() != 2 {
		t.Fatalf("items = %v, want 2 elements", items)
	}

	v, _ := items.Seq[0].Get("v")
	if v == nil || v.Int != 1 {
		t.Errorf("items[0].v = %v, want 1", v)
	}

	if items.Seq[1].Str != "plain" {
		t.Errorf("items[1] = %q, want plain", items.Seq[1].Str)
	}
}

func TestResolveSplitWithEnvironmentSections(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "svc.yml", `
default:
  service:
    mode: basic
production:
  service:
    mode: turbo
`)

	root := writeFixture(t, dir, "config.yml", `
default:
  service: svc.yml
production:
  extra: true
`)

	cfg := resolveFixtureFile(t, root, WithEnvironment("production"))

	if got := cfg.GetString("service.mode", ""); got != "turbo" {
		t.Errorf("service.mode = %q, want turbo", got)
	}

	if got := cfg.Get("extra", nil); got != true {
		t.Errorf("extra = %v, want true", got)
	}
}

func TestResolveNestedSplitChain(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "b.yml", `
b:
  leaf: 42
`)

	writeFixture(t, dir, "a.yml", `
a:
  b: b.yml
`)

	root := writeFixture(t, dir, "config.yml", `
default:
  a: a.yml
`)

	cfg := resolveFixtureFile(t, root)

	if got := cfg.Get("a.b.leaf", nil); got != int64(42) {
		t.Errorf("a.b.leaf = %v, want 42", got)
	}
}

func TestResolveReferenceToMissingFile(t *testing.T) {
	dir := t.TempDir()

	root := writeFixture(t, dir, "config.yml", `
default:
  gone: missing.yml
`)

	_, err := ResolveFile(
		context.Background(), root, WithProcessEnv("TEST=1"), quiet(),
	)
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"database.yml", true},
		{"nested/path/file.yaml", true},
		{"UPPER.YML", true},
		{"plain string", false},
		{"https://example.com/config.yml", false},
		{"multi\nline.yml", false},
		{"notyaml.txt", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsReference(tt.s); got != tt.want {
			t.Errorf("IsReference(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
