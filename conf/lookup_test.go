package conf

import "testing"

func lookupFixture(t *testing.T) *Config {
	t.Helper()

	return resolveText(t, `
connections:
  primary:
    host: db.internal
    port: 5432
directories:
  cache: /var/cache/app
packages: [dplyr]
title: demo
`)
}

func TestLookupDottedPath(t *testing.T) {
	cfg := lookupFixture(t)

	n, ok := cfg.Lookup("connections.primary.host")
	if !ok || n.Str != "db.internal" {
		t.Errorf("host = %v, want db.internal", n)
	}

	if _, ok := cfg.Lookup("connections.primary.missing"); ok {
		t.Error("lookup of absent leaf succeeded")
	}

	if _, ok := cfg.Lookup("connections.missing.host"); ok {
		t.Error("lookup through absent branch succeeded")
	}

	if _, ok := cfg.Lookup(""); ok {
		t.Error("lookup of empty path succeeded")
	}
}

func TestLookupDoesNotTraverseSequences(t *testing.T) {
	cfg := lookupFixture(t)

	if _, ok := cfg.Lookup("packages.0"); ok {
		t.Error("dotted path descended into a sequence")
	}
}

func TestGetReturnsNativeValue(t *testing.T) {
	cfg := lookupFixture(t)

	if got := cfg.Get("connections.primary.port", nil); got != int64(5432) {
		t.Errorf("port = %v (%T), want int64 5432", got, got)
	}

	if got := cfg.Get("absent.path", "fallback"); got != "fallback" {
		t.Errorf("default = %v, want fallback", got)
	}
}

func TestGetDirectoriesFallback(t *testing.T) {
	cfg := lookupFixture(t)

	// A bare key that misses at the top level is retried inside the
	// directories section.
	if got := cfg.Get("cache", nil); got != "/var/cache/app" {
		t.Errorf("cache = %v, want /var/cache/app", got)
	}

	// Top-level hits shadow the fallback.
	if got := cfg.Get("title", nil); got != "demo" {
		t.Errorf("title = %v, want demo", got)
	}

	// Dotted paths never fall back.
	if got := cfg.Get("nested.cache", "def"); got != "def" {
		t.Errorf("dotted miss = %v, want def", got)
	}
}

func TestGetString(t *testing.T) {
	cfg := lookupFixture(t)

	if got := cfg.GetString("connections.primary.host", ""); got != "db.internal" {
		t.Errorf("host = %q", got)
	}

	// Non-string scalars report the default rather than a formatted value.
	if got := cfg.GetString("connections.primary.port", "def"); got != "def" {
		t.Errorf("port as string = %q, want def", got)
	}

	if got := cfg.GetString("absent", "def"); got != "def" {
		t.Errorf("absent = %q, want def", got)
	}
}
