package conf

import "strings"

// directoriesSection is the sub-section consulted as a fallback for bare
// single-key lookups. This compatibility shim belongs to the consumer-
// facing facade, not to the resolver itself.
const directoriesSection = "directories"

// Lookup walks a dotted key path through the resolved tree and returns the
// node found there.
func (c *Config) Lookup(path string) (*Node, bool) {
	return lookupPath(c.root, path)
}

// Get returns the native value at a dotted key path, or def when the path
// is absent.
//
// A single non-dotted key that misses at the top level additionally falls
// back to checking inside the "directories" sub-section before giving up.
func (c *Config) Get(path string, def any) any {
	if n, ok := c.Lookup(path); ok {
		return n.Value()
	}

	if !strings.Contains(path, ".") {
		if n, ok := c.Lookup(directoriesSection + "." + path); ok {
			return n.Value()
		}
	}

	return def
}

// GetString returns the string value at a dotted key path, or def when the
// path is absent or not a string scalar.
func (c *Config) GetString(path, def string) string {
	n, ok := c.Lookup(path)
	if !ok || n.Kind != KindString {
		return def
	}

	return n.Str
}

// lookupPath descends mappings key by key along a dotted path.
func lookupPath(n *Node, path string) (*Node, bool) {
	if n == nil || path == "" {
		return nil, false
	}

	current := n

	for part := range strings.SplitSeq(path, ".") {
		next, ok := current.Get(part)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}
