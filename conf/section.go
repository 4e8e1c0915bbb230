package conf

// canonicalSections are the top-level section names every resolved
// configuration is guaranteed to contain.
//
//nolint:gochecknoglobals
var canonicalSections = []string{
	"data",
	"connections",
	"directories",
	"packages",
}

// CanonicalSections returns the fixed list of top-level section names the
// initializer guarantees, in order.
func CanonicalSections() []string {
	out := make([]string, len(canonicalSections))
	copy(out, canonicalSections)

	return out
}

// initializeSections inserts an empty mapping for each canonical section
// still entirely absent from the tree.
//
// This runs strictly after split-reference resolution: inserting
// placeholders earlier would make an empty section appear to already own
// its key, producing false conflict warnings against legitimate split-file
// content.
func initializeSections(root *Node) {
	if root == nil || root.Kind != KindMapping {
		return
	}

	for _, name := range canonicalSections {
		if !root.Has(name) {
			root.Set(name, NewMapping())
		}
	}
}
