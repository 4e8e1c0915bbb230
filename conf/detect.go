package conf

import "slices"

// DefaultSection is the name of the baseline environment section.
const DefaultSection = "default"

// conventionalEnvironments is the fixed vocabulary of section names that mark
// a document as environment-sectioned even when "default" is absent.
//
//nolint:gochecknoglobals
var conventionalEnvironments = []string{
	"production",
	"development",
	"test",
	"staging",
}

// UsesEnvironments reports whether the document's top level uses named
// environment sections.
//
// The check is a heuristic, not a schema: a top-level mapping containing a
// key named "default", or any key from the conventional environment
// vocabulary, is treated as environment-sectioned. A flat document that uses
// one of those names for unrelated purposes is misclassified on purpose;
// downstream behavior encodes the heuristic, not a stricter rule.
func UsesEnvironments(root *Node) bool {
	if root == nil || root.Kind != KindMapping {
		return false
	}

	for _, p := range root.Pairs {
		if p.Key == DefaultSection {
			return true
		}

		if slices.Contains(conventionalEnvironments, p.Key) {
			return true
		}
	}

	return false
}

// sectionNames returns the top-level keys of an environment-sectioned
// document, in document order. Used for unknown-environment suggestions.
func sectionNames(root *Node) []string {
	if root == nil || root.Kind != KindMapping {
		return nil
	}

	return root.Keys()
}
