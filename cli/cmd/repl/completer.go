package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/strataconf/strata/conf"
)

// ctrlCommands are the names recognized in command mode.
var ctrlCommands = []string{"help", "list", "env", "warnings", "clear", "quit"}

// keyPaths collects every dotted key path reachable in the resolved tree,
// in document order. Intermediate mapping paths are included so partial
// paths complete too.
func keyPaths(root *conf.Node) []string {
	var paths []string

	var walk func(n *conf.Node, prefix string)

	walk = func(n *conf.Node, prefix string) {
		if n == nil || n.Kind != conf.KindMapping {
			return
		}

		for _, p := range n.Pairs {
			path := p.Key
			if prefix != "" {
				path = prefix + "." + p.Key
			}

			paths = append(paths, path)
			walk(p.Value, path)
		}
	}

	walk(root, "")

	return paths
}

// computeMatches fuzzy-ranks the candidate list against the current input.
func computeMatches(candidates []string, input string) fuzzy.Matches {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	return fuzzy.Find(input, candidates)
}

// renderCandidateBar renders a single-line horizontal bar of completion
// candidates, highlighting the selected one, trimmed to width.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	width int,
) string {
	var b strings.Builder

	for i, match := range matches {
		text := " " + match.Str + " "
		if i == selected {
			text = selectedStyle.Render(text)
		} else {
			text = suggestionStyle.Render(text)
		}

		if lipgloss.Width(b.String())+lipgloss.Width(text) > width {
			break
		}

		b.WriteString(text)
	}

	return b.String()
}
