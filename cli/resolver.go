package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/strataconf/strata/conf"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults
// from a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(baseConfig), "/path/to/config")
//
// Flag values are read from the mapping stored under the given top-level
// name; if that name is absent, the document's top-level mapping is used
// directly. Flag names with hyphens (e.g., "log-level") may use
// underscores in the config file (e.g., "log_level").
//
// Example config file:
//
//	config:
//	  log_level: debug
//	  log_format: json
//	  log_pretty: true
//
// Command-line flags override config file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			// Unreadable config - return empty config
			return config{}, nil
		}

		doc, err := conf.Parse(data, name)
		if err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		root := doc.Root
		if root == nil || root.Kind != conf.KindMapping {
			return config{}, nil
		}

		if section, ok := root.Get(name); ok &&
			section.Kind == conf.KindMapping {
			root = section
		}

		return config(mappingToFlags(root)), nil
	}
}

// config implements [kong.Resolver] for YAML flag-default documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML identifiers
	// may use underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	underscoreName := strings.ReplaceAll(flag.Name, "-", "_")
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// mappingToFlags converts a mapping node to the native map kong expects.
func mappingToFlags(n *conf.Node) map[string]any {
	result := make(map[string]any, n.Len())

	for _, p := range n.Pairs {
		result[p.Key] = flagValue(p.Value)
	}

	return result
}

// flagValue converts one node into a kong-compatible value.
// Kong requires numbers as strings for parsing.
func flagValue(n *conf.Node) any {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case conf.KindInt:
		return strconv.FormatInt(n.Int, 10)

	case conf.KindFloat:
		return strconv.FormatFloat(n.Float, 'f', -1, 64)

	case conf.KindSequence:
		values := make([]any, 0, len(n.Seq))
		for _, e := range n.Seq {
			values = append(values, flagValue(e))
		}

		return values

	case conf.KindMapping:
		return mappingToFlags(n)

	default:
		return n.Value()
	}
}
