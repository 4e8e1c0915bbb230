package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/strataconf/strata/conf"
)

// Get resolves a document and prints the value at one dotted key path.
type Get struct {
	Path    string `arg:"" help:"Dotted key path into the resolved document" name:"path"`
	Source  string `default:"-" help:"Source document or '-' for stdin" short:"f"`
	Default string `help:"Fallback printed when the path is unset" optional:""`
	Indent  int    `default:"2" help:"Output indentation width for non-scalar values"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := resolveSource(ctx, g.Source)
	if err != nil {
		return err
	}

	node, ok := cfg.Lookup(g.Path)
	if !ok {
		if g.Default != "" {
			fmt.Println(g.Default)

			return nil
		}

		return ErrValueNotFound.
			With(slog.String("path", g.Path)).
			With(slog.String("source", cfg.Source()))
	}

	if node.Kind.IsScalar() {
		fmt.Println(scalarText(node))

		return nil
	}

	err = conf.EncodeYAML(os.Stdout, node, g.Indent)
	if err != nil {
		return ErrEncodeOutput.
			With(slog.String("path", g.Path)).
			Wrap(err)
	}

	return nil
}

// scalarText renders a scalar node the way a shell consumer expects,
// without YAML quoting.
func scalarText(n *conf.Node) string {
	if n.Kind == conf.KindString {
		return n.Str
	}

	return fmt.Sprint(n.Value())
}
