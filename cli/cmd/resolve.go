package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/strataconf/strata/conf"
	"github.com/strataconf/strata/log"
)

// Resolve runs the full resolution pipeline and prints the final document.
type Resolve struct {
	Source string `arg:"" default:"-" help:"Source document or '-' for stdin" name:"source" optional:""`
	Format string `default:"yaml" enum:"yaml,json" help:"Output format" short:"o"`
	Indent int    `default:"2" help:"Output indentation width"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := resolveSource(ctx, r.Source)
	if err != nil {
		return err
	}

	for _, w := range cfg.Warnings() {
		log.WarnContext(ctx, w.Message(), slog.Any("detail", w))
	}

	switch r.Format {
	case "json":
		err = conf.EncodeJSON(os.Stdout, cfg.Root(), r.Indent)
	default:
		err = conf.EncodeYAML(os.Stdout, cfg.Root(), r.Indent)
	}

	if err != nil {
		return ErrEncodeOutput.
			With(slog.String("format", r.Format)).
			Wrap(err)
	}

	return nil
}
