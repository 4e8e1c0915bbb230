package cmd

import (
	"context"

	"github.com/strataconf/strata/cli/cmd/repl"
	"github.com/strataconf/strata/log"
)

// Repl resolves a document and opens an interactive inspector over it.
type Repl struct {
	Source string `arg:"" help:"Source document" name:"source" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := resolveSource(ctx, r.Source)
	if err != nil {
		return err
	}

	ktx := kongContextFrom(ctx)

	var cacheDir string
	if ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cfg, cacheDir, log.Default())
}
