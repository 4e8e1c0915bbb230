package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/strataconf/strata/conf"
	"github.com/strataconf/strata/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the starter configuration file.
const defaultConfigIndent = 2

// Init generates a starter configuration document.
type Init struct {
	Path  string `arg:"" default:"config.yml" help:"Destination file" name:"path" optional:""`
	Force bool   `help:"Overwrite an existing file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Check if file exists and force not set
	_, err = os.Stat(i.Path)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", i.Path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	err = conf.WriteFile(i.Path, starterDocument(), defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", i.Path)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", i.Path),
	)

	return nil
}

// starterDocument builds the skeleton written by init: every canonical
// section present and empty under the default environment, plus a
// production section showing an environment override.
func starterDocument() *conf.Node {
	sections := make([]conf.Pair, 0, len(conf.CanonicalSections()))

	for _, name := range conf.CanonicalSections() {
		sections = append(sections, conf.Pair{
			Key:   name,
			Value: conf.NewMapping(),
		})
	}

	return conf.NewMapping(
		conf.Pair{
			Key:   conf.DefaultSection,
			Value: conf.NewMapping(sections...),
		},
		conf.Pair{
			Key: "production",
			Value: conf.NewMapping(conf.Pair{
				Key:   "data",
				Value: conf.NewMapping(),
			}),
		},
	)
}
