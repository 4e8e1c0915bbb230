package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/strataconf/strata/conf"
	"github.com/strataconf/strata/conf/exprhost"
	"github.com/strataconf/strata/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// environmentKey stores the requested environment name in context.Context.
type environmentKey struct{}

// WithEnvironment returns a new context.Context carrying the environment
// name requested on the command line. An empty name means unset, which
// defers to the process environment and then the default section.
func WithEnvironment(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, environmentKey{}, name)
}

func environmentFrom(ctx context.Context) string {
	name, _ := ctx.Value(environmentKey{}).(string)

	return name
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// resolveSource runs the full resolution pipeline against the named source,
// which is either a file path or "-" for stdin. Relative split references in
// a stdin document resolve against the working directory.
func resolveSource(
	ctx context.Context,
	source string,
	opts ...conf.Option,
) (*conf.Config, error) {
	opts = append([]conf.Option{
		conf.WithEnvironment(environmentFrom(ctx)),
		conf.WithHostEvaluator(exprhost.New()),
		conf.WithLogger(log.Default()),
	}, opts...)

	if source == stdinSource {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, ErrReadSource.
				With(slog.String("source", source)).
				Wrap(err)
		}

		return conf.Resolve(ctx, data, opts...)
	}

	return conf.ResolveFile(ctx, source, opts...)
}
