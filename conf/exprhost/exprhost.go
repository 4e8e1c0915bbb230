// Package exprhost implements the host-expression capability the resolver
// deliberately lacks: an expr-lang evaluator for "!expr ..." directives.
//
// The core conf package treats host expressions as an opaque capability
// injected by the embedding application. This package is the
// implementation the CLI injects; embedders are free to supply their own.
package exprhost

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/strataconf/strata/conf"
)

// Evaluator evaluates expression source with expr-lang against a built-in
// environment of host facts and helpers (see env.go), plus the process
// environment under the "env" name.
//
// Programs are compiled per call; results are never cached, so directives
// observe live process state on every resolution.
type Evaluator struct {
	processEnv []string // nil means os.Environ()
}

// Option applies a configuration option to an Evaluator.
type Option func(Evaluator) Evaluator

// WithProcessEnv overrides the process environment visible to expressions
// through the "env" map. Entries use the usual "KEY=VALUE" form.
func WithProcessEnv(entries ...string) Option {
	return func(e Evaluator) Evaluator {
		e.processEnv = entries

		return e
	}
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	var e Evaluator

	for _, opt := range opts {
		e = opt(e)
	}

	return &e
}

// Evaluate implements [conf.HostEvaluator]: it compiles and runs one
// expression and returns its native result.
func (e *Evaluator) Evaluate(
	_ context.Context,
	source string,
) (any, error) {
	if source == "" {
		return nil, conf.NewError("empty expression")
	}

	env := makeEnv()
	env["env"] = buildProcessEnvMap(e.processEnv)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, conf.WrapError(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, conf.WrapError(err).
			With(slog.String("source", source))
	}

	return result, nil
}
