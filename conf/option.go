package conf

import (
	"context"
	"os"
	"strings"

	"github.com/strataconf/strata/log"
)

// EnvironmentVariable is the designated process environment variable that
// selects the active environment when no explicit name is given.
const EnvironmentVariable = "STRATA_ENV"

// HostEvaluator evaluates host-expression directives ("!expr ..." values).
//
// The resolver itself carries no code-execution capability; the embedding
// application injects one with [WithHostEvaluator]. See the exprhost
// subpackage for the expr-lang implementation used by the CLI.
type HostEvaluator interface {
	Evaluate(ctx context.Context, source string) (any, error)
}

// settings holds the per-call resolver configuration.
type settings struct {
	environment string
	processEnv  map[string]string // nil means the live process environment
	host        HostEvaluator
	warn        func(Warning)
	logger      log.Logger
	haveLogger  bool
}

// Option applies a configuration option to settings.
type Option func(settings) settings

// makeSettings applies options over the default configuration.
func makeSettings(opts ...Option) settings {
	var cfg settings

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithEnvironment selects the active environment explicitly, taking
// priority over the STRATA_ENV process variable.
func WithEnvironment(name string) Option {
	return func(cfg settings) settings {
		cfg.environment = name

		return cfg
	}
}

// WithProcessEnv overrides the process environment visible to env()
// directives and to active-environment selection. Entries use the usual
// "KEY=VALUE" form. Passing no entries restores the live environment.
func WithProcessEnv(entries ...string) Option {
	return func(cfg settings) settings {
		if len(entries) == 0 {
			cfg.processEnv = nil

			return cfg
		}

		env := make(map[string]string, len(entries))

		for _, entry := range entries {
			key, value, ok := strings.Cut(entry, "=")
			if ok {
				env[key] = value
			}
		}

		cfg.processEnv = env

		return cfg
	}
}

// WithHostEvaluator injects the evaluator for host-expression directives.
func WithHostEvaluator(host HostEvaluator) Option {
	return func(cfg settings) settings {
		cfg.host = host

		return cfg
	}
}

// WithWarningHandler installs a callback invoked for each non-fatal
// condition as it is encountered. Warnings are collected on the Config
// regardless of whether a handler is installed.
func WithWarningHandler(fn func(Warning)) Option {
	return func(cfg settings) settings {
		cfg.warn = fn

		return cfg
	}
}

// WithLogger routes resolver logging through the given logger instead of
// the package default.
func WithLogger(logger log.Logger) Option {
	return func(cfg settings) settings {
		cfg.logger = logger
		cfg.haveLogger = true

		return cfg
	}
}

// lookupEnv looks up a process environment variable, honoring a
// WithProcessEnv override.
func (cfg settings) lookupEnv(key string) (string, bool) {
	if cfg.processEnv != nil {
		v, ok := cfg.processEnv[key]

		return v, ok
	}

	return os.LookupEnv(key)
}
