// Package cli contains the command line interface for strata.
//
// # Usage
//
// Resolution is the default command, so the two forms are equivalent:
//
//	strata config.yml
//	strata resolve config.yml
//
// Other commands:
//
//	strata get connections.primary.dsn -f config.yml
//	strata init
//	strata repl config.yml
//
// The active environment is chosen by --environment, then the STRATA_ENV
// process variable, then the default section.
//
// # Configuration Loader
//
// Flag defaults may be stored in a YAML file under the user configuration
// directory; the package includes a Kong configuration loader that reads
// it. Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// # Examples
//
//	# Resolve the production environment as JSON
//	strata -e production -o json config.yml
//
//	# Debug logging with CPU profiling
//	strata --log-level=debug --pprof-mode=cpu config.yml
package cli
