// Package profile provides optional runtime profiling for the strata
// command.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// Without the tag every operation is a no-op with zero overhead, so
// callers never need their own conditional compilation.
//
// # Profiling Modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Usage
//
// A profiler is described by a [Config] and started with [Config.Start]:
//
//	var cfg profile.Config = func() (string, string, bool) {
//		return "cpu", "/tmp/profiles", false
//	}
//	defer cfg.Start().Stop()
//
// Profile files are written to the given directory with names matching
// the mode (cpu.pprof, mem.pprof, and so on), and can be inspected with
// go tool pprof:
//
//	go tool pprof ./strata /tmp/profiles/cpu.pprof
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The strata command exposes these parameters through its pprof-mode,
// pprof-dir, and pprof-quiet flags; the default output directory is the
// pprof subdirectory of the user cache directory for strata.
//
// When built with the pprof tag the package also imports [net/http/pprof],
// registering the /debug/pprof/ handlers for any HTTP server the embedding
// application chooses to run.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
