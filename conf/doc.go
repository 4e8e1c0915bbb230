// Package conf is the hierarchical configuration resolution engine.
//
// It loads a YAML document, merges the active environment section onto the
// default baseline, recursively dereferences split-file references into
// externally stored sub-documents, detects circular and conflicting
// references, and evaluates embedded directives into final literal values.
//
// # Pipeline
//
// A call to [Resolve] or [ResolveFile] runs a fixed sequence of stages:
//
//	Parse → DetectEnvironment → MergeEnvironment →
//	ResolveSplitReferences → InitializeSections → EvaluateExpressions
//
// Control flows strictly downward once per call; only split-reference
// resolution recurses into itself, bounded by the cycle check. Any stage
// failure aborts the whole pipeline with no partial result.
//
// # Documents and environments
//
// A document whose top level contains a "default" key, or any of the
// conventional environment names (production, development, test, staging),
// is environment-sectioned: the default section is the base and the active
// section is deep-merged onto it. The active environment is chosen by
// explicit option, then the STRATA_ENV process variable, then "default".
// Other documents are flat and used as-is.
//
// # Split references
//
// Any string scalar ending in ".yml" or ".yaml" (and not a URL) points at
// another document, resolved relative to the root document's directory.
// Referenced documents may themselves declare environment sections and
// further references. Repeating a path on the active recursion stack is a
// fatal cycle; defining the same key path from two sources keeps the root
// document's value over any split's, and the first-resolved split's value
// over any later split's, dropping the loser with a warning.
//
// # Directives
//
// Two directive shapes are recognized at leaf string scalars after
// resolution: env(NAME, default) reads a process environment variable, and
// "!expr code" hands the code to the [HostEvaluator] injected by the
// embedding application. The resolver itself executes no code; see the
// exprhost subpackage for the expr-lang evaluator the CLI injects.
//
// # Example
//
//	cfg, err := conf.ResolveFile(ctx, "config.yml",
//		conf.WithEnvironment("production"),
//		conf.WithHostEvaluator(exprhost.New()),
//	)
//	if err != nil {
//		return err
//	}
//	dsn := cfg.Get("connections.primary.dsn", "")
//
// Resolution is fully synchronous and keeps no state between calls:
// repeated calls re-read and re-resolve everything from scratch.
package conf
