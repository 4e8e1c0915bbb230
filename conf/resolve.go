package conf

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/strataconf/strata/log"
)

// rootSource identifies the root document in provenance records and
// conflict warnings.
const rootSource = "main"

// Config is the final, fully resolved configuration produced by a single
// Resolve call. It is never modified after being returned.
type Config struct {
	root        *Node
	source      string
	environment string
	warnings    []Warning
}

// Root returns the resolved node tree.
func (c *Config) Root() *Node { return c.root }

// Source returns the originating path of the root document, or "inline".
func (c *Config) Source() string { return c.source }

// Environment returns the active environment name the tree was resolved
// for.
func (c *Config) Environment() string { return c.environment }

// Warnings returns the non-fatal conditions reported during resolution, in
// the order they were encountered.
func (c *Config) Warnings() []Warning { return c.warnings }

// Resolve runs the full pipeline over in-memory document text:
// parse, detect and merge environments, resolve split references,
// initialize canonical sections, and evaluate directives.
//
// References are resolved relative to the current working directory, since
// an inline document has no directory of its own. Any stage failure aborts
// the whole pipeline; no partial Config is ever returned.
func Resolve(
	ctx context.Context,
	data []byte,
	opts ...Option,
) (*Config, error) {
	doc, err := Parse(data, "")
	if err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	return resolveDocument(ctx, doc, dir, nil, opts...)
}

// ResolveFile runs the full pipeline over the document at path.
// References are resolved relative to the root document's directory,
// never relative to a referencing split document's own directory.
func ResolveFile(
	ctx context.Context,
	path string,
	opts ...Option,
) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc, err := ParseFile(abs)
	if err != nil {
		return nil, err
	}

	return resolveDocument(ctx, doc, filepath.Dir(abs), []string{abs}, opts...)
}

// resolveDocument drives the pipeline for an already parsed root document.
func resolveDocument(
	ctx context.Context,
	doc *Document,
	rootDir string,
	stack []string,
	opts ...Option,
) (*Config, error) {
	cfg := makeSettings(opts...)

	r := &resolver{
		cfg:     cfg,
		logger:  cfg.logger,
		rootDir: rootDir,
		stack:   stack,
		onStack: make(map[string]struct{}, len(stack)+4),
	}

	if !cfg.haveLogger {
		r.logger = log.Default()
	}

	for _, p := range stack {
		r.onStack[p] = struct{}{}
	}

	r.environment = r.activeEnvironment()

	root, err := r.run(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &Config{
		root:        root,
		source:      doc.Source,
		environment: r.environment,
		warnings:    r.warnings,
	}, nil
}

// resolver holds the call-scoped state of one Resolve invocation.
// Nothing here survives the call; repeated calls re-read and re-resolve
// everything from scratch.
type resolver struct {
	cfg         settings
	logger      log.Logger
	rootDir     string
	environment string

	// stack and onStack form the VisitedSet: the canonical absolute paths
	// currently on the active recursion stack, in order. A path is pushed
	// before its document is resolved and popped after, so sibling
	// branches may legally reference the same file.
	stack   []string
	onStack map[string]struct{}

	warnings []Warning
}

// run executes the pipeline stages in order over the root document.
func (r *resolver) run(ctx context.Context, doc *Document) (*Node, error) {
	root, err := r.applyEnvironment(doc)
	if err != nil {
		return nil, err
	}

	fr := newFrame()
	fr.claimAll(root, "", rootSource)

	root, err = r.resolveReferences(ctx, root, "", fr)
	if err != nil {
		return nil, err
	}

	initializeSections(root)

	return r.evaluateExpressions(ctx, root, "")
}

// activeEnvironment resolves the active environment name with priority:
// explicit option, then the STRATA_ENV process variable, then "default".
func (r *resolver) activeEnvironment() string {
	if r.cfg.environment != "" {
		return r.cfg.environment
	}

	if name, ok := r.cfg.lookupEnv(EnvironmentVariable); ok && name != "" {
		return name
	}

	return DefaultSection
}

// applyEnvironment merges the document's default section with the active
// environment section, or returns the tree untouched for flat documents.
func (r *resolver) applyEnvironment(doc *Document) (*Node, error) {
	root := doc.Root

	if !UsesEnvironments(root) {
		return root, nil
	}

	base, ok := root.Get(DefaultSection)
	if !ok {
		return nil, ErrMissingDefaultEnvironment.
			With(slog.String("source", doc.Source))
	}

	if r.environment == DefaultSection {
		return base.Clone(), nil
	}

	overlay, ok := root.Get(r.environment)
	if !ok {
		r.warn(UnknownEnvironmentWarning{
			Requested:  r.environment,
			Suggestion: suggestEnvironment(r.environment, sectionNames(root)),
		})

		return base.Clone(), nil
	}

	return MergeNodes(base, overlay), nil
}

// referenceExtensions lists the file extensions that identify a scalar
// string as a pointer to another document.
//
//nolint:gochecknoglobals
var referenceExtensions = []string{".yml", ".yaml"}

// IsReference reports whether a scalar string has the reference shape: it
// ends in a configuration file extension and is not a URL. Recognition is
// purely positional; any string anywhere in the tree matching this shape
// is treated as a reference during resolution.
func IsReference(s string) bool {
	if strings.Contains(s, "://") || strings.ContainsAny(s, "\n") {
		return false
	}

	lower := strings.ToLower(s)

	return slices.ContainsFunc(referenceExtensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// referencePath returns the reference target when the node is a
// reference-shaped string scalar.
func referencePath(n *Node) (string, bool) {
	if n == nil || n.Kind != KindString || !IsReference(n.Str) {
		return "", false
	}

	return n.Str, true
}

// resolveReferences walks the tree depth-first and splices every
// referenced document in place of its reference string.
func (r *resolver) resolveReferences(
	ctx context.Context,
	n *Node,
	path string,
	fr *frame,
) (*Node, error) {
	switch n.Kind {
	case KindMapping:
		return r.resolveMapping(ctx, n, path, fr)

	case KindSequence:
		return r.resolveSequence(ctx, n, path, fr)

	case KindString:
		// Reached only when the document root is itself a reference;
		// mapping values and sequence elements are intercepted above.
		ref, ok := referencePath(n)
		if !ok {
			return n, nil
		}

		content, id, err := r.loadSplit(ctx, ref)
		if err != nil {
			return nil, err
		}

		fr.claimAll(content, path, id)

		return content, nil

	default:
		return n, nil
	}
}

// resolveMapping resolves references among the mapping's values. Spliced
// sibling keys are arbitrated against the provenance frame and appended
// after the mapping's own entries.
func (r *resolver) resolveMapping(
	ctx context.Context,
	n *Node,
	path string,
	fr *frame,
) (*Node, error) {
	var siblings []Pair

	for i := range n.Pairs {
		p := &n.Pairs[i]
		childPath := joinPath(path, p.Key)

		ref, ok := referencePath(p.Value)
		if !ok {
			v, err := r.resolveReferences(ctx, p.Value, childPath, fr)
			if err != nil {
				return nil, err
			}

			p.Value = v

			continue
		}

		content, id, err := r.loadSplit(ctx, ref)
		if err != nil {
			return nil, err
		}

		slot, extra := r.splice(content, p.Key, path, id, fr)
		p.Value = slot

		fr.claimAll(slot, childPath, id)

		siblings = append(siblings, extra...)
	}

	n.Pairs = append(n.Pairs, siblings...)

	return n, nil
}

// resolveSequence resolves references among the sequence's elements.
// An element reference has no key context, so the loaded content replaces
// the element wholesale with no unwrapping and no sibling keys.
func (r *resolver) resolveSequence(
	ctx context.Context,
	n *Node,
	path string,
	fr *frame,
) (*Node, error) {
	for i, e := range n.Seq {
		elemPath := path + "[" + strconv.Itoa(i) + "]"

		ref, ok := referencePath(e)
		if !ok {
			v, err := r.resolveReferences(ctx, e, elemPath, fr)
			if err != nil {
				return nil, err
			}

			n.Seq[i] = v

			continue
		}

		content, id, err := r.loadSplit(ctx, ref)
		if err != nil {
			return nil, err
		}

		fr.claimAll(content, elemPath, id)
		n.Seq[i] = content
	}

	return n, nil
}

// splice decides how a resolved split document lands at a mapping
// reference site.
//
// When the split's top level is a mapping containing an entry whose key
// matches the reference site's key, that entry is unwrapped into the
// reference slot (so the content is not double-nested) and every other
// top-level entry is introduced as a sibling of the reference key, subject
// to provenance arbitration: a key path already claimed by the root
// document, or by an earlier split, keeps its value and the late
// definition is dropped with a conflict warning. Otherwise the split's
// content replaces the reference string as-is.
func (r *resolver) splice(
	content *Node,
	key, parentPath, splitID string,
	fr *frame,
) (*Node, []Pair) {
	if content.Kind != KindMapping {
		return content, nil
	}

	slot, ok := content.Get(key)
	if !ok {
		return content, nil
	}

	var siblings []Pair

	for _, p := range content.Pairs {
		if p.Key == key {
			continue
		}

		full := joinPath(parentPath, p.Key)

		if owner, claimed := fr.ownerOf(full); claimed {
			r.warn(ConflictWarning{
				Key:    full,
				Owner:  owner,
				Source: splitID,
			})

			continue
		}

		fr.claim(full, splitID)
		fr.claimAll(p.Value, full, splitID)

		siblings = append(siblings, p)
	}

	return slot, siblings
}

// loadSplit canonicalizes, cycle-checks, parses, and fully resolves a
// referenced document, returning its resolved tree and canonical path.
//
// Reference paths are always computed relative to the root document's
// directory. The path is pushed onto the visited set for the duration of
// the sub-resolution and popped afterwards (depth-first backtracking).
func (r *resolver) loadSplit(
	ctx context.Context,
	ref string,
) (*Node, string, error) {
	abs := ref
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.rootDir, abs)
	}

	abs = filepath.Clean(abs)

	if _, on := r.onStack[abs]; on {
		return nil, "", &CycleError{
			Chain: append(slices.Clone(r.stack), abs),
		}
	}

	r.stack = append(r.stack, abs)
	r.onStack[abs] = struct{}{}

	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, abs)
	}()

	doc, err := ParseFile(abs)
	if err != nil {
		return nil, "", err
	}

	tree, err := r.applyEnvironment(doc)
	if err != nil {
		return nil, "", err
	}

	// Split documents arbitrate their own internal splices in a fresh
	// frame keyed from their own root, then the spliced result is
	// arbitrated against the caller's frame at the reference site.
	sub := newFrame()
	sub.claimAll(tree, "", abs)

	tree, err = r.resolveReferences(ctx, tree, "", sub)
	if err != nil {
		return nil, "", err
	}

	return tree, abs, nil
}

// warn records a non-fatal condition and reports it through the warning
// handler and the logger.
func (r *resolver) warn(w Warning) {
	r.warnings = append(r.warnings, w)

	if r.cfg.warn != nil {
		r.cfg.warn(w)
	}

	r.logger.Warn(w.Message(), slog.Any("detail", w))
}

// frame is the ProvenanceMap for one document's resolution: it maps
// fully-qualified key paths to the source that legitimately set them,
// and arbitrates which of two colliding definitions survives.
type frame struct {
	owner map[string]string
}

func newFrame() *frame {
	return &frame{owner: make(map[string]string)}
}

// ownerOf returns the source that claimed a key path, if any.
func (f *frame) ownerOf(path string) (string, bool) {
	id, ok := f.owner[path]

	return id, ok
}

// claim registers id as the owner of a key path. First claim wins;
// existing claims are left untouched.
func (f *frame) claim(path, id string) {
	if _, ok := f.owner[path]; !ok {
		f.owner[path] = id
	}
}

// claimAll claims every mapping key path in the subtree rooted at n.
func (f *frame) claimAll(n *Node, path, id string) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindMapping:
		for _, p := range n.Pairs {
			full := joinPath(path, p.Key)
			f.claim(full, id)
			f.claimAll(p.Value, full, id)
		}

	case KindSequence:
		for i, e := range n.Seq {
			f.claimAll(e, path+"["+strconv.Itoa(i)+"]", id)
		}
	}
}

// joinPath appends a key to a dotted path.
func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}

	return parent + "." + key
}
