package conf

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// Warning is a non-fatal condition reported during resolution.
// Resolution continues after a warning under the documented arbitration
// rules; warnings are collected on the Config and delivered to the handler
// installed with [WithWarningHandler].
type Warning interface {
	// Message returns a human-readable description of the condition.
	Message() string

	slog.LogValuer
}

// UnknownEnvironmentWarning reports that the requested active environment
// has no section in the document. Resolution falls back to the default
// section's content alone.
type UnknownEnvironmentWarning struct {
	// Requested is the active environment name that was not found.
	Requested string

	// Suggestion is the closest known section name, or empty when none of
	// the document's sections resembles the request.
	Suggestion string
}

// Message returns a human-readable description of the condition.
func (w UnknownEnvironmentWarning) Message() string {
	msg := "unknown environment " + w.Requested +
		"; using default section only"

	if w.Suggestion != "" {
		msg += " (did you mean " + w.Suggestion + "?)"
	}

	return msg
}

// LogValue implements slog.LogValuer.
func (w UnknownEnvironmentWarning) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("warning", "unknown environment"),
		slog.String("requested", w.Requested),
	}

	if w.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", w.Suggestion))
	}

	return slog.GroupValue(attrs...)
}

// suggestEnvironment returns the known section name closest to the request,
// or empty when nothing matches.
func suggestEnvironment(requested string, known []string) string {
	matches := fuzzy.Find(requested, known)
	if len(matches) == 0 {
		return ""
	}

	return known[matches[0].Index]
}

// ConflictWarning reports that two sources defined the same key path.
// The value from Owner survives; the value from Source is dropped.
type ConflictWarning struct {
	// Key is the fully-qualified dotted key path that collided.
	Key string

	// Owner identifies the source whose value survives: "main" for the
	// root document, otherwise the path of the split document that claimed
	// the key first.
	Owner string

	// Source is the path of the split document whose value was dropped.
	Source string
}

// Message returns a human-readable description of the condition.
func (w ConflictWarning) Message() string {
	return "key " + w.Key + " from " + w.Source +
		" conflicts with " + w.Owner + "; keeping " + w.Owner
}

// LogValue implements slog.LogValuer.
func (w ConflictWarning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("warning", "key conflict"),
		slog.String("key", w.Key),
		slog.String("owner", w.Owner),
		slog.String("dropped", w.Source),
	)
}
