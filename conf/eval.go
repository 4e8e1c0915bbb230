package conf

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// envDirective matches the environment-lookup directive shape:
// env(NAME) or env(NAME, default). The default may be quoted.
var envDirective = regexp.MustCompile(
	`^env\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:,\s*(.+?)\s*)?\)$`,
)

// hostDirectivePrefix marks the host-expression directive shape. The
// remainder of the string is handed verbatim to the injected evaluator.
const hostDirectivePrefix = "!expr "

// evaluateExpressions walks the fully resolved tree and replaces
// directive-shaped string scalars with computed literal values. Container
// key names and ordering are reproduced exactly on reconstruction; every
// mapping entry is rebuilt with its original key.
func (r *resolver) evaluateExpressions(
	ctx context.Context,
	n *Node,
	path string,
) (*Node, error) {
	switch n.Kind {
	case KindString:
		return r.evaluateString(ctx, n, path)

	case KindSequence:
		for i, e := range n.Seq {
			v, err := r.evaluateExpressions(
				ctx, e, path+"["+strconv.Itoa(i)+"]",
			)
			if err != nil {
				return nil, err
			}

			n.Seq[i] = v
		}

		return n, nil

	case KindMapping:
		for i := range n.Pairs {
			p := &n.Pairs[i]

			v, err := r.evaluateExpressions(
				ctx, p.Value, joinPath(path, p.Key),
			)
			if err != nil {
				return nil, err
			}

			// Reassign under the original key; the key itself is
			// never rewritten.
			n.Pairs[i] = Pair{Key: p.Key, Value: v}
		}

		return n, nil

	default:
		return n, nil
	}
}

// evaluateString resolves one scalar string, which may be an env() lookup,
// a host expression, or a plain string left untouched.
func (r *resolver) evaluateString(
	ctx context.Context,
	n *Node,
	path string,
) (*Node, error) {
	if m := envDirective.FindStringSubmatch(n.Str); m != nil {
		return NewString(r.lookupDirective(m[1], m[2])), nil
	}

	if code, ok := strings.CutPrefix(n.Str, hostDirectivePrefix); ok {
		return r.evaluateHost(ctx, strings.TrimSpace(code), n.Str, path)
	}

	return n, nil
}

// lookupDirective resolves an env(NAME, default) directive: the variable's
// value, or the default when the variable is unset or empty, or the empty
// string when no default was given.
func (r *resolver) lookupDirective(name, fallback string) string {
	value, ok := r.cfg.lookupEnv(name)
	if ok && value != "" {
		return value
	}

	return unquote(fallback)
}

// unquote strips one level of matching quotes from a directive default.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}

	return s
}

// evaluateHost delegates a host-expression directive to the injected
// evaluator and converts the result back into a Node.
func (r *resolver) evaluateHost(
	ctx context.Context,
	code, raw, path string,
) (*Node, error) {
	if r.cfg.host == nil {
		return nil, ErrExpressionEvaluation.
			Wrap(ErrNoHostEvaluator).
			With(
				slog.String("value", raw),
				slog.String("path", path),
			)
	}

	result, err := r.cfg.host.Evaluate(ctx, code)
	if err != nil {
		return nil, ErrExpressionEvaluation.
			Wrap(err).
			With(
				slog.String("value", raw),
				slog.String("path", path),
			)
	}

	node, err := fromValue(result)
	if err != nil {
		return nil, ErrExpressionEvaluation.
			Wrap(err).
			With(
				slog.String("value", raw),
				slog.String("path", path),
			)
	}

	r.logger.Debug("evaluated host expression",
		slog.String("path", path),
		slog.String("source", code),
	)

	return node, nil
}

// fromValue converts a native Go value into a Node. Ordered map slices
// keep their order; plain Go maps are emitted with sorted keys, since
// their iteration order is undefined.
func fromValue(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return NewNull(), nil

	case *Node:
		return t, nil

	case bool:
		return NewBool(t), nil

	case int:
		return NewInt(int64(t)), nil

	case int32:
		return NewInt(int64(t)), nil

	case int64:
		return NewInt(t), nil

	case uint:
		return NewInt(int64(t)), nil

	case uint64:
		return NewInt(int64(t)), nil

	case float32:
		return NewFloat(float64(t)), nil

	case float64:
		return NewFloat(t), nil

	case string:
		return NewString(t), nil

	case []string:
		seq := NewSequence()
		for _, e := range t {
			seq.Seq = append(seq.Seq, NewString(e))
		}

		return seq, nil

	case []any:
		seq := NewSequence()

		for _, e := range t {
			n, err := fromValue(e)
			if err != nil {
				return nil, err
			}

			seq.Seq = append(seq.Seq, n)
		}

		return seq, nil

	case yaml.MapSlice:
		m := NewMapping()

		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				return nil, ErrUnsupportedExpressionValue.
					With(slog.Any("key", item.Key))
			}

			n, err := fromValue(item.Value)
			if err != nil {
				return nil, err
			}

			m.Pairs = append(m.Pairs, Pair{Key: key, Value: n})
		}

		return m, nil

	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		m := NewMapping()

		for _, k := range keys {
			n, err := fromValue(t[k])
			if err != nil {
				return nil, err
			}

			m.Pairs = append(m.Pairs, Pair{Key: k, Value: n})
		}

		return m, nil

	default:
		return nil, ErrUnsupportedExpressionValue.
			With(slog.Any("value", v))
	}
}
