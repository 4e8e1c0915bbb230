package conf

import (
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// inlineSource tags documents parsed from in-memory text rather than a file.
const inlineSource = "inline"

// Document is the parse result of one source: a node tree tagged with its
// originating path, or "inline" when parsed from memory.
type Document struct {
	Source string
	Root   *Node
}

// Parse parses raw YAML text into a Document.
//
// Mapping key order is preserved, and an empty mapping, an empty sequence,
// and a null scalar remain distinct. Custom tags (for example "!expr") are
// flattened into string scalars of the form "<tag> <value>" so that
// directive recognition is purely positional on string shapes.
func Parse(data []byte, source string) (*Document, error) {
	if source == "" {
		source = inlineSource
	}

	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, newParseError(source, err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return &Document{Source: source, Root: NewNull()}, nil
	}

	root, err := buildNode(file.Docs[0].Body, map[string]*Node{})
	if err != nil {
		return nil, newParseError(source, err)
	}

	return &Document{Source: source, Root: root}, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound.Wrap(err).
				With(slog.String("path", path))
		}

		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	return Parse(data, path)
}

// ParseError describes malformed input text.
type ParseError struct {
	Source  string
	Message string
	Line    int
}

// positionPrefix matches the "[line:column]" prefix goccy/go-yaml puts on
// syntax error messages.
var positionPrefix = regexp.MustCompile(`^\[(\d+):\d+\]\s*(.*)$`)

// newParseError wraps a parser error, extracting the source line if the
// underlying message carries one.
func newParseError(source string, err error) *ParseError {
	msg, _, _ := strings.Cut(err.Error(), "\n")

	e := &ParseError{Source: source, Message: msg}

	if m := positionPrefix.FindStringSubmatch(msg); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		e.Message = m[2]
	}

	return e
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse ")
	sb.WriteString(e.Source)

	if e.Line > 0 {
		sb.WriteString(" line ")
		sb.WriteString(strconv.Itoa(e.Line))
	}

	sb.WriteString(": ")
	sb.WriteString(e.Message)

	return sb.String()
}

// Is reports ErrParse so callers can test with errors.Is.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LogValue implements slog.LogValuer for structured logging.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", e.Source),
		slog.String("message", e.Message),
		slog.Int("line", e.Line),
	)
}

// buildNode converts a goccy/go-yaml AST node into a Node.
// Anchors are recorded as they are built so aliases can be expanded.
func buildNode(n ast.Node, anchors map[string]*Node) (*Node, error) {
	switch t := n.(type) {
	case *ast.NullNode:
		return atLine(NewNull(), n), nil

	case *ast.BoolNode:
		return atLine(NewBool(t.Value), n), nil

	case *ast.IntegerNode:
		return atLine(integerNode(t.Value), n), nil

	case *ast.FloatNode:
		return atLine(NewFloat(t.Value), n), nil

	case *ast.InfinityNode:
		return atLine(NewFloat(t.Value), n), nil

	case *ast.NanNode:
		return atLine(NewString("NaN"), n), nil

	case *ast.StringNode:
		return atLine(NewString(t.Value), n), nil

	case *ast.LiteralNode:
		return atLine(NewString(t.Value.Value), n), nil

	case *ast.SequenceNode:
		seq := NewSequence()
		seq.Seq = make([]*Node, 0, len(t.Values))

		for _, v := range t.Values {
			e, err := buildNode(v, anchors)
			if err != nil {
				return nil, err
			}

			seq.Seq = append(seq.Seq, e)
		}

		return atLine(seq, n), nil

	case *ast.MappingNode:
		m := NewMapping()
		m.Pairs = make([]Pair, 0, len(t.Values))

		for _, kv := range t.Values {
			if err := appendPair(m, kv, anchors); err != nil {
				return nil, err
			}
		}

		return atLine(m, n), nil

	case *ast.MappingValueNode:
		// goccy represents a single-entry mapping as the entry itself.
		m := NewMapping()
		if err := appendPair(m, t, anchors); err != nil {
			return nil, err
		}

		return atLine(m, n), nil

	case *ast.AnchorNode:
		name := keyText(t.Name)

		v, err := buildNode(t.Value, anchors)
		if err != nil {
			return nil, err
		}

		anchors[name] = v

		return v, nil

	case *ast.AliasNode:
		name := keyText(t.Value)

		v, ok := anchors[name]
		if !ok {
			return nil, ErrParse.
				With(slog.String("alias", name))
		}

		return v.Clone(), nil

	case *ast.TagNode:
		return buildTagged(t, anchors)

	default:
		return nil, ErrParse.
			With(slog.String("node", n.Type().String()))
	}
}

// appendPair builds one mapping entry and appends it to m.
func appendPair(
	m *Node,
	kv *ast.MappingValueNode,
	anchors map[string]*Node,
) error {
	v, err := buildNode(kv.Value, anchors)
	if err != nil {
		return err
	}

	m.Pairs = append(m.Pairs, Pair{Key: keyText(kv.Key), Value: v})

	return nil
}

// buildTagged converts a tagged node. Standard YAML tags build their value
// as usual; any custom tag collapses into a string scalar "<tag> <value>",
// which is how host-expression directives reach the evaluator.
func buildTagged(t *ast.TagNode, anchors map[string]*Node) (*Node, error) {
	tag := strings.TrimSpace(t.Start.Value)

	if strings.HasPrefix(tag, "!!") {
		return buildNode(t.Value, anchors)
	}

	v, err := buildNode(t.Value, anchors)
	if err != nil {
		return nil, err
	}

	if !v.Kind.IsScalar() {
		return nil, ErrParse.
			With(
				slog.String("tag", tag),
				slog.String("kind", v.Kind.String()),
			)
	}

	return atLine(NewString(tag+" "+scalarText(v)), t), nil
}

// keyText extracts the textual form of a mapping key node.
func keyText(k ast.Node) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}

	return k.String()
}

// scalarText renders a scalar node back to its textual form.
func scalarText(n *Node) string {
	switch n.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(n.Bool)
	case KindInt:
		return strconv.FormatInt(n.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	default:
		return n.Str
	}
}

// integerNode normalizes goccy's integer representation (uint64 or int64).
// Unsigned values beyond the int64 range degrade to a float rather than
// wrapping negative.
func integerNode(v any) *Node {
	switch i := v.(type) {
	case int64:
		return NewInt(i)
	case uint64:
		if i > math.MaxInt64 {
			return NewFloat(float64(i))
		}

		return NewInt(int64(i))
	case int:
		return NewInt(int64(i))
	default:
		return NewInt(0)
	}
}

// atLine records the source line a node was parsed from.
func atLine(n *Node, a ast.Node) *Node {
	if tok := a.GetToken(); tok != nil && tok.Position != nil {
		n.Line = tok.Position.Line
	}

	return n
}
