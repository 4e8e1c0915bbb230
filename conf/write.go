package conf

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// defaultWriteIndent is the indentation used when no indent is requested.
const defaultWriteIndent = 2

// Write serializes a node tree back to the document format.
//
// By convention, a flat mapping (one with no environment sections) is
// wrapped under the "default" key on the way out, so that a document
// written here reads back cleanly through environment-aware resolution.
func Write(w io.Writer, root *Node, indent int) error {
	return encodeYAML(w, wrapFlat(root), indent)
}

// WriteFile serializes a node tree to the file at path, wrapping flat
// documents under "default" as [Write] does.
func WriteFile(path string, root *Node, indent int) error {
	f, err := os.Create(path)
	if err != nil {
		return WrapError(err).With(slog.String("path", path))
	}

	defer f.Close()

	return Write(f, root, indent)
}

// EncodeYAML writes the node as YAML without the flat-document wrapping
// convention.
func EncodeYAML(w io.Writer, n *Node, indent int) error {
	return encodeYAML(w, n, indent)
}

// EncodeJSON writes the node as JSON, preserving mapping key order.
// A positive indent selects pretty-printed output.
func EncodeJSON(w io.Writer, n *Node, indent int) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if indent > 0 {
		var buf bytes.Buffer

		err = json.Indent(&buf, data, "", strings.Repeat(" ", indent))
		if err != nil {
			return err
		}

		data = buf.Bytes()
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// wrapFlat wraps a flat mapping under the default section.
func wrapFlat(root *Node) *Node {
	if root == nil || root.Kind != KindMapping || UsesEnvironments(root) {
		return root
	}

	return NewMapping(Pair{Key: DefaultSection, Value: root})
}

// encodeYAML marshals via the order-preserving native representation.
func encodeYAML(w io.Writer, n *Node, indent int) error {
	if indent <= 0 {
		indent = defaultWriteIndent
	}

	data, err := yaml.MarshalWithOptions(n.Value(), yaml.Indent(indent))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
