package conf

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// MarshalJSON implements json.Marshaler for Node, emitting mapping entries
// in document order. The stdlib encoder sorts map keys, so mappings are
// serialized by hand here.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler for Node, delegating to
// the order-preserving native representation.
func (n *Node) MarshalYAML() (any, error) {
	return n.Value(), nil
}

// writeJSON serializes a node into buf.
func writeJSON(buf *bytes.Buffer, n *Node) error {
	if n == nil {
		buf.WriteString("null")

		return nil
	}

	switch n.Kind {
	case KindNull:
		buf.WriteString("null")

	case KindBool:
		buf.WriteString(strconv.FormatBool(n.Bool))

	case KindInt:
		buf.WriteString(strconv.FormatInt(n.Int, 10))

	case KindFloat:
		// JSON has no representation for infinities or NaN.
		if math.IsInf(n.Float, 0) || math.IsNaN(n.Float) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
		}

	case KindString:
		data, err := json.Marshal(n.Str)
		if err != nil {
			return err
		}

		buf.Write(data)

	case KindSequence:
		buf.WriteByte('[')

		for i, e := range n.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

	case KindMapping:
		buf.WriteByte('{')

		for i, p := range n.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}

			key, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}

			buf.Write(key)
			buf.WriteByte(':')

			if err := writeJSON(buf, p.Value); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	}

	return nil
}
