package conf

// MergeNodes deep-merges overlay onto base and returns a new tree; neither
// argument is modified. Its complete contract:
//
//   - When both sides are mappings, keys merge recursively one by one.
//     Base entries keep their document order; keys that exist only in the
//     overlay are appended in the overlay's order.
//   - Sequences are replaced wholesale by the overlay, never concatenated
//     or merged element-wise.
//   - Scalars are replaced by the overlay, including an explicit null:
//     an overlay null deliberately erases the base value.
//   - A nil overlay yields a copy of base, and vice versa.
func MergeNodes(base, overlay *Node) *Node {
	if overlay == nil {
		return base.Clone()
	}

	if base == nil {
		return overlay.Clone()
	}

	if base.Kind != KindMapping || overlay.Kind != KindMapping {
		return overlay.Clone()
	}

	merged := NewMapping()
	merged.Pairs = make([]Pair, 0, len(base.Pairs)+len(overlay.Pairs))

	for _, p := range base.Pairs {
		if over, ok := overlay.Get(p.Key); ok {
			merged.Pairs = append(merged.Pairs, Pair{
				Key:   p.Key,
				Value: MergeNodes(p.Value, over),
			})

			continue
		}

		merged.Pairs = append(merged.Pairs, Pair{
			Key:   p.Key,
			Value: p.Value.Clone(),
		})
	}

	for _, p := range overlay.Pairs {
		if !base.Has(p.Key) {
			merged.Pairs = append(merged.Pairs, Pair{
				Key:   p.Key,
				Value: p.Value.Clone(),
			})
		}
	}

	return merged
}
