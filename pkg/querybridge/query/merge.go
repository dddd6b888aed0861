package query

// Bound is one edge of a merged range interval.
type Bound struct {
	Value     any
	Inclusive bool
}

// RangeValue is the value carried by a Range condition synthesized from a
// merged lower/upper pair. Inclusivity follows the original operators:
// GreaterOrEqual/LessOrEqual produce inclusive edges, Greater/Less
// exclusive ones.
type RangeValue struct {
	Lower Bound
	Upper Bound
}

func lowerFamily(op Operator) bool { return op == Greater || op == GreaterOrEqual }
func upperFamily(op Operator) bool { return op == Less || op == LessOrEqual }

func rangeEligible(op Operator) bool { return lowerFamily(op) || upperFamily(op) }

// MergeRanges collapses pairs of bound conditions on the same attribute
// into single Range conditions. Exactly one lower/upper pair merges per
// attribute; every other condition passes through untouched. A third or
// later same-attribute bound is left as its own clause rather than
// rejected. Same-family duplicates never merge.
//
// The input group is not mutated; the merged pair renders lower bound
// first regardless of its original position, so output is independent of
// condition ordering within the group.
func MergeRanges(g Group) Group {
	if len(g) < 2 {
		return g
	}

	out := make(Group, 0, len(g))
	consumed := make([]bool, len(g))
	mergedAttr := make(map[string]bool)

	for i, c := range g {
		if consumed[i] {
			continue
		}
		if c.Composite() || !rangeEligible(c.Operator) || mergedAttr[c.Attr()] {
			out = append(out, c)
			continue
		}

		partner := -1
		for j := i + 1; j < len(g); j++ {
			d := g[j]
			if consumed[j] || d.Composite() || d.Attr() != c.Attr() {
				continue
			}
			if lowerFamily(c.Operator) == lowerFamily(d.Operator) {
				continue
			}
			if rangeEligible(d.Operator) {
				partner = j
				break
			}
		}
		if partner < 0 {
			out = append(out, c)
			continue
		}

		lo, hi := c, g[partner]
		if upperFamily(c.Operator) {
			lo, hi = hi, lo
		}
		out = append(out, Condition{
			Attributes: []string{c.Attr()},
			Operator:   Range,
			Value: RangeValue{
				Lower: Bound{Value: lo.Value, Inclusive: lo.Operator == GreaterOrEqual},
				Upper: Bound{Value: hi.Value, Inclusive: hi.Operator == LessOrEqual},
			},
		})
		consumed[partner] = true
		mergedAttr[c.Attr()] = true
	}
	return out
}
