package capability

import (
	"fmt"
	"strings"
)

// LengthMismatchError is returned by Sum when the two lists do not carry the
// same number of alternatives.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("capability lists can only be summed when they have the same number of alternatives (got %d and %d)", e.Left, e.Right)
}

// List is a disjunction of Interactions: a declaration is satisfied when any
// one alternative is satisfied. The zero value is the empty list, which acts
// as the identity for Product and as "no constraint" in comparisons.
type List struct {
	alts []Interaction
}

// NewList builds a List from the given alternatives.
func NewList(alts ...Interaction) List {
	out := List{alts: make([]Interaction, 0, len(alts))}
	for _, alt := range alts {
		out.alts = append(out.alts, alt.Clone())
	}
	return out
}

// Len returns the number of alternatives.
func (l List) Len() int { return len(l.alts) }

// At returns the alternative at position i.
func (l List) At(i int) Interaction { return l.alts[i] }

// Alternatives returns a deep copy of the alternatives.
func (l List) Alternatives() []Interaction {
	out := make([]Interaction, 0, len(l.alts))
	for _, alt := range l.alts {
		out = append(out, alt.Clone())
	}
	return out
}

// Literal returns the list in declaration-literal form (one Fields map per
// alternative, empty regions omitted). Used for catalog serialization.
func (l List) Literal() []Fields {
	out := make([]Fields, 0, len(l.alts))
	for _, alt := range l.alts {
		fields := Fields{}
		for _, region := range allRegions {
			if names := alt.Fields(region); len(names) > 0 {
				fields[region] = names
			}
		}
		out = append(out, fields)
	}
	return out
}

// Clone returns an independent deep copy of the list.
func (l List) Clone() List {
	return List{alts: l.Alternatives()}
}

// Product returns the Cartesian combination of both lists: every alternative
// of l unioned with every alternative of other, len(l)*len(other) results.
// An empty operand is the identity: the other operand is returned unchanged
// (as a copy), not annihilated.
func (l List) Product(other List) List {
	if len(other.alts) == 0 {
		return l.Clone()
	}
	if len(l.alts) == 0 {
		return other.Clone()
	}
	out := List{alts: make([]Interaction, 0, len(l.alts)*len(other.alts))}
	for _, mine := range l.alts {
		for _, theirs := range other.alts {
			out.alts = append(out.alts, mine.Union(theirs))
		}
	}
	return out
}

// Sum unions the two lists position by position. Both lists must have the
// same number of alternatives; mismatched lengths fail with
// LengthMismatchError rather than truncating or padding.
func (l List) Sum(other List) (List, error) {
	if len(l.alts) != len(other.alts) {
		return List{}, &LengthMismatchError{Left: len(l.alts), Right: len(other.alts)}
	}
	out := List{alts: make([]Interaction, 0, len(l.alts))}
	for i, mine := range l.alts {
		out.alts = append(out.alts, mine.Union(other.alts[i]))
	}
	return out, nil
}

// Covers reports whether any pair of alternatives (one from each list)
// satisfies the pointwise Interaction Covers relation. An empty other list is
// trivially covered.
func (l List) Covers(other List) bool {
	if len(other.alts) == 0 {
		return true
	}
	for _, mine := range l.alts {
		for _, theirs := range other.alts {
			if mine.Covers(theirs) {
				return true
			}
		}
	}
	return false
}

// StrictlyCovers is the existential form of Interaction.StrictlyCovers.
func (l List) StrictlyCovers(other List) bool {
	if len(other.alts) == 0 {
		return true
	}
	for _, mine := range l.alts {
		for _, theirs := range other.alts {
			if mine.StrictlyCovers(theirs) {
				return true
			}
		}
	}
	return false
}

// CoveredBy is the reflection of Covers: it reports whether the other list
// covers this one.
func (l List) CoveredBy(other List) bool {
	return other.Covers(l)
}

// StrictlyCoveredBy is the reflection of StrictlyCovers.
func (l List) StrictlyCoveredBy(other List) bool {
	return other.StrictlyCovers(l)
}

// Equal reports whether any pair of alternatives is exactly equal.
func (l List) Equal(other List) bool {
	for _, mine := range l.alts {
		for _, theirs := range other.alts {
			if mine.Equal(theirs) {
				return true
			}
		}
	}
	return false
}

func (l List) String() string {
	parts := make([]string, 0, len(l.alts))
	for _, alt := range l.alts {
		parts = append(parts, alt.String())
	}
	return strings.Join(parts, "\n")
}
