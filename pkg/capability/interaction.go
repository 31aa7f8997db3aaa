package capability

import (
	"fmt"
	"sort"
	"strings"
)

// Region identifies one structural facet of the shared data record.
type Region string

// The fixed set of regions a node can declare against. They model disjoint
// facets: a field required in one region is never satisfied by an identically
// named field in another.
const (
	// RegionRows holds row-level annotations.
	RegionRows Region = "rows"
	// RegionCols holds column-level annotations.
	RegionCols Region = "cols"
	// RegionColNames holds the named columns of the primary matrix.
	RegionColNames Region = "col_names"
	// RegionRowMaps holds multi-dimensional row-aligned structures.
	RegionRowMaps Region = "row_maps"
	// RegionColMaps holds multi-dimensional column-aligned structures.
	RegionColMaps Region = "col_maps"
	// RegionMeta holds unstructured metadata.
	RegionMeta Region = "meta"
	// RegionPairwise holds pairwise (square) matrices.
	RegionPairwise Region = "pairwise"
	// RegionLayers holds alternate layers of the primary matrix.
	RegionLayers Region = "layers"
)

var allRegions = []Region{
	RegionRows,
	RegionCols,
	RegionColNames,
	RegionRowMaps,
	RegionColMaps,
	RegionMeta,
	RegionPairwise,
	RegionLayers,
}

// Regions returns the ordered list of known regions.
func Regions() []Region {
	out := make([]Region, len(allRegions))
	copy(out, allRegions)
	return out
}

// Fields is the literal form used to declare an Interaction.
type Fields map[Region][]string

// Interaction is a mapping from each region to a set of field identifiers.
// The zero value is usable and empty.
type Interaction struct {
	fields map[Region]map[string]struct{}
}

// New builds an Interaction from literal field sets. Duplicate fields collapse
// (set semantics).
func New(fields Fields) Interaction {
	in := Interaction{fields: make(map[Region]map[string]struct{}, len(fields))}
	for region, names := range fields {
		for _, name := range names {
			in.insert(region, name)
		}
	}
	return in
}

func (in *Interaction) insert(region Region, field string) {
	if in.fields == nil {
		in.fields = make(map[Region]map[string]struct{})
	}
	set, ok := in.fields[region]
	if !ok {
		set = make(map[string]struct{})
		in.fields[region] = set
	}
	set[field] = struct{}{}
}

func (in Interaction) set(region Region) map[string]struct{} {
	if in.fields == nil {
		return nil
	}
	return in.fields[region]
}

// Fields returns the sorted field identifiers declared for a region.
func (in Interaction) Fields(region Region) []string {
	set := in.set(region)
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for field := range set {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Size returns the total number of declared fields across all regions.
func (in Interaction) Size() int {
	total := 0
	for _, set := range in.fields {
		total += len(set)
	}
	return total
}

// Empty reports whether no region declares any field.
func (in Interaction) Empty() bool {
	for _, set := range in.fields {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy.
func (in Interaction) Clone() Interaction {
	out := Interaction{fields: make(map[Region]map[string]struct{}, len(in.fields))}
	for region, set := range in.fields {
		for field := range set {
			out.insert(region, field)
		}
	}
	return out
}

// Union returns a new Interaction holding the per-region union of both
// operands. Neither operand is modified.
func (in Interaction) Union(other Interaction) Interaction {
	out := in.Clone()
	out.Add(other)
	return out
}

// Add unions the other Interaction's fields into this one in place. It is the
// only mutating operation on Interaction.
func (in *Interaction) Add(other Interaction) {
	for region, set := range other.fields {
		for field := range set {
			in.insert(region, field)
		}
	}
}

// Covers reports whether every region's field set is a superset of (or equal
// to) the other's. The relation is a conjunction over all regions.
func (in Interaction) Covers(other Interaction) bool {
	for _, region := range allRegions {
		if !isSuperset(in.set(region), other.set(region)) {
			return false
		}
	}
	return true
}

// StrictlyCovers reports whether every region's field set is a strict superset
// of the other's. A single non-strict region fails the whole comparison.
func (in Interaction) StrictlyCovers(other Interaction) bool {
	for _, region := range allRegions {
		mine, theirs := in.set(region), other.set(region)
		if len(mine) <= len(theirs) || !isSuperset(mine, theirs) {
			return false
		}
	}
	return true
}

// CoveredBy is the reflection of Covers: it reports whether the other
// Interaction covers this one.
func (in Interaction) CoveredBy(other Interaction) bool {
	return other.Covers(in)
}

// StrictlyCoveredBy is the reflection of StrictlyCovers.
func (in Interaction) StrictlyCoveredBy(other Interaction) bool {
	return other.StrictlyCovers(in)
}

// Equal reports whether every region's field set is exactly equal.
func (in Interaction) Equal(other Interaction) bool {
	for _, region := range allRegions {
		mine, theirs := in.set(region), other.set(region)
		if len(mine) != len(theirs) || !isSuperset(mine, theirs) {
			return false
		}
	}
	return true
}

// Difference returns the fields of the other Interaction that this one does
// not contain, per region. Used for requirement diagnostics.
func (in Interaction) Difference(other Interaction) Interaction {
	out := Interaction{}
	for _, region := range allRegions {
		mine := in.set(region)
		for field := range other.set(region) {
			if _, ok := mine[field]; !ok {
				out.insert(region, field)
			}
		}
	}
	return out
}

func isSuperset(a, b map[string]struct{}) bool {
	if len(b) > len(a) {
		return false
	}
	for field := range b {
		if _, ok := a[field]; !ok {
			return false
		}
	}
	return true
}

func (in Interaction) String() string {
	parts := make([]string, 0, len(allRegions))
	for _, region := range allRegions {
		if set := in.set(region); len(set) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %v", region, in.Fields(region)))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
