package entities

// SetDiff names the elements unique to each side of a comparison plus
// the shared counts (§12 supplemented feature, compare_ontologies).
type SetDiff struct {
	Count1      int      `json:"count1"`
	Count2      int      `json:"count2"`
	OnlyInFirst []string `json:"onlyInFirst,omitempty"`
	OnlyInSecond []string `json:"onlyInSecond,omitempty"`
}

func newSetDiff(first, second []string) SetDiff {
	inFirst := make(map[string]bool, len(first))
	for _, n := range first {
		inFirst[n] = true
	}
	inSecond := make(map[string]bool, len(second))
	for _, n := range second {
		inSecond[n] = true
	}
	d := SetDiff{Count1: len(first), Count2: len(second)}
	for _, n := range first {
		if !inSecond[n] {
			d.OnlyInFirst = append(d.OnlyInFirst, n)
		}
	}
	for _, n := range second {
		if !inFirst[n] {
			d.OnlyInSecond = append(d.OnlyInSecond, n)
		}
	}
	return d
}

// ComparisonResult is the output of comparing two converted ontologies
// for semantic equivalence (§12 supplemented feature).
type ComparisonResult struct {
	IsEquivalent        bool    `json:"isEquivalent"`
	EntityTypes         SetDiff `json:"entityTypes"`
	Properties          SetDiff `json:"properties"`
	RelationshipTypes   SetDiff `json:"relationshipTypes"`
}

// CompareConversionResults diffs two ConversionResults by name, the way
// the original compare_ontologies operation diffs classes, datatype
// properties, and object properties between two source documents.
// Equivalence requires every set to match exactly, order ignored.
func CompareConversionResults(a, b *ConversionResult) *ComparisonResult {
	namesA := entityNames(a.EntityTypes)
	namesB := entityNames(b.EntityTypes)
	propsA := propertyNames(a.EntityTypes)
	propsB := propertyNames(b.EntityTypes)
	relsA := relationshipNames(a.RelationshipTypes)
	relsB := relationshipNames(b.RelationshipTypes)

	r := &ComparisonResult{
		EntityTypes:       newSetDiff(namesA, namesB),
		Properties:        newSetDiff(propsA, propsB),
		RelationshipTypes: newSetDiff(relsA, relsB),
	}
	r.IsEquivalent = len(r.EntityTypes.OnlyInFirst) == 0 && len(r.EntityTypes.OnlyInSecond) == 0 &&
		len(r.Properties.OnlyInFirst) == 0 && len(r.Properties.OnlyInSecond) == 0 &&
		len(r.RelationshipTypes.OnlyInFirst) == 0 && len(r.RelationshipTypes.OnlyInSecond) == 0
	return r
}

func entityNames(ets []*EntityType) []string {
	out := make([]string, 0, len(ets))
	for _, e := range ets {
		out = append(out, e.Name)
	}
	return out
}

func propertyNames(ets []*EntityType) []string {
	var out []string
	for _, e := range ets {
		for _, p := range e.AllProperties() {
			out = append(out, e.Name+"."+p.Name)
		}
	}
	return out
}

func relationshipNames(rels []*RelationshipType) []string {
	out := make([]string, 0, len(rels))
	for _, r := range rels {
		out = append(out, r.Name)
	}
	return out
}
