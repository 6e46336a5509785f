package dtdl

import (
	"fmt"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// ValidateInterfaces checks DTMI grammar, duplicate DTMIs, extends
// references, inheritance cycles/depth, and relationship/component
// reference integrity without producing a bundle (§4.F, §6 `validate`).
func ValidateInterfaces(interfaces []*Interface) []entities.Issue {
	var issues []entities.Issue

	if len(interfaces) == 0 {
		return []entities.Issue{{
			Severity: entities.IssueSeverityWarning,
			Category: "content",
			Message:  "no interfaces provided for validation",
		}}
	}

	byDTMI := make(map[string]*Interface, len(interfaces))
	for _, iface := range interfaces {
		if _, dup := byDTMI[iface.DTMI]; dup {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "duplicate_dtmi",
				Message:   fmt.Sprintf("duplicate DTMI: %s", iface.DTMI),
				SourceURI: iface.DTMI,
			})
		}
		byDTMI[iface.DTMI] = iface
	}

	for _, iface := range interfaces {
		issues = append(issues, validateInterface(iface, byDTMI)...)
	}
	issues = append(issues, validateInheritanceGraph(interfaces, byDTMI)...)

	return issues
}

func validateInterface(iface *Interface, all map[string]*Interface) []entities.Issue {
	var issues []entities.Issue

	if !ValidDTMI(iface.DTMI) {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityError,
			Category:  "dtmi_format",
			Message:   fmt.Sprintf("invalid DTMI format: %s", iface.DTMI),
			SourceURI: iface.DTMI,
		})
	}
	if !ValidDTMILength(iface.DTMI, true) {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityError,
			Category:  "dtmi_length",
			Message:   fmt.Sprintf("interface DTMI exceeds %d characters", MaxInterfaceDTMILength),
			SourceURI: iface.DTMI,
		})
	}

	for _, parent := range iface.Extends {
		if parent == iface.DTMI {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "self_inheritance",
				Message:   "interface cannot extend itself",
				SourceURI: iface.DTMI,
			})
			continue
		}
		if _, ok := all[parent]; !ok {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityWarning,
				Category:  "unresolved_reference",
				Message:   fmt.Sprintf("referenced parent interface not found: %s", parent),
				SourceURI: iface.DTMI,
			})
		}
	}

	seen := map[string]bool{}
	for _, p := range iface.Properties {
		issues = append(issues, validateContentName(p.Name, iface.DTMI, seen)...)
	}
	for _, t := range iface.Telemetries {
		issues = append(issues, validateContentName(t.Name, iface.DTMI, seen)...)
	}
	for _, r := range iface.Relationships {
		issues = append(issues, validateContentName(r.Name, iface.DTMI, seen)...)
		if r.Target != "" {
			if _, ok := all[r.Target]; !ok {
				issues = append(issues, entities.Issue{
					Severity:  entities.IssueSeverityWarning,
					Category:  "unresolved_reference",
					Message:   fmt.Sprintf("relationship target not found: %s", r.Target),
					SourceURI: iface.DTMI,
					Construct: "Relationship[" + r.Name + "].target",
				})
			}
		}
		if r.MaxMultiplicity != nil && *r.MaxMultiplicity < 1 {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityError,
				Category:  "constraint",
				Message:   "maxMultiplicity must be >= 1",
				SourceURI: iface.DTMI,
				Construct: "Relationship[" + r.Name + "].maxMultiplicity",
			})
		}
	}
	for _, c := range iface.Components {
		issues = append(issues, validateContentName(c.Name, iface.DTMI, seen)...)
		if _, ok := all[c.Schema]; !ok {
			issues = append(issues, entities.Issue{
				Severity:  entities.IssueSeverityWarning,
				Category:  "unresolved_reference",
				Message:   fmt.Sprintf("component schema not found: %s", c.Schema),
				SourceURI: iface.DTMI,
				Construct: "Component[" + c.Name + "].schema",
			})
		}
	}
	for _, c := range iface.Commands {
		issues = append(issues, validateContentName(c.Name, iface.DTMI, seen)...)
	}

	return issues
}

func validateContentName(name, dtmi string, seen map[string]bool) []entities.Issue {
	var issues []entities.Issue
	if seen[name] {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityError,
			Category:  "duplicate_name",
			Message:   fmt.Sprintf("duplicate content name: %s", name),
			SourceURI: dtmi,
		})
	}
	seen[name] = true
	if !ValidContentName(name) {
		issues = append(issues, entities.Issue{
			Severity:  entities.IssueSeverityError,
			Category:  "name_grammar",
			Message:   fmt.Sprintf("invalid content name format: %s", name),
			SourceURI: dtmi,
		})
	}
	return issues
}

func validateInheritanceGraph(interfaces []*Interface, byDTMI map[string]*Interface) []entities.Issue {
	var issues []entities.Issue
	for _, iface := range interfaces {
		path := map[string]bool{}
		var walk func(dtmi string, depth int) bool
		walk = func(dtmi string, depth int) bool {
			if path[dtmi] {
				issues = append(issues, entities.Issue{
					Severity:  entities.IssueSeverityError,
					Category:  "cyclic_inheritance",
					Message:   fmt.Sprintf("inheritance cycle detected at %s", dtmi),
					SourceURI: iface.DTMI,
				})
				return true
			}
			if depth > maxExtendsDepth {
				issues = append(issues, entities.Issue{
					Severity:  entities.IssueSeverityError,
					Category:  "inheritance_depth",
					Message:   fmt.Sprintf("inheritance depth exceeds %d", maxExtendsDepth),
					SourceURI: iface.DTMI,
				})
				return true
			}
			path[dtmi] = true
			defer delete(path, dtmi)

			cur, ok := byDTMI[dtmi]
			if !ok || len(cur.Extends) == 0 {
				return false
			}
			parent := cur.Extends[0]
			if _, ok := byDTMI[parent]; !ok {
				return false
			}
			return walk(parent, depth+1)
		}
		walk(iface.DTMI, 0)
	}
	return issues
}
