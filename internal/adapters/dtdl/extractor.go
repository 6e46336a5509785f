package dtdl

import (
	"fmt"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/typemap"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// maxExtendsDepth bounds single-parent inheritance chains (§4.F).
const maxExtendsDepth = 12

// Extractor converts a set of parsed interfaces into the intermediate
// model, resolving inheritance, flattening components, and renaming
// properties that collide across the inheritance chain (§4.F).
type Extractor struct {
	Namespace         string
	FlattenComponents bool
	IncludeCommands   bool

	interfaceByDTMI map[string]*Interface
	propertyTypes   map[string]entities.ValueType // cross-interface sibling registry
}

func NewExtractor() *Extractor {
	return &Extractor{Namespace: "usertypes"}
}

// Extract runs the full interface-set conversion (§4.F): topological
// ordering by extends, per-interface entity conversion with name
// conflict resolution, then a second pass for relationships once every
// entity's SourceURI is known.
func (ex *Extractor) Extract(interfaces []*Interface) *entities.ConversionResult {
	result := &entities.ConversionResult{}

	ex.interfaceByDTMI = make(map[string]*Interface, len(interfaces))
	for _, iface := range interfaces {
		ex.interfaceByDTMI[iface.DTMI] = iface
	}
	ex.propertyTypes = map[string]entities.ValueType{}

	sorted := ex.topologicalSort(interfaces)

	byDTMI := make(map[string]*entities.EntityType, len(interfaces))
	for _, iface := range sorted {
		e, err := ex.convertInterface(iface, result)
		if err != nil {
			result.AddSkipped("interface", iface.Name(), err.Error(), iface.DTMI)
			continue
		}
		byDTMI[iface.DTMI] = e
		result.EntityTypes = append(result.EntityTypes, e)
	}

	for _, iface := range interfaces {
		for _, rel := range iface.Relationships {
			rt, err := ex.convertRelationship(rel, iface)
			if err != nil {
				result.AddSkipped("relationship", rel.Name, err.Error(), relationshipURI(rel, iface))
				continue
			}
			result.RelationshipTypes = append(result.RelationshipTypes, rt)
		}
	}

	return result
}

// topologicalSort orders interfaces so every parent (within the input
// set) precedes its children, via Kahn's algorithm over extends (§4.F).
// Interfaces left over after the queue drains (members of an extends
// cycle and their descendants) are appended in original order.
func (ex *Extractor) topologicalSort(interfaces []*Interface) []*Interface {
	inDegree := make(map[string]int, len(interfaces))
	children := make(map[string][]string, len(interfaces))
	byDTMI := make(map[string]*Interface, len(interfaces))
	for _, iface := range interfaces {
		inDegree[iface.DTMI] = 0
		byDTMI[iface.DTMI] = iface
	}
	for _, iface := range interfaces {
		if len(iface.Extends) == 0 {
			continue
		}
		parent := iface.Extends[0]
		if _, ok := byDTMI[parent]; ok {
			inDegree[iface.DTMI]++
			children[parent] = append(children[parent], iface.DTMI)
		}
	}

	var queue []string
	for _, iface := range interfaces {
		if inDegree[iface.DTMI] == 0 {
			queue = append(queue, iface.DTMI)
		}
	}

	var sorted []*Interface
	seen := map[string]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sorted = append(sorted, byDTMI[cur])
		seen[cur] = true
		for _, child := range children[cur] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for _, iface := range interfaces {
		if !seen[iface.DTMI] {
			sorted = append(sorted, iface)
		}
	}
	return sorted
}

func (ex *Extractor) convertInterface(iface *Interface, result *entities.ConversionResult) (*entities.EntityType, error) {
	baseID := ""
	if len(iface.Extends) > 0 {
		parent := iface.Extends[0]
		if _, ok := ex.interfaceByDTMI[parent]; ok {
			if ex.inheritanceDepth(iface.DTMI, map[string]bool{}) > maxExtendsDepth {
				return nil, fmt.Errorf("inheritance depth exceeds %d", maxExtendsDepth)
			}
			baseID = parent
		}
	}

	e := &entities.EntityType{
		Name:          entities.SanitizeIdentifierName(iface.Name()),
		Namespace:     ex.Namespace,
		NamespaceType: entities.NamespaceTypeCustom,
		Visibility:    entities.VisibilityPrivate,
		EntityIDParts: []string{},
		SourceURI:     iface.DTMI,
	}
	if baseID != "" {
		e.BaseEntityTypeID = baseID
	}

	for _, prop := range iface.Properties {
		valueType := ex.schemaToFabricType(prop.Schema)
		name := ex.resolvePropertyName(prop.Name, valueType, iface, result)
		p := &entities.EntityTypeProperty{
			Name:      entities.SanitizeIdentifierName(name),
			ValueType: valueType,
		}
		e.AddProperty(p)
		if e.DisplayNamePropertyID == "" && valueType == entities.ValueTypeString {
			e.DisplayNamePropertyID = p.Name // resolved to numeric ID by idgen
		}
	}

	for _, tel := range iface.Telemetries {
		valueType := ex.schemaToFabricType(tel.Schema)
		name := ex.resolvePropertyName(tel.Name, valueType, iface, result)
		e.AddProperty(&entities.EntityTypeProperty{
			Name:         entities.SanitizeIdentifierName(name),
			ValueType:    valueType,
			IsTimeseries: true,
		})
	}

	if ex.IncludeCommands {
		for _, cmd := range iface.Commands {
			e.AddProperty(&entities.EntityTypeProperty{
				Name:      entities.SanitizeIdentifierName("command_" + cmd.Name),
				ValueType: entities.ValueTypeString,
			})
		}
	}

	if ex.FlattenComponents {
		for _, comp := range iface.Components {
			compIface, ok := ex.interfaceByDTMI[comp.Schema]
			if !ok {
				continue
			}
			prefix := comp.Name + "_"
			for _, prop := range compIface.Properties {
				valueType := ex.schemaToFabricType(prop.Schema)
				e.AddProperty(&entities.EntityTypeProperty{
					Name:      entities.SanitizeIdentifierName(prefix + prop.Name),
					ValueType: valueType,
				})
			}
		}
	}

	for _, p := range e.Properties {
		if p.ValueType == entities.ValueTypeBigInt {
			e.EntityIDParts = []string{p.Name}
			break
		}
	}

	return e, nil
}

// inheritanceDepth walks the extends chain counting hops, stopping at
// the first cycle or external parent.
func (ex *Extractor) inheritanceDepth(dtmi string, visited map[string]bool) int {
	if visited[dtmi] {
		return 0
	}
	visited[dtmi] = true
	iface, ok := ex.interfaceByDTMI[dtmi]
	if !ok || len(iface.Extends) == 0 {
		return 0
	}
	parent := iface.Extends[0]
	if _, ok := ex.interfaceByDTMI[parent]; !ok {
		return 0
	}
	return 1 + ex.inheritanceDepth(parent, visited)
}

// resolvePropertyName implements §4.F's name-conflict rule: a property
// name that collides with an ancestor's (or a sibling interface's)
// occurrence of the same name under a different Fabric type is suffixed
// `_{lowercased_fabric_type}`; identical type is an intentional override
// and keeps the bare name. A rename is recorded as a conversion warning
// so the collision is visible in the §8 report, not just the bundle.
func (ex *Extractor) resolvePropertyName(name string, valueType entities.ValueType, iface *Interface, result *entities.ConversionResult) string {
	ancestorType, fromAncestor := ex.ancestorPropertyType(iface, name, map[string]bool{})
	if fromAncestor && ancestorType != valueType {
		renamed := fmt.Sprintf("%s_%s", name, strings.ToLower(string(valueType)))
		result.AddWarning(entities.ConversionWarning{
			Severity:  entities.SeverityConvertedWithLimitations,
			Construct: "Property",
			Name:      name,
			Message:   fmt.Sprintf("property %q redeclared as %s on %s, conflicting with ancestor's %s; renamed to %s", name, valueType, iface.Name(), ancestorType, renamed),
			SourceURI: iface.DTMI,
		})
		return renamed
	}

	if registered, ok := ex.propertyTypes[name]; ok {
		if registered != valueType {
			renamed := fmt.Sprintf("%s_%s", name, strings.ToLower(string(valueType)))
			result.AddWarning(entities.ConversionWarning{
				Severity:  entities.SeverityConvertedWithLimitations,
				Construct: "Property",
				Name:      name,
				Message:   fmt.Sprintf("property %q redeclared as %s on %s, conflicting with another interface's %s; renamed to %s", name, valueType, iface.Name(), registered, renamed),
				SourceURI: iface.DTMI,
			})
			return renamed
		}
		return name
	}
	ex.propertyTypes[name] = valueType
	return name
}

func (ex *Extractor) ancestorPropertyType(iface *Interface, name string, visited map[string]bool) (entities.ValueType, bool) {
	for _, parentDTMI := range iface.Extends {
		if visited[parentDTMI] {
			continue
		}
		visited[parentDTMI] = true
		parent, ok := ex.interfaceByDTMI[parentDTMI]
		if !ok {
			continue
		}
		for _, p := range parent.Properties {
			if p.Name == name {
				return ex.schemaToFabricType(p.Schema), true
			}
		}
		for _, t := range parent.Telemetries {
			if t.Name == name {
				return ex.schemaToFabricType(t.Schema), true
			}
		}
		if vt, ok := ex.ancestorPropertyType(parent, name, visited); ok {
			return vt, true
		}
	}
	return "", false
}

func (ex *Extractor) schemaToFabricType(s Schema) entities.ValueType {
	switch s.Kind {
	case SchemaPrimitive:
		return typemap.MapDTDLPrimitive(s.Primitive)
	case SchemaDTMIRef:
		return entities.ValueTypeString
	case SchemaEnum:
		return typemap.MapDTDLPrimitive(s.Primitive)
	case SchemaObject, SchemaArray, SchemaMap, SchemaScaledDecimal:
		return entities.ValueTypeString
	default:
		return entities.ValueTypeString
	}
}

func (ex *Extractor) convertRelationship(rel Relationship, sourceIface *Interface) (*entities.RelationshipType, error) {
	if rel.Target == "" {
		return nil, fmt.Errorf("relationship %s has no target", rel.Name)
	}
	if rel.MaxMultiplicity != nil && *rel.MaxMultiplicity < 1 {
		return nil, fmt.Errorf("relationship %s has maxMultiplicity < 1", rel.Name)
	}
	return &entities.RelationshipType{
		Name:          entities.SanitizeIdentifierName(rel.Name),
		Namespace:     ex.Namespace,
		NamespaceType: entities.NamespaceTypeCustom,
		Source:        entities.RelationshipEnd{EntityTypeID: sourceIface.DTMI},
		Target:        entities.RelationshipEnd{EntityTypeID: rel.Target},
		SourceURI:     relationshipURI(rel, sourceIface),
	}, nil
}

func relationshipURI(rel Relationship, iface *Interface) string {
	if rel.DTMI != "" {
		return rel.DTMI
	}
	return iface.DTMI + ":" + rel.Name
}
