// Package typemap holds the static type-mapping tables that convert
// each source format's primitive and complex schema types into the six
// Fabric value types (§4.C).
package typemap

import (
	"sort"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// XSD maps an XML Schema Datatypes local name (string, integer, ...) to
// its Fabric value type. Unknown names fall back to String at the call
// site, not in this table, so callers can distinguish "known to be
// string-shaped" from "unrecognized".
var XSD = map[string]entities.ValueType{
	"string":          entities.ValueTypeString,
	"anyURI":          entities.ValueTypeString,
	"time":            entities.ValueTypeString,
	"boolean":         entities.ValueTypeBoolean,
	"byte":            entities.ValueTypeBigInt,
	"short":           entities.ValueTypeBigInt,
	"int":             entities.ValueTypeBigInt,
	"integer":         entities.ValueTypeBigInt,
	"long":            entities.ValueTypeBigInt,
	"negativeInteger": entities.ValueTypeBigInt,
	"nonNegativeInteger": entities.ValueTypeBigInt,
	"nonPositiveInteger": entities.ValueTypeBigInt,
	"positiveInteger": entities.ValueTypeBigInt,
	"unsignedByte":    entities.ValueTypeBigInt,
	"unsignedShort":   entities.ValueTypeBigInt,
	"unsignedInt":     entities.ValueTypeBigInt,
	"unsignedLong":    entities.ValueTypeBigInt,
	"float":           entities.ValueTypeDouble,
	"double":          entities.ValueTypeDouble,
	"decimal":         entities.ValueTypeDouble,
	"date":            entities.ValueTypeDateTime,
	"dateTime":        entities.ValueTypeDateTime,
	"dateTimeStamp":   entities.ValueTypeDateTime,
	"gYear":           entities.ValueTypeDateTime,
	"gYearMonth":      entities.ValueTypeDateTime,
}

// DTDLPrimitive maps a DTDL v2/v3/v4 primitive schema name to its Fabric
// value type (§4.C, §4.F). scaledDecimal (DTDL v4) and geospatial
// schemas are JSON-encoded as String.
var DTDLPrimitive = map[string]entities.ValueType{
	"boolean":         entities.ValueTypeBoolean,
	"byte":            entities.ValueTypeBigInt,
	"short":           entities.ValueTypeBigInt,
	"integer":         entities.ValueTypeBigInt,
	"long":            entities.ValueTypeBigInt,
	"unsignedByte":    entities.ValueTypeBigInt,
	"unsignedShort":   entities.ValueTypeBigInt,
	"unsignedInteger": entities.ValueTypeBigInt,
	"unsignedLong":    entities.ValueTypeBigInt,
	"float":           entities.ValueTypeDouble,
	"double":          entities.ValueTypeDouble,
	"decimal":         entities.ValueTypeDouble,
	"scaledDecimal":   entities.ValueTypeString,
	"string":          entities.ValueTypeString,
	"uuid":            entities.ValueTypeString,
	"bytes":           entities.ValueTypeString,
	"date":            entities.ValueTypeDateTime,
	"dateTime":        entities.ValueTypeDateTime,
	"time":            entities.ValueTypeString,
	"duration":        entities.ValueTypeString,
	"point":           entities.ValueTypeString,
	"lineString":      entities.ValueTypeString,
	"polygon":         entities.ValueTypeString,
	"multiPoint":      entities.ValueTypeString,
	"multiLineString": entities.ValueTypeString,
	"multiPolygon":    entities.ValueTypeString,
}

// CDM maps a CDM primitive data type name to its Fabric value type
// (§4.C, §4.G). CDM's type vocabulary mirrors XSD closely with a handful
// of its own names (guid, int64, dateTimeOffset).
var CDM = map[string]entities.ValueType{
	"string":         entities.ValueTypeString,
	"guid":           entities.ValueTypeString,
	"char":           entities.ValueTypeString,
	"boolean":        entities.ValueTypeBoolean,
	"byte":           entities.ValueTypeBigInt,
	"int16":          entities.ValueTypeBigInt,
	"int32":          entities.ValueTypeBigInt,
	"int64":          entities.ValueTypeBigInt,
	"integer":        entities.ValueTypeBigInt,
	"float":          entities.ValueTypeDouble,
	"double":         entities.ValueTypeDouble,
	"decimal":        entities.ValueTypeDecimal,
	"date":           entities.ValueTypeDateTime,
	"dateTime":       entities.ValueTypeDateTime,
	"dateTimeOffset": entities.ValueTypeDateTime,
	"time":           entities.ValueTypeString,
	"json":           entities.ValueTypeString,
	"entityId":       entities.ValueTypeString,
}

// hierarchy orders Fabric value types from most to least restrictive for
// union resolution (§4.C: "Boolean > BigInt > Double > DateTime >
// String").
var hierarchy = []entities.ValueType{
	entities.ValueTypeBoolean,
	entities.ValueTypeBigInt,
	entities.ValueTypeDouble,
	entities.ValueTypeDateTime,
	entities.ValueTypeString,
}

// ResolveUnion picks the single Fabric value type that covers every
// member of an `owl:unionOf` datatype union: the most restrictive
// hierarchy tier present among the XSD-mapped members. Members that
// don't resolve through XSD at all force a fallback to String, and the
// caller is told which raw member names drove that fallback so it can
// emit a compliance warning (§4.C).
func ResolveUnion(xsdMembers []string) (entities.ValueType, []string) {
	present := make(map[entities.ValueType]bool)
	var unmapped []string
	for _, m := range xsdMembers {
		local := localName(m)
		vt, ok := XSD[local]
		if !ok {
			unmapped = append(unmapped, m)
			continue
		}
		present[vt] = true
	}

	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		return entities.ValueTypeString, unmapped
	}

	for _, tier := range hierarchy {
		if present[tier] {
			return tier, nil
		}
	}
	return entities.ValueTypeString, nil
}

// localName strips a namespace prefix or full XSD URI down to the bare
// type name ("http://www.w3.org/2001/XMLSchema#integer" -> "integer",
// "xsd:integer" -> "integer").
func localName(uriOrQName string) string {
	if i := strings.LastIndexAny(uriOrQName, "#/"); i >= 0 {
		return uriOrQName[i+1:]
	}
	if i := strings.IndexByte(uriOrQName, ':'); i >= 0 {
		return uriOrQName[i+1:]
	}
	return uriOrQName
}

// MapXSD maps a single XSD local type name or URI, defaulting to String
// for anything not in the table.
func MapXSD(nameOrURI string) entities.ValueType {
	if vt, ok := XSD[localName(nameOrURI)]; ok {
		return vt
	}
	return entities.ValueTypeString
}

// MapDTDLPrimitive maps a single DTDL primitive schema name, defaulting
// to String for anything not in the table (complex schemas are handled
// by the dtdl adapter directly, not through this map).
func MapDTDLPrimitive(name string) entities.ValueType {
	if vt, ok := DTDLPrimitive[name]; ok {
		return vt
	}
	return entities.ValueTypeString
}

// MapCDM maps a single CDM data type name, defaulting to String.
func MapCDM(name string) entities.ValueType {
	if vt, ok := CDM[name]; ok {
		return vt
	}
	return entities.ValueTypeString
}

// xsdForValueType picks the canonical XSD local name emitted for each
// Fabric value type when re-exporting to Turtle (§4.K). This is the
// inverse of XSD, collapsed to one representative name per value type
// since the forward map is many-to-one.
var xsdForValueType = map[entities.ValueType]string{
	entities.ValueTypeString:   "string",
	entities.ValueTypeBoolean:  "boolean",
	entities.ValueTypeDateTime: "dateTime",
	entities.ValueTypeBigInt:   "integer",
	entities.ValueTypeDouble:   "double",
	entities.ValueTypeDecimal:  "decimal",
}

// XSDForValueType returns the XML Schema Datatypes IRI to use as
// rdfs:range for a Fabric value type, defaulting to xsd:string for any
// unrecognized value.
func XSDForValueType(vt entities.ValueType) string {
	name, ok := xsdForValueType[vt]
	if !ok {
		name = "string"
	}
	return "http://www.w3.org/2001/XMLSchema#" + name
}
