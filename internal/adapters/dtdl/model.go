// Package dtdl parses and converts DTDL v2/v3/v4 interfaces into the
// Fabric intermediate model (§4.F).
package dtdl

import "strings"

// SchemaKind classifies a parsed DTDL schema reference.
type SchemaKind string

const (
	SchemaPrimitive     SchemaKind = "primitive"
	SchemaDTMIRef       SchemaKind = "dtmiRef"
	SchemaEnum          SchemaKind = "enum"
	SchemaObject        SchemaKind = "object"
	SchemaArray         SchemaKind = "array"
	SchemaMap           SchemaKind = "map"
	SchemaScaledDecimal SchemaKind = "scaledDecimal"
)

// Schema is a DTDL schema: a primitive name, a DTMI reference to another
// interface/schema, or a complex type. Only the information the type
// mapper and flattening logic need is retained; nested field/value
// structure of Object/Enum/Map is not modeled since Fabric has no
// structural equivalent (§4.C: complex types collapse to String).
type Schema struct {
	Kind SchemaKind

	// Primitive holds the DTDL primitive name for SchemaPrimitive, the
	// DTMI for SchemaDTMIRef, and the enum's valueSchema primitive name
	// for SchemaEnum.
	Primitive string
}

// Property is a DTDL Property content element.
type Property struct {
	Name     string
	Schema   Schema
	Writable bool
	DTMI     string
}

// Telemetry is a DTDL Telemetry content element.
type Telemetry struct {
	Name   string
	Schema Schema
	DTMI   string
}

// Relationship is a DTDL Relationship content element.
type Relationship struct {
	Name            string
	Target          string
	MinMultiplicity int
	MaxMultiplicity *int
	Properties      []Property
	DTMI            string
}

// Component is a DTDL Component content element: schema is always a
// DTMI reference to another interface.
type Component struct {
	Name   string
	Schema string
	DTMI   string
}

// CommandPayload is a Command's request or response payload.
type CommandPayload struct {
	Name   string
	Schema Schema
}

// Command is a DTDL Command content element.
type Command struct {
	Name     string
	Request  *CommandPayload
	Response *CommandPayload
	DTMI     string
}

// Interface is one parsed DTDL Interface.
type Interface struct {
	DTMI        string
	DisplayName string
	Description string
	Extends     []string

	Properties    []Property
	Telemetries   []Telemetry
	Relationships []Relationship
	Components    []Component
	Commands      []Command

	ContextVersion int
	SourceFile     string
}

// Name returns the interface's short local identifier: displayName if
// present, else the last DTMI path segment.
func (i *Interface) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return localSegment(i.DTMI)
}

func localSegment(dtmi string) string {
	path := dtmi
	if i := strings.IndexByte(path, ';'); i >= 0 {
		path = path[:i]
	}
	if i := strings.LastIndexByte(path, ':'); i >= 0 {
		return path[i+1:]
	}
	return path
}
