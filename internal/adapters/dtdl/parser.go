package dtdl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ParseResult accumulates interfaces and non-fatal errors across one or
// more source files, mirroring the Python parser's tolerant per-file
// error collection so one bad file doesn't abort a directory parse.
type ParseResult struct {
	Interfaces []*Interface
	Errors     []string
	Warnings   []string
	FilesParsed int
}

var dtdlExtensions = map[string]bool{".json": true, ".dtdl": true}

// ParseFile parses a single DTDL JSON document: a single Interface
// object, an array of Interface objects, or a JSON-LD `@graph` wrapper.
func ParseFile(path string) *ParseResult {
	result := &ParseResult{}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
		return result
	}
	if ext := strings.ToLower(filepath.Ext(path)); !dtdlExtensions[ext] {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: unexpected file extension %s", path, ext))
	}

	result.FilesParsed = 1
	parseJSONContent(content, path, result)
	return result
}

// ParseDirectory parses every .json/.dtdl file under dir, optionally
// recursing into subdirectories. Files are visited in sorted order for
// deterministic output.
func ParseDirectory(dir string, recursive bool) *ParseResult {
	result := &ParseResult{}

	var files []string
	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if dtdlExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", dir, walkErr))
		return result
	}
	sort.Strings(files)

	if len(files) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no DTDL files found in %s", dir))
		return result
	}

	for _, f := range files {
		fr := ParseFile(f)
		result.Interfaces = append(result.Interfaces, fr.Interfaces...)
		result.Errors = append(result.Errors, fr.Errors...)
		result.Warnings = append(result.Warnings, fr.Warnings...)
		result.FilesParsed += fr.FilesParsed
	}
	return result
}

func parseJSONContent(content []byte, source string, result *ParseResult) {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: invalid JSON: %v", source, err))
		return
	}

	switch v := raw.(type) {
	case []any:
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: array item at index %d is not an object", source, i))
				continue
			}
			iface, err := parseInterface(obj, source)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: error parsing interface at index %d: %v", source, i, err))
				continue
			}
			if iface != nil {
				result.Interfaces = append(result.Interfaces, iface)
			}
		}
	case map[string]any:
		if v["@type"] == "Interface" {
			iface, err := parseInterface(v, source)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: error parsing interface: %v", source, err))
				return
			}
			if iface != nil {
				result.Interfaces = append(result.Interfaces, iface)
			}
			return
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				obj, ok := item.(map[string]any)
				if !ok || obj["@type"] != "Interface" {
					continue
				}
				iface, err := parseInterface(obj, source)
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: error parsing interface in @graph: %v", source, err))
					continue
				}
				if iface != nil {
					result.Interfaces = append(result.Interfaces, iface)
				}
			}
			return
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: document does not contain an Interface", source))
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("%s: expected object or array at top level", source))
	}
}

func parseInterface(data map[string]any, source string) (*Interface, error) {
	dtmi, _ := data["@id"].(string)
	if dtmi == "" {
		return nil, fmt.Errorf("interface missing required @id field")
	}
	if data["@type"] != "Interface" {
		return nil, fmt.Errorf("expected @type='Interface', got %v", data["@type"])
	}

	contextVersion := 0
	switch ctx := data["@context"].(type) {
	case string:
		contextVersion = parseContextVersion(ctx)
	case []any:
		for _, c := range ctx {
			if s, ok := c.(string); ok {
				if v := parseContextVersion(s); v != 0 {
					contextVersion = v
				}
			}
		}
	}

	iface := &Interface{
		DTMI:           dtmi,
		DisplayName:    stringField(data, "displayName"),
		Description:    stringField(data, "description"),
		Extends:        parseExtends(data["extends"]),
		ContextVersion: contextVersion,
		SourceFile:     source,
	}

	contents, _ := data["contents"].([]any)
	for _, c := range contents {
		obj, ok := c.(map[string]any)
		if !ok {
			continue
		}
		baseType := firstType(obj["@type"])
		switch baseType {
		case "Property":
			p, err := parseProperty(obj)
			if err == nil {
				iface.Properties = append(iface.Properties, p)
			}
		case "Telemetry":
			t, err := parseTelemetry(obj)
			if err == nil {
				iface.Telemetries = append(iface.Telemetries, t)
			}
		case "Relationship":
			r, err := parseRelationship(obj)
			if err == nil {
				iface.Relationships = append(iface.Relationships, r)
			}
		case "Component":
			comp, err := parseComponent(obj)
			if err == nil {
				iface.Components = append(iface.Components, comp)
			}
		case "Command":
			cmd, err := parseCommand(obj)
			if err == nil {
				iface.Commands = append(iface.Commands, cmd)
			}
		}
	}

	return iface, nil
}

func parseContextVersion(ctx string) int {
	const prefix = "dtmi:dtdl:context;"
	if !strings.HasPrefix(ctx, prefix) {
		return 0
	}
	rest := strings.TrimPrefix(ctx, prefix)
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	v, err := strconv.Atoi(rest)
	if err != nil {
		return 0
	}
	return v
}

func parseExtends(v any) []string {
	switch e := v.(type) {
	case string:
		return []string{e}
	case []any:
		var out []string
		for _, item := range e {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func firstType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func parseSchema(v any) Schema {
	switch s := v.(type) {
	case nil:
		return Schema{Kind: SchemaPrimitive, Primitive: "string"}
	case string:
		if s == "scaledDecimal" {
			return Schema{Kind: SchemaScaledDecimal}
		}
		if strings.HasPrefix(s, "dtmi:") {
			return Schema{Kind: SchemaDTMIRef, Primitive: s}
		}
		return Schema{Kind: SchemaPrimitive, Primitive: s}
	case map[string]any:
		switch s["@type"] {
		case "Enum":
			valueSchema, _ := s["valueSchema"].(string)
			if valueSchema == "" {
				valueSchema = "integer"
			}
			return Schema{Kind: SchemaEnum, Primitive: valueSchema}
		case "Object":
			return Schema{Kind: SchemaObject}
		case "Array":
			return Schema{Kind: SchemaArray}
		case "Map":
			return Schema{Kind: SchemaMap}
		}
		return Schema{Kind: SchemaPrimitive, Primitive: "string"}
	}
	return Schema{Kind: SchemaPrimitive, Primitive: "string"}
}

func parseProperty(data map[string]any) (Property, error) {
	name := stringField(data, "name")
	if name == "" {
		return Property{}, fmt.Errorf("property missing required name field")
	}
	writable, _ := data["writable"].(bool)
	return Property{
		Name:     name,
		Schema:   parseSchema(data["schema"]),
		Writable: writable,
		DTMI:     stringField(data, "@id"),
	}, nil
}

func parseTelemetry(data map[string]any) (Telemetry, error) {
	name := stringField(data, "name")
	if name == "" {
		return Telemetry{}, fmt.Errorf("telemetry missing required name field")
	}
	return Telemetry{
		Name:   name,
		Schema: parseSchema(data["schema"]),
		DTMI:   stringField(data, "@id"),
	}, nil
}

func parseRelationship(data map[string]any) (Relationship, error) {
	name := stringField(data, "name")
	if name == "" {
		return Relationship{}, fmt.Errorf("relationship missing required name field")
	}
	var props []Property
	if rawProps, ok := data["properties"].([]any); ok {
		for _, p := range rawProps {
			if obj, ok := p.(map[string]any); ok {
				if prop, err := parseProperty(obj); err == nil {
					props = append(props, prop)
				}
			}
		}
	}
	minMult := 0
	if v, ok := data["minMultiplicity"].(float64); ok {
		minMult = int(v)
	}
	var maxMult *int
	if v, ok := data["maxMultiplicity"].(float64); ok {
		iv := int(v)
		maxMult = &iv
	}
	return Relationship{
		Name:            name,
		Target:          stringField(data, "target"),
		MinMultiplicity: minMult,
		MaxMultiplicity: maxMult,
		Properties:      props,
		DTMI:            stringField(data, "@id"),
	}, nil
}

func parseComponent(data map[string]any) (Component, error) {
	name := stringField(data, "name")
	if name == "" {
		return Component{}, fmt.Errorf("component missing required name field")
	}
	schema := stringField(data, "schema")
	if schema == "" {
		return Component{}, fmt.Errorf("component missing required schema field")
	}
	return Component{Name: name, Schema: schema, DTMI: stringField(data, "@id")}, nil
}

func parseCommand(data map[string]any) (Command, error) {
	name := stringField(data, "name")
	if name == "" {
		return Command{}, fmt.Errorf("command missing required name field")
	}
	cmd := Command{Name: name, DTMI: stringField(data, "@id")}
	if req, ok := data["request"].(map[string]any); ok {
		cmd.Request = parseCommandPayload(req)
	}
	if resp, ok := data["response"].(map[string]any); ok {
		cmd.Response = parseCommandPayload(resp)
	}
	return cmd, nil
}

func parseCommandPayload(data map[string]any) *CommandPayload {
	name := stringField(data, "name")
	if name == "" {
		name = "payload"
	}
	return &CommandPayload{Name: name, Schema: parseSchema(data["schema"])}
}
