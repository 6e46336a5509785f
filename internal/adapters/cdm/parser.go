package cdm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ParseResult accumulates one parsed Manifest plus non-fatal errors and
// warnings (mirrors the DTDL parser's tolerant collection style).
type ParseResult struct {
	Manifest *Manifest
	Errors   []string
	Warnings []string
}

// Parser loads CDM manifests and entity schemas, resolving corpus-path
// entity references against a base directory and tracking loaded files
// to prevent recursive reloads (§4.G).
type Parser struct {
	ResolveReferences bool
	MaxDepth          int

	loadedPaths map[string]bool
	basePath    string
}

// NewParser creates a Parser with reference resolution enabled.
func NewParser() *Parser {
	return &Parser{ResolveReferences: true, MaxDepth: 10}
}

// ParseFile loads and parses a single CDM document, or dispatches to
// ParseFolder if path is a directory.
func (p *Parser) ParseFile(path string) *ParseResult {
	info, err := os.Stat(path)
	if err != nil {
		return &ParseResult{Errors: []string{fmt.Sprintf("%s: %v", path, err)}}
	}
	if info.IsDir() {
		return p.ParseFolder(path)
	}

	p.basePath = filepath.Dir(path)
	resolved, _ := filepath.Abs(path)
	p.loadedPaths = map[string]bool{resolved: true}

	content, err := os.ReadFile(path)
	if err != nil {
		return &ParseResult{Errors: []string{fmt.Sprintf("%s: %v", path, err)}}
	}
	return p.parseContent(content, path)
}

// ParseFolder looks for a manifest file first, then model.json, then
// falls back to collecting every *.cdm.json file into a synthetic
// manifest (§4.G).
func (p *Parser) ParseFolder(dir string) *ParseResult {
	p.basePath = dir
	p.loadedPaths = map[string]bool{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ParseResult{Errors: []string{fmt.Sprintf("%s: %v", dir, err)}}
	}

	var manifestFiles, modelJSON, cdmFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(strings.ToLower(name), ".manifest.cdm.json"):
			manifestFiles = append(manifestFiles, filepath.Join(dir, name))
		case strings.EqualFold(name, "model.json"):
			modelJSON = append(modelJSON, filepath.Join(dir, name))
		case strings.HasSuffix(strings.ToLower(name), ".cdm.json"):
			cdmFiles = append(cdmFiles, filepath.Join(dir, name))
		}
	}
	sort.Strings(manifestFiles)
	sort.Strings(cdmFiles)

	if len(manifestFiles) > 0 {
		return p.ParseFile(manifestFiles[0])
	}
	if len(modelJSON) > 0 {
		return p.ParseFile(modelJSON[0])
	}
	if len(cdmFiles) > 0 {
		var allEntities []Entity
		var errs, warns []string
		for _, f := range cdmFiles {
			resolved, _ := filepath.Abs(f)
			if p.loadedPaths[resolved] {
				continue
			}
			p.loadedPaths[resolved] = true
			content, err := os.ReadFile(f)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", f, err))
				continue
			}
			var raw map[string]any
			if err := json.Unmarshal(content, &raw); err != nil {
				errs = append(errs, fmt.Sprintf("%s: invalid JSON: %v", f, err))
				continue
			}
			m, w := p.parseEntitySchemaData(raw, f)
			allEntities = append(allEntities, m.Entities...)
			warns = append(warns, w...)
		}
		return &ParseResult{
			Manifest: &Manifest{Name: filepath.Base(dir), Entities: allEntities, SourcePath: dir},
			Errors:   errs,
			Warnings: warns,
		}
	}

	return &ParseResult{Errors: []string{fmt.Sprintf("no CDM files found in folder: %s", dir)}}
}

func (p *Parser) parseContent(content []byte, filePath string) *ParseResult {
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return &ParseResult{Errors: []string{fmt.Sprintf("%s: invalid JSON: %v", filePath, err)}}
	}

	var manifest *Manifest
	var warns []string
	switch detectDocumentType(raw, filePath) {
	case "manifest":
		manifest, warns = p.parseManifestData(raw, filePath)
	case "model_json":
		manifest = p.parseModelJSONData(raw, filePath)
	default:
		manifest, warns = p.parseEntitySchemaData(raw, filePath)
	}
	return &ParseResult{Manifest: manifest, Warnings: warns}
}

func detectDocumentType(data map[string]any, filePath string) string {
	lower := strings.ToLower(filePath)
	if strings.HasSuffix(lower, ".manifest.cdm.json") {
		return "manifest"
	}
	if strings.HasSuffix(lower, "model.json") {
		return "model_json"
	}

	_, hasManifestName := data["manifestName"]
	_, hasEntities := data["entities"]
	_, hasSchemaVersion := data["jsonSchemaSemanticVersion"]
	_, hasDefinitions := data["definitions"]

	if (hasManifestName || (hasEntities && hasSchemaVersion)) && !hasDefinitions {
		return "manifest"
	}
	if hasDefinitions {
		return "entity_schema"
	}
	if hasEntities {
		if _, ok := data["name"]; ok && !hasSchemaVersion {
			return "model_json"
		}
	}
	return "entity_schema"
}

func (p *Parser) parseManifestData(data map[string]any, filePath string) (*Manifest, []string) {
	var warns []string

	name, _ := data["manifestName"].(string)
	if name == "" {
		name, _ = data["folderName"].(string)
	}
	if name == "" {
		name = "unknown"
	}
	schemaVersion, _ := data["jsonSchemaSemanticVersion"].(string)
	if schemaVersion == "" {
		schemaVersion = "1.0.0"
	}

	var imports []string
	if raw, ok := data["imports"].([]any); ok {
		for _, imp := range raw {
			switch v := imp.(type) {
			case map[string]any:
				if cp, ok := v["corpusPath"].(string); ok {
					imports = append(imports, cp)
				}
			case string:
				imports = append(imports, v)
			}
		}
	}

	var entities []Entity
	if raw, ok := data["entities"].([]any); ok {
		for _, ref := range raw {
			resolved, w := p.resolveEntityReference(ref, filePath)
			entities = append(entities, resolved...)
			warns = append(warns, w...)
		}
	}

	var relationships []Relationship
	if raw, ok := data["relationships"].([]any); ok {
		for _, r := range raw {
			if obj, ok := r.(map[string]any); ok {
				if rel, ok := parseRelationshipData(obj); ok {
					relationships = append(relationships, rel)
				}
			}
		}
	}

	var subManifests []string
	if raw, ok := data["subManifests"].([]any); ok {
		for _, s := range raw {
			switch v := s.(type) {
			case map[string]any:
				if mp, ok := v["manifestPath"].(string); ok {
					subManifests = append(subManifests, mp)
				} else if def, ok := v["definition"].(string); ok {
					subManifests = append(subManifests, def)
				}
			case string:
				subManifests = append(subManifests, v)
			}
		}
	}

	return &Manifest{
		Name:          name,
		Entities:      entities,
		Relationships: relationships,
		SubManifests:  subManifests,
		SchemaVersion: schemaVersion,
		SourcePath:    filePath,
		Imports:       imports,
	}, warns
}

func (p *Parser) parseModelJSONData(data map[string]any, filePath string) *Manifest {
	name, _ := data["name"].(string)
	if name == "" {
		name = "model"
	}
	version, _ := data["version"].(string)
	if version == "" {
		version = "1.0"
	}

	rawEntities, _ := data["entities"].([]any)

	var entities []Entity
	for _, e := range rawEntities {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if ent, ok := parseModelJSONEntity(obj); ok {
			entities = append(entities, ent)
		}
	}

	var relationships []Relationship
	for _, e := range rawEntities {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		entityName, _ := obj["name"].(string)
		attrs, _ := obj["attributes"].([]any)
		for _, a := range attrs {
			attrObj, ok := a.(map[string]any)
			if !ok {
				continue
			}
			ref, ok := attrObj["attributeReference"].(map[string]any)
			if !ok {
				continue
			}
			attrName, _ := attrObj["name"].(string)
			toEntity, _ := ref["entityName"].(string)
			toAttr, _ := ref["attributeName"].(string)
			relationships = append(relationships, Relationship{
				FromEntity:    entityName,
				FromAttribute: attrName,
				ToEntity:      toEntity,
				ToAttribute:   toAttr,
			})
		}
	}

	return &Manifest{
		Name:          name,
		Entities:      entities,
		Relationships: relationships,
		SchemaVersion: version,
		SourcePath:    filePath,
	}
}

func parseModelJSONEntity(data map[string]any) (Entity, bool) {
	name, _ := data["name"].(string)
	if name == "" {
		name, _ = data["$name"].(string)
	}
	if name == "" {
		return Entity{}, false
	}
	description, _ := data["description"].(string)

	var attrs []Attribute
	if raw, ok := data["attributes"].([]any); ok {
		for _, a := range raw {
			obj, ok := a.(map[string]any)
			if !ok {
				continue
			}
			if attr, ok := parseModelJSONAttribute(obj); ok {
				attrs = append(attrs, attr)
			}
		}
	}

	return Entity{Name: name, Description: description, Attributes: attrs}, true
}

func parseModelJSONAttribute(data map[string]any) (Attribute, bool) {
	name, _ := data["name"].(string)
	if name == "" {
		name, _ = data["$name"].(string)
	}
	if name == "" {
		return Attribute{}, false
	}

	dataType := "string"
	switch v := data["dataType"].(type) {
	case string:
		dataType = v
	case map[string]any:
		if s, ok := v["dataType"].(string); ok {
			dataType = s
		}
	}

	isNullable := true
	if v, ok := data["isNullable"].(bool); ok {
		isNullable = v
	}
	var maxLen *int
	if v, ok := data["maximumLength"].(float64); ok {
		iv := int(v)
		maxLen = &iv
	}
	displayName, _ := data["displayName"].(string)
	description, _ := data["description"].(string)

	return Attribute{
		Name:          name,
		DataType:      dataType,
		Description:   description,
		IsNullable:    isNullable,
		MaximumLength: maxLen,
		DisplayName:   displayName,
	}, true
}

func (p *Parser) parseEntitySchemaData(data map[string]any, filePath string) (*Manifest, []string) {
	var warns []string
	schemaVersion, _ := data["jsonSchemaSemanticVersion"].(string)
	if schemaVersion == "" {
		schemaVersion = "1.0.0"
	}

	var entities []Entity
	if defs, ok := data["definitions"].([]any); ok {
		for _, d := range defs {
			obj, ok := d.(map[string]any)
			if !ok {
				continue
			}
			if ent, ok := parseEntityDefinition(obj, filePath); ok {
				entities = append(entities, ent)
			}
		}
	}

	if len(entities) == 0 {
		if _, ok := data["entityName"]; ok {
			if ent, ok := parseEntityDefinition(data, filePath); ok {
				entities = append(entities, ent)
			}
		}
	}

	name := "schema"
	if filePath != "" {
		base := filepath.Base(filePath)
		name = strings.TrimSuffix(strings.TrimSuffix(base, ".json"), ".cdm")
	}

	return &Manifest{Name: name, Entities: entities, SchemaVersion: schemaVersion, SourcePath: filePath}, warns
}

func parseEntityDefinition(data map[string]any, filePath string) (Entity, bool) {
	name, _ := data["entityName"].(string)
	if name == "" {
		return Entity{}, false
	}

	extends := ""
	switch v := data["extendsEntity"].(type) {
	case string:
		extends = v
	case map[string]any:
		if s, ok := v["entityReference"].(string); ok {
			extends = s
		} else if s, ok := v["source"].(string); ok {
			extends = s
		}
	}

	var attrs []Attribute
	if raw, ok := data["hasAttributes"].([]any); ok {
		for _, a := range raw {
			attrs = append(attrs, parseAttribute(a)...)
		}
	}

	exhibited := parseTraits(data["exhibitsTraits"])
	description, _ := data["description"].(string)
	displayName, _ := data["displayName"].(string)
	version, _ := data["version"].(string)

	return Entity{
		Name:           name,
		Description:    description,
		ExtendsEntity:  extends,
		Attributes:     attrs,
		ExhibitsTraits: exhibited,
		SourcePath:     filePath,
		DisplayName:    displayName,
		Version:        version,
	}, true
}

func parseAttribute(raw any) []Attribute {
	if s, ok := raw.(string); ok {
		return []Attribute{{Name: s, DataType: "string", IsNullable: true}}
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	if _, ok := data["attributeGroupReference"]; ok {
		// Attribute group expansion is not implemented; treat as no
		// attributes rather than guessing at the group's shape.
		return nil
	}

	if entRef, ok := data["entity"]; ok {
		return []Attribute{entityReferenceAttribute(data, entRef)}
	}
	if entRef, ok := data["entityReference"]; ok {
		return []Attribute{entityReferenceAttribute(data, entRef)}
	}

	if ref, ok := data["attributeReference"]; ok {
		name, _ := data["name"].(string)
		if name == "" {
			switch r := ref.(type) {
			case string:
				name = r
			case map[string]any:
				name, _ = r["name"].(string)
			}
		}
		if name == "" {
			name = "ref"
		}
		description, _ := data["description"].(string)
		return []Attribute{{Name: name, DataType: "string", Description: description, IsNullable: true}}
	}

	name, _ := data["name"].(string)
	if name == "" {
		return nil
	}

	dataType := "string"
	switch v := data["dataType"].(type) {
	case string:
		dataType = v
	case map[string]any:
		if s, ok := v["dataType"].(string); ok {
			dataType = s
		}
	}

	appliedTraits := parseTraits(data["appliedTraits"])

	purpose := ""
	switch v := data["purpose"].(type) {
	case string:
		purpose = v
	case map[string]any:
		purpose, _ = v["purposeReference"].(string)
	}

	var maxLen *int
	if v, ok := data["maximumLength"].(float64); ok {
		iv := int(v)
		maxLen = &iv
	} else {
		for _, t := range appliedTraits {
			if t.Reference != "is.constrained.length" {
				continue
			}
			for _, arg := range t.Arguments {
				if arg.Name == "maximumLength" && arg.Value != nil {
					if iv, ok := numericArg(arg.Value); ok {
						maxLen = &iv
					}
				}
			}
		}
	}

	isNullable := true
	if v, ok := data["isNullable"].(bool); ok {
		isNullable = v
	}
	var sourceOrdering *int
	if v, ok := data["sourceOrdering"].(float64); ok {
		iv := int(v)
		sourceOrdering = &iv
	}
	description, _ := data["description"].(string)
	displayName, _ := data["displayName"].(string)

	return []Attribute{{
		Name:           name,
		DataType:       dataType,
		Description:    description,
		AppliedTraits:  appliedTraits,
		Purpose:        purpose,
		IsNullable:     isNullable,
		MaximumLength:  maxLen,
		DisplayName:    displayName,
		SourceOrdering: sourceOrdering,
	}}
}

func entityReferenceAttribute(data map[string]any, _ any) Attribute {
	name, _ := data["name"].(string)
	if name == "" {
		name = "entityRef"
	}
	description, _ := data["description"].(string)
	purpose, _ := data["purpose"].(string)
	return Attribute{Name: name, DataType: "entity", Description: description, Purpose: purpose, IsNullable: true}
}

func numericArg(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		var iv int
		if _, err := fmt.Sscanf(n, "%d", &iv); err == nil {
			return iv, true
		}
	}
	return 0, false
}

func parseTraits(raw any) []Trait {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var traits []Trait
	for _, item := range items {
		switch v := item.(type) {
		case string:
			traits = append(traits, Trait{Reference: v})
		case map[string]any:
			ref, _ := v["traitReference"].(string)
			if ref == "" {
				ref, _ = v["traitName"].(string)
			}
			var args []TraitArgument
			if rawArgs, ok := v["arguments"].([]any); ok {
				for _, a := range rawArgs {
					switch arg := a.(type) {
					case map[string]any:
						name, _ := arg["name"].(string)
						args = append(args, TraitArgument{Name: name, Value: arg["value"]})
					default:
						args = append(args, TraitArgument{Value: arg})
					}
				}
			}
			traits = append(traits, Trait{Reference: ref, Arguments: args})
		}
	}
	return traits
}

func parseRelationshipData(data map[string]any) (Relationship, bool) {
	fromEntity, _ := data["fromEntity"].(string)
	toEntity, _ := data["toEntity"].(string)
	if fromEntity == "" || toEntity == "" {
		return Relationship{}, false
	}
	fromAttr, _ := data["fromEntityAttribute"].(string)
	toAttr, _ := data["toEntityAttribute"].(string)
	name, _ := data["name"].(string)
	traits := parseTraits(data["exhibitsTraits"])

	return Relationship{
		FromEntity:    fromEntity,
		FromAttribute: fromAttr,
		ToEntity:      toEntity,
		ToAttribute:   toAttr,
		Name:          name,
		Traits:        traits,
	}, true
}

// resolveEntityReference resolves one `entities[]` entry of a manifest:
// a corpus-path string, an inline/local entity reference, or a
// referenced-entity placeholder (§4.G).
func (p *Parser) resolveEntityReference(ref any, manifestPath string) ([]Entity, []string) {
	if s, ok := ref.(string); ok {
		if p.ResolveReferences && p.basePath != "" {
			return p.loadEntityFromPath(s)
		}
		return nil, nil
	}

	data, ok := ref.(map[string]any)
	if !ok {
		return nil, nil
	}

	entityType := ""
	if s, ok := data["type"].(string); ok {
		entityType = s
	} else if s, ok := data["$type"].(string); ok {
		entityType = s
	}

	switch strings.ToLower(entityType) {
	case "localentity", "local":
		entityPath, _ := data["entityPath"].(string)
		if entityPath == "" {
			entityPath, _ = data["entityDeclaration"].(string)
		}
		entityName, _ := data["entityName"].(string)

		if entityPath != "" && p.ResolveReferences && p.basePath != "" {
			loaded, warns := p.loadEntityFromPath(entityPath)
			if len(loaded) > 0 {
				return loaded, warns
			}
		}
		if entityName != "" {
			return []Entity{{Name: entityName}}, nil
		}
		if entityPath != "" {
			return []Entity{{Name: lastPathSegment(entityPath), SourcePath: entityPath}}, nil
		}
	case "referencedentity":
		if entityName, _ := data["entityName"].(string); entityName != "" {
			return []Entity{{Name: entityName}}, nil
		}
	}
	return nil, nil
}

// loadEntityFromPath resolves a CDM corpus path of the form
// "Folder/File.cdm.json/EntityName" against the base directory,
// refusing to reload a file already visited this parse (§4.G).
func (p *Parser) loadEntityFromPath(entityPath string) ([]Entity, []string) {
	if p.basePath == "" {
		return nil, nil
	}

	parts := strings.Split(entityPath, "/")
	var fileParts []string
	entityName := ""
	for i, part := range parts {
		fileParts = append(fileParts, part)
		if strings.HasSuffix(part, ".cdm.json") {
			if i+1 < len(parts) {
				entityName = parts[i+1]
			}
			break
		}
	}
	if len(fileParts) == 0 {
		return nil, nil
	}

	filePath := filepath.Join(append([]string{p.basePath}, fileParts...)...)
	resolved, _ := filepath.Abs(filePath)
	if p.loadedPaths[resolved] {
		return nil, nil
	}
	if _, err := os.Stat(filePath); err != nil {
		return nil, nil
	}
	p.loadedPaths[resolved] = true

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, []string{fmt.Sprintf("failed to load entity from %s: %v", filePath, err)}
	}
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, []string{fmt.Sprintf("failed to load entity from %s: %v", filePath, err)}
	}
	manifest, warns := p.parseEntitySchemaData(raw, filePath)

	if entityName != "" {
		for i := range manifest.Entities {
			if manifest.Entities[i].Name == entityName {
				return []Entity{manifest.Entities[i]}, warns
			}
		}
		return nil, warns
	}
	return manifest.Entities, warns
}
