package entities

// ValueType is a Fabric ontology property primitive (§3).
type ValueType string

const (
	ValueTypeString   ValueType = "String"
	ValueTypeBoolean  ValueType = "Boolean"
	ValueTypeDateTime ValueType = "DateTime"
	ValueTypeBigInt   ValueType = "BigInt"
	ValueTypeDouble   ValueType = "Double"
	ValueTypeDecimal  ValueType = "Decimal"
)

// IsIDEligible reports whether a property of this value type may be used
// in EntityIdParts or as a relationship key (§3: "String or BigInt").
func (v ValueType) IsIDEligible() bool {
	return v == ValueTypeString || v == ValueTypeBigInt
}

// Valid reports whether v is one of the six Fabric value types.
func (v ValueType) Valid() bool {
	switch v {
	case ValueTypeString, ValueTypeBoolean, ValueTypeDateTime, ValueTypeBigInt, ValueTypeDouble, ValueTypeDecimal:
		return true
	default:
		return false
	}
}

// NamespaceType routes an entity/relationship type to a Fabric namespace
// kind. Only "Custom" is exercised by the converters; the type exists so
// bundles round-trip namespace metadata the remote service expects.
type NamespaceType string

const (
	NamespaceTypeCustom NamespaceType = "Custom"
)

// Visibility controls discoverability of an entity/relationship type
// within its workspace.
type Visibility string

const (
	VisibilityPrivate Visibility = "Private"
	VisibilityPublic  Visibility = "Public"
)

// EntityTypeProperty is one non-timeseries-or-timeseries attribute of an
// EntityType (§3).
type EntityTypeProperty struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ValueType    ValueType `json:"valueType"`
	Redefines    string    `json:"redefines,omitempty"`
	IsTimeseries bool      `json:"-"`
}

// Validate checks the property's own invariants (name grammar, value type
// membership). It does not check cross-entity references.
func (p *EntityTypeProperty) Validate() error {
	var errs ValidationErrors
	if err := ValidateName(p.Name); err != nil {
		errs.Add("EntityTypeProperty", "Name", p.Name, "invalid name", err)
	}
	if p.ID == "" {
		errs.Add("EntityTypeProperty", "ID", p.ID, "id cannot be empty", ErrEmptyID)
	}
	if !p.ValueType.Valid() {
		errs.Add("EntityTypeProperty", "ValueType", string(p.ValueType), "unknown value type", nil)
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// EntityType is one class in the target ontology (§3).
type EntityType struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	Namespace             string                `json:"namespace"`
	NamespaceType         NamespaceType         `json:"namespaceType"`
	Visibility            Visibility            `json:"visibility"`
	BaseEntityTypeID      string                `json:"baseEntityTypeId,omitempty"`
	EntityIDParts         []string              `json:"entityIdParts"`
	DisplayNamePropertyID string                `json:"displayNamePropertyId,omitempty"`
	Properties            []*EntityTypeProperty `json:"properties"`
	TimeseriesProperties   []*EntityTypeProperty `json:"timeseriesProperties"`

	// SourceURI is the originating source-format identifier (class URI,
	// DTMI, or CDM corpus path); not serialized into the Fabric bundle but
	// used for compliance reporting and diagnostics.
	SourceURI string `json:"-"`
}

// NewEntityType creates a validated, empty EntityType.
func NewEntityType(id, name, namespace string) (*EntityType, error) {
	if err := ValidateName(name); err != nil {
		return nil, NewValidationError("EntityType", "Name", name, "invalid name", err)
	}
	if id == "" {
		return nil, NewValidationError("EntityType", "ID", id, "id cannot be empty", ErrEmptyID)
	}
	return &EntityType{
		ID:            id,
		Name:          name,
		Namespace:     namespace,
		NamespaceType: NamespaceTypeCustom,
		Visibility:    VisibilityPrivate,
		EntityIDParts: []string{},
		Properties:    []*EntityTypeProperty{},
		TimeseriesProperties: []*EntityTypeProperty{},
	}, nil
}

// AddProperty appends a non-timeseries property, routing to the
// timeseries collection when IsTimeseries is set (§4.E.3, §4.F).
func (e *EntityType) AddProperty(p *EntityTypeProperty) {
	if p.IsTimeseries {
		e.TimeseriesProperties = append(e.TimeseriesProperties, p)
		return
	}
	e.Properties = append(e.Properties, p)
}

// FindProperty looks up a property by name across both collections.
func (e *EntityType) FindProperty(name string) *EntityTypeProperty {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	for _, p := range e.TimeseriesProperties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AllProperties returns properties and timeseries properties concatenated,
// properties first, a convenience for lookups that don't care about the
// routing distinction.
func (e *EntityType) AllProperties() []*EntityTypeProperty {
	out := make([]*EntityTypeProperty, 0, len(e.Properties)+len(e.TimeseriesProperties))
	out = append(out, e.Properties...)
	out = append(out, e.TimeseriesProperties...)
	return out
}

// Validate checks the entity type's own invariants. Cross-entity
// invariants (base type resolves, entityIdParts reference valid
// properties of the right value type) are checked by the limits
// validator (§4.J) once the full bundle is assembled.
func (e *EntityType) Validate() error {
	var errs ValidationErrors
	if err := ValidateName(e.Name); err != nil {
		errs.Add("EntityType", "Name", e.Name, "invalid name", err)
	}
	if e.ID == "" {
		errs.Add("EntityType", "ID", e.ID, "id cannot be empty", ErrEmptyID)
	}
	if e.BaseEntityTypeID == e.ID && e.ID != "" {
		errs.Add("EntityType", "BaseEntityTypeId", e.ID, "entity type cannot inherit from itself", ErrCyclicInheritance)
	}
	for _, p := range e.AllProperties() {
		if err := p.Validate(); err != nil {
			errs.Add("EntityType", "Properties", p.Name, err.Error(), err)
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// RelationshipEnd identifies the entity type at one end of a relationship.
type RelationshipEnd struct {
	EntityTypeID string `json:"entityTypeId"`
}

// RelationshipType is a named directed edge kind between two entity
// types (§3).
type RelationshipType struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Namespace     string          `json:"namespace"`
	NamespaceType NamespaceType   `json:"namespaceType"`
	Source        RelationshipEnd `json:"source"`
	Target        RelationshipEnd `json:"target"`

	// Inferred records whether this relationship's domain/range was
	// inferred from observed instance usage rather than declared
	// explicitly (§9 Open Question, loose_inference). Included in the
	// bundle's relationship-definition JSON so a user inspecting the
	// output (or a CI pipeline diffing it) can tell which relationships
	// were guessed rather than declared.
	Inferred bool `json:"inferred,omitempty"`

	SourceURI string `json:"-"`
}

// NewRelationshipType creates a validated RelationshipType.
func NewRelationshipType(id, name, namespace, sourceEntityTypeID, targetEntityTypeID string) (*RelationshipType, error) {
	if err := ValidateName(name); err != nil {
		return nil, NewValidationError("RelationshipType", "Name", name, "invalid name", err)
	}
	if id == "" {
		return nil, NewValidationError("RelationshipType", "ID", id, "id cannot be empty", ErrEmptyID)
	}
	if sourceEntityTypeID == "" || targetEntityTypeID == "" {
		return nil, NewValidationError("RelationshipType", "Source/Target", "", "source and target entity type ids are required", nil)
	}
	return &RelationshipType{
		ID:            id,
		Name:          name,
		Namespace:     namespace,
		NamespaceType: NamespaceTypeCustom,
		Source:        RelationshipEnd{EntityTypeID: sourceEntityTypeID},
		Target:        RelationshipEnd{EntityTypeID: targetEntityTypeID},
	}, nil
}

// Validate checks the relationship type's own invariants.
func (r *RelationshipType) Validate() error {
	var errs ValidationErrors
	if err := ValidateName(r.Name); err != nil {
		errs.Add("RelationshipType", "Name", r.Name, "invalid name", err)
	}
	if r.ID == "" {
		errs.Add("RelationshipType", "ID", r.ID, "id cannot be empty", ErrEmptyID)
	}
	if r.Source.EntityTypeID == "" {
		errs.Add("RelationshipType", "Source", "", "source entity type id is required", nil)
	}
	if r.Target.EntityTypeID == "" {
		errs.Add("RelationshipType", "Target", "", "target entity type id is required", nil)
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
