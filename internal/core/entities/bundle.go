package entities

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// PayloadType is the wire encoding tag for a bundle Part (§3, §6). Only
// InlineBase64 is produced by this module, but the type exists because the
// Fabric wire format names it explicitly.
type PayloadType string

const PayloadTypeInlineBase64 PayloadType = "InlineBase64"

// Part is one entry of the bundle wire format (§3, §6).
type Part struct {
	Path        string      `json:"path"`
	Payload     string      `json:"payload"`
	PayloadType PayloadType `json:"payloadType"`
}

// Bundle is the wire format accepted by the Fabric ontology service: an
// ordered list of parts (§3, §6). Once produced by the serializer a
// Bundle is treated as an immutable value by the resilient client (§3
// Lifecycle, §5 Shared-resource policy).
type Bundle struct {
	Parts []Part `json:"parts"`
}

// NewPart base64-encodes a JSON-serializable payload into a bundle Part.
func NewPart(path string, payload any) (Part, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Part{}, fmt.Errorf("marshal part %s: %w", path, err)
	}
	return Part{
		Path:        path,
		Payload:     base64.StdEncoding.EncodeToString(raw),
		PayloadType: PayloadTypeInlineBase64,
	}, nil
}

// Decode base64-decodes and JSON-unmarshals a part's payload into v.
func (p Part) Decode(v any) error {
	raw, err := base64.StdEncoding.DecodeString(p.Payload)
	if err != nil {
		return fmt.Errorf("decode part %s: %w", p.Path, err)
	}
	return json.Unmarshal(raw, v)
}

// SizeBytes returns the decoded payload size in bytes, used by the
// Fabric-limits validator's total-definition-size check (§4.J).
func (p Part) SizeBytes() int {
	raw, err := base64.StdEncoding.DecodeString(p.Payload)
	if err != nil {
		return 0
	}
	return len(raw)
}

// PlatformMetadata is the decoded shape of the `.platform` part (§6).
type PlatformMetadata struct {
	Metadata struct {
		Type        string `json:"type"`
		DisplayName string `json:"displayName"`
	} `json:"metadata"`
}

// NewPlatformPart builds the `.platform` part for a bundle with the given
// ontology display name (§3, §6).
func NewPlatformPart(displayName string) (Part, error) {
	meta := PlatformMetadata{}
	meta.Metadata.Type = "Ontology"
	meta.Metadata.DisplayName = displayName
	return NewPart(".platform", meta)
}

// NewEmptyDefinitionPart builds the required empty `definition.json`
// placeholder part (§3, §6).
func NewEmptyDefinitionPart() (Part, error) {
	return NewPart("definition.json", struct{}{})
}

// TotalSizeBytes sums the decoded size of every part, for the §4.J
// "total definition size ≤ 1024 KB" check.
func (b *Bundle) TotalSizeBytes() int {
	total := 0
	for _, p := range b.Parts {
		total += p.SizeBytes()
	}
	return total
}
