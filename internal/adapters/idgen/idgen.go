// Package idgen assigns Fabric-compatible numeric IDs to converted
// entity types, properties, and relationship types (§4.D).
//
// IDs are derived deterministically from each construct's SourceURI
// rather than handed out by a simple incrementing counter: re-converting
// the same source document (or the same DTMI across a DTDL model
// upgrade) must produce the same entity type ID, so that a second
// `upload` of an updated ontology updates rather than duplicates
// entities in the Fabric workspace. The original DTDL converter used
// this hashing scheme only for DTMIs; here it is generalized to every
// source format since RDF class URIs and CDM corpus paths need the same
// re-conversion stability.
package idgen

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// DefaultPrefix is the default starting offset for generated IDs (§4.D).
const DefaultPrefix int64 = 1_000_000_000_000

const idModulus int64 = 1_000_000_000_000

// Generator assigns stable numeric IDs within one conversion run. It
// caches by SourceURI so the same source construct always gets the same
// ID even if it is visited more than once while wiring references.
type Generator struct {
	prefix int64
	cache  map[string]string
}

// NewGenerator creates a Generator offset by prefix. A zero prefix is
// replaced with DefaultPrefix.
func NewGenerator(prefix int64) *Generator {
	if prefix == 0 {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix, cache: make(map[string]string)}
}

// EntityID returns the stable Fabric ID for a source construct identified
// by sourceURI (a class URI, a DTMI, or a CDM corpus path).
func (g *Generator) EntityID(sourceURI string) string {
	if id, ok := g.cache[sourceURI]; ok {
		return id
	}
	clean := cleanSourceURI(sourceURI)
	sum := sha256.Sum256([]byte(clean))
	hashInt := int64(binary.BigEndian.Uint64(sum[:8]) >> 1) // keep non-negative
	id := strconv.FormatInt(g.prefix+(hashInt%idModulus), 10)
	g.cache[sourceURI] = id
	return id
}

// PropertyID derives a property's sub-ID from its owning entity's ID and
// its name, so the same property always lands at the same ID relative to
// its entity.
func PropertyID(entityID, propertyName string) string {
	sum := md5.Sum([]byte(propertyName))
	hashInt := binary.BigEndian.Uint32(sum[:4])
	return fmt.Sprintf("%s%04d", entityID, hashInt%10000)
}

// cleanSourceURI strips a `dtmi:` scheme and any `;version` suffix so
// that ID derivation is stable across DTDL version bumps (§4.D, §4.F).
func cleanSourceURI(sourceURI string) string {
	s := strings.TrimPrefix(sourceURI, "dtmi:")
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return s
}

// AssignIDs walks a conversion result and fills in every EntityType,
// EntityTypeProperty, and RelationshipType ID that is still empty,
// wiring BaseEntityTypeID/Source/Target references to the newly assigned
// IDs of the entity types they point at by SourceURI.
func (g *Generator) AssignIDs(result *entities.ConversionResult) error {
	bySourceURI := make(map[string]*entities.EntityType, len(result.EntityTypes))

	for _, e := range result.EntityTypes {
		if e.ID == "" {
			e.ID = g.EntityID(e.SourceURI)
		}
		bySourceURI[e.SourceURI] = e
	}

	for _, e := range result.EntityTypes {
		if e.BaseEntityTypeID != "" && !isNumericID(e.BaseEntityTypeID) {
			if base, ok := bySourceURI[e.BaseEntityTypeID]; ok {
				e.BaseEntityTypeID = base.ID
			}
		}

		byName := make(map[string]string, len(e.AllProperties()))
		for _, p := range e.AllProperties() {
			if p.ID == "" {
				p.ID = PropertyID(e.ID, p.Name)
			}
			byName[p.Name] = p.ID
		}

		// EntityIDParts/DisplayNamePropertyID are populated by extractors
		// with the property's name (its ID isn't known yet at extraction
		// time); rewire them to the now-assigned property ID.
		if e.DisplayNamePropertyID != "" && !isNumericID(e.DisplayNamePropertyID) {
			if id, ok := byName[e.DisplayNamePropertyID]; ok {
				e.DisplayNamePropertyID = id
			}
		}
		for i, part := range e.EntityIDParts {
			if !isNumericID(part) {
				if id, ok := byName[part]; ok {
					e.EntityIDParts[i] = id
				}
			}
		}
	}

	for _, r := range result.RelationshipTypes {
		if r.ID == "" {
			r.ID = g.EntityID(r.SourceURI)
		}
		if !isNumericID(r.Source.EntityTypeID) {
			if src, ok := bySourceURI[r.Source.EntityTypeID]; ok {
				r.Source.EntityTypeID = src.ID
			}
		}
		if !isNumericID(r.Target.EntityTypeID) {
			if tgt, ok := bySourceURI[r.Target.EntityTypeID]; ok {
				r.Target.EntityTypeID = tgt.ID
			}
		}
	}

	return nil
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
