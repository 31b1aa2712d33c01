// Package jsonschema lowers ir graphs into schema documents for the two
// supported dialects. Compile produces an Application: one fragment per
// requested root plus a shared, insertion-ordered components registry.
package jsonschema

import (
	"bytes"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/typekit/ir"
)

// Schema is one fragment of the output document, structurally mirroring one
// ir node.
type Schema struct {
	// References
	Ref             string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	RecursiveRef    string `json:"$recursiveRef,omitempty" yaml:"$recursiveRef,omitempty"`
	RecursiveAnchor bool   `json:"$recursiveAnchor,omitempty" yaml:"$recursiveAnchor,omitempty"`

	// Core
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum     []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Nullable *bool  `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// Object
	// Properties, Required, and JsDocTags are set on every object fragment;
	// Required and JsDocTags are pointers so an empty list still serializes.
	Properties *Properties  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   *[]string    `json:"required,omitempty" yaml:"required,omitempty"`
	JsDocTags  *[]ir.DocTag `json:"jsDocTags,omitempty" yaml:"jsDocTags,omitempty"`

	// Array / tuple. Items holds a *Schema, or a []*Schema for the
	// dialects that express tuples in array form.
	Items           any   `json:"items,omitempty" yaml:"items,omitempty"`
	AdditionalItems *bool `json:"additionalItems,omitempty" yaml:"additionalItems,omitempty"`
	MinItems        *int  `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems        *int  `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
}

// Properties is an insertion-ordered property map; marshalling preserves
// declaration order so repeated compiles stay byte-identical.
type Properties struct {
	om orderedMap
}

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties { return &Properties{} }

// Set appends or replaces a property schema.
func (p *Properties) Set(name string, s *Schema) { p.om.set(name, s) }

// Get returns the schema for name.
func (p *Properties) Get(name string) (*Schema, bool) { return p.om.get(name) }

// Keys returns the property names in declaration order.
func (p *Properties) Keys() []string { return p.om.keys }

// Len returns the number of properties.
func (p *Properties) Len() int { return len(p.om.keys) }

func (p *Properties) MarshalJSON() ([]byte, error) { return p.om.marshalJSON() }

func (p *Properties) MarshalYAML() (any, error) { return p.om.marshalYAML() }

// Registry is the components store: generated name to schema fragment,
// write-once per Compile call and read-only afterward.
type Registry struct {
	prefix string
	om     orderedMap
}

// Keys returns component names in registration order.
func (r *Registry) Keys() []string { return r.om.keys }

// Len returns the number of registered components.
func (r *Registry) Len() int { return len(r.om.keys) }

// Get returns the fragment registered under the bare component name.
func (r *Registry) Get(name string) (*Schema, bool) { return r.om.get(name) }

// Resolve looks up a fragment by its prefixed reference target, the string a
// $ref in this application carries.
func (r *Registry) Resolve(ref string) (*Schema, bool) {
	if len(ref) < len(r.prefix) || ref[:len(r.prefix)] != r.prefix {
		return nil, false
	}
	return r.om.get(ref[len(r.prefix):])
}

func (r *Registry) add(name string, s *Schema) { r.om.set(name, s) }

func (r *Registry) has(name string) bool {
	_, ok := r.om.get(name)
	return ok
}

func (r *Registry) MarshalJSON() ([]byte, error) { return r.om.marshalJSON() }

func (r *Registry) MarshalYAML() (any, error) { return r.om.marshalYAML() }

type orderedMap struct {
	keys []string
	m    map[string]*Schema
}

func (om *orderedMap) set(key string, s *Schema) {
	if om.m == nil {
		om.m = map[string]*Schema{}
	}
	if _, ok := om.m[key]; !ok {
		om.keys = append(om.keys, key)
	}
	om.m[key] = s
}

func (om *orderedMap) get(key string) (*Schema, bool) {
	s, ok := om.m[key]
	return s, ok
}

func (om *orderedMap) marshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range om.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(om.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (om *orderedMap) marshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range om.keys {
		kn := &yaml.Node{}
		if err := kn.Encode(k); err != nil {
			return nil, err
		}
		vn := &yaml.Node{}
		if err := vn.Encode(om.m[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}
