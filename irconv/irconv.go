// Package irconv converts YAML type-definition documents into ir graphs. It
// is one possible front-end for the compilers; cmd/typekit wires it into a
// build pipeline.
//
// A document declares named types and the roots to compile:
//
//	types:
//	  User:
//	    type: object
//	    properties:
//	      id: { type: string, format: uuid }
//	      note: { type: string, nullable: true }
//	    required: [id]
//	roots:
//	  - type: array
//	    items: { ref: User }
//
// A `ref` to a type currently being resolved becomes an explicit ir
// back-reference, so recursive declarations stay well-formed.
package irconv

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reoring/typekit/ir"
)

// FromYAML parses a type-definition document and returns one edge per
// declared root, in document order. When the document declares no roots,
// every named type becomes a root in declaration order.
func FromYAML(data []byte) ([]ir.Edge, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("irconv: %w", err)
	}
	c := &converter{
		decls:   map[string]*yaml.Node{},
		objects: map[string]*ir.Object{},
		state:   map[string]resolveState{},
	}
	if doc.Types.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Types.Content); i += 2 {
			name := doc.Types.Content[i].Value
			c.decls[name] = doc.Types.Content[i+1]
			c.order = append(c.order, name)
			c.objects[name] = &ir.Object{Name: name, Origin: ir.OriginNamed}
		}
	}
	var roots []ir.Edge
	if len(doc.Roots) == 0 {
		for _, name := range c.order {
			o, err := c.named(name)
			if err != nil {
				return nil, err
			}
			roots = append(roots, ir.Edge{Type: o})
		}
		if len(roots) == 0 {
			return nil, fmt.Errorf("irconv: document declares no types and no roots")
		}
		return roots, nil
	}
	for i := range doc.Roots {
		e, err := c.edge(&doc.Roots[i])
		if err != nil {
			return nil, err
		}
		roots = append(roots, e)
	}
	return roots, nil
}

type fileDoc struct {
	Types yaml.Node   `yaml:"types"`
	Roots []yaml.Node `yaml:"roots"`
}

type resolveState int

const (
	stateUnvisited resolveState = iota
	stateResolving
	stateDone
)

type converter struct {
	decls   map[string]*yaml.Node
	order   []string
	objects map[string]*ir.Object
	state   map[string]resolveState
}

// nodeSpec captures the scalar fields of one schema node; ordered parts
// (properties) are walked on the raw yaml node instead.
type nodeSpec struct {
	Ref       string      `yaml:"ref"`
	Type      string      `yaml:"type"`
	Nullable  bool        `yaml:"nullable"`
	Format    string      `yaml:"format"`
	Enum      []any       `yaml:"enum"`
	Required  []string    `yaml:"required"`
	JsDocTags []ir.DocTag `yaml:"jsDocTags"`
	Items     yaml.Node   `yaml:"items"`
	OneOf     []yaml.Node `yaml:"oneOf"`
	AllOf     []yaml.Node `yaml:"allOf"`
}

func (c *converter) edge(n *yaml.Node) (ir.Edge, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	var spec nodeSpec
	if err := n.Decode(&spec); err != nil {
		return ir.Edge{}, fmt.Errorf("irconv: line %d: %w", n.Line, err)
	}
	t, err := c.typ(n, &spec)
	if err != nil {
		return ir.Edge{}, err
	}
	return ir.Edge{Type: t, Nullable: spec.Nullable}, nil
}

func (c *converter) typ(n *yaml.Node, spec *nodeSpec) (ir.Type, error) {
	switch {
	case spec.Ref != "":
		if c.state[spec.Ref] == stateResolving {
			return &ir.Ref{Target: c.objects[spec.Ref]}, nil
		}
		return c.named(spec.Ref)
	case len(spec.OneOf) > 0:
		alts := make([]ir.Edge, 0, len(spec.OneOf))
		for i := range spec.OneOf {
			a, err := c.edge(&spec.OneOf[i])
			if err != nil {
				return nil, err
			}
			alts = append(alts, a)
		}
		return ir.NewUnion(alts...), nil
	case len(spec.AllOf) > 0:
		members := make([]ir.Type, 0, len(spec.AllOf))
		for i := range spec.AllOf {
			m, err := c.edge(&spec.AllOf[i])
			if err != nil {
				return nil, err
			}
			members = append(members, m.Type)
		}
		return &ir.Intersection{Members: members}, nil
	}
	switch spec.Type {
	case "string", "number", "integer", "boolean", "null", "undefined", "unknown":
		return &ir.Primitive{Name: spec.Type, Format: spec.Format, Enum: spec.Enum}, nil
	case "array":
		item, err := c.edge(&spec.Items)
		if err != nil {
			return nil, err
		}
		return &ir.Array{Item: item}, nil
	case "tuple":
		if spec.Items.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("irconv: line %d: tuple items must be a sequence", n.Line)
		}
		items := make([]ir.Edge, 0, len(spec.Items.Content))
		for _, it := range spec.Items.Content {
			e, err := c.edge(it)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
		return &ir.Tuple{Items: items}, nil
	case "object":
		o := &ir.Object{Origin: ir.OriginLiteral, Tags: spec.JsDocTags}
		if err := c.fillFields(o, n, spec); err != nil {
			return nil, err
		}
		return o, nil
	case "":
		return nil, fmt.Errorf("irconv: line %d: node needs one of ref/type/oneOf/allOf", n.Line)
	default:
		return nil, fmt.Errorf("irconv: line %d: unknown type %q", n.Line, spec.Type)
	}
}

func (c *converter) named(name string) (*ir.Object, error) {
	switch c.state[name] {
	case stateDone:
		return c.objects[name], nil
	case stateResolving:
		// Callers check for in-progress before calling; reaching this means
		// a direct self-embedding without ref, which the IR forbids.
		return nil, fmt.Errorf("irconv: type %q embeds itself without ref", name)
	}
	decl, ok := c.decls[name]
	if !ok {
		return nil, fmt.Errorf("irconv: reference to undeclared type %q", name)
	}
	var spec nodeSpec
	if err := decl.Decode(&spec); err != nil {
		return nil, fmt.Errorf("irconv: type %q: %w", name, err)
	}
	if spec.Type != "object" {
		return nil, fmt.Errorf("irconv: named type %q must be an object declaration", name)
	}
	o := c.objects[name]
	o.Tags = spec.JsDocTags
	c.state[name] = stateResolving
	if err := c.fillFields(o, decl, &spec); err != nil {
		return nil, err
	}
	c.state[name] = stateDone
	return o, nil
}

// fillFields walks the raw properties mapping so declaration order survives.
func (c *converter) fillFields(o *ir.Object, n *yaml.Node, spec *nodeSpec) error {
	props := mappingValue(n, "properties")
	if props == nil {
		return nil
	}
	required := map[string]bool{}
	for _, r := range spec.Required {
		required[r] = true
	}
	for i := 0; i+1 < len(props.Content); i += 2 {
		name := props.Content[i].Value
		value, err := c.edge(props.Content[i+1])
		if err != nil {
			return err
		}
		o.Fields = append(o.Fields, ir.Field{Name: name, Value: value, Required: required[name]})
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
