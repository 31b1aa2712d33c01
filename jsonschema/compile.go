package jsonschema

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/reoring/typekit/ir"
)

// Purpose selects the schema-consumer dialect the output must satisfy.
type Purpose string

const (
	PurposeSwagger Purpose = "swagger"
	PurposeAJV     Purpose = "ajv"
)

// DefaultRefPrefix is used when Options.RefPrefix is empty.
const DefaultRefPrefix = "#/components/schemas/"

// Options configures one Compile call.
type Options struct {
	Purpose Purpose
	// RefPrefix is prepended to every generated $ref target and to every
	// registry key lookup.
	RefPrefix string
}

// Application is the output of one compile: one fragment per requested root
// type, in request order, plus the shared components registry.
type Application struct {
	Purpose    Purpose    `json:"purpose" yaml:"purpose"`
	Prefix     string     `json:"prefix" yaml:"prefix"`
	Schemas    []*Schema  `json:"schemas" yaml:"schemas"`
	Components Components `json:"components" yaml:"components"`
}

// Components wraps the named-fragment registry.
type Components struct {
	Schemas *Registry `json:"schemas" yaml:"schemas"`
}

// JSON renders the application as indented JSON. Repeated compiles of the
// same roots produce byte-identical output.
func (a *Application) JSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// Compile lowers the root edges into an Application. Modeling errors (for
// example an intersection with colliding properties) abort the compile; no
// partial application is returned.
func Compile(roots []ir.Edge, opt Options) (*Application, error) {
	switch opt.Purpose {
	case PurposeSwagger, PurposeAJV:
	case "":
		opt.Purpose = PurposeSwagger
	default:
		return nil, fmt.Errorf("jsonschema: unknown purpose %q (want %q or %q)", opt.Purpose, PurposeSwagger, PurposeAJV)
	}
	if opt.RefPrefix == "" {
		opt.RefPrefix = DefaultRefPrefix
	}
	c := &compiler{
		opt:       opt,
		reg:       &Registry{prefix: opt.RefPrefix},
		names:     map[*ir.Object]string{},
		counters:  map[string]int{},
		recursive: map[*ir.Object]bool{},
	}
	schemas := make([]*Schema, 0, len(roots))
	for _, root := range roots {
		s, err := c.edge(root, "")
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	if opt.Purpose == PurposeAJV {
		for o := range c.recursive {
			if frag, ok := c.reg.Get(c.names[o]); ok {
				frag.RecursiveAnchor = true
			}
		}
	}
	return &Application{
		Purpose:    opt.Purpose,
		Prefix:     opt.RefPrefix,
		Schemas:    schemas,
		Components: Components{Schemas: c.reg},
	}, nil
}

// compiler state lives for exactly one Compile call: counters and memoized
// names reset per invocation, which keeps output deterministic.
type compiler struct {
	opt       Options
	reg       *Registry
	names     map[*ir.Object]string
	counters  map[string]int
	recursive map[*ir.Object]bool
}

func (c *compiler) edge(e ir.Edge, container string) (*Schema, error) {
	if e.Type == nil {
		return nil, &ir.ModelError{Site: "edge", Reason: "nil type"}
	}
	return c.typ(e.Type, e.Nullable, container)
}

func (c *compiler) typ(t ir.Type, nullable bool, container string) (*Schema, error) {
	switch n := t.(type) {
	case *ir.Primitive:
		return c.primitive(n, nullable)
	case *ir.Array:
		item, err := c.edge(n.Item, container)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: item, Nullable: boolPtr(nullable)}, nil
	case *ir.Tuple:
		return c.tuple(n, nullable, container)
	case *ir.Object:
		return c.objectRef(n, nullable, container)
	case *ir.Ref:
		return c.backRef(n, nullable, container)
	case *ir.Union:
		return c.union(n, nullable, container)
	case *ir.Intersection:
		merged, err := ir.Merge(n)
		if err != nil {
			return nil, err
		}
		return c.objectRef(merged, nullable, container)
	default:
		return nil, &ir.ModelError{Site: t.String(), Reason: "unknown node kind"}
	}
}

func (c *compiler) primitive(p *ir.Primitive, nullable bool) (*Schema, error) {
	switch p.Name {
	case ir.PUnknown, ir.PUndefined:
		// Deliberately open: an empty fragment constrains nothing.
		return &Schema{}, nil
	case ir.PNull:
		if c.opt.Purpose == PurposeAJV {
			return &Schema{Type: "null", Nullable: boolPtr(true)}, nil
		}
		return &Schema{Nullable: boolPtr(true)}, nil
	case ir.PString:
		return &Schema{Type: "string", Format: p.Format, Enum: p.Enum, Nullable: boolPtr(nullable)}, nil
	case ir.PNumber:
		return &Schema{Type: "number", Enum: p.Enum, Nullable: boolPtr(nullable)}, nil
	case ir.PInteger:
		return &Schema{Type: "integer", Enum: p.Enum, Nullable: boolPtr(nullable)}, nil
	case ir.PBoolean:
		return &Schema{Type: "boolean", Enum: p.Enum, Nullable: boolPtr(nullable)}, nil
	default:
		return nil, &ir.ModelError{Site: p.String(), Reason: "unknown primitive"}
	}
}

// tuple lowers a fixed-arity sequence. The ajv dialect validates tuple length
// natively via array-form items; swagger consumers cannot parse that form, so
// arity is approximated with a oneOf items schema plus min/max items.
func (c *compiler) tuple(t *ir.Tuple, nullable bool, container string) (*Schema, error) {
	items := make([]*Schema, len(t.Items))
	for i, it := range t.Items {
		s, err := c.edge(it, container)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	arity := len(t.Items)
	s := &Schema{
		Type:     "array",
		Nullable: boolPtr(nullable),
		MinItems: intPtr(arity),
		MaxItems: intPtr(arity),
	}
	if c.opt.Purpose == PurposeAJV {
		s.Items = items
		s.AdditionalItems = boolPtr(false)
		return s, nil
	}
	s.Items = &Schema{OneOf: items}
	return s, nil
}

func (c *compiler) union(u *ir.Union, nullable bool, container string) (*Schema, error) {
	alts := make([]*Schema, 0, len(u.Alts))
	for _, a := range u.Alts {
		if p, ok := a.Type.(*ir.Primitive); ok && p.Name == ir.PUndefined {
			// undefined only affects required-ness; it has no fragment.
			continue
		}
		s, err := c.edge(a, container)
		if err != nil {
			return nil, err
		}
		alts = append(alts, s)
	}
	if nullable {
		// Edge nullability distributes over the alternatives; the oneOf
		// wrapper itself carries no nullable flag.
		for _, s := range alts {
			if s.Nullable != nil {
				*s.Nullable = true
			}
		}
	}
	return &Schema{OneOf: alts}, nil
}

// objectRef hoists the object into the components registry (named shapes keep
// their declared name, anonymous ones receive a generated one) and returns a
// reference fragment.
func (c *compiler) objectRef(o *ir.Object, nullable bool, container string) (*Schema, error) {
	name, seen := c.names[o]
	if !seen {
		name = c.assignName(o, container)
		c.names[o] = name
		// Register before lowering fields so child components follow their
		// container in the registry and back-references resolve.
		frag := &Schema{}
		c.reg.add(name, frag)
		built, err := c.objectFragment(o, name)
		if err != nil {
			return nil, err
		}
		*frag = *built
	}
	ref := &Schema{Ref: c.opt.RefPrefix + name}
	if nullable {
		ref.Nullable = boolPtr(true)
	}
	return ref, nil
}

// backRef lowers an explicit recursion edge. The ajv dialect uses its
// recursive-reference extension; swagger consumes only plain $ref.
func (c *compiler) backRef(r *ir.Ref, nullable bool, container string) (*Schema, error) {
	name, ok := c.names[r.Target]
	if !ok {
		// Target not visited yet: lower it now and reuse the reference.
		return c.objectRef(r.Target, nullable, container)
	}
	c.recursive[r.Target] = true
	s := &Schema{}
	if c.opt.Purpose == PurposeAJV {
		s.RecursiveRef = c.opt.RefPrefix + name
	} else {
		s.Ref = c.opt.RefPrefix + name
	}
	if nullable {
		s.Nullable = boolPtr(true)
	}
	return s, nil
}

func (c *compiler) objectFragment(o *ir.Object, name string) (*Schema, error) {
	props := NewProperties()
	required := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		ps, err := c.edge(f.Value, name)
		if err != nil {
			return nil, err
		}
		props.Set(f.Name, ps)
		if f.Required && !ir.AllowsAbsent(f.Value) {
			required = append(required, f.Name)
		}
	}
	tags := make([]ir.DocTag, len(o.Tags))
	copy(tags, o.Tags)
	return &Schema{
		Type:       "object",
		Properties: props,
		Required:   &required,
		JsDocTags:  &tags,
		Nullable:   boolPtr(false),
	}, nil
}

// assignName implements the component naming rule: a user-named type keeps
// its declared name; an anonymous shape nested under a named container is
// <Container>.o<N> with a per-container counter; a fully anonymous top-level
// shape is __type. Structurally identical anonymous shapes at different
// paths keep independent counters.
func (c *compiler) assignName(o *ir.Object, container string) string {
	if o.Origin == ir.OriginNamed && o.Name != "" && !c.reg.has(o.Name) {
		return o.Name
	}
	base := container
	if base == "" {
		base = ir.AnonymousName
		if !c.reg.has(base) {
			return base
		}
	}
	c.counters[base]++
	return fmt.Sprintf("%s.o%d", base, c.counters[base])
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
