// Package ir defines the type intermediate representation shared by every
// compiler in typekit. A front-end (the dsl package, irconv, or an external
// extractor) produces an ir graph; the schema, validator, and stringify
// compilers each lower it independently.
//
// Nodes are immutable once constructed. Cycles may appear only through an
// explicit *Ref edge, never through raw self-embedding, so a compiler can
// detect recursion by edge kind alone.
package ir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies an IR node variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindTuple
	KindObject
	KindUnion
	KindIntersection
	KindRef
)

// Type is the root IR node interface. The set of implementations is closed.
type Type interface {
	Kind() Kind
	// String renders a human-readable description of the type, used as the
	// "expected" text in validation diagnostics.
	String() string

	appendKey(sb *strings.Builder, visiting map[*Object]bool)
}

// Edge carries a Type together with the modifiers that live on the edge into
// it. Nullability is an edge property so that primitive nodes need not be
// duplicated per nullable occurrence; optionality lives on Field.
type Edge struct {
	Type     Type
	Nullable bool
}

// String renders the edge, folding nullability into the description.
func (e Edge) String() string {
	if e.Type == nil {
		return "never"
	}
	if e.Nullable {
		return "(" + e.Type.String() + " | null)"
	}
	return e.Type.String()
}

// Primitive names.
const (
	PString    = "string"
	PNumber    = "number"
	PBoolean   = "boolean"
	PInteger   = "integer"
	PNull      = "null"
	PUndefined = "undefined"
	PUnknown   = "unknown"
)

// Builtin string format tags. The predicate set is fixed; see the format
// package for the matchers.
const (
	FormatUUID    = "uuid"
	FormatEmail   = "email"
	FormatURL     = "url"
	FormatIPv4    = "ipv4"
	FormatIPv6    = "ipv6"
	FormatNumeric = "numeric"
)

// Primitive represents a scalar type, optionally narrowed by a builtin
// format tag or a literal enum set.
type Primitive struct {
	Name   string
	Format string // one of the Format* constants, or empty
	Enum   []any  // ordered literal set; nil means unconstrained
}

func (p *Primitive) Kind() Kind { return KindPrimitive }

func (p *Primitive) String() string {
	if len(p.Enum) > 0 {
		parts := make([]string, len(p.Enum))
		for i, v := range p.Enum {
			parts[i] = literalString(v)
		}
		return "(" + strings.Join(parts, " | ") + ")"
	}
	if p.Format != "" {
		return p.Name + " (format: " + strconv.Quote(p.Format) + ")"
	}
	return p.Name
}

// Array represents a homogeneous array.
type Array struct {
	Item Edge
}

func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return "Array<" + a.Item.String() + ">" }

// Tuple represents a fixed-arity sequence.
type Tuple struct {
	Items []Edge
}

func (t *Tuple) Kind() Kind { return KindTuple }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Origin distinguishes a user-declared named shape from an anonymous object
// literal. Schema component naming depends on it.
type Origin int

const (
	OriginLiteral Origin = iota
	OriginNamed
)

// DocTag is one structured documentation annotation from the original
// declaration, carried through to schema output.
type DocTag struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Field is one object property. Required reports whether the property must
// be present; the value may still independently be nullable.
type Field struct {
	Name     string
	Value    Edge
	Required bool
}

// Object represents an ordered property shape.
type Object struct {
	Name   string
	Origin Origin
	Fields []Field
	Tags   []DocTag
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	if o.Origin == OriginNamed && o.Name != "" {
		return o.Name
	}
	return AnonymousName
}

// Field returns the field with the given name, if declared.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// AnonymousName is the component name assigned to a fully anonymous
// top-level object shape.
const AnonymousName = "__type"

// Union represents a set of alternatives in declaration order. Construct it
// with NewUnion so duplicates by structural identity are removed.
type Union struct {
	Alts []Edge
}

func (u *Union) Kind() Kind { return KindUnion }

func (u *Union) String() string {
	parts := make([]string, len(u.Alts))
	for i, a := range u.Alts {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// NewUnion builds a union, dropping alternatives that repeat an earlier
// alternative's structural identity. Declaration order is preserved.
func NewUnion(alts ...Edge) *Union {
	seen := make(map[string]bool, len(alts))
	kept := make([]Edge, 0, len(alts))
	for _, a := range alts {
		k := EdgeKey(a)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, a)
	}
	return &Union{Alts: kept}
}

// Intersection represents members to be structurally merged. Only object
// shapes (or refs/intersections resolving to them) are valid members.
type Intersection struct {
	Members []Type
}

func (x *Intersection) Kind() Kind { return KindIntersection }

func (x *Intersection) String() string {
	parts := make([]string, len(x.Members))
	for i, m := range x.Members {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, " & ") + ")"
}

// Ref is an explicit back-reference to an already-visited object, the only
// permitted way to express a recursive type.
type Ref struct {
	Target *Object
}

func (r *Ref) Kind() Kind     { return KindRef }
func (r *Ref) String() string { return r.Target.String() }

func literalString(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Key returns a canonical structural-identity string for a type. Two types
// with equal keys are structurally identical. Recursion is cut at Ref edges
// and at objects already being keyed.
func Key(t Type) string {
	var sb strings.Builder
	t.appendKey(&sb, map[*Object]bool{})
	return sb.String()
}

// EdgeKey is Key extended with the edge's nullability modifier.
func EdgeKey(e Edge) string {
	if e.Type == nil {
		return "never"
	}
	k := Key(e.Type)
	if e.Nullable {
		return "?" + k
	}
	return k
}

func appendEdgeKey(sb *strings.Builder, e Edge, visiting map[*Object]bool) {
	if e.Nullable {
		sb.WriteByte('?')
	}
	if e.Type == nil {
		sb.WriteString("never")
		return
	}
	e.Type.appendKey(sb, visiting)
}

func (p *Primitive) appendKey(sb *strings.Builder, _ map[*Object]bool) {
	sb.WriteString("p:")
	sb.WriteString(p.Name)
	if p.Format != "" {
		sb.WriteString("/f=")
		sb.WriteString(p.Format)
	}
	for _, v := range p.Enum {
		sb.WriteString("/e=")
		sb.WriteString(literalString(v))
	}
}

func (a *Array) appendKey(sb *strings.Builder, visiting map[*Object]bool) {
	sb.WriteString("a[")
	appendEdgeKey(sb, a.Item, visiting)
	sb.WriteByte(']')
}

func (t *Tuple) appendKey(sb *strings.Builder, visiting map[*Object]bool) {
	sb.WriteString("t[")
	for i, it := range t.Items {
		if i > 0 {
			sb.WriteByte(',')
		}
		appendEdgeKey(sb, it, visiting)
	}
	sb.WriteByte(']')
}

func (o *Object) appendKey(sb *strings.Builder, visiting map[*Object]bool) {
	if visiting[o] {
		sb.WriteString("cycle{" + o.String() + "}")
		return
	}
	visiting[o] = true
	defer delete(visiting, o)
	sb.WriteString("o{")
	for i, f := range o.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.Name)
		if !f.Required {
			sb.WriteByte('~')
		}
		sb.WriteByte(':')
		appendEdgeKey(sb, f.Value, visiting)
	}
	sb.WriteByte('}')
}

func (u *Union) appendKey(sb *strings.Builder, visiting map[*Object]bool) {
	// Alternative order does not affect structural identity.
	keys := make([]string, len(u.Alts))
	for i, a := range u.Alts {
		var b strings.Builder
		appendEdgeKey(&b, a, visiting)
		keys[i] = b.String()
	}
	sort.Strings(keys)
	sb.WriteString("u(")
	sb.WriteString(strings.Join(keys, "|"))
	sb.WriteByte(')')
}

func (x *Intersection) appendKey(sb *strings.Builder, visiting map[*Object]bool) {
	sb.WriteString("x(")
	for i, m := range x.Members {
		if i > 0 {
			sb.WriteByte('&')
		}
		m.appendKey(sb, visiting)
	}
	sb.WriteByte(')')
}

func (r *Ref) appendKey(sb *strings.Builder, _ map[*Object]bool) {
	sb.WriteString("ref{" + r.Target.String() + "}")
}
