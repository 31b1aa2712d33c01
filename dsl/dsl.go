// Package dsl provides fluent builders over the ir package. It is the
// in-repo stand-in for an external type extractor: tests and embedding code
// use it to declare type descriptions by hand.
package dsl

import "github.com/reoring/typekit/ir"

// String returns a plain string edge.
func String() ir.Edge { return edge(&ir.Primitive{Name: ir.PString}) }

// StringFormat returns a string edge narrowed by one of the builtin formats
// (ir.FormatUUID and friends).
func StringFormat(format string) ir.Edge {
	return edge(&ir.Primitive{Name: ir.PString, Format: format})
}

// StringEnum returns a string edge restricted to the given literals, in
// declaration order.
func StringEnum(values ...string) ir.Edge {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return edge(&ir.Primitive{Name: ir.PString, Enum: enum})
}

// Number returns a number edge.
func Number() ir.Edge { return edge(&ir.Primitive{Name: ir.PNumber}) }

// NumberEnum returns a number edge restricted to the given literals.
func NumberEnum(values ...float64) ir.Edge {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return edge(&ir.Primitive{Name: ir.PNumber, Enum: enum})
}

// Integer returns a bigint-like integer edge.
func Integer() ir.Edge { return edge(&ir.Primitive{Name: ir.PInteger}) }

// Bool returns a boolean edge.
func Bool() ir.Edge { return edge(&ir.Primitive{Name: ir.PBoolean}) }

// Null returns an edge matching only the null value.
func Null() ir.Edge { return edge(&ir.Primitive{Name: ir.PNull}) }

// Undefined returns an edge matching only an absent value.
func Undefined() ir.Edge { return edge(&ir.Primitive{Name: ir.PUndefined}) }

// Unknown returns a fully open edge.
func Unknown() ir.Edge { return edge(&ir.Primitive{Name: ir.PUnknown}) }

// Nullable marks the edge as accepting null in addition to its type.
func Nullable(e ir.Edge) ir.Edge {
	e.Nullable = true
	return e
}

// Array returns an array edge over the item type.
func Array(item ir.Edge) ir.Edge { return edge(&ir.Array{Item: item}) }

// Tuple returns a fixed-arity sequence edge.
func Tuple(items ...ir.Edge) ir.Edge { return edge(&ir.Tuple{Items: items}) }

// Union returns a union edge over the alternatives in declaration order;
// duplicates by structural identity are dropped.
func Union(alts ...ir.Edge) ir.Edge { return edge(ir.NewUnion(alts...)) }

// Field declares a required property.
func Field(name string, value ir.Edge) ir.Field {
	return ir.Field{Name: name, Value: value, Required: true}
}

// Optional declares an optional property.
func Optional(name string, value ir.Edge) ir.Field {
	return ir.Field{Name: name, Value: value, Required: false}
}

// Object returns a user-named object edge.
func Object(name string, fields ...ir.Field) ir.Edge {
	return edge(&ir.Object{Name: name, Origin: ir.OriginNamed, Fields: fields})
}

// Shape returns an anonymous object-literal edge.
func Shape(fields ...ir.Field) ir.Edge {
	return edge(&ir.Object{Origin: ir.OriginLiteral, Fields: fields})
}

// Tagged attaches documentation tags to an object edge; it is a no-op for
// other node kinds.
func Tagged(e ir.Edge, tags ...ir.DocTag) ir.Edge {
	if o, ok := e.Type.(*ir.Object); ok {
		o.Tags = append(o.Tags, tags...)
	}
	return e
}

// Intersect returns an intersection edge over the member types.
func Intersect(members ...ir.Edge) ir.Edge {
	ms := make([]ir.Type, len(members))
	for i, m := range members {
		ms[i] = m.Type
	}
	return edge(&ir.Intersection{Members: ms})
}

// Recursive builds a named object whose fields may reference the object
// itself through the self edge, which is an explicit ir back-reference.
//
//	node := dsl.Recursive("Category", func(self ir.Edge) []ir.Field {
//		return []ir.Field{
//			dsl.Field("name", dsl.String()),
//			dsl.Field("children", dsl.Array(self)),
//		}
//	})
func Recursive(name string, build func(self ir.Edge) []ir.Field) ir.Edge {
	o := &ir.Object{Name: name, Origin: ir.OriginNamed}
	self := edge(&ir.Ref{Target: o})
	o.Fields = build(self)
	return edge(o)
}

func edge(t ir.Type) ir.Edge { return ir.Edge{Type: t} }
