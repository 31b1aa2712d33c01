package ir

import "fmt"

// ModelError reports a Type IR that is unsupported or contradictory. It is
// raised during artifact compilation, never deferred to first use.
type ModelError struct {
	Site   string // description of the offending node
	Reason string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("ir: unsupported type model at %s: %s", e.Site, e.Reason)
}

// Merge flattens an intersection into a single anonymous object shape by
// property union. A non-object member, or a property name declared by more
// than one member, is a modeling error.
func Merge(x *Intersection) (*Object, error) {
	out := &Object{Origin: OriginLiteral}
	seen := map[string]bool{}
	var walk func(t Type) error
	walk = func(t Type) error {
		switch m := t.(type) {
		case *Object:
			for _, f := range m.Fields {
				if seen[f.Name] {
					return &ModelError{
						Site:   x.String(),
						Reason: fmt.Sprintf("property %q declared by more than one intersection member", f.Name),
					}
				}
				seen[f.Name] = true
				out.Fields = append(out.Fields, f)
			}
			out.Tags = append(out.Tags, m.Tags...)
			return nil
		case *Ref:
			return walk(m.Target)
		case *Intersection:
			for _, mm := range m.Members {
				if err := walk(mm); err != nil {
					return err
				}
			}
			return nil
		default:
			return &ModelError{Site: x.String(), Reason: "intersection member is not an object shape"}
		}
	}
	for _, m := range x.Members {
		if err := walk(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AllowsAbsent reports whether an edge's type admits an absent value, which
// makes a declared-required property tolerable when the key is missing.
func AllowsAbsent(e Edge) bool {
	switch t := e.Type.(type) {
	case *Primitive:
		return t.Name == PUndefined
	case *Union:
		for _, a := range t.Alts {
			if AllowsAbsent(a) {
				return true
			}
		}
	}
	return false
}
