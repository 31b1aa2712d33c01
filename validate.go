package typekit

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/typekit/format"
	"github.com/reoring/typekit/ir"
)

// rootPath is the access-expression prefix for every diagnostic path.
const rootPath = "$input"

// checkMode selects how a compiled plan treats a failing predicate.
type checkMode int

const (
	// modeQuick answers true/false only and short-circuits. Union trials run
	// in this mode so speculative mismatches stay invisible.
	modeQuick checkMode = iota
	// modeFirst records the first failure and stops; the asserting surface
	// turns that record into a TypeGuardError.
	modeFirst
	// modeCollect records every failure and keeps going, subject to
	// redundancy suppression.
	modeCollect
)

// checkState is allocated fresh per validation call; compiled plans share no
// mutable state.
type checkState struct {
	mode   checkMode
	errors []ErrorRecord
}

// report records a failure and always returns false. In collect mode a record
// whose path strictly extends the immediately preceding record's path is
// dropped: it is a consequence of a parent-level mismatch already reported.
func (st *checkState) report(path, expected string, v any) bool {
	if st.mode == modeQuick {
		return false
	}
	if n := len(st.errors); n > 0 && pathRefines(st.errors[n-1].Path, path) {
		return false
	}
	st.errors = append(st.errors, ErrorRecord{Path: path, Expected: expected, Value: v})
	return false
}

func pathRefines(parent, child string) bool {
	if len(child) <= len(parent) || !strings.HasPrefix(child, parent) {
		return false
	}
	switch child[len(parent)] {
	case '.', '[':
		return true
	}
	return false
}

// checkFn reports whether v conforms at path, recording diagnostics per the
// state's mode.
type checkFn func(st *checkState, path string, v any) bool

// objectCheck is the memoized fields-only plan for one object node. The
// indirection lets recursive references resolve before the plan is complete.
type objectCheck struct {
	fn func(st *checkState, path string, m map[string]any) bool
}

type vcompiler struct {
	objects map[*ir.Object]*objectCheck
}

func newVCompiler() *vcompiler {
	return &vcompiler{objects: map[*ir.Object]*objectCheck{}}
}

func (c *vcompiler) edge(e ir.Edge) (checkFn, error) {
	if e.Type == nil {
		return nil, &ir.ModelError{Site: "edge", Reason: "nil type"}
	}
	fn, err := c.typ(e.Type, e.String())
	if err != nil {
		return nil, err
	}
	if !e.Nullable {
		return fn, nil
	}
	return func(st *checkState, path string, v any) bool {
		if v == nil {
			return true
		}
		return fn(st, path, v)
	}, nil
}

func (c *vcompiler) typ(t ir.Type, expected string) (checkFn, error) {
	switch n := t.(type) {
	case *ir.Primitive:
		return c.primitive(n, expected)
	case *ir.Array:
		item, err := c.edge(n.Item)
		if err != nil {
			return nil, err
		}
		return func(st *checkState, path string, v any) bool {
			arr, ok := v.([]any)
			if !ok {
				return st.report(path, expected, v)
			}
			valid := true
			for i, el := range arr {
				if !item(st, path+"["+strconv.Itoa(i)+"]", el) {
					valid = false
					if st.mode != modeCollect {
						return false
					}
				}
			}
			return valid
		}, nil
	case *ir.Tuple:
		items := make([]checkFn, len(n.Items))
		for i, it := range n.Items {
			fn, err := c.edge(it)
			if err != nil {
				return nil, err
			}
			items[i] = fn
		}
		return func(st *checkState, path string, v any) bool {
			arr, ok := v.([]any)
			if !ok || len(arr) != len(items) {
				return st.report(path, expected, v)
			}
			valid := true
			for i, fn := range items {
				if !fn(st, path+"["+strconv.Itoa(i)+"]", arr[i]) {
					valid = false
					if st.mode != modeCollect {
						return false
					}
				}
			}
			return valid
		}, nil
	case *ir.Object:
		return c.shape(n, expected)
	case *ir.Ref:
		return c.shape(n.Target, expected)
	case *ir.Union:
		alts := make([]checkFn, len(n.Alts))
		for i, a := range n.Alts {
			fn, err := c.edge(a)
			if err != nil {
				return nil, err
			}
			alts[i] = fn
		}
		return func(st *checkState, path string, v any) bool {
			for _, alt := range alts {
				trial := checkState{mode: modeQuick}
				if alt(&trial, path, v) {
					return true
				}
			}
			// Exactly one diagnostic for the union site, listing every
			// alternative, never one per failed branch.
			return st.report(path, expected, v)
		}, nil
	case *ir.Intersection:
		merged, err := ir.Merge(n)
		if err != nil {
			return nil, err
		}
		return c.shape(merged, expected)
	default:
		return nil, &ir.ModelError{Site: t.String(), Reason: "unknown node kind"}
	}
}

// shape wraps the memoized fields plan with the map assertion carrying the
// edge-specific expected text.
func (c *vcompiler) shape(o *ir.Object, expected string) (checkFn, error) {
	oc, err := c.object(o)
	if err != nil {
		return nil, err
	}
	return func(st *checkState, path string, v any) bool {
		m, ok := v.(map[string]any)
		if !ok {
			return st.report(path, expected, v)
		}
		return oc.fn(st, path, m)
	}, nil
}

type fieldCheck struct {
	name         string
	seg          string
	required     bool
	allowsAbsent bool
	expected     string
	fn           checkFn
}

// object compiles an object's fields plan at most once per compilation; a
// recursive reference reaching the same node resolves through the memoized
// placeholder.
func (c *vcompiler) object(o *ir.Object) (*objectCheck, error) {
	if oc, ok := c.objects[o]; ok {
		return oc, nil
	}
	oc := &objectCheck{}
	c.objects[o] = oc

	fields := make([]fieldCheck, 0, len(o.Fields))
	for _, f := range o.Fields {
		fn, err := c.edge(f.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fieldCheck{
			name:         f.Name,
			seg:          pathSegment(f.Name),
			required:     f.Required,
			allowsAbsent: ir.AllowsAbsent(f.Value),
			expected:     f.Value.String(),
			fn:           fn,
		})
	}
	oc.fn = func(st *checkState, path string, m map[string]any) bool {
		valid := true
		for i := range fields {
			f := &fields[i]
			fv, present := m[f.name]
			child := path + f.seg
			if !present {
				if f.required && !f.allowsAbsent {
					st.report(child, f.expected, nil)
					valid = false
					if st.mode != modeCollect {
						return false
					}
				}
				continue
			}
			if !f.fn(st, child, fv) {
				valid = false
				if st.mode != modeCollect {
					return false
				}
			}
		}
		return valid
	}
	return oc, nil
}

func (c *vcompiler) primitive(p *ir.Primitive, expected string) (checkFn, error) {
	switch p.Name {
	case ir.PString:
		var match format.Matcher
		if p.Format != "" {
			m, ok := format.Lookup(p.Format)
			if !ok {
				return nil, &ir.ModelError{Site: p.String(), Reason: "unknown builtin format " + strconv.Quote(p.Format)}
			}
			match = m
		}
		enum := p.Enum
		return func(st *checkState, path string, v any) bool {
			s, ok := v.(string)
			if !ok {
				return st.report(path, expected, v)
			}
			if match != nil && !match(s) {
				return st.report(path, expected, v)
			}
			if len(enum) > 0 && !enumHas(enum, s) {
				return st.report(path, expected, v)
			}
			return true
		}, nil
	case ir.PNumber, ir.PInteger:
		integer := p.Name == ir.PInteger
		enum := p.Enum
		return func(st *checkState, path string, v any) bool {
			f, ok := asNumber(v)
			if !ok {
				return st.report(path, expected, v)
			}
			if integer && f != float64(int64(f)) {
				return st.report(path, expected, v)
			}
			if len(enum) > 0 && !enumHasNumber(enum, f) {
				return st.report(path, expected, v)
			}
			return true
		}, nil
	case ir.PBoolean:
		enum := p.Enum
		return func(st *checkState, path string, v any) bool {
			b, ok := v.(bool)
			if !ok {
				return st.report(path, expected, v)
			}
			if len(enum) > 0 && !enumHas(enum, b) {
				return st.report(path, expected, v)
			}
			return true
		}, nil
	case ir.PNull:
		return func(st *checkState, path string, v any) bool {
			if v != nil {
				return st.report(path, expected, v)
			}
			return true
		}, nil
	case ir.PUndefined:
		// A present value never satisfies undefined; absence is handled at
		// the owning property.
		return func(st *checkState, path string, v any) bool {
			return st.report(path, expected, v)
		}, nil
	case ir.PUnknown:
		return func(st *checkState, path string, v any) bool { return true }, nil
	default:
		return nil, &ir.ModelError{Site: p.String(), Reason: "unknown primitive " + strconv.Quote(p.Name)}
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func enumHas(enum []any, v any) bool {
	for _, e := range enum {
		if e == v {
			return true
		}
	}
	return false
}

func enumHasNumber(enum []any, f float64) bool {
	for _, e := range enum {
		if ef, ok := asNumber(e); ok && ef == f {
			return true
		}
	}
	return false
}

func pathSegment(name string) string {
	if isIdent(name) {
		return "." + name
	}
	return "[" + strconv.Quote(name) + "]"
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
