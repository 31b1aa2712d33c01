package typekit

import (
	"strings"

	"github.com/reoring/typekit/ir"
	"github.com/reoring/typekit/jsonschema"
)

// Type is the compiled artifact set for one ir edge: a validation plan and a
// serialization plan sharing the same lowering. A Type is immutable after New
// and safe for concurrent use; every call allocates its own accumulator or
// output buffer.
type Type struct {
	edge  ir.Edge
	check checkFn
	emit  emitFn
}

// New compiles the validator and stringify plans for the given type
// description. Modeling errors in the IR (non-object intersection members,
// colliding intersection properties, unknown formats) surface here, never at
// first use.
func New(e ir.Edge) (*Type, error) {
	if e.Type == nil {
		return nil, missingType("typekit.New")
	}
	check, err := newVCompiler().edge(e)
	if err != nil {
		return nil, err
	}
	emit, err := newSCompiler().edge(e)
	if err != nil {
		return nil, err
	}
	return &Type{edge: e, check: check, emit: emit}, nil
}

// MustNew is New for statically known-good type descriptions.
func MustNew(e ir.Edge) *Type {
	t, err := New(e)
	if err != nil {
		panic(err)
	}
	return t
}

// IR returns the type description this artifact was compiled from.
func (t *Type) IR() ir.Edge { return t.edge }

// Is reports whether v conforms, short-circuiting on the first failing
// predicate.
func (t *Type) Is(v any) bool {
	st := checkState{mode: modeQuick}
	return t.check(&st, rootPath, v)
}

// Assert returns nil when v conforms and a *TypeGuardError describing the
// first failure otherwise.
func (t *Type) Assert(v any) error {
	st := checkState{mode: modeFirst}
	if t.check(&st, rootPath, v) {
		return nil
	}
	rec := ErrorRecord{Path: rootPath, Expected: t.edge.String(), Value: v}
	if len(st.errors) > 0 {
		rec = st.errors[0]
	}
	return &TypeGuardError{Method: "Assert", Record: rec}
}

// Validate checks v in accumulate mode: every failing predicate appends a
// record and validation continues, except that a record refining the
// immediately preceding one is suppressed.
func (t *Type) Validate(v any) Result {
	st := checkState{mode: modeCollect}
	ok := t.check(&st, rootPath, v)
	return Result{OK: ok, Errors: st.errors}
}

// Stringify serializes v using the compiled plan. It performs no validation:
// the caller guarantees v conforms (validate first when the input is not
// trusted), and output for a non-conforming value is undefined.
func (t *Type) Stringify(v any) string {
	var b strings.Builder
	t.emit(&b, v)
	return b.String()
}

// Application compiles one schema fragment per root, in request order, plus
// the shared components registry. It is the package-level spelling of
// jsonschema.Compile with the misuse guard in front.
func Application(opt jsonschema.Options, roots ...ir.Edge) (*jsonschema.Application, error) {
	if len(roots) == 0 {
		return nil, missingType("typekit.Application")
	}
	for _, r := range roots {
		if r.Type == nil {
			return nil, missingType("typekit.Application")
		}
	}
	return jsonschema.Compile(roots, opt)
}
