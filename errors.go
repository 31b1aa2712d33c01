package typekit

import (
	"fmt"

	"github.com/reoring/typekit/i18n"
)

// ErrorRecord is one path-qualified validation diagnostic. Path is a
// dot/bracket access expression from the root (for example:
// $input.items[2].price), Expected is a human-readable description of the
// type that failed to match, and Value is the offending runtime value.
type ErrorRecord struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Value    any    `json:"value"`
}

// Result is the outcome of accumulate-mode validation. Errors are ordered by
// discovery; a record whose path merely refines the previous record's failure
// is suppressed at collection time.
type Result struct {
	OK     bool          `json:"success"`
	Errors []ErrorRecord `json:"errors"`
}

// TypeGuardError reports the first (or representative) validation failure
// from an asserting call surface.
type TypeGuardError struct {
	Method string // public entry point that raised the error
	Record ErrorRecord
}

func (e *TypeGuardError) Error() string {
	return fmt.Sprintf("typekit: %s on Type.%s: expected %s at %s",
		i18n.T("type_mismatch", nil), e.Method, e.Record.Expected, e.Record.Path)
}

// MisuseError reports a public entry point invoked without the type
// description it requires. It is a build-wiring fault, raised before any
// artifact is produced.
type MisuseError struct {
	Entry string
	Hint  string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("typekit: %s on %s: %s", i18n.T("missing_type", nil), e.Entry, e.Hint)
}

func missingType(entry string) error {
	return &MisuseError{
		Entry: entry,
		Hint:  "construct an ir.Edge with the dsl package or irconv.FromYAML and pass it explicitly",
	}
}
