package typekit

import (
	"reflect"

	"github.com/goccy/go-json"
)

// Parse decodes JSON text into the runtime value domain the compiled plans
// operate on (nil, bool, float64, string, []any, map[string]any). It exists
// for round-tripping Stringify output; it is not a general parsing facility.
func Parse(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports deep equality over the runtime value domain.
func Equal(a, b any) bool { return reflect.DeepEqual(a, b) }
