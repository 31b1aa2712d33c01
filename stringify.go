package typekit

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/typekit/ir"
)

// emitFn appends the serialized form of v. Plans trust that v conforms to
// the compiled type; output on a non-conforming value is undefined.
type emitFn func(b *strings.Builder, v any)

type objectEmit struct {
	fn func(b *strings.Builder, m map[string]any)
}

type scompiler struct {
	objects map[*ir.Object]*objectEmit
	// checks supplies trial predicates for union branch selection, the only
	// runtime dispatch a plan retains.
	checks *vcompiler
}

func newSCompiler() *scompiler {
	return &scompiler{objects: map[*ir.Object]*objectEmit{}, checks: newVCompiler()}
}

func (c *scompiler) edge(e ir.Edge) (emitFn, error) {
	fn, err := c.typ(e.Type)
	if err != nil {
		return nil, err
	}
	if !e.Nullable {
		return fn, nil
	}
	return func(b *strings.Builder, v any) {
		if v == nil {
			b.WriteString("null")
			return
		}
		fn(b, v)
	}, nil
}

func (c *scompiler) typ(t ir.Type) (emitFn, error) {
	switch n := t.(type) {
	case *ir.Primitive:
		switch n.Name {
		case ir.PString:
			return func(b *strings.Builder, v any) {
				s, _ := v.(string)
				writeJSONString(b, s)
			}, nil
		case ir.PNumber, ir.PInteger:
			return writeNumber, nil
		case ir.PBoolean:
			return func(b *strings.Builder, v any) {
				if bv, _ := v.(bool); bv {
					b.WriteString("true")
				} else {
					b.WriteString("false")
				}
			}, nil
		case ir.PNull, ir.PUndefined:
			return func(b *strings.Builder, v any) { b.WriteString("null") }, nil
		case ir.PUnknown:
			return writeAny, nil
		default:
			return nil, &ir.ModelError{Site: n.String(), Reason: "unknown primitive " + strconv.Quote(n.Name)}
		}
	case *ir.Array:
		item, err := c.edge(n.Item)
		if err != nil {
			return nil, err
		}
		return func(b *strings.Builder, v any) {
			arr, ok := v.([]any)
			if !ok {
				writeAny(b, v)
				return
			}
			b.WriteByte('[')
			for i, el := range arr {
				if i > 0 {
					b.WriteByte(',')
				}
				item(b, el)
			}
			b.WriteByte(']')
		}, nil
	case *ir.Tuple:
		items := make([]emitFn, len(n.Items))
		for i, it := range n.Items {
			fn, err := c.edge(it)
			if err != nil {
				return nil, err
			}
			items[i] = fn
		}
		return func(b *strings.Builder, v any) {
			arr, _ := v.([]any)
			b.WriteByte('[')
			for i, fn := range items {
				if i > 0 {
					b.WriteByte(',')
				}
				var el any
				if i < len(arr) {
					el = arr[i]
				}
				fn(b, el)
			}
			b.WriteByte(']')
		}, nil
	case *ir.Object:
		return c.shape(n)
	case *ir.Ref:
		return c.shape(n.Target)
	case *ir.Union:
		type branch struct {
			match checkFn
			emit  emitFn
		}
		branches := make([]branch, len(n.Alts))
		for i, a := range n.Alts {
			match, err := c.checks.edge(a)
			if err != nil {
				return nil, err
			}
			emit, err := c.edge(a)
			if err != nil {
				return nil, err
			}
			branches[i] = branch{match: match, emit: emit}
		}
		return func(b *strings.Builder, v any) {
			for _, br := range branches {
				trial := checkState{mode: modeQuick}
				if br.match(&trial, rootPath, v) {
					br.emit(b, v)
					return
				}
			}
			writeAny(b, v)
		}, nil
	case *ir.Intersection:
		merged, err := ir.Merge(n)
		if err != nil {
			return nil, err
		}
		return c.shape(merged)
	default:
		return nil, &ir.ModelError{Site: t.String(), Reason: "unknown node kind"}
	}
}

func (c *scompiler) shape(o *ir.Object) (emitFn, error) {
	oe, err := c.object(o)
	if err != nil {
		return nil, err
	}
	return func(b *strings.Builder, v any) {
		m, ok := v.(map[string]any)
		if !ok {
			writeAny(b, v)
			return
		}
		oe.fn(b, m)
	}, nil
}

type fieldEmit struct {
	name string
	// lit is the precomputed `"name":` fragment written ahead of the value.
	lit        string
	writesNull bool
	fn         emitFn
}

func (c *scompiler) object(o *ir.Object) (*objectEmit, error) {
	if oe, ok := c.objects[o]; ok {
		return oe, nil
	}
	oe := &objectEmit{}
	c.objects[o] = oe

	fields := make([]fieldEmit, 0, len(o.Fields))
	for _, f := range o.Fields {
		fn, err := c.edge(f.Value)
		if err != nil {
			return nil, err
		}
		var lit strings.Builder
		writeJSONString(&lit, f.Name)
		lit.WriteByte(':')
		fields = append(fields, fieldEmit{
			name:       f.Name,
			lit:        lit.String(),
			writesNull: acceptsNull(f.Value),
			fn:         fn,
		})
	}
	oe.fn = func(b *strings.Builder, m map[string]any) {
		b.WriteByte('{')
		n := 0
		for i := range fields {
			f := &fields[i]
			fv, present := m[f.name]
			if !present {
				continue
			}
			// A nil value is written as null only when the property's type
			// can hold one; otherwise it is the absent sentinel and the
			// property is omitted.
			if fv == nil && !f.writesNull {
				continue
			}
			if n > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.lit)
			f.fn(b, fv)
			n++
		}
		b.WriteByte('}')
	}
	return oe, nil
}

func acceptsNull(e ir.Edge) bool {
	if e.Nullable {
		return true
	}
	switch t := e.Type.(type) {
	case *ir.Primitive:
		return t.Name == ir.PNull || t.Name == ir.PUnknown
	case *ir.Union:
		for _, a := range t.Alts {
			if acceptsNull(a) {
				return true
			}
		}
	}
	return false
}

func writeNumber(b *strings.Builder, v any) {
	switch t := v.(type) {
	case float64:
		// Non-finite numbers have no JSON representation; encode as null.
		if math.IsNaN(t) || math.IsInf(t, 0) {
			b.WriteString("null")
			return
		}
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case json.Number:
		b.WriteString(t.String())
	default:
		writeAny(b, v)
	}
}

// writeAny is the generic fallback used for unknown/open positions, where a
// fixed plan is structurally impossible.
func writeAny(b *strings.Builder, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.WriteString("null")
		return
	}
	b.Write(data)
}

const hexDigits = "0123456789abcdef"

// writeJSONString escapes quote, backslash, and control characters; all other
// bytes pass through so valid UTF-8 is preserved.
func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\b':
			b.WriteString(`\b`)
		case c == '\f':
			b.WriteString(`\f`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
