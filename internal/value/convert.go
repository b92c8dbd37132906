package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// FromAny converts a generic Go value produced by a YAML/JSON decoder
// (map[string]any / []any / string / float64 / int / bool / nil, or their
// goccy/go-yaml equivalents) into a Value tree.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint64:
		return IntValue(int64(x))
	case float64:
		if x == float64(int64(x)) {
			return IntValue(int64(x))
		}
		return FloatValue(x)
	case float32:
		return FromAny(float64(x))
	case string:
		return StringValue(x)
	case []byte:
		return BytesValue(x)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromAny(e)
		}
		return SeqValue(items)
	case map[string]any:
		b := NewMap()
		for _, k := range sortedKeys(x) {
			b.Set(k, FromAny(x[k]))
		}
		return b.Build()
	case map[any]any:
		b := NewMap()
		for k, val := range x {
			b.Set(fmt.Sprintf("%v", k), FromAny(val))
		}
		return b.Build()
	default:
		// Fall back to a text representation rather than erroring: this
		// only happens for decoder-internal types we don't special-case.
		return StringValue(fmt.Sprintf("%v", x))
	}
}

// sortedKeys orders a map's keys deterministically when the source decoder
// did not preserve insertion order (plain map[string]any has none).
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromOrdered converts a value decoded with yaml.UseOrderedMap() (mappings
// represented as yaml.MapSlice rather than map[string]any) into a Value
// tree, preserving declaration order throughout. Documents are decoded this
// way whenever that order is observable later: `let` bindings, process
// declaration order, and file-expectation order.
func FromOrdered(v any) Value {
	switch x := v.(type) {
	case yaml.MapSlice:
		b := NewMap()
		for _, item := range x {
			key := fmt.Sprintf("%v", item.Key)
			b.Set(key, FromOrdered(item.Value))
		}
		return b.Build()
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromOrdered(e)
		}
		return SeqValue(items)
	default:
		return FromAny(v)
	}
}

// ToAny converts a Value back into plain Go data suitable for
// encoding/json or goccy/go-yaml marshaling.
func ToAny(v Value) any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Bytes:
		return string(v.by)
	case Seq:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = ToAny(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = ToAny(v.m[k])
		}
		return out
	default:
		return nil
	}
}

// MarshalJSONCompact serializes v as compact JSON, as required by the
// $json expression head.
func MarshalJSONCompact(v Value) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ToAny(v)); err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	// json.Encoder always appends a trailing newline; $json's contract is a
	// bare compact string.
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// MarshalYAMLBlock serializes v as block-form YAML, as required by the
// $yaml expression head.
func MarshalYAMLBlock(v Value) (string, error) {
	out, err := yaml.MarshalWithOptions(ToAny(v), yaml.Indent(2))
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	return string(out), nil
}

// ParseJSON decodes a JSON byte buffer into a Value, used by the eq_json
// and include_json stream matchers.
func ParseJSON(buf []byte) (Value, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("parse json: %w", err)
	}
	return fromAnyJSON(raw), nil
}

// fromAnyJSON mirrors FromAny but understands json.Number and
// map[string]any with guaranteed no float64 ambiguity for integers.
func fromAnyJSON(v any) Value {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i)
		}
		f, _ := x.Float64()
		return FloatValue(f)
	case map[string]any:
		b := NewMap()
		for _, k := range sortedKeys(x) {
			b.Set(k, fromAnyJSON(x[k]))
		}
		return b.Build()
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = fromAnyJSON(e)
		}
		return SeqValue(items)
	default:
		return FromAny(v)
	}
}
