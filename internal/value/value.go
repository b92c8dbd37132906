// Package value implements the tagged-union Value model shared by the
// expression evaluator, the matcher engine, and the reporter: a JSON-like
// tree of Null, Bool, Int, Float, String, Bytes, Seq and Map nodes.
//
// Maps preserve insertion order (so human-facing output is stable) but
// compare as unordered sets of key/value pairs everywhere equality matters.
package value

import "fmt"

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Bytes
	Seq
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Seq:
		return "seq"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a JSON-like tagged union. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	by   []byte
	seq  []Value
	keys []string
	m    map[string]Value
}

func NullValue() Value           { return Value{kind: Null} }
func BoolValue(v bool) Value     { return Value{kind: Bool, b: v} }
func IntValue(v int64) Value     { return Value{kind: Int, i: v} }
func FloatValue(v float64) Value { return Value{kind: Float, f: v} }
func StringValue(v string) Value { return Value{kind: String, s: v} }
func BytesValue(v []byte) Value  { return Value{kind: Bytes, by: v} }

func SeqValue(items []Value) Value {
	return Value{kind: Seq, seq: items}
}

// NewMap builds a Map value, preserving the order keys are inserted via
// Builder.Set.
func NewMap() *Builder {
	return &Builder{m: map[string]Value{}}
}

// Builder accumulates Map entries in insertion order.
type Builder struct {
	keys []string
	m    map[string]Value
}

// Set inserts or overwrites key with val. Re-setting an existing key keeps
// its original position.
func (b *Builder) Set(key string, val Value) *Builder {
	if _, ok := b.m[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.m[key] = val
	return b
}

func (b *Builder) Build() Value {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	m := make(map[string]Value, len(b.m))
	for k, v := range b.m {
		m[k] = v
	}
	return Value{kind: Map, keys: keys, m: m}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) Bool() (bool, bool)       { return v.b, v.kind == Bool }
func (v Value) Int() (int64, bool)       { return v.i, v.kind == Int }
func (v Value) Float() (float64, bool)   { return v.f, v.kind == Float }
func (v Value) String() (string, bool)   { return v.s, v.kind == String }
func (v Value) Bytes() ([]byte, bool)    { return v.by, v.kind == Bytes }
func (v Value) Seq() ([]Value, bool)     { return v.seq, v.kind == Seq }

// MapKeys returns the map's keys in insertion order. Empty if v is not a Map.
func (v Value) MapKeys() []string {
	if v.kind != Map {
		return nil
	}
	return v.keys
}

// MapGet looks up key in a Map value.
func (v Value) MapGet(key string) (Value, bool) {
	if v.kind != Map {
		return Value{}, false
	}
	val, ok := v.m[key]
	return val, ok
}

// SoleEntry returns the single map key and Value when v is a Map with exactly one
// entry, used to detect "$head: arg" expression maps.
func (v Value) SoleEntry() (key string, val Value, ok bool) {
	if v.kind != Map || len(v.keys) != 1 {
		return "", Value{}, false
	}
	k := v.keys[0]
	return k, v.m[k], true
}

// AsText renders scalar values for use as command-line arguments or
// interpolated text. Non-scalars return an error: argv entries, $env
// lookups, and similar contexts only ever deal in scalars once expressions
// are fully resolved.
func (v Value) AsText() (string, error) {
	switch v.kind {
	case Null:
		return "", nil
	case Bool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case Int:
		return fmt.Sprintf("%d", v.i), nil
	case Float:
		return fmt.Sprintf("%g", v.f), nil
	case String:
		return v.s, nil
	case Bytes:
		return string(v.by), nil
	default:
		return "", fmt.Errorf("value of kind %s cannot be used as text", v.kind)
	}
}

// Equal implements the structural equality used by eq_json: objects compare
// by key/value regardless of key order, arrays compare element-wise in
// order, and scalars compare by value (numeric Int/Float cross-compare).
func Equal(a, b Value) bool {
	if a.kind == Int && b.kind == Float {
		return float64(a.i) == b.f
	}
	if a.kind == Float && b.kind == Int {
		return a.f == float64(b.i)
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f
	case String:
		return a.s == b.s
	case Bytes:
		return string(a.by) == string(b.by)
	case Seq:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Includes implements include_json: every scalar reachable in P must equal
// the value at the same path in J; array elements in P must appear at the
// same indices in J (J may have more); J may have extra object keys that P
// does not mention.
func Includes(j, p Value) bool {
	switch p.kind {
	case Map:
		if j.kind != Map {
			return false
		}
		for _, k := range p.keys {
			jv, ok := j.MapGet(k)
			if !ok || !Includes(jv, p.m[k]) {
				return false
			}
		}
		return true
	case Seq:
		if j.kind != Seq || len(p.seq) > len(j.seq) {
			return false
		}
		for i, pv := range p.seq {
			if !Includes(j.seq[i], pv) {
				return false
			}
		}
		return true
	default:
		return Equal(j, p)
	}
}
