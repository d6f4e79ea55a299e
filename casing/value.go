package casing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded JSON value. The concrete types are Null, Bool, Number,
// String, Array and *Object.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal
type Null struct{}

// Bool is a JSON boolean
type Bool bool

// Number is a JSON number kept as its literal text
type Number string

// String is a JSON string
type String string

// Array is a JSON array
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}

// Member is a single key/value pair of an Object
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with unique keys kept in insertion order
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject builds an object from members. A repeated key overwrites the
// earlier value but keeps the earlier position.
func NewObject(members ...Member) *Object {
	o := newObject(len(members))
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

func newObject(capacity int) *Object {
	return &Object{
		members: make([]Member, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// Set stores value under key
func (o *Object) Set(key string, value Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Len returns the number of members
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns the members in order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Keys returns the keys in order
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for _, m := range o.Members() {
		keys = append(keys, m.Key)
	}
	return keys
}

// RewriteKeys returns a copy of v with fn applied to every object key at
// every depth. Values, including strings, are left untouched.
func RewriteKeys(v Value, fn KeyFunc) Value {
	switch t := v.(type) {
	case *Object:
		out := newObject(t.Len())
		for _, m := range t.Members() {
			out.Set(fn(m.Key), RewriteKeys(m.Value, fn))
		}
		return out
	case Array:
		out := make(Array, len(t))
		for i, elem := range t {
			out[i] = RewriteKeys(elem, fn)
		}
		return out
	case nil:
		return Null{}
	default:
		return v
	}
}

// Interface converts v into the generic form produced by encoding/json with
// UseNumber: nil, bool, json.Number, string, []any and map[string]any.
func Interface(v Value) any {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Number:
		return json.Number(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Interface(elem)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for _, m := range t.Members() {
			out[m.Key] = Interface(m.Value)
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts a generic JSON-like Go value into a Value. Map keys
// are sorted since Go maps carry no order.
func FromInterface(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case int:
		return Number(strconv.Itoa(t)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case []any:
		out := make(Array, len(t))
		for i, elem := range t {
			v, err := FromInterface(elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := newObject(len(keys))
		for _, k := range keys {
			v, err := FromInterface(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, in)
	}
}
