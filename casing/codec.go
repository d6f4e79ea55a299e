package casing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrSyntax is returned for input that is not a single valid JSON value
	ErrSyntax = errors.New("casing: invalid JSON")
	// ErrInvalidNumber is returned when a Number does not hold a JSON number literal
	ErrInvalidNumber = errors.New("casing: invalid JSON number")
	// ErrUnsupportedType is returned by FromInterface for non-JSON Go types
	ErrUnsupportedType = errors.New("casing: unsupported type")
)

var api = jsoniter.Config{
	EscapeHTML: false,
	UseNumber:  true,
}.Froze()

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Decode parses exactly one JSON value from data. Surrounding whitespace is
// allowed, anything else after the value is an error. Object members keep
// their order.
func Decode(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrSyntax)
	}

	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)

	v, err := decodeValue(iter)
	if err != nil {
		return nil, err
	}

	// The iterator reports io.EOF once it reads past the input. Only a bare
	// number legitimately ends there.
	if iter.Error == io.EOF && v.Kind() != KindNumber {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, syntaxError(iter)
	}

	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrSyntax)
	}

	// The iterator reads member keys after a comma with ReadString, which
	// also takes a bare null as "".
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed document", ErrSyntax)
	}

	return v, nil
}

func decodeValue(iter *jsoniter.Iterator) (Value, error) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null{}, scalarError(iter)
	case jsoniter.BoolValue:
		b := iter.ReadBool()
		return Bool(b), scalarError(iter)
	case jsoniter.NumberValue:
		n := string(iter.ReadNumber())
		if err := scalarError(iter); err != nil {
			return nil, err
		}
		if !numberPattern.MatchString(n) {
			return nil, fmt.Errorf("%w: malformed number %q", ErrSyntax, n)
		}
		return Number(n), nil
	case jsoniter.StringValue:
		s := iter.ReadString()
		return String(s), scalarError(iter)
	case jsoniter.ArrayValue:
		return decodeArray(iter)
	case jsoniter.ObjectValue:
		return decodeObject(iter)
	default:
		if iter.Error != nil && iter.Error != io.EOF {
			return nil, syntaxError(iter)
		}
		return nil, fmt.Errorf("%w: expected a value", ErrSyntax)
	}
}

func decodeArray(iter *jsoniter.Iterator) (Value, error) {
	arr := Array{}
	var elemErr error

	ok := iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		v, err := decodeNested(it)
		if err != nil {
			elemErr = err
			return false
		}
		arr = append(arr, v)
		return true
	})

	if elemErr != nil {
		return nil, elemErr
	}
	if !ok || (iter.Error != nil && iter.Error != io.EOF) {
		return nil, syntaxError(iter)
	}
	return arr, nil
}

func decodeObject(iter *jsoniter.Iterator) (Value, error) {
	obj := newObject(8)
	var memberErr error

	ok := iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		v, err := decodeNested(it)
		if err != nil {
			memberErr = fmt.Errorf("key %q: %w", key, err)
			return false
		}
		obj.Set(key, v)
		return true
	})

	if memberErr != nil {
		return nil, memberErr
	}
	if !ok || (iter.Error != nil && iter.Error != io.EOF) {
		return nil, syntaxError(iter)
	}
	return obj, nil
}

// decodeNested decodes a value inside a container, where running into the
// end of input is always an error.
func decodeNested(iter *jsoniter.Iterator) (Value, error) {
	v, err := decodeValue(iter)
	if err != nil {
		return nil, err
	}
	if iter.Error != nil {
		return nil, syntaxError(iter)
	}
	return v, nil
}

func scalarError(iter *jsoniter.Iterator) error {
	if iter.Error != nil && iter.Error != io.EOF {
		return syntaxError(iter)
	}
	return nil
}

func syntaxError(iter *jsoniter.Iterator) error {
	if iter.Error == nil || iter.Error == io.EOF {
		return fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	return fmt.Errorf("%w: %v", ErrSyntax, iter.Error)
}

// Encode serializes v as compact JSON. HTML characters are not escaped and
// object members are written in order.
func Encode(v Value) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	if err := encodeValue(stream, v); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, fmt.Errorf("casing: encode: %w", stream.Error)
	}

	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

func encodeValue(stream *jsoniter.Stream, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		stream.WriteNil()
	case Bool:
		stream.WriteBool(bool(t))
	case Number:
		if !numberPattern.MatchString(string(t)) {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, string(t))
		}
		stream.WriteRaw(string(t))
	case String:
		stream.WriteString(string(t))
	case Array:
		stream.WriteArrayStart()
		for i, elem := range t {
			if i > 0 {
				stream.WriteMore()
			}
			if err := encodeValue(stream, elem); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	case *Object:
		stream.WriteObjectStart()
		for i, m := range t.Members() {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			if err := encodeValue(stream, m.Value); err != nil {
				return fmt.Errorf("key %q: %w", m.Key, err)
			}
		}
		stream.WriteObjectEnd()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}
