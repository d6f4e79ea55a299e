package casing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyFunc transforms an object key
type KeyFunc func(key string) string

// ToSnake converts a camelCase (or PascalCase) identifier to snake_case.
//
// An uppercase letter starts a new word unless it is the first character,
// follows an underscore, or sits inside an uppercase run that is not
// followed by a lowercase letter. The result is lowercased:
//
//	ToSnake("CamelCase") == "camel_case"
//	ToSnake("CAMELCase") == "camel_case"
//	ToSnake("userID")    == "user_id"
func ToSnake(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}

		if i > 0 {
			prev := runes[i-1]
			switch {
			case prev == '_':
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteByte('_')
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// ToCamel converts a snake_case identifier to camelCase. Leading, trailing
// and repeated underscores are ignored.
func ToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	first := true
	for _, segment := range strings.Split(s, "_") {
		if segment == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(segment))
			first = false
			continue
		}
		b.WriteString(capitalize(segment))
	}

	return b.String()
}

func capitalize(segment string) string {
	r, size := utf8.DecodeRuneInString(segment)
	return string(unicode.ToUpper(r)) + strings.ToLower(segment[size:])
}

// Identity returns the key unchanged
func Identity(key string) string {
	return key
}

// Chain applies the key functions in order
func Chain(fns ...KeyFunc) KeyFunc {
	return func(key string) string {
		result := key
		for _, fn := range fns {
			if fn != nil {
				result = fn(result)
			}
		}
		return result
	}
}

// When applies fn only to keys matching cond
func When(cond func(string) bool, fn KeyFunc) KeyFunc {
	return func(key string) string {
		if cond(key) {
			return fn(key)
		}
		return key
	}
}

// Except applies fn to every key but the listed ones
func Except(fn KeyFunc, keys ...string) KeyFunc {
	if len(keys) == 0 {
		return fn
	}

	preserved := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		preserved[k] = struct{}{}
	}

	return When(func(key string) bool {
		_, ok := preserved[key]
		return !ok
	}, fn)
}
