package runtime

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cast"
)

// CoerceToNumber implements the to_number builtin's conversion rules: a
// number passes through, a string is parsed with spf13/cast's
// ToFloat64E (a string it cannot parse converts to null), and anything
// else converts to null.
func CoerceToNumber(rt Runtime, v any) (any, bool) {
	if rt.Kind(v) == KindNumber {
		return v, true
	}
	s, ok := rt.AsString(v)
	if !ok {
		return rt.Null(), false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return rt.Null(), false
	}
	return rt.Number(f), true
}

// CoerceToString implements the to_string builtin: a string passes
// through, everything else is serialized as JSON text. It walks the
// Runtime value directly rather than through ToNative, because
// encoding/json.Marshal sorts map[string]any keys alphabetically and
// would silently undo the object key order the rest of this package
// works to preserve.
func CoerceToString(rt Runtime, v any) (string, error) {
	if s, ok := rt.AsString(v); ok {
		return s, nil
	}
	var buf []byte
	buf, err := appendOrderedJSON(rt, buf, v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func appendOrderedJSON(rt Runtime, buf []byte, v any) ([]byte, error) {
	switch rt.Kind(v) {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		b, _ := rt.AsBool(v)
		if b {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case KindNumber:
		f, _ := rt.AsFloat(v)
		encoded, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		return append(buf, encoded...), nil
	case KindString:
		s, _ := rt.AsString(v)
		encoded, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		return append(buf, encoded...), nil
	case KindArray:
		arr, _ := rt.AsArray(v)
		buf = append(buf, '[')
		for i, item := range arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendOrderedJSON(rt, buf, item)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindObject:
		obj, _ := rt.AsObject(v)
		buf = append(buf, '{')
		for i, key := range obj.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf = append(buf, encodedKey...)
			buf = append(buf, ':')
			value, _ := obj.Get(key)
			buf, err = appendOrderedJSON(rt, buf, value)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return append(buf, "null"...), nil
	}
}

// ToNative converts a Runtime value into plain Go data (map[string]any,
// []any, string, float64, bool, nil) suitable for encoding/json or for
// handing back to a caller that does not share this package's Runtime
// abstraction.
func ToNative(rt Runtime, v any) any {
	switch rt.Kind(v) {
	case KindNull:
		return nil
	case KindBool:
		b, _ := rt.AsBool(v)
		return b
	case KindNumber:
		f, _ := rt.AsFloat(v)
		return f
	case KindString:
		s, _ := rt.AsString(v)
		return s
	case KindArray:
		arr, _ := rt.AsArray(v)
		out := make([]any, len(arr))
		for i, item := range arr {
			out[i] = ToNative(rt, item)
		}
		return out
	case KindObject:
		obj, _ := rt.AsObject(v)
		out := make(map[string]any, obj.Len())
		obj.Range(func(key string, value any) bool {
			out[key] = ToNative(rt, value)
			return true
		})
		return out
	default:
		return nil
	}
}

// FromNative converts plain Go data decoded by encoding/json (or built by
// hand) into Runtime values, preserving object key order when the source
// is an *ordered* structure produced by ParseOrderedJSON.
func FromNative(rt Runtime, v any) any {
	switch val := v.(type) {
	case nil:
		return rt.Null()
	case bool:
		return rt.Bool(val)
	case float64:
		return rt.Number(val)
	case int:
		return rt.Number(float64(val))
	case string:
		return rt.String(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = FromNative(rt, item)
		}
		return rt.Array(items)
	case map[string]any:
		obj := rt.Object()
		for _, key := range sortedKeys(val) {
			obj = rt.ObjectSet(obj, key, FromNative(rt, val[key]))
		}
		return obj
	case *OrderedMap:
		obj := rt.Object()
		val.Range(func(key string, value any) bool {
			obj = rt.ObjectSet(obj, key, FromNative(rt, value))
			return true
		})
		return obj
	default:
		return rt.Null()
	}
}

// sortedKeys is only reached for a plain map[string]any, which has no
// recoverable insertion order (encoding/json discards it); sorting at
// least makes the fallback deterministic rather than Go-map-random.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// FormatNumber renders a Runtime number as text: integral values that fit
// in an int64 print without a decimal point, others in strconv's shortest
// 'g' form. to_string does not use it; it formats numbers through
// encoding/json.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
