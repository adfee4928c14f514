// json.go - parse_json/format_json, grounded on builtin_json.go but
// converting through value.Value instead of `any` so every decoded
// object still carries the prototype/lock machinery of the core.
package stdlib

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vela-lang/vela/pkg/value"
)

// RegisterJSON attaches parse_json/format_json as globals in env.
func RegisterJSON(env Globals) {
	env.Define("parse_json", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) == 0 || !args[0].IsString() {
			return value.Undefined(), fmt.Errorf("parse_json() requires a string argument")
		}
		var decoded any
		if err := json.Unmarshal([]byte(args[0].Str), &decoded); err != nil {
			return value.Undefined(), fmt.Errorf("parse_json(): %w", err)
		}
		return jsonToValue(decoded), nil
	}))

	env.Define("format_json", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined(), fmt.Errorf("format_json() requires at least one argument")
		}
		pretty := len(args) > 1 && args[1].Truthy()
		encoded, err := valueToJSON(args[0])
		if err != nil {
			return value.Undefined(), err
		}
		var buf []byte
		if pretty {
			buf, err = json.MarshalIndent(encoded, "", "  ")
		} else {
			buf, err = json.Marshal(encoded)
		}
		if err != nil {
			return value.Undefined(), fmt.Errorf("format_json(): %w", err)
		}
		return value.String(string(buf)), nil
	}))
}

func jsonToValue(v any) value.Value {
	switch val := v.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(val)
	case float64:
		return value.Number(val)
	case string:
		return value.String(val)
	case []any:
		elems := make([]value.Value, len(val))
		for i, e := range val {
			elems[i] = jsonToValue(e)
		}
		return value.NewArray(elems)
	case map[string]any:
		obj := value.NewObject()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = value.Set(obj, value.String(k), jsonToValue(val[k]))
		}
		return obj
	default:
		return value.Undefined()
	}
}

func valueToJSON(v value.Value) (any, error) {
	switch v.Kind {
	case value.KindUndefined, value.KindNull:
		return nil, nil
	case value.KindTrue:
		return true, nil
	case value.KindFalse:
		return false, nil
	case value.KindNumber:
		return v.Num, nil
	case value.KindString:
		return v.Str, nil
	case value.KindArray:
		out := make([]any, v.Arr.Len())
		for i, elem := range v.Arr.Elements {
			enc, err := valueToJSON(elem)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case value.KindObject:
		out := make(map[string]any)
		for _, key := range v.Obj.OwnKeys() {
			if !key.IsString() {
				continue
			}
			field, _ := v.Obj.OwnGet(key)
			enc, err := valueToJSON(field)
			if err != nil {
				return nil, err
			}
			out[key.Str] = enc
		}
		return out, nil
	default:
		return nil, fmt.Errorf("format_json(): cannot encode a %s", v.Kind)
	}
}
