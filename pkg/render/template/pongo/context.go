package pongo

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-mailtemplate/pkg/render/template"
)

// envelope is the per-render context shape: templates see the caller data as
// `data` and the inline attachment content ids as `cids`.
type envelope struct {
	Data any                     `json:"data"`
	CIDs template.AdditionalCIDs `json:"cids"`
}

func (e envelope) context() (pongo2.Context, error) {
	data, err := convertValue(e.Data)
	if err != nil {
		return nil, err
	}
	cids := make([]string, len(e.CIDs))
	copy(cids, e.CIDs)
	return pongo2.Context{
		"data": data,
		"cids": cids,
	}, nil
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

// convertValue turns arbitrary caller data into plain maps, slices and
// scalars through its JSON representation, so json struct tags decide the
// names templates see. Functions are passed through untouched.
func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if isCallable(value) {
		return value, nil
	}

	switch v := value.(type) {
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	case json.Number:
		return convertNumber(v), nil
	case string, bool, int, int64, float64:
		return v, nil
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		switch decoded := raw.(type) {
		case map[string]any:
			return convertMap(decoded)
		case []any:
			return convertSlice(decoded)
		case json.Number:
			return convertNumber(decoded), nil
		default:
			return decoded, nil
		}
	}
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// convertNumber keeps integers integral; pongo2 prints float64 values with a
// fixed number of decimals.
func convertNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
