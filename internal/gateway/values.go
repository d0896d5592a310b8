package gateway

import (
	"fmt"
	"sort"
	"strconv"
)

// value is one Firestore typed value.
type value struct {
	StringValue    *string     `json:"stringValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	DoubleValue    *float64    `json:"doubleValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	NullValue      *string     `json:"nullValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	MapValue       *mapValue   `json:"mapValue,omitempty"`
	ArrayValue     *arrayValue `json:"arrayValue,omitempty"`
}

type mapValue struct {
	Fields map[string]value `json:"fields"`
}

type arrayValue struct {
	Values []value `json:"values,omitempty"`
}

type remoteDocument struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields"`
}

func encodeFields(rec Record) (map[string]value, error) {
	out := make(map[string]value, len(rec))
	for k, v := range rec {
		ev, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = ev
	}
	return out, nil
}

func encodeValue(v any) (value, error) {
	switch x := v.(type) {
	case nil:
		null := "NULL_VALUE"
		return value{NullValue: &null}, nil
	case string:
		return value{StringValue: &x}, nil
	case bool:
		return value{BooleanValue: &x}, nil
	case int:
		s := strconv.Itoa(x)
		return value{IntegerValue: &s}, nil
	case int64:
		s := strconv.FormatInt(x, 10)
		return value{IntegerValue: &s}, nil
	case float64:
		return value{DoubleValue: &x}, nil
	case Record:
		fields, err := encodeFields(x)
		if err != nil {
			return value{}, err
		}
		return value{MapValue: &mapValue{Fields: fields}}, nil
	case map[string]any:
		return encodeValue(Record(x))
	case []any:
		arr := &arrayValue{}
		for _, item := range x {
			ev, err := encodeValue(item)
			if err != nil {
				return value{}, err
			}
			arr.Values = append(arr.Values, ev)
		}
		return value{ArrayValue: arr}, nil
	default:
		return value{}, fmt.Errorf("unsupported type %T", v)
	}
}

func decodeFields(fields map[string]value) Record {
	out := make(Record, len(fields))
	for k, v := range fields {
		out[k] = decodeValue(v)
	}
	return out
}

func decodeValue(v value) any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return *v.IntegerValue
		}
		return n
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.TimestampValue != nil:
		return *v.TimestampValue
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, item := range v.ArrayValue.Values {
			out = append(out, decodeValue(item))
		}
		return out
	default:
		return nil
	}
}

func fieldPaths(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
