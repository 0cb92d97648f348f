package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"users-report/internal/flatten"
)

// DecodePayload decodes a JSON object keeping its key order.
func DecodePayload(raw []byte) (*flatten.Object, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return flatten.NewObject(), nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return fromD(doc), nil
}

func fromD(doc bson.D) *flatten.Object {
	out := flatten.NewObject()
	for _, e := range doc {
		out.Set(e.Key, fromValue(e.Value))
	}
	return out
}

func fromValue(v any) any {
	switch t := v.(type) {
	case bson.D:
		return fromD(t)
	case bson.A:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, fromValue(item))
		}
		return out
	default:
		return v
	}
}

func field(data *flatten.Object, key string) any {
	v, _ := data.Get(key)
	return v
}

// truthy treats nil, "", false and numeric zero as false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int32:
		return t != 0
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// textField returns the value under key as text, nil when falsy.
func textField(data *flatten.Object, key string) *string {
	v := field(data, key)
	if !truthy(v) {
		return nil
	}
	s := flatten.FormatValue(v)
	return &s
}

func stringField(data *flatten.Object, key string) string {
	if s := textField(data, key); s != nil {
		return *s
	}
	return ""
}

// numberField keeps numeric zero, unlike textField.
func numberField(data *flatten.Object, key string) json.Number {
	switch v := field(data, key).(type) {
	case nil:
		return ""
	case string:
		return json.Number(strings.TrimSpace(v))
	default:
		return json.Number(flatten.FormatValue(v))
	}
}

func listField(data *flatten.Object, key string) []string {
	switch v := field(data, key).(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				out = append(out, "")
				continue
			}
			out = append(out, flatten.FormatValue(item))
		}
		return out
	default:
		return []string{flatten.FormatValue(v)}
	}
}
