// Package adapters contains helpers shared by the concrete adapter implementations in
// its subpackages.
package adapters

import (
	"strconv"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// MergeProperties combines a stored context map with event-local properties into one
// object value. Event-local properties win on key collision.
func MergeProperties(stored map[string]ldvalue.Value, eventProps ldvalue.Value) ldvalue.Value {
	builder := ldvalue.ObjectBuild()
	for key, value := range stored {
		builder.Set(key, value)
	}
	for _, key := range eventProps.Keys(nil) {
		builder.Set(key, eventProps.GetByKey(key))
	}
	return builder.Build()
}

// Segmentation converts an object value into the stringly-typed segmentation that the
// Countly wire format requires: strings pass through, numbers and booleans use their
// canonical form, objects and arrays are JSON-serialized, and null becomes empty string.
func Segmentation(props ldvalue.Value) map[string]string {
	keys := props.Keys(nil)
	if len(keys) == 0 {
		return nil
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[key] = CoerceString(props.GetByKey(key))
	}
	return out
}

// InterfaceMap converts an object value into the loosely typed property map that the
// PostHog client accepts.
func InterfaceMap(props ldvalue.Value) map[string]interface{} {
	keys := props.Keys(nil)
	if len(keys) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		out[key] = props.GetByKey(key).AsArbitraryValue()
	}
	return out
}

// CoerceString renders a single value as a string, using the same rules as Segmentation.
func CoerceString(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.NullType:
		return ""
	case ldvalue.StringType:
		return v.StringValue()
	case ldvalue.BoolType:
		return strconv.FormatBool(v.BoolValue())
	case ldvalue.NumberType:
		return strconv.FormatFloat(v.Float64Value(), 'f', -1, 64)
	default:
		return v.JSONString()
	}
}
