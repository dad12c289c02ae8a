package formatter

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// TimeLayout is used for time.Time values found in placeholders
var TimeLayout = time.RFC3339Nano

// dumper renders composite values compactly and deterministically
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Value converts any value to its text representation.
// Types without a natural text form are delegated to spew.
func Value(v any) string {
	return string(AppendValue(nil, v))
}

// AppendValue appends the text representation of v to buf
func AppendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int8:
		return strconv.AppendInt(buf, int64(val), 10)
	case int16:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "null"...)
	case time.Time:
		return val.AppendFormat(buf, TimeLayout)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case []byte:
		return append(buf, val...)
	}

	var b bytes.Buffer
	dumper.Fprintf(&b, "%+v", v)
	return append(buf, bytes.TrimSpace(b.Bytes())...)
}

// MapLookup returns a lookup over a string-keyed map, or nil when v is not one
func MapLookup(v any) Lookup {
	switch m := v.(type) {
	case map[string]any:
		return func(name string) (any, bool) {
			val, ok := m[name]
			return val, ok
		}
	case map[string]string:
		return func(name string) (any, bool) {
			val, ok := m[name]
			return val, ok
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	keyType := rv.Type().Key()
	return func(name string) (any, bool) {
		val := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	}
}
