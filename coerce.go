package sqlite

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jinzhu/now"

	"github.com/ormkit/sqlite/schema"
)

type invalidParam struct{}

func (invalidParam) String() string { return "InvalidParam" }

// InvalidParam is substituted for a value that cannot be represented in the
// target column type. The execution facade binds it as NULL so the statement
// still runs; the surrounding operation is a validation failure upstream.
var InvalidParam = invalidParam{}

type defaultGenerated struct{}

func (defaultGenerated) String() string { return "DEFAULT" }

// DefaultGenerated marks a missing value for a primary-key or auto-increment
// column. The engine rejects an explicit NULL there, so the column is left to
// the backend's generated value instead.
var DefaultGenerated = defaultGenerated{}

var truthy = map[string]bool{"t": true, "T": true, "y": true, "Y": true, "1": true}
var falsy = map[string]bool{"f": true, "F": true, "n": true, "N": true, "0": true}

// ToColumnValue converts an application value to its native column
// representation for the given property. A nil property passes the value
// through unchanged.
func ToColumnValue(p *schema.Property, val interface{}) interface{} {
	if val == nil {
		if p != nil && p.ID {
			return DefaultGenerated
		}
		return nil
	}
	if p == nil {
		return val
	}

	switch p.Type {
	case schema.Number:
		if n, ok := numericValue(val); ok {
			return n
		}
		return InvalidParam

	case schema.Boolean:
		switch v := val.(type) {
		case bool:
			if v {
				return 1
			}
			return 0
		case string:
			if truthy[v] {
				return 1
			}
			if falsy[v] {
				return 0
			}
		default:
			if n, ok := numericValue(val); ok {
				if n == 1 {
					return 1
				}
				if n == 0 {
					return 0
				}
			}
		}
		return InvalidParam

	case schema.String:
		return val

	case schema.Date:
		switch v := val.(type) {
		case time.Time:
			return v.UnixMilli()
		case string:
			if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
				return ms
			}
			if t, err := now.Parse(v); err == nil {
				return t.UnixMilli()
			}
			return InvalidParam
		default:
			if n, ok := numericValue(val); ok {
				return int64(n)
			}
		}
		return InvalidParam

	case schema.JSON:
		// JSON values are stored as text verbatim and never re-parsed on read
		switch v := val.(type) {
		case string:
			if json.Valid([]byte(v)) {
				return v
			}
		case []byte:
			if json.Valid(v) {
				return string(v)
			}
		}
		return InvalidParam

	case schema.Object, schema.Array, schema.GeoPoint, schema.Reference:
		buf, err := json.Marshal(val)
		if err != nil {
			return InvalidParam
		}
		return string(buf)
	}

	return val
}

// FromColumnValue converts a stored column value back to its application
// representation for the given property. A nil property passes the value
// through unchanged.
func FromColumnValue(p *schema.Property, stored interface{}) interface{} {
	if stored == nil || p == nil {
		return stored
	}

	switch p.Type {
	case schema.Boolean:
		switch v := stored.(type) {
		case bool:
			return v
		case string:
			return truthy[v]
		default:
			if n, ok := numericValue(stored); ok {
				return n == 1
			}
		}
		return false

	case schema.String:
		if s, ok := stored.(string); ok {
			return s
		}
		if b, ok := stored.([]byte); ok {
			return string(b)
		}
		return fmt.Sprint(stored)

	case schema.Date:
		if n, ok := numericValue(stored); ok {
			return time.UnixMilli(int64(n))
		}
		return stored

	case schema.JSON:
		if b, ok := stored.([]byte); ok {
			return string(b)
		}
		return stored

	case schema.Object, schema.Array, schema.GeoPoint, schema.Reference:
		var text []byte
		switch v := stored.(type) {
		case string:
			text = []byte(v)
		case []byte:
			text = v
		default:
			return stored
		}
		var out interface{}
		if err := json.Unmarshal(text, &out); err != nil {
			return string(text)
		}
		return out
	}

	return stored
}

// numericValue normalizes any numeric kind, including numeric strings, to a
// float64. ok is false for non-numeric values.
func numericValue(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	case []byte:
		if n, err := strconv.ParseFloat(string(v), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
