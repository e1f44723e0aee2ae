package serial

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers for use inside field mutators: decoded documents carry
// structural values (int64, float64, string, bool, []any, *Document), and
// these convert them to the field's concrete type with a descriptive error
// on mismatch.

// AsString converts a decoded value to a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, found %T", ErrTypeMismatch, v)
	}
	return s, nil
}

// AsInt converts a decoded value to an int64, accepting integral floats.
func AsInt(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
		return 0, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, t)
	case json.Number:
		return t.Int64()
	}
	return 0, fmt.Errorf("%w: expected integer, found %T", ErrTypeMismatch, v)
}

// AsFloat converts a decoded value to a float64.
func AsFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	}
	return 0, fmt.Errorf("%w: expected number, found %T", ErrTypeMismatch, v)
}

// AsBool converts a decoded value to a bool.
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, found %T", ErrTypeMismatch, v)
	}
	return b, nil
}

// AsTime converts a decoded value to a time.Time. Strings are parsed as
// RFC 3339, the encoding used for dates on the wire.
func AsTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not an RFC 3339 timestamp", ErrTypeMismatch, t)
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: expected timestamp, found %T", ErrTypeMismatch, v)
}

// AsList converts a decoded value to a []any.
func AsList(v any) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected list, found %T", ErrTypeMismatch, v)
	}
	return list, nil
}

// AsDocument converts a decoded value to a *Document.
func AsDocument(v any) (*Document, error) {
	doc, ok := v.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: expected document, found %T", ErrTypeMismatch, v)
	}
	return doc, nil
}

// keyString renders a field value as a set key. The second return reports
// whether the value constitutes a usable key; empty and nil values do not,
// and trigger surrogate key generation.
func keyString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case time.Time:
		return t.Format(time.RFC3339Nano), true
	case json.Number:
		return t.String(), true
	}
	s := fmt.Sprint(v)
	return s, s != ""
}

// isEmptyValue reports whether a field value counts as empty for sorting:
// nil and the empty string sort last regardless of direction.
func isEmptyValue(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// compareValues orders two non-empty field values. Numeric values compare
// numerically across int64/float64, strings lexically, bools false-first,
// timestamps chronologically. Incomparable values fall back to their
// formatted representations so sorting stays total.
func compareValues(a, b any) int {
	if fa, fb, ok := bothNumeric(a, b); ok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case !ba && bb:
				return -1
			case ba && !bb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func bothNumeric(a, b any) (float64, float64, bool) {
	fa, ok := numeric(a)
	if !ok {
		return 0, 0, false
	}
	fb, ok := numeric(b)
	if !ok {
		return 0, 0, false
	}
	return fa, fb, true
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}
