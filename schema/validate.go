package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Validate checks a candidate value for the named field. On success it
// returns the normalized value (for example "42" becomes int64(42) for an
// integer field) and a nil violation list. On failure it returns nil and the
// ordered list of violations.
//
// Validate is pure and deterministic: it never mutates the candidate and
// identical inputs always yield identical outcomes. The Unanswered sentinel
// is accepted for every declared field.
func (d *Descriptor) Validate(fieldName string, value any) (any, Violations) {
	spec, ok := d.Field(fieldName)
	if !ok {
		return nil, Violations{{
			Path:       fieldName,
			Constraint: ConstraintUnknownField,
			Value:      value,
			Message:    fmt.Sprintf("field %q is not declared in the schema", fieldName),
		}}
	}
	if IsUnanswered(value) {
		return Unanswered, nil
	}
	return d.validateValue(fieldName, spec.Kind, value)
}

func (d *Descriptor) validateValue(path string, k Kind, value any) (any, Violations) {
	switch kind := k.(type) {
	case StringKind:
		return d.validateString(path, kind, value)
	case IntegerKind:
		return validateInteger(path, kind, value)
	case NumberKind:
		return validateNumber(path, kind, value)
	case BoolKind:
		return validateBool(path, value)
	case EnumKind:
		return validateEnum(path, kind, value)
	case ListKind:
		return d.validateList(path, kind, value)
	case ObjectKind:
		return d.validateObject(path, kind, value)
	default:
		// Unreachable for descriptors built via New; kept for exhaustiveness.
		return nil, Violations{{Path: path, Constraint: ConstraintType, Value: value, Message: fmt.Sprintf("unsupported kind %T", k)}}
	}
}

func (d *Descriptor) validateString(path string, kind StringKind, value any) (any, Violations) {
	s, ok := value.(string)
	if !ok {
		return nil, Violations{typeViolation(path, "string", value)}
	}
	if kind.Pattern != "" && !d.pattern(kind.Pattern).MatchString(s) {
		return nil, Violations{{
			Path:       path,
			Constraint: ConstraintPattern,
			Value:      s,
			Message:    fmt.Sprintf("value %q does not match pattern %q", s, kind.Pattern),
		}}
	}
	return s, nil
}

func validateInteger(path string, kind IntegerKind, value any) (any, Violations) {
	n, vio := coerceInt64(path, value)
	if vio != nil {
		return nil, Violations{*vio}
	}
	if kind.Min != nil && n < *kind.Min {
		return nil, Violations{{Path: path, Constraint: ConstraintMin, Value: n, Message: fmt.Sprintf("value %d is below minimum %d", n, *kind.Min)}}
	}
	if kind.Max != nil && n > *kind.Max {
		return nil, Violations{{Path: path, Constraint: ConstraintMax, Value: n, Message: fmt.Sprintf("value %d is above maximum %d", n, *kind.Max)}}
	}
	return n, nil
}

func validateNumber(path string, kind NumberKind, value any) (any, Violations) {
	f, vio := coerceFloat64(path, value)
	if vio != nil {
		return nil, Violations{*vio}
	}
	if kind.Min != nil && f < *kind.Min {
		return nil, Violations{{Path: path, Constraint: ConstraintMin, Value: f, Message: fmt.Sprintf("value %v is below minimum %v", f, *kind.Min)}}
	}
	if kind.Max != nil && f > *kind.Max {
		return nil, Violations{{Path: path, Constraint: ConstraintMax, Value: f, Message: fmt.Sprintf("value %v is above maximum %v", f, *kind.Max)}}
	}
	return f, nil
}

func validateBool(path string, value any) (any, Violations) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, Violations{{Path: path, Constraint: ConstraintNumericParse, Value: v, Message: fmt.Sprintf("cannot parse %q as boolean", v)}}
		}
		return b, nil
	default:
		return nil, Violations{typeViolation(path, "boolean", value)}
	}
}

func validateEnum(path string, kind EnumKind, value any) (any, Violations) {
	s, ok := value.(string)
	if !ok {
		return nil, Violations{typeViolation(path, "string", value)}
	}
	for _, allowed := range kind.Values {
		if s == allowed {
			return s, nil
		}
	}
	return nil, Violations{{
		Path:       path,
		Constraint: ConstraintEnum,
		Value:      s,
		Message:    fmt.Sprintf("value %q is not one of [%s]", s, strings.Join(kind.Values, ", ")),
	}}
}

func (d *Descriptor) validateList(path string, kind ListKind, value any) (any, Violations) {
	items, ok := asSlice(value)
	if !ok {
		return nil, Violations{typeViolation(path, "list", value)}
	}
	var violations Violations
	if len(items) < kind.MinItems {
		violations = append(violations, Violation{
			Path:       path,
			Constraint: ConstraintMinItems,
			Value:      len(items),
			Message:    fmt.Sprintf("list has %d items, requires at least %d", len(items), kind.MinItems),
		})
	}
	if kind.MaxItems != nil && len(items) > *kind.MaxItems {
		violations = append(violations, Violation{
			Path:       path,
			Constraint: ConstraintMaxItems,
			Value:      len(items),
			Message:    fmt.Sprintf("list has %d items, allows at most %d", len(items), *kind.MaxItems),
		})
	}
	normalized := make([]any, len(items))
	for i, item := range items {
		nv, vs := d.validateValue(fmt.Sprintf("%s[%d]", path, i), kind.Elem, item)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		normalized[i] = nv
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return normalized, nil
}

func (d *Descriptor) validateObject(path string, kind ObjectKind, value any) (any, Violations) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, Violations{typeViolation(path, "object", value)}
	}

	var violations Violations
	normalized := make(map[string]any, len(obj))
	declared := make(map[string]struct{}, len(kind.Fields))

	for _, member := range kind.Fields {
		declared[member.Name] = struct{}{}
		memberPath := path + "." + member.Name
		raw, present := obj[member.Name]
		if !present {
			if member.Required {
				violations = append(violations, Violation{
					Path:       memberPath,
					Constraint: ConstraintRequired,
					Message:    fmt.Sprintf("required member %q is missing", member.Name),
				})
			}
			continue
		}
		nv, vs := d.validateValue(memberPath, member.Kind, raw)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		normalized[member.Name] = nv
	}

	// Unknown members are rejected so committed objects never carry
	// unvalidated data. Keys are sorted for deterministic ordering.
	var unknown []string
	for key := range obj {
		if _, ok := declared[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		violations = append(violations, Violation{
			Path:       path + "." + key,
			Constraint: ConstraintUnknownField,
			Value:      obj[key],
			Message:    fmt.Sprintf("member %q is not declared in the schema", key),
		})
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return normalized, nil
}

// coerceInt64 normalizes supported representations to int64. Whole floats
// (the usual shape of JSON numbers) and numeric strings are accepted.
func coerceInt64(path string, value any) (int64, *Violation) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		if float32(int64(v)) == v {
			return int64(v), nil
		}
	case float64:
		if float64(int64(v)) == v {
			return int64(v), nil
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			vio := Violation{Path: path, Constraint: ConstraintNumericParse, Value: v, Message: fmt.Sprintf("cannot parse %q as integer", v)}
			return 0, &vio
		}
		return n, nil
	}
	vio := typeViolation(path, "integer", value)
	return 0, &vio
}

// coerceFloat64 normalizes supported representations to float64.
func coerceFloat64(path string, value any) (float64, *Violation) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			vio := Violation{Path: path, Constraint: ConstraintNumericParse, Value: v, Message: fmt.Sprintf("cannot parse %q as number", v)}
			return 0, &vio
		}
		return f, nil
	}
	vio := typeViolation(path, "number", value)
	return 0, &vio
}

// asSlice converts any slice or array value into []any. Strings and byte
// slices are deliberately not treated as lists.
func asSlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func typeViolation(path, expected string, value any) Violation {
	return Violation{
		Path:       path,
		Constraint: ConstraintType,
		Value:      value,
		Message:    fmt.Sprintf("expected %s, got %T", expected, value),
	}
}
