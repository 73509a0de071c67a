package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FromStruct derives a Descriptor from a Go struct using reflection and
// struct tags, so callers can declare their artifact schema as a plain typed
// definition:
//
//	type Incident struct {
//		Title         string   `json:"title" description:"Short incident title"`
//		Severity      string   `json:"severity" description:"Triage severity" enum:"low|medium|high|critical"`
//		IncidentStart int      `json:"incident_start" description:"Hours since the incident began" min:"0"`
//		Email         string   `json:"email" description:"Reporter email" pattern:"^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"`
//		Tags          []string `json:"tags" description:"Labels" minItems:"1"`
//	}
//
//	desc, err := schema.FromStruct(Incident{})
//
// Recognized tags: json (field name, "-" skips), description, pattern, enum
// (pipe separated literals), min / max (numeric bounds), minItems / maxItems
// (list length bounds). Pointer fields and fields tagged omitempty are
// optional when nested inside objects; everything else is required
// (mirroring JSON-schema derivation for tool parameters).
func FromStruct(v any) (*Descriptor, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected struct, got %T", ErrUnsupportedType, v)
	}
	fields, err := specsFromStruct(t)
	if err != nil {
		return nil, err
	}
	return New(fields...)
}

func specsFromStruct(t reflect.Type) ([]FieldSpec, error) {
	var fields []FieldSpec
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		jsonTag := sf.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := sf.Name
		omitEmpty := false
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if strings.TrimSpace(opt) == "omitempty" {
					omitEmpty = true
				}
			}
		}

		ft := sf.Type
		optional := omitEmpty
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
			optional = true
		}

		kind, err := kindFromType(ft, sf.Tag)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		fields = append(fields, FieldSpec{
			Name:        name,
			Description: sf.Tag.Get("description"),
			Required:    !optional,
			Kind:        kind,
		})
	}
	return fields, nil
}

func kindFromType(t reflect.Type, tag reflect.StructTag) (Kind, error) {
	switch t.Kind() {
	case reflect.String:
		if enum := tag.Get("enum"); enum != "" {
			return EnumKind{Values: strings.Split(enum, "|")}, nil
		}
		return StringKind{Pattern: tag.Get("pattern")}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		kind := IntegerKind{}
		var err error
		if kind.Min, err = int64Tag(tag, "min"); err != nil {
			return nil, err
		}
		if kind.Max, err = int64Tag(tag, "max"); err != nil {
			return nil, err
		}
		return kind, nil
	case reflect.Float32, reflect.Float64:
		kind := NumberKind{}
		var err error
		if kind.Min, err = float64Tag(tag, "min"); err != nil {
			return nil, err
		}
		if kind.Max, err = float64Tag(tag, "max"); err != nil {
			return nil, err
		}
		return kind, nil
	case reflect.Bool:
		return BoolKind{}, nil
	case reflect.Slice, reflect.Array:
		elem, err := kindFromType(t.Elem(), "")
		if err != nil {
			return nil, err
		}
		kind := ListKind{Elem: elem}
		if min, err := intTag(tag, "minItems"); err != nil {
			return nil, err
		} else if min != nil {
			kind.MinItems = *min
		}
		if kind.MaxItems, err = intTag(tag, "maxItems"); err != nil {
			return nil, err
		}
		return kind, nil
	case reflect.Struct:
		members, err := specsFromStruct(t)
		if err != nil {
			return nil, err
		}
		return ObjectKind{Fields: members}, nil
	case reflect.Ptr:
		return kindFromType(t.Elem(), tag)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t.Kind())
	}
}

func int64Tag(tag reflect.StructTag, name string) (*int64, error) {
	raw, ok := tag.Lookup(name)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %s=%q", ErrInvalidBounds, name, raw)
	}
	return &n, nil
}

func float64Tag(tag reflect.StructTag, name string) (*float64, error) {
	raw, ok := tag.Lookup(name)
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %s=%q", ErrInvalidBounds, name, raw)
	}
	return &f, nil
}

func intTag(tag reflect.StructTag, name string) (*int, error) {
	raw, ok := tag.Lookup(name)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %s=%q", ErrInvalidListBounds, name, raw)
	}
	return &n, nil
}
