package schema

import (
	"fmt"
	"regexp"
)

// Descriptor is an immutable, ordered collection of field specs. It is built
// once via New (or FromStruct) and shared by every artifact instance bound to
// the same schema. All patterns are compiled during construction.
type Descriptor struct {
	fields   []FieldSpec
	index    map[string]int
	patterns map[string]*regexp.Regexp
}

// New builds a Descriptor from the given field specs. It returns an error if
// the definition is internally inconsistent: empty or duplicate names, nil
// kinds, empty enums, uncompilable patterns or inverted bounds anywhere in
// the (possibly nested) definition. Errors wrap the sentinel errors declared
// in this package and name the offending field path.
func New(fields ...FieldSpec) (*Descriptor, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	d := &Descriptor{
		fields:   make([]FieldSpec, len(fields)),
		index:    make(map[string]int, len(fields)),
		patterns: make(map[string]*regexp.Regexp),
	}
	copy(d.fields, fields)

	for i, f := range d.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: %w", i, ErrEmptyFieldName)
		}
		if _, exists := d.index[f.Name]; exists {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrDuplicateField)
		}
		d.index[f.Name] = i
		if err := d.checkKind(f.Name, f.Kind); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// checkKind validates a kind definition recursively, compiling patterns as a
// side effect. path identifies the offending field in error messages.
func (d *Descriptor) checkKind(path string, k Kind) error {
	switch kind := k.(type) {
	case nil:
		return fmt.Errorf("field %q: %w", path, ErrMissingKind)
	case StringKind:
		if kind.Pattern == "" {
			return nil
		}
		re, err := regexp.Compile(kind.Pattern)
		if err != nil {
			return fmt.Errorf("field %q: %w: %v", path, ErrInvalidPattern, err)
		}
		d.patterns[kind.Pattern] = re
		return nil
	case IntegerKind:
		if kind.Min != nil && kind.Max != nil && *kind.Min > *kind.Max {
			return fmt.Errorf("field %q: %w", path, ErrInvalidBounds)
		}
		return nil
	case NumberKind:
		if kind.Min != nil && kind.Max != nil && *kind.Min > *kind.Max {
			return fmt.Errorf("field %q: %w", path, ErrInvalidBounds)
		}
		return nil
	case BoolKind:
		return nil
	case EnumKind:
		if len(kind.Values) == 0 {
			return fmt.Errorf("field %q: %w", path, ErrEmptyEnum)
		}
		return nil
	case ListKind:
		if kind.MinItems < 0 {
			return fmt.Errorf("field %q: %w", path, ErrInvalidListBounds)
		}
		if kind.MaxItems != nil && *kind.MaxItems < kind.MinItems {
			return fmt.Errorf("field %q: %w", path, ErrInvalidListBounds)
		}
		if kind.Elem == nil {
			return fmt.Errorf("field %q: %w", path+"[]", ErrMissingKind)
		}
		return d.checkKind(path+"[]", kind.Elem)
	case ObjectKind:
		seen := make(map[string]struct{}, len(kind.Fields))
		for _, member := range kind.Fields {
			if member.Name == "" {
				return fmt.Errorf("field %q: %w", path, ErrEmptyFieldName)
			}
			memberPath := path + "." + member.Name
			if _, exists := seen[member.Name]; exists {
				return fmt.Errorf("field %q: %w", memberPath, ErrDuplicateField)
			}
			seen[member.Name] = struct{}{}
			if err := d.checkKind(memberPath, member.Kind); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("field %q: %w: %T", path, ErrUnsupportedType, k)
	}
}

// Fields returns a copy of the ordered field specs.
func (d *Descriptor) Fields() []FieldSpec {
	fields := make([]FieldSpec, len(d.fields))
	copy(fields, d.fields)
	return fields
}

// Names returns the field names in declaration order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the spec for the given name and whether it is declared.
func (d *Descriptor) Field(name string) (FieldSpec, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return d.fields[i], true
}

// Len returns the number of declared top-level fields.
func (d *Descriptor) Len() int { return len(d.fields) }

// pattern returns the compiled regexp for a pattern source. Patterns are
// compiled during construction, so lookups never fail for a valid Descriptor.
func (d *Descriptor) pattern(src string) *regexp.Regexp { return d.patterns[src] }
