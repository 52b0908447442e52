package types

import (
	"fmt"
	"strings"
)

// Structure is a named product type. Its encoding is the concatenation of
// its field encodings in declaration order, without padding.
type Structure struct {
	name   string
	fields []DataType
	size   int
}

// NewStructure creates a structure type with the given fields.
func NewStructure(name string, fields ...DataType) *Structure {
	s := &Structure{name: name, fields: append([]DataType(nil), fields...)}
	for _, f := range fields {
		s.size += f.Size()
	}
	return s
}

func (s *Structure) Size() int        { return s.size }
func (s *Structure) Typename() string { return s.name }

// NumFields returns the number of fields.
func (s *Structure) NumFields() int { return len(s.fields) }

// Field returns the type of field i.
func (s *Structure) Field(i int) DataType { return s.fields[i] }

func (s *Structure) ConstructFromRaw(raw []byte) (DataValue, error) {
	if err := checkSize(s, raw); err != nil {
		return nil, err
	}
	r := &Record{typ: s, fields: make([]DataValue, len(s.fields))}
	offset := 0
	for i, ft := range s.fields {
		v, err := ft.ConstructFromRaw(raw[offset : offset+ft.Size()])
		if err != nil {
			return nil, fmt.Errorf("types: %s field %d: %w", s.name, i, err)
		}
		r.fields[i] = v
		offset += ft.Size()
	}
	return r, nil
}

// Describe returns the structure with its field types, e.g. "Point(Integer, Integer)".
func (s *Structure) Describe() string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Typename()
	}
	return s.name + "(" + strings.Join(names, ", ") + ")"
}

// Record is a value of a Structure type.
type Record struct {
	typ    *Structure
	fields []DataValue
}

// NewRecord creates a record, checking each field against the structure.
func NewRecord(s *Structure, fields ...DataValue) (*Record, error) {
	if len(fields) != len(s.fields) {
		return nil, fmt.Errorf("types: %s: %w: got %d fields, want %d",
			s.name, ErrFieldMismatch, len(fields), len(s.fields))
	}
	for i, f := range fields {
		if !SameType(f.DataType(), s.fields[i]) {
			return nil, fmt.Errorf("types: %s field %d: %w: got %s, want %s",
				s.name, i, ErrFieldMismatch, f.DataType().Typename(), s.fields[i].Typename())
		}
	}
	return &Record{typ: s, fields: append([]DataValue(nil), fields...)}, nil
}

func (r *Record) DataType() DataType { return r.typ }

func (r *Record) Raw() []byte {
	out := make([]byte, 0, r.typ.size)
	for _, f := range r.fields {
		out = append(out, f.Raw()...)
	}
	return out
}

func (r *Record) Set(raw []byte) error {
	// Decode every field before touching the record so a failure leaves it as it was.
	decoded, err := r.typ.ConstructFromRaw(raw)
	if err != nil {
		return err
	}
	r.fields = decoded.(*Record).fields
	return nil
}

// Field returns field i.
func (r *Record) Field(i int) DataValue { return r.fields[i] }

// NumFields returns the number of fields.
func (r *Record) NumFields() int { return len(r.fields) }

func (r *Record) String() string {
	parts := make([]string, len(r.fields))
	for i, f := range r.fields {
		parts[i] = fmt.Sprint(f)
	}
	return r.typ.name + "{" + strings.Join(parts, ", ") + "}"
}
