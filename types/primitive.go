package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

type primitiveKind uint8

const (
	kindBoolean primitiveKind = iota
	kindInteger
	kindFloat
	kindBytes
)

// PrimitiveType describes a scalar encoding.
//
// Encodings:
//   - Boolean: 1 byte, 0 or 1 (any non-zero byte decodes as true)
//   - Integer: 8 bytes, big-endian two's complement
//   - Float:   8 bytes, big-endian IEEE 754
//   - Bytes(n): n bytes, big-endian unsigned
type PrimitiveType struct {
	kind primitiveKind
	size int
}

// Predefined primitive types.
var (
	Boolean = PrimitiveType{kind: kindBoolean, size: 1}
	Integer = PrimitiveType{kind: kindInteger, size: 8}
	Float   = PrimitiveType{kind: kindFloat, size: 8}
	Byte    = PrimitiveType{kind: kindBytes, size: 1}
)

// Bytes returns the unsigned integer type of width n bytes.
func Bytes(n int) PrimitiveType {
	if n < 1 {
		panic(fmt.Sprintf("types: invalid bytes width %d", n))
	}
	return PrimitiveType{kind: kindBytes, size: n}
}

// Common widths of Bytes.
var (
	Word = Bytes(2)
	Quad = Bytes(4)
	Long = Bytes(8)
	Wide = Bytes(16)
	Arch = Bytes(strconv.IntSize / 8)
)

func (t PrimitiveType) Size() int { return t.size }

func (t PrimitiveType) Typename() string {
	switch t.kind {
	case kindBoolean:
		return "Boolean"
	case kindInteger:
		return "Integer"
	case kindFloat:
		return "Float"
	default:
		if t.size == 1 {
			return "Byte"
		}
		return fmt.Sprintf("Bytes<%d>", t.size)
	}
}

func (t PrimitiveType) ConstructFromRaw(raw []byte) (DataValue, error) {
	if err := checkSize(t, raw); err != nil {
		return nil, err
	}
	p := &Primitive{typ: t, raw: make([]byte, t.size)}
	copy(p.raw, raw)
	if t.kind == kindBoolean && p.raw[0] != 0 {
		p.raw[0] = 1
	}
	return p, nil
}

func (t PrimitiveType) String() string { return t.Typename() }

// Primitive is a scalar value held in its encoded form.
type Primitive struct {
	typ PrimitiveType
	raw []byte
}

// NewBoolean creates a Boolean value.
func NewBoolean(b bool) *Primitive {
	p := &Primitive{typ: Boolean, raw: []byte{0}}
	if b {
		p.raw[0] = 1
	}
	return p
}

// NewInteger creates an Integer value.
func NewInteger(i int64) *Primitive {
	p := &Primitive{typ: Integer, raw: make([]byte, 8)}
	binary.BigEndian.PutUint64(p.raw, uint64(i))
	return p
}

// NewFloat creates a Float value.
func NewFloat(f float64) *Primitive {
	p := &Primitive{typ: Float, raw: make([]byte, 8)}
	binary.BigEndian.PutUint64(p.raw, math.Float64bits(f))
	return p
}

// NewByte creates a Byte value.
func NewByte(b uint8) *Primitive {
	return &Primitive{typ: Byte, raw: []byte{b}}
}

// NewWord creates a 2-byte unsigned value.
func NewWord(v uint16) *Primitive {
	p := &Primitive{typ: Word, raw: make([]byte, 2)}
	binary.BigEndian.PutUint16(p.raw, v)
	return p
}

// NewQuad creates a 4-byte unsigned value.
func NewQuad(v uint32) *Primitive {
	p := &Primitive{typ: Quad, raw: make([]byte, 4)}
	binary.BigEndian.PutUint32(p.raw, v)
	return p
}

// NewLong creates an 8-byte unsigned value.
func NewLong(v uint64) *Primitive {
	p := &Primitive{typ: Long, raw: make([]byte, 8)}
	binary.BigEndian.PutUint64(p.raw, v)
	return p
}

// NewWide creates a 16-byte unsigned value from its high and low halves.
func NewWide(hi, lo uint64) *Primitive {
	p := &Primitive{typ: Wide, raw: make([]byte, 16)}
	binary.BigEndian.PutUint64(p.raw[:8], hi)
	binary.BigEndian.PutUint64(p.raw[8:], lo)
	return p
}

// NewArch creates a native word sized unsigned value.
func NewArch(v uint) *Primitive {
	p := &Primitive{typ: Arch, raw: make([]byte, Arch.size)}
	if Arch.size == 8 {
		binary.BigEndian.PutUint64(p.raw, uint64(v))
	} else {
		binary.BigEndian.PutUint32(p.raw, uint32(v))
	}
	return p
}

func (p *Primitive) DataType() DataType { return p.typ }

func (p *Primitive) Raw() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

func (p *Primitive) Set(raw []byte) error {
	if err := checkSize(p.typ, raw); err != nil {
		return err
	}
	copy(p.raw, raw)
	if p.typ.kind == kindBoolean && p.raw[0] != 0 {
		p.raw[0] = 1
	}
	return nil
}

// Bool returns the value as a boolean. Non-boolean values are true when any
// byte is non-zero.
func (p *Primitive) Bool() bool {
	for _, b := range p.raw {
		if b != 0 {
			return true
		}
	}
	return false
}

// Int returns the value as a signed integer. Floats are truncated.
func (p *Primitive) Int() int64 {
	if p.typ.kind == kindFloat {
		return int64(p.Float())
	}
	return int64(p.Uint())
}

// Uint returns the low 64 bits of the value.
func (p *Primitive) Uint() uint64 {
	var v uint64
	start := 0
	if len(p.raw) > 8 {
		start = len(p.raw) - 8
	}
	for _, b := range p.raw[start:] {
		v = v<<8 | uint64(b)
	}
	return v
}

// Float returns the value as a float64. Integers are converted.
func (p *Primitive) Float() float64 {
	if p.typ.kind == kindFloat {
		return math.Float64frombits(binary.BigEndian.Uint64(p.raw))
	}
	if p.typ.kind == kindInteger {
		return float64(p.Int())
	}
	return float64(p.Uint())
}

func (p *Primitive) String() string {
	switch p.typ.kind {
	case kindBoolean:
		return strconv.FormatBool(p.Bool())
	case kindInteger:
		return strconv.FormatInt(p.Int(), 10)
	case kindFloat:
		return strconv.FormatFloat(p.Float(), 'g', -1, 64)
	default:
		return fmt.Sprintf("%s(%x)", p.typ.Typename(), p.raw)
	}
}
