package rtti

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"

	"meta/internal/types"
)

var (
	ErrKind  = errors.New("rtti: wrong type kind")
	ErrRange = errors.New("rtti: value out of range")
	ErrShort = errors.New("rtti: buffer too small")
)

// Any is a typed value travelling through the command pipeline. Data holds
// the value in the target's little-endian layout; for char* it holds the
// string bytes.
type Any struct {
	Type *Type
	Data []byte
}

// MakeInt allocates an Any of integer type t holding v.
func MakeInt(t *Type, v int64) (Any, error) {
	a := Any{Type: t, Data: make([]byte, t.Underlying().Size)}
	return a, PutInt(a.Data, t, v)
}

// MakeFloat allocates an Any of float type t holding v.
func MakeFloat(t *Type, v float64) (Any, error) {
	a := Any{Type: t, Data: make([]byte, t.Underlying().Size)}
	return a, PutFloat(a.Data, t, v)
}

// MakeString wraps s as a char* value.
func MakeString(t *Type, s string) Any {
	return Any{Type: t, Data: []byte(s)}
}

// Int decodes an integer value.
func (a Any) Int() (int64, error) { return GetInt(a.Data, a.Type) }

// Float decodes a float value.
func (a Any) Float() (float64, error) { return GetFloat(a.Data, a.Type) }

// Str returns the string carried by a char* value.
func (a Any) Str() string { return string(a.Data) }

func (a Any) String() string {
	u := a.Type.Underlying()
	switch {
	case u == nil:
		return "<nil>"
	case a.Type.IsString():
		return fmt.Sprintf("%q", a.Str())
	case u.Kind == types.KindInteger:
		v, err := a.Int()
		if err != nil {
			return "?"
		}
		return fmt.Sprint(v)
	case u.Kind == types.KindFloat:
		v, err := a.Float()
		if err != nil {
			return "?"
		}
		return FormatFloat(v, u.Bits)
	default:
		return fmt.Sprintf("<%s>", a.Type.Name)
	}
}

// PutInt stores v into buf as integer type t, narrowing to t's width.
func PutInt(buf []byte, t *Type, v int64) error {
	u := t.Underlying()
	if u == nil || u.Kind != types.KindInteger {
		return fmt.Errorf("%s: %w", t, ErrKind)
	}
	if len(buf) < u.Size {
		return ErrShort
	}
	var err error
	switch {
	case u.Bits == 8 && u.Signed:
		var n int8
		n, err = safecast.Conv[int8](v)
		buf[0] = byte(n)
	case u.Bits == 8:
		buf[0], err = safecast.Conv[uint8](v)
	case u.Bits == 16 && u.Signed:
		var n int16
		n, err = safecast.Conv[int16](v)
		binary.LittleEndian.PutUint16(buf, uint16(n)) //nolint:gosec // two's complement store
	case u.Bits == 16:
		var n uint16
		n, err = safecast.Conv[uint16](v)
		binary.LittleEndian.PutUint16(buf, n)
	case u.Bits == 32 && u.Signed:
		var n int32
		n, err = safecast.Conv[int32](v)
		binary.LittleEndian.PutUint32(buf, uint32(n)) //nolint:gosec // two's complement store
	case u.Bits == 32:
		var n uint32
		n, err = safecast.Conv[uint32](v)
		binary.LittleEndian.PutUint32(buf, n)
	case u.Bits == 64 && u.Signed:
		binary.LittleEndian.PutUint64(buf, uint64(v)) //nolint:gosec // two's complement store
	case u.Bits == 64:
		var n uint64
		n, err = safecast.Conv[uint64](v)
		binary.LittleEndian.PutUint64(buf, n)
	default:
		return fmt.Errorf("%s: %d-bit integers: %w", t, u.Bits, ErrKind)
	}
	if err != nil {
		return fmt.Errorf("%d does not fit %s: %w", v, t, ErrRange)
	}
	return nil
}

// GetInt loads an integer of type t from buf.
func GetInt(buf []byte, t *Type) (int64, error) {
	u := t.Underlying()
	if u == nil || u.Kind != types.KindInteger {
		return 0, fmt.Errorf("%s: %w", t, ErrKind)
	}
	if len(buf) < u.Size {
		return 0, ErrShort
	}
	switch {
	case u.Bits == 8 && u.Signed:
		return int64(int8(buf[0])), nil //nolint:gosec // sign reinterpretation
	case u.Bits == 8:
		return int64(buf[0]), nil
	case u.Bits == 16 && u.Signed:
		return int64(int16(binary.LittleEndian.Uint16(buf))), nil //nolint:gosec // sign reinterpretation
	case u.Bits == 16:
		return int64(binary.LittleEndian.Uint16(buf)), nil
	case u.Bits == 32 && u.Signed:
		return int64(int32(binary.LittleEndian.Uint32(buf))), nil //nolint:gosec // sign reinterpretation
	case u.Bits == 32:
		return int64(binary.LittleEndian.Uint32(buf)), nil
	case u.Bits == 64 && u.Signed:
		return int64(binary.LittleEndian.Uint64(buf)), nil //nolint:gosec // sign reinterpretation
	case u.Bits == 64:
		n, err := safecast.Conv[int64](binary.LittleEndian.Uint64(buf))
		if err != nil {
			return 0, fmt.Errorf("%s value: %w", t, ErrRange)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: %d-bit integers: %w", t, u.Bits, ErrKind)
}

// PutFloat stores v into buf as float type t.
func PutFloat(buf []byte, t *Type, v float64) error {
	u := t.Underlying()
	if u == nil || u.Kind != types.KindFloat {
		return fmt.Errorf("%s: %w", t, ErrKind)
	}
	if len(buf) < u.Size {
		return ErrShort
	}
	switch u.Bits {
	case 32:
		if !math.IsInf(v, 0) && !math.IsNaN(v) && math.Abs(v) > math.MaxFloat32 {
			return fmt.Errorf("%g does not fit %s: %w", v, t, ErrRange)
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	case 64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	default:
		return fmt.Errorf("%s: %d-bit floats: %w", t, u.Bits, ErrKind)
	}
	return nil
}

// GetFloat loads a float of type t from buf.
func GetFloat(buf []byte, t *Type) (float64, error) {
	u := t.Underlying()
	if u == nil || u.Kind != types.KindFloat {
		return 0, fmt.Errorf("%s: %w", t, ErrKind)
	}
	if len(buf) < u.Size {
		return 0, ErrShort
	}
	switch u.Bits {
	case 32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	case 64:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
	}
	return 0, fmt.Errorf("%s: %d-bit floats: %w", t, u.Bits, ErrKind)
}

// FormatFloat prints the shortest literal that reads back to the same bits.
func FormatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'g', -1, bits)
}
