package mpwire

import (
	"io"
	"math"

	"mpk/marker"
)

// Encoder writes MessagePack values to a sink, always choosing the
// smallest representation for integers, lengths and counts.
//
// After BeginArray or BeginMap the caller must write exactly the
// declared number of values (two per map entry) and then call EndArray
// or EndMap. The Encoder does not verify element counts.
type Encoder struct {
	w     io.Writer
	cfg   Config
	depth int
	buf   [9]byte
}

func NewEncoder(w io.Writer, cfg Config) *Encoder {
	return &Encoder{
		w:   w,
		cfg: cfg.normalized(),
	}
}

func (e *Encoder) Config() Config {
	return e.cfg
}

func (e *Encoder) Depth() int {
	return e.depth
}

func (e *Encoder) EncodeNil() error {
	return e.writeHead(marker.Nil, 0, 0)
}

func (e *Encoder) EncodeBool(v bool) error {
	if v {
		return e.writeHead(marker.True, 0, 0)
	}
	return e.writeHead(marker.False, 0, 0)
}

func (e *Encoder) EncodeInt(v int64) error {
	m := marker.ForInt(v)
	return e.writeHead(m, uint64(v), m.DataSize())
}

func (e *Encoder) EncodeUint(v uint64) error {
	m := marker.ForUint(v)
	return e.writeHead(m, v, m.DataSize())
}

func (e *Encoder) EncodeFloat32(v float32) error {
	return e.writeHead(marker.Float32, uint64(math.Float32bits(v)), 4)
}

func (e *Encoder) EncodeFloat64(v float64) error {
	return e.writeHead(marker.Float64, math.Float64bits(v), 8)
}

func (e *Encoder) EncodeString(v string) error {
	m, ok := marker.ForStr(len(v))
	if !ok {
		return newError(KindLengthOverflow, marker.Str32, "string of %d bytes", len(v))
	}
	if err := e.writeLen(m, len(v)); err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, v); err != nil {
		return ioError(err)
	}
	return nil
}

func (e *Encoder) EncodeBinary(v []byte) error {
	m, ok := marker.ForBin(len(v))
	if !ok {
		return newError(KindLengthOverflow, marker.Bin32, "binary of %d bytes", len(v))
	}
	if err := e.writeLen(m, len(v)); err != nil {
		return err
	}
	return e.write(v)
}

// BeginArray writes an array header for n elements.
func (e *Encoder) BeginArray(n int) error {
	m, ok := marker.ForArray(n)
	if !ok {
		return newError(KindLengthOverflow, marker.Array32, "array of %d elements", n)
	}
	return e.enter(m, n)
}

func (e *Encoder) EndArray() {
	e.leave()
}

// BeginMap writes a map header for n key-value pairs.
func (e *Encoder) BeginMap(n int) error {
	m, ok := marker.ForMap(n)
	if !ok {
		return newError(KindLengthOverflow, marker.Map32, "map of %d entries", n)
	}
	return e.enter(m, n)
}

func (e *Encoder) EndMap() {
	e.leave()
}

// EncodeExt writes an extension value with the given application type.
func (e *Encoder) EncodeExt(typ int8, data []byte) error {
	m, ok := marker.ForExt(len(data))
	if !ok {
		return newError(KindLengthOverflow, marker.Ext32, "extension of %d bytes", len(data))
	}
	if err := e.writeLen(m, len(data)); err != nil {
		return err
	}
	e.buf[0] = byte(typ)
	if err := e.write(e.buf[:1]); err != nil {
		return err
	}
	return e.write(data)
}

// EncodeUnit writes a value-less value as nil.
func (e *Encoder) EncodeUnit() error {
	return e.EncodeNil()
}

// BeginStruct opens a struct with n fields. Every field value must be
// preceded by StructField. Depending on the configuration the struct
// is an array of values or a map of field names to values.
func (e *Encoder) BeginStruct(n int) error {
	if e.cfg.structAsMap() {
		return e.BeginMap(n)
	}
	return e.BeginArray(n)
}

// StructField announces the next field. It writes the name only when
// structs are encoded as maps.
func (e *Encoder) StructField(name string) error {
	if e.cfg.structAsMap() {
		return e.EncodeString(name)
	}
	return nil
}

func (e *Encoder) EndStruct() {
	e.leave()
}

// EncodeUnitVariant writes a variant without payload as its name or
// its index.
func (e *Encoder) EncodeUnitVariant(index uint32, name string) error {
	if e.cfg.variantByName() {
		return e.EncodeString(name)
	}
	return e.EncodeUint(uint64(index))
}

// BeginVariant opens a variant that carries a payload. The payload is
// the next value written, after which EndVariant must be called. By
// name the variant is a one-entry map of name to payload; by index it
// is a two-element array of index and payload.
func (e *Encoder) BeginVariant(index uint32, name string) error {
	if e.cfg.variantByName() {
		if err := e.BeginMap(1); err != nil {
			return err
		}
		return e.EncodeString(name)
	}
	if err := e.BeginArray(2); err != nil {
		return err
	}
	return e.EncodeUint(uint64(index))
}

func (e *Encoder) EndVariant() {
	e.leave()
}

// EncodeRaw writes an already encoded value verbatim.
func (e *Encoder) EncodeRaw(b []byte) error {
	return e.write(b)
}

func (e *Encoder) enter(m marker.Marker, n int) error {
	if e.depth >= e.cfg.MaxDepth {
		return newError(KindDepthLimitExceeded, m, "nesting deeper than %d", e.cfg.MaxDepth)
	}
	if err := e.writeLen(m, n); err != nil {
		return err
	}
	e.depth++
	return nil
}

func (e *Encoder) leave() {
	if e.depth > 0 {
		e.depth--
	}
}

func (e *Encoder) writeLen(m marker.Marker, n int) error {
	return e.writeHead(m, uint64(n), m.LenSize())
}

// writeHead writes the tag followed by the low size bytes of v in
// big-endian order.
func (e *Encoder) writeHead(m marker.Marker, v uint64, size int) error {
	e.buf[0] = byte(m)
	for i := 0; i < size; i++ {
		e.buf[size-i] = byte(v >> (8 * uint(i)))
	}
	return e.write(e.buf[:1+size])
}

func (e *Encoder) write(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := e.w.Write(b); err != nil {
		return ioError(err)
	}
	return nil
}
