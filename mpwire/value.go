package mpwire

import (
	"mpk/marker"
)

// Value is a dynamically typed MessagePack value. The set of
// implementations is closed: Nil, Bool, Int, Uint, Float32, Float64,
// String, Binary, Array, Map and Ext.
type Value interface {
	Kind() marker.Kind
	isValue()
}

type (
	Nil     struct{}
	Bool    bool
	Int     int64
	Uint    uint64
	Float32 float32
	Float64 float64
	String  string
	Binary  []byte
	Array   []Value
	Map     []MapEntry
)

// MapEntry is one key-value pair of a Map. Maps keep wire order and may
// hold keys of any kind.
type MapEntry struct {
	Key   Value
	Value Value
}

// Ext is an extension value: an application type and opaque payload.
type Ext struct {
	Type int8
	Data []byte
}

func (Nil) Kind() marker.Kind     { return marker.KindNil }
func (Bool) Kind() marker.Kind    { return marker.KindBool }
func (Int) Kind() marker.Kind     { return marker.KindInteger }
func (Uint) Kind() marker.Kind    { return marker.KindInteger }
func (Float32) Kind() marker.Kind { return marker.KindFloat32 }
func (Float64) Kind() marker.Kind { return marker.KindFloat64 }
func (String) Kind() marker.Kind  { return marker.KindString }
func (Binary) Kind() marker.Kind  { return marker.KindBinary }
func (Array) Kind() marker.Kind   { return marker.KindArray }
func (Map) Kind() marker.Kind     { return marker.KindMap }
func (Ext) Kind() marker.Kind     { return marker.KindExt }

func (Nil) isValue()     {}
func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Uint) isValue()    {}
func (Float32) isValue() {}
func (Float64) isValue() {}
func (String) isValue()  {}
func (Binary) isValue()  {}
func (Array) isValue()   {}
func (Map) isValue()     {}
func (Ext) isValue()     {}

// WriteValue encodes v. A nil Value is written as Nil.
func WriteValue(e *Encoder, v Value) error {
	switch it := v.(type) {
	case nil, Nil:
		return e.EncodeNil()
	case Bool:
		return e.EncodeBool(bool(it))
	case Int:
		return e.EncodeInt(int64(it))
	case Uint:
		return e.EncodeUint(uint64(it))
	case Float32:
		return e.EncodeFloat32(float32(it))
	case Float64:
		return e.EncodeFloat64(float64(it))
	case String:
		return e.EncodeString(string(it))
	case Binary:
		return e.EncodeBinary(it)
	case Array:
		if err := e.BeginArray(len(it)); err != nil {
			return err
		}
		for _, elem := range it {
			if err := WriteValue(e, elem); err != nil {
				return err
			}
		}
		e.EndArray()
		return nil
	case Map:
		if err := e.BeginMap(len(it)); err != nil {
			return err
		}
		for _, entry := range it {
			if err := WriteValue(e, entry.Key); err != nil {
				return err
			}
			if err := WriteValue(e, entry.Value); err != nil {
				return err
			}
		}
		e.EndMap()
		return nil
	case Ext:
		return e.EncodeExt(it.Type, it.Data)
	}
	return newError(KindUnsupported, 0, "unknown value %T", v)
}

// ReadValue decodes the next value whatever its kind. Integers become
// Int when the wire tier is signed and Uint otherwise.
func ReadValue(d *Decoder) (Value, error) {
	m, err := d.PeekMarker()
	if err != nil {
		return nil, err
	}
	switch m.Kind() {
	case marker.KindNil:
		return Nil{}, d.TakeNil()
	case marker.KindBool:
		v, err := d.TakeBool()
		return Bool(v), err
	case marker.KindInteger:
		n, err := d.takeInteger()
		if err != nil {
			return nil, err
		}
		if n.signed {
			return Int(n.bits), nil
		}
		return Uint(n.bits), nil
	case marker.KindFloat32:
		v, err := d.TakeFloat32()
		return Float32(v), err
	case marker.KindFloat64:
		v, err := d.TakeFloat64()
		return Float64(v), err
	case marker.KindString:
		v, err := d.TakeString()
		return String(v), err
	case marker.KindBinary:
		v, err := d.TakeBinary()
		return Binary(v), err
	case marker.KindArray:
		n, err := d.TakeArrayHeader()
		if err != nil {
			return nil, err
		}
		out := make(Array, 0, capHint(n))
		for i := 0; i < n; i++ {
			v, err := ReadValue(d)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		d.EndArray()
		return out, nil
	case marker.KindMap:
		n, err := d.TakeMapHeader()
		if err != nil {
			return nil, err
		}
		out := make(Map, 0, capHint(n))
		for i := 0; i < n; i++ {
			k, err := ReadValue(d)
			if err != nil {
				return nil, err
			}
			v, err := ReadValue(d)
			if err != nil {
				return nil, err
			}
			out = append(out, MapEntry{Key: k, Value: v})
		}
		d.EndMap()
		return out, nil
	case marker.KindExt:
		typ, data, err := d.TakeExt()
		if err != nil {
			return nil, err
		}
		return Ext{Type: typ, Data: data}, nil
	}
	return nil, d.fail(mismatch(m, "value"))
}
