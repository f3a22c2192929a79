package mpwire

import (
	"reflect"

	"mpk/marker"
)

// Decodable is implemented by types that read their own MessagePack
// representation.
type Decodable interface {
	DecodeMsgpack(d *Decoder) error
}

var decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()

// Unmarshal decodes the first value in b into v with DefaultConfig. The
// item provided to Unmarshal must be a pointer type.
func Unmarshal(b []byte, v interface{}) error {
	return UnmarshalConfig(b, v, DefaultConfig())
}

func UnmarshalConfig(b []byte, v interface{}, cfg Config) error {
	return NewDecoderBytes(b, cfg).Decode(v)
}

// Decode reads the next value into v, which must be a non-nil pointer.
// Structs are accepted as either arrays or maps whatever the
// configured StructRepr. Decode returns io.EOF when the input ends
// cleanly before a value.
func (d *Decoder) Decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return newError(KindUnsupported, 0, "decode target must be a non-nil pointer, got %T", v)
	}
	if it, ok := v.(Decodable); ok {
		return it.DecodeMsgpack(d)
	}
	return d.decodeValue(rv.Elem())
}

func (d *Decoder) decodeValue(rv reflect.Value) error {
	t := rv.Type()
	if fn := wellKnownDecoders[canonicalizeWellKnown(t)]; fn != nil {
		return fn(d, rv)
	}
	if rv.CanAddr() && reflect.PtrTo(t).Implements(decodableType) {
		return rv.Addr().Interface().(Decodable).DecodeMsgpack(d)
	}
	if t.Kind() != reflect.Interface && t.Kind() != reflect.Ptr && t.Implements(valueType) {
		return d.decodeConcreteValue(rv)
	}

	switch rv.Kind() {
	case reflect.Bool:
		v, err := d.TakeBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := d.takeSigned(uint(t.Bits()))
		if err != nil {
			return err
		}
		rv.SetInt(v)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v, err := d.takeUnsigned(uint(t.Bits()))
		if err != nil {
			return err
		}
		rv.SetUint(v)
		return nil
	case reflect.Float32:
		v, err := d.TakeFloat32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
		return nil
	case reflect.Float64:
		v, err := d.TakeFloat64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil
	case reflect.String:
		v, err := d.TakeString()
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	case reflect.Slice:
		return d.decodeSlice(rv)
	case reflect.Array:
		return d.decodeArray(rv)
	case reflect.Map:
		return d.decodeMap(rv)
	case reflect.Struct:
		return d.decodeStruct(rv)
	case reflect.Ptr:
		kind, err := d.PeekKind()
		if err != nil {
			return err
		}
		if kind == marker.KindNil {
			rv.Set(reflect.Zero(t))
			return d.TakeNil()
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return d.decodeValue(rv.Elem())
	case reflect.Interface:
		return d.decodeInterfaceValue(rv)
	}
	return newError(KindUnsupported, 0, "type %s cannot be decoded", t)
}

func (d *Decoder) decodeSlice(rv reflect.Value) error {
	t := rv.Type()
	m, err := d.PeekMarker()
	if err != nil {
		return err
	}
	switch {
	case m == marker.Nil:
		rv.Set(reflect.Zero(t))
		return d.TakeNil()
	case m.Kind() == marker.KindBinary && t.Elem().Kind() == reflect.Uint8:
		b, err := d.TakeBinary()
		if err != nil {
			return err
		}
		rv.SetBytes(b)
		return nil
	}

	n, err := d.TakeArrayHeader()
	if err != nil {
		return err
	}
	rv.Set(reflect.MakeSlice(t, 0, capHint(n)))
	for i := 0; i < n; i++ {
		rv.Set(reflect.Append(rv, reflect.Zero(t.Elem())))
		if err := d.decodeValue(rv.Index(i)); err != nil {
			return err
		}
	}
	d.EndArray()
	return nil
}

func (d *Decoder) decodeArray(rv reflect.Value) error {
	t := rv.Type()
	m, err := d.PeekMarker()
	if err != nil {
		return err
	}
	if m.Kind() == marker.KindBinary && t.Elem().Kind() == reflect.Uint8 {
		n, _, err := d.peekLength(m)
		if err != nil {
			return err
		}
		if n != uint64(t.Len()) {
			return d.fail(newError(KindTypeMismatch, m, "expected %d bytes, found %d", t.Len(), n))
		}
		b, err := d.TakeBinary()
		if err != nil {
			return err
		}
		reflect.Copy(rv, reflect.ValueOf(b))
		return nil
	}
	if m.Kind() != marker.KindArray {
		return d.fail(mismatch(m, "array"))
	}

	if _, err := d.enter(m, t.Len()); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		if err := d.decodeValue(rv.Index(i)); err != nil {
			return err
		}
	}
	d.EndArray()
	return nil
}

func (d *Decoder) decodeMap(rv reflect.Value) error {
	t := rv.Type()
	m, err := d.PeekMarker()
	if err != nil {
		return err
	}
	if m == marker.Nil {
		rv.Set(reflect.Zero(t))
		return d.TakeNil()
	}

	n, err := d.TakeMapHeader()
	if err != nil {
		return err
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(t, capHint(n)))
	}
	for i := 0; i < n; i++ {
		k := reflect.New(t.Key()).Elem()
		if err := d.decodeValue(k); err != nil {
			return err
		}
		if !hashable(k) {
			return newError(KindUnsupported, 0, "map key %s cannot be used in a Go map", describeKey(k))
		}
		v := reflect.New(t.Elem()).Elem()
		if err := d.decodeValue(v); err != nil {
			return err
		}
		rv.SetMapIndex(k, v)
	}
	d.EndMap()
	return nil
}

// decodeStruct accepts both struct layouts. Array elements beyond the
// known fields and map entries with unknown keys are skipped; fields
// missing from the input keep their current value.
func (d *Decoder) decodeStruct(rv reflect.Value) error {
	info := getStructInfo(rv.Type())
	if len(info.fields) == 0 {
		return d.TakeUnit()
	}

	m, err := d.PeekMarker()
	if err != nil {
		return err
	}
	switch m.Kind() {
	case marker.KindArray:
		n, err := d.TakeArrayHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if i >= len(info.fields) {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.decodeValue(rv.Field(info.fields[i].index)); err != nil {
				return err
			}
		}
		d.EndArray()
		return nil
	case marker.KindMap:
		n, err := d.TakeMapHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			idx, err := d.takeFieldKey(info)
			if err != nil {
				return err
			}
			if idx < 0 {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.decodeValue(rv.Field(info.fields[idx].index)); err != nil {
				return err
			}
		}
		d.EndMap()
		return nil
	}
	return d.fail(mismatch(m, "struct"))
}

// takeFieldKey consumes a struct map key, given either as the field
// name or as its position. It returns -1 for keys naming no field.
func (d *Decoder) takeFieldKey(info *structInfo) (int, error) {
	m, err := d.PeekMarker()
	if err != nil {
		return -1, err
	}
	switch m.Kind() {
	case marker.KindString:
		name, err := d.TakeString()
		if err != nil {
			return -1, err
		}
		if idx, ok := info.byName[name]; ok {
			return idx, nil
		}
		return -1, nil
	case marker.KindInteger:
		n, err := d.takeInteger()
		if err != nil {
			return -1, err
		}
		if pos, ok := n.uint64(); ok && pos < uint64(len(info.fields)) {
			return int(pos), nil
		}
		return -1, nil
	}
	return -1, d.Skip()
}

// decodeConcreteValue fills one of the Value implementations. The wire
// kind must match the target; integers convert between Int and Uint
// when the value fits.
func (d *Decoder) decodeConcreteValue(rv reflect.Value) error {
	m, err := d.PeekMarker()
	if err != nil {
		return err
	}
	target := rv.Interface().(Value)
	if m.Kind() != target.Kind() {
		return d.fail(mismatch(m, target.Kind().String()))
	}
	switch target.(type) {
	case Int:
		v, err := d.TakeInt64()
		if err != nil {
			return err
		}
		rv.SetInt(v)
		return nil
	case Uint:
		v, err := d.TakeUint64()
		if err != nil {
			return err
		}
		rv.SetUint(v)
		return nil
	}
	v, err := ReadValue(d)
	if err != nil {
		return err
	}
	rv.Set(reflect.ValueOf(v))
	return nil
}

func (d *Decoder) decodeInterfaceValue(rv reflect.Value) error {
	t := rv.Type()
	if t == valueType {
		v, err := ReadValue(d)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if t.NumMethod() == 0 {
		v, err := d.decodeInterface()
		if err != nil {
			return err
		}
		if v == nil {
			rv.Set(reflect.Zero(t))
			return nil
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if !rv.IsNil() && rv.Elem().Kind() == reflect.Ptr && !rv.Elem().IsNil() {
		return d.decodeValue(rv.Elem().Elem())
	}
	return newError(KindUnsupported, 0, "cannot decode into non-empty interface %s", t)
}

// decodeInterface builds the natural Go value for the next value: nil,
// bool, int64 or uint64 by the sign of the wire tier, float32, float64,
// string, []byte, []interface{}, a map keyed by string when every key
// is a string, time.Time for timestamps and Ext for other extensions.
func (d *Decoder) decodeInterface() (interface{}, error) {
	m, err := d.PeekMarker()
	if err != nil {
		return nil, err
	}
	switch m.Kind() {
	case marker.KindNil:
		return nil, d.TakeNil()
	case marker.KindBool:
		return d.TakeBool()
	case marker.KindInteger:
		n, err := d.takeInteger()
		if err != nil {
			return nil, err
		}
		if n.signed {
			return int64(n.bits), nil
		}
		return n.bits, nil
	case marker.KindFloat32:
		return d.TakeFloat32()
	case marker.KindFloat64:
		return d.TakeFloat64()
	case marker.KindString:
		return d.TakeString()
	case marker.KindBinary:
		return d.TakeBinary()
	case marker.KindArray:
		n, err := d.TakeArrayHeader()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, 0, capHint(n))
		for i := 0; i < n; i++ {
			v, err := d.decodeInterface()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		d.EndArray()
		return out, nil
	case marker.KindMap:
		return d.decodeInterfaceMap()
	case marker.KindExt:
		typ, data, err := d.TakeExt()
		if err != nil {
			return nil, err
		}
		if typ == marker.TimestampExt {
			return decodeTimestamp(m, data)
		}
		return Ext{Type: typ, Data: data}, nil
	}
	return nil, d.fail(mismatch(m, "value"))
}

func (d *Decoder) decodeInterfaceMap() (interface{}, error) {
	n, err := d.TakeMapHeader()
	if err != nil {
		return nil, err
	}
	keys := make([]interface{}, 0, capHint(n))
	vals := make([]interface{}, 0, capHint(n))
	allStrings := true
	for i := 0; i < n; i++ {
		k, err := d.decodeInterface()
		if err != nil {
			return nil, err
		}
		if k != nil && !hashable(reflect.ValueOf(k)) {
			return nil, newError(KindUnsupported, 0, "map key of type %T cannot be used in a Go map", k)
		}
		if _, ok := k.(string); !ok {
			allStrings = false
		}
		v, err := d.decodeInterface()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	d.EndMap()

	if allStrings {
		out := make(map[string]interface{}, len(keys))
		for i, k := range keys {
			out[k.(string)] = vals[i]
		}
		return out, nil
	}
	out := make(map[interface{}]interface{}, len(keys))
	for i, k := range keys {
		out[k] = vals[i]
	}
	return out, nil
}

// hashable reports whether v can be used as a map key without
// panicking, looking through interfaces at the values they hold.
func hashable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		return v.IsNil() || hashable(v.Elem())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !hashable(v.Index(i)) {
				return false
			}
		}
		return v.Type().Comparable()
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !hashable(v.Field(i)) {
				return false
			}
		}
		return v.Type().Comparable()
	}
	return v.Type().Comparable()
}

func describeKey(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		return k.Elem().Type().String()
	}
	return k.Type().String()
}

// capHint bounds preallocation for counts read from the wire.
func capHint(n int) int {
	const maxHint = 1024
	if n > maxHint {
		return maxHint
	}
	return n
}
