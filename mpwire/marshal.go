package mpwire

import (
	"bytes"
	"reflect"
	"sort"
)

// Encodable is implemented by types that write their own MessagePack
// representation.
type Encodable interface {
	EncodeMsgpack(e *Encoder) error
}

var (
	encodableType = reflect.TypeOf((*Encodable)(nil)).Elem()
	valueType     = reflect.TypeOf((*Value)(nil)).Elem()
)

// Marshal encodes v with DefaultConfig.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalConfig(v, DefaultConfig())
}

func MarshalConfig(v interface{}, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, cfg).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v. Nil pointers, interfaces, slices and maps are
// written as nil. Struct and enum layout follows the Encoder's Config.
func (e *Encoder) Encode(v interface{}) error {
	switch it := v.(type) {
	case nil:
		return e.EncodeNil()
	case Encodable:
		if rv := reflect.ValueOf(it); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return e.EncodeNil()
		}
		return it.EncodeMsgpack(e)
	case bool:
		return e.EncodeBool(it)
	case string:
		return e.EncodeString(it)
	case int:
		return e.EncodeInt(int64(it))
	case int64:
		return e.EncodeInt(it)
	case uint64:
		return e.EncodeUint(it)
	case float64:
		return e.EncodeFloat64(it)
	case []byte:
		if it == nil {
			return e.EncodeNil()
		}
		if e.cfg.BytesAsBinary {
			return e.EncodeBinary(it)
		}
	}
	return e.encodeValue(reflect.ValueOf(v))
}

func (e *Encoder) encodeValue(rv reflect.Value) error {
	if !rv.IsValid() {
		return e.EncodeNil()
	}

	t := rv.Type()
	if fn := wellKnownEncoders[canonicalizeWellKnown(t)]; fn != nil {
		return fn(e, rv)
	}
	if rv.Kind() != reflect.Interface && t.Implements(encodableType) {
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return e.EncodeNil()
		}
		return rv.Interface().(Encodable).EncodeMsgpack(e)
	}
	if rv.CanAddr() && reflect.PtrTo(t).Implements(encodableType) {
		return rv.Addr().Interface().(Encodable).EncodeMsgpack(e)
	}
	if rv.Kind() != reflect.Interface && rv.Kind() != reflect.Ptr && t.Implements(valueType) {
		return WriteValue(e, rv.Interface().(Value))
	}

	switch rv.Kind() {
	case reflect.Bool:
		return e.EncodeBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.EncodeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.EncodeUint(rv.Uint())
	case reflect.Float32:
		return e.EncodeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return e.EncodeFloat64(rv.Float())
	case reflect.String:
		return e.EncodeString(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		if e.cfg.BytesAsBinary && t.Elem().Kind() == reflect.Uint8 {
			return e.EncodeBinary(rv.Bytes())
		}
		return e.encodeSeq(rv)
	case reflect.Array:
		if e.cfg.BytesAsBinary && t.Elem().Kind() == reflect.Uint8 {
			return e.EncodeBinary(arrayBytes(rv))
		}
		return e.encodeSeq(rv)
	case reflect.Map:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		return e.encodeMap(rv)
	case reflect.Struct:
		return e.encodeStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		return e.encodeValue(rv.Elem())
	}
	return newError(KindUnsupported, 0, "type %s cannot be encoded", t)
}

func (e *Encoder) encodeSeq(rv reflect.Value) error {
	n := rv.Len()
	if err := e.BeginArray(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := e.encodeValue(rv.Index(i)); err != nil {
			return err
		}
	}
	e.EndArray()
	return nil
}

type encodedEntry struct {
	key []byte
	val reflect.Value
}

// encodeMap writes entries ordered by the encoded bytes of their keys so
// that equal maps always produce equal output.
func (e *Encoder) encodeMap(rv reflect.Value) error {
	if err := e.BeginMap(rv.Len()); err != nil {
		return err
	}

	entries := make([]encodedEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		var kb bytes.Buffer
		ke := NewEncoder(&kb, e.cfg)
		ke.depth = e.depth
		if err := ke.encodeValue(iter.Key()); err != nil {
			return err
		}
		entries = append(entries, encodedEntry{
			key: kb.Bytes(),
			val: iter.Value(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	for _, entry := range entries {
		if err := e.EncodeRaw(entry.key); err != nil {
			return err
		}
		if err := e.encodeValue(entry.val); err != nil {
			return err
		}
	}
	e.EndMap()
	return nil
}

func (e *Encoder) encodeStruct(rv reflect.Value) error {
	info := getStructInfo(rv.Type())
	if len(info.fields) == 0 {
		return e.EncodeUnit()
	}

	asMap := e.cfg.structAsMap()
	fields := info.fields
	if asMap {
		fields = make([]field, 0, len(info.fields))
		for _, f := range info.fields {
			if f.omitEmpty && isEmptyValue(rv.Field(f.index)) {
				continue
			}
			fields = append(fields, f)
		}
	}

	if err := e.BeginStruct(len(fields)); err != nil {
		return err
	}
	for _, f := range fields {
		if err := e.StructField(f.name); err != nil {
			return err
		}
		if err := e.encodeValue(rv.Field(f.index)); err != nil {
			return err
		}
	}
	e.EndStruct()
	return nil
}

func arrayBytes(rv reflect.Value) []byte {
	if rv.CanAddr() {
		return rv.Slice(0, rv.Len()).Bytes()
	}
	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)
	return cp.Slice(0, rv.Len()).Bytes()
}
