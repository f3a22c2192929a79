package mpwire

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"time"

	"mpk/marker"
)

type encoderFunc func(e *Encoder, rv reflect.Value) error
type decoderFunc func(d *Decoder, rv reflect.Value) error

var (
	wellKnownEncoders = make(map[string]encoderFunc)
	wellKnownDecoders = make(map[string]decoderFunc)
)

// EncodeTime writes t as a timestamp extension using the smallest of
// the 32, 64 and 96-bit forms, or as an RFC 3339 string when the
// Encoder is human-readable.
func EncodeTime(e *Encoder, t time.Time) error {
	if e.cfg.HumanReadable {
		return e.EncodeString(t.Format(time.RFC3339Nano))
	}

	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	if uint64(sec)>>34 == 0 {
		data := uint64(nsec)<<34 | uint64(sec)
		if data&0xffffffff00000000 == 0 {
			b := make([]byte, 4)
			binary.BigEndian.PutUint32(b, uint32(data))
			return e.EncodeExt(marker.TimestampExt, b)
		}
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, data)
		return e.EncodeExt(marker.TimestampExt, b)
	}

	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b, uint32(nsec))
	binary.BigEndian.PutUint64(b[4:], uint64(sec))
	return e.EncodeExt(marker.TimestampExt, b)
}

// DecodeTime accepts a timestamp extension, an RFC 3339 string or nil,
// which yields the zero time.
func DecodeTime(d *Decoder) (time.Time, error) {
	m, err := d.PeekMarker()
	if err != nil {
		return time.Time{}, err
	}
	switch m.Kind() {
	case marker.KindNil:
		return time.Time{}, d.TakeNil()
	case marker.KindString:
		s, err := d.TakeString()
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, &Error{Kind: KindTypeMismatch, Marker: m, Msg: "invalid timestamp string", Err: err}
		}
		return t, nil
	case marker.KindExt:
		n, hdr, err := d.peekLength(m)
		if err != nil {
			return time.Time{}, err
		}
		b, err := d.peekPayload(hdr + 1)
		if err != nil {
			return time.Time{}, err
		}
		if typ := int8(b[hdr]); typ != marker.TimestampExt {
			return time.Time{}, d.fail(newError(KindTypeMismatch, m, "expected timestamp extension, found extension type %d", typ))
		}
		if n != 4 && n != 8 && n != 12 {
			return time.Time{}, d.fail(newError(KindTypeMismatch, m, "timestamp of %d bytes", n))
		}
		_, data, err := d.TakeExt()
		if err != nil {
			return time.Time{}, err
		}
		return decodeTimestamp(m, data)
	}
	return time.Time{}, d.fail(mismatch(m, "timestamp"))
}

func decodeTimestamp(m marker.Marker, data []byte) (time.Time, error) {
	var sec, nsec int64
	switch len(data) {
	case 4:
		sec = int64(binary.BigEndian.Uint32(data))
	case 8:
		v := binary.BigEndian.Uint64(data)
		nsec = int64(v >> 34)
		sec = int64(v & (1<<34 - 1))
	case 12:
		nsec = int64(binary.BigEndian.Uint32(data))
		sec = int64(binary.BigEndian.Uint64(data[4:]))
	default:
		return time.Time{}, newError(KindTypeMismatch, m, "timestamp of %d bytes", len(data))
	}
	if nsec >= int64(time.Second) {
		return time.Time{}, newError(KindTypeMismatch, m, "timestamp nanoseconds %d out of range", nsec)
	}
	return time.Unix(sec, nsec).UTC(), nil
}

func canonicalizeWellKnown(t reflect.Type) string {
	return fmt.Sprintf("%s/%s", t.PkgPath(), t.Name())
}

func init() {
	timeTypeKey := canonicalizeWellKnown(reflect.TypeOf(time.Time{}))
	wellKnownEncoders[timeTypeKey] = func(e *Encoder, rv reflect.Value) error {
		return EncodeTime(e, rv.Interface().(time.Time))
	}
	wellKnownDecoders[timeTypeKey] = func(d *Decoder, rv reflect.Value) error {
		t, err := DecodeTime(d)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}
}
