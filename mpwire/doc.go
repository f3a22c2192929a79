/*
Package mpwire implements a streaming MessagePack encoder and decoder.

Data model:

	- Nil, Bool, Integer (signed or unsigned, up to 64 bits), Float32,
	  Float64, String (UTF-8), Binary, Array, Map (any key kind) and
	  Ext (an int8 application type plus opaque bytes).
	- Unit values are written as Nil. Unit structs also decode from an
	  empty Array.
	- Integers always use the smallest tier that holds the value. Any
	  tier is accepted on decode as long as the value fits the target.

Well-known types:

	- time.Time: Encoded as the timestamp extension (type -1) in its
	  32, 64 or 96-bit form, or as an RFC 3339 string when the Config is
	  human-readable.

The easiest way to use this library is to call Marshal and Unmarshal:

	b, err := mpwire.Marshal([]interface{}{true, 300, "hi", []int{1, 2}})
	// b == 94 c3 cd 01 2c a2 68 69 92 01 02

	var out []interface{}
	err = mpwire.Unmarshal(b, &out)

Note that values passed to Unmarshal and Decode MUST be pointers.

Structs are written positionally by default. With StructAsMap, or
HumanReadable, they become maps keyed by field name; the name can be
set with a `msgpack:"name"` tag, `msgpack:"-"` skips a field and
`omitempty` drops zero fields from maps. Decoding accepts both layouts.

For full control, types can implement Encodable and Decodable and drive
the Encoder and Decoder directly:

	type Shape struct {
		Radius float64
	}

	func (s *Shape) EncodeMsgpack(e *mpwire.Encoder) error {
		if err := e.BeginVariant(0, "Circle"); err != nil {
			return err
		}
		if err := e.EncodeFloat64(s.Radius); err != nil {
			return err
		}
		e.EndVariant()
		return nil
	}

	func (s *Shape) DecodeMsgpack(d *mpwire.Decoder) error {
		_, hasPayload, err := d.TakeVariant()
		if err != nil {
			return err
		}
		if !hasPayload {
			return nil
		}
		s.Radius, err = d.TakeFloat64()
		d.EndVariant()
		return err
	}

Values of unknown shape can be read into a Value tree with ReadValue
and printed with Diagnose, or captured verbatim with RawMessage.
*/
package mpwire
