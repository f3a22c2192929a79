package mpwire

// RawMessage is a single encoded value. Decoding into a RawMessage
// captures the value's bytes without interpreting them; encoding one
// writes the bytes back verbatim. An empty RawMessage encodes as nil.
type RawMessage []byte

func (r RawMessage) EncodeMsgpack(e *Encoder) error {
	if len(r) == 0 {
		return e.EncodeNil()
	}
	return e.EncodeRaw(r)
}

func (r *RawMessage) DecodeMsgpack(d *Decoder) error {
	b, err := d.TakeRaw()
	if err != nil {
		return err
	}
	*r = b
	return nil
}
