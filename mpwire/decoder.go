package mpwire

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"mpk/log"
	"mpk/marker"
)

var logger = log.WithModule("mpwire")

type decoderState int

const (
	stateAwaitingTag decoderState = iota
	stateAwaitingPayload
	stateDone
	stateErrored
)

func (s decoderState) String() string {
	switch s {
	case stateAwaitingTag:
		return "awaiting tag"
	case stateAwaitingPayload:
		return "awaiting payload"
	case stateDone:
		return "done"
	default:
		return "errored"
	}
}

const maxInt = int(^uint(0) >> 1)

// Decoder reads MessagePack values from a source one tag at a time. The
// value builder asks PeekKind what comes next and then calls the
// matching Take method.
//
// A Decoder must not be used from more than one goroutine at a time.
// After TakeArrayHeader or TakeMapHeader the caller must take exactly
// the declared number of values (two per map entry) and then call
// EndArray or EndMap; the Decoder does not check this.
//
// Io, InvalidTag, UnexpectedEOF, DepthLimitExceeded, Utf8Invalid and
// LengthOverflow failures are terminal: every later call returns the
// same error. TypeMismatch and NumericOverflow leave the cursor on the
// offending tag so the caller can retry with the right Take method.
type Decoder struct {
	src   *source
	cfg   Config
	depth int
	state decoderState
	err   error
}

// NewDecoder returns a Decoder reading from r. If r is a *bufio.Reader it
// is used directly; otherwise it is wrapped in one, so the Decoder may
// read ahead of the values it has returned.
func NewDecoder(r io.Reader, cfg Config) *Decoder {
	return &Decoder{
		src: newSource(r),
		cfg: cfg.normalized(),
	}
}

func NewDecoderBytes(b []byte, cfg Config) *Decoder {
	return NewDecoder(bytes.NewReader(b), cfg)
}

func (d *Decoder) Config() Config {
	return d.cfg
}

// Position is the number of bytes consumed so far.
func (d *Decoder) Position() int64 {
	return d.src.pos
}

// Depth is the number of containers currently entered.
func (d *Decoder) Depth() int {
	return d.depth
}

// Err returns the terminal error, if any.
func (d *Decoder) Err() error {
	return d.err
}

// PeekKind reports the kind of the next value without consuming it. It
// returns io.EOF when the source ends cleanly at a top-level tag
// boundary.
func (d *Decoder) PeekKind() (marker.Kind, error) {
	m, err := d.nextMarker()
	if err != nil {
		return marker.KindInvalid, err
	}
	return m.Kind(), nil
}

// PeekMarker returns the next tag byte without consuming it.
func (d *Decoder) PeekMarker() (marker.Marker, error) {
	return d.nextMarker()
}

func (d *Decoder) TakeNil() error {
	m, err := d.nextMarker()
	if err != nil {
		return err
	}
	if m != marker.Nil {
		return d.fail(mismatch(m, "nil"))
	}
	d.commit(1)
	return nil
}

// TakeUnit accepts nil or an empty array of any width.
func (d *Decoder) TakeUnit() error {
	m, err := d.nextMarker()
	if err != nil {
		return err
	}
	if m == marker.Nil {
		d.commit(1)
		return nil
	}
	if m.Kind() != marker.KindArray {
		return d.fail(mismatch(m, "unit"))
	}
	n, hdr, err := d.peekLength(m)
	if err != nil {
		return err
	}
	if n != 0 {
		return d.fail(newError(KindTypeMismatch, m, "expected unit, found array of %d elements", n))
	}
	d.commit(hdr)
	return nil
}

func (d *Decoder) TakeBool() (bool, error) {
	m, err := d.nextMarker()
	if err != nil {
		return false, err
	}
	switch m {
	case marker.True:
		d.commit(1)
		return true, nil
	case marker.False:
		d.commit(1)
		return false, nil
	}
	return false, d.fail(mismatch(m, "bool"))
}

func (d *Decoder) TakeInt64() (int64, error) {
	return d.takeSigned(64)
}

func (d *Decoder) TakeInt32() (int32, error) {
	v, err := d.takeSigned(32)
	return int32(v), err
}

func (d *Decoder) TakeInt16() (int16, error) {
	v, err := d.takeSigned(16)
	return int16(v), err
}

func (d *Decoder) TakeInt8() (int8, error) {
	v, err := d.takeSigned(8)
	return int8(v), err
}

func (d *Decoder) TakeUint64() (uint64, error) {
	return d.takeUnsigned(64)
}

func (d *Decoder) TakeUint32() (uint32, error) {
	v, err := d.takeUnsigned(32)
	return uint32(v), err
}

func (d *Decoder) TakeUint16() (uint16, error) {
	v, err := d.takeUnsigned(16)
	return uint16(v), err
}

func (d *Decoder) TakeUint8() (uint8, error) {
	v, err := d.takeUnsigned(8)
	return uint8(v), err
}

// TakeFloat64 accepts float 32 and float 64 tags.
func (d *Decoder) TakeFloat64() (float64, error) {
	m, err := d.nextMarker()
	if err != nil {
		return 0, err
	}
	switch m {
	case marker.Float32:
		b, err := d.peekPayload(5)
		if err != nil {
			return 0, err
		}
		v := math.Float32frombits(binary.BigEndian.Uint32(b[1:]))
		d.commit(5)
		return float64(v), nil
	case marker.Float64:
		b, err := d.peekPayload(9)
		if err != nil {
			return 0, err
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b[1:]))
		d.commit(9)
		return v, nil
	}
	return 0, d.fail(mismatch(m, "float"))
}

// TakeFloat32 accepts a float 64 tag only when the value converts to
// float32 exactly.
func (d *Decoder) TakeFloat32() (float32, error) {
	m, err := d.nextMarker()
	if err != nil {
		return 0, err
	}
	switch m {
	case marker.Float32:
		b, err := d.peekPayload(5)
		if err != nil {
			return 0, err
		}
		v := math.Float32frombits(binary.BigEndian.Uint32(b[1:]))
		d.commit(5)
		return v, nil
	case marker.Float64:
		b, err := d.peekPayload(9)
		if err != nil {
			return 0, err
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b[1:]))
		f := float32(v)
		if float64(f) != v && !math.IsNaN(v) {
			return 0, d.fail(newError(KindNumericOverflow, m, "%v is not representable as float32", v))
		}
		d.commit(9)
		return f, nil
	}
	return 0, d.fail(mismatch(m, "float32"))
}

func (d *Decoder) TakeString() (string, error) {
	m, err := d.nextMarker()
	if err != nil {
		return "", err
	}
	if m.Kind() != marker.KindString {
		return "", d.fail(mismatch(m, "string"))
	}
	start := d.src.pos
	buf, err := d.takeSized(m)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", d.fail(newError(KindUtf8Invalid, m, "string at offset %d", start))
	}
	return string(buf), nil
}

// TakeBinary returns a copy of the next binary payload.
func (d *Decoder) TakeBinary() ([]byte, error) {
	m, err := d.nextMarker()
	if err != nil {
		return nil, err
	}
	if m.Kind() != marker.KindBinary {
		return nil, d.fail(mismatch(m, "binary"))
	}
	return d.takeSized(m)
}

// TakeArrayHeader consumes an array tag and returns the declared
// element count. The caller must call EndArray after taking the
// elements.
func (d *Decoder) TakeArrayHeader() (int, error) {
	m, err := d.nextMarker()
	if err != nil {
		return 0, err
	}
	if m.Kind() != marker.KindArray {
		return 0, d.fail(mismatch(m, "array"))
	}
	return d.enter(m, -1)
}

// TakeMapHeader consumes a map tag and returns the declared number of
// key-value pairs. The caller must call EndMap after taking them.
func (d *Decoder) TakeMapHeader() (int, error) {
	m, err := d.nextMarker()
	if err != nil {
		return 0, err
	}
	if m.Kind() != marker.KindMap {
		return 0, d.fail(mismatch(m, "map"))
	}
	return d.enter(m, -1)
}

func (d *Decoder) EndArray() {
	d.leave()
}

func (d *Decoder) EndMap() {
	d.leave()
}

// TakeExt returns the application type and a copy of the payload of the
// next extension value.
func (d *Decoder) TakeExt() (int8, []byte, error) {
	m, err := d.nextMarker()
	if err != nil {
		return 0, nil, err
	}
	if m.Kind() != marker.KindExt {
		return 0, nil, d.fail(mismatch(m, "ext"))
	}
	typ, n, err := d.takeExtHeader(m)
	if err != nil {
		return 0, nil, err
	}
	data, err := d.src.readN(n)
	if err != nil {
		return 0, nil, d.fail(readError(err))
	}
	return typ, data, nil
}

// Skip consumes the next value, including everything nested in it.
func (d *Decoder) Skip() error {
	m, err := d.nextMarker()
	if err != nil {
		return err
	}
	switch m.Kind() {
	case marker.KindArray, marker.KindMap:
		n, err := d.enter(m, -1)
		if err != nil {
			return err
		}
		count := uint64(n)
		if m.Kind() == marker.KindMap {
			count *= 2
		}
		for i := uint64(0); i < count; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
		}
		d.leave()
		return nil
	case marker.KindString, marker.KindBinary:
		n, hdr, err := d.peekLength(m)
		if err != nil {
			return err
		}
		d.commit(hdr)
		if err := d.src.skipN(n); err != nil {
			return d.fail(readError(err))
		}
		return nil
	case marker.KindExt:
		_, n, err := d.takeExtHeader(m)
		if err != nil {
			return err
		}
		if err := d.src.skipN(n); err != nil {
			return d.fail(readError(err))
		}
		return nil
	default:
		size := 1 + m.DataSize()
		if _, err := d.peekPayload(size); err != nil {
			return err
		}
		d.commit(size)
		return nil
	}
}

// TakeRaw consumes the next value and returns its encoded bytes.
func (d *Decoder) TakeRaw() ([]byte, error) {
	var buf bytes.Buffer
	prev := d.src.capture
	d.src.capture = &buf
	err := d.Skip()
	d.src.capture = prev
	if err != nil {
		return nil, err
	}
	if prev != nil {
		prev.Write(buf.Bytes())
	}
	return buf.Bytes(), nil
}

// Variant identifies an enum variant read by TakeVariant.
type Variant struct {
	Index uint32
	Name  string
	// Named is true when the wire carried the variant name rather than
	// its index.
	Named bool
}

func (v Variant) String() string {
	if v.Named {
		return v.Name
	}
	return strconv.FormatUint(uint64(v.Index), 10)
}

// TakeVariant reads an enum variant in any of the forms the Encoder
// produces, regardless of the configured EnumRepr: a bare name or index
// for unit variants, a one-entry map or a two-element array for
// variants with a payload. When hasPayload is true the payload is the
// next value and the caller must call EndVariant after taking it.
func (d *Decoder) TakeVariant() (v Variant, hasPayload bool, err error) {
	m, err := d.nextMarker()
	if err != nil {
		return v, false, err
	}
	switch m.Kind() {
	case marker.KindString, marker.KindInteger:
		v, err = d.takeVariantIdent()
		return v, false, err
	case marker.KindMap:
		if _, err := d.enter(m, 1); err != nil {
			return v, false, err
		}
	case marker.KindArray:
		if _, err := d.enter(m, 2); err != nil {
			return v, false, err
		}
	default:
		return v, false, d.fail(mismatch(m, "enum variant"))
	}
	v, err = d.takeVariantIdent()
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func (d *Decoder) EndVariant() {
	d.leave()
}

func (d *Decoder) takeVariantIdent() (Variant, error) {
	kind, err := d.PeekKind()
	if err != nil {
		return Variant{}, err
	}
	if kind == marker.KindString {
		name, err := d.TakeString()
		return Variant{Name: name, Named: true}, err
	}
	idx, err := d.TakeUint32()
	return Variant{Index: idx}, err
}

func (d *Decoder) nextMarker() (marker.Marker, error) {
	switch d.state {
	case stateErrored:
		return 0, d.err
	case stateDone:
		return 0, io.EOF
	}

	b, err := d.src.peek(1)
	if err == io.EOF {
		if d.depth == 0 {
			d.state = stateDone
			return 0, io.EOF
		}
		return 0, d.fail(&Error{
			Kind: KindUnexpectedEOF,
			Msg:  "input ended inside a container",
			Err:  io.ErrUnexpectedEOF,
		})
	}
	if err != nil {
		return 0, d.fail(ioError(err))
	}

	m := marker.Marker(b[0])
	if m.Kind() == marker.KindInvalid {
		return m, d.fail(newError(KindInvalidTag, m, "tag %#02x at offset %d", b[0], d.src.pos))
	}
	d.state = stateAwaitingPayload
	return m, nil
}

// peekPayload returns the tag plus the n-1 bytes following it without
// consuming them.
func (d *Decoder) peekPayload(n int) ([]byte, error) {
	b, err := d.src.peek(n)
	if err != nil {
		return nil, d.fail(readError(err))
	}
	return b, nil
}

func (d *Decoder) commit(n int) {
	d.src.discard(n)
	d.state = stateAwaitingTag
}

// peekLength reads the length declared by a variable-size tag. It
// returns the length and the size of the header, tag included.
func (d *Decoder) peekLength(m marker.Marker) (uint64, int, error) {
	if n, ok := m.InlineLen(); ok {
		return uint64(n), 1, nil
	}
	size := m.LenSize()
	b, err := d.peekPayload(1 + size)
	if err != nil {
		return 0, 0, err
	}
	var n uint64
	switch size {
	case 1:
		n = uint64(b[1])
	case 2:
		n = uint64(binary.BigEndian.Uint16(b[1:]))
	case 4:
		n = uint64(binary.BigEndian.Uint32(b[1:]))
	}
	if n > uint64(maxInt) {
		return 0, 0, d.fail(newError(KindLengthOverflow, m, "length %d exceeds platform limit", n))
	}
	return n, 1 + size, nil
}

func (d *Decoder) takeSized(m marker.Marker) ([]byte, error) {
	n, hdr, err := d.peekLength(m)
	if err != nil {
		return nil, err
	}
	d.commit(hdr)
	buf, err := d.src.readN(n)
	if err != nil {
		return nil, d.fail(readError(err))
	}
	return buf, nil
}

func (d *Decoder) takeExtHeader(m marker.Marker) (int8, uint64, error) {
	if d.depth >= d.cfg.MaxDepth {
		return 0, 0, d.fail(newError(KindDepthLimitExceeded, m, "nesting deeper than %d", d.cfg.MaxDepth))
	}
	n, hdr, err := d.peekLength(m)
	if err != nil {
		return 0, 0, err
	}
	b, err := d.peekPayload(hdr + 1)
	if err != nil {
		return 0, 0, err
	}
	typ := int8(b[hdr])
	d.commit(hdr + 1)
	return typ, n, nil
}

// enter consumes a container header. When want is not negative the
// declared length must equal it; the check happens before the cursor
// moves.
func (d *Decoder) enter(m marker.Marker, want int) (int, error) {
	if d.depth >= d.cfg.MaxDepth {
		return 0, d.fail(newError(KindDepthLimitExceeded, m, "nesting deeper than %d", d.cfg.MaxDepth))
	}
	n, hdr, err := d.peekLength(m)
	if err != nil {
		return 0, err
	}
	if want >= 0 && n != uint64(want) {
		return 0, d.fail(newError(KindTypeMismatch, m, "expected %s of length %d, found length %d", m.Kind(), want, n))
	}
	d.commit(hdr)
	d.depth++
	return int(n), nil
}

func (d *Decoder) leave() {
	if d.depth > 0 {
		d.depth--
	}
}

func (d *Decoder) fail(err *Error) error {
	if err.Fatal() && d.state != stateErrored {
		d.state = stateErrored
		d.err = err
		logger.Debug("decoder entered errored state", "pos", d.src.pos, "depth", d.depth, "err", err)
	}
	return err
}

func readError(err error) *Error {
	if err == io.ErrUnexpectedEOF {
		return &Error{Kind: KindUnexpectedEOF, Err: err}
	}
	return ioError(err)
}

type integer struct {
	m      marker.Marker
	signed bool
	bits   uint64
}

func (n integer) int64() (int64, bool) {
	if !n.signed && n.bits > math.MaxInt64 {
		return 0, false
	}
	return int64(n.bits), true
}

func (n integer) uint64() (uint64, bool) {
	if n.signed && int64(n.bits) < 0 {
		return 0, false
	}
	return n.bits, true
}

func (n integer) String() string {
	if n.signed {
		return strconv.FormatInt(int64(n.bits), 10)
	}
	return strconv.FormatUint(n.bits, 10)
}

// peekInteger decodes the integer at the cursor without consuming it.
// The returned size is what the caller commits once it accepts the
// value.
func (d *Decoder) peekInteger() (integer, int, error) {
	m, err := d.nextMarker()
	if err != nil {
		return integer{}, 0, err
	}
	if m.Kind() != marker.KindInteger {
		return integer{}, 0, d.fail(mismatch(m, "integer"))
	}
	if m.IsPosFixInt() {
		return integer{m: m, bits: uint64(m)}, 1, nil
	}
	if m.IsNegFixInt() {
		return integer{m: m, signed: true, bits: uint64(int64(int8(m)))}, 1, nil
	}

	size := 1 + m.DataSize()
	b, err := d.peekPayload(size)
	if err != nil {
		return integer{}, 0, err
	}
	p := b[1:]
	n := integer{m: m, signed: m.Signed()}
	switch m {
	case marker.Uint8:
		n.bits = uint64(p[0])
	case marker.Uint16:
		n.bits = uint64(binary.BigEndian.Uint16(p))
	case marker.Uint32:
		n.bits = uint64(binary.BigEndian.Uint32(p))
	case marker.Uint64:
		n.bits = binary.BigEndian.Uint64(p)
	case marker.Int8:
		n.bits = uint64(int64(int8(p[0])))
	case marker.Int16:
		n.bits = uint64(int64(int16(binary.BigEndian.Uint16(p))))
	case marker.Int32:
		n.bits = uint64(int64(int32(binary.BigEndian.Uint32(p))))
	case marker.Int64:
		n.bits = binary.BigEndian.Uint64(p)
	}
	return n, size, nil
}

// takeInteger consumes an integer of either signedness.
func (d *Decoder) takeInteger() (integer, error) {
	n, size, err := d.peekInteger()
	if err != nil {
		return integer{}, err
	}
	d.commit(size)
	return n, nil
}

func (d *Decoder) takeSigned(bits uint) (int64, error) {
	n, size, err := d.peekInteger()
	if err != nil {
		return 0, err
	}
	v, ok := n.int64()
	if ok && bits < 64 {
		lim := int64(1) << (bits - 1)
		ok = v >= -lim && v < lim
	}
	if !ok {
		return 0, d.fail(newError(KindNumericOverflow, n.m, "%s overflows int%d", n, bits))
	}
	d.commit(size)
	return v, nil
}

func (d *Decoder) takeUnsigned(bits uint) (uint64, error) {
	n, size, err := d.peekInteger()
	if err != nil {
		return 0, err
	}
	v, ok := n.uint64()
	if ok && bits < 64 {
		ok = v < uint64(1)<<bits
	}
	if !ok {
		return 0, d.fail(newError(KindNumericOverflow, n.m, "%s overflows uint%d", n, bits))
	}
	d.commit(size)
	return v, nil
}
