package mpwire

import (
	"bufio"
	"bytes"
	"io"
)

// maxPrealloc caps how much a declared length may allocate up front.
// Larger payloads grow as bytes actually arrive, so a hostile length
// prefix cannot force a huge allocation.
const maxPrealloc = 64 * 1024

// source is the Decoder's cursor over its input. Bytes are peeked
// before they are consumed so that a rejected take leaves the cursor
// where it was.
type source struct {
	r       *bufio.Reader
	pos     int64
	capture *bytes.Buffer
}

func newSource(r io.Reader) *source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &source{r: br}
}

// peek returns the next n bytes without consuming them. A short read is
// reported as io.EOF when nothing at all was available and as
// io.ErrUnexpectedEOF otherwise.
func (s *source) peek(n int) ([]byte, error) {
	b, err := s.r.Peek(n)
	if err == nil {
		return b, nil
	}
	if err == io.EOF {
		if len(b) == 0 {
			return nil, io.EOF
		}
		return b, io.ErrUnexpectedEOF
	}
	return b, err
}

// discard consumes n bytes that a previous peek returned.
func (s *source) discard(n int) {
	if s.capture != nil {
		b, _ := s.r.Peek(n)
		s.capture.Write(b)
	}
	d, _ := s.r.Discard(n)
	s.pos += int64(d)
}

// readN consumes and returns a freshly allocated copy of the next n
// bytes.
func (s *source) readN(n uint64) ([]byte, error) {
	if n <= maxPrealloc {
		buf := make([]byte, n)
		read, err := io.ReadFull(s.r, buf)
		s.consumed(buf[:read])
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		return buf, nil
	}

	var buf bytes.Buffer
	buf.Grow(maxPrealloc)
	read, err := io.CopyN(&buf, s.r, int64(n))
	s.consumed(buf.Bytes()[:read])
	if err != nil {
		return nil, eofToUnexpected(err)
	}
	return buf.Bytes(), nil
}

// skipN consumes n bytes without retaining them.
func (s *source) skipN(n uint64) error {
	var dst io.Writer = io.Discard
	if s.capture != nil {
		dst = s.capture
	}
	read, err := io.CopyN(dst, s.r, int64(n))
	s.pos += read
	if err != nil {
		return eofToUnexpected(err)
	}
	return nil
}

func (s *source) consumed(b []byte) {
	s.pos += int64(len(b))
	if s.capture != nil {
		s.capture.Write(b)
	}
}

func eofToUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
