package cli

import (
	"fmt"
	"io"

	"mpk/marker"
	"mpk/mpwire"
)

// Token describes one tag in an encoded stream.
type Token struct {
	Offset int64
	Depth  int
	Marker marker.Marker
	Detail string
}

// Inspect lists every tag in data in stream order. On malformed input it
// returns the tokens read so far along with the error.
func Inspect(data []byte, cfg mpwire.Config) ([]Token, error) {
	dec := mpwire.NewDecoderBytes(data, cfg)
	var toks []Token
	for {
		if _, err := dec.PeekMarker(); err == io.EOF {
			return toks, nil
		}
		var err error
		toks, err = inspectValue(dec, toks)
		if err != nil {
			return toks, err
		}
	}
}

func inspectValue(dec *mpwire.Decoder, toks []Token) ([]Token, error) {
	m, err := dec.PeekMarker()
	if err != nil {
		return toks, err
	}
	tok := Token{
		Offset: dec.Position(),
		Depth:  dec.Depth(),
		Marker: m,
	}

	switch m.Kind() {
	case marker.KindArray:
		n, err := dec.TakeArrayHeader()
		if err != nil {
			return toks, err
		}
		tok.Detail = fmt.Sprintf("%d elements", n)
		toks = append(toks, tok)
		for i := 0; i < n; i++ {
			if toks, err = inspectValue(dec, toks); err != nil {
				return toks, err
			}
		}
		dec.EndArray()
		return toks, nil
	case marker.KindMap:
		n, err := dec.TakeMapHeader()
		if err != nil {
			return toks, err
		}
		tok.Detail = fmt.Sprintf("%d entries", n)
		toks = append(toks, tok)
		for i := 0; i < 2*n; i++ {
			if toks, err = inspectValue(dec, toks); err != nil {
				return toks, err
			}
		}
		dec.EndMap()
		return toks, nil
	}

	v, err := mpwire.ReadValue(dec)
	if err != nil {
		return toks, err
	}
	tok.Detail = mpwire.Diagnose(v)
	return append(toks, tok), nil
}
