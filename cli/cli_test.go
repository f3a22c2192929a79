package cli

import (
	"bytes"
	"errors"
	"io/ioutil"
	"testing"

	"mpk/marker"
	"mpk/mpwire"
	"mpk/testutil/testfs"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	b, err := DecodeHex("0x94 c3 cd012c\n a2 6869 92 01 02\n")
	require.NoError(t, err)
	require.Equal(t, []byte{0x94, 0xc3, 0xcd, 0x01, 0x2c, 0xa2, 0x68, 0x69, 0x92, 0x01, 0x02}, b)

	_, err = DecodeHex("9")
	require.Error(t, err)
	_, err = DecodeHex("zz")
	require.Error(t, err)
}

func TestReadInput(t *testing.T) {
	f, done := testfs.NewTempFile(t)
	defer done()
	_, err := f.Write([]byte("c3"))
	require.NoError(t, err)

	b, err := readInput(f.Name(), nil, true, false)
	require.NoError(t, err)
	require.Equal(t, []byte("c3"), b)

	b, err = readInput(f.Name(), nil, true, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0xc3}, b)

	b, err = readInput("", bytes.NewReader([]byte{0x90}), false, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x90}, b)

	b, err = readInput("-", bytes.NewReader([]byte("c0")), false, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0xc0}, b)

	_, err = readInput("", bytes.NewReader(nil), true, false)
	require.Equal(t, ErrTerminalInput, err)

	dir, doneDir := testfs.NewTempDir(t)
	defer doneDir()
	_, err = readInput(dir+"/missing", nil, false, false)
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	b, err := DecodeHex("94 c3 cd012c a26869 920102 81a161c0")
	require.NoError(t, err)

	toks, err := Inspect(b, mpwire.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, []Token{
		{Offset: 0, Depth: 0, Marker: 0x94, Detail: "4 elements"},
		{Offset: 1, Depth: 1, Marker: marker.True, Detail: "true"},
		{Offset: 2, Depth: 1, Marker: marker.Uint16, Detail: "300"},
		{Offset: 5, Depth: 1, Marker: 0xa2, Detail: `"hi"`},
		{Offset: 8, Depth: 1, Marker: 0x92, Detail: "2 elements"},
		{Offset: 9, Depth: 2, Marker: 0x01, Detail: "1"},
		{Offset: 10, Depth: 2, Marker: 0x02, Detail: "2"},
		{Offset: 11, Depth: 0, Marker: 0x81, Detail: "1 entries"},
		{Offset: 12, Depth: 1, Marker: 0xa1, Detail: `"a"`},
		{Offset: 14, Depth: 1, Marker: marker.Nil, Detail: "nil"},
	}, toks)

	toks, err = Inspect([]byte{0x92, 0xc3, 0xc1}, mpwire.DefaultConfig())
	require.True(t, errors.Is(err, mpwire.ErrInvalidTag))
	require.Len(t, toks, 2)

	_, err = Inspect([]byte{0x92, 0xc3}, mpwire.DefaultConfig())
	require.True(t, errors.Is(err, mpwire.ErrUnexpectedEOF))
}

func TestLoadConfig(t *testing.T) {
	dir, done := testfs.NewTempDir(t)
	defer done()

	_, _, err := LoadConfig(dir)
	require.Error(t, err)

	require.NoError(t, ioutil.WriteFile(dir+"/config.toml", []byte(`
log_level = "trace"
[codec]
  struct_repr = "map"
`), 0600))
	cfg, wireCfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "trace", cfg.LogLevel)
	require.Equal(t, mpwire.StructAsMap, wireCfg.StructRepr)

	require.NoError(t, ioutil.WriteFile(dir+"/config.toml", []byte(`log_level = "loud"`), 0600))
	_, _, err = LoadConfig(dir)
	require.Error(t, err)
}
