package mpwire

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, NamedConfig().Validate())

	cfg := DefaultConfig()
	cfg.StructRepr = 7
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EnumRepr = -1
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxDepth = 0
	require.Error(t, cfg.Validate())
	require.Equal(t, DefaultMaxDepth, NewDecoderBytes(nil, cfg).Config().MaxDepth)
}

func TestError_Classification(t *testing.T) {
	err := pkgerrors.Wrap(newError(KindNumericOverflow, 0xcd, "300 overflows uint8"), "reading header")
	require.Equal(t, KindNumericOverflow, KindOf(err))
	require.True(t, errors.Is(err, ErrNumericOverflow))
	require.False(t, errors.Is(err, ErrTypeMismatch))
	require.Equal(t, ErrorKind(0), KindOf(fmt.Errorf("plain")))

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	require.False(t, cerr.Fatal())
	require.Equal(t, "mpwire: numeric overflow: 300 overflows uint8", cerr.Error())

	require.True(t, ErrUnexpectedEOF.Fatal())
	require.True(t, ErrInvalidTag.Fatal())
	require.False(t, ErrTypeMismatch.Fatal())
}
