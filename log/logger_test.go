package log

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	for i, name := range levelNames {
		lvl, err := NewLevel(name)
		require.NoError(t, err)
		require.Equal(t, Level(i), lvl)
		require.Equal(t, name, lvl.String())
	}

	lvl, err := NewLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, lvl)

	_, err = NewLevel("loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log level")
}

func TestModuleLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetLevel(LevelTrace)

	SetLevel(LevelInfo)
	lgr := WithModule("testing")
	lgr.Debug("hidden")
	require.Zero(t, buf.Len())

	lgr.Info("shown", "count", 2, "err", errors.New("boom"))
	out := buf.String()
	require.Contains(t, out, "shown")
	require.Contains(t, out, "module=testing")
	require.Contains(t, out, "count=2")
	require.Contains(t, out, "error=boom")

	require.Panics(t, func() {
		lgr.Info("odd", "key")
	})
}
