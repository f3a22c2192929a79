package cli

import (
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ErrTerminalInput = errors.New("refusing to read from a terminal; pass a file or pipe data to stdin")

// ReadInput returns the contents of the file named by the first
// argument, or stdin when there is none or it is "-". With --hex the
// input is hex-decoded first.
func ReadInput(cmd *cobra.Command, args []string) ([]byte, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	asHex, err := cmd.Flags().GetBool(FlagHex)
	if err != nil {
		return nil, err
	}
	return readInput(name, os.Stdin, isTerminal(os.Stdin), asHex)
}

func readInput(name string, stdin io.Reader, stdinTTY bool, asHex bool) ([]byte, error) {
	var data []byte
	var err error
	if name == "" || name == "-" {
		if stdinTTY {
			return nil, ErrTerminalInput
		}
		data, err = ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "error reading stdin")
		}
	} else {
		data, err = ioutil.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(err, "error reading input file")
		}
	}
	if !asHex {
		return data, nil
	}
	return DecodeHex(string(data))
}

// DecodeHex decodes hex text, ignoring whitespace and an optional 0x
// prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex input")
	}
	return b, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
