// Package grpccodec lets gRPC services exchange messages encoded with
// mpwire instead of protobuf. Clients select it per call with
// grpc.CallContentSubtype(grpccodec.Name) once Register has run.
package grpccodec

import (
	"mpk/mpwire"

	"github.com/pkg/errors"
	"google.golang.org/grpc/encoding"
)

const Name = "msgpack"

type Codec struct {
	cfg mpwire.Config
}

var _ encoding.Codec = (*Codec)(nil)

func New(cfg mpwire.Config) *Codec {
	return &Codec{
		cfg: cfg,
	}
}

func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	b, err := mpwire.MarshalConfig(v, c.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling grpc message")
	}
	return b, nil
}

func (c *Codec) Unmarshal(data []byte, v interface{}) error {
	if err := mpwire.UnmarshalConfig(data, v, c.cfg); err != nil {
		return errors.Wrap(err, "error unmarshaling grpc message")
	}
	return nil
}

func (c *Codec) Name() string {
	return Name
}

// Register installs a codec built from cfg in gRPC's global registry. It
// is not safe to call concurrently with RPCs.
func Register(cfg mpwire.Config) {
	encoding.RegisterCodec(New(cfg))
}
