package grpccodec

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"mpk/mpwire"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/test/bufconn"
)

type greeting struct {
	Name  string    `msgpack:"name"`
	Count int       `msgpack:"count"`
	At    time.Time `msgpack:"at"`
}

type greeter interface {
	Greet(context.Context, *greeting) (*greeting, error)
}

type upperGreeter struct{}

func (upperGreeter) Greet(_ context.Context, in *greeting) (*greeting, error) {
	return &greeting{
		Name:  strings.ToUpper(in.Name),
		Count: in.Count + 1,
		At:    in.At,
	}, nil
}

var greeterDesc = grpc.ServiceDesc{
	ServiceName: "mpk.test.Greeter",
	HandlerType: (*greeter)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Greet",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(greeting)
				if err := dec(in); err != nil {
					return nil, err
				}
				return srv.(greeter).Greet(ctx, in)
			},
		},
	},
}

func TestCodec(t *testing.T) {
	c := New(mpwire.NamedConfig())
	require.Equal(t, "msgpack", c.Name())

	b, err := c.Marshal(&greeting{Name: "a", Count: 1, At: time.Unix(1, 0)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x83, 0xa4, 'n', 'a', 'm', 'e', 0xa1, 'a'}, b[:8])

	var out greeting
	require.NoError(t, c.Unmarshal(b, &out))
	require.Equal(t, "a", out.Name)
	require.Equal(t, 1, out.Count)

	require.Error(t, c.Unmarshal([]byte{0xc1}, &out))
	_, err = c.Marshal(make(chan int))
	require.Error(t, err)
}

func TestRegister_RoundTripOverGRPC(t *testing.T) {
	Register(mpwire.DefaultConfig())
	require.NotNil(t, encoding.GetCodec(Name))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	srv.RegisterService(&greeterDesc, upperGreeter{})
	go srv.Serve(lis)
	defer srv.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(
		ctx,
		"bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithInsecure(),
	)
	require.NoError(t, err)
	defer conn.Close()

	at := time.Unix(1600000000, 5).UTC()
	out := new(greeting)
	err = conn.Invoke(ctx, "/mpk.test.Greeter/Greet", &greeting{Name: "hi", Count: 41, At: at}, out, grpc.CallContentSubtype(Name))
	require.NoError(t, err)
	require.Equal(t, &greeting{Name: "HI", Count: 42, At: at}, out)
}
