package ephemeris

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// #region client-struct
// Client calls a remote ephemeris service over gRPC.
type Client struct {
	conn    *grpc.ClientConn
	cc      grpc.ClientConnInterface
	timeout time.Duration
}
// #endregion client-struct

// #region constructor
// NewClient connects to a remote ephemeris service. A zero timeout leaves the
// deadline to the caller's context.
func NewClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn, timeout: timeout}, nil
}

// NewClientWithConn creates a Client over an injected connection.
// Used for testing without a real gRPC server.
func NewClientWithConn(cc grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{cc: cc, timeout: timeout}
}
// #endregion constructor

// #region close
// Close shuts down the gRPC connection, if the client owns one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion close

// #region longitudes
// Longitudes implements Oracle. Every transport or payload failure is
// reported as ErrOracleUnavailable.
func (c *Client) Longitudes(ctx context.Context, t time.Time) (LongitudePair, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, LongitudesMethod, timestamppb.New(t), resp); err != nil {
		return LongitudePair{}, fmt.Errorf("%w: longitudes rpc: %w", ErrOracleUnavailable, err)
	}

	sun, err := numberField(resp, fieldSun)
	if err != nil {
		return LongitudePair{}, err
	}
	moon, err := numberField(resp, fieldMoon)
	if err != nil {
		return LongitudePair{}, err
	}
	return NewLongitudePair(sun, moon), nil
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: response missing %s", ErrOracleUnavailable, name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: response field %s is not a number", ErrOracleUnavailable, name)
	}
	return n.NumberValue, nil
}
// #endregion longitudes
