package ephemeris

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// #region wire
const (
	serviceName = "parva.ephemeris.v1.Ephemeris"

	// LongitudesMethod is the full gRPC method name of the longitude RPC.
	LongitudesMethod = "/" + serviceName + "/Longitudes"

	fieldSun  = "sun_longitude"
	fieldMoon = "moon_longitude"
)
// #endregion wire

// #region service
// LongitudeService is the server-side contract of the ephemeris service.
type LongitudeService interface {
	Longitudes(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error)
}

// Server exposes an Oracle as a gRPC ephemeris service.
type Server struct {
	oracle Oracle
}

// NewServer wraps oracle for serving.
func NewServer(oracle Oracle) *Server {
	return &Server{oracle: oracle}
}

// Register attaches the service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

// Longitudes answers one longitude query.
func (s *Server) Longitudes(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error) {
	if err := req.CheckValid(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid instant: %v", err)
	}
	pair, err := s.oracle.Longitudes(ctx, req.AsTime())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		}
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSun:  structpb.NewNumberValue(pair.Sun),
		fieldMoon: structpb.NewNumberValue(pair.Moon),
	}}, nil
}
// #endregion service

// #region descriptor
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LongitudeService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Longitudes", Handler: longitudesHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func longitudesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LongitudeService).Longitudes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LongitudesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LongitudeService).Longitudes(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}
// #endregion descriptor
