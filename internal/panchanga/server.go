package panchanga

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/uncertainty"
)

// #region wire
const (
	serviceName = "parva.panchanga.v1.Panchanga"

	// AtMethod is the full gRPC method name of the instant query.
	AtMethod = "/" + serviceName + "/PanchangaAt"
	// DailyMethod is the full gRPC method name of the sunrise query.
	DailyMethod = "/" + serviceName + "/Daily"
)
// #endregion wire

// #region service
// Service is the server-side contract of the panchanga service.
type Service interface {
	PanchangaAt(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error)
	Daily(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error)
}

// Server exposes an Engine over gRPC.
type Server struct {
	engine *Engine
	// OnResult observes every answered query; nil disables it.
	OnResult func(method string, t time.Time, rec Record, err error)
}

// NewServer wraps engine for serving.
func NewServer(engine *Engine) *Server {
	return &Server{engine: engine}
}

// Register attaches the service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

// PanchangaAt answers an instant query.
func (s *Server) PanchangaAt(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error) {
	if err := req.CheckValid(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid instant: %v", err)
	}
	rec, err := s.engine.At(ctx, req.AsTime())
	return s.reply(AtMethod, req.AsTime(), rec, err)
}

// Daily answers a sunrise query for the request's UTC calendar date.
func (s *Server) Daily(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error) {
	if err := req.CheckValid(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid date: %v", err)
	}
	rec, err := s.engine.Daily(ctx, req.AsTime())
	return s.reply(DailyMethod, req.AsTime(), rec, err)
}

func (s *Server) reply(method string, t time.Time, rec Record, err error) (*structpb.Struct, error) {
	if s.OnResult != nil {
		s.OnResult(method, t, rec, err)
	}
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "Panchanga engine unavailable: %v", err)
	}
	out, err := RecordStruct(rec)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode record: %v", err)
	}
	return out, nil
}
// #endregion service

// #region encode
// RecordStruct renders a record as a protobuf Struct.
func RecordStruct(rec Record) (*structpb.Struct, error) {
	ts := func(t time.Time) string { return t.UTC().Format(time.RFC3339) }
	return structpb.NewStruct(map[string]interface{}{
		"instant":        ts(rec.Instant),
		"civil_date":     rec.CivilDate.Format(time.DateOnly),
		"source":         rec.Source,
		"sun_longitude":  rec.Longitudes.Sun,
		"moon_longitude": rec.Longitudes.Moon,
		"tithi": map[string]interface{}{
			"index":    rec.Tithi.Index,
			"name":     rec.Tithi.Name(),
			"paksha":   rec.Tithi.Paksha(),
			"start":    ts(rec.Tithi.Start),
			"end":      ts(rec.Tithi.End),
			"progress": rec.Tithi.Progress,
		},
		"lunar_month": map[string]interface{}{
			"name":      rec.LunarMonth.Name,
			"full_name": rec.LunarMonth.FullName,
			"is_adhik":  rec.LunarMonth.IsAdhik,
			"is_kshaya": rec.LunarMonth.IsKshaya,
			"start":     ts(rec.LunarMonth.Start),
			"end":       ts(rec.LunarMonth.End),
		},
		"bs_date": map[string]interface{}{
			"date":       rec.BSDate.String(),
			"month_name": rec.BSDate.MonthName(),
			"confidence": rec.BSDate.Confidence.String(),
			"band":       bandString(rec.BSDate),
		},
		"nakshatra":         limbMap(rec.Nakshatra),
		"yoga":              limbMap(rec.Yoga),
		"karana":            limbMap(rec.Karana),
		"vaara":             limbMap(rec.Vaara),
		"uncertainty":       descriptorMap(rec.Uncertainty),
		"tithi_uncertainty": descriptorMap(rec.TithiUncertainty),
		"bs_uncertainty":    descriptorMap(rec.BSUncertainty),
	})
}

func bandString(d bs.Date) string {
	if d.Confidence != uncertainty.Estimated {
		return ""
	}
	return d.Band.String()
}

func limbMap(l Limb) map[string]interface{} {
	return map[string]interface{}{"index": l.Index, "name": l.Name}
}

func descriptorMap(d uncertainty.Descriptor) map[string]interface{} {
	m := map[string]interface{}{
		"level":          d.Level.String(),
		"interval_hours": d.IntervalHours,
		"method":         d.Method,
		"probability":    d.Probability,
		"notes":          d.Notes,
	}
	if d.BoundaryProximityMinutes != nil {
		m["boundary_proximity_minutes"] = *d.BoundaryProximityMinutes
	}
	return m
}
// #endregion encode

// #region descriptor
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Service)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PanchangaAt", Handler: unaryHandler(AtMethod, Service.PanchangaAt)},
		{MethodName: "Daily", Handler: unaryHandler(DailyMethod, Service.Daily)},
	},
	Streams: []grpc.StreamDesc{},
}

type unaryCall func(Service, context.Context, *timestamppb.Timestamp) (*structpb.Struct, error)

func unaryHandler(full string, call unaryCall) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(timestamppb.Timestamp)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Service), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(Service), ctx, req.(*timestamppb.Timestamp))
		}
		return interceptor(ctx, in, info, handler)
	}
}
// #endregion descriptor
