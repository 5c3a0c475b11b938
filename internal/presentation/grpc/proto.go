package grpc

// proto.go defines the gRPC service for scoring.v1.ScoringService. Messages
// travel as JSON through the codec in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Isaksend/credit-score/internal/application/dto"
)

// Full method names, used by interceptors.
const (
	ServiceName                  = "scoring.v1.ScoringService"
	MethodPredict                = "/scoring.v1.ScoringService/Predict"
	MethodPredictBatch           = "/scoring.v1.ScoringService/PredictBatch"
	MethodGetPortfolioStatistics = "/scoring.v1.ScoringService/GetPortfolioStatistics"
)

// PredictRequest carries one client's feature mapping.
type PredictRequest struct {
	Data map[string]any `json:"data"`
}

// PredictResponse is the scored client.
type PredictResponse = dto.PredictionResponse

// PredictBatchRequest carries several feature mappings.
type PredictBatchRequest struct {
	Clients []any `json:"clients"`
}

// PredictBatchResponse holds per-client results in request order.
type PredictBatchResponse = dto.BatchPredictResponse

// GetPortfolioStatisticsRequest is empty.
type GetPortfolioStatisticsRequest struct{}

// GetPortfolioStatisticsResponse is the portfolio aggregate.
type GetPortfolioStatisticsResponse = dto.PortfolioStatisticsResponse

// ScoringServiceServer is the server API for ScoringService.
type ScoringServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	PredictBatch(context.Context, *PredictBatchRequest) (*PredictBatchResponse, error)
	GetPortfolioStatistics(context.Context, *GetPortfolioStatisticsRequest) (*GetPortfolioStatisticsResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedScoringServiceServer) PredictBatch(context.Context, *PredictBatchRequest) (*PredictBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictBatch not implemented")
}
func (UnimplementedScoringServiceServer) GetPortfolioStatistics(context.Context, *GetPortfolioStatisticsRequest) (*GetPortfolioStatisticsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPortfolioStatistics not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s grpclib.ServiceRegistrar, srv ScoringServiceServer) {
	s.RegisterService(&_ScoringService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _ScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _ScoringService_Predict_Handler},                               //nolint:revive // gRPC handler registration
		{MethodName: "PredictBatch", Handler: _ScoringService_PredictBatch_Handler},                     //nolint:revive // gRPC handler registration
		{MethodName: "GetPortfolioStatistics", Handler: _ScoringService_GetPortfolioStatistics_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_Predict_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(PredictRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).Predict(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodPredict}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoringServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_PredictBatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(PredictBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).PredictBatch(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodPredictBatch}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoringServiceServer).PredictBatch(ctx, req.(*PredictBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_GetPortfolioStatistics_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetPortfolioStatisticsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).GetPortfolioStatistics(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetPortfolioStatistics}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoringServiceServer).GetPortfolioStatistics(ctx, req.(*GetPortfolioStatisticsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ScoringServiceClient is the client API for ScoringService.
type ScoringServiceClient interface {
	Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error)
	PredictBatch(ctx context.Context, in *PredictBatchRequest, opts ...grpclib.CallOption) (*PredictBatchResponse, error)
	GetPortfolioStatistics(ctx context.Context, in *GetPortfolioStatisticsRequest, opts ...grpclib.CallOption) (*GetPortfolioStatisticsResponse, error)
}

type scoringServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewScoringServiceClient returns a client that always uses the JSON codec.
func NewScoringServiceClient(cc grpclib.ClientConnInterface) ScoringServiceClient {
	return &scoringServiceClient{cc: cc}
}

func (c *scoringServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	if err := c.cc.Invoke(ctx, MethodPredict, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scoringServiceClient) PredictBatch(ctx context.Context, in *PredictBatchRequest, opts ...grpclib.CallOption) (*PredictBatchResponse, error) {
	out := new(PredictBatchResponse)
	if err := c.cc.Invoke(ctx, MethodPredictBatch, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scoringServiceClient) GetPortfolioStatistics(ctx context.Context, in *GetPortfolioStatisticsRequest, opts ...grpclib.CallOption) (*GetPortfolioStatisticsResponse, error) {
	out := new(GetPortfolioStatisticsResponse)
	if err := c.cc.Invoke(ctx, MethodGetPortfolioStatistics, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpclib.CallOption) []grpclib.CallOption {
	return append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
}
