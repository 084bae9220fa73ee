package grpc

// proto.go defines the gRPC server interface for upi.risk.v1.RiskService.
// Messages are plain Go structs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RiskServiceName is the fully qualified gRPC service name.
const RiskServiceName = "upi.risk.v1.RiskService"

// PredictMethod is the full method name of RiskService/Predict.
const PredictMethod = "/" + RiskServiceName + "/Predict"

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: RiskServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: riskServicePredictHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "upi/risk/v1/risk.proto",
}

func riskServicePredictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// PredictRequest represents the proto PredictRequest message.
type PredictRequest struct {
	GeoLat           *float64 `json:"geo_lat,omitempty"`
	GeoLon           *float64 `json:"geo_lon,omitempty"`
	Amount           string   `json:"amount"`
	Timestamp        string   `json:"timestamp"`
	PayerID          string   `json:"payer_id"`
	PayeeID          string   `json:"payee_id"`
	DeviceID         string   `json:"device_id"`
	TxnCountLastHour float64  `json:"txn_count_last_hour"`
	AvgTicketLast7d  float64  `json:"avg_ticket_last_7d"`
}

// FeatureMsg represents the proto FeatureContribution message.
type FeatureMsg struct {
	Value  interface{} `json:"value"`
	Name   string      `json:"name"`
	Label  string      `json:"label,omitempty"`
	Weight float64     `json:"weight"`
}

// PredictResponse represents the proto PredictResponse message.
type PredictResponse struct {
	Label       string        `json:"label"`
	Explanation string        `json:"explanation,omitempty"`
	Strategy    string        `json:"strategy"`
	TopFeatures []*FeatureMsg `json:"top_features"`
	Score       float64       `json:"score"`
}
