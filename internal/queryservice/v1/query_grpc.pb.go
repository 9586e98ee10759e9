package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	QueryService_SqlQuery_FullMethodName       = "/queryservice.v1.QueryService/SqlQuery"
	QueryService_FollowSql_FullMethodName      = "/queryservice.v1.QueryService/FollowSql"
	QueryService_QueryTraces_FullMethodName    = "/queryservice.v1.QueryService/QueryTraces"
	QueryService_QueryLogs_FullMethodName      = "/queryservice.v1.QueryService/QueryLogs"
	QueryService_QueryMetrics_FullMethodName   = "/queryservice.v1.QueryService/QueryMetrics"
	QueryService_FollowTraces_FullMethodName   = "/queryservice.v1.QueryService/FollowTraces"
	QueryService_FollowLogs_FullMethodName     = "/queryservice.v1.QueryService/FollowLogs"
	QueryService_FollowMetrics_FullMethodName  = "/queryservice.v1.QueryService/FollowMetrics"
	QueryService_ClearTraces_FullMethodName    = "/queryservice.v1.QueryService/ClearTraces"
	QueryService_ClearLogs_FullMethodName      = "/queryservice.v1.QueryService/ClearLogs"
	QueryService_ClearMetrics_FullMethodName   = "/queryservice.v1.QueryService/ClearMetrics"
)

// QueryServiceServer is the server API for QueryService.
type QueryServiceServer interface {
	SqlQuery(context.Context, *SqlQueryRequest) (*SqlQueryResponse, error)
	FollowSql(*FollowSqlRequest, QueryService_FollowSqlServer) error
	QueryTraces(context.Context, *QueryTracesRequest) (*QueryTracesResponse, error)
	QueryLogs(context.Context, *QueryLogsRequest) (*QueryLogsResponse, error)
	QueryMetrics(context.Context, *QueryMetricsRequest) (*QueryMetricsResponse, error)
	FollowTraces(*FollowTracesRequest, QueryService_FollowTracesServer) error
	FollowLogs(*FollowLogsRequest, QueryService_FollowLogsServer) error
	FollowMetrics(*FollowMetricsRequest, QueryService_FollowMetricsServer) error
	ClearTraces(context.Context, *ClearTracesRequest) (*ClearTracesResponse, error)
	ClearLogs(context.Context, *ClearLogsRequest) (*ClearLogsResponse, error)
	ClearMetrics(context.Context, *ClearMetricsRequest) (*ClearMetricsResponse, error)
}

// UnimplementedQueryServiceServer can be embedded to have forward compatible
// implementations; every method returns codes.Unimplemented.
type UnimplementedQueryServiceServer struct{}

func (UnimplementedQueryServiceServer) SqlQuery(context.Context, *SqlQueryRequest) (*SqlQueryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SqlQuery not implemented")
}
func (UnimplementedQueryServiceServer) FollowSql(*FollowSqlRequest, QueryService_FollowSqlServer) error {
	return status.Errorf(codes.Unimplemented, "method FollowSql not implemented")
}
func (UnimplementedQueryServiceServer) QueryTraces(context.Context, *QueryTracesRequest) (*QueryTracesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QueryTraces not implemented")
}
func (UnimplementedQueryServiceServer) QueryLogs(context.Context, *QueryLogsRequest) (*QueryLogsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QueryLogs not implemented")
}
func (UnimplementedQueryServiceServer) QueryMetrics(context.Context, *QueryMetricsRequest) (*QueryMetricsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QueryMetrics not implemented")
}
func (UnimplementedQueryServiceServer) FollowTraces(*FollowTracesRequest, QueryService_FollowTracesServer) error {
	return status.Errorf(codes.Unimplemented, "method FollowTraces not implemented")
}
func (UnimplementedQueryServiceServer) FollowLogs(*FollowLogsRequest, QueryService_FollowLogsServer) error {
	return status.Errorf(codes.Unimplemented, "method FollowLogs not implemented")
}
func (UnimplementedQueryServiceServer) FollowMetrics(*FollowMetricsRequest, QueryService_FollowMetricsServer) error {
	return status.Errorf(codes.Unimplemented, "method FollowMetrics not implemented")
}
func (UnimplementedQueryServiceServer) ClearTraces(context.Context, *ClearTracesRequest) (*ClearTracesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClearTraces not implemented")
}
func (UnimplementedQueryServiceServer) ClearLogs(context.Context, *ClearLogsRequest) (*ClearLogsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClearLogs not implemented")
}
func (UnimplementedQueryServiceServer) ClearMetrics(context.Context, *ClearMetricsRequest) (*ClearMetricsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClearMetrics not implemented")
}

// --- streaming server interfaces + wrappers, one per Follow* RPC ---

type QueryService_FollowSqlServer interface {
	Send(*FollowSqlResponse) error
	grpc.ServerStream
}

type queryServiceFollowSqlServer struct{ grpc.ServerStream }

func (x *queryServiceFollowSqlServer) Send(m *FollowSqlResponse) error {
	return x.ServerStream.SendMsg(m)
}

type QueryService_FollowTracesServer interface {
	Send(*FollowTracesResponse) error
	grpc.ServerStream
}

type queryServiceFollowTracesServer struct{ grpc.ServerStream }

func (x *queryServiceFollowTracesServer) Send(m *FollowTracesResponse) error {
	return x.ServerStream.SendMsg(m)
}

type QueryService_FollowLogsServer interface {
	Send(*FollowLogsResponse) error
	grpc.ServerStream
}

type queryServiceFollowLogsServer struct{ grpc.ServerStream }

func (x *queryServiceFollowLogsServer) Send(m *FollowLogsResponse) error {
	return x.ServerStream.SendMsg(m)
}

type QueryService_FollowMetricsServer interface {
	Send(*FollowMetricsResponse) error
	grpc.ServerStream
}

type queryServiceFollowMetricsServer struct{ grpc.ServerStream }

func (x *queryServiceFollowMetricsServer) Send(m *FollowMetricsResponse) error {
	return x.ServerStream.SendMsg(m)
}

// --- client-side handler thunks ---

func _QueryService_SqlQuery_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SqlQueryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).SqlQuery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_SqlQuery_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).SqlQuery(ctx, req.(*SqlQueryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_FollowSql_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(FollowSqlRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(QueryServiceServer).FollowSql(m, &queryServiceFollowSqlServer{stream})
}

func _QueryService_QueryTraces_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryTracesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).QueryTraces(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_QueryTraces_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).QueryTraces(ctx, req.(*QueryTracesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_QueryLogs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryLogsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).QueryLogs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_QueryLogs_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).QueryLogs(ctx, req.(*QueryLogsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_QueryMetrics_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QueryMetricsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).QueryMetrics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_QueryMetrics_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).QueryMetrics(ctx, req.(*QueryMetricsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_FollowTraces_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(FollowTracesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(QueryServiceServer).FollowTraces(m, &queryServiceFollowTracesServer{stream})
}

func _QueryService_FollowLogs_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(FollowLogsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(QueryServiceServer).FollowLogs(m, &queryServiceFollowLogsServer{stream})
}

func _QueryService_FollowMetrics_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(FollowMetricsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(QueryServiceServer).FollowMetrics(m, &queryServiceFollowMetricsServer{stream})
}

func _QueryService_ClearTraces_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClearTracesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).ClearTraces(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_ClearTraces_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).ClearTraces(ctx, req.(*ClearTracesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_ClearLogs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClearLogsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).ClearLogs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_ClearLogs_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).ClearLogs(ctx, req.(*ClearLogsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _QueryService_ClearMetrics_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClearMetricsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).ClearMetrics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryService_ClearMetrics_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).ClearMetrics(ctx, req.(*ClearMetricsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// QueryService_ServiceDesc is the grpc.ServiceDesc for QueryService.
var QueryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "queryservice.v1.QueryService",
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SqlQuery", Handler: _QueryService_SqlQuery_Handler},
		{MethodName: "QueryTraces", Handler: _QueryService_QueryTraces_Handler},
		{MethodName: "QueryLogs", Handler: _QueryService_QueryLogs_Handler},
		{MethodName: "QueryMetrics", Handler: _QueryService_QueryMetrics_Handler},
		{MethodName: "ClearTraces", Handler: _QueryService_ClearTraces_Handler},
		{MethodName: "ClearLogs", Handler: _QueryService_ClearLogs_Handler},
		{MethodName: "ClearMetrics", Handler: _QueryService_ClearMetrics_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "FollowSql", Handler: _QueryService_FollowSql_Handler, ServerStreams: true},
		{StreamName: "FollowTraces", Handler: _QueryService_FollowTraces_Handler, ServerStreams: true},
		{StreamName: "FollowLogs", Handler: _QueryService_FollowLogs_Handler, ServerStreams: true},
		{StreamName: "FollowMetrics", Handler: _QueryService_FollowMetrics_Handler, ServerStreams: true},
	},
	Metadata: "queryservice/v1/query.proto",
}

// RegisterQueryServiceServer registers srv on s.
func RegisterQueryServiceServer(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&QueryService_ServiceDesc, srv)
}

// QueryServiceClient is the client API for QueryService, used by the CLI.
type QueryServiceClient interface {
	SqlQuery(ctx context.Context, in *SqlQueryRequest, opts ...grpc.CallOption) (*SqlQueryResponse, error)
	FollowSql(ctx context.Context, in *FollowSqlRequest, opts ...grpc.CallOption) (QueryService_FollowSqlClient, error)
	QueryTraces(ctx context.Context, in *QueryTracesRequest, opts ...grpc.CallOption) (*QueryTracesResponse, error)
	QueryLogs(ctx context.Context, in *QueryLogsRequest, opts ...grpc.CallOption) (*QueryLogsResponse, error)
	QueryMetrics(ctx context.Context, in *QueryMetricsRequest, opts ...grpc.CallOption) (*QueryMetricsResponse, error)
	FollowTraces(ctx context.Context, in *FollowTracesRequest, opts ...grpc.CallOption) (QueryService_FollowTracesClient, error)
	FollowLogs(ctx context.Context, in *FollowLogsRequest, opts ...grpc.CallOption) (QueryService_FollowLogsClient, error)
	FollowMetrics(ctx context.Context, in *FollowMetricsRequest, opts ...grpc.CallOption) (QueryService_FollowMetricsClient, error)
	ClearTraces(ctx context.Context, in *ClearTracesRequest, opts ...grpc.CallOption) (*ClearTracesResponse, error)
	ClearLogs(ctx context.Context, in *ClearLogsRequest, opts ...grpc.CallOption) (*ClearLogsResponse, error)
	ClearMetrics(ctx context.Context, in *ClearMetricsRequest, opts ...grpc.CallOption) (*ClearMetricsResponse, error)
}

type queryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewQueryServiceClient(cc grpc.ClientConnInterface) QueryServiceClient {
	return &queryServiceClient{cc}
}

func (c *queryServiceClient) SqlQuery(ctx context.Context, in *SqlQueryRequest, opts ...grpc.CallOption) (*SqlQueryResponse, error) {
	out := new(SqlQueryResponse)
	if err := c.cc.Invoke(ctx, QueryService_SqlQuery_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) QueryTraces(ctx context.Context, in *QueryTracesRequest, opts ...grpc.CallOption) (*QueryTracesResponse, error) {
	out := new(QueryTracesResponse)
	if err := c.cc.Invoke(ctx, QueryService_QueryTraces_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) QueryLogs(ctx context.Context, in *QueryLogsRequest, opts ...grpc.CallOption) (*QueryLogsResponse, error) {
	out := new(QueryLogsResponse)
	if err := c.cc.Invoke(ctx, QueryService_QueryLogs_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) QueryMetrics(ctx context.Context, in *QueryMetricsRequest, opts ...grpc.CallOption) (*QueryMetricsResponse, error) {
	out := new(QueryMetricsResponse)
	if err := c.cc.Invoke(ctx, QueryService_QueryMetrics_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) ClearTraces(ctx context.Context, in *ClearTracesRequest, opts ...grpc.CallOption) (*ClearTracesResponse, error) {
	out := new(ClearTracesResponse)
	if err := c.cc.Invoke(ctx, QueryService_ClearTraces_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) ClearLogs(ctx context.Context, in *ClearLogsRequest, opts ...grpc.CallOption) (*ClearLogsResponse, error) {
	out := new(ClearLogsResponse)
	if err := c.cc.Invoke(ctx, QueryService_ClearLogs_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) ClearMetrics(ctx context.Context, in *ClearMetricsRequest, opts ...grpc.CallOption) (*ClearMetricsResponse, error) {
	out := new(ClearMetricsResponse)
	if err := c.cc.Invoke(ctx, QueryService_ClearMetrics_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) FollowSql(ctx context.Context, in *FollowSqlRequest, opts ...grpc.CallOption) (QueryService_FollowSqlClient, error) {
	stream, err := c.cc.NewStream(ctx, &QueryService_ServiceDesc.Streams[0], QueryService_FollowSql_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryServiceFollowSqlClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type QueryService_FollowSqlClient interface {
	Recv() (*FollowSqlResponse, error)
	grpc.ClientStream
}

type queryServiceFollowSqlClient struct{ grpc.ClientStream }

func (x *queryServiceFollowSqlClient) Recv() (*FollowSqlResponse, error) {
	m := new(FollowSqlResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *queryServiceClient) FollowTraces(ctx context.Context, in *FollowTracesRequest, opts ...grpc.CallOption) (QueryService_FollowTracesClient, error) {
	stream, err := c.cc.NewStream(ctx, &QueryService_ServiceDesc.Streams[1], QueryService_FollowTraces_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryServiceFollowTracesClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type QueryService_FollowTracesClient interface {
	Recv() (*FollowTracesResponse, error)
	grpc.ClientStream
}

type queryServiceFollowTracesClient struct{ grpc.ClientStream }

func (x *queryServiceFollowTracesClient) Recv() (*FollowTracesResponse, error) {
	m := new(FollowTracesResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *queryServiceClient) FollowLogs(ctx context.Context, in *FollowLogsRequest, opts ...grpc.CallOption) (QueryService_FollowLogsClient, error) {
	stream, err := c.cc.NewStream(ctx, &QueryService_ServiceDesc.Streams[2], QueryService_FollowLogs_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryServiceFollowLogsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type QueryService_FollowLogsClient interface {
	Recv() (*FollowLogsResponse, error)
	grpc.ClientStream
}

type queryServiceFollowLogsClient struct{ grpc.ClientStream }

func (x *queryServiceFollowLogsClient) Recv() (*FollowLogsResponse, error) {
	m := new(FollowLogsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *queryServiceClient) FollowMetrics(ctx context.Context, in *FollowMetricsRequest, opts ...grpc.CallOption) (QueryService_FollowMetricsClient, error) {
	stream, err := c.cc.NewStream(ctx, &QueryService_ServiceDesc.Streams[3], QueryService_FollowMetrics_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryServiceFollowMetricsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type QueryService_FollowMetricsClient interface {
	Recv() (*FollowMetricsResponse, error)
	grpc.ClientStream
}

type queryServiceFollowMetricsClient struct{ grpc.ClientStream }

func (x *queryServiceFollowMetricsClient) Recv() (*FollowMetricsResponse, error) {
	m := new(FollowMetricsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
