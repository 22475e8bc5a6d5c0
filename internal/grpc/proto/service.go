// Package proto содержит интерфейс gRPC сервиса ссылок
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName полное имя gRPC сервиса
const ServiceName = "smashorpass.v1.ShareService"

// Полные имена методов сервиса
const (
	MethodEncode   = "/" + ServiceName + "/Encode"
	MethodDecode   = "/" + ServiceName + "/Decode"
	MethodResolve  = "/" + ServiceName + "/Resolve"
	MethodGetShare = "/" + ServiceName + "/GetShare"
	MethodPing     = "/" + ServiceName + "/Ping"
	MethodGetStats = "/" + ServiceName + "/GetStats"
)

// ShareServiceServer представляет интерфейс gRPC сервиса
type ShareServiceServer interface {
	Encode(ctx context.Context, req *EncodeRequest) (*EncodeResponse, error)
	Decode(ctx context.Context, req *DecodeRequest) (*DecodeResponse, error)
	Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error)
	GetShare(ctx context.Context, req *GetShareRequest) (*GetShareResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedShareServiceServer возвращает codes.Unimplemented для всех методов
type UnimplementedShareServiceServer struct{}

func (UnimplementedShareServiceServer) Encode(context.Context, *EncodeRequest) (*EncodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Encode not implemented")
}

func (UnimplementedShareServiceServer) Decode(context.Context, *DecodeRequest) (*DecodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Decode not implemented")
}

func (UnimplementedShareServiceServer) Resolve(context.Context, *ResolveRequest) (*ResolveResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Resolve not implemented")
}

func (UnimplementedShareServiceServer) GetShare(context.Context, *GetShareRequest) (*GetShareResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetShare not implemented")
}

func (UnimplementedShareServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedShareServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}

// unaryHandler строит обработчик метода для ServiceDesc
func unaryHandler[Req any, Resp any](method string, call func(ShareServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ShareServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ShareServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ShareServiceDesc описание сервиса для grpc.Server
var ShareServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShareServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Encode", Handler: unaryHandler(MethodEncode, ShareServiceServer.Encode)},
		{MethodName: "Decode", Handler: unaryHandler(MethodDecode, ShareServiceServer.Decode)},
		{MethodName: "Resolve", Handler: unaryHandler(MethodResolve, ShareServiceServer.Resolve)},
		{MethodName: "GetShare", Handler: unaryHandler(MethodGetShare, ShareServiceServer.GetShare)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, ShareServiceServer.Ping)},
		{MethodName: "GetStats", Handler: unaryHandler(MethodGetStats, ShareServiceServer.GetStats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smashorpass/v1/share.proto",
}

// RegisterShareServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterShareServiceServer(s grpc.ServiceRegistrar, srv ShareServiceServer) {
	s.RegisterService(&ShareServiceDesc, srv)
}

// ShareServiceClient клиент сервиса ссылок
type ShareServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewShareServiceClient создаёт клиента поверх соединения
func NewShareServiceClient(cc grpc.ClientConnInterface) *ShareServiceClient {
	return &ShareServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode строит ссылку по списку решений
func (c *ShareServiceClient) Encode(ctx context.Context, in *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error) {
	return invoke[EncodeResponse](ctx, c.cc, MethodEncode, in, opts)
}

// Decode расшифровывает строку ссылки
func (c *ShareServiceClient) Decode(ctx context.Context, in *DecodeRequest, opts ...grpc.CallOption) (*DecodeResponse, error) {
	return invoke[DecodeResponse](ctx, c.cc, MethodDecode, in, opts)
}

// Resolve расшифровывает ссылку и дополняет её данными персонажей
func (c *ShareServiceClient) Resolve(ctx context.Context, in *ResolveRequest, opts ...grpc.CallOption) (*ResolveResponse, error) {
	return invoke[ResolveResponse](ctx, c.cc, MethodResolve, in, opts)
}

// GetShare возвращает ссылку на игру пользователя, чей токен передан в metadata
func (c *ShareServiceClient) GetShare(ctx context.Context, in *GetShareRequest, opts ...grpc.CallOption) (*GetShareResponse, error) {
	return invoke[GetShareResponse](ctx, c.cc, MethodGetShare, in, opts)
}

// Ping проверяет состояние сервиса
func (c *ShareServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

// GetStats возвращает статистику сервиса
func (c *ShareServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsResponse](ctx, c.cc, MethodGetStats, in, opts)
}
