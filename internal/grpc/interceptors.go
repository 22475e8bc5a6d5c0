package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/tempizhere/smashorpass/internal/grpc/proto"
	"github.com/tempizhere/smashorpass/internal/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// contextKey определяет тип для ключей контекста
type contextKey string

const userIDKey contextKey = "userID"

// userMethods требуют идентификатор пользователя
var userMethods = map[string]bool{
	proto.MethodGetShare: true,
}

// AuthInterceptor создаёт интерцептор для аутентификации пользователей.
// Токен берётся из metadata "authorization: Bearer <jwt>", тем же JWT, что и в cookie HTTP API.
// Если токена нет или он неверный, выдаётся новый пользователь и токен возвращается в заголовке ответа.
func AuthInterceptor(issuer middleware.TokenIssuer, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !userMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		var userID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
				token := strings.TrimPrefix(authHeaders[0], "Bearer ")
				id, err := issuer.ParseJWT(token)
				if err != nil {
					logger.Warn("Invalid JWT token", zap.Error(err))
				}
				userID = id
			}
		}

		if userID == "" {
			var err error
			userID, err = issuer.GenerateUserID()
			if err != nil {
				logger.Error("Failed to generate user ID", zap.Error(err))
				return nil, status.Error(codes.Internal, "failed to generate user ID")
			}

			token, err := issuer.GenerateJWT(userID)
			if err != nil {
				logger.Error("Failed to generate JWT", zap.Error(err))
				return nil, status.Error(codes.Internal, "failed to generate JWT")
			}

			if err := grpc.SetHeader(ctx, metadata.Pairs("authorization", "Bearer "+token)); err != nil {
				logger.Warn("Failed to set response header", zap.Error(err))
			}
			logger.Info("Generated new JWT for gRPC", zap.String("user_id", userID))
		}

		ctx = context.WithValue(ctx, userIDKey, userID)
		return handler(ctx, req)
	}
}

// TrustedSubnetInterceptor создаёт интерцептор для проверки доверенной подсети.
// Проверяется только GetStats. IP клиента берётся из metadata "x-real-ip", иначе из адреса соединения.
func TrustedSubnetInterceptor(trustedSubnet string, logger *zap.Logger) grpc.UnaryServerInterceptor {
	var subnet *net.IPNet
	var parseErr error
	if trustedSubnet != "" {
		_, subnet, parseErr = net.ParseCIDR(trustedSubnet)
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != proto.MethodGetStats {
			return handler(ctx, req)
		}

		if trustedSubnet == "" {
			return nil, status.Error(codes.PermissionDenied, "trusted subnet not configured")
		}
		if parseErr != nil {
			logger.Error("Invalid trusted subnet", zap.String("subnet", trustedSubnet), zap.Error(parseErr))
			return nil, status.Error(codes.Internal, "invalid trusted subnet configuration")
		}

		clientIP := clientIPFromContext(ctx)
		ip := net.ParseIP(clientIP)
		if ip == nil || !subnet.Contains(ip) {
			logger.Warn("Access denied from untrusted IP", zap.String("ip", clientIP))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		return handler(ctx, req)
	}
}

// clientIPFromContext возвращает IP клиента из metadata или из адреса соединения
func clientIPFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ips := md.Get("x-real-ip"); len(ips) > 0 && ips[0] != "" {
			return ips[0]
		}
	}
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}
	return p.Addr.String()
}

// LoggingInterceptor создаёт интерцептор для логирования gRPC запросов
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		logger.Info("gRPC request",
			zap.String("method", info.FullMethod),
			zap.String("client_ip", clientIPFromContext(ctx)),
			zap.String("status_code", code.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)

		return resp, err
	}
}

// NewGRPCServer собирает gRPC сервер с интерцепторами и зарегистрированным сервисом
func NewGRPCServer(srv *Server, issuer middleware.TokenIssuer, trustedSubnet string, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		TrustedSubnetInterceptor(trustedSubnet, logger),
		AuthInterceptor(issuer, logger),
	))
	proto.RegisterShareServiceServer(s, srv)
	return s
}
