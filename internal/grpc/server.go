// Package grpc содержит реализацию gRPC сервера для ссылок на результаты игры
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/smashorpass/internal/codec"
	"github.com/tempizhere/smashorpass/internal/grpc/proto"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер ссылок
type Server struct {
	proto.UnimplementedShareServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// Encode строит ссылку по списку решений
func (s *Server) Encode(ctx context.Context, req *proto.EncodeRequest) (*proto.EncodeResponse, error) {
	judgments := make([]models.Judgment, len(req.Judgments))
	for i, j := range req.Judgments {
		if j == nil {
			return nil, status.Errorf(codes.InvalidArgument, "judgment %d is empty", i)
		}
		d, err := models.ParseDecision(j.Decision)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		judgments[i] = models.Judgment{ID: int(j.ID), Decision: d}
	}

	share, err := s.svc.EncodeShare(judgments)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.EncodeResponse{ShareURL: s.svc.BuildShareURL(share), ShareString: share}, nil
}

// Decode расшифровывает строку ссылки
func (s *Server) Decode(ctx context.Context, req *proto.DecodeRequest) (*proto.DecodeResponse, error) {
	judgments, err := s.svc.DecodeShare(req.Share)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := &proto.DecodeResponse{Judgments: make([]*proto.Judgment, len(judgments))}
	for i, j := range judgments {
		resp.Judgments[i] = &proto.Judgment{ID: int32(j.ID), Decision: string(j.Decision)}
	}
	return resp, nil
}

// Resolve расшифровывает ссылку и дополняет решения данными персонажей
func (s *Server) Resolve(ctx context.Context, req *proto.ResolveRequest) (*proto.ResolveResponse, error) {
	shared, err := s.svc.ResolveShare(ctx, req.Share)
	if err != nil {
		return nil, s.mapError(err)
	}
	resp := &proto.ResolveResponse{Items: make([]*proto.SharedCharacter, len(shared))}
	for i, sj := range shared {
		item := &proto.SharedCharacter{ID: int32(sj.ID), Decision: string(sj.Decision)}
		if sj.Character != nil {
			item.Found = true
			item.Name = sj.Character.Name.Full
			item.Image = sj.Character.Image.Large
			item.SiteURL = sj.Character.SiteURL
		}
		resp.Items[i] = item
	}
	return resp, nil
}

// GetShare возвращает ссылку на игру пользователя
func (s *Server) GetShare(ctx context.Context, req *proto.GetShareRequest) (*proto.GetShareResponse, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.svc.ShareURL(userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetShareResponse{ShareURL: url}, nil
}

// Ping проверяет состояние сервиса
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}

	err := s.db.Ping()
	return &proto.PingResponse{
		DatabaseAvailable: err == nil,
	}, nil
}

// GetStats возвращает статистику сервиса
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats, err := s.svc.Stats()
	if err != nil {
		s.logger.Error("Failed to get stats", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to get statistics")
	}

	return &proto.GetStatsResponse{
		ActiveGames: int32(stats.ActiveGames),
		Characters:  int32(stats.Characters),
	}, nil
}

// getUserIDFromContext извлекает UserID из контекста
func getUserIDFromContext(ctx context.Context) (string, error) {
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		return userID, nil
	}
	return "", status.Error(codes.Unauthenticated, "user not authenticated")
}

// mapError преобразует ошибки бизнес-логики в gRPC статусы
func (s *Server) mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, service.ErrInvalidShare):
		return status.Error(codes.InvalidArgument, service.ErrInvalidShare.Error())
	case errors.Is(err, codec.ErrOverflow), errors.Is(err, codec.ErrNegativeID), errors.Is(err, service.ErrShareTooLong):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNoGame):
		return status.Error(codes.NotFound, "game not started")
	default:
		s.logger.Error("Unexpected error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
