package usecase

import (
	"context"

	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/apperror"

	"go.uber.org/zap"
)

type StatsService interface {
	AdminStats(ctx context.Context) (*response.AdminStatsResponse, error)
}

type statsService struct {
	stats repository.StatsRepository
	log   *zap.Logger
}

func NewStatsService(stats repository.StatsRepository, log *zap.Logger) StatsService {
	return &statsService{
		stats: stats,
		log:   log.With(zap.String("service", "stats")),
	}
}

func (s *statsService) AdminStats(ctx context.Context) (*response.AdminStatsResponse, error) {
	stats, err := s.stats.AdminStats(ctx)
	if err != nil {
		s.log.Error("Failed to load admin stats", zap.Error(err))
		return nil, apperror.Internal("failed to load stats", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}
