package service

import (
	"context"
	"fmt"

	"retohub/internal/common"
	"retohub/internal/domain/model"
	"retohub/internal/domain/repository"
	"retohub/internal/platform/config"
	"retohub/internal/platform/logger"

	"go.uber.org/zap"
)

const rankingGenKey = "ranking:gen"

type PersonService struct {
	personRepo repository.PersonRepository
	cache      Cache
}

func NewPersonService(personRepo repository.PersonRepository, cache Cache) *PersonService {
	return &PersonService{personRepo: personRepo, cache: cache}
}

func (s *PersonService) List(ctx context.Context, page, pageSize int) ([]model.Person, error) {
	limit, offset := limitOffset(page, pageSize)
	return s.personRepo.ListActive(ctx, limit, offset)
}

func (s *PersonService) Get(ctx context.Context, id int) (*model.Person, error) {
	return s.personRepo.FindByID(ctx, id)
}

func (s *PersonService) Update(ctx context.Context, id int, upd model.PersonUpdate) error {
	if upd.Empty() {
		return fmt.Errorf("no updatable fields provided: %w", common.ErrBadRequest)
	}
	return s.personRepo.UpdatePartial(ctx, id, upd)
}

func (s *PersonService) Delete(ctx context.Context, id int) error {
	return s.personRepo.SoftDelete(ctx, id)
}

// Ranking serves leaderboard pages through the redis cache. Keys carry a
// generation counter bumped on every score change so a judge accept is
// visible on the next read.
func (s *PersonService) Ranking(ctx context.Context, page, pageSize int) ([]model.RankingEntry, error) {
	limit, offset := limitOffset(page, pageSize)

	var gen int64
	if s.cache != nil {
		if err := s.cache.Get(ctx, rankingGenKey, &gen); err != nil {
			gen = 0
		}
		key := rankingKey(gen, page, pageSize)
		var cached []model.RankingEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.personRepo.GetRanking(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := rankingKey(gen, page, pageSize)
		if err := s.cache.Set(ctx, key, entries, config.AppConfig.RankingCacheTTL); err != nil {
			logger.Log.Warn("failed to cache ranking page", zap.String("key", key), zap.Error(err))
		}
	}
	return entries, nil
}

// SimulateAccepted is the development stand-in for the external judge's
// accept callback: it additively updates score and solved count.
func (s *PersonService) SimulateAccepted(ctx context.Context, personID, scoreDelta, solvedDelta int) error {
	if err := s.personRepo.AdjustScore(ctx, personID, scoreDelta, solvedDelta); err != nil {
		return err
	}
	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, rankingGenKey); err != nil {
			logger.Log.Warn("failed to bump ranking generation", zap.Error(err))
		}
	}
	return nil
}

func rankingKey(gen int64, page, pageSize int) string {
	return fmt.Sprintf("ranking:v%d:p%d:n%d", gen, page, pageSize)
}

// limitOffset clamps pagination input the same way everywhere: page >= 1,
// pageSize > 0.
func limitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = config.AppConfig.DefaultPageSize
	}
	if pageSize > config.AppConfig.MaxPageSize {
		pageSize = config.AppConfig.MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
