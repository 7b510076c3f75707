package services

import (
	"log/slog"
	"time"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// cacheServiceImpl implements CacheService
type cacheServiceImpl struct {
	manager *cache.Manager
	logger  *slog.Logger
}

func NewCacheService(manager *cache.Manager, logger *slog.Logger) CacheService {
	return &cacheServiceImpl{
		manager: manager,
		logger:  logger,
	}
}

func (s *cacheServiceImpl) GetHTML(key string) (string, bool, error) {
	return s.manager.GetHTML(key)
}

func (s *cacheServiceImpl) PutHTML(key, html string) error {
	return s.manager.PutHTML(key, html)
}

func (s *cacheServiceImpl) GetOGP(url string, now time.Time) (models.OGPData, bool, error) {
	return s.manager.GetOGP(url, now)
}

func (s *cacheServiceImpl) PutOGP(data models.OGPData, now time.Time, ttl time.Duration) error {
	return s.manager.PutOGP(data, now, ttl)
}

func (s *cacheServiceImpl) PruneOGP(now time.Time) (int, error) {
	n, err := s.manager.PruneOGP(now)
	if err == nil && n > 0 {
		s.logger.Debug("pruned expired ogp records", "count", n)
	}
	return n, err
}

func (s *cacheServiceImpl) RecordBuild(now time.Time) error {
	return s.manager.RecordBuild(now)
}

func (s *cacheServiceImpl) Close() error {
	return s.manager.Close()
}
