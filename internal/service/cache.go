// Пакет service — бизнес-логика relay pngshots.
// CacheService — LRU-кэш листингов ImageKit с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш листингов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша листингов.",
	})
)

// CacheService — LRU-кэш листингов по пути хранилища с автоматическим TTL.
// Кэш per-instance; источник истины — ImageKit.
type CacheService struct {
	cache *expirable.LRU[string, []model.ImageRecord]
	ttl   time.Duration
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	cache := expirable.NewLRU[string, []model.ImageRecord](maxSize, nil, ttl)
	return &CacheService{cache: cache, ttl: ttl}
}

// TTL возвращает время жизни записи.
func (c *CacheService) TTL() time.Duration {
	return c.ttl
}

// Get возвращает листинг из кэша по пути.
// Обновляет Prometheus-метрики hit/miss.
func (c *CacheService) Get(path string) ([]model.ImageRecord, bool) {
	val, ok := c.cache.Get(path)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет листинг в кэше.
func (c *CacheService) Set(path string, records []model.ImageRecord) {
	c.cache.Add(path, records)
}

// Delete удаляет листинг из кэша.
func (c *CacheService) Delete(path string) {
	c.cache.Remove(path)
}

// Purge очищает кэш целиком (после удаления файла).
func (c *CacheService) Purge() {
	c.cache.Purge()
}
