package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// Deleter удаляет файл у вендора.
type Deleter interface {
	DeleteImage(ctx context.Context, fileID string) error
}

// Collection — отображаемый список записей с двухфазным удалением:
//  1. Remove удаляет запись у вендора и только после успеха убирает её
//     локально, помечая как ожидающую подтверждения;
//  2. Reconcile заменяет список свежей выборкой и снимает пометки с записей,
//     которых вендор больше не возвращает.
//
// Ошибка удаления или загрузки не меняет текущий список.
type Collection struct {
	mu      sync.RWMutex
	records []model.ImageRecord
	pending map[string]struct{}
}

// NewCollection создаёт коллекцию с начальным списком.
func NewCollection(records []model.ImageRecord) *Collection {
	c := &Collection{pending: make(map[string]struct{})}
	c.records = append(c.records, records...)
	return c
}

// Records возвращает копию текущего списка.
func (c *Collection) Records() []model.ImageRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]model.ImageRecord, len(c.records))
	copy(result, c.records)
	return result
}

// Pending возвращает идентификаторы удалённых записей, ещё не подтверждённых
// свежей выборкой.
func (c *Collection) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	return ids
}

// Remove удаляет запись у вендора, затем из локального списка.
// При ошибке вендора список не меняется, ошибка возвращается вызывающему.
func (c *Collection) Remove(ctx context.Context, deleter Deleter, fileID string) error {
	if err := deleter.DeleteImage(ctx, fileID); err != nil {
		return fmt.Errorf("удаление %s: %w", fileID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.records[:0:0]
	for _, rec := range c.records {
		if rec.FileID != fileID {
			kept = append(kept, rec)
		}
	}
	c.records = kept
	c.pending[fileID] = struct{}{}
	return nil
}

// Reconcile заменяет список свежей выборкой вендора.
// Записи, удаление которых подтверждено, но которые вендор ещё возвращает,
// остаются скрытыми до следующей выборки без них.
func (c *Collection) Reconcile(fresh []model.ImageRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	listed := make(map[string]struct{}, len(fresh))
	records := make([]model.ImageRecord, 0, len(fresh))
	for _, rec := range fresh {
		listed[rec.FileID] = struct{}{}
		if _, ok := c.pending[rec.FileID]; ok {
			continue
		}
		records = append(records, rec)
	}

	for id := range c.pending {
		if _, ok := listed[id]; !ok {
			delete(c.pending, id)
		}
	}
	c.records = records
}

// Refresh загружает свежий список через loader и согласует его.
// При ошибке загрузки сохраняется последний успешный список.
func (c *Collection) Refresh(ctx context.Context, loader Loader) error {
	fresh, err := loader.ListImages(ctx)
	if err != nil {
		return fmt.Errorf("обновление списка: %w", err)
	}
	c.Reconcile(fresh)
	return nil
}
