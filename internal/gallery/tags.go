package gallery

import (
	"slices"
	"strings"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// DistinctTags возвращает объединение тегов всех записей.
// Пустые теги отбрасываются, результат отсортирован лексикографически.
func DistinctTags(records []model.ImageRecord) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, rec := range records {
		for _, tag := range rec.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	return tags
}

// FilterByTags возвращает записи, у которых есть хотя бы один из выбранных
// тегов (OR). Выбор нормализуется (NormalizeTags); пустой выбор возвращает
// вход без изменений. Порядок записей сохраняется.
func FilterByTags(records []model.ImageRecord, selected []string) []model.ImageRecord {
	selected = NormalizeTags(selected)
	if len(selected) == 0 {
		return records
	}

	result := make([]model.ImageRecord, 0, len(records))
	for i := range records {
		if hasAnyTag(&records[i], selected) {
			result = append(result, records[i])
		}
	}
	return result
}

// hasAnyTag — пересечение тегов записи с выбором.
func hasAnyTag(rec *model.ImageRecord, selected []string) bool {
	for _, tag := range selected {
		if rec.HasTag(tag) {
			return true
		}
	}
	return false
}

// NormalizeTags обрезает пробелы, отбрасывает пустые значения и дубликаты.
// Порядок первых вхождений сохраняется.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
