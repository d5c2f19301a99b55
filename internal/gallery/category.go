// Пакет gallery — агрегация и фильтрация записей галереи.
//
// Функции пакета чистые: не выполняют ввода-вывода, не хранят состояние
// между вызовами и не возвращают ошибок. Отсутствующие или некорректные
// необязательные поля деградируют до значений по умолчанию.
// Загрузка данных внедряется через Loader (см. browser.go).
package gallery

import (
	"slices"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// Uncategorized — категория записей без customMetadata.app.
const Uncategorized = "Uncategorized"

// Category возвращает категорию записи: значение customMetadata.app без
// пробелов по краям. Отсутствующее, пустое или нестроковое значение
// даёт Uncategorized.
func Category(rec model.ImageRecord) string {
	if app := rec.App(); app != "" {
		return app
	}
	return Uncategorized
}

// OnlyFiles оставляет только записи типа file (содержимое галереи).
func OnlyFiles(records []model.ImageRecord) []model.ImageRecord {
	result := make([]model.ImageRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsFile() {
			result = append(result, rec)
		}
	}
	return result
}

// GroupByCategory разбивает записи по категориям.
// Порядок записей внутри группы совпадает с входным.
func GroupByCategory(records []model.ImageRecord) map[string][]model.ImageRecord {
	groups := make(map[string][]model.ImageRecord)
	for _, rec := range records {
		cat := Category(rec)
		groups[cat] = append(groups[cat], rec)
	}
	return groups
}

// CategoryNames возвращает отсортированные уникальные категории файлов.
// Папки и версии файлов не учитываются.
func CategoryNames(records []model.ImageRecord) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, rec := range records {
		if !rec.IsFile() {
			continue
		}
		cat := Category(rec)
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		names = append(names, cat)
	}
	slices.Sort(names)
	return names
}

// InCategory возвращает записи указанной категории в исходном порядке.
func InCategory(records []model.ImageRecord, category string) []model.ImageRecord {
	result := make([]model.ImageRecord, 0)
	for _, rec := range records {
		if Category(rec) == category {
			result = append(result, rec)
		}
	}
	return result
}

// CoverFor возвращает обложку категории: первую запись из thumbnails,
// у которой customMetadata.app совпадает с app. nil, если обложки нет.
func CoverFor(thumbnails []model.ImageRecord, app string) *model.ImageRecord {
	for i := range thumbnails {
		if thumbnails[i].IsFile() && thumbnails[i].App() == app {
			cover := thumbnails[i]
			return &cover
		}
	}
	return nil
}
