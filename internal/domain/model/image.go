// Пакет model — доменные модели pngshots.
// ImageRecord — запись файла в медиахранилище ImageKit (источник истины — вендор).
package model

import (
	"strings"
	"time"
)

// Типы записей, возвращаемых ImageKit List API.
const (
	// TypeFile — обычный файл (содержимое галереи)
	TypeFile = "file"
	// TypeFileVersion — версия файла
	TypeFileVersion = "file-version"
	// TypeFolder — папка
	TypeFolder = "folder"
)

// Ключи customMetadata, которые использует галерея.
const (
	MetaApp   = "app"
	MetaTitle = "title"
)

// ImageRecord — метаданные изображения и URL доставки.
// Система только читает записи; изменение метаданных на месте не поддерживается
// (перетегирование = удаление + повторная загрузка).
type ImageRecord struct {
	// FileID — уникальный идентификатор файла у вендора
	FileID string `json:"fileId"`
	// Name — отображаемое имя
	Name string `json:"name"`
	// FilePath — путь в хранилище (/thumbnail/weather.jpg)
	FilePath string `json:"filePath,omitempty"`
	// Type — file, file-version или folder
	Type string `json:"type"`
	// URL — абсолютный URL доставки через CDN
	URL string `json:"url,omitempty"`
	// Thumbnail — URL превью, сгенерированного вендором
	Thumbnail string `json:"thumbnail,omitempty"`
	// Width, Height — размеры в пикселях
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Size — размер в байтах
	Size int64 `json:"size,omitempty"`
	// FileType — image или non-image
	FileType string `json:"fileType,omitempty"`
	// Mime — MIME-тип
	Mime string `json:"mime,omitempty"`
	// Tags — свободные теги (порядок не важен)
	Tags []string `json:"tags"`
	// CustomMetadata — произвольные ключи, среди них app и title
	CustomMetadata map[string]any `json:"customMetadata,omitempty"`
	// IsPrivateFile — приватный файл (доставка по подписанному URL)
	IsPrivateFile bool `json:"isPrivateFile"`
	// CreatedAt, UpdatedAt — время создания и обновления (назначает вендор)
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFile сообщает, является ли запись файлом галереи.
func (r *ImageRecord) IsFile() bool {
	return r.Type == TypeFile
}

// App возвращает значение customMetadata.app без пробелов по краям.
// Нестроковое значение считается отсутствующим.
func (r *ImageRecord) App() string {
	return r.metaString(MetaApp)
}

// Title возвращает customMetadata.title.
func (r *ImageRecord) Title() string {
	return r.metaString(MetaTitle)
}

func (r *ImageRecord) metaString(key string) string {
	if r.CustomMetadata == nil {
		return ""
	}
	s, ok := r.CustomMetadata[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// HasTag проверяет наличие тега у записи. Теги записи сравниваются
// без окружающих пробелов.
func (r *ImageRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.TrimSpace(t) == tag {
			return true
		}
	}
	return false
}
