package model

import (
	"io"
	"time"
)

// AuthParams — одноразовые параметры аутентификации загрузки в ImageKit.
// Выпускаются на каждую попытку загрузки, не кэшируются и не переиспользуются.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// Expired сообщает, истёк ли срок действия параметров на момент now.
func (p AuthParams) Expired(now time.Time) bool {
	return now.Unix() >= p.Expire
}

// UploadMetadata — пользовательские метаданные загружаемого изображения.
type UploadMetadata struct {
	App   string `json:"app"`
	Title string `json:"title,omitempty"`
}

// UploadRequest — составной multipart-запрос загрузки напрямую в ImageKit.
type UploadRequest struct {
	// File — содержимое файла
	File io.Reader
	// FileName — имя файла у вендора
	FileName string
	// PublicKey — публичный ключ ImageKit
	PublicKey string
	// Auth — параметры, полученные от relay
	Auth AuthParams
	// UseUniqueFileName — добавлять уникальный суффикс к имени
	UseUniqueFileName bool
	// Tags — теги (передаются строкой через запятую)
	Tags []string
	// Folder — папка назначения (пусто = корень)
	Folder string
	// CustomMetadata — JSON-объект {app, title}; nil = не передавать
	CustomMetadata *UploadMetadata
}

// UploadResult — ответ ImageKit Upload API.
type UploadResult struct {
	FileID       string   `json:"fileId"`
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	FilePath     string   `json:"filePath"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Size         int64    `json:"size"`
	FileType     string   `json:"fileType"`
	Tags         []string `json:"tags"`
}

// FileMetadata — технические метаданные файла (GET /v1/files/{id}/metadata).
type FileMetadata struct {
	Height          int            `json:"height"`
	Width           int            `json:"width"`
	Size            int64          `json:"size"`
	Format          string         `json:"format"`
	HasColorProfile bool           `json:"hasColorProfile"`
	Quality         int            `json:"quality"`
	Density         int            `json:"density"`
	HasTransparency bool           `json:"hasTransparency"`
	PHash           string         `json:"pHash"`
	Exif            map[string]any `json:"exif,omitempty"`
}
