// upload.go — multipart-загрузка файла напрямую в ImageKit Upload API.
// Приватный ключ не используется: запрос авторизуется публичным ключом
// и одноразовыми параметрами, выпущенными relay.
package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// Upload отправляет файл в ImageKit. Повторов нет: использованные
// параметры аутентификации повторно не применяются.
func (c *Client) Upload(ctx context.Context, upload model.UploadRequest) (*model.UploadResult, error) {
	body, contentType, err := encodeUploadForm(upload)
	if err != nil {
		return nil, fmt.Errorf("формирование multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Upload: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req, "upload")
	if err != nil {
		return nil, fmt.Errorf("запрос Upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Upload %s: %w", upload.FileName, readAPIError(resp))
	}

	var result model.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("декодирование ответа Upload: %w", err)
	}

	c.logger.Info("Файл загружен в ImageKit",
		slog.String("file_id", result.FileID),
		slog.String("file_path", result.FilePath),
	)
	return &result, nil
}

// encodeUploadForm собирает multipart-тело запроса загрузки.
// Поля: file, fileName, publicKey, token, expire, signature,
// useUniqueFileName, tags (через запятую), folder, customMetadata (JSON).
func encodeUploadForm(upload model.UploadRequest) (io.Reader, string, error) {
	if upload.File == nil {
		return nil, "", errors.New("файл не задан")
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	part, err := mw.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, upload.File); err != nil {
		return nil, "", fmt.Errorf("копирование файла: %w", err)
	}

	fields := [][2]string{
		{"fileName", upload.FileName},
		{"publicKey", upload.PublicKey},
		{"token", upload.Auth.Token},
		{"expire", strconv.FormatInt(upload.Auth.Expire, 10)},
		{"signature", upload.Auth.Signature},
		{"useUniqueFileName", strconv.FormatBool(upload.UseUniqueFileName)},
	}
	if tags := JoinTags(upload.Tags); tags != "" {
		fields = append(fields, [2]string{"tags", tags})
	}
	if upload.Folder != "" {
		fields = append(fields, [2]string{"folder", upload.Folder})
	}
	if upload.CustomMetadata != nil {
		meta, err := json.Marshal(upload.CustomMetadata)
		if err != nil {
			return nil, "", fmt.Errorf("кодирование customMetadata: %w", err)
		}
		fields = append(fields, [2]string{"customMetadata", string(meta)})
	}

	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf, mw.FormDataContentType(), nil
}

// JoinTags склеивает теги через запятую, отбрасывая пустые.
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			clean = append(clean, tag)
		}
	}
	return strings.Join(clean, ",")
}
