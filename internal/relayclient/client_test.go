package relayclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestClient создаёт клиент к mock-серверу relay.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 5*time.Second, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// writeJSON отправляет JSON-ответ mock-сервера.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("not a url", time.Second, testLogger()); err == nil {
		t.Fatal("ожидалась ошибка для некорректного URL")
	}
}

func TestClient_ListImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/images" {
			t.Errorf("запрос = %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"fileId": "1", "name": "a.png", "type": "file", "customMetadata": map[string]any{"app": "Weather"}},
			{"fileId": "2", "name": "b.png", "type": "file", "tags": []string{"dark"}},
		})
	})

	records, err := c.ListImages(context.Background())
	if err != nil {
		t.Fatalf("ListImages ошибка: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("записей = %d, ожидалось 2", len(records))
	}
	if records[0].App() != "Weather" {
		t.Errorf("App() = %q, ожидался Weather", records[0].App())
	}
	if !records[1].HasTag("dark") {
		t.Error("тег dark потерян")
	}
}

func TestClient_ListThumbnailsAndNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/appthumbnails":
			writeJSON(w, http.StatusOK, []map[string]any{{"fileId": "t1", "url": "https://ik.imagekit.io/demo/thumbnail/Weather.jpg"}})
		case "/api/appnames":
			writeJSON(w, http.StatusOK, []string{"Notes", "Weather"})
		default:
			http.NotFound(w, r)
		}
	})

	thumbs, err := c.ListThumbnails(context.Background())
	if err != nil {
		t.Fatalf("ListThumbnails ошибка: %v", err)
	}
	if len(thumbs) != 1 || thumbs[0].FileID != "t1" {
		t.Errorf("обложки = %+v", thumbs)
	}

	names, err := c.ListCategoryNames(context.Background())
	if err != nil {
		t.Fatalf("ListCategoryNames ошибка: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Notes", "Weather"}) {
		t.Errorf("категории = %v", names)
	}
}

func TestClient_RefreshThumbnails(t *testing.T) {
	var gotCacheControl string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/appthumbnails" {
			t.Errorf("путь = %s", r.URL.Path)
		}
		gotCacheControl = r.Header.Get("Cache-Control")
		writeJSON(w, http.StatusOK, []map[string]any{{"fileId": "t2"}})
	})

	records, err := c.RefreshThumbnails(context.Background())
	if err != nil {
		t.Fatalf("RefreshThumbnails ошибка: %v", err)
	}
	if gotCacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q, ожидался no-cache", gotCacheControl)
	}
	if len(records) != 1 || records[0].FileID != "t2" {
		t.Errorf("записи = %v", records)
	}

	// Обычный листинг кэш не обходит
	if _, err := c.ListThumbnails(context.Background()); err != nil {
		t.Fatalf("ListThumbnails ошибка: %v", err)
	}
	if gotCacheControl != "" {
		t.Errorf("Cache-Control = %q, ожидалась пустая строка", gotCacheControl)
	}
}

func TestClient_ErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]string{"code": "INTERNAL_ERROR", "message": "ImageKit недоступен"},
		})
	})

	_, err := c.ListImages(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ожидалась *APIError, получено %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Code != "INTERNAL_ERROR" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.Message != "ImageKit недоступен" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_DeleteImage(t *testing.T) {
	var gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/images" {
			t.Errorf("запрос = %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			FileID string `json:"fileId"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("тело запроса: %v", err)
		}
		gotID = req.FileID
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	if err := c.DeleteImage(context.Background(), "file-42"); err != nil {
		t.Fatalf("DeleteImage ошибка: %v", err)
	}
	if gotID != "file-42" {
		t.Errorf("fileId = %q, ожидался file-42", gotID)
	}
}

func TestClient_DeleteImage_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "файл не найден"},
		})
	})

	err := c.DeleteImage(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestClient_MintAuthParams(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/imagekit" {
			t.Errorf("path = %q", r.URL.Path)
		}
		calls++
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok", "expire": 1655379000, "signature": "abc",
		})
	})

	params, err := c.MintAuthParams(context.Background())
	if err != nil {
		t.Fatalf("MintAuthParams ошибка: %v", err)
	}
	if params.Token != "tok" || params.Expire != 1655379000 || params.Signature != "abc" {
		t.Errorf("params = %+v", params)
	}

	// Без кэширования: каждый вызов идёт в relay
	_, _ = c.MintAuthParams(context.Background())
	if calls != 2 {
		t.Errorf("запросов = %d, ожидалось 2", calls)
	}
}

func TestClient_MintAuthParams_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	if _, err := c.MintAuthParams(context.Background()); err == nil {
		t.Fatal("ожидалась ошибка для пустых параметров")
	}
}

func TestClient_GetImageMetadata(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/images/file-1/metadata" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"width": 300, "height": 500, "format": "png"})
	})

	meta, err := c.GetImageMetadata(context.Background(), "file-1")
	if err != nil {
		t.Fatalf("GetImageMetadata ошибка: %v", err)
	}
	if meta.Width != 300 || meta.Height != 500 || meta.Format != "png" {
		t.Errorf("meta = %+v", meta)
	}
}
