package imagekit

import (
	"strconv"
	"strings"
)

// DefaultQuality — качество трансформации по умолчанию.
const DefaultQuality = 80

// Transform — параметры URL-трансформации. Нулевые значения не передаются,
// кроме Quality (0 — DefaultQuality).
type Transform struct {
	Width   int
	Height  int
	Quality int
}

// TransformedURL добавляет к URL доставки дескриптор трансформации:
// base?tr=q-80,w-400,h-300. Сетевых вызовов нет.
func TransformedURL(base string, t Transform) string {
	quality := t.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	parts := []string{"q-" + strconv.Itoa(quality)}
	if t.Width > 0 {
		parts = append(parts, "w-"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h-"+strconv.Itoa(t.Height))
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "tr=" + strings.Join(parts, ",")
}

// PreviewURL — превью для сетки галереи (ширина 400, качество 80).
func PreviewURL(base string) string {
	return TransformedURL(base, Transform{Width: 400, Quality: DefaultQuality})
}
