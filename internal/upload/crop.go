package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

// JPEGQuality — качество перекодирования после кадрирования.
const JPEGQuality = 90

// Соотношение сторон рамки кадрирования скриншота (ширина:высота).
const (
	AspectWidth  = 3
	AspectHeight = 5
)

// CenteredCrop возвращает наибольшую область с соотношением сторон aw:ah,
// расположенную по центру изображения width×height.
func CenteredCrop(width, height, aw, ah int) image.Rectangle {
	if width <= 0 || height <= 0 || aw <= 0 || ah <= 0 {
		return image.Rectangle{}
	}

	w, h := width, width*ah/aw
	if h > height {
		h = height
		w = height * aw / ah
	}

	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// cropJPEG декодирует изображение, вырезает область rect (обрезанную по
// границам) и кодирует результат в JPEG.
func cropJPEG(data []byte, rect image.Rectangle) ([]byte, image.Rectangle, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("декодирование: %w", err)
	}

	area := rect.Add(img.Bounds().Min).Intersect(img.Bounds())
	if area.Empty() {
		return nil, image.Rectangle{}, errors.New("область кадрирования вне изображения")
	}

	// Копируем область в RGBA: у SubImage сохраняются исходные координаты
	dst := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(dst, dst.Bounds(), img, area.Min, draw.Src)

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("кодирование JPEG: %w", err)
	}
	return buf.Bytes(), dst.Bounds(), nil
}
