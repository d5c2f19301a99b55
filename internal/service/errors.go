package service

import "errors"

// Sentinel-ошибки сервисного слоя.
var (
	// ErrValidation — некорректные входные данные
	ErrValidation = errors.New("ошибка валидации")
	// ErrNotFound — файл не найден у вендора
	ErrNotFound = errors.New("не найдено")
)
