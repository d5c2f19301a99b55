// Пакет workflow — конечный автомат формы загрузки изображения.
//
// Основной путь:
//
//	idle → file-selected → cropping → ready-to-submit → uploading → success | failed
//
// Возвраты: success → idle (сброс формы), failed → uploading (ручной повтор),
// failed → idle и любое состояние до uploading → idle (отмена).
//
// Потокобезопасен через sync.RWMutex.
package workflow

import (
	"fmt"
	"sync"
	"time"
)

// State — состояние формы загрузки.
type State string

const (
	// StateIdle — форма пуста
	StateIdle State = "idle"
	// StateFileSelected — файл выбран, превью строится
	StateFileSelected State = "file-selected"
	// StateCropping — ожидание подтверждения области кадрирования
	StateCropping State = "cropping"
	// StateReadyToSubmit — кадр подтверждён, можно отправлять
	StateReadyToSubmit State = "ready-to-submit"
	// StateUploading — загрузка в процессе
	StateUploading State = "uploading"
	// StateSuccess — загрузка завершена
	StateSuccess State = "success"
	// StateFailed — загрузка завершилась ошибкой
	StateFailed State = "failed"
)

// Коды ошибок переходов.
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUploadInProgress  = "UPLOAD_IN_PROGRESS"
)

// TransitionRecord — запись о переходе между состояниями.
type TransitionRecord struct {
	From      State     `json:"from"`
	To        State     `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// StateMachine — конечный автомат формы загрузки.
type StateMachine struct {
	mu      sync.RWMutex
	current State
	history []TransitionRecord
}

// validTransitions — матрица допустимых переходов.
var validTransitions = map[State]map[State]bool{
	StateIdle:          {StateFileSelected: true},
	StateFileSelected:  {StateCropping: true, StateIdle: true},
	StateCropping:      {StateReadyToSubmit: true, StateIdle: true},
	StateReadyToSubmit: {StateUploading: true, StateIdle: true},
	StateUploading:     {StateSuccess: true, StateFailed: true},
	StateSuccess:       {StateIdle: true},
	StateFailed:        {StateUploading: true, StateIdle: true},
}

// NewStateMachine создаёт автомат в состоянии idle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		history: make([]TransitionRecord, 0),
	}
}

// Current возвращает текущее состояние.
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// CanTransitionTo проверяет, допустим ли переход в указанное состояние.
func (sm *StateMachine) CanTransitionTo(target State) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return validTransitions[sm.current][target]
}

// TransitionTo выполняет переход в указанное состояние.
//
// Ошибки:
//   - UPLOAD_IN_PROGRESS — попытка выйти из uploading куда-либо, кроме success/failed
//   - INVALID_TRANSITION — переход недопустим
func (sm *StateMachine) TransitionTo(target State) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !isValidState(target) {
		return &TransitionError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("недопустимое целевое состояние: %q", target),
		}
	}

	if !validTransitions[sm.current][target] {
		code := CodeInvalidTransition
		if sm.current == StateUploading {
			code = CodeUploadInProgress
		}
		return &TransitionError{
			Code:    code,
			Message: fmt.Sprintf("переход %s → %s недопустим", sm.current, target),
		}
	}

	sm.history = append(sm.history, TransitionRecord{
		From:      sm.current,
		To:        target,
		Timestamp: time.Now().UTC(),
	})
	sm.current = target

	return nil
}

// Reset возвращает автомат в idle, если это допустимо из текущего состояния.
// Из idle — no-op.
func (sm *StateMachine) Reset() error {
	if sm.Current() == StateIdle {
		return nil
	}
	return sm.TransitionTo(StateIdle)
}

// History возвращает историю переходов (копия).
func (sm *StateMachine) History() []TransitionRecord {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make([]TransitionRecord, len(sm.history))
	copy(result, sm.history)
	return result
}

// TransitionError — ошибка перехода между состояниями.
type TransitionError struct {
	Code    string // Машиночитаемый код (INVALID_TRANSITION, UPLOAD_IN_PROGRESS)
	Message string // Человекочитаемое описание
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// isValidState проверяет, является ли строка допустимым состоянием.
func isValidState(s State) bool {
	_, ok := validTransitions[s]
	return ok
}
