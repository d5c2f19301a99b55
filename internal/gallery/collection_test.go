package gallery

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// deleterFunc — адаптер функции к Deleter.
type deleterFunc func(ctx context.Context, fileID string) error

func (f deleterFunc) DeleteImage(ctx context.Context, fileID string) error {
	return f(ctx, fileID)
}

// TestCollection_RemoveFailureKeepsList проверяет, что неудачное удаление
// не меняет список.
func TestCollection_RemoveFailureKeepsList(t *testing.T) {
	records := []model.ImageRecord{rec("a", "X"), rec("b", "X")}
	c := NewCollection(records)

	errVendor := errors.New("404 not found")
	err := c.Remove(context.Background(), deleterFunc(func(_ context.Context, _ string) error {
		return errVendor
	}), "missing")

	if !errors.Is(err, errVendor) {
		t.Fatalf("ожидалась ошибка вендора, получено %v", err)
	}
	if !reflect.DeepEqual(ids(c.Records()), []string{"a", "b"}) {
		t.Errorf("Records = %v, ожидалось [a b]", ids(c.Records()))
	}
	if len(c.Pending()) != 0 {
		t.Errorf("Pending = %v, ожидался пустой", c.Pending())
	}
}

// TestCollection_RemoveThenReconcile проверяет двухфазное удаление.
func TestCollection_RemoveThenReconcile(t *testing.T) {
	c := NewCollection([]model.ImageRecord{rec("a", "X"), rec("b", "X"), rec("c", "Y")})

	var deleted string
	err := c.Remove(context.Background(), deleterFunc(func(_ context.Context, id string) error {
		deleted = id
		return nil
	}), "b")
	if err != nil {
		t.Fatalf("Remove ошибка: %v", err)
	}
	if deleted != "b" {
		t.Errorf("удалён %q, ожидался b", deleted)
	}
	if !reflect.DeepEqual(ids(c.Records()), []string{"a", "c"}) {
		t.Errorf("Records = %v, ожидалось [a c]", ids(c.Records()))
	}
	if !reflect.DeepEqual(c.Pending(), []string{"b"}) {
		t.Errorf("Pending = %v, ожидалось [b]", c.Pending())
	}

	// Вендор ещё возвращает b — запись остаётся скрытой
	c.Reconcile([]model.ImageRecord{rec("a", "X"), rec("b", "X"), rec("c", "Y"), rec("d", "Z")})
	if !reflect.DeepEqual(ids(c.Records()), []string{"a", "c", "d"}) {
		t.Errorf("Records = %v, ожидалось [a c d]", ids(c.Records()))
	}
	if len(c.Pending()) != 1 {
		t.Errorf("Pending = %v, ожидалось [b]", c.Pending())
	}

	// Вендор подтвердил удаление — пометка снимается
	c.Reconcile([]model.ImageRecord{rec("a", "X"), rec("c", "Y")})
	if len(c.Pending()) != 0 {
		t.Errorf("Pending = %v, ожидался пустой", c.Pending())
	}
	if !reflect.DeepEqual(ids(c.Records()), []string{"a", "c"}) {
		t.Errorf("Records = %v, ожидалось [a c]", ids(c.Records()))
	}
}

// TestCollection_RefreshErrorKeepsList проверяет сохранение последнего
// успешного списка при ошибке загрузки.
func TestCollection_RefreshErrorKeepsList(t *testing.T) {
	c := NewCollection([]model.ImageRecord{rec("a", "X")})
	loader := &mockLoader{
		listImagesFn: func(_ context.Context) ([]model.ImageRecord, error) {
			return nil, errors.New("timeout")
		},
	}

	if err := c.Refresh(context.Background(), loader); err == nil {
		t.Fatal("ожидалась ошибка")
	}
	if !reflect.DeepEqual(ids(c.Records()), []string{"a"}) {
		t.Errorf("Records = %v, ожидалось [a]", ids(c.Records()))
	}

	loader.listImagesFn = func(_ context.Context) ([]model.ImageRecord, error) {
		return []model.ImageRecord{rec("b", "Y")}, nil
	}
	if err := c.Refresh(context.Background(), loader); err != nil {
		t.Fatalf("Refresh ошибка: %v", err)
	}
	if !reflect.DeepEqual(ids(c.Records()), []string{"b"}) {
		t.Errorf("Records = %v, ожидалось [b]", ids(c.Records()))
	}
}
