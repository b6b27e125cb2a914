package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileDocument коллекция в JSON-файле. Файл переписывается целиком через
// временный файл и rename, поэтому на диске всегда целая версия.
type FileDocument[T any] struct {
	mu      sync.Mutex
	path    string
	initial T
	data    []byte // последний успешно записанный снимок
}

// NewFileDocument открывает коллекцию по пути path. Если файла нет,
// используется initial; файл будет создан при первой записи.
func NewFileDocument[T any](path string, initial T) (*FileDocument[T], error) {
	d := &FileDocument[T]{
		path:    path,
		initial: initial,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Проверяем, что файл читается, до того как начнём его обслуживать
	if _, err := decode(data, initial); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	d.data = data

	return d, nil
}

// Path путь к файлу коллекции
func (d *FileDocument[T]) Path() string {
	return d.path
}

// Read возвращает копию текущего снимка
func (d *FileDocument[T]) Read(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	return decode(d.data, d.initial)
}

// Mutate применяет fn к копии снимка и атомарно переписывает файл
func (d *FileDocument[T]) Mutate(ctx context.Context, fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := decode(d.data, d.initial)
	if err != nil {
		return err
	}

	if err := fn(&value); err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := writeFileAtomic(d.path, data); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}

	// Снимок меняем только после успешной записи
	d.data = data
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
