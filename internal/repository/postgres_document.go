package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/timeslot_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocument коллекция в строке таблицы documents (JSONB).
// Mutate берёт блокировку строки (SELECT ... FOR UPDATE), поэтому
// несколько процессов бота на одной базе не перетирают друг друга.
type PostgresDocument[T any] struct {
	*base.Repository
	name    string
	initial T
}

func NewPostgresDocument[T any](pool *pgxpool.Pool, name string, initial T) *PostgresDocument[T] {
	return &PostgresDocument[T]{
		Repository: base.NewRepository(pool),
		name:       name,
		initial:    initial,
	}
}

// Read возвращает текущий снимок коллекции
func (d *PostgresDocument[T]) Read(ctx context.Context) (T, error) {
	query := `SELECT body FROM documents WHERE name = $1`

	var body []byte
	err := d.Pool().QueryRow(ctx, query, d.name).Scan(&body)
	if err != nil {
		if base.IsNotFound(err) {
			return cloneValue(d.initial)
		}
		var zero T
		return zero, fmt.Errorf("read document %s: %w", d.name, err)
	}

	return decode(body, d.initial)
}

// Mutate применяет fn под блокировкой строки и переписывает body целиком
func (d *PostgresDocument[T]) Mutate(ctx context.Context, fn func(*T) error) error {
	return d.WithTx(ctx, func(tx pgx.Tx) error {
		// Строка должна существовать, иначе FOR UPDATE нечего блокировать
		initialBody, err := json.Marshal(d.initial)
		if err != nil {
			return fmt.Errorf("encode initial document: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO documents (name, body)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, d.name, initialBody)
		if err != nil {
			return fmt.Errorf("ensure document %s: %w", d.name, err)
		}

		var body []byte
		err = tx.QueryRow(ctx, `SELECT body FROM documents WHERE name = $1 FOR UPDATE`, d.name).Scan(&body)
		if err != nil {
			return fmt.Errorf("lock document %s: %w", d.name, err)
		}

		value, err := decode(body, d.initial)
		if err != nil {
			return err
		}

		if err := fn(&value); err != nil {
			return err
		}

		newBody, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE documents
			SET body = $2, updated_at = NOW()
			WHERE name = $1
		`, d.name, newBody)
		if err != nil {
			return fmt.Errorf("update document %s: %w", d.name, err)
		}

		return nil
	})
}
