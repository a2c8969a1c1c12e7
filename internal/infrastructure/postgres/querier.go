package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es la superficie común de *pgxpool.Pool y pgx.Tx: los repositorios
// funcionan igual fuera o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txBeginner lo implementan el pool y las conexiones (no las transacciones en curso).
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// snapshotOpts lectura consistente: conteo y página ven la misma foto de datos.
var snapshotOpts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// withSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura.
// Si q ya es una transacción, fn corre sobre ella.
func withSnapshot(ctx context.Context, q Querier, fn func(Querier) error) error {
	b, ok := q.(txBeginner)
	if !ok {
		return fn(q)
	}
	tx, err := b.BeginTx(ctx, snapshotOpts)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// psql builder con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// countAndPage ejecuta el conteo y la consulta paginada en la misma foto.
// scan recibe las filas de la página.
func countAndPage(ctx context.Context, q Querier, count, page sq.SelectBuilder, scan func(pgx.Rows) error) (int, error) {
	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build page: %w", err)
	}
	var total int
	err = withSnapshot(ctx, q, func(q Querier) error {
		if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		rows, err := q.Query(ctx, pageSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		defer rows.Close()
		if err := scan(rows); err != nil {
			return err
		}
		return rows.Err()
	})
	return total, err
}
