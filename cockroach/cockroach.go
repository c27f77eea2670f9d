package cockroach

import (
	"context"
	"embed"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nicolasparada/go-db"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

const (
	maxTxAttempts   = 5
	txRetryInterval = 20 * time.Millisecond
)

type Cockroach struct {
	db *db.DB
}

func New(pool *pgxpool.Pool) *Cockroach {
	return &Cockroach{
		db: db.New(pool),
	}
}

// runTx runs fn in a transaction and retries it with exponential backoff
// when the transaction is aborted with a serialization failure.
// The transaction travels in ctx, so crdb.ExecuteTx cannot wrap it.
func (c *Cockroach) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return retrySerializable(ctx, func() error {
		return c.db.RunTx(ctx, fn)
	})
}

func retrySerializable(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff(backoff.WithInitialInterval(txRetryInterval))
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isRetryError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxTxAttempts-1), ctx))
}

func isRetryError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func where(filters []string) string {
	if len(filters) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(filters, " AND ") + " "
}
