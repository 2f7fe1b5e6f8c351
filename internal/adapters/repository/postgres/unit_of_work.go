package postgres

import (
	"context"
	"database/sql"
	"media-vault/internal/core/port"
)

// SQLQuerier is the subset of *sql.DB / *sql.Tx the repositories need
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUnitOfWork creates a unit of work over db
func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) VideoRepo() port.VideoRepository {
	return NewSQLVideoRepository(u.querier())
}

func (u *sqlUnitOfWork) EventLogRepo() port.EventLogRepository {
	return NewSQLEventLogRepository(u.querier())
}

// Execute runs fn inside a transaction. Nested calls reuse the outer
// transaction.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
