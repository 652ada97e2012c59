package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/btmxh/folio/internal/errs"
	_ "github.com/lib/pq"
)

var DB *sql.DB
var GenericError = errors.New("Unable to access database")

type Tx struct {
	ctx         context.Context
	transaction *sql.Tx
	handler     errs.ErrorHandler
	onCommit    []func()
}

func (tx *Tx) PublicError(statusCode int, err error) {
	tx.handler.PublicError(statusCode, err)
}

func (tx *Tx) PrivateError(err error) {
	tx.handler.PrivateError(err)
}

type QueryRow struct {
	row *sql.Row
	tx  *Tx
}

func InitDB(connStr string) error {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	conn.SetMaxOpenConns(16)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return err
	}

	DB = conn
	return nil
}

// SetDB replaces the connection pool, returning the previous one.
func SetDB(conn *sql.DB) *sql.DB {
	old := DB
	DB = conn
	return old
}

func DatabaseError(handler errs.ErrorHandler, err error) {
	handler.PrivateError(err)
	handler.PublicError(http.StatusInternalServerError, GenericError)
}

// BeginTx returns nil after reporting to handler if the transaction could not
// be started.
func BeginTx(ctx context.Context, handler errs.ErrorHandler) *Tx {
	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		DatabaseError(handler, err)
		return nil
	}

	return &Tx{ctx: ctx, transaction: tx, handler: handler}
}

func (tx *Tx) Exec(result *sql.Result, query string, args ...any) (hasErr bool) {
	res, err := tx.transaction.ExecContext(tx.ctx, query, args...)
	if err != nil {
		DatabaseError(tx.handler, err)
		return true
	}

	if result != nil {
		*result = res
	}

	return false
}

// ExecAffected runs query and reports whether any row was touched.
func (tx *Tx) ExecAffected(query string, args ...any) (affected bool, hasErr bool) {
	var result sql.Result
	if tx.Exec(&result, query, args...) {
		return false, true
	}

	n, err := result.RowsAffected()
	if err != nil {
		DatabaseError(tx.handler, err)
		return false, true
	}

	return n > 0, false
}

func (tx *Tx) Query(rows **sql.Rows, query string, args ...any) (hasErr bool) {
	r, err := tx.transaction.QueryContext(tx.ctx, query, args...)
	if err != nil {
		DatabaseError(tx.handler, err)
		return true
	}

	if rows != nil {
		*rows = r
	} else {
		r.Close()
	}

	return false
}

// ScanRows calls scan for every row, closing rows afterwards.
func (tx *Tx) ScanRows(rows *sql.Rows, scan func(rows *sql.Rows) error) (hasErr bool) {
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			DatabaseError(tx.handler, err)
			return true
		}
	}

	if err := rows.Err(); err != nil {
		DatabaseError(tx.handler, err)
		return true
	}

	return false
}

func (tx *Tx) QueryRow(query string, args ...any) *QueryRow {
	return &QueryRow{row: tx.transaction.QueryRowContext(tx.ctx, query, args...), tx: tx}
}

func (row *QueryRow) Scan(hasRow *bool, dest ...any) (hasErr bool) {
	err := row.row.Scan(dest...)
	hasErr = err != nil && (hasRow == nil || !errors.Is(err, sql.ErrNoRows))
	if hasErr {
		DatabaseError(row.tx.handler, err)
	}
	if hasRow != nil {
		*hasRow = err == nil
	}
	return hasErr
}

func (tx *Tx) Rollback() {
	if err := tx.transaction.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Warn("error while rolling back transaction", "err", err)
	}
}

// OnCommit registers f to run once the transaction has committed.
func (tx *Tx) OnCommit(f func()) {
	tx.onCommit = append(tx.onCommit, f)
}

func (tx *Tx) Commit() (hasErr bool) {
	err := tx.transaction.Commit()
	if err != nil {
		DatabaseError(tx.handler, err)
		return true
	}

	for _, f := range tx.onCommit {
		f()
	}
	tx.onCommit = nil
	return false
}

func CloseDB() {
	if DB == nil {
		return
	}

	if err := DB.Close(); err != nil {
		slog.Warn("error while closing database", "err", err)
	}
}
