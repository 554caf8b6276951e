package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Result is the normalized outcome of one statement: row-returning
// statements fill Rows, mutating statements fill Count and, for inserts,
// LastInsertID.
type Result struct {
	Rows         []map[string]interface{}
	Count        int64
	LastInsertID int64
}

// IsolationLevel selects the transaction mode requested from the engine.
type IsolationLevel string

const (
	// Deferred acquires locks lazily, on first use
	Deferred IsolationLevel = "DEFERRED"
	// Immediate reserves the write lock up front
	Immediate IsolationLevel = "IMMEDIATE"
	// Exclusive blocks every other reader and writer for the duration;
	// table alteration runs under it so the rename/recreate/copy/drop window
	// is invisible to concurrent connections
	Exclusive IsolationLevel = "EXCLUSIVE"
)

// conn is the execution surface shared by the pool and a transaction-scoped
// connection.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Transaction wraps exactly one live connection for the duration of one
// DDL/DML sequence. Commit and Rollback both release the connection
// unconditionally; a handle is never reused afterwards.
type Transaction struct {
	connector *Connector
	conn      *sql.Conn
	done      bool
}

// BeginTransaction opens a transaction in the requested isolation mode on a
// dedicated connection taken from the pool.
func (c *Connector) BeginTransaction(ctx context.Context, level IsolationLevel) (*Transaction, error) {
	if level == "" {
		level = Deferred
	}

	sqlConn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := sqlConn.ExecContext(ctx, "BEGIN "+string(level)); err != nil {
		sqlConn.Close()
		return nil, fmt.Errorf("begin %s transaction: %w", level, err)
	}

	return &Transaction{connector: c, conn: sqlConn}, nil
}

// Commit terminates the transaction and releases its connection. A failing
// COMMIT marks the connection bad so it is discarded instead of pooled.
func (tx *Transaction) Commit(ctx context.Context) error {
	return tx.finish(ctx, "COMMIT")
}

// Rollback undoes the transaction and releases its connection.
func (tx *Transaction) Rollback(ctx context.Context) error {
	return tx.finish(ctx, "ROLLBACK")
}

func (tx *Transaction) finish(ctx context.Context, stmt string) error {
	if tx.done {
		return ErrInvalidTransaction
	}
	tx.done = true

	_, err := tx.conn.ExecContext(ctx, stmt)
	if err != nil {
		// the terminal statement failing is a connection-health problem
		tx.conn.Raw(func(driverConn interface{}) error { return driver.ErrBadConn })
	}
	closeErr := tx.conn.Close()

	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(stmt), err)
	}
	if closeErr != nil && closeErr != sql.ErrConnDone {
		return closeErr
	}
	return nil
}

// ExecSQL runs a statement on the transaction's connection.
func (tx *Transaction) ExecSQL(ctx context.Context, query string, params ...interface{}) (*Result, error) {
	if tx.done {
		return nil, ErrInvalidTransaction
	}
	return execSQL(ctx, tx.connector, tx.conn, query, params)
}

// ExecSQL runs a statement on a pooled connection.
func (c *Connector) ExecSQL(ctx context.Context, query string, params ...interface{}) (*Result, error) {
	return execSQL(ctx, c, c.db, query, params)
}

func execSQL(ctx context.Context, c *Connector, runner conn, query string, params []interface{}) (result *Result, err error) {
	begin := time.Now()
	defer func() {
		c.logger.Trace(ctx, begin, func() (string, int64) {
			if result != nil && result.Rows == nil {
				return query, result.Count
			}
			return query, -1
		}, err)
	}()

	params = sanitizeParams(params)

	if returnsRows(query) {
		rows, queryErr := runner.QueryContext(ctx, query, params...)
		if queryErr != nil {
			err = annotateError(queryErr)
			return nil, err
		}
		defer rows.Close()

		mapped, scanErr := scanRows(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		result = &Result{Rows: mapped}
		return result, nil
	}

	res, execErr := runner.ExecContext(ctx, query, params...)
	if execErr != nil {
		err = annotateError(execErr)
		return nil, err
	}

	result = &Result{}
	if n, countErr := res.RowsAffected(); countErr == nil {
		result.Count = n
	}
	if id, idErr := res.LastInsertId(); idErr == nil {
		result.LastInsertID = id
	}
	return result, nil
}

// sanitizeParams replaces coercion sentinels so no invalid literal reaches
// the backend: both InvalidParam and DefaultGenerated bind as NULL.
func sanitizeParams(params []interface{}) []interface{} {
	for i, p := range params {
		switch p.(type) {
		case invalidParam, defaultGenerated:
			params[i] = nil
		}
	}
	return params
}

// returnsRows classifies a statement as row-returning versus mutating.
func returnsRows(query string) bool {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 6 {
		return false
	}
	switch strings.ToUpper(trimmed[:6]) {
	case "SELECT", "PRAGMA":
		return true
	}
	return false
}

// annotateError appends a recognizable marker to uniqueness violations so
// calling layers can detect duplicate-key conditions without parsing
// backend error codes.
func annotateError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY must be unique") {
		return fmt.Errorf("%v: %w", err, ErrDuplicateKey)
	}
	return err
}

// scanRows converts a row sequence to ordered column maps.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
