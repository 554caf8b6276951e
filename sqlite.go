// Package sqlite exposes a SQLite backend through a generic object-relational
// adapter contract: schema synchronization, CRUD translation, transaction
// management, and type coercion between a dynamic data model and SQL column
// types.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ormkit/sqlite/logger"
	"github.com/ormkit/sqlite/schema"
)

// Config connector configuration
type Config struct {
	// DSN is the data source name passed to the driver; ":memory:" opens an
	// in-memory database
	DSN string
	// Logger receives operational messages and statement traces
	Logger logger.Interface
	// NamingStrategy maps model and property names to catalog identifiers
	NamingStrategy schema.Namer
	// MaxOpenConns/MaxIdleConns bound the pool. SQLite allows one writer, so
	// both default to 1; in-memory databases require it
	MaxOpenConns int
	MaxIdleConns int
}

// Connector owns one pool against a SQLite database and the models defined
// on it. It implements SchemaMigrator, TransactionManager and
// StatementExecutor.
type Connector struct {
	db     *sql.DB
	logger logger.Interface
	namer  schema.Namer
	models map[string]*schema.Model
}

// SchemaMigrator synchronizes model definitions with the live catalog.
type SchemaMigrator interface {
	Define(models ...*schema.Model) error
	AutoMigrate(ctx context.Context, names ...string) error
}

// TransactionManager opens connection-owning transaction handles.
type TransactionManager interface {
	BeginTransaction(ctx context.Context, level IsolationLevel) (*Transaction, error)
}

// StatementExecutor runs raw parameterized SQL and normalizes the outcome.
type StatementExecutor interface {
	ExecSQL(ctx context.Context, query string, params ...interface{}) (*Result, error)
}

var (
	_ SchemaMigrator     = (*Connector)(nil)
	_ TransactionManager = (*Connector)(nil)
	_ StatementExecutor  = (*Connector)(nil)
	_ StatementExecutor  = (*Transaction)(nil)
)

// Open initializes a connector with the given configuration.
func Open(config Config) (*Connector, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("sqlite: DSN required")
	}
	if config.Logger == nil {
		config.Logger = logger.Default
	}
	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{}
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 1
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 1
	}

	db, err := sql.Open("sqlite3", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", config.DSN, err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Connector{
		db:     db,
		logger: config.Logger,
		namer:  config.NamingStrategy,
		models: map[string]*schema.Model{},
	}, nil
}

// Define validates and registers model definitions. Registration is the one
// place attribute combinations are checked; migration and CRUD rely on the
// definitions being well formed.
func (c *Connector) Define(models ...*schema.Model) error {
	for _, m := range models {
		if err := m.Validate(); err != nil {
			return err
		}
		c.models[strings.ToLower(m.Name)] = m
	}
	return nil
}

// Model returns the registered model for a name, case-insensitively.
func (c *Connector) Model(name string) (*schema.Model, error) {
	m, ok := c.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return m, nil
}

// TableName returns the catalog identifier for a model name.
func (c *Connector) TableName(model string) string {
	return c.namer.TableName(model)
}

// Ping verifies the database is reachable.
func (c *Connector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the underlying pool.
func (c *Connector) Close() error {
	return c.db.Close()
}
