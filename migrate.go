package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ormkit/sqlite/schema"
)

// migrationStep is one fallible statement in an ordered pipeline run under a
// single transaction scope.
type migrationStep struct {
	name string
	sql  string
}

// AutoMigrate brings the tables behind the named models in line with their
// current definitions, creating missing tables and rebuilding existing ones.
// Models are processed strictly sequentially: one model's transaction fully
// terminates before the next model's introspection begins. An unknown model
// name fails the call before any catalog I/O.
func (c *Connector) AutoMigrate(ctx context.Context, names ...string) error {
	models := make([]*schema.Model, 0, len(names))
	for _, name := range names {
		m, err := c.Model(name)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	for _, m := range models {
		if err := c.migrateModel(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connector) migrateModel(ctx context.Context, m *schema.Model) error {
	table := c.namer.TableName(m.Name)

	exists, err := c.HasTable(ctx, table)
	if err != nil {
		return fmt.Errorf("introspect %s: %w", table, err)
	}

	if exists {
		return c.alterTable(ctx, m, table)
	}
	return c.createTable(ctx, m, table)
}

// createTable creates the table and its indexes under one transaction. Any
// statement failure aborts the remaining statements and rolls back.
func (c *Connector) createTable(ctx context.Context, m *schema.Model, table string) error {
	createSQL, err := BuildCreateTable(m, c.namer)
	if err != nil {
		return err
	}

	steps := []migrationStep{{"create table " + table, createSQL}}
	for _, spec := range c.indexSpecs(ctx, m) {
		steps = append(steps, migrationStep{"create index " + spec.Name, BuildIndexSQL(spec)})
	}

	tx, err := c.BeginTransaction(ctx, Immediate)
	if err != nil {
		return err
	}
	if err := runSteps(ctx, tx, steps); err != nil {
		c.rollback(ctx, tx)
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return tx.Commit(ctx)
}

// alterTable rebuilds an existing table in place. The engine has no
// ALTER COLUMN primitive, so any shape change means: rename the live table
// aside, create a fresh one from the current definition, copy the surviving
// rows, drop the old table. One EXCLUSIVE transaction makes the window in
// which the table is absent under its real name invisible to every other
// connection, and a rollback undoes the rename on any failure.
func (c *Connector) alterTable(ctx context.Context, m *schema.Model, table string) error {
	oldTable := table + "_old"

	createSQL, err := BuildCreateTable(m, c.namer)
	if err != nil {
		return err
	}

	tx, err := c.BeginTransaction(ctx, Exclusive)
	if err != nil {
		return err
	}

	existing, err := columnTypes(ctx, tx, table)
	if err != nil {
		c.rollback(ctx, tx)
		return fmt.Errorf("introspect %s: %w", table, err)
	}
	live := make(map[string]bool, len(existing))
	for _, col := range existing {
		live[strings.ToLower(col.Name())] = true
	}

	// copy column list: the current model's properties in declaration order,
	// restricted to columns the old table actually has. A removed property
	// silently drops its column's data; an added property starts out NULL.
	var copied []string
	for _, p := range m.Properties {
		if col := c.namer.ColumnName(table, p.Name); live[col] {
			copied = append(copied, QuoteIdent(col))
		}
	}

	steps := []migrationStep{
		{"rename " + table, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", QuoteIdent(table), QuoteIdent(oldTable))},
		{"create " + table, createSQL},
	}
	if len(copied) > 0 {
		columnList := strings.Join(copied, ",")
		steps = append(steps, migrationStep{
			"copy rows", fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
				QuoteIdent(table), columnList, columnList, QuoteIdent(oldTable)),
		})
	}
	// the old table still owns the original index names; drop it before
	// recreating the indexes or IF NOT EXISTS would skip them
	steps = append(steps, migrationStep{"drop " + oldTable, "DROP TABLE " + QuoteIdent(oldTable)})
	for _, spec := range c.indexSpecs(ctx, m) {
		steps = append(steps, migrationStep{"create index " + spec.Name, BuildIndexSQL(spec)})
	}

	if err := runSteps(ctx, tx, steps); err != nil {
		c.rollback(ctx, tx)
		return fmt.Errorf("alter table %s: %w", table, err)
	}
	return tx.Commit(ctx)
}

// indexSpecs resolves a model's index declarations, logging a diagnostic for
// every named index whose column list cannot be resolved.
func (c *Connector) indexSpecs(ctx context.Context, m *schema.Model) []schema.IndexSpec {
	specs, skipped := BuildIndexSpecs(m, c.namer)
	for _, name := range skipped {
		c.logger.Warn(ctx, "skipping index %q on model %s: column list cannot be resolved", name, m.Name)
	}
	return specs
}

func runSteps(ctx context.Context, tx *Transaction, steps []migrationStep) error {
	for _, step := range steps {
		if _, err := tx.ExecSQL(ctx, step.sql); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (c *Connector) rollback(ctx context.Context, tx *Transaction) {
	if err := tx.Rollback(ctx); err != nil {
		c.logger.Error(ctx, "rollback failed: %v", err)
	}
}
