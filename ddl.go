package sqlite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jinzhu/now"

	"github.com/ormkit/sqlite/schema"
)

// nowMillisExpr computes the current time as milliseconds since epoch at
// insert time. julianday of the Unix epoch is 2440587.5.
const nowMillisExpr = "(CAST((julianday('now') - 2440587.5) * 86400000 AS INTEGER))"

// QuoteIdent escapes an identifier by wrapping it in double quotes and
// doubling internal double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// EscapeLiteral renders a string as a single-quoted SQL literal with internal
// single quotes doubled. hasBackslash flags values that need the backend's
// escape-string syntax applied by the caller.
func EscapeLiteral(value string) (literal string, hasBackslash bool) {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'", strings.Contains(value, `\`)
}

// ColumnSQLType derives the SQL type string for a property. An explicit
// ColumnType override wins, combined with the declared length when present.
func ColumnSQLType(p *schema.Property) string {
	if p.ColumnType != "" {
		if p.Length > 0 {
			return fmt.Sprintf("%s(%d)", p.ColumnType, p.Length)
		}
		return p.ColumnType
	}

	switch p.Type {
	case schema.Number:
		// INTEGER primary keys alias the rowid and auto-generate; everything
		// else stays REAL so fractional values are never truncated
		if p.ID {
			return "INTEGER"
		}
		return "REAL"
	case schema.Boolean:
		return "INTEGER"
	case schema.Date:
		// epoch milliseconds
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// BuildColumnDefinition renders one column of a CREATE TABLE statement:
// "<name>" <TYPE> [DEFAULT <lit>] [NOT NULL] [PRIMARY KEY]. inlinePK controls
// whether a single identifier property carries the PRIMARY KEY clause itself;
// composite keys are emitted as a table constraint instead.
func BuildColumnDefinition(p *schema.Property, ns schema.Namer, table string, inlinePK bool) (string, error) {
	parts := []string{QuoteIdent(ns.ColumnName(table, p.Name)), ColumnSQLType(p)}

	if p.Default != nil {
		clause, err := defaultClause(p)
		if err != nil {
			return "", err
		}
		if clause != "" {
			parts = append(parts, "DEFAULT "+clause)
		}
	}

	if !p.Nullable && !p.ID {
		parts = append(parts, "NOT NULL")
	}
	if p.ID && inlinePK {
		parts = append(parts, "PRIMARY KEY")
	}

	return strings.Join(parts, " "), nil
}

// defaultClause renders the DEFAULT literal for a property, type-checked
// against the declared property type rather than the literal's own shape.
func defaultClause(p *schema.Property) (string, error) {
	switch p.Type {
	case schema.Number:
		if n, ok := numericValue(p.Default); ok {
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		}
		return "", fmt.Errorf("%w %v for property %s", ErrInvalidNumericDefault, p.Default, p.Name)

	case schema.Boolean:
		switch v := ToColumnValue(p, p.Default).(type) {
		case int:
			return strconv.Itoa(v), nil
		}
		return "", fmt.Errorf("%w %v for property %s", ErrInvalidBooleanDefault, p.Default, p.Name)

	case schema.Date:
		if s, ok := p.Default.(string); ok {
			if strings.EqualFold(s, "now") {
				return nowMillisExpr, nil
			}
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				return s, nil
			}
			if t, err := now.Parse(s); err == nil {
				return strconv.FormatInt(t.UnixMilli(), 10), nil
			}
			return "", fmt.Errorf("%w %q for property %s", ErrInvalidDateDefault, s, p.Name)
		}
		if n, ok := numericValue(p.Default); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
		return "", fmt.Errorf("%w %v for property %s", ErrInvalidDateDefault, p.Default, p.Name)

	case schema.String, schema.Reference:
		lit, _ := EscapeLiteral(fmt.Sprint(p.Default))
		return lit, nil

	default:
		return "", fmt.Errorf("Default value for %s is not supported: %w", p.Type, ErrUnsupportedDefault)
	}
}

// BuildCreateTable renders the CREATE TABLE statement for a model, computed
// fresh from the model definition so the DDL always reflects its current
// shape.
func BuildCreateTable(m *schema.Model, ns schema.Namer) (string, error) {
	table := ns.TableName(m.Name)
	ids := m.PrimaryProperties()
	inlinePK := len(ids) == 1

	var columns []string
	for _, p := range m.Properties {
		col, err := BuildColumnDefinition(p, ns, table, inlinePK)
		if err != nil {
			return "", fmt.Errorf("model %s: %w", m.Name, err)
		}
		columns = append(columns, col)
	}

	if len(ids) > 1 {
		var pk []string
		for _, p := range ids {
			pk = append(pk, QuoteIdent(ns.ColumnName(table, p.Name)))
		}
		columns = append(columns, "PRIMARY KEY ("+strings.Join(pk, ",")+")")
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(table), strings.Join(columns, ", ")), nil
}

// BuildIndexSpecs merges the two index sources into one namespace: implicit
// per-property indexes named <table>_<property>, then model-level named
// indexes. Named indexes whose column list cannot be resolved are returned in
// skipped rather than failing the build. Identical column sets from the two
// sources are not de-duplicated.
func BuildIndexSpecs(m *schema.Model, ns schema.Namer) (specs []schema.IndexSpec, skipped []string) {
	table := ns.TableName(m.Name)

	for _, p := range m.Properties {
		if !p.Index {
			continue
		}
		specs = append(specs, schema.IndexSpec{
			Name:    ns.IndexName(table, p.Name),
			Table:   table,
			Columns: []string{ns.ColumnName(table, p.Name)},
		})
	}

	for _, idx := range m.Indexes {
		columns, ok := idx.ResolveColumns()
		if !ok {
			skipped = append(skipped, idx.Name)
			continue
		}
		name := idx.Name
		if name == "" && len(columns) > 0 {
			name = ns.IndexName(table, columns[0])
		}
		specs = append(specs, schema.IndexSpec{
			Name:    name,
			Table:   table,
			Columns: columns,
			Unique:  idx.Unique,
		})
	}

	return specs, skipped
}

// BuildIndexSQL renders the CREATE INDEX statement for a resolved spec.
func BuildIndexSQL(spec schema.IndexSpec) string {
	kind := "INDEX"
	if spec.Unique {
		kind = "UNIQUE INDEX"
	}
	quoted := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		quoted[i] = QuoteIdent(c)
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
		kind, QuoteIdent(spec.Name), QuoteIdent(spec.Table), strings.Join(quoted, ","))
}
