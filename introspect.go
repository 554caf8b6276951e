package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ColumnType describes one column of a live table, as reported by the
// catalog.
type ColumnType struct {
	NameValue         sql.NullString
	DataTypeValue     sql.NullString
	NullableValue     sql.NullBool
	DefaultValueValue sql.NullString
	PrimaryKeyValue   sql.NullBool
}

// Name returns the column name.
func (ct ColumnType) Name() string {
	return ct.NameValue.String
}

// DatabaseTypeName returns the database system name of the column type.
func (ct ColumnType) DatabaseTypeName() string {
	return ct.DataTypeValue.String
}

// Nullable reports whether the column may be null.
func (ct ColumnType) Nullable() (nullable bool, ok bool) {
	return ct.NullableValue.Bool, ct.NullableValue.Valid
}

// PrimaryKey reports whether the column is part of the primary key.
func (ct ColumnType) PrimaryKey() (isPrimaryKey bool, ok bool) {
	return ct.PrimaryKeyValue.Bool, ct.PrimaryKeyValue.Valid
}

// DefaultValue returns the default value of the column.
func (ct ColumnType) DefaultValue() (value string, ok bool) {
	return ct.DefaultValueValue.String, ct.DefaultValueValue.Valid
}

// IndexInfo describes one index of a live table and the columns it covers.
type IndexInfo struct {
	TableName   string
	NameValue   string
	ColumnList  []string
	UniqueValue sql.NullBool
}

// Table returns the table name of the index.
func (idx IndexInfo) Table() string { return idx.TableName }

// Name returns the name of the index.
func (idx IndexInfo) Name() string { return idx.NameValue }

// Columns returns the columns of the index.
func (idx IndexInfo) Columns() []string { return idx.ColumnList }

// Unique reports whether the index is unique.
func (idx IndexInfo) Unique() (unique bool, ok bool) {
	return idx.UniqueValue.Bool, idx.UniqueValue.Valid
}

// HasTable reports whether a table with the given name exists.
func (c *Connector) HasTable(ctx context.Context, table string) (bool, error) {
	result, err := c.ExecSQL(ctx, "SELECT count(*) AS count FROM sqlite_master WHERE type='table' AND name=?", table)
	if err != nil {
		return false, err
	}
	return len(result.Rows) > 0 && asInt64(result.Rows[0]["count"]) > 0, nil
}

// TableNames lists the user tables in the catalog.
func (c *Connector) TableNames(ctx context.Context) ([]string, error) {
	result, err := c.ExecSQL(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		names = append(names, asString(row["name"]))
	}
	return names, nil
}

// ColumnTypes lists the columns of a table with type, nullability, primary
// key membership and default.
func (c *Connector) ColumnTypes(ctx context.Context, table string) ([]ColumnType, error) {
	return columnTypes(ctx, c, table)
}

// columnTypes runs against any execution surface so the migration engine can
// introspect inside its own transaction.
func columnTypes(ctx context.Context, runner StatementExecutor, table string) ([]ColumnType, error) {
	result, err := runner.ExecSQL(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnType, 0, len(result.Rows))
	for _, row := range result.Rows {
		ct := ColumnType{
			NameValue:       sql.NullString{String: asString(row["name"]), Valid: true},
			DataTypeValue:   sql.NullString{String: asString(row["type"]), Valid: true},
			NullableValue:   sql.NullBool{Bool: asInt64(row["notnull"]) == 0, Valid: true},
			PrimaryKeyValue: sql.NullBool{Bool: asInt64(row["pk"]) > 0, Valid: true},
		}
		if row["dflt_value"] != nil {
			ct.DefaultValueValue = sql.NullString{String: asString(row["dflt_value"]), Valid: true}
		}
		columns = append(columns, ct)
	}
	return columns, nil
}

// Indexes lists the indexes of a table and the columns each covers.
func (c *Connector) Indexes(ctx context.Context, table string) ([]IndexInfo, error) {
	result, err := c.ExecSQL(ctx, fmt.Sprintf("PRAGMA index_list(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, err
	}

	indexes := make([]IndexInfo, 0, len(result.Rows))
	for _, row := range result.Rows {
		idx := IndexInfo{
			TableName:   table,
			NameValue:   asString(row["name"]),
			UniqueValue: sql.NullBool{Bool: asInt64(row["unique"]) == 1, Valid: true},
		}

		info, err := c.ExecSQL(ctx, fmt.Sprintf("PRAGMA index_info(%s)", QuoteIdent(idx.NameValue)))
		if err != nil {
			return nil, err
		}
		for _, col := range info.Rows {
			idx.ColumnList = append(idx.ColumnList, asString(col["name"]))
		}

		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func asInt64(v interface{}) int64 {
	if n, ok := numericValue(v); ok {
		return int64(n)
	}
	return 0
}
