package schema

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// Namer namer interface
type Namer interface {
	TableName(model string) string
	ColumnName(table, column string) string
	IndexName(table, column string) string
}

// NamingStrategy tables, columns naming strategy. The zero value maps a model
// name to its lower-cased singular form, which is the contract the catalog
// relies on: naming is case-insensitive at the application level and always
// lower-cased before touching the database.
type NamingStrategy struct {
	TablePrefix        string
	PluralizeTableName bool
}

// TableName convert model name to table name
func (ns NamingStrategy) TableName(model string) string {
	name := strings.ToLower(strings.TrimSpace(model))
	if ns.PluralizeTableName {
		name = inflection.Plural(name)
	}
	return ns.TablePrefix + name
}

// ColumnName convert property name to column name
func (ns NamingStrategy) ColumnName(table, column string) string {
	return strings.ToLower(strings.TrimSpace(column))
}

// IndexName generate index name for a single-column property index
func (ns NamingStrategy) IndexName(table, column string) string {
	return fmt.Sprintf("%s_%s", table, ns.ColumnName(table, column))
}
