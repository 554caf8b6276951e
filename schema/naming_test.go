package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingStrategyTableName(t *testing.T) {
	ns := NamingStrategy{}
	assert.Equal(t, "user", ns.TableName("User"))
	assert.Equal(t, "user", ns.TableName(" user "))

	plural := NamingStrategy{PluralizeTableName: true}
	assert.Equal(t, "users", plural.TableName("User"))
	assert.Equal(t, "people", plural.TableName("Person"))

	prefixed := NamingStrategy{TablePrefix: "app_"}
	assert.Equal(t, "app_user", prefixed.TableName("User"))
}

func TestNamingStrategyColumnName(t *testing.T) {
	ns := NamingStrategy{}
	assert.Equal(t, "createdat", ns.ColumnName("user", "createdAt"))
	assert.Equal(t, "name", ns.ColumnName("user", " Name "))
}

func TestNamingStrategyIndexName(t *testing.T) {
	ns := NamingStrategy{}
	assert.Equal(t, "user_name", ns.IndexName("user", "Name"))
}
