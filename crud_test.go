package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migratedUsers(t *testing.T) *Connector {
	t.Helper()
	c := newTestConnector(t)
	require.NoError(t, c.Define(userModel()))
	require.NoError(t, c.AutoMigrate(context.Background(), "user"))
	return c
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	result, err := c.Insert(ctx, "user", map[string]interface{}{
		"name":      "ann",
		"age":       30,
		"active":    "y",
		"createdAt": created,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, int64(1), result.LastInsertID)

	rows, err := c.Find(ctx, "user", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ann", row["name"])
	assert.Equal(t, float64(30), row["age"])
	assert.Equal(t, true, row["active"])
	assert.Equal(t, created.UnixMilli(), row["createdAt"].(time.Time).UnixMilli())
}

func TestInsert_GeneratesIdentifier(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	// an explicit nil identifier is left to the backend instead of binding NULL
	result, err := c.Insert(ctx, "user", map[string]interface{}{"id": nil, "name": "ann"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.LastInsertID)

	result, err = c.Insert(ctx, "user", map[string]interface{}{"name": "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.LastInsertID)
}

func TestInsert_InvalidValueBindsNull(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	_, err := c.Insert(ctx, "user", map[string]interface{}{"name": "ann", "age": "not a number"})
	require.NoError(t, err)

	rows, err := c.Find(ctx, "user", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["age"])
}

func TestFind_FilterAndPagination(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	for i, name := range []string{"ann", "bob", "cid", "dee"} {
		_, err := c.Insert(ctx, "user", map[string]interface{}{"name": name, "age": 20 + i})
		require.NoError(t, err)
	}

	rows, err := c.Find(ctx, "user", &Filter{
		Where:  `"age" >= ?`,
		Params: []interface{}{21},
		Order:  `"age" DESC`,
		Limit:  2,
		Offset: 1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cid", rows[0]["name"])
	assert.Equal(t, "bob", rows[1]["name"])
}

func TestFilter_Render(t *testing.T) {
	render := func(f *Filter) string {
		var sb strings.Builder
		f.render(&sb, nil)
		return sb.String()
	}

	assert.Equal(t, "", render(nil))
	assert.Equal(t, "", render(&Filter{}))
	assert.Equal(t, ` WHERE "a" = ?`, render(&Filter{Where: `"a" = ?`}))
	assert.Equal(t, ` ORDER BY "a" LIMIT 10 OFFSET 0`, render(&Filter{Order: `"a"`, Limit: 10}))
	// offset without limit still renders a valid clause
	assert.Equal(t, ` LIMIT -1 OFFSET 5`, render(&Filter{Offset: 5}))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	_, err := c.Insert(ctx, "user", map[string]interface{}{"name": "ann", "active": false})
	require.NoError(t, err)
	_, err = c.Insert(ctx, "user", map[string]interface{}{"name": "bob", "active": false})
	require.NoError(t, err)

	result, err := c.Update(ctx, "user", map[string]interface{}{"active": true},
		&Filter{Where: `"name" = ?`, Params: []interface{}{"ann"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	rows, err := c.Find(ctx, "user", &Filter{Where: `"active" = ?`, Params: []interface{}{1}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0]["name"])
}

func TestUpdate_NoKnownProperties(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	result, err := c.Update(ctx, "user", map[string]interface{}{"ghost": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Count)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := migratedUsers(t)

	_, err := c.Insert(ctx, "user", map[string]interface{}{"name": "ann"})
	require.NoError(t, err)
	_, err = c.Insert(ctx, "user", map[string]interface{}{"name": "bob"})
	require.NoError(t, err)

	result, err := c.Delete(ctx, "user", &Filter{Where: `"name" = ?`, Params: []interface{}{"ann"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)

	rows, err := c.Find(ctx, "user", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0]["name"])
}

func TestCRUD_UnknownModel(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t)

	_, err := c.Insert(ctx, "ghost", nil)
	assert.ErrorIs(t, err, ErrModelNotFound)
	_, err = c.Find(ctx, "ghost", nil)
	assert.ErrorIs(t, err, ErrModelNotFound)
	_, err = c.Update(ctx, "ghost", nil, nil)
	assert.ErrorIs(t, err, ErrModelNotFound)
	_, err = c.Delete(ctx, "ghost", nil)
	assert.ErrorIs(t, err, ErrModelNotFound)
}
