package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ormkit/sqlite/schema"
)

// Filter is an already-built filter/pagination descriptor supplied by the
// query-builder layer: a raw parameterized WHERE fragment plus positional
// parameters, optional ordering, and limit/offset. Limit and offset render
// as `LIMIT n OFFSET m` and are omitted entirely when both are zero.
type Filter struct {
	Where  string
	Params []interface{}
	Order  string
	Limit  int
	Offset int
}

func (f *Filter) render(sb *strings.Builder, params []interface{}) []interface{} {
	if f == nil {
		return params
	}
	if f.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(f.Where)
		params = append(params, f.Params...)
	}
	if f.Order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(f.Order)
	}
	if f.Limit > 0 || f.Offset > 0 {
		limit := f.Limit
		if limit <= 0 {
			limit = -1
		}
		fmt.Fprintf(sb, " LIMIT %d OFFSET %d", limit, f.Offset)
	}
	return params
}

// Insert translates one object row into an INSERT and returns the normalized
// result, including the generated identifier. Values pass through coercion;
// a missing identifier value leaves the column to the backend's generated
// value.
func (c *Connector) Insert(ctx context.Context, model string, data map[string]interface{}) (*Result, error) {
	m, err := c.Model(model)
	if err != nil {
		return nil, err
	}
	table := c.namer.TableName(m.Name)

	var columns []string
	var placeholders []string
	var params []interface{}

	add := func(p *schema.Property, name string, val interface{}) {
		coerced := ToColumnValue(p, val)
		if _, generated := coerced.(defaultGenerated); generated {
			return
		}
		columns = append(columns, QuoteIdent(c.namer.ColumnName(table, name)))
		placeholders = append(placeholders, "?")
		params = append(params, coerced)
	}

	seen := make(map[string]bool, len(data))
	for _, p := range m.Properties {
		if val, ok := data[p.Name]; ok {
			add(p, p.Name, val)
			seen[p.Name] = true
		}
	}

	// values with no matching descriptor pass through unchanged
	var rest []string
	for name := range data {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(nil, name, data[name])
	}

	if len(columns) == 0 {
		return c.ExecSQL(ctx, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", QuoteIdent(table)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(table), strings.Join(columns, ","), strings.Join(placeholders, ","))
	return c.ExecSQL(ctx, query, params...)
}

// Find returns the rows matching a filter as object rows, each column value
// translated back through coercion.
func (c *Connector) Find(ctx context.Context, model string, filter *Filter) ([]map[string]interface{}, error) {
	m, err := c.Model(model)
	if err != nil {
		return nil, err
	}
	table := c.namer.TableName(m.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s", QuoteIdent(table))
	params := filter.render(&sb, nil)

	result, err := c.ExecSQL(ctx, sb.String(), params...)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string]*schema.Property, len(m.Properties))
	for _, p := range m.Properties {
		byColumn[c.namer.ColumnName(table, p.Name)] = p
	}

	out := make([]map[string]interface{}, 0, len(result.Rows))
	for _, row := range result.Rows {
		obj := make(map[string]interface{}, len(row))
		for col, val := range row {
			if p := byColumn[col]; p != nil {
				obj[p.Name] = FromColumnValue(p, val)
			} else {
				obj[col] = val
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

// Update translates an object row into an UPDATE over the rows matching a
// filter and returns the affected-row count.
func (c *Connector) Update(ctx context.Context, model string, data map[string]interface{}, filter *Filter) (*Result, error) {
	m, err := c.Model(model)
	if err != nil {
		return nil, err
	}
	table := c.namer.TableName(m.Name)

	var sets []string
	var params []interface{}
	for _, p := range m.Properties {
		val, ok := data[p.Name]
		if !ok {
			continue
		}
		coerced := ToColumnValue(p, val)
		if _, generated := coerced.(defaultGenerated); generated {
			continue
		}
		sets = append(sets, QuoteIdent(c.namer.ColumnName(table, p.Name))+" = ?")
		params = append(params, coerced)
	}
	if len(sets) == 0 {
		return &Result{}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET %s", QuoteIdent(table), strings.Join(sets, ", "))
	params = filter.render(&sb, params)

	return c.ExecSQL(ctx, sb.String(), params...)
}

// Delete removes the rows matching a filter and returns the affected-row
// count.
func (c *Connector) Delete(ctx context.Context, model string, filter *Filter) (*Result, error) {
	m, err := c.Model(model)
	if err != nil {
		return nil, err
	}
	table := c.namer.TableName(m.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "DELETE FROM %s", QuoteIdent(table))
	params := filter.render(&sb, nil)

	return c.ExecSQL(ctx, sb.String(), params...)
}
