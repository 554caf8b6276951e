package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexResolveColumns(t *testing.T) {
	tests := []struct {
		name    string
		index   Index
		columns []string
		ok      bool
	}{
		{
			"keys list",
			Index{Keys: []string{"Title", " owner "}},
			[]string{"title", "owner"},
			true,
		},
		{
			"key map ordered by rank",
			Index{KeyMap: map[string]int{"b": 2, "a": 1, "c": 3}},
			[]string{"a", "b", "c"},
			true,
		},
		{
			"delimited columns",
			Index{Columns: "title, owner ,tag"},
			[]string{"title", "owner", "tag"},
			true,
		},
		{
			"keys win over columns",
			Index{Keys: []string{"a"}, Columns: "b,c"},
			[]string{"a"},
			true,
		},
		{
			"empty",
			Index{},
			nil,
			false,
		},
		{
			"blank entries only",
			Index{Columns: " , ,"},
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, ok := tt.index.ResolveColumns()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.columns, columns)
		})
	}
}
