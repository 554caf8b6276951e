package schema

import (
	"sort"
	"strings"
)

// Index is a model-level named index declaration. Its column list may be
// supplied in one of three forms: a delimited Columns string
// ("col1,col2"), an ordered Keys list, or a KeyMap ranking columns by
// position. The forms are alternatives; the first non-empty one wins in the
// order Keys, KeyMap, Columns.
type Index struct {
	Name    string
	Columns string
	Keys    []string
	KeyMap  map[string]int
	Unique  bool
}

// IndexSpec is a fully resolved index ready for DDL generation.
type IndexSpec struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// ResolveColumns returns the index column list, lower-cased and trimmed, in
// declared order. ok is false when no usable column form was supplied.
func (idx Index) ResolveColumns() (columns []string, ok bool) {
	switch {
	case len(idx.Keys) > 0:
		for _, k := range idx.Keys {
			if k = normalizeColumn(k); k != "" {
				columns = append(columns, k)
			}
		}
	case len(idx.KeyMap) > 0:
		type ranked struct {
			name string
			rank int
		}
		rs := make([]ranked, 0, len(idx.KeyMap))
		for k, r := range idx.KeyMap {
			if k = normalizeColumn(k); k != "" {
				rs = append(rs, ranked{k, r})
			}
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].rank < rs[j].rank })
		for _, r := range rs {
			columns = append(columns, r.name)
		}
	case idx.Columns != "":
		for _, k := range strings.Split(idx.Columns, ",") {
			if k = normalizeColumn(k); k != "" {
				columns = append(columns, k)
			}
		}
	}

	return columns, len(columns) > 0
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
