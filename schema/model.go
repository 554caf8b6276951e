package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyModelName model name required
	ErrEmptyModelName = errors.New("model name required")
	// ErrInvalidProperty invalid property definition
	ErrInvalidProperty = errors.New("invalid property definition")
	// ErrDuplicateIndexName index names must be unique per table
	ErrDuplicateIndexName = errors.New("duplicate index name")
)

// Model is the declared shape of one entity type, supplied by the model
// registry and immutable for the duration of a migration. Properties keep
// their declaration order; Indexes holds the model-level named indexes.
type Model struct {
	Name       string
	Properties []*Property
	Indexes    []Index

	propsByName map[string]*Property
}

// Validate checks the model definition once, at registration time, so DDL
// generation never has to re-check attribute combinations ad hoc.
func (m *Model) Validate() error {
	if m.Name == "" {
		return ErrEmptyModelName
	}

	m.propsByName = make(map[string]*Property, len(m.Properties))
	for _, p := range m.Properties {
		if p.Name == "" {
			return fmt.Errorf("%w: model %s has a property without a name", ErrInvalidProperty, m.Name)
		}
		if _, ok := m.propsByName[p.Name]; ok {
			return fmt.Errorf("%w: model %s declares property %s twice", ErrInvalidProperty, m.Name, p.Name)
		}

		switch p.Type {
		case String, Number, Boolean, Date, JSON, Object, Array, GeoPoint, Reference:
		case "":
			return fmt.Errorf("%w: model %s property %s has no type", ErrInvalidProperty, m.Name, p.Name)
		default:
			return fmt.Errorf("%w: model %s property %s has unknown type %q", ErrInvalidProperty, m.Name, p.Name, p.Type)
		}

		// identifier properties form the primary key and can never be NULL
		if p.ID && p.Nullable {
			return fmt.Errorf("%w: model %s identifier property %s cannot be nullable", ErrInvalidProperty, m.Name, p.Name)
		}

		if p.Length != 0 && p.Type != String && p.Type != Number {
			return fmt.Errorf("%w: model %s property %s: length applies to string and number only", ErrInvalidProperty, m.Name, p.Name)
		}
		if (p.Precision != 0 || p.Scale != 0) && p.Type != Number {
			return fmt.Errorf("%w: model %s property %s: precision/scale apply to number only", ErrInvalidProperty, m.Name, p.Name)
		}

		m.propsByName[p.Name] = p
	}

	return m.validateIndexNames()
}

// validateIndexNames checks that implicit property indexes and named indexes
// share one namespace without collisions. Indexes covering the same column
// set are still distinct entries; de-duplication is out of scope.
func (m *Model) validateIndexNames() error {
	ns := NamingStrategy{}
	table := ns.TableName(m.Name)

	seen := map[string]bool{}
	for _, p := range m.Properties {
		if p.Index {
			name := ns.IndexName(table, p.Name)
			if seen[name] {
				return fmt.Errorf("%w: %s on table %s", ErrDuplicateIndexName, name, table)
			}
			seen[name] = true
		}
	}
	for _, idx := range m.Indexes {
		if idx.Name == "" {
			continue
		}
		if seen[idx.Name] {
			return fmt.Errorf("%w: %s on table %s", ErrDuplicateIndexName, idx.Name, table)
		}
		seen[idx.Name] = true
	}
	return nil
}

// LookupProperty returns the property with the given name, or nil.
func (m *Model) LookupProperty(name string) *Property {
	if m.propsByName != nil {
		return m.propsByName[name]
	}
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PrimaryProperties returns the identifier properties in declaration order.
func (m *Model) PrimaryProperties() []*Property {
	var ids []*Property
	for _, p := range m.Properties {
		if p.ID {
			ids = append(ids, p)
		}
	}
	return ids
}
