package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelValidate(t *testing.T) {
	m := &Model{
		Name: "User",
		Properties: []*Property{
			{Name: "id", Type: Number, ID: true},
			{Name: "name", Type: String, Length: 64},
			{Name: "score", Type: Number, Precision: 10, Scale: 2, Nullable: true},
		},
	}
	require.NoError(t, m.Validate())

	assert.NotNil(t, m.LookupProperty("name"))
	assert.Nil(t, m.LookupProperty("ghost"))

	ids := m.PrimaryProperties()
	require.Len(t, ids, 1)
	assert.Equal(t, "id", ids[0].Name)
}

func TestModelValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  error
	}{
		{
			"empty name",
			Model{},
			ErrEmptyModelName,
		},
		{
			"unnamed property",
			Model{Name: "m", Properties: []*Property{{Type: String}}},
			ErrInvalidProperty,
		},
		{
			"duplicate property",
			Model{Name: "m", Properties: []*Property{
				{Name: "a", Type: String},
				{Name: "a", Type: Number},
			}},
			ErrInvalidProperty,
		},
		{
			"missing type",
			Model{Name: "m", Properties: []*Property{{Name: "a"}}},
			ErrInvalidProperty,
		},
		{
			"unknown type",
			Model{Name: "m", Properties: []*Property{{Name: "a", Type: "decimal"}}},
			ErrInvalidProperty,
		},
		{
			"nullable identifier",
			Model{Name: "m", Properties: []*Property{{Name: "id", Type: Number, ID: true, Nullable: true}}},
			ErrInvalidProperty,
		},
		{
			"length on boolean",
			Model{Name: "m", Properties: []*Property{{Name: "a", Type: Boolean, Length: 8}}},
			ErrInvalidProperty,
		},
		{
			"precision on string",
			Model{Name: "m", Properties: []*Property{{Name: "a", Type: String, Precision: 4}}},
			ErrInvalidProperty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestModelValidateIndexNameCollision(t *testing.T) {
	// a named index colliding with an implicit property index is rejected
	m := &Model{
		Name: "doc",
		Properties: []*Property{
			{Name: "title", Type: String, Index: true},
		},
		Indexes: []Index{
			{Name: "doc_title", Columns: "title"},
		},
	}
	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIndexName)
}

func TestDataTypeComposite(t *testing.T) {
	assert.True(t, JSON.Composite())
	assert.True(t, Object.Composite())
	assert.True(t, Array.Composite())
	assert.True(t, GeoPoint.Composite())
	assert.False(t, String.Composite())
	assert.False(t, Reference.Composite())
}
