package schema

// DataType semantic property type
type DataType string

const (
	String   DataType = "string"
	Number   DataType = "number"
	Boolean  DataType = "boolean"
	Date     DataType = "date"
	JSON     DataType = "json"
	Object   DataType = "object"
	Array    DataType = "array"
	GeoPoint DataType = "geopoint"
	// Reference points at another model and is stored as opaque text
	Reference DataType = "reference"
)

// Composite reports whether values of the type are stored as serialized structures.
func (dt DataType) Composite() bool {
	switch dt {
	case JSON, Object, Array, GeoPoint:
		return true
	}
	return false
}

// Property is the declared shape of one model property. Only the attributes
// valid for its Type may be set; Model.Validate enforces that once at
// registration time.
type Property struct {
	Name     string
	Type     DataType
	ID       bool
	Nullable bool

	// Length applies to String and Number, Precision/Scale to Number only
	Length    int
	Precision int
	Scale     int

	// Index requests an implicit single-column index named <table>_<property>
	Index bool

	// ColumnType overrides the inferred SQL type, Default supplies an
	// explicit DEFAULT literal for the column
	ColumnType string
	Default    interface{}
}
