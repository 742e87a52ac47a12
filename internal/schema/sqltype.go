package schema

// SQLType is the SQL-facing type tag a schemaless attribute resolves to.
type SQLType int

const (
	TypeUnknown SQLType = iota
	TypeBoolean
	TypeInteger
	TypeNumeric
	TypeBinary
	TypeArray
	TypeStruct
	TypeVarchar
)

const (
	// Documents are capped at 16MB, so text columns report that as their bound.
	varcharColumnSize = 16 * 1024 * 1024
	// Decimal128 carries 34 significant digits; plain numbers fit well within that.
	numericPrecision = 34
	integerPrecision = 20
	booleanSize      = 1
)

func (t SQLType) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeInteger:
		return "INTEGER"
	case TypeNumeric:
		return "NUMERIC"
	case TypeBinary:
		return "BINARY"
	case TypeArray:
		return "ARRAY"
	case TypeStruct:
		return "STRUCT"
	case TypeVarchar:
		return "VARCHAR"
	default:
		return "UNKNOWN"
	}
}

// flexibility orders types by how many observed values they can represent
// without loss. VARCHAR ranks highest: any value prints as text.
func (t SQLType) flexibility() int {
	switch t {
	case TypeBoolean:
		return 1
	case TypeInteger:
		return 2
	case TypeNumeric:
		return 3
	case TypeBinary:
		return 4
	case TypeArray, TypeStruct:
		return 5
	case TypeVarchar:
		return 6
	default:
		return 0
	}
}

// ColumnSize returns the declared storage size for a resolved type. Variable
// and composite types report 0, meaning unbounded.
func (t SQLType) ColumnSize() int {
	switch t {
	case TypeBoolean:
		return booleanSize
	case TypeInteger:
		return integerPrecision
	case TypeNumeric:
		return numericPrecision
	case TypeVarchar:
		return varcharColumnSize
	default:
		return 0
	}
}

// DecimalDigits returns the declared scale for a resolved type. Numbers are
// stored without a fixed decimal point, so even NUMERIC declares scale 0.
func (t SQLType) DecimalDigits() int {
	return 0
}
