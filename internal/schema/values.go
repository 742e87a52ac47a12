package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassifyValue maps one decoded attribute value to the SQL type tag it
// observes as, and reports whether the value counts as null.
func ClassifyValue(value any) (SQLType, bool) {
	switch value.(type) {
	case nil:
		return TypeUnknown, true
	case primitive.Null, primitive.Undefined:
		return TypeUnknown, true
	case bool:
		return TypeBoolean, false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger, false
	case float32, float64, primitive.Decimal128:
		return TypeNumeric, false
	case []byte, primitive.Binary:
		return TypeBinary, false
	case primitive.A, []any:
		return TypeArray, false
	case bson.M, bson.D, map[string]any:
		return TypeStruct, false
	case string, primitive.ObjectID, primitive.DateTime, primitive.Timestamp,
		primitive.Regex, primitive.JavaScript, primitive.Symbol, time.Time:
		return TypeVarchar, false
	default:
		// Anything else still round-trips as text.
		return TypeVarchar, false
	}
}
