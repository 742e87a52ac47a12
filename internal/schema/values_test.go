package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docql/docql/internal/schema"
)

func TestClassifyValue(t *testing.T) {
	decimal, err := primitive.ParseDecimal128("12.50")
	assert.NoError(t, err)

	cases := []struct {
		name    string
		value   any
		sqlType schema.SQLType
	}{
		{"bool", true, schema.TypeBoolean},
		{"int32", int32(7), schema.TypeInteger},
		{"int64", int64(7), schema.TypeInteger},
		{"float64", 2.5, schema.TypeNumeric},
		{"decimal128", decimal, schema.TypeNumeric},
		{"binary", primitive.Binary{Data: []byte{0x01}}, schema.TypeBinary},
		{"bytes", []byte{0x01}, schema.TypeBinary},
		{"array", primitive.A{int32(1), "x"}, schema.TypeArray},
		{"plain slice", []any{1, 2}, schema.TypeArray},
		{"document", bson.M{"nested": true}, schema.TypeStruct},
		{"ordered document", bson.D{{Key: "nested", Value: true}}, schema.TypeStruct},
		{"string", "hello", schema.TypeVarchar},
		{"object id", primitive.NewObjectID(), schema.TypeVarchar},
		{"datetime", primitive.NewDateTimeFromTime(time.Now()), schema.TypeVarchar},
		{"time", time.Now(), schema.TypeVarchar},
		{"regex", primitive.Regex{Pattern: "^a"}, schema.TypeVarchar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sqlType, isNull := schema.ClassifyValue(tc.value)
			assert.False(t, isNull)
			assert.Equal(t, tc.sqlType, sqlType)
		})
	}
}

func TestClassifyValueNulls(t *testing.T) {
	for _, value := range []any{nil, primitive.Null{}, primitive.Undefined{}} {
		_, isNull := schema.ClassifyValue(value)
		assert.True(t, isNull)
	}
}

func TestSnapshotDescribe(t *testing.T) {
	amount := schema.NewColumnMetadata("orders", "amount")
	amount.RecordObservation(schema.TypeInteger, false)
	amount.RecordObservation(schema.TypeNumeric, false)

	id := schema.NewColumnMetadata("orders", "_id")
	id.RecordObservation(schema.TypeVarchar, false)

	snapshot := schema.Snapshot{"amount": amount, "_id": id}
	descriptors := snapshot.Describe()

	assert.Len(t, descriptors, 2)
	assert.Equal(t, "_id", descriptors[0].Name, "descriptors sort by column name")

	got := descriptors[1]
	assert.Equal(t, "amount", got.Name)
	assert.Equal(t, schema.TypeNumeric, got.SQLType)
	assert.Equal(t, "NUMERIC", got.TypeName)
	assert.Equal(t, 34, got.ColumnSize)
	assert.Zero(t, got.DecimalDigits)
	assert.True(t, got.HasConflict)
	assert.InDelta(t, 0.5, got.Confidence, 0.001)
	assert.False(t, got.Nullable)
}
