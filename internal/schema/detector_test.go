package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docql/docql/internal/schema"
	"github.com/docql/docql/pkg/logger"
)

func newDetector(store schema.Store, mode schema.DiscoveryMode) *schema.Detector {
	return schema.NewDetector(store, schema.DiscoveryConfig{Mode: mode}, logger.Discard())
}

func indexedTable(name string) *schema.TableDescription {
	return &schema.TableDescription{
		Name:      name,
		KeySchema: []schema.KeyElement{{Name: "_id", Type: schema.TypeVarchar}},
		SecondaryIndexes: []schema.IndexDescription{
			{Name: "by_user", KeySchema: []schema.KeyElement{{Name: "user_id", Type: schema.TypeVarchar}}},
		},
		ApproxItemCount: 1000,
	}
}

func plainTable(name string, count int64) *schema.TableDescription {
	return &schema.TableDescription{
		Name:            name,
		KeySchema:       []schema.KeyElement{{Name: "_id", Type: schema.TypeVarchar}},
		ApproxItemCount: count,
	}
}

func TestDisabledModeValidatesExistenceOnly(t *testing.T) {
	store := newFakeStore()
	store.addTable(indexedTable("orders"),
		schema.Item{"_id": "1", "total": int64(10)},
	)

	snapshot, err := newDetector(store, schema.ModeDisabled).DetectSchema(context.Background(), "orders")
	require.NoError(t, err)
	assert.Empty(t, snapshot, "disabled mode infers nothing even when data exists")
	assert.EqualValues(t, 1, store.describeCalls.Load())
	assert.Zero(t, store.sampleCalls.Load(), "disabled mode must not sample")
}

func TestDisabledModeMissingTable(t *testing.T) {
	store := newFakeStore()

	_, err := newDetector(store, schema.ModeDisabled).DetectSchema(context.Background(), "missing")
	require.Error(t, err)

	var notFound *schema.TableNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Table)
	assert.ErrorIs(t, err, schema.ErrTableNotFound)
}

func TestHintsModeUsesKeySchemasOnly(t *testing.T) {
	store := newFakeStore()
	store.addTable(indexedTable("orders"),
		schema.Item{"_id": "1", "total": int64(10), "note": "x"},
	)

	snapshot, err := newDetector(store, schema.ModeHints).DetectSchema(context.Background(), "orders")
	require.NoError(t, err)
	assert.Zero(t, store.sampleCalls.Load())

	require.Len(t, snapshot, 2, "only key attributes are hinted")
	for _, name := range []string{"_id", "user_id"} {
		column := snapshot[name]
		require.NotNil(t, column, name)
		assert.Equal(t, schema.TypeVarchar, column.ResolvedType())
		assert.InDelta(t, 1.0, column.Confidence(), 0.001)
		assert.False(t, column.HasConflict())
		assert.False(t, column.Nullable())
	}
}

func TestAutoSelectsHintsWhenIndexed(t *testing.T) {
	store := newFakeStore()
	store.addTable(indexedTable("orders"))

	snapshot, err := newDetector(store, schema.ModeAuto).DetectSchema(context.Background(), "orders")
	require.NoError(t, err)
	assert.Zero(t, store.sampleCalls.Load(), "an indexed table must not be sampled in auto mode")
	assert.Contains(t, snapshot, "user_id")
}

func TestAutoSelectsSamplingWithoutIndexes(t *testing.T) {
	store := newFakeStore()
	// A large table: size alone must not override the index rule.
	store.addTable(plainTable("events", 5_000_000),
		schema.Item{"_id": "1", "level": "info"},
	)

	snapshot, err := newDetector(store, schema.ModeAuto).DetectSchema(context.Background(), "events")
	require.NoError(t, err)
	assert.EqualValues(t, 1, store.sampleCalls.Load())
	assert.Contains(t, snapshot, "level")
}

func TestSamplingAccumulatesObservations(t *testing.T) {
	store := newFakeStore()
	store.addTable(plainTable("events", 4),
		schema.Item{"_id": "1", "value": int64(1), "tag": "a"},
		schema.Item{"_id": "2", "value": 2.5},
		schema.Item{"_id": "3", "value": "high", "tag": nil},
		schema.Item{"_id": "4", "value": int64(7), "tag": "b"},
	)

	snapshot, err := newDetector(store, schema.ModeSampling).DetectSchema(context.Background(), "events")
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	value := snapshot["value"]
	assert.Equal(t, schema.TypeVarchar, value.ResolvedType())
	assert.True(t, value.HasConflict())
	assert.EqualValues(t, 4, value.TotalObservations())
	assert.InDelta(t, 0.25, value.Confidence(), 0.001)

	// tag is absent from one item and null in another.
	tag := snapshot["tag"]
	assert.Equal(t, schema.TypeVarchar, tag.ResolvedType())
	assert.True(t, tag.Nullable())
	assert.EqualValues(t, 4, tag.TotalObservations())
	assert.InDelta(t, 0.5, tag.NullRate(), 0.001)
	assert.False(t, tag.HasConflict())
}

func TestSamplingEmptyTableSucceeds(t *testing.T) {
	store := newFakeStore()
	store.addTable(plainTable("empty", 0))

	snapshot, err := newDetector(store, schema.ModeSampling).DetectSchema(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestSamplingRespectsSampleSize(t *testing.T) {
	store := newFakeStore()
	store.addTable(plainTable("events", 3),
		schema.Item{"_id": "1"},
		schema.Item{"_id": "2"},
		schema.Item{"_id": "3"},
	)

	detector := schema.NewDetector(store,
		schema.DiscoveryConfig{Mode: schema.ModeSampling, SampleSize: 2}, logger.Discard())
	snapshot, err := detector.DetectSchema(context.Background(), "events")
	require.NoError(t, err)
	assert.EqualValues(t, 2, snapshot["_id"].TotalObservations())
}

func TestDescribeTransportErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	store.addTable(plainTable("events", 1))
	store.setDescribeErr(errors.New("connection reset"))

	_, err := newDetector(store, schema.ModeSampling).DetectSchema(context.Background(), "events")
	var lookup *schema.LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "events", lookup.Table)
}

func TestSamplingTransportErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	store.addTable(plainTable("events", 1), schema.Item{"_id": "1"})
	store.setSampleErr(errors.New("cursor timeout"))

	_, err := newDetector(store, schema.ModeSampling).DetectSchema(context.Background(), "events")
	var sampling *schema.SamplingError
	require.ErrorAs(t, err, &sampling)
	assert.Equal(t, "events", sampling.Table)
	assert.EqualValues(t, 1, store.sampleCalls.Load(), "no retry inside the detector")
}
