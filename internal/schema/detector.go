package schema

import (
	"context"
	"errors"

	"github.com/docql/docql/pkg/logger"
)

const (
	DefaultSampleSize = 100
)

// DiscoveryConfig carries the resolved discovery settings for a detector.
// Zero values fall back to documented defaults instead of failing.
type DiscoveryConfig struct {
	Mode           DiscoveryMode
	SampleSize     int
	SampleStrategy SampleStrategy
}

func (c DiscoveryConfig) withDefaults() DiscoveryConfig {
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	return c
}

// Snapshot is an immutable mapping from column name to resolved metadata,
// produced once per successful detection run. Nobody mutates a published
// snapshot; a refresh produces a new one.
type Snapshot map[string]*ColumnMetadata

// Detector infers one table's schema from store metadata and sampled data.
type Detector struct {
	store  Store
	config DiscoveryConfig
	log    *logger.Logger
}

func NewDetector(store Store, config DiscoveryConfig, log *logger.Logger) *Detector {
	if log == nil {
		log = logger.NewLogger(false)
	}
	return &Detector{
		store:  store,
		config: config.withDefaults(),
		log:    log,
	}
}

// DetectSchema runs one discovery pass for the table. The describe call
// always happens, in every mode, so a missing table fails even when
// discovery is disabled.
func (d *Detector) DetectSchema(ctx context.Context, table string) (Snapshot, error) {
	desc, err := d.store.DescribeTable(ctx, table)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return nil, &TableNotFoundError{Table: table}
		}
		return nil, &LookupError{Table: table, Err: err}
	}

	mode := d.config.Mode
	if mode == ModeAuto {
		mode = selectAutoStrategy(desc)
		d.log.Debugf("auto discovery for %s resolved to %s (indexes=%d, approx items=%d)",
			table, mode, len(desc.SecondaryIndexes), desc.ApproxItemCount)
	}

	switch mode {
	case ModeDisabled:
		// Existence is validated above; disabled means infer nothing.
		return Snapshot{}, nil
	case ModeHints:
		return d.detectFromHints(table, desc), nil
	default:
		return d.detectFromSampling(ctx, table)
	}
}

// selectAutoStrategy picks the concrete strategy for auto mode: any declared
// secondary index makes hints cheap and sufficient, otherwise sampling is the
// only real signal. Item count does not override this.
func selectAutoStrategy(desc *TableDescription) DiscoveryMode {
	if len(desc.SecondaryIndexes) > 0 {
		return ModeHints
	}
	return ModeSampling
}

// detectFromHints builds a snapshot from declared key schemas only. Each key
// attribute counts as a single non-null observation of its declared type, so
// hinted columns report confidence 1.0 and no conflict.
func (d *Detector) detectFromHints(table string, desc *TableDescription) Snapshot {
	snapshot := Snapshot{}
	seen := make(map[string]map[SQLType]bool)

	record := func(key KeyElement) {
		if key.Name == "" {
			return
		}
		if seen[key.Name] == nil {
			seen[key.Name] = make(map[SQLType]bool)
		}
		if seen[key.Name][key.Type] {
			return
		}
		seen[key.Name][key.Type] = true

		column := snapshot[key.Name]
		if column == nil {
			column = NewColumnMetadata(table, key.Name)
			snapshot[key.Name] = column
		}
		column.RecordObservation(key.Type, false)
	}

	for _, key := range desc.KeySchema {
		record(key)
	}
	for _, index := range desc.SecondaryIndexes {
		for _, key := range index.KeySchema {
			record(key)
		}
	}

	d.log.Debugf("hint discovery for %s yielded %d key columns", table, len(snapshot))
	return snapshot
}

// detectFromSampling reads up to the configured sample size and folds every
// attribute of every item into the column statistics. An attribute absent
// from an item counts as a null observation for that column, so sparse
// columns report an honest null rate.
func (d *Detector) detectFromSampling(ctx context.Context, table string) (Snapshot, error) {
	iter, err := d.store.SampleItems(ctx, table, d.config.SampleSize, d.config.SampleStrategy)
	if err != nil {
		return nil, &SamplingError{Table: table, Err: err}
	}
	defer iter.Close(ctx)

	snapshot := Snapshot{}
	var sampled int64

	for {
		item, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, &SamplingError{Table: table, Err: err}
		}
		if !ok {
			break
		}
		sampled++

		for name, value := range item {
			column := snapshot[name]
			if column == nil {
				column = NewColumnMetadata(table, name)
				snapshot[name] = column
			}
			sqlType, isNull := ClassifyValue(value)
			column.RecordObservation(sqlType, isNull)
		}
	}

	for _, column := range snapshot {
		if missing := sampled - column.TotalObservations(); missing > 0 {
			column.RecordBatchObservations(nil, missing)
		}
	}

	d.log.Debugf("sampling discovery for %s read %d items across %d columns (strategy=%s)",
		table, sampled, len(snapshot), d.config.SampleStrategy)
	return snapshot, nil
}
