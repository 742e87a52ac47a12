package schema

// ColumnMetadata accumulates type observations for a single column of a
// schemaless table and resolves them into one SQL type. Instances are owned
// by a single detection run until published; published metadata is read-only.
type ColumnMetadata struct {
	tableName          string
	columnName         string
	observationsByType map[SQLType]int64
	totalObservations  int64
	nullObservations   int64
}

func NewColumnMetadata(tableName, columnName string) *ColumnMetadata {
	return &ColumnMetadata{
		tableName:          tableName,
		columnName:         columnName,
		observationsByType: make(map[SQLType]int64),
	}
}

func (c *ColumnMetadata) TableName() string {
	return c.tableName
}

func (c *ColumnMetadata) ColumnName() string {
	return c.columnName
}

func (c *ColumnMetadata) TotalObservations() int64 {
	return c.totalObservations
}

func (c *ColumnMetadata) NullObservations() int64 {
	return c.nullObservations
}

// ObservationsByType returns a copy of the per-type observation counts.
func (c *ColumnMetadata) ObservationsByType() map[SQLType]int64 {
	counts := make(map[SQLType]int64, len(c.observationsByType))
	for t, n := range c.observationsByType {
		counts[t] = n
	}
	return counts
}

// RecordObservation folds a single observed value into the statistics.
func (c *ColumnMetadata) RecordObservation(sqlType SQLType, isNull bool) {
	c.totalObservations++
	if isNull {
		c.nullObservations++
		return
	}
	c.observationsByType[sqlType]++
}

// RecordBatchObservations folds pre-aggregated counts into the statistics.
// Repeated calls accumulate.
func (c *ColumnMetadata) RecordBatchObservations(countsBySQLType map[SQLType]int64, nullCount int64) {
	total := nullCount
	for sqlType, count := range countsBySQLType {
		if count <= 0 {
			continue
		}
		c.observationsByType[sqlType] += count
		total += count
	}
	c.nullObservations += nullCount
	c.totalObservations += total
}

// ResolvedType returns the most flexible type among those observed,
// independent of how often each was seen. VARCHAR always wins when present.
// Columns with no non-null observation resolve to TypeUnknown.
func (c *ColumnMetadata) ResolvedType() SQLType {
	resolved := TypeUnknown
	var resolvedCount int64
	for sqlType, count := range c.observationsByType {
		if count == 0 {
			continue
		}
		switch {
		case sqlType.flexibility() > resolved.flexibility():
			resolved, resolvedCount = sqlType, count
		case sqlType.flexibility() == resolved.flexibility():
			// Equal flexibility (ARRAY vs STRUCT): keep the more frequent,
			// then break remaining ties deterministically.
			if count > resolvedCount || (count == resolvedCount && sqlType > resolved) {
				resolved, resolvedCount = sqlType, count
			}
		}
	}
	return resolved
}

// HasConflict reports whether more than one distinct type was observed.
func (c *ColumnMetadata) HasConflict() bool {
	distinct := 0
	for _, count := range c.observationsByType {
		if count > 0 {
			distinct++
		}
	}
	return distinct > 1
}

// Confidence is the share of non-null observations matching the resolved
// type, or 0 when nothing non-null was observed.
func (c *ColumnMetadata) Confidence() float64 {
	nonNull := c.totalObservations - c.nullObservations
	if nonNull == 0 {
		return 0.0
	}
	return float64(c.observationsByType[c.ResolvedType()]) / float64(nonNull)
}

// NullRate is the share of null observations, or 0 when nothing was observed.
func (c *ColumnMetadata) NullRate() float64 {
	if c.totalObservations == 0 {
		return 0.0
	}
	return float64(c.nullObservations) / float64(c.totalObservations)
}

func (c *ColumnMetadata) Nullable() bool {
	return c.nullObservations > 0
}

func (c *ColumnMetadata) ColumnSize() int {
	return c.ResolvedType().ColumnSize()
}

func (c *ColumnMetadata) DecimalDigits() int {
	return c.ResolvedType().DecimalDigits()
}
