package schema

import "sort"

// ColumnDescriptor is the flattened, query-layer view of one resolved column.
type ColumnDescriptor struct {
	Name          string
	SQLType       SQLType
	TypeName      string
	Nullable      bool
	ColumnSize    int
	DecimalDigits int
	Confidence    float64
	HasConflict   bool
}

// Describe flattens the snapshot into descriptors sorted by column name.
func (s Snapshot) Describe() []ColumnDescriptor {
	descriptors := make([]ColumnDescriptor, 0, len(s))
	for name, column := range s {
		resolved := column.ResolvedType()
		descriptors = append(descriptors, ColumnDescriptor{
			Name:          name,
			SQLType:       resolved,
			TypeName:      resolved.String(),
			Nullable:      column.Nullable(),
			ColumnSize:    column.ColumnSize(),
			DecimalDigits: column.DecimalDigits(),
			Confidence:    column.Confidence(),
			HasConflict:   column.HasConflict(),
		})
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}
