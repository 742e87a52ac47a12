package schema

import "context"

// Item is one raw record from the store: attribute name to decoded value.
type Item map[string]any

// KeyElement is a single key attribute with its declared type.
type KeyElement struct {
	Name string
	Type SQLType
}

// IndexDescription describes one secondary index on a table.
type IndexDescription struct {
	Name      string
	KeySchema []KeyElement
}

// TableDescription is the metadata a describe call returns.
type TableDescription struct {
	Name             string
	KeySchema        []KeyElement
	SecondaryIndexes []IndexDescription
	ApproxItemCount  int64
}

// ItemIterator yields sampled items. Pagination is handled by the store;
// callers just drain it. Next returns ok=false once the sample is exhausted.
type ItemIterator interface {
	Next(ctx context.Context) (item Item, ok bool, err error)
	Close(ctx context.Context) error
}

// Store is the data-store collaborator the detector reads from. Retry and
// timeout policy live behind this interface, not in the detector.
type Store interface {
	// ListTables enumerates table names.
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns table metadata, or an error wrapping
	// ErrTableNotFound when the table does not exist.
	DescribeTable(ctx context.Context, table string) (*TableDescription, error)
	// SampleItems starts a bounded sample read over the table. The sequence
	// is finite and restartable per call.
	SampleItems(ctx context.Context, table string, limit int, strategy SampleStrategy) (ItemIterator, error)
}
