package schema_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docql/docql/internal/schema"
)

// fakeStore is an in-memory Store for detector and cache tests.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string]*schema.TableDescription
	items  map[string][]schema.Item

	describeErr error
	sampleErr   error
	detectDelay time.Duration

	describeCalls atomic.Int64
	sampleCalls   atomic.Int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables: make(map[string]*schema.TableDescription),
		items:  make(map[string][]schema.Item),
	}
}

func (f *fakeStore) addTable(desc *schema.TableDescription, items ...schema.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[desc.Name] = desc
	f.items[desc.Name] = items
}

func (f *fakeStore) setDescribeErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeErr = err
}

func (f *fakeStore) setSampleErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sampleErr = err
}

func (f *fakeStore) ListTables(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeStore) DescribeTable(ctx context.Context, table string) (*schema.TableDescription, error) {
	f.describeCalls.Add(1)
	f.mu.Lock()
	err := f.describeErr
	desc := f.tables[table]
	delay := f.detectDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, fmt.Errorf("collection %s: %w", table, schema.ErrTableNotFound)
	}
	return desc, nil
}

func (f *fakeStore) SampleItems(ctx context.Context, table string, limit int, strategy schema.SampleStrategy) (schema.ItemIterator, error) {
	f.sampleCalls.Add(1)
	f.mu.Lock()
	err := f.sampleErr
	items := f.items[table]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return &sliceIterator{items: items}, nil
}

type sliceIterator struct {
	items []schema.Item
	pos   int
}

func (it *sliceIterator) Next(ctx context.Context) (schema.Item, bool, error) {
	if it.pos >= len(it.items) {
		return nil, false, nil
	}
	item := it.items[it.pos]
	it.pos++
	return item, true, nil
}

func (it *sliceIterator) Close(ctx context.Context) error {
	return nil
}
