package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/docql/docql/internal/schema"
	"github.com/docql/docql/pkg/logger"
)

const connectTimeout = 15 * time.Second

// MongoStore implements schema.Store over one MongoDB database. Collections
// play the role of tables; non-_id indexes are the secondary indexes.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func ConnectMongo(ctx context.Context, uri, database string, log *logger.Logger) (*MongoStore, error) {
	if log == nil {
		log = logger.NewLogger(false)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
		log:    log,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListTables(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (s *MongoStore) DescribeTable(ctx context.Context, table string) (*schema.TableDescription, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": table})
	if err != nil {
		return nil, fmt.Errorf("failed to look up collection %s: %w", table, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("collection %s: %w", table, schema.ErrTableNotFound)
	}

	coll := s.db.Collection(table)

	count, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate document count for %s: %w", table, err)
	}

	desc := &schema.TableDescription{
		Name:            table,
		ApproxItemCount: count,
	}

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes for %s: %w", table, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var spec struct {
			Name string `bson:"name"`
			Key  bson.D `bson:"key"`
		}
		if err := cursor.Decode(&spec); err != nil {
			return nil, fmt.Errorf("failed to decode index spec for %s: %w", table, err)
		}
		if spec.Name == "_id_" {
			desc.KeySchema = keySchemaFromIndex(spec.Key)
			continue
		}
		desc.SecondaryIndexes = append(desc.SecondaryIndexes, schema.IndexDescription{
			Name:      spec.Name,
			KeySchema: keySchemaFromIndex(spec.Key),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index specs for %s: %w", table, err)
	}

	return desc, nil
}

// keySchemaFromIndex maps index key fields to key elements. Index specs carry
// sort direction, not value types, so hinted key columns declare VARCHAR, the
// type every value represents losslessly.
func keySchemaFromIndex(key bson.D) []schema.KeyElement {
	elements := make([]schema.KeyElement, 0, len(key))
	for _, field := range key {
		elements = append(elements, schema.KeyElement{
			Name: field.Key,
			Type: schema.TypeVarchar,
		})
	}
	return elements
}

func (s *MongoStore) SampleItems(ctx context.Context, table string, limit int, strategy schema.SampleStrategy) (schema.ItemIterator, error) {
	coll := s.db.Collection(table)

	var cursor *mongo.Cursor
	var err error
	switch strategy {
	case schema.SampleSequential:
		cursor, err = coll.Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	case schema.SampleRecent:
		// _id carries insertion order, so newest-first is a plain sort.
		cursor, err = coll.Find(ctx, bson.D{},
			options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)))
	default:
		cursor, err = coll.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start %s sample on %s: %w", strategy, table, err)
	}

	return &cursorIterator{cursor: cursor}, nil
}

type cursorIterator struct {
	cursor *mongo.Cursor
}

func (it *cursorIterator) Next(ctx context.Context) (schema.Item, bool, error) {
	if it.cursor.Next(ctx) {
		var doc bson.M
		if err := it.cursor.Decode(&doc); err != nil {
			return nil, false, fmt.Errorf("failed to decode sampled document: %w", err)
		}
		return schema.Item(doc), true, nil
	}
	if err := it.cursor.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (it *cursorIterator) Close(ctx context.Context) error {
	return it.cursor.Close(ctx)
}
