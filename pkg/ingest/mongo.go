package ingest

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	bio "github.com/matzehuels/boreholelog/pkg/io"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "boreholelog"
	DefaultMongoCollection = "boreholes"
)

// MongoStore keeps borehole documents in a MongoDB collection, one
// document per borehole keyed by its ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID          string            `bson:"_id"`
	GroundLevel float64           `bson:"ground_level"`
	Intervals   []strata.Interval `bson:"intervals"`
	Header      header.Metadata   `bson:"header,omitempty"`
}

// OpenMongo connects to uri and returns a store on database.collection.
// Empty names use the defaults.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	var client *mongo.Client
	err := cache.RetryWithBackoff(ctx, func() error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return classifyMongo(err)
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(ctx)
			return classifyMongo(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, errors.Upstream(err, "connect to mongodb")
	}
	s := NewMongoStore(client.Database(database).Collection(collection))
	s.client = client
	return s, nil
}

// NewMongoStore wraps an existing collection. Close is then a no-op.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Get loads and validates the borehole with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (bio.Document, error) {
	if err := errors.ValidateBoreholeID(id); err != nil {
		return bio.Document{}, err
	}
	var doc mongoDoc
	err := cache.RetryWithBackoff(ctx, func() error {
		return classifyMongo(s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc))
	})
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return bio.Document{}, errors.New(errors.ErrCodeNotFound, "borehole %q not found", id)
	}
	if err != nil {
		return bio.Document{}, errors.Upstream(err, "load borehole %q", id)
	}
	b := &strata.Borehole{ID: doc.ID, GroundLevel: doc.GroundLevel, Intervals: doc.Intervals}
	if err := Finish(b); err != nil {
		return bio.Document{}, err
	}
	return bio.Document{Borehole: b, Header: doc.Header}, nil
}

// Put stores doc, replacing any previous version.
func (s *MongoStore) Put(ctx context.Context, doc bio.Document) error {
	if doc.Borehole == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no borehole to store")
	}
	if err := Finish(doc.Borehole); err != nil {
		return err
	}
	b := doc.Borehole
	md := mongoDoc{ID: b.ID, GroundLevel: b.GroundLevel, Intervals: b.Intervals, Header: doc.Header}
	err := cache.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, md, options.Replace().SetUpsert(true))
		return classifyMongo(err)
	})
	if err != nil {
		return errors.Upstream(err, "store borehole %q", b.ID)
	}
	return nil
}

// List returns all stored borehole IDs in order.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	var ids []string
	err := cache.RetryWithBackoff(ctx, func() error {
		cur, err := s.coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return classifyMongo(err)
		}
		defer cur.Close(ctx)
		var rows []struct {
			ID string `bson:"_id"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return classifyMongo(err)
		}
		ids = ids[:0]
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Upstream(err, "list boreholes")
	}
	return ids, nil
}

// Close disconnects a store opened with OpenMongo.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// classifyMongo marks network failures and timeouts as retryable.
func classifyMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}
