// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

type mongoDoc struct {
	Path       string `bson:"_id"`
	Collection string `bson:"collection"`
	DocID      string `bson:"docId"`
	Data       bson.M `bson:"data"`
	CreatedNs  int64  `bson:"createdNs"`
	UpdatedNs  int64  `bson:"updatedNs"`
}

// MongoStore keeps every document in one MongoDB collection keyed by path.
type MongoStore struct {
	client *mongo.Client
	docs   *mongo.Collection
	broker *Broker
}

// NewMongoStore connects to uri and ensures the listing index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo URI required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	docs := client.Database(database).Collection(mongoCollection)
	_, err = docs.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "collection", Value: 1}, {Key: "createdNs", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create mongo index: %w", err)
	}

	return &MongoStore{client: client, docs: docs, broker: NewBroker()}, nil
}

func (s *MongoStore) Get(ctx context.Context, path string, v any) error {
	if _, _, err := splitDoc(path); err != nil {
		return err
	}

	var d mongoDoc
	err := s.docs.FindOne(ctx, bson.M{"_id": path}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decode(d.Data, v)
}

func (s *MongoStore) Set(ctx context.Context, path string, v any) error {
	collection, id, err := splitDoc(path)
	if err != nil {
		return err
	}
	m, err := encode(v)
	if err != nil {
		return err
	}

	now := stamp()
	_, err = s.docs.UpdateOne(ctx,
		bson.M{"_id": path},
		bson.M{
			"$set":         bson.M{"data": m, "collection": collection, "docId": id, "updatedNs": now},
			"$setOnInsert": bson.M{"createdNs": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.broker.Publish(path)
	return nil
}

func (s *MongoStore) Create(ctx context.Context, path string, v any) error {
	collection, id, err := splitDoc(path)
	if err != nil {
		return err
	}
	m, err := encode(v)
	if err != nil {
		return err
	}

	now := stamp()
	_, err = s.docs.InsertOne(ctx, mongoDoc{
		Path:       path,
		Collection: collection,
		DocID:      id,
		Data:       m,
		CreatedNs:  now,
		UpdatedNs:  now,
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	s.broker.Publish(path)
	return nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, v any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.Create(ctx, collection+"/"+id, v); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Increment(ctx context.Context, path, field string, delta int64, merge map[string]any) (int64, error) {
	collection, id, err := splitDoc(path)
	if err != nil {
		return 0, err
	}
	extra, err := encode(merge)
	if err != nil {
		return 0, err
	}

	now := stamp()
	set := bson.M{"updatedNs": now}
	for k, v := range extra {
		set["data."+k] = v
	}

	var d mongoDoc
	err = s.docs.FindOneAndUpdate(ctx,
		bson.M{"_id": path},
		bson.M{
			"$inc":         bson.M{"data." + field: delta},
			"$set":         set,
			"$setOnInsert": bson.M{"collection": collection, "docId": id, "createdNs": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s.%s: %w", path, field, err)
	}

	s.broker.Publish(path)
	return toInt64(d.Data[field]), nil
}

func (s *MongoStore) List(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	filter := bson.M{"collection": collection}
	if !q.Since.IsZero() {
		filter["createdNs"] = bson.M{"$gte": q.Since.UnixNano()}
	}
	order := 1
	if q.Descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdNs", Value: order}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.docs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []Snapshot
	for cur.Next(ctx) {
		var d mongoDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
		}
		raw, err := json.Marshal(d.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", d.Path, err)
		}
		out = append(out, Snapshot{
			ID:      d.DocID,
			Created: time.Unix(0, d.CreatedNs),
			data:    raw,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return out, nil
}

func (s *MongoStore) Subscribe(ctx context.Context, path string) (<-chan Event, func(), error) {
	if _, err := split(path); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.broker.Subscribe(ctx, path)
	return ch, cancel, nil
}

func (s *MongoStore) Close() error {
	s.broker.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
