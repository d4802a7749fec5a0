package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by a single MongoDB collection, for
// deployments where signatures are shared across multiple fingerprinting
// workers rather than owned by one local process.
type MongoStore struct {
	coll *mongo.Collection
}

type mongoDoc struct {
	ID   string `bson:"_id"`
	Blob []byte `bson:"blob"`
}

// NewMongoStore wraps an already-connected collection. Callers own the
// client's lifecycle except for the Close call, which disconnects it.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Put(id string, blob []byte) error {
	ctx := context.Background()
	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"blob": blob}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Get(id string) ([]byte, error) {
	ctx := context.Background()
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Blob, nil
}

func (s *MongoStore) Delete(id string) error {
	ctx := context.Background()
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) Scan() (Iterator, error) {
	ctx := context.Background()
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return &mongoIterator{ctx: ctx, cur: cur}, nil
}

func (s *MongoStore) Close() error {
	return s.coll.Database().Client().Disconnect(context.Background())
}

type mongoIterator struct {
	ctx context.Context
	cur *mongo.Cursor
	err error
}

func (it *mongoIterator) Next() (Entry, bool) {
	if !it.cur.Next(it.ctx) {
		it.err = it.cur.Err()
		return Entry{}, false
	}
	var doc mongoDoc
	if err := it.cur.Decode(&doc); err != nil {
		it.err = err
		return Entry{}, false
	}
	return Entry{ID: doc.ID, Blob: doc.Blob}, true
}

func (it *mongoIterator) Err() error {
	return it.err
}

func (it *mongoIterator) Close() error {
	return it.cur.Close(it.ctx)
}
