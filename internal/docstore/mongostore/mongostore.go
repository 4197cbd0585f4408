// Package mongostore backs docstore.Store with MongoDB. Documents keep their
// string IDs in _id; subscriptions are driven by change streams, so the target
// deployment must be a replica set (Atlas and the compose file both are).
package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Store, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	closer := func() { _ = client.Disconnect(context.Background()) }
	return &Store{db: client.Database(database), log: log}, closer, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Doc, bool, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return docstore.Doc{}, false, nil
	}
	if err != nil {
		return docstore.Doc{}, false, err
	}
	return toDoc(raw), true, nil
}

func (s *Store) Query(ctx context.Context, collection, field string, equals any) ([]docstore.Doc, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{field: equals})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []docstore.Doc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, toDoc(raw))
	}
	return out, cur.Err()
}

func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	coll := s.db.Collection(collection)
	if merge {
		_, err := coll.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": bson.M(fields)}, options.Update().SetUpsert(true))
		return err
	}
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNoDocument
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Subscribe re-queries the full filtered set after every change event, so each
// emission is a complete snapshot as the Store contract requires.
func (s *Store) Subscribe(ctx context.Context, collection string, filter *docstore.Filter) (<-chan []docstore.Doc, error) {
	cs, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	ch := make(chan []docstore.Doc, 16)
	emit := func() {
		var docs []docstore.Doc
		var err error
		if filter != nil {
			docs, err = s.Query(ctx, collection, filter.Field, filter.Equals)
		} else {
			docs, err = s.Query(ctx, collection, "_id", bson.M{"$exists": true})
		}
		if err != nil {
			s.log.Warn("mongostore: snapshot query failed",
				zap.String("collection", collection), zap.Error(err))
			return
		}
		select {
		case ch <- docs:
		default:
		}
	}

	go func() {
		defer close(ch)
		defer cs.Close(context.Background())
		emit()
		for cs.Next(ctx) {
			emit()
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			s.log.Warn("mongostore: change stream closed",
				zap.String("collection", collection), zap.Error(err))
		}
	}()
	return ch, nil
}

// toDoc strips the _id and normalizes bson container types so the docstore
// field helpers see plain maps and slices.
func toDoc(raw bson.M) docstore.Doc {
	id, _ := raw["_id"].(string)
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		data[k] = normalize(v)
	}
	return docstore.Doc{ID: id, Data: data}
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
