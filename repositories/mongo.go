package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection wraps a typed Mongo collection and maps driver errors to the
// package sentinels.
type collection[T any] struct {
	coll *mongo.Collection
}

func newCollection[T any](db *mongo.Database, name string) collection[T] {
	return collection[T]{coll: db.Collection(name)}
}

// filterSpec names the fields ListOptions filters map onto
type filterSpec struct {
	search   []string
	status   string
	category string
	date     string
}

func (s filterSpec) apply(filter bson.M, opts ListOptions) bson.M {
	if opts.Search != "" && len(s.search) > 0 {
		pattern := regexp.QuoteMeta(opts.Search)
		or := make(bson.A, 0, len(s.search))
		for _, field := range s.search {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	if opts.Status != "" && s.status != "" {
		filter[s.status] = opts.Status
	}
	if opts.Category != "" && s.category != "" {
		filter[s.category] = opts.Category
	}
	if s.date != "" && (opts.From != nil || opts.To != nil) {
		rng := bson.M{}
		if opts.From != nil {
			rng["$gte"] = *opts.From
		}
		if opts.To != nil {
			rng["$lte"] = *opts.To
		}
		filter[s.date] = rng
	}
	return filter
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return writeError(err)
	}
	return nil
}

func (c collection[T]) insertMany(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	if _, err := c.coll.InsertMany(ctx, batch); err != nil {
		return writeError(err)
	}
	return nil
}

func (c collection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	return &out, nil
}

func (c collection[T]) findAll(ctx context.Context, filter bson.M, sort bson.D) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, nil
}

func (c collection[T]) findPage(ctx context.Context, filter bson.M, sort bson.D, opts ListOptions) ([]T, int64, error) {
	opts = opts.Normalize()

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}

	findOpts := options.Find().
		SetSort(sort).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))

	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, total, nil
}

func (c collection[T]) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return writeError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) replaceOne(ctx context.Context, filter bson.M, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return writeError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*T, error) {
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, writeError(err)
	}
	return &out, nil
}

func (c collection[T]) deleteOne(ctx context.Context, filter bson.M) error {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func writeError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}
