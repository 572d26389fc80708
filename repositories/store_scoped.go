package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreScoped is the CRUD surface of a tenant owned collection. Every read
// and write is filtered by storeId, so one store can never see or touch
// another store's documents. Callers assign IDs before Create.
type StoreScoped[T any] interface {
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, storeID, id primitive.ObjectID, doc *T) error
	Delete(ctx context.Context, storeID, id primitive.ObjectID) error
	FindByID(ctx context.Context, storeID, id primitive.ObjectID) (*T, error)
	List(ctx context.Context, storeID primitive.ObjectID, opts ListOptions) ([]T, int64, error)
	// ListAll applies the filters of opts without paging, for reports
	ListAll(ctx context.Context, storeID primitive.ObjectID, opts ListOptions) ([]T, error)
}

type mongoStoreScoped[T any] struct {
	coll    collection[T]
	filters filterSpec
	sort    bson.D
}

func scoped(storeID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "storeId": storeID}
}

func (r *mongoStoreScoped[T]) Create(ctx context.Context, doc *T) error {
	return r.coll.insert(ctx, doc)
}

func (r *mongoStoreScoped[T]) Update(ctx context.Context, storeID, id primitive.ObjectID, doc *T) error {
	return r.coll.replaceOne(ctx, scoped(storeID, id), doc)
}

func (r *mongoStoreScoped[T]) Delete(ctx context.Context, storeID, id primitive.ObjectID) error {
	return r.coll.deleteOne(ctx, scoped(storeID, id))
}

func (r *mongoStoreScoped[T]) FindByID(ctx context.Context, storeID, id primitive.ObjectID) (*T, error) {
	return r.coll.findOne(ctx, scoped(storeID, id))
}

func (r *mongoStoreScoped[T]) List(ctx context.Context, storeID primitive.ObjectID, opts ListOptions) ([]T, int64, error) {
	filter := r.filters.apply(bson.M{"storeId": storeID}, opts.Normalize())
	return r.coll.findPage(ctx, filter, r.sort, opts)
}

func (r *mongoStoreScoped[T]) ListAll(ctx context.Context, storeID primitive.ObjectID, opts ListOptions) ([]T, error) {
	filter := r.filters.apply(bson.M{"storeId": storeID}, opts.Normalize())
	return r.coll.findAll(ctx, filter, r.sort)
}
