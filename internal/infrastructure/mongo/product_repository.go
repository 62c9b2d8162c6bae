package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amelia-salon/storefront/internal/domain/catalog"
)

// productDoc is the stored shape; product ids are ObjectIDs on disk and
// hex strings everywhere above this package.
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Currency    string             `bson:"currency"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category,omitempty"`
	Featured    bool               `bson:"featured"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d productDoc) toDomain() catalog.Product {
	return catalog.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Currency:    d.Currency,
		Description: d.Description,
		Image:       d.Image,
		Stock:       d.Stock,
		Category:    d.Category,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt,
	}
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	cur, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]catalog.Product, len(docs))
	for i, d := range docs {
		products[i] = d.toDomain()
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*catalog.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalog.ErrNotFound
	}

	var doc productDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	p := doc.toDomain()
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Price:       p.Price,
		Currency:    p.Currency,
		Description: p.Description,
		Image:       p.Image,
		Stock:       p.Stock,
		Category:    p.Category,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, u catalog.Update) (*catalog.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalog.ErrNotFound
	}

	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Currency != nil {
		set["currency"] = *u.Currency
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Featured != nil {
		set["featured"] = *u.Featured
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	var doc productDoc
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	p := doc.toDomain()
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*catalog.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalog.ErrNotFound
	}

	var doc productDoc
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}

	p := doc.toDomain()
	return &p, nil
}

// DecrementStock applies an atomic conditional decrement: the stock
// filter and the $inc run as one document update, so two concurrent
// checkouts cannot both take the last unit.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, catalog.ErrInvalidStock
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, catalog.ErrNotFound
	}

	var doc productDoc
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.Stock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	// Nothing matched: either the product is gone or stock is short.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return 0, getErr
	}
	return 0, catalog.ErrInsufficientStock
}
