package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/amelia-salon/storefront/internal/domain/catalog"
)

// Seed inserts the initial salon catalog when the collection is empty.
// Existing data is never touched.
func (r *ProductRepository) Seed(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	seed := catalog.SeedProducts()
	for i := range seed {
		p := seed[i]
		p.CreatedAt = time.Now().UTC()
		if _, err := r.Create(ctx, &p); err != nil {
			return i, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	return len(seed), nil
}
