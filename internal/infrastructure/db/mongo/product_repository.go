package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type reviewDoc struct {
	ID      string `bson:"_id"`
	User    string `bson:"user"`
	Name    string `bson:"name"`
	Rating  int    `bson:"rating"`
	Comment string `bson:"comment"`
}

type productDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description"`
	Price        primitive.Decimal128 `bson:"price"`
	Category     primitive.ObjectID   `bson:"category"`
	Stock        int                  `bson:"stock"`
	User         string               `bson:"user"`
	Reviews      []reviewDoc          `bson:"reviews"`
	NumOfReviews int                  `bson:"numOfReviews"`
	Ratings      float64              `bson:"ratings"`
	Version      int64                `bson:"version"`
	CreatedAt    time.Time            `bson:"createdAt"`
}

func toReviewDocs(reviews []domain.Review) []reviewDoc {
	docs := make([]reviewDoc, 0, len(reviews))
	for _, r := range reviews {
		docs = append(docs, reviewDoc{ID: r.ID, User: r.UserID, Name: r.Name, Rating: r.Rating, Comment: r.Comment})
	}
	return docs
}

func toProductDoc(p *domain.Product) (productDoc, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDoc{}, domain.Validation("Please Enter product Price")
	}
	cat, err := objectID(p.CategoryID, domain.ErrCategoryNotFound)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		Name:         p.Name,
		Description:  p.Description,
		Price:        price,
		Category:     cat,
		Stock:        p.Stock,
		User:         p.CreatedBy,
		Reviews:      toReviewDocs(p.Reviews),
		NumOfReviews: p.NumOfReviews,
		Ratings:      p.Ratings,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
	}, nil
}

func (d productDoc) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price of product %s: %w", d.ID.Hex(), err)
	}
	reviews := make([]domain.Review, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		reviews = append(reviews, domain.Review{ID: r.ID, UserID: r.User, Name: r.Name, Rating: r.Rating, Comment: r.Comment})
	}
	return &domain.Product{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		Price:        price,
		CategoryID:   d.Category.Hex(),
		Stock:        d.Stock,
		CreatedBy:    d.User,
		Reviews:      reviews,
		NumOfReviews: d.NumOfReviews,
		Ratings:      d.Ratings,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]*domain.Product, error) {
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeError("decode products", err)
	}
	products := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, storeError("decode products", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	doc, err := toProductDoc(p)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeError("insert product", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	created, err := doc.toDomain()
	if err != nil {
		return nil, storeError("insert product", err)
	}
	return created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, lookupError("find product", err, domain.ErrProductNotFound)
	}
	p, err := doc.toDomain()
	if err != nil {
		return nil, storeError("find product", err)
	}
	return p, nil
}

// Find counts the whole collection and the matching documents, then fetches
// the requested page ordered by insertion.
func (r *ProductRepository) Find(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	filter, err := productFilter(q)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, storeError("count products", err)
	}
	filtered, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, storeError("count filtered products", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(q.Offset()).
		SetLimit(q.Limit())
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find products", err)
	}
	products, err := decodeProducts(ctx, cur)
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Products:      products,
		TotalCount:    total,
		FilteredCount: filtered,
		PageSize:      int(q.Limit()),
	}, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storeError("find products", err)
	}
	return decodeProducts(ctx, cur)
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	oid, err := objectID(p.ID, domain.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := toProductDoc(p)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"price":       doc.Price,
		"category":    doc.Category,
		"stock":       doc.Stock,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, storeError("update product", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrProductNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeError("delete product", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// SaveReviews writes the review set and its aggregates only if nobody else
// wrote since p was read. On success p.Version is advanced to the stored one.
func (r *ProductRepository) SaveReviews(ctx context.Context, p *domain.Product) error {
	oid, err := objectID(p.ID, domain.ErrProductNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "version": p.Version}
	update := bson.M{
		"$set": bson.M{
			"reviews":      toReviewDocs(p.Reviews),
			"numOfReviews": p.NumOfReviews,
			"ratings":      p.Ratings,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return storeError("save reviews", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewConflict
	}
	p.Version++
	return nil
}

// EnsureIndexes creates the category index used by filters and grouping.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
