package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// CatalogService serves product CRUD and the catalog queries. Categories are
// attached to products on read.
type CatalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewCatalogService(products ports.ProductRepository, categories ports.CategoryRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, log: log, now: time.Now}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in domain.ProductInput, createdBy string) (*domain.Product, error) {
	p, err := domain.NewProduct(in, createdBy, s.now())
	if err != nil {
		return nil, err
	}
	cat, err := s.requireCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	created.Category = cat
	s.log.Info().Str("product_id", created.ID).Str("created_by", createdBy).Msg("product created")
	return created, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, []*domain.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts runs a search/filter/paginate query and attaches categories to
// the returned page.
func (s *CatalogService) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	page, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, page.Products); err != nil {
		return nil, err
	}
	return page, nil
}

// GroupByCategory buckets every product by category and resolves all
// categories with a single lookup.
func (s *CatalogService) GroupByCategory(ctx context.Context) ([]domain.ProductGroup, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	groups := domain.GroupByCategory(all)

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.CategoryID)
	}
	cats, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].Category = cats[groups[i].CategoryID]
	}
	return groups, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	cat, err := s.requireCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	updated.Category = cat
	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	return cat, err
}

func (s *CatalogService) attachCategories(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, p := range products {
		if p.CategoryID != "" && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	cats, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		p.Category = cats[p.CategoryID]
	}
	return nil
}

// CategoryService manages product categories.
type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log, now: time.Now}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validation("Please Enter Category Name")
	}
	created, err := s.repo.Create(ctx, &domain.Category{Name: name, CreatedAt: s.now().UTC()})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("category_id", created.ID).Str("name", name).Msg("category created")
	return created, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}
