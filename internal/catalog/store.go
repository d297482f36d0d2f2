package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const snapshotKey = "products"

var (
	ErrProductNotFound = fmt.Errorf("%w: product", domain.ErrNotFound)
	ErrInvalidProduct  = fmt.Errorf("%w: product needs a title and a non-negative price", domain.ErrValidation)
)

// Filter narrows Query. Zero values are absent predicates.
type Filter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Tags     []string
}

type Stats struct {
	Total      int `json:"total_products"`
	Featured   int `json:"featured_products"`
	Categories int `json:"categories"`
}

// Store is the product catalog in insertion order.
type Store struct {
	mu       sync.Mutex
	products []domain.Product
	storage  kv.Storage
	log      *zap.Logger
}

// New loads the persisted catalog, or seeds it with seed when there is no
// readable snapshot.
func New(ctx context.Context, storage kv.Storage, seed []domain.Product, log *zap.Logger) (*Store, error) {
	s := &Store{storage: storage, log: log}

	var products []domain.Product
	err := kv.LoadJSON(ctx, storage, snapshotKey, &products)
	switch {
	case err == nil:
		s.products = products
	case errors.Is(err, kv.ErrNotFound):
		s.products = slices.Clone(seed)
	case errors.Is(err, kv.ErrCorrupt):
		log.Warn("discarding unreadable catalog snapshot", zap.Error(err))
		s.products = slices.Clone(seed)
	default:
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return s, nil
}

func (s *Store) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = detach(p)
	}
	return out
}

func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return detach(s.products[i]), nil
	}
	return domain.Product{}, ErrProductNotFound
}

func (s *Store) Add(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	if strings.TrimSpace(in.Title) == "" || in.Price.IsNegative() {
		return domain.Product{}, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := in.Product("product-" + uuid.NewString())
	next := append(slices.Clone(s.products), p)
	if err := s.commit(ctx, next); err != nil {
		return domain.Product{}, err
	}
	return detach(p), nil
}

func (s *Store) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.Product{}, ErrInvalidProduct
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, ErrProductNotFound
	}

	next := slices.Clone(s.products)
	next[i] = patch.Apply(next[i])
	if err := s.commit(ctx, next); err != nil {
		return domain.Product{}, err
	}
	return detach(next[i]), nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	return s.commit(ctx, slices.Delete(slices.Clone(s.products), i, i+1))
}

// Query matches text case-insensitively against title and description and
// ANDs the result with every predicate set in f.
func (s *Store) Query(text string, f Filter) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(text)
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(tag string) bool {
			return slices.Contains(p.Tags, tag)
		}) {
			continue
		}
		out = append(out, detach(p))
	}
	return out
}

func (s *Store) Featured() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Featured {
			out = append(out, detach(p))
		}
	}
	return out
}

// Categories returns distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0)
	for _, p := range s.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// Tags returns the union of all product tags in first-seen order.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0)
	for _, p := range s.products {
		for _, tag := range p.Tags {
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.products)}
	categories := make(map[string]struct{})
	for _, p := range s.products {
		if p.Featured {
			st.Featured++
		}
		categories[p.Category] = struct{}{}
	}
	st.Categories = len(categories)
	return st
}

// detach copies the tag slice so callers cannot reach the stored products.
func detach(p domain.Product) domain.Product {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
}

func (s *Store) commit(ctx context.Context, next []domain.Product) error {
	if err := kv.SaveJSON(ctx, s.storage, snapshotKey, next); err != nil {
		s.log.Error("failed to persist catalog", zap.Error(err))
		return fmt.Errorf("%w: persist catalog: %w", domain.ErrExternal, err)
	}
	s.products = next
	return nil
}
