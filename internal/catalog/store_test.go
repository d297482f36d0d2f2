package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T, storage kv.Storage) *Store {
	s, err := New(context.Background(), storage, Fixture(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNew_SeedsFixture(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	assert.Equal(t, []string{"product-1", "product-2", "product-3", "product-4", "product-5", "product-6"}, ids(s.List()))
}

func TestQuery_Category(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	assert.Equal(t, []string{"product-4"}, ids(s.Query("", Filter{Category: "tools"})))
	assert.Equal(t, []string{"product-2", "product-6"}, ids(s.Query("", Filter{Category: "courses"})))
	assert.Empty(t, s.Query("", Filter{Category: "Tools"}), "category match is exact")
}

func TestQuery(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	tests := []struct {
		name   string
		text   string
		filter Filter
		want   []string
	}{
		{"empty matches all", "", Filter{}, []string{"product-1", "product-2", "product-3", "product-4", "product-5", "product-6"}},
		{"title case-insensitive", "ICON", Filter{}, []string{"product-5"}},
		{"description", "seo", Filter{}, []string{"product-2"}},
		{"min price", "", Filter{MinPrice: dec("79.99")}, []string{"product-2", "product-6"}},
		{"max price", "", Filter{MaxPrice: dec("39.99")}, []string{"product-3", "product-5"}},
		{"price range", "", Filter{MinPrice: dec("40"), MaxPrice: dec("60")}, []string{"product-1", "product-4"}},
		{"any tag", "", Filter{Tags: []string{"coding", "icons"}}, []string{"product-5", "product-6"}},
		{"and combined", "course", Filter{Category: "courses", MaxPrice: dec("80")}, []string{"product-2"}},
		{"no match", "blockchain", Filter{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.Query(tt.text, tt.filter)))
		})
	}
}

func TestDerivedReads(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	assert.Equal(t, []string{"product-1", "product-2", "product-4", "product-6"}, ids(s.Featured()))
	assert.Equal(t, []string{"templates", "courses", "assets", "tools"}, s.Categories())

	tags := s.Tags()
	assert.Len(t, tags, 16, "assets and course are listed once")
	assert.Equal(t, "UI", tags[0])
	assert.Equal(t, Stats{Total: 6, Featured: 4, Categories: 4}, s.Stats())
}

func TestReads_DoNotShareTags(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	got, err := s.Get("product-1")
	require.NoError(t, err)
	require.NotEmpty(t, got.Tags)
	want := got.Tags[0]

	got.Tags[0] = "mutated"
	s.List()[0].Tags[0] = "mutated"
	s.Featured()[0].Tags[0] = "mutated"
	s.Query("", Filter{})[0].Tags[0] = "mutated"

	again, err := s.Get("product-1")
	require.NoError(t, err)
	assert.Equal(t, want, again.Tags[0])
	assert.NotContains(t, s.Tags(), "mutated")

	added, err := s.Add(context.Background(), domain.ProductInput{Title: "Font Pack", Price: decimal.Zero, Tags: []string{"fonts"}})
	require.NoError(t, err)
	added.Tags[0] = "mutated"
	stored, err := s.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fonts"}, stored.Tags)
}

func TestAdd(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())
	ctx := context.Background()

	p, err := s.Add(ctx, domain.ProductInput{Title: "Font Pack", Price: decimal.RequireFromString("9.99"), Category: "assets", Tags: []string{"fonts"}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.ID, "product-"))
	list := s.List()
	assert.Equal(t, p.ID, list[len(list)-1].ID, "appended at the end")

	other, err := s.Add(ctx, domain.ProductInput{Title: "Font Pack", Price: decimal.Zero})
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, other.ID)
}

func TestAdd_Invalid(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	_, err := s.Add(context.Background(), domain.ProductInput{Title: " ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	_, err = s.Add(context.Background(), domain.ProductInput{Title: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, s.List(), 6)
}

func TestUpdate_MergesFields(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())
	featured := false

	p, err := s.Update(context.Background(), "product-4", domain.ProductPatch{Price: dec("19.99"), Featured: &featured})
	require.NoError(t, err)

	assert.Equal(t, "Video Editing Toolkit", p.Title)
	assert.Equal(t, "19.99", p.Price.StringFixed(2))
	assert.False(t, p.Featured)

	got, err := s.Get("product-4")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, "product-4", s.List()[3].ID, "position is kept")
}

func TestUpdate_Errors(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())
	ctx := context.Background()

	_, err := s.Update(ctx, "product-99", domain.ProductPatch{})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Update(ctx, "product-1", domain.ProductPatch{Price: dec("-5")})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())
	ctx := context.Background()

	require.NoError(t, s.Remove(ctx, "product-3"))

	_, err := s.Get("product-3")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, s.Remove(ctx, "product-3"), ErrProductNotFound)
	assert.Len(t, s.List(), 5)
}

func TestSnapshot_AdminEditsSurviveReload(t *testing.T) {
	storage := kv.NewMemoryStorage()
	ctx := context.Background()
	first := newTestStore(t, storage)
	added, err := first.Add(ctx, domain.ProductInput{Title: "New", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	require.NoError(t, first.Remove(ctx, "product-1"))

	second := newTestStore(t, storage)

	assert.Equal(t, ids(first.List()), ids(second.List()))
	_, err = second.Get(added.ID)
	assert.NoError(t, err)
}

func TestSnapshot_EmptyCatalogIsNotReseeded(t *testing.T) {
	storage := kv.NewMemoryStorage()
	require.NoError(t, storage.Write(context.Background(), "products", "[]"))

	s := newTestStore(t, storage)
	assert.Empty(t, s.List())
}

func TestNew_CorruptSnapshotSeeds(t *testing.T) {
	storage := kv.NewMemoryStorage()
	require.NoError(t, storage.Write(context.Background(), "products", "nope"))

	s := newTestStore(t, storage)
	assert.Len(t, s.List(), 6)
}

type brokenStorage struct{ kv.MemoryStorage }

func (*brokenStorage) Read(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (*brokenStorage) Write(context.Context, string, string) error {
	return errors.New("connection refused")
}

func TestNew_StorageFailure(t *testing.T) {
	_, err := New(context.Background(), &brokenStorage{}, Fixture(), zaptest.NewLogger(t))
	assert.Error(t, err)
}
