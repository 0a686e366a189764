package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/model"
	"github.com/Igordev7/PricetireForce/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubProductRepo struct {
	byCode map[string]*model.Product
	// failNextCreate simulates a concurrent insert winning the race.
	failNextCreate bool
	creates        int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byCode: make(map[string]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if r.failNextCreate {
		r.failNextCreate = false
		// The concurrent writer's row is visible on re-fetch.
		ghost := *p
		ghost.ID = uuid.New()
		r.byCode[p.UniqueCode] = &ghost
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.byCode[p.UniqueCode]; exists {
		return gorm.ErrDuplicatedKey
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.creates++
	r.byCode[p.UniqueCode] = p
	return nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	p, ok := r.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) DistinctBrands(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.byCode {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DistinctWidths(_ context.Context) ([]string, error) {
	return nil, nil
}

type stubHistoryRepo struct {
	records  []model.PriceHistory
	batchErr error
	batches  int
}

func (r *stubHistoryRepo) CreateBatch(_ context.Context, records []model.PriceHistory) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	r.batches++
	r.records = append(r.records, records...)
	return nil
}

func (r *stubHistoryRepo) Query(_ context.Context, _ dto.DashboardFilter) ([]repository.PriceRow, error) {
	return nil, errors.New("not used")
}

var (
	_ repository.ProductRepository      = (*stubProductRepo)(nil)
	_ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)
)

func (r *stubHistoryRepo) DistinctCompetitors(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *stubHistoryRepo) DistinctCompetitorBrands(_ context.Context) ([]string, error) {
	return nil, nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestUniqueCode(t *testing.T) {
	assert.Equal(t, "PIRELLI-P1-18565", UniqueCode("PIRELLI", "P1", "185/65"))
	assert.Equal(t, "PIRELLI-P1-18565", UniqueCode("PIRELLI", "P1", "185 / 65"))
	assert.Equal(t, "GOODYEAR-EFFICIENTGRIP-19560", UniqueCode("GOODYEAR", "EFFICIENT GRIP", "195/60"))
}

func TestResolveIdempotent(t *testing.T) {
	repo := newStubProductRepo()
	resolver := NewProductResolver(repo)
	ctx := context.Background()

	spec := ProductSpec{Brand: "PIRELLI", Model: "P1", Measure: "185/65", Rim: "14"}

	first, err := resolver.Resolve(ctx, spec)
	require.NoError(t, err)
	second, err := resolver.Resolve(ctx, spec)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
}

func TestResolveAcrossRunsSameCode(t *testing.T) {
	repo := newStubProductRepo()
	ctx := context.Background()

	spec := ProductSpec{Brand: "PIRELLI", Model: "P1", Measure: "185/65", Rim: "14"}

	first, err := NewProductResolver(repo).Resolve(ctx, spec)
	require.NoError(t, err)
	// A new resolver (new file) with the same normalized identity must
	// reuse the stored row, not create a duplicate.
	second, err := NewProductResolver(repo).Resolve(ctx, spec)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
}

func TestResolveDuplicateKeyRefetches(t *testing.T) {
	repo := newStubProductRepo()
	repo.failNextCreate = true
	resolver := NewProductResolver(repo)

	p, err := resolver.Resolve(context.Background(), ProductSpec{
		Brand: "PIRELLI", Model: "P1", Measure: "185/65", Rim: "14",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, 0, repo.creates)
}

func TestResolveFillsCatalogFields(t *testing.T) {
	repo := newStubProductRepo()
	resolver := NewProductResolver(repo)

	p, err := resolver.Resolve(context.Background(), ProductSpec{
		Brand:           "GOODYEAR",
		Model:           "G1",
		Measure:         "195/60 R15",
		Rim:             "15",
		CompetitorBrand: "Goodyear do Brasil",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pneu GOODYEAR G1 195/60 R15", p.Name)
	assert.Equal(t, "195", p.Width)
	assert.Equal(t, "60", p.Profile)
	assert.Equal(t, "15", p.Rim)
	assert.Equal(t, "Goodyear do Brasil", p.CompetitorBrand)
}

func TestSplitMeasure(t *testing.T) {
	w, pr := splitMeasure("185/65")
	assert.Equal(t, "185", w)
	assert.Equal(t, "65", pr)

	w, pr = splitMeasure("195/60 R15")
	assert.Equal(t, "195", w)
	assert.Equal(t, "60", pr)

	w, pr = splitMeasure("700x16")
	assert.Equal(t, "700x16", w)
	assert.Equal(t, "", pr)
}
