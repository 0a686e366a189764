package service

import (
	"context"
	"testing"
	"time"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/model"
	"github.com/Igordev7/PricetireForce/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistoryRepo struct {
	rows        []repository.PriceRow
	lastFilter  dto.DashboardFilter
	competitors []string
	compBrands  []string
}

func (s *stubHistoryRepo) CreateBatch(_ context.Context, _ []model.PriceHistory) error { return nil }

func (s *stubHistoryRepo) Query(_ context.Context, f dto.DashboardFilter) ([]repository.PriceRow, error) {
	s.lastFilter = f
	return s.rows, nil
}

func (s *stubHistoryRepo) DistinctCompetitors(_ context.Context) ([]string, error) {
	return s.competitors, nil
}

func (s *stubHistoryRepo) DistinctCompetitorBrands(_ context.Context) ([]string, error) {
	return s.compBrands, nil
}

type stubProductRepo struct {
	brands []string
	widths []string
}

func (s *stubProductRepo) Create(_ context.Context, _ *model.Product) error { return nil }
func (s *stubProductRepo) FindByCode(_ context.Context, _ string) (*model.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) DistinctBrands(_ context.Context) ([]string, error) {
	return s.brands, nil
}
func (s *stubProductRepo) DistinctWidths(_ context.Context) ([]string, error) {
	return s.widths, nil
}

var (
	_ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)
	_ repository.ProductRepository      = (*stubProductRepo)(nil)
)

func row(competitor, compBrand, rim string, price, markup float64) repository.PriceRow {
	return repository.PriceRow{
		ID:              uuid.New(),
		Competitor:      competitor,
		CompetitorBrand: compBrand,
		Rim:             rim,
		Price:           decimal.NewFromFloat(price),
		Markup:          decimal.NewFromFloat(markup),
	}
}

func TestSummarizeStats(t *testing.T) {
	rows := []repository.PriceRow{
		row("LojaA", "Pirelli BR", "14", 300, 0.20),
		row("LojaB", "Pirelli BR", "15", 350, 0),
		row("LojaC", "Goodyear BR", "14", 400, 0.30),
	}

	resp := summarize(rows)

	assert.Equal(t, 3, resp.Total)
	assert.InDelta(t, 350.0, resp.Media, 0.0001)
	assert.InDelta(t, 300.0, resp.Minimo, 0.0001)
	assert.InDelta(t, 400.0, resp.Maximo, 0.0001)
	// Only the two rows carrying a markup enter the mean; reported in percent.
	assert.InDelta(t, 25.0, resp.MargemMedia, 0.0001)
	assert.Equal(t, "14", resp.TopAro)
	assert.Equal(t, "LojaA", resp.TopConcorrente)
	assert.Equal(t, "Pirelli BR", resp.TopMarcaConcorrente)
}

func TestSummarizeEmptySet(t *testing.T) {
	resp := summarize(nil)

	assert.Equal(t, 0, resp.Total)
	assert.Zero(t, resp.Media)
	assert.Zero(t, resp.Minimo)
	assert.Zero(t, resp.Maximo)
	assert.Zero(t, resp.MargemMedia)
	assert.Equal(t, "-", resp.TopAro)
	assert.Equal(t, "-", resp.TopConcorrente)
	assert.Equal(t, "-", resp.TopMarcaConcorrente)
}

func TestSummarizeModalTieBreaksFirstSeen(t *testing.T) {
	rows := []repository.PriceRow{
		row("A", "", "15", 100, 0),
		row("B", "", "14", 110, 0),
		row("C", "", "15", 120, 0),
		row("D", "", "14", 130, 0),
	}

	resp := summarize(rows)
	assert.Equal(t, "15", resp.TopAro)
}

func TestSummarizeCheapestCompetitorTieIsStable(t *testing.T) {
	rows := []repository.PriceRow{
		row("LojaB", "", "14", 250, 0),
		row("LojaA", "", "14", 250, 0),
		row("LojaC", "", "14", 300, 0),
	}

	resp := summarize(rows)
	// Equal minimum prices resolve to the earlier row.
	assert.Equal(t, "LojaB", resp.TopConcorrente)
}

func TestSummarizeIgnoresZeroRim(t *testing.T) {
	rows := []repository.PriceRow{
		row("A", "", "0", 100, 0),
		row("B", "", "0", 110, 0),
		row("C", "", "16", 120, 0),
	}

	resp := summarize(rows)
	assert.Equal(t, "16", resp.TopAro)
}

func TestAnalyticsListsComeFromCatalog(t *testing.T) {
	history := &stubHistoryRepo{
		// Filter matched nothing, but the dropdown lists still populate.
		rows:        nil,
		competitors: []string{"LojaA", "LojaB"},
		compBrands:  []string{"Goodyear BR", "Pirelli BR"},
	}
	products := &stubProductRepo{
		brands: []string{"GOODYEAR", "PIRELLI"},
		widths: []string{"185", "195"},
	}
	svc := NewDashboardService(history, products)

	resp, err := svc.Analytics(context.Background(), dto.DashboardFilter{Region: "N"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, "-", resp.TopConcorrente)
	assert.Equal(t, []string{"GOODYEAR", "PIRELLI"}, resp.BrandsList)
	assert.Equal(t, []string{"LojaA", "LojaB"}, resp.CompetitorsList)
	assert.Equal(t, []string{"Goodyear BR", "Pirelli BR"}, resp.ConcorrentesBrandsList)
	assert.Equal(t, []string{"185", "195"}, resp.MedidasList)
	assert.Equal(t, "N", history.lastFilter.Region)
}

func TestDataMapsRows(t *testing.T) {
	collected := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	history := &stubHistoryRepo{rows: []repository.PriceRow{{
		ID:              id,
		ProductName:     "Pneu PIRELLI P1 185/65",
		Brand:           "PIRELLI",
		Model:           "P1",
		Width:           "185",
		Profile:         "65",
		Rim:             "14",
		Competitor:      "LojaA",
		CompetitorBrand: "Pirelli BR",
		CompetitorModel: "Cinturato",
		Price:           decimal.NewFromFloat(350.5),
		SellIn:          decimal.NewFromFloat(280),
		Markup:          decimal.NewFromFloat(0.25),
		Origin:          model.OriginNacional,
		City:            "Campinas",
		DateCollected:   collected,
	}}}
	svc := NewDashboardService(history, &stubProductRepo{})

	rows, err := svc.Data(context.Background(), dto.DashboardFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, id.String(), r.ID)
	assert.Equal(t, "185/65 R14", r.Medida)
	assert.Equal(t, "PIRELLI", r.MarcaInterna)
	assert.Equal(t, "Pirelli BR", r.MarcaConcorrente)
	assert.InDelta(t, 350.5, r.Preco, 0.0001)
	assert.InDelta(t, 280.0, r.SellIn, 0.0001)
	assert.InDelta(t, 0.25, r.Mkp, 0.0001)
	assert.Equal(t, "2024-12-25T00:00:00Z", r.Data)
}

func TestFormatMeasureWithoutProfile(t *testing.T) {
	assert.Equal(t, "700x16 R16", formatMeasure("700x16", "", "16"))
	assert.Equal(t, "185/65 R14", formatMeasure("185", "65", "14"))
}
