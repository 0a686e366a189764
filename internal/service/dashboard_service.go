package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardService answers the analytical queries over the accumulated
// price history. Read-only — safe to run concurrently with ingestion.
type DashboardService interface {
	Data(ctx context.Context, filter dto.DashboardFilter) ([]dto.TableRow, error)
	Analytics(ctx context.Context, filter dto.DashboardFilter) (*dto.AnalyticsResponse, error)
}

type dashboardService struct {
	history  repository.PriceHistoryRepository
	products repository.ProductRepository
}

func NewDashboardService(history repository.PriceHistoryRepository, products repository.ProductRepository) DashboardService {
	return &dashboardService{history: history, products: products}
}

// Data returns the joined (record, product) projections for the table,
// newest collection first.
func (s *dashboardService) Data(ctx context.Context, filter dto.DashboardFilter) ([]dto.TableRow, error) {
	rows, err := s.history.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TableRow{
			ID:                r.ID.String(),
			Produto:           r.ProductName,
			Medida:            formatMeasure(r.Width, r.Profile, r.Rim),
			MarcaInterna:      r.Brand,
			ModeloInterno:     r.Model,
			MarcaConcorrente:  r.CompetitorBrand,
			ModeloConcorrente: r.CompetitorModel,
			Aro:               r.Rim,
			Origin:            r.Origin,
			Concorrente:       r.Competitor,
			City:              r.City,
			Preco:             r.Price.InexactFloat64(),
			SellIn:            r.SellIn.InexactFloat64(),
			Mkp:               r.Markup.InexactFloat64(),
			Data:              r.DateCollected.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Analytics computes the summary statistics over the filtered set. The
// distinct-value lists always come from the unfiltered catalog: they feed
// the filter dropdowns, not the filtered result.
func (s *dashboardService) Analytics(ctx context.Context, filter dto.DashboardFilter) (*dto.AnalyticsResponse, error) {
	rows, err := s.history.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := summarize(rows)

	if resp.BrandsList, err = s.products.DistinctBrands(ctx); err != nil {
		return nil, err
	}
	if resp.CompetitorsList, err = s.history.DistinctCompetitors(ctx); err != nil {
		return nil, err
	}
	if resp.ConcorrentesBrandsList, err = s.history.DistinctCompetitorBrands(ctx); err != nil {
		return nil, err
	}
	if resp.MedidasList, err = s.products.DistinctWidths(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

// summarize aggregates the filtered rows. An empty set yields zeroed
// numbers and "-" sentinels.
func summarize(rows []repository.PriceRow) *dto.AnalyticsResponse {
	resp := &dto.AnalyticsResponse{
		TopAro:              "-",
		TopConcorrente:      "-",
		TopMarcaConcorrente: "-",
	}
	if len(rows) == 0 {
		return resp
	}

	resp.Total = len(rows)

	sum := decimal.Zero
	min := rows[0].Price
	max := rows[0].Price
	for _, r := range rows {
		sum = sum.Add(r.Price)
		if r.Price.LessThan(min) {
			min = r.Price
		}
		if r.Price.GreaterThan(max) {
			max = r.Price
		}
	}
	resp.Media = sum.Div(decimal.NewFromInt(int64(len(rows)))).InexactFloat64()
	resp.Minimo = min.InexactFloat64()
	resp.Maximo = max.InexactFloat64()

	// Mean markup over rows that actually carry one, as a percentage.
	markupSum, markupCount := decimal.Zero, 0
	for _, r := range rows {
		if !r.Markup.IsZero() {
			markupSum = markupSum.Add(r.Markup)
			markupCount++
		}
	}
	if markupCount > 0 {
		resp.MargemMedia = markupSum.
			Div(decimal.NewFromInt(int64(markupCount))).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
	}

	resp.TopAro = modal(rows, func(r repository.PriceRow) string { return r.Rim })
	resp.TopMarcaConcorrente = modal(rows, func(r repository.PriceRow) string { return r.CompetitorBrand })

	// Competitor holding the single cheapest record; ties go to the row a
	// stable ascending sort surfaces first.
	byPrice := make([]repository.PriceRow, len(rows))
	copy(byPrice, rows)
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].Price.LessThan(byPrice[j].Price)
	})
	resp.TopConcorrente = byPrice[0].Competitor

	return resp
}

// modal returns the most frequent non-empty value; ties break toward the
// value encountered first in row order.
func modal(rows []repository.PriceRow, key func(repository.PriceRow) string) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		k := key(r)
		if k == "" || k == "0" {
			continue
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	best, bestCount := "-", 0
	for _, k := range order {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func formatMeasure(width, profile, rim string) string {
	if profile == "" {
		return fmt.Sprintf("%s R%s", width, rim)
	}
	return fmt.Sprintf("%s/%s R%s", width, profile, rim)
}
