package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/model"
	"github.com/Igordev7/PricetireForce/internal/normalize"
	"github.com/Igordev7/PricetireForce/internal/repository"

	"github.com/rs/zerolog/log"
)

// Config is the locale configuration for a pipeline instance.
type Config struct {
	DefaultCity    string
	DefaultRegion  string
	FilenameCities map[string]CityRegion
	// Source tag recorded on every price observation, e.g. "UPLOAD".
	Source string
}

// Pipeline orchestrates one file ingestion: tabular parse → column
// identification → per-row normalization → product resolution → record
// accumulation → transactional batch write.
//
// Failure policy: parse and column-mapping failures are fatal for the
// file and nothing is written; a bad row only decrements the success
// count and never aborts the file.
type Pipeline struct {
	norm     *normalize.Normalizer
	columns  *ColumnIdentifier
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	cfg      Config
}

func NewPipeline(
	norm *normalize.Normalizer,
	columns *ColumnIdentifier,
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	cfg Config,
) *Pipeline {
	if cfg.Source == "" {
		cfg.Source = model.SourceUpload
	}
	if cfg.FilenameCities == nil {
		cfg.FilenameCities = DefaultFilenameCities()
	}
	return &Pipeline{norm: norm, columns: columns, products: products, history: history, cfg: cfg}
}

// Ingest processes one uploaded file and returns the per-file summary.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (*dto.ImportSummary, error) {
	rows, err := parseTabular(data, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sem cabeçalho", ErrUnreadableFile)
	}

	mapping, err := p.columns.Identify(rows[0])
	if err != nil {
		return nil, err
	}

	locale := detectLocale(filename, p.cfg.FilenameCities, CityRegion{
		City:   p.cfg.DefaultCity,
		Region: p.cfg.DefaultRegion,
	})

	resolver := NewProductResolver(p.products)

	records := make([]model.PriceHistory, 0, len(rows)-1)
	var skips []dto.RowSkip

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, header is line 1
		record, skipReason := p.processRow(ctx, resolver, mapping, row, locale)
		if skipReason != "" {
			skips = append(skips, dto.RowSkip{Line: line, Reason: skipReason})
			continue
		}
		records = append(records, *record)
	}

	if err := p.history.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("gravação do histórico: %w", err)
	}

	log.Info().
		Str("file", filename).
		Int("imported", len(records)).
		Int("skipped", len(skips)).
		Str("city", locale.City).
		Str("region", locale.Region).
		Msg("arquivo processado")

	return &dto.ImportSummary{
		Status:   "sucesso",
		Message:  fmt.Sprintf("Processado! %d registros importados, %d ignorados.", len(records), len(skips)),
		Imported: len(records),
		Skipped:  len(skips),
		City:     locale.City,
		Region:   locale.Region,
		Skips:    skips,
	}, nil
}

var rimInMeasure = regexp.MustCompile(`(?i)R\s*([0-9]+(?:[.,][0-9]+)?)\s*$`)

// processRow normalizes one data row. A non-empty skip reason means the
// row was rejected; the reason is reported on the summary so operators
// can see why rows were dropped instead of the count silently shrinking.
func (p *Pipeline) processRow(
	ctx context.Context,
	resolver *ProductResolver,
	mapping ColumnMapping,
	row []string,
	locale CityRegion,
) (*model.PriceHistory, string) {
	cell := func(f Field) string {
		idx, ok := mapping[f]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	if isBlankRow(row) {
		return nil, "linha vazia"
	}

	sell := p.norm.Money(cell(FieldPrice))
	if !sell.IsPositive() {
		return nil, "preço sell-out ausente ou inválido"
	}

	brand := strings.ToUpper(cell(FieldBrand))
	productModel := strings.ToUpper(cell(FieldModel))
	measure := cell(FieldWidth)
	if brand == "" && productModel == "" && measure == "" {
		return nil, "produto não identificado"
	}

	rim := p.norm.Rim(cell(FieldRim))
	if rim == "0" {
		// No rim column (or no numeric content) — try the measure suffix,
		// "185/65 R14" style.
		if m := rimInMeasure.FindStringSubmatch(measure); m != nil {
			rim = p.norm.Rim(m[1])
		}
	}

	cost := p.norm.Money(cell(FieldCost))
	markup := p.norm.Markup(cell(FieldMarkup), sell, cost)
	competitor := p.norm.CompanyName(cell(FieldCompetitor))
	competitorBrand := cell(FieldCompetitorBrand) // as observed, not normalized
	competitorModel := cell(FieldCompetitorModel)
	origin := p.norm.Origin(cell(FieldOrigin))
	collected := p.norm.Date(cell(FieldDate))

	city, region := locale.City, locale.Region
	if loc := cell(FieldLocation); loc != "" {
		if len([]rune(loc)) == 2 {
			region = p.norm.Region(loc, locale.Region)
		} else {
			city = loc
		}
	}

	product, err := resolver.Resolve(ctx, ProductSpec{
		Brand:           brand,
		Model:           productModel,
		Measure:         measure,
		Rim:             rim,
		CompetitorBrand: competitorBrand,
	})
	if err != nil {
		log.Warn().Err(err).Str("brand", brand).Str("model", productModel).Msg("falha ao resolver produto")
		return nil, "falha ao resolver produto"
	}

	return &model.PriceHistory{
		ProductID:       product.ID,
		Competitor:      competitor,
		CompetitorBrand: competitorBrand,
		CompetitorModel: competitorModel,
		Price:           sell,
		SellIn:          cost,
		Markup:          markup,
		Origin:          origin,
		Region:          region,
		City:            city,
		DateCollected:   collected,
		Source:          p.cfg.Source,
	}, ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
