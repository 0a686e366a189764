package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Igordev7/PricetireForce/internal/model"
	"github.com/Igordev7/PricetireForce/internal/repository"

	"gorm.io/gorm"
)

// ProductSpec carries the normalized identity of a product plus the
// catalog-descriptive extras captured on first sight.
type ProductSpec struct {
	Brand   string // normalized (upper, trimmed)
	Model   string // normalized (upper, trimmed)
	Measure string // raw measure, e.g. "185/65"
	Rim     string // canonical rim string
	// CompetitorBrand is informational only — stored on the catalog row
	// the first time the product is seen.
	CompetitorBrand string
}

var codeStripper = strings.NewReplacer(" ", "", "/", "")

// UniqueCode derives the deterministic catalog key. Whitespace and slashes
// are stripped so "185/65" and "185 / 65" collapse to the same code.
func UniqueCode(brand, model, measure string) string {
	return codeStripper.Replace(fmt.Sprintf("%s-%s-%s", brand, model, measure))
}

// ProductResolver looks up or lazily creates catalog entries. A per-file
// memo avoids re-querying the store for every row of the same product.
type ProductResolver struct {
	products repository.ProductRepository
	memo     map[string]*model.Product
}

func NewProductResolver(products repository.ProductRepository) *ProductResolver {
	return &ProductResolver{products: products, memo: make(map[string]*model.Product)}
}

// Resolve returns the catalog entry for the given identity, creating it on
// first sight. A uniqueness violation on insert means another ingestion
// created the row concurrently — re-fetch instead of failing.
func (r *ProductResolver) Resolve(ctx context.Context, spec ProductSpec) (*model.Product, error) {
	code := UniqueCode(spec.Brand, spec.Model, spec.Measure)

	if p, ok := r.memo[code]; ok {
		return p, nil
	}

	p, err := r.products.FindByCode(ctx, code)
	switch {
	case err == nil:
		r.memo[code] = p
		return p, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	width, profile := splitMeasure(spec.Measure)
	p = &model.Product{
		UniqueCode:      code,
		Name:            fmt.Sprintf("Pneu %s %s %s", spec.Brand, spec.Model, spec.Measure),
		Brand:           spec.Brand,
		Model:           spec.Model,
		CompetitorBrand: spec.CompetitorBrand,
		Width:           width,
		Profile:         profile,
		Rim:             spec.Rim,
	}
	if err := r.products.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, fetchErr := r.products.FindByCode(ctx, code)
			if fetchErr != nil {
				return nil, fetchErr
			}
			r.memo[code] = existing
			return existing, nil
		}
		return nil, err
	}
	r.memo[code] = p
	return p, nil
}

// splitMeasure breaks "185/65 R14" into width "185" and profile "65".
// Measures without a slash keep the whole value as the width.
func splitMeasure(measure string) (width, profile string) {
	if !strings.Contains(measure, "/") {
		return measure, ""
	}
	parts := strings.SplitN(measure, "/", 2)
	width = strings.TrimSpace(parts[0])
	profile = parts[1]
	if fields := strings.Fields(profile); len(fields) > 0 {
		profile = fields[0]
	} else {
		profile = ""
	}
	return width, profile
}
