package repository

import (
	"context"

	"github.com/Igordev7/PricetireForce/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for catalog entries.
// The ingestion pipeline depends on this interface, not on GORM, enabling
// clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	DistinctWidths(ctx context.Context) ([]string, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("unique_code = ?", code).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DistinctBrands lists every internal brand in the catalog, sorted. Feeds
// the dashboard filter dropdowns regardless of the active filter.
func (r *productRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct("brand").
		Where("brand <> ''").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	return brands, err
}

func (r *productRepo) DistinctWidths(ctx context.Context) ([]string, error) {
	var widths []string
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct("width").
		Where("width <> ''").
		Order("width ASC").
		Pluck("width", &widths).Error
	return widths, err
}
