package repository

import (
	"context"
	"time"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceRow is the joined (price record, product) projection the dashboard
// queries consume. Column aliases line up with the SELECT in Query.
type PriceRow struct {
	ID              uuid.UUID       `gorm:"column:id"`
	ProductName     string          `gorm:"column:product_name"`
	Brand           string          `gorm:"column:brand"`
	Model           string          `gorm:"column:model"`
	Width           string          `gorm:"column:width"`
	Profile         string          `gorm:"column:profile"`
	Rim             string          `gorm:"column:rim"`
	Competitor      string          `gorm:"column:competitor"`
	CompetitorBrand string          `gorm:"column:competitor_brand"`
	CompetitorModel string          `gorm:"column:competitor_model"`
	Price           decimal.Decimal `gorm:"column:price"`
	SellIn          decimal.Decimal `gorm:"column:sell_in"`
	Markup          decimal.Decimal `gorm:"column:markup"`
	Origin          string          `gorm:"column:origin"`
	Region          string          `gorm:"column:region"`
	City            string          `gorm:"column:city"`
	DateCollected   time.Time       `gorm:"column:date_collected"`
}

// PriceHistoryRepository is the append-only store of price observations.
type PriceHistoryRepository interface {
	// CreateBatch writes all accepted rows of one file inside a single
	// transaction so readers never see a half-imported file.
	CreateBatch(ctx context.Context, records []model.PriceHistory) error
	// Query returns the filtered joined rows, newest collection first.
	Query(ctx context.Context, filter dto.DashboardFilter) ([]PriceRow, error)
	DistinctCompetitors(ctx context.Context) ([]string, error)
	DistinctCompetitorBrands(ctx context.Context) ([]string, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateBatch(ctx context.Context, records []model.PriceHistory) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, 500).Error
	})
}

func (r *priceHistoryRepo) Query(ctx context.Context, filter dto.DashboardFilter) ([]PriceRow, error) {
	q := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Select(`price_histories.id,
			products.name AS product_name,
			products.brand,
			products.model,
			products.width,
			products.profile,
			products.rim,
			price_histories.competitor,
			price_histories.competitor_brand,
			price_histories.competitor_model,
			price_histories.price,
			price_histories.sell_in,
			price_histories.markup,
			price_histories.origin,
			price_histories.region,
			price_histories.city,
			price_histories.date_collected`).
		Joins("JOIN products ON products.id = price_histories.product_id").
		Scopes(FilterScopes(filter)...).
		Order("price_histories.date_collected DESC")

	var rows []PriceRow
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *priceHistoryRepo) DistinctCompetitors(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Distinct("competitor").
		Where("competitor <> ''").
		Order("competitor ASC").
		Pluck("competitor", &out).Error
	return out, err
}

func (r *priceHistoryRepo) DistinctCompetitorBrands(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Distinct("competitor_brand").
		Where("competitor_brand <> ''").
		Order("competitor_brand ASC").
		Pluck("competitor_brand", &out).Error
	return out, err
}
