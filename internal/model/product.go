package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog entry in the normalized tire catalog.
// UniqueCode is a pure function of (normalized brand, model, measure) —
// identical inputs always resolve to the same row, never a duplicate.
// Catalog rows are created lazily on the first price observation and are
// only ever mutated by the ingestion pipeline.
type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UniqueCode string    `gorm:"uniqueIndex;not null"`
	Name       string    `gorm:"index;not null"`
	Brand      string    `gorm:"index;not null"` // marca interna
	Model      string    `gorm:"not null"`
	// CompetitorBrand keeps the first-seen competitor brand for display only;
	// per-observation values live on PriceHistory.
	CompetitorBrand string
	Width           string
	Profile         string
	Rim             string `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
