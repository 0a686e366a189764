package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origin classification for a collected price.
const (
	OriginNacional  = "NACIONAL"
	OriginImportado = "IMPORTADO"
	OriginUnknown   = "-"
)

// Source tags for price observations.
const (
	SourceUpload    = "UPLOAD"
	SourceImportCSV = "IMPORTACAO_CSV"
)

// PriceHistory registra cada preço coletado de um concorrente.
// Registros são imutáveis — correções entram como novos registros,
// nunca como updates.
type PriceHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Competitor string    `gorm:"index;not null"`
	// CompetitorBrand/Model are stored as observed in the source file,
	// not normalized against the catalog.
	CompetitorBrand string
	CompetitorModel string
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellIn          decimal.Decimal `gorm:"type:decimal(10,2)"`
	// Markup = (price / sell_in) - 1, as a decimal fraction.
	Markup        decimal.Decimal `gorm:"type:decimal(8,4)"`
	Origin        string          `gorm:"type:varchar(10);not null;default:'-'"`
	Region        string          `gorm:"type:varchar(2);index"`
	City          string
	DateCollected time.Time `gorm:"index"`
	Source        string    `gorm:"not null"`
	CreatedAt     time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}
