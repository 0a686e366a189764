package repository

import (
	"strings"

	"github.com/Igordev7/PricetireForce/internal/dto"

	"gorm.io/gorm"
)

// FilterScopes composes the dashboard filter into independent GORM scopes.
// Each dimension contributes one AND condition (or none when it holds an
// "all" sentinel), so applying the scopes in any order yields the same
// result set.
func FilterScopes(f dto.DashboardFilter) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if f.Region != "" && f.Region != dto.AllRegions {
		region := f.Region
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("price_histories.region = ?", region)
		})
	}

	if vals := splitMulti(f.Brand); len(vals) > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("products.brand IN ?", vals)
		})
	}
	if vals := splitMulti(f.Rim); len(vals) > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("products.rim IN ?", vals)
		})
	}
	if vals := splitMulti(f.Competitor); len(vals) > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("price_histories.competitor IN ?", vals)
		})
	}
	if vals := splitMulti(f.CompetitorBrand); len(vals) > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("price_histories.competitor_brand IN ?", vals)
		})
	}

	if f.Origin != "" && f.Origin != dto.AllOrigins && f.Origin != dto.AllRegions {
		origin := f.Origin
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("price_histories.origin = ?", origin)
		})
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(`LOWER(products.name) LIKE ?
				OR LOWER(products.brand) LIKE ?
				OR LOWER(products.competitor_brand) LIKE ?
				OR LOWER(products.width) LIKE ?
				OR LOWER(products.rim) LIKE ?
				OR LOWER(price_histories.competitor) LIKE ?
				OR LOWER(price_histories.competitor_brand) LIKE ?
				OR LOWER(price_histories.city) LIKE ?`,
				needle, needle, needle, needle, needle, needle, needle, needle)
		})
	}

	return scopes
}

// splitMulti parses a comma-separated multi-value parameter, dropping
// blanks and "all" sentinels. An empty result means "skip the dimension".
func splitMulti(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		if v == "" || v == dto.AllRegions || v == dto.AllOrigins {
			continue
		}
		out = append(out, v)
	}
	return out
}
