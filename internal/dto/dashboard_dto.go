package dto

// DashboardFilter is the open set of optional filter dimensions accepted
// by /dashboard-data and /analytics. Dimensions combine with AND and are
// order-independent; empty values and the "all" sentinels skip the
// dimension entirely. Brand, rim, competitor and competitor_brand accept
// comma-separated multi-value lists.
type DashboardFilter struct {
	Region          string `form:"region"`
	Brand           string `form:"brand"`
	Rim             string `form:"rim"`
	Competitor      string `form:"competitor"`
	CompetitorBrand string `form:"competitor_brand"`
	Origin          string `form:"origin"`
	Search          string `form:"search"`
}

// Sentinel values the frontend sends for "no filter".
const (
	AllRegions = "Todas"
	AllOrigins = "Todos"
)

// TableRow is one joined (price record, product) projection as the
// dashboard table consumes it. Field names follow the frontend contract.
type TableRow struct {
	ID                string  `json:"id"`
	Produto           string  `json:"produto"`
	Medida            string  `json:"medida"`
	MarcaInterna      string  `json:"marca_interna"`
	ModeloInterno     string  `json:"modelo_interno"`
	MarcaConcorrente  string  `json:"marca_concorrente"`
	ModeloConcorrente string  `json:"modelo_concorrente"`
	Aro               string  `json:"aro"`
	Origin            string  `json:"origin"`
	Concorrente       string  `json:"concorrente"`
	City              string  `json:"city"`
	Preco             float64 `json:"preco"`
	SellIn            float64 `json:"sell_in"`
	Mkp               float64 `json:"mkp"`
	Data              string  `json:"data"`
}

// AnalyticsResponse carries the summary statistics for the filtered set
// plus the distinct-value lists that populate the filter dropdowns. The
// lists always come from the full catalog, even when the filter matches
// nothing.
type AnalyticsResponse struct {
	Total                  int      `json:"total"`
	Media                  float64  `json:"media"`
	Minimo                 float64  `json:"minimo"`
	Maximo                 float64  `json:"maximo"`
	TopAro                 string   `json:"top_aro"`
	TopConcorrente         string   `json:"top_concorrente"`
	TopMarcaConcorrente    string   `json:"top_marca_concorrente"`
	MargemMedia            float64  `json:"margem_media"`
	CompetitorsList        []string `json:"competitors_list"`
	BrandsList             []string `json:"brands_list"`
	ConcorrentesBrandsList []string `json:"concorrentes_brands_list"`
	MedidasList            []string `json:"medidas_list"`
}
