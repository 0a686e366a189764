package ingest

import (
	"sort"
	"strings"
)

// CityRegion is the default collection location inferred for a file.
// Overridden per row when the file carries an explicit location column.
type CityRegion struct {
	City   string
	Region string
}

// DefaultFilenameCities maps filename markers to the city and region the
// competitor usually reports from. Branch files arrive named after the
// branch city ("precos_goiania_jan.xlsx").
func DefaultFilenameCities() map[string]CityRegion {
	return map[string]CityRegion{
		"sao_paulo": {City: "São Paulo", Region: "SE"},
		"saopaulo":  {City: "São Paulo", Region: "SE"},
		"rio":       {City: "Rio de Janeiro", Region: "SE"},
		"goiania":   {City: "Goiânia", Region: "CO"},
		"curitiba":  {City: "Curitiba", Region: "S"},
		"recife":    {City: "Recife", Region: "NE"},
		"manaus":    {City: "Manaus", Region: "N"},
	}
}

// detectLocale scans the filename for a known city marker; files without
// one get the system-wide default.
func detectLocale(filename string, cities map[string]CityRegion, def CityRegion) CityRegion {
	name := strings.ToLower(filename)
	markers := make([]string, 0, len(cities))
	for m := range cities {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	for _, marker := range markers {
		if strings.Contains(name, marker) {
			return cities[marker]
		}
	}
	return def
}
