package weather

import (
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Class is the two-valued outlook derived from a whole forecast window.
type Class string

const (
	ClassSunny Class = "sunny"
	ClassRainy Class = "rainy"
)

// Data sources a forecast day's provenance can name.
const (
	SourceExternalFusion = "external_fusion"
	SourceLocalOnly      = "local_only"
)

// Day is one calendar day of a forecast or history series.
// Dates within one series are unique and chronologically ordered.
type Day struct {
	Date            string      `json:"date"`
	TemperatureC    float64     `json:"temperature_c"`
	TMax            float64     `json:"tmax"`
	TMin            float64     `json:"tmin"`
	PrecipitationMM float64     `json:"precipitation_mm"`
	Humidity        float64     `json:"humidity"`
	WindSpeedMS     float64     `json:"wind_speed_ms"`
	Provenance      *Provenance `json:"calculation_details,omitempty"`
}

// Provenance describes how a day's values were produced. It is forwarded as-is;
// weights are never recomputed or validated here.
type Provenance struct {
	DataSource   string   `json:"data_source"`
	ExternalTemp *float64 `json:"external_temp"`
	ExternalPrec *float64 `json:"external_prec"`
	LocalTemp    float64  `json:"local_temp"`
	LocalPrec    float64  `json:"local_prec"`
	Weights      Weights  `json:"weights"`
}

// Weights of the external source and the local model in a fused value.
type Weights struct {
	External float64 `json:"external"`
	Local    float64 `json:"local"`
}

// Fused reports whether the day blends an external source with the local model.
func (p *Provenance) Fused() bool {
	return p != nil && p.DataSource == SourceExternalFusion
}

// Extreme is one entry of the extreme-weather summary.
type Extreme struct {
	Date            string   `json:"date"`
	Level           string   `json:"level"`
	TMax            float64  `json:"tmax"`
	TMin            float64  `json:"tmin"`
	PrecipitationMM float64  `json:"precipitation_mm"`
	Reasons         []string `json:"reasons"`
}

// HighRisk reports whether the backend flagged the day as high risk.
func (e Extreme) HighRisk() bool {
	return common.EqualsAny(e.Level, "高风险", "High")
}

// DateKey reduces a date or timestamp string to its ISO calendar day.
func DateKey(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i == 10 {
		return s[:10]
	}
	return s
}
