package domain

import "time"

// FaultCeiling is the water-height value (mm) at and above which a reading
// is considered a sensor fault. Faulty readings are dropped at load time.
const FaultCeiling = 10000

// WaterObservation is a single raw water-height reading. Date is truncated
// to UTC midnight; several observations may share a date.
type WaterObservation struct {
	Date   time.Time
	Height float64 // millimetres
}

// RainObservation is a single per-station daily rainfall record.
type RainObservation struct {
	Station       string
	Lat           float64
	Lon           float64
	Date          time.Time
	Precipitation float64 // millimetres, >= 0
}

// DailyAggregate is one point of the derived water trend: the per-day
// aggregated height plus its first and second discrete time-derivatives.
type DailyAggregate struct {
	Date         time.Time `json:"date"`
	WaterHeight  float64   `json:"water_height"`
	DeltaHeight  float64   `json:"delta_height"`
	DeltaSeconds float64   `json:"delta_time_seconds"`
	Velocity     float64   `json:"velocity"`
	Acceleration float64   `json:"acceleration"`

	// NormalizedAcceleration is Acceleration rescaled to [-1, 1] by the
	// series maximum absolute acceleration, for color mapping.
	NormalizedAcceleration float64 `json:"normalized_acceleration"`
}

// StationSummary aggregates one rainfall station over a date interval.
type StationSummary struct {
	Station            string  `json:"station"`
	Lat                float64 `json:"latitude"`
	Lon                float64 `json:"longitude"`
	PrecipitationTotal float64 `json:"precipitation_total"`

	// PrecipitationVariability is the sample standard deviation of the
	// station's records in the window, zero with fewer than two samples.
	PrecipitationVariability float64 `json:"precipitation_variability"`

	// VariationNorm is PrecipitationVariability rescaled to [0, 1] across
	// the retained top-N set.
	VariationNorm float64 `json:"variation_norm"`
}
