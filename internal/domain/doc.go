// Package domain models the Toulouse water-level and rainfall open datasets
// and implements the numeric pipelines behind the exploration dashboard.
//
// # Data Sources
//
// Both datasets come from the Hackaviz 2025 data pack for the Toulouse
// metropolitan area. They are tabular exports with French column labels:
//
//	hauteur_eau_quotidienne_toulouse — daily river water height.
//	  date_observation            → observation date
//	  max(hauteur, na.rm = TRUE)  → water height in millimetres
//	pluviometrie — per-station daily rainfall.
//	  date_observation            → observation date
//	  nom_usuel                   → station name (stable key)
//	  latitude, longitude         → WGS-84 station coordinates
//	  precipitation               → daily precipitation in millimetres
//
// The water-height column label is a leftover R aggregation expression; the
// loader renames it at ingest. Station coordinates are assumed constant per
// station within any query window.
//
// # Sensor Faults
//
// Water heights at or above 10000 mm are sensor faults in the source feed.
// They are excluded when the dataset is loaded, never downstream, so every
// pipeline in this package may assume heights below the ceiling.
//
// # Derivative Conventions
//
// The water trend is differenced against elapsed seconds between consecutive
// daily aggregates:
//
//	velocity[i]     = (height[i] - height[i-1]) / Δt[i]      (mm/s)
//	acceleration[i] = (velocity[i] - velocity[i-1]) / Δt[i]  (mm/s²)
//
// The first element of a series has no predecessor; its delta, velocity, and
// acceleration are defined as zero. Divisions are guarded: a zero elapsed
// time yields zero rather than a fault, keeping the trend always renderable.
// Acceleration is rescaled to [-1, 1] by the series maximum absolute value
// for mapping onto the diverging trend color scale; a series with no
// variation normalizes to all zeros.
//
// # Rainfall Aggregation
//
// Station summaries cover an inclusive date interval: total precipitation is
// the sum of present records, variability is the sample standard deviation
// (zero with fewer than two records). Stations are ranked by total and cut
// to the top N; the variability normalization denominator is scoped to the
// retained set only. Days without a record are unobserved, not zero, unless
// zero-filling is explicitly requested (see [RainfallOptions]).
package domain
