package domain

// ColorStop anchors a color at a position on a scale's value axis.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// ColorScale describes a color mapping for the presentation layer: the
// value range it spans and the stops to interpolate between.
type ColorScale struct {
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
	Stops []ColorStop `json:"stops"`
}

// TrendColorScale is the fixed diverging scale for normalized acceleration:
// burnt orange for the strongest deceleration, neutral grey for no change,
// deep purple for the strongest acceleration.
func TrendColorScale() ColorScale {
	return ColorScale{
		Min: -1,
		Max: 1,
		Stops: []ColorStop{
			{Position: -1, Color: "#D55E00"},
			{Position: 0, Color: "rgba(128,128,128,0.1)"},
			{Position: 1, Color: "#4B0082"},
		},
	}
}

// VariationColorScale is the continuous [0, 1] scale for normalized rainfall
// variability on the station map.
func VariationColorScale() ColorScale {
	return ColorScale{
		Min: 0,
		Max: 1,
		Stops: []ColorStop{
			{Position: 0, Color: "#30123B"},
			{Position: 0.5, Color: "#1AE4B6"},
			{Position: 1, Color: "#7A0403"},
		},
	}
}
