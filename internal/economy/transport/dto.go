// Package transport defines the financial series response shapes.
package transport

// MonthBucket is one calendar month of realized and forecast figures.
// Done figures come from completed bookings, forecast figures from
// customer-approved offers.
type MonthBucket struct {
	Month string `json:"month"`

	DoneCount      int     `json:"doneCount"`
	DoneGross      float64 `json:"doneGross"`
	DoneVAT        float64 `json:"doneVat"`
	DoneNet        float64 `json:"doneNet"`
	DonePassengers int     `json:"donePassengers"`

	ForecastCount      int     `json:"forecastCount"`
	ForecastGross      float64 `json:"forecastGross"`
	ForecastVAT        float64 `json:"forecastVat"`
	ForecastNet        float64 `json:"forecastNet"`
	ForecastPassengers int     `json:"forecastPassengers"`

	CommissionForecast float64 `json:"commissionForecast"`
}

// SeriesResponse is the rollup output for a date range: one bucket per
// overlapping month plus a grand total row.
type SeriesResponse struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Buckets []MonthBucket `json:"buckets"`
	Total   MonthBucket   `json:"total"`
}
