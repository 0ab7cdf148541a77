package prices

import (
	"math"
	"sort"
	"time"

	"github.com/koulakhilesh/OpenEnergy/core/model"
)

const (
	// DaysInWeek is the default lookback used for the planning series.
	DaysInWeek = 7
	// DefaultPriceColumn matches the open-power-system-data day-ahead feed.
	DefaultPriceColumn = "GB_GBN_price_day_ahead"
	// DefaultTimestampColumn is the timestamp column of that feed.
	DefaultTimestampColumn = "utc_timestamp"

	hoursPerDay = 24
)

// HistoricalAveragePriceModel plans against the per-hour mean of the prior
// week and realizes against the day's recorded prices.
type HistoricalAveragePriceModel struct {
	priorDays int
	points    []PricePoint
}

// AverageModelOption customises the historical model.
type AverageModelOption func(*averageModelParams)

type averageModelParams struct {
	priorDays       int
	priceColumn     string
	timestampColumn string
	interpolate     bool
}

// WithPriorDays overrides the planning lookback window.
func WithPriorDays(days int) AverageModelOption {
	return func(p *averageModelParams) { p.priorDays = days }
}

// WithColumns overrides the source column names.
func WithColumns(priceColumn, timestampColumn string) AverageModelOption {
	return func(p *averageModelParams) {
		p.priceColumn = priceColumn
		p.timestampColumn = timestampColumn
	}
}

// WithoutInterpolation disables linear gap filling.
func WithoutInterpolation() AverageModelOption {
	return func(p *averageModelParams) { p.interpolate = false }
}

// NewHistoricalAveragePriceModel loads all observations from the provider
// up front, optionally interpolating gaps, so per-day lookups stay cheap.
func NewHistoricalAveragePriceModel(provider DataProvider, opts ...AverageModelOption) (*HistoricalAveragePriceModel, error) {
	params := averageModelParams{
		priorDays:       DaysInWeek,
		priceColumn:     DefaultPriceColumn,
		timestampColumn: DefaultTimestampColumn,
		interpolate:     true,
	}
	for _, opt := range opts {
		opt(&params)
	}

	points, err := provider.GetData(params.priceColumn, params.timestampColumn)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, model.NewDataError("price data provider returned no observations")
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	if params.interpolate {
		interpolateGaps(points)
	}
	return &HistoricalAveragePriceModel{priorDays: params.priorDays, points: points}, nil
}

// GetPrices returns the prior-week hourly averages as the planning series
// and the day's own observations as the realized series.
func (m *HistoricalAveragePriceModel) GetPrices(date time.Time) ([]float64, []float64, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	priorStart := dayStart.AddDate(0, 0, -m.priorDays)

	var sums, counts [hoursPerDay]float64
	var actual []float64
	for _, p := range m.points {
		ts := p.Timestamp.UTC()
		switch {
		case !ts.Before(priorStart) && ts.Before(dayStart):
			if !math.IsNaN(p.Price) {
				sums[ts.Hour()] += p.Price
				counts[ts.Hour()]++
			}
		case !ts.Before(dayStart) && ts.Before(dayStart.AddDate(0, 0, 1)):
			actual = append(actual, p.Price)
		}
	}

	planning := make([]float64, 0, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		if counts[h] == 0 {
			return nil, nil, model.NewDataError("no price data for hour %d in the %d days before %s", h, m.priorDays, dayStart.Format("2006-01-02"))
		}
		planning = append(planning, sums[h]/counts[h])
	}
	return planning, actual, nil
}

// interpolateGaps fills NaN prices linearly between the nearest valid
// neighbours; leading and trailing gaps copy the closest valid value.
func interpolateGaps(points []PricePoint) {
	n := len(points)
	prev := -1
	for i := 0; i < n; i++ {
		if math.IsNaN(points[i].Price) {
			continue
		}
		if prev == -1 {
			for j := 0; j < i; j++ {
				points[j].Price = points[i].Price
			}
		} else if i-prev > 1 {
			step := (points[i].Price - points[prev].Price) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				points[j].Price = points[prev].Price + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev == -1 {
		return
	}
	for j := prev + 1; j < n; j++ {
		points[j].Price = points[prev].Price
	}
}
