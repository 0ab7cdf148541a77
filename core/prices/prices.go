package prices

import "time"

// PriceSource produces the two per-day price series the simulator consumes:
// the planning series the scheduler optimises against and the realized
// series profit and loss is scored with. Both carry one value per interval.
type PriceSource interface {
	GetPrices(date time.Time) (planning, actual []float64, err error)
}

// PricePoint is a single timestamped observation from a tabular source.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// DataProvider supplies raw price observations for data-backed models.
type DataProvider interface {
	GetData(priceColumn, timestampColumn string) ([]PricePoint, error)
}
