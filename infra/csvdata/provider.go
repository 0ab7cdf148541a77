package csvdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/koulakhilesh/OpenEnergy/core/model"
	"github.com/koulakhilesh/OpenEnergy/core/prices"
)

// timestampLayouts covers the formats seen in open power system data
// exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Provider reads price observations from a CSV file with a header row.
// Empty price cells become NaN so downstream models can interpolate them.
type Provider struct {
	path string
}

// New returns a provider for the given file path. The file is read on each
// GetData call, not held open.
func New(path string) *Provider {
	return &Provider{path: path}
}

// GetData extracts the requested price and timestamp columns in row order.
// Missing columns or unparsable rows yield a DataError.
func (p *Provider) GetData(priceColumn, timestampColumn string) ([]prices.PricePoint, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open price data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, model.NewDataError("read csv header from %s: %v", p.path, err)
	}

	priceIdx, tsIdx := -1, -1
	for i, name := range header {
		switch name {
		case priceColumn:
			priceIdx = i
		case timestampColumn:
			tsIdx = i
		}
	}
	if priceIdx == -1 {
		return nil, model.NewDataError("price column %q not found in %s", priceColumn, p.path)
	}
	if tsIdx == -1 {
		return nil, model.NewDataError("timestamp column %q not found in %s", timestampColumn, p.path)
	}

	var points []prices.PricePoint
	line := 1
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		line++

		ts, err := parseTimestamp(record[tsIdx])
		if err != nil {
			return nil, model.NewDataError("line %d: %v", line, err)
		}

		price := math.NaN()
		if record[priceIdx] != "" {
			price, err = strconv.ParseFloat(record[priceIdx], 64)
			if err != nil {
				return nil, model.NewDataError("line %d: bad price %q", line, record[priceIdx])
			}
		}
		points = append(points, prices.PricePoint{Timestamp: ts, Price: price})
	}
	return points, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
