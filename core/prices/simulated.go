package prices

import (
	"math"
	"math/rand"
	"time"
)

// EnvelopeGenerator produces the smooth daily price shape.
type EnvelopeGenerator interface {
	Generate(date time.Time) []float64
}

// NoiseAdder perturbs an envelope into a realized price series.
type NoiseAdder interface {
	Add(prices []float64) []float64
}

// SimulatedPriceEnvelopeGenerator builds a sinusoidal daily price curve
// with a pronounced evening peak window and a flatter off-peak band. The
// curve is deterministic per calendar date.
type SimulatedPriceEnvelopeGenerator struct {
	NumIntervals int
	MinPrice     float64
	MaxPrice     float64
	PeakStart    float64
	PeakEnd      float64
}

// NewSimulatedPriceEnvelopeGenerator returns a generator with the reference
// 24-interval shape.
func NewSimulatedPriceEnvelopeGenerator() *SimulatedPriceEnvelopeGenerator {
	return &SimulatedPriceEnvelopeGenerator{
		NumIntervals: 24,
		MinPrice:     0.0,
		MaxPrice:     200.0,
		PeakStart:    16.0,
		PeakEnd:      32.0,
	}
}

func (g *SimulatedPriceEnvelopeGenerator) Generate(date time.Time) []float64 {
	rng := rand.New(rand.NewSource(dayOrdinal(date)))
	out := make([]float64, 0, g.NumIntervals)
	for i := 0; i < g.NumIntervals; i++ {
		x := 2 * math.Pi * float64(i) / float64(g.NumIntervals)

		var price float64
		if g.PeakStart <= float64(i) && float64(i) < g.PeakEnd {
			sine := (math.Sin(x-math.Pi/2) + 1) / 2
			price = g.MinPrice + (g.MaxPrice-g.MinPrice)*sine
		} else {
			offPeakAmplitude := (g.MaxPrice - g.MinPrice) / 4
			sine := (math.Sin(2*x-math.Pi/2) + 1) / 2
			price = g.MinPrice + offPeakAmplitude*sine
		}

		price += (rng.Float64()*2 - 1) * (g.MaxPrice - g.MinPrice) / 20
		price = math.Max(g.MinPrice, math.Min(price, g.MaxPrice))
		out = append(out, price)
	}
	return out
}

// SimulatedPriceNoiseAdder layers uniform noise and occasional spikes on
// top of an envelope, standing in for forecast error.
type SimulatedPriceNoiseAdder struct {
	NoiseLevel      float64
	SpikeChance     float64
	SpikeMultiplier float64

	rng *rand.Rand
}

// NewSimulatedPriceNoiseAdder returns a noise adder with the reference
// parameters. The seed makes runs reproducible.
func NewSimulatedPriceNoiseAdder(seed int64) *SimulatedPriceNoiseAdder {
	return &SimulatedPriceNoiseAdder{
		NoiseLevel:      5.0,
		SpikeChance:     0.05,
		SpikeMultiplier: 1.5,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

func (n *SimulatedPriceNoiseAdder) Add(prices []float64) []float64 {
	out := make([]float64, 0, len(prices))
	for _, price := range prices {
		p := price + (n.rng.Float64()*2-1)*n.NoiseLevel
		if n.rng.Float64() < n.SpikeChance {
			p *= n.SpikeMultiplier
		}
		out = append(out, math.Max(0, p))
	}
	return out
}

// SimulatedPriceModel pairs an envelope with a noise adder: the envelope is
// the planning series, the noisy variant the realized one.
type SimulatedPriceModel struct {
	envelope EnvelopeGenerator
	noise    NoiseAdder
}

// NewSimulatedPriceModel builds a price source from the two generators.
func NewSimulatedPriceModel(envelope EnvelopeGenerator, noise NoiseAdder) *SimulatedPriceModel {
	return &SimulatedPriceModel{envelope: envelope, noise: noise}
}

func (m *SimulatedPriceModel) GetPrices(date time.Time) ([]float64, []float64, error) {
	planning := m.envelope.Generate(date)
	actual := m.noise.Add(planning)
	return planning, actual, nil
}

func dayOrdinal(date time.Time) int64 {
	return date.UTC().Truncate(24*time.Hour).Unix() / 86400
}
