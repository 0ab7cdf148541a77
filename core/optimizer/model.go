package optimizer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/model"
)

// Planning SOC bounds are tighter than the physical [0,1] range so a plan
// never drives the asset to its hard limits.
const (
	minPlanSOC = 0.05
	maxPlanSOC = 0.95
)

// ScheduleModel is the linear program for a single planning horizon in
// general form: minimize c·x subject to g·x <= h and a·x = b. It is an
// opaque artifact; only the matching solver and extractor understand its
// variable layout.
type ScheduleModel struct {
	numIntervals int
	capacityMWh  float64

	c []float64
	g *mat.Dense
	h []float64
	a *mat.Dense
	b []float64

	// solution holds the original decision variables after a successful
	// solve, ordered charge | discharge | soc | energyCycled.
	solution []float64
}

// NumIntervals returns the planning horizon length.
func (m *ScheduleModel) NumIntervals() int { return m.numIntervals }

func (m *ScheduleModel) numVars() int { return 4 * m.numIntervals }

func (m *ScheduleModel) chargeIdx(t int) int    { return t }
func (m *ScheduleModel) dischargeIdx(t int) int { return m.numIntervals + t }
func (m *ScheduleModel) socIdx(t int) int       { return 2*m.numIntervals + t }
func (m *ScheduleModel) cycledIdx(t int) int    { return 3*m.numIntervals + t }

// ModelBuilder constructs an unsolved schedule model from a battery
// snapshot, a planning price series and the operating parameters.
type ModelBuilder interface {
	BuildModel(numIntervals int, prices []float64, snap battery.State, timestepHours, maxCycles float64) (*ScheduleModel, error)
}

// LPModelBuilder builds the arbitrage LP: per interval, charge and
// discharge decision variables bounded by capacity, an SOC recursion
// parameterised by the battery's efficiencies, and a cycled-energy
// recursion capped by the cycle budget.
type LPModelBuilder struct{}

func (LPModelBuilder) BuildModel(numIntervals int, prices []float64, snap battery.State, timestepHours, maxCycles float64) (*ScheduleModel, error) {
	if numIntervals <= 0 {
		return nil, model.NewValidationError("num intervals must be positive, got %d", numIntervals)
	}
	if len(prices) != numIntervals {
		return nil, model.NewDataError("price series length %d does not match %d intervals", len(prices), numIntervals)
	}
	if timestepHours <= 0 {
		return nil, model.NewValidationError("timestep hours must be positive, got %v", timestepHours)
	}
	if maxCycles <= 0 {
		return nil, model.NewValidationError("max cycles must be positive, got %v", maxCycles)
	}
	if snap.CapacityMWh <= 0 {
		return nil, model.NewValidationError("battery capacity must be positive, got %v", snap.CapacityMWh)
	}

	n := numIntervals
	capMWh := snap.CapacityMWh
	ce := snap.ChargeEfficiency
	de := snap.DischargeEfficiency

	m := &ScheduleModel{numIntervals: n, capacityMWh: capMWh}

	// Objective: maximize revenue from discharging minus the cost of
	// charging, expressed as a minimization.
	nVar := m.numVars()
	m.c = make([]float64, nVar)
	for t := 0; t < n; t++ {
		m.c[m.chargeIdx(t)] = prices[t] / (ce * timestepHours)
		m.c[m.dischargeIdx(t)] = -prices[t] * de / timestepHours
	}

	// Inequalities: variable bounds, per-interval capacity and the final
	// cycled-energy budget. 8 rows per interval plus the budget row.
	nIneq := 8*n + 1
	m.g = mat.NewDense(nIneq, nVar, nil)
	m.h = make([]float64, nIneq)
	row := 0
	setIneq := func(idx int, coeff, bound float64) {
		m.g.Set(row, idx, coeff)
		m.h[row] = bound
		row++
	}
	for t := 0; t < n; t++ {
		setIneq(m.chargeIdx(t), 1, capMWh)     // charge[t] <= capacity
		setIneq(m.chargeIdx(t), -1, 0)         // charge[t] >= 0
		setIneq(m.dischargeIdx(t), 1, capMWh)  // discharge[t] <= capacity
		setIneq(m.dischargeIdx(t), -1, 0)      // discharge[t] >= 0
		setIneq(m.socIdx(t), 1, maxPlanSOC)    // soc[t] <= 0.95
		setIneq(m.socIdx(t), -1, -minPlanSOC)  // soc[t] >= 0.05
		setIneq(m.cycledIdx(t), -1, 0)         // energyCycled[t] >= 0
		m.g.Set(row, m.chargeIdx(t), 1)        // charge[t] + discharge[t] <= capacity
		m.g.Set(row, m.dischargeIdx(t), 1)
		m.h[row] = capMWh
		row++
	}
	setIneq(m.cycledIdx(n-1), 1, maxCycles*capMWh*2)

	// Equalities: initial conditions plus the SOC and cycled-energy
	// recursions linking consecutive intervals.
	nEq := 2 * n
	m.a = mat.NewDense(nEq, nVar, nil)
	m.b = make([]float64, nEq)
	eq := 0

	m.a.Set(eq, m.socIdx(0), 1)
	m.b[eq] = snap.SOC
	eq++
	m.a.Set(eq, m.cycledIdx(0), 1)
	m.b[eq] = 0
	eq++
	for t := 1; t < n; t++ {
		// soc[t] = soc[t-1] + charge[t-1]*ce/cap - discharge[t-1]/(de*cap)
		m.a.Set(eq, m.socIdx(t), 1)
		m.a.Set(eq, m.socIdx(t-1), -1)
		m.a.Set(eq, m.chargeIdx(t-1), -ce/capMWh)
		m.a.Set(eq, m.dischargeIdx(t-1), 1/(de*capMWh))
		eq++
	}
	for t := 1; t < n; t++ {
		// energyCycled[t] = energyCycled[t-1] + charge[t-1]*ce + discharge[t-1]/de
		m.a.Set(eq, m.cycledIdx(t), 1)
		m.a.Set(eq, m.cycledIdx(t-1), -1)
		m.a.Set(eq, m.chargeIdx(t-1), -ce)
		m.a.Set(eq, m.dischargeIdx(t-1), -1/de)
		eq++
	}

	return m, nil
}
