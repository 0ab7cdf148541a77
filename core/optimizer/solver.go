package optimizer

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/koulakhilesh/OpenEnergy/core/logger"
	"github.com/koulakhilesh/OpenEnergy/core/model"
)

// Status reports how the solver terminated. A non-optimal status is not an
// error: callers decide whether the day's schedule is usable.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "error"
	}
}

// ModelSolver solves a schedule model in place.
type ModelSolver interface {
	Solve(m *ScheduleModel) (Status, error)
}

const defaultTol = 1e-7

// lpSolve points to the function used to run the simplex algorithm. It can
// be overridden in tests to simulate solver failures.
var lpSolve = func(c []float64, a mat.Matrix, b []float64, tol float64) ([]float64, error) {
	_, x, err := lp.Simplex(c, a, b, tol, nil)
	return x, err
}

// SimplexSolver solves schedule models with gonum's exact simplex
// implementation after converting them to standard form.
type SimplexSolver struct {
	tol float64
	log logger.Logger
}

// NewSimplexSolver returns a solver with the default tolerance.
func NewSimplexSolver(log logger.Logger) SimplexSolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return SimplexSolver{tol: defaultTol, log: log}
}

// Solve converts the model to standard form, runs the simplex algorithm and
// stores the solution on the model. Infeasible and unbounded programs are
// reported through the status, not as errors.
func (s SimplexSolver) Solve(m *ScheduleModel) (Status, error) {
	if m == nil || len(m.c) == 0 {
		return StatusError, model.NewDataError("schedule model is empty")
	}

	cStd, aStd, bStd := lp.Convert(m.c, m.g, m.h, m.a, m.b)
	xStd, err := lpSolve(cStd, aStd, bStd, s.tol)
	switch {
	case err == nil:
		s.log.Debugf("schedule solve optimal over %d intervals", m.numIntervals)
	case errors.Is(err, lp.ErrInfeasible):
		s.log.Warnf("schedule is infeasible, review model constraints")
		return StatusInfeasible, nil
	case errors.Is(err, lp.ErrUnbounded):
		s.log.Warnf("schedule is unbounded, review model objective and constraints")
		return StatusUnbounded, nil
	default:
		s.log.Errorf("unexpected solver failure: %v", err)
		return StatusError, nil
	}

	// Standard form splits each free variable into a positive and a
	// negative part; recombine them into the original variables.
	nVar := m.numVars()
	x := make([]float64, nVar)
	for i := range x {
		x[i] = xStd[i] - xStd[nVar+i]
	}
	m.solution = x
	return StatusOptimal, nil
}
