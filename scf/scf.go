// scf.go --  This file is part of goUHF project.
//
//	goUHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------

// Package scf solves the unrestricted Hartree-Fock self-consistent-field
// equations for a fixed set of molecular integrals. The solver iterates
// Fock build -> DIIS residual/extrapolation -> orbital update until the
// energy and density deltas fall under their tolerances, with independent
// alpha and beta spin channels sharing one code path.
package scf

import (
	"errors"
	"fmt"
	"io"
	"log"

	"gonum.org/v1/gonum/mat"

	"gouhf/integrals"
)

// Spin indexes the two electron spin channels.
type Spin int

const (
	Alpha Spin = iota
	Beta
)

func (s Spin) String() string {
	if s == Alpha {
		return "alpha"
	}
	return "beta"
}

// State is the driver's position in its run lifecycle.
type State int

const (
	Initializing State = iota
	Iterating
	Converged
	IterationLimitExceeded
)

// Config carries the run parameters. Tolerances and the iteration cap must
// be positive; occupations must satisfy 0 <= NBeta <= NAlpha <= M.
type Config struct {
	NAlpha int
	NBeta  int
	// ETol and DTol are the energy-delta and RMS-residual convergence
	// thresholds. Both must be met.
	ETol float64
	DTol float64
	// MaxIterations is a hard cap; reaching it is a ConvergenceError.
	MaxIterations int
	// DIISDepth bounds the extrapolation history window. Zero keeps the
	// full history with no eviction.
	DIISDepth int
	// Logger receives per-iteration records and recoverable-event
	// warnings. Nil discards them.
	Logger *log.Logger
}

func (c *Config) validate(n int) error {
	switch {
	case c.NAlpha < 0 || c.NAlpha > n:
		return &ConfigError{Field: "NAlpha", Reason: fmt.Sprintf("%d outside [0, %d]", c.NAlpha, n)}
	case c.NBeta < 0 || c.NBeta > n:
		return &ConfigError{Field: "NBeta", Reason: fmt.Sprintf("%d outside [0, %d]", c.NBeta, n)}
	case c.NBeta > c.NAlpha:
		return &ConfigError{Field: "NBeta", Reason: fmt.Sprintf("%d exceeds NAlpha %d", c.NBeta, c.NAlpha)}
	case c.ETol <= 0:
		return &ConfigError{Field: "ETol", Reason: "must be positive"}
	case c.DTol <= 0:
		return &ConfigError{Field: "DTol", Reason: "must be positive"}
	case c.MaxIterations <= 0:
		return &ConfigError{Field: "MaxIterations", Reason: "must be positive"}
	case c.DIISDepth < 0:
		return &ConfigError{Field: "DIISDepth", Reason: "must not be negative"}
	}
	return nil
}

// IterationRecord is one line of the convergence table.
type IterationRecord struct {
	Iter     int
	Energy   float64
	DeltaE   float64
	DeltaRMS float64
	// Extrapolated records, per spin channel, whether the orbital update of
	// this pass diagonalized a DIIS-extrapolated Fock matrix. A channel whose
	// Pulay solve was singular falls back to its raw Fock matrix and stays
	// false without affecting the other channel.
	Extrapolated [2]bool
}

// Result is the terminal state of a converged run.
type Result struct {
	Energy     float64
	Iterations int
	C          [2]*mat.Dense
	D          [2]*mat.Dense
	History    []IterationRecord
}

// Solver owns the per-run state: the orthogonalization transform, the
// current orbitals and densities per spin, the DIIS histories and the
// convergence bookkeeping. It is not safe for concurrent use; one run is a
// single logical thread of control.
type Solver struct {
	cfg    Config
	set    *integrals.Set
	orth   *Orthogonalizer
	sDense *mat.Dense
	hDense *mat.Dense
	occ    [2]int
	c      [2]*mat.Dense
	d      [2]*mat.Dense
	hist   [2]*diisHistory
	mon    monitor

	state   State
	energy  float64
	records []IterationRecord
	logger  *log.Logger
}

// New validates the configuration against the integral set, builds the
// orthogonalization transform and the core-Hamiltonian guess densities.
func New(set *integrals.Set, cfg Config) (*Solver, error) {
	if set == nil {
		return nil, &ConfigError{Field: "set", Reason: "missing integral set"}
	}
	if err := cfg.validate(set.N); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Solver{
		cfg:    cfg,
		set:    set,
		sDense: denseOfSym(set.S),
		hDense: denseOfSym(set.Hcore),
		occ:    [2]int{cfg.NAlpha, cfg.NBeta},
		hist:   [2]*diisHistory{newDIIS(cfg.DIISDepth), newDIIS(cfg.DIISDepth)},
		mon:    monitor{eTol: cfg.ETol, dTol: cfg.DTol},
		state:  Initializing,
		logger: logger,
	}

	orth, err := NewOrthogonalizer(set.S)
	if err != nil {
		return nil, err
	}
	s.orth = orth

	// Core-Hamiltonian guess: same update path as every later iteration,
	// with H in place of F.
	for spin := Alpha; spin <= Beta; spin++ {
		c, d, err := orth.DiagFock(s.hDense, s.occ[spin])
		if err != nil {
			return nil, err
		}
		s.c[spin] = c
		s.d[spin] = d
	}
	return s, nil
}

// State reports the driver's lifecycle position.
func (s *Solver) State() State { return s.state }

// Run iterates to convergence or to the iteration cap. On success the
// result carries the final energy, orbitals, densities and the full
// convergence table; hitting the cap returns a ConvergenceError and no
// result.
func (s *Solver) Run() (*Result, error) {
	s.state = Iterating
	for iter := 1; iter <= s.cfg.MaxIterations; iter++ {
		rec, done, err := s.step(iter)
		if err != nil {
			return nil, err
		}
		s.records = append(s.records, rec)
		s.logger.Println("Iteration ", iter, ". Energy = ", rec.Energy, ", dE = ", rec.DeltaE, ", dRMS = ", rec.DeltaRMS)
		if done {
			s.state = Converged
			s.logger.Println("SCF converged after step ", iter)
			return &Result{
				Energy:     rec.Energy,
				Iterations: iter,
				C:          s.c,
				D:          s.d,
				History:    s.records,
			}, nil
		}
	}
	s.state = IterationLimitExceeded
	last := s.records[len(s.records)-1]
	s.logger.Println("Warning! SCF NOT converged after step ", s.cfg.MaxIterations)
	return nil, &ConvergenceError{Steps: s.cfg.MaxIterations, DeltaE: last.DeltaE, DeltaRMS: last.DeltaRMS}
}

// History returns the records accumulated so far, converged or not.
func (s *Solver) History() []IterationRecord { return s.records }

// step runs one full iteration: Fock build, residuals, energy, convergence
// check and, when not yet converged, extrapolation and the orbital update.
// done reports that both convergence criteria were met this pass.
func (s *Solver) step(iter int) (rec IterationRecord, done bool, err error) {
	fA, fB := buildFock(s.set.Hcore, s.set.ERI, s.d[Alpha], s.d[Beta])
	f := [2]*mat.Dense{fA, fB}

	var dRMSsum float64
	for spin := Alpha; spin <= Beta; spin++ {
		r := diisResidual(f[spin], s.d[spin], s.sDense, s.orth.A)
		s.hist[spin].push(f[spin], r)
		dRMSsum += rmsOf(r)
	}

	dTot := mat.NewDense(s.orth.N(), s.orth.N(), nil)
	dTot.Add(s.d[Alpha], s.d[Beta])
	e := 0.5*(frobInner(dTot, s.hDense)+frobInner(s.d[Alpha], fA)+frobInner(s.d[Beta], fB)) + s.set.Enuc

	rec = IterationRecord{
		Iter:     iter,
		Energy:   e,
		DeltaE:   e - s.energy,
		DeltaRMS: dRMSsum / 2,
	}
	s.energy = e

	if s.mon.converged(rec.DeltaE, rec.DeltaRMS) {
		return rec, true, nil
	}

	// Extrapolate once a channel holds at least two trial vectors. A
	// singular Pulay system downgrades that spin to its raw Fock matrix for
	// this pass; the other spin extrapolates independently.
	for spin := Alpha; spin <= Beta; spin++ {
		if s.hist[spin].size() < 2 {
			continue
		}
		ex, exErr := s.hist[spin].extrapolate()
		if exErr != nil {
			if !errors.Is(exErr, ErrSingularDIIS) {
				return rec, false, exErr
			}
			s.logger.Println("Warning! DIIS extrapolation skipped for ", spin.String(), " channel at step ", iter, ": ", exErr)
			continue
		}
		f[spin] = ex
		rec.Extrapolated[spin] = true
	}

	for spin := Alpha; spin <= Beta; spin++ {
		c, d, diagErr := s.orth.DiagFock(f[spin], s.occ[spin])
		if diagErr != nil {
			return rec, false, diagErr
		}
		s.c[spin] = c
		s.d[spin] = d
	}
	return rec, false, nil
}
