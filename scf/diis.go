// diis.go --  This file is part of goUHF project.
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
package scf

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// diisHistory keeps one spin channel's trial Fock matrices and their
// orbital-gradient residuals, insertion-ordered. With depth > 0 it behaves
// as an oldest-evicted window so the Pulay system stays small and
// well-conditioned on long runs; depth 0 never evicts.
type diisHistory struct {
	depth  int
	trials []*mat.Dense
	resids []*mat.Dense
}

func newDIIS(depth int) *diisHistory {
	return &diisHistory{depth: depth}
}

func (h *diisHistory) size() int { return len(h.trials) }

// push appends a (trial, residual) pair, evicting the oldest entry once the
// window is full.
func (h *diisHistory) push(f, r *mat.Dense) {
	h.trials = append(h.trials, f)
	h.resids = append(h.resids, r)
	if h.depth > 0 && len(h.trials) > h.depth {
		h.trials = slices.Delete(h.trials, 0, 1)
		h.resids = slices.Delete(h.resids, 0, 1)
	}
}

// diisResidual is the self-consistency gradient projected into the
// orthogonal basis: A*(F*D*S - S*D*F)*A. It vanishes exactly when F and D
// commute in the S metric.
func diisResidual(f, d *mat.Dense, s, a *mat.Dense) *mat.Dense {
	n, _ := f.Dims()
	term1 := mat.NewDense(n, n, nil)
	term2 := mat.NewDense(n, n, nil)
	term1.Mul(f, d)
	term1.Mul(term1, s)
	term2.Mul(s, d)
	term2.Mul(term2, f)
	term1.Sub(term1, term2)
	term1.Mul(a, term1)
	term1.Mul(term1, a)
	return term1
}

// buildB assembles the (k+1)x(k+1) Pulay Gram matrix: residual inner
// products in the leading block, -1 borders, 0 corner.
func (h *diisHistory) buildB() *mat.Dense {
	k := len(h.trials)
	b := mat.NewDense(k+1, k+1, nil)
	for i := 0; i < k; i++ {
		b.Set(i, k, -1)
		b.Set(k, i, -1)
	}
	for i := range h.resids {
		for j := range h.resids {
			b.Set(i, j, frobInner(h.resids[i], h.resids[j]))
		}
	}
	return b
}

// extrapolate solves B*c = (0,...,0,-1) and returns sum_i c_i*F_i. A
// history of length one short-circuits to a copy of the sole trial. A
// singular or ill-conditioned B yields ErrSingularDIIS; the caller decides
// what to fall back to.
func (h *diisHistory) extrapolate() (*mat.Dense, error) {
	k := len(h.trials)
	if k == 0 {
		return nil, fmt.Errorf("scf: DIIS extrapolation with empty history")
	}
	if k == 1 {
		return mat.DenseCopyOf(h.trials[0]), nil
	}

	rhs := mat.NewVecDense(k+1, nil)
	rhs.SetVec(k, -1)

	var lu mat.LU
	lu.Factorize(h.buildB())
	var coefs mat.VecDense
	if err := lu.SolveVecTo(&coefs, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDIIS, err)
	}

	n, _ := h.trials[0].Dims()
	f := mat.NewDense(n, n, nil)
	part := mat.NewDense(n, n, nil)
	for i, trial := range h.trials {
		part.Scale(coefs.AtVec(i), trial)
		f.Add(f, part)
	}
	return f, nil
}
