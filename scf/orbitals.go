// orbitals.go --  This file is part of goUHF project.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// eigFloor: overlap eigenvalues below this are treated as exactly zero so a
// near-linearly-dependent basis cannot blow up the inverse square root.
const eigFloor = 1e-16

// negTol: an overlap eigenvalue below -negTol means S is not
// positive-semidefinite and the input is rejected.
const negTol = 1e-10

// Orthogonalizer owns the symmetric orthogonalization transform
// A = S^(-1/2), built once per run and passed explicitly to every orbital
// update. It satisfies A^T*S*A = I on the non-null space of S.
type Orthogonalizer struct {
	n int
	A *mat.Dense
}

// NewOrthogonalizer eigendecomposes S and assembles
// A = U*diag(1/sqrt(lambda))*U^T.
func NewOrthogonalizer(s *mat.SymDense) (*Orthogonalizer, error) {
	n, _ := s.Dims()
	var eig mat.EigenSym
	if !eig.Factorize(s, true) {
		return nil, &ConfigError{Field: "overlap", Reason: "eigendecomposition failed"}
	}
	vals := eig.Values(nil)
	var u mat.Dense
	eig.VectorsTo(&u)

	invSqrt := make([]float64, n)
	for i, v := range vals {
		if v < -negTol {
			return nil, &ConfigError{Field: "overlap", Reason: fmt.Sprintf("not positive-semidefinite: eigenvalue %g", v)}
		}
		if v < eigFloor {
			invSqrt[i] = 0
			continue
		}
		invSqrt[i] = 1 / math.Sqrt(v)
	}

	a := mat.NewDense(n, n, nil)
	a.Mul(&u, mat.NewDiagDense(n, invSqrt))
	a.Mul(a, u.T())
	return &Orthogonalizer{n: n, A: a}, nil
}

// N returns the basis dimension.
func (o *Orthogonalizer) N() int { return o.n }

// DiagFock is the orbital update: transform f into the orthogonal basis,
// diagonalize with ascending eigenvalues, back-transform the eigenvectors
// and build the density from the nocc lowest orbitals. The same path serves
// the core-Hamiltonian guess and every refined Fock matrix.
func (o *Orthogonalizer) DiagFock(f *mat.Dense, nocc int) (c, d *mat.Dense, err error) {
	n := o.n
	var fp mat.Dense
	fp.Mul(o.A, f)
	fp.Mul(&fp, o.A)

	fSym := mat.NewSymDense(n, fp.RawMatrix().Data)
	var eig mat.EigenSym
	if !eig.Factorize(fSym, true) {
		return nil, nil, fmt.Errorf("scf: eigendecomposition of transformed Fock matrix failed")
	}
	var ev mat.Dense
	eig.VectorsTo(&ev)
	ev.Mul(o.A, &ev)

	d = mat.NewDense(n, n, nil)
	if nocc > 0 {
		occ := ev.Slice(0, n, 0, nocc)
		d.Mul(occ, occ.T())
	}
	return &ev, d, nil
}
