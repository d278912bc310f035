// fock.go --  This file is part of goUHF project.
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
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"gouhf/integrals"
)

// buildFock assembles both spin-channel Fock matrices from the current
// densities:
//
//	F_sigma = Hcore + J(Dalpha+Dbeta) - K(Dsigma)
//
// The Coulomb term contracts the total density because electron repulsion
// does not see spin there; the exchange term contracts only the channel's
// own density. Index patterns follow chemists' notation: J_ij uses (ij|kl),
// K_ij uses (il|kj).
//
// The contraction is O(M^4) per spin and dominates each iteration, so rows
// are fanned out over GOMAXPROCS goroutines. Each worker owns a disjoint
// row range of both outputs; no shared writes.
func buildFock(hcore *mat.SymDense, eri *integrals.Tensor4, dAlpha, dBeta *mat.Dense) (fAlpha, fBeta *mat.Dense) {
	n, _ := hcore.Dims()
	fAlpha = mat.NewDense(n, n, nil)
	fBeta = mat.NewDense(n, n, nil)

	dTot := mat.NewDense(n, n, nil)
	dTot.Add(dAlpha, dBeta)

	workers := runtime.GOMAXPROCS(-1)
	if workers > n {
		workers = n
	}
	rowsPer := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * rowsPer
		hi := lo + rowsPer
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				for j := 0; j < n; j++ {
					jTot, kA, kB := 0.0, 0.0, 0.0
					for k := 0; k < n; k++ {
						for l := 0; l < n; l++ {
							jTot += dTot.At(k, l) * eri.At(i, j, k, l)
							ex := eri.At(i, l, k, j)
							kA += dAlpha.At(k, l) * ex
							kB += dBeta.At(k, l) * ex
						}
					}
					h := hcore.At(i, j)
					fAlpha.Set(i, j, h+jTot-kA)
					fBeta.Set(i, j, h+jTot-kB)
				}
			}
		}(lo, hi)
	}
	wg.Wait()
	return fAlpha, fBeta
}
