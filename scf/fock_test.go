// fock_test.go --  This file is part of goUHF project.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gouhf/integrals"
)

func testERI(n int) *integrals.Tensor4 {
	eri := integrals.NewTensor4(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			for k := 0; k <= i; k++ {
				for l := 0; l <= k; l++ {
					if k*(k+1)/2+l > i*(i+1)/2+j {
						continue
					}
					// Deterministic, decaying, symmetric-by-construction values.
					v := 1.0 / float64(1+i+j+k+l)
					eri.SetSym(i, j, k, l, v)
				}
			}
		}
	}
	return eri
}

func TestFockZeroERIEqualsCore(t *testing.T) {
	const n = 3
	h := mat.NewSymDense(n, []float64{-2, 0.1, 0, 0.1, -1.5, 0.2, 0, 0.2, -1})
	d := randSymmetric(n, 41)

	fa, fb := buildFock(h, integrals.NewTensor4(n), d, d)
	hd := denseOfSym(h)
	assert.True(t, mat.EqualApprox(fa, hd, 1e-14))
	assert.True(t, mat.EqualApprox(fb, hd, 1e-14))
}

func TestFockSymmetry(t *testing.T) {
	const n = 3
	h := mat.NewSymDense(n, []float64{-2, 0.1, 0, 0.1, -1.5, 0.2, 0, 0.2, -1})
	da := randSymmetric(n, 42)
	db := randSymmetric(n, 43)

	fa, fb := buildFock(h, testERI(n), da, db)
	assert.True(t, mat.EqualApprox(fa, fa.T(), 1e-12))
	assert.True(t, mat.EqualApprox(fb, fb.T(), 1e-12))
}

func TestFockEqualDensitiesEqualChannels(t *testing.T) {
	const n = 3
	h := mat.NewSymDense(n, []float64{-2, 0.1, 0, 0.1, -1.5, 0.2, 0, 0.2, -1})
	d := randSymmetric(n, 44)

	fa, fb := buildFock(h, testERI(n), d, mat.DenseCopyOf(d))
	assert.True(t, mat.EqualApprox(fa, fb, 1e-13))
}

func TestFockCoulombExchangeStructure(t *testing.T) {
	// One basis function: F = h + (da+db)*(00|00) - dsigma*(00|00).
	h := mat.NewSymDense(1, []float64{-1})
	eri := integrals.NewTensor4(1)
	eri.Set(0, 0, 0, 0, 0.6)
	da := mat.NewDense(1, 1, []float64{1})
	db := mat.NewDense(1, 1, []float64{0.5})

	fa, fb := buildFock(h, eri, da, db)
	require.InDelta(t, -1+1.5*0.6-1*0.6, fa.At(0, 0), 1e-14)
	require.InDelta(t, -1+1.5*0.6-0.5*0.6, fb.At(0, 0), 1e-14)
}
