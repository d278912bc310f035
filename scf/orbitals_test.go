// orbitals_test.go --  This file is part of goUHF project.
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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// randSPD builds a well-conditioned symmetric positive-definite matrix.
func randSPD(n int, seed int64) *mat.SymDense {
	rng := rand.New(rand.NewSource(seed))
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b.Set(i, j, rng.NormFloat64())
		}
	}
	var btb mat.Dense
	btb.Mul(b.T(), b)
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := btb.At(i, j) / float64(n)
			if i == j {
				v += 1
			}
			out.SetSym(i, j, v)
		}
	}
	return out
}

func randSymmetric(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := rng.NormFloat64()
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}

func TestOrthogonalizerIdentity(t *testing.T) {
	for _, n := range []int{2, 5, 8} {
		s := randSPD(n, int64(n))
		orth, err := NewOrthogonalizer(s)
		require.NoError(t, err)

		var asa mat.Dense
		asa.Mul(orth.A.T(), s)
		asa.Mul(&asa, orth.A)
		eye := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			eye.Set(i, i, 1)
		}
		assert.True(t, mat.EqualApprox(&asa, eye, 1e-10), "A^T*S*A != I for n=%d", n)
	}
}

func TestOrthogonalizerRejectsIndefinite(t *testing.T) {
	s := mat.NewSymDense(2, []float64{1, 2, 2, 1}) // eigenvalues -1, 3
	_, err := NewOrthogonalizer(s)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "overlap", cfgErr.Field)
}

func TestOrthogonalizerFloorsNullSpace(t *testing.T) {
	// Rank-deficient overlap: eigenvalues 0 and 2. The zero channel must be
	// dropped, not inverted.
	s := mat.NewSymDense(2, []float64{1, 1, 1, 1})
	orth, err := NewOrthogonalizer(s)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v := orth.A.At(i, j)
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestDiagFockDensityIdempotent(t *testing.T) {
	const n, nocc = 5, 3
	s := randSPD(n, 11)
	orth, err := NewOrthogonalizer(s)
	require.NoError(t, err)

	f := randSymmetric(n, 12)
	c, d, err := orth.DiagFock(f, nocc)
	require.NoError(t, err)

	// Occupied orbitals orthonormal in the S metric.
	occ := c.Slice(0, n, 0, nocc)
	var cs, csc mat.Dense
	cs.Mul(occ.T(), s)
	csc.Mul(&cs, occ)
	eye := mat.NewDense(nocc, nocc, nil)
	for i := 0; i < nocc; i++ {
		eye.Set(i, i, 1)
	}
	assert.True(t, mat.EqualApprox(&csc, eye, 1e-10))

	// D = D*S*D under the overlap metric.
	var dsd mat.Dense
	dsd.Mul(d, s)
	dsd.Mul(&dsd, d)
	assert.True(t, mat.EqualApprox(&dsd, d, 1e-10))

	// D symmetric.
	assert.True(t, mat.EqualApprox(d, d.T(), 1e-12))
}

func TestDiagFockZeroOccupation(t *testing.T) {
	s := randSPD(3, 21)
	orth, err := NewOrthogonalizer(s)
	require.NoError(t, err)
	_, d, err := orth.DiagFock(randSymmetric(3, 22), 0)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(d, mat.NewDense(3, 3, nil), 0))
}

func TestDiagFockDeterministic(t *testing.T) {
	s := randSPD(4, 31)
	orth, err := NewOrthogonalizer(s)
	require.NoError(t, err)
	f := randSymmetric(4, 32)
	_, d1, err := orth.DiagFock(f, 2)
	require.NoError(t, err)
	_, d2, err := orth.DiagFock(f, 2)
	require.NoError(t, err)
	assert.True(t, mat.Equal(d1, d2))
}
