// linalg.go --  This file is part of goUHF project.
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

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// frobInner is the element-wise double contraction sum_ij A_ij*B_ij. For
// symmetric A and B this equals tr(A*B), which is how both the DIIS Gram
// matrix and the electronic energy are assembled.
func frobInner(a, b *mat.Dense) float64 {
	var prod mat.Dense
	prod.MulElem(a, b)
	return mat.Sum(&prod)
}

// rmsOf returns sqrt(mean(m_ij^2)) over all entries of m.
func rmsOf(m *mat.Dense) float64 {
	sq := mat.DenseCopyOf(m)
	sq.MulElem(sq, sq)
	return math.Sqrt(stat.Mean(sq.RawMatrix().Data, nil))
}

// denseOfSym copies a symmetric matrix into a general Dense so it can take
// part in non-symmetric products.
func denseOfSym(s *mat.SymDense) *mat.Dense {
	n, _ := s.Dims()
	out := mat.NewDense(n, n, nil)
	out.Copy(s)
	return out
}
