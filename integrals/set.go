// set.go --  This file is part of goUHF project.
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

// Package integrals holds the molecular integral tensors consumed by the SCF
// solver: the overlap matrix, the core Hamiltonian and the rank-4
// electron-repulsion tensor, plus the nuclear repulsion constant. The
// package only stores, validates and (de)serializes these quantities; it
// never evaluates an integral. They are produced by an external program and
// cross this boundary as data.
package integrals

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// symTol is the largest |a_ij - a_ji| accepted when checking that an input
// matrix or tensor respects its permutational symmetry.
const symTol = 1e-10

// InputError reports a malformed integral set: wrong dimensions, broken
// permutational symmetry or out-of-range scalar inputs. It is always fatal
// and always detected before the first SCF iteration.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return "integrals: invalid " + e.Field + ": " + e.Reason
}

// MemoryError reports that the dense two-electron tensor would exceed the
// configured memory budget. It fires before any allocation takes place.
type MemoryError struct {
	Need   int64
	Budget int64
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("integrals: two-electron tensor needs %d bytes, budget is %d", e.Need, e.Budget)
}

// EstimateBytes returns the size in bytes of a dense n^4 float64 tensor.
func EstimateBytes(n int) int64 {
	n64 := int64(n)
	return 8 * n64 * n64 * n64 * n64
}

// CheckBudget returns a MemoryError when a dense n^4 tensor would not fit in
// budget bytes. A budget of zero or less disables the check.
func CheckBudget(n int, budget int64) error {
	if budget <= 0 {
		return nil
	}
	if need := EstimateBytes(n); need > budget {
		return &MemoryError{Need: need, Budget: budget}
	}
	return nil
}

// Tensor4 is a dense rank-4 electron-repulsion tensor in chemists' notation
// (ij|kl), stored flat in row-major index order.
type Tensor4 struct {
	n    int
	data []float64
}

// NewTensor4 allocates an n x n x n x n tensor of zeros.
func NewTensor4(n int) *Tensor4 {
	return &Tensor4{n: n, data: make([]float64, n*n*n*n)}
}

// N returns the basis dimension of the tensor.
func (t *Tensor4) N() int { return t.n }

func (t *Tensor4) idx(i, j, k, l int) int {
	return ((i*t.n+j)*t.n+k)*t.n + l
}

// At returns the integral (ij|kl).
func (t *Tensor4) At(i, j, k, l int) float64 {
	return t.data[t.idx(i, j, k, l)]
}

// Set stores a single element without touching its symmetry partners.
func (t *Tensor4) Set(i, j, k, l int, v float64) {
	t.data[t.idx(i, j, k, l)] = v
}

// SetSym stores v at (ij|kl) and at the other seven index permutations of
// the 8-fold symmetry group of real electron-repulsion integrals.
func (t *Tensor4) SetSym(i, j, k, l int, v float64) {
	t.Set(i, j, k, l, v)
	t.Set(j, i, k, l, v)
	t.Set(i, j, l, k, v)
	t.Set(j, i, l, k, v)
	t.Set(k, l, i, j, v)
	t.Set(l, k, i, j, v)
	t.Set(k, l, j, i, v)
	t.Set(l, k, j, i, v)
}

// Unpack decodes a flat n^4 linear index into its four basis indices.
func (t *Tensor4) Unpack(lin int) (i, j, k, l int) {
	n := t.n
	i = lin / (n * n * n)
	lin %= n * n * n
	j = lin / (n * n)
	lin %= n * n
	k = lin / n
	l = lin % n
	return i, j, k, l
}

// Set bundles one molecule's worth of precomputed integrals. All members
// are immutable for the duration of an SCF run.
type Set struct {
	N     int
	Enuc  float64
	S     *mat.SymDense
	Hcore *mat.SymDense
	ERI   *Tensor4
}

// NewSet validates the raw inputs and assembles a Set. The overlap and core
// Hamiltonian must be square, of equal dimension and symmetric; the tensor
// must match that dimension and respect the 8-fold index symmetry.
func NewSet(enuc float64, s, hcore mat.Matrix, eri *Tensor4) (*Set, error) {
	r, c := s.Dims()
	if r != c {
		return nil, &InputError{Field: "overlap", Reason: fmt.Sprintf("not square: %dx%d", r, c)}
	}
	n := r
	if hr, hc := hcore.Dims(); hr != n || hc != n {
		return nil, &InputError{Field: "hcore", Reason: fmt.Sprintf("dimension %dx%d does not match overlap %dx%d", hr, hc, n, n)}
	}
	if eri == nil {
		return nil, &InputError{Field: "eri", Reason: "missing tensor"}
	}
	if eri.N() != n {
		return nil, &InputError{Field: "eri", Reason: fmt.Sprintf("dimension %d does not match overlap %d", eri.N(), n)}
	}
	sSym, err := asSym("overlap", s)
	if err != nil {
		return nil, err
	}
	hSym, err := asSym("hcore", hcore)
	if err != nil {
		return nil, err
	}
	if err := checkERISymmetry(eri); err != nil {
		return nil, err
	}
	return &Set{N: n, Enuc: enuc, S: sSym, Hcore: hSym, ERI: eri}, nil
}

func asSym(field string, m mat.Matrix) (*mat.SymDense, error) {
	n, _ := m.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > symTol {
				return nil, &InputError{
					Field:  field,
					Reason: fmt.Sprintf("not symmetric at (%d,%d): %g vs %g", i, j, m.At(i, j), m.At(j, i)),
				}
			}
			out.SetSym(i, j, m.At(i, j))
		}
	}
	return out, nil
}

// checkERISymmetry walks every canonical quadruple and compares the stored
// value against its seven symmetry partners.
func checkERISymmetry(t *Tensor4) error {
	n := t.N()
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			for k := 0; k <= i; k++ {
				for l := 0; l <= k; l++ {
					v := t.At(i, j, k, l)
					perms := [7]float64{
						t.At(j, i, k, l),
						t.At(i, j, l, k),
						t.At(j, i, l, k),
						t.At(k, l, i, j),
						t.At(l, k, i, j),
						t.At(k, l, j, i),
						t.At(l, k, j, i),
					}
					for _, p := range perms {
						if math.Abs(v-p) > symTol {
							return &InputError{
								Field:  "eri",
								Reason: fmt.Sprintf("8-fold symmetry broken at (%d%d|%d%d): %g vs %g", i, j, k, l, v, p),
							}
						}
					}
				}
			}
		}
	}
	return nil
}
