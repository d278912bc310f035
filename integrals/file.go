// file.go --  This file is part of goUHF project.
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
package integrals

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// fileSet is the on-disk document: a gzip-compressed JSON object holding the
// packed lower triangles of S and Hcore and the unique electron-repulsion
// integrals as a flat linear-index/value list. Only canonical quadruples
// with a non-zero value are written; the reader restores the other seven
// permutations of each.
type fileSet struct {
	N      int       `json:"n"`
	Enuc   float64   `json:"enuc"`
	S      []float64 `json:"s"`
	Hcore  []float64 `json:"hcore"`
	ERIIdx []int     `json:"eri_idx"`
	ERIVal []float64 `json:"eri_val"`
}

// packTriangle flattens the lower triangle of a symmetric matrix row-major,
// element (i,j) at slot i*(i+1)/2+j.
func packTriangle(m *mat.SymDense) []float64 {
	n, _ := m.Dims()
	out := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

func unpackTriangle(tri []float64, n int) *mat.SymDense {
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out.SetSym(i, j, tri[i*(i+1)/2+j])
		}
	}
	return out
}

// WriteFile stores the set at path in the compressed integral-set format.
func WriteFile(path string, set *Set) error {
	n := set.N
	doc := fileSet{N: n, Enuc: set.Enuc}
	doc.S = packTriangle(set.S)
	doc.Hcore = packTriangle(set.Hcore)

	// Canonical quadruples: i >= j, k >= l, pairIdx(i,j) >= pairIdx(k,l).
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			ij := i*(i+1)/2 + j
			for k := 0; k <= i; k++ {
				for l := 0; l <= k; l++ {
					if k*(k+1)/2+l > ij {
						continue
					}
					v := set.ERI.At(i, j, k, l)
					if v == 0 {
						continue
					}
					doc.ERIIdx = append(doc.ERIIdx, set.ERI.idx(i, j, k, l))
					doc.ERIVal = append(doc.ERIVal, v)
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(&doc); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadFile loads a set from path. The dense two-electron tensor is only
// allocated after its projected size passes the memory budget check; budget
// is in bytes, zero or negative disables the check.
func ReadFile(path string, budget int64) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("integrals: reading %s: %w", path, err)
	}
	defer zr.Close()

	var doc fileSet
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("integrals: decoding %s: %w", path, err)
	}
	n := doc.N
	if n <= 0 {
		return nil, &InputError{Field: "n", Reason: fmt.Sprintf("non-positive dimension %d", n)}
	}
	tri := n * (n + 1) / 2
	if len(doc.S) != tri || len(doc.Hcore) != tri {
		return nil, &InputError{Field: "file", Reason: "packed triangle length does not match dimension"}
	}
	if len(doc.ERIIdx) != len(doc.ERIVal) {
		return nil, &InputError{Field: "eri", Reason: "index/value lists differ in length"}
	}
	if err := CheckBudget(n, budget); err != nil {
		return nil, err
	}

	s := unpackTriangle(doc.S, n)
	hcore := unpackTriangle(doc.Hcore, n)
	eri := NewTensor4(n)
	for p, lin := range doc.ERIIdx {
		if lin < 0 || lin >= n*n*n*n {
			return nil, &InputError{Field: "eri", Reason: fmt.Sprintf("linear index %d out of range", lin)}
		}
		i, j, k, l := eri.Unpack(lin)
		eri.SetSym(i, j, k, l, doc.ERIVal[p])
	}
	return NewSet(doc.Enuc, s, hcore, eri)
}
