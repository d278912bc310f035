// plot_test.go --  This file is part of goUHF project.
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
package scfplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gouhf/scf"
)

func TestConvergenceWritesFigure(t *testing.T) {
	history := []scf.IterationRecord{
		{Iter: 1, Energy: -74.1, DeltaE: -74.1, DeltaRMS: 0.5},
		{Iter: 2, Energy: -75.6, DeltaE: -1.5, DeltaRMS: 0.1, Extrapolated: [2]bool{true, true}},
		{Iter: 3, Energy: -75.9, DeltaE: -0.3, DeltaRMS: 0.01, Extrapolated: [2]bool{true, true}},
		{Iter: 4, Energy: -75.98, DeltaE: -0.08, DeltaRMS: 0, Extrapolated: [2]bool{true, true}}, // exact zero must survive the log axis
	}
	path := filepath.Join(t.TempDir(), "conv.png")
	require.NoError(t, Convergence(history, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestConvergenceEmptyHistory(t *testing.T) {
	err := Convergence(nil, filepath.Join(t.TempDir(), "conv.png"))
	require.Error(t, err)
}
