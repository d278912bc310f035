// monitor.go --  This file is part of goUHF project.
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

import "math"

// monitor decides continue/stop from the energy delta and the averaged RMS
// residual. Both criteria must hold: the energy alone can flatten out near
// a saddle while the density is still moving.
type monitor struct {
	eTol float64
	dTol float64
}

func (m monitor) converged(dE, dRMS float64) bool {
	return math.Abs(dE) < m.eTol && dRMS < m.dTol
}
