// errors.go --  This file is part of goUHF project.
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
	"errors"
	"fmt"
)

// ErrSingularDIIS marks a singular or unsolvable Pulay system. The driver
// recovers from it by keeping the un-extrapolated Fock matrix for that
// iteration; extrapolate surfaces it so the event is never silent.
var ErrSingularDIIS = errors.New("scf: singular DIIS B matrix")

// ConfigError reports an invalid solver configuration: occupation counts
// outside [0, M], non-positive tolerances or iteration limits. Fatal,
// detected before the first iteration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "scf: invalid " + e.Field + ": " + e.Reason
}

// ConvergenceError reports that the iteration limit was reached with the
// convergence criteria still unmet. No energy accompanies it: an
// unconverged density is not a result.
type ConvergenceError struct {
	Steps    int
	DeltaE   float64
	DeltaRMS float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("scf: not converged after %d steps (dE=%g, dRMS=%g)", e.Steps, e.DeltaE, e.DeltaRMS)
}
