// plot.go --  This file is part of goUHF project.
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

// Package scfplot renders SCF convergence histories as figures. It only
// consumes scf.IterationRecord slices; the solver has no dependency on it.
package scfplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gouhf/scf"
)

// logFloor keeps exact zeros plottable on the log axis.
const logFloor = 1e-18

// Convergence writes a log-scale plot of |dE| and dRMS against the
// iteration index to path. The image format follows the file extension
// (png, pdf, svg, ...).
func Convergence(history []scf.IterationRecord, path string) error {
	if len(history) == 0 {
		return fmt.Errorf("scfplot: empty history")
	}

	dE := make(plotter.XYs, len(history))
	dRMS := make(plotter.XYs, len(history))
	for i, rec := range history {
		dE[i].X = float64(rec.Iter)
		dE[i].Y = math.Max(math.Abs(rec.DeltaE), logFloor)
		dRMS[i].X = float64(rec.Iter)
		dRMS[i].Y = math.Max(rec.DeltaRMS, logFloor)
	}

	p := plot.New()
	p.Title.Text = "SCF convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "delta (a.u.)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	lineE, err := plotter.NewLine(dE)
	if err != nil {
		return err
	}
	lineE.Color = color.RGBA{R: 196, A: 255}
	lineR, err := plotter.NewLine(dRMS)
	if err != nil {
		return err
	}
	lineR.Color = color.RGBA{B: 196, A: 255}

	p.Add(lineE, lineR)
	p.Legend.Add("|dE|", lineE)
	p.Legend.Add("dRMS", lineR)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
