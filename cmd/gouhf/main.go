// main.go --  This file is part of goUHF project.
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
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"gouhf/scfplot"
)

var (
	InfoLogger    *log.Logger
	WarningLogger *log.Logger
	ErrorLogger   *log.Logger
	OutputLogger  *log.Logger
)

// initLog wires the named loggers to the job's output file, appending.
func initLog(fname string) error {
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:           "gouhf",
		Short:         "unrestricted Hartree-Fock SCF solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(), plotCommand())
	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func plotCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot <result.json>",
		Short: "render the convergence history of a finished run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var res runResult
			if err := json.Unmarshal(raw, &res); err != nil {
				return err
			}
			return scfplot.Convergence(res.History, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "convergence.png", "figure file to write")
	return cmd
}
