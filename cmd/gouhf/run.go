// run.go --  This file is part of goUHF project.
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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gouhf/integrals"
	"gouhf/scf"
	"gouhf/scfplot"
)

// Job is the YAML job file.
type Job struct {
	Integrals      string  `yaml:"integrals"`
	NAlpha         int     `yaml:"nalpha"`
	NBeta          int     `yaml:"nbeta"`
	ETol           float64 `yaml:"energy_tolerance"`
	DTol           float64 `yaml:"density_tolerance"`
	MaxIterations  int     `yaml:"max_iterations"`
	DIISDepth      int     `yaml:"diis_depth"`
	MemoryBudgetGB float64 `yaml:"memory_budget_gb"`
	NProcs         int     `yaml:"nprocs"`
	Output         string  `yaml:"output"`
	Plot           string  `yaml:"plot"`
}

func defaultJob() Job {
	return Job{
		ETol:           1e-6,
		DTol:           1e-3,
		MaxIterations:  50,
		DIISDepth:      8,
		MemoryBudgetGB: 2,
	}
}

// runResult is the JSON document written next to the output file; the plot
// subcommand reads it back.
type runResult struct {
	Converged  bool                  `json:"converged"`
	Energy     float64               `json:"energy"`
	Iterations int                   `json:"iterations"`
	History    []scf.IterationRecord `json:"history"`
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "run an SCF job described by a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
}

func runJob(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	job := defaultJob()
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if job.Integrals == "" {
		return fmt.Errorf("job file %s names no integrals file", args[0])
	}
	if job.NProcs > 0 {
		runtime.GOMAXPROCS(job.NProcs)
	}

	stem := job.Output
	if stem == "" {
		stem = strings.TrimSuffix(args[0], ".yaml")
	}
	outName := stem + ".out"
	if err := initLog(outName); err != nil {
		return err
	}
	fmt.Println("Output file: ", outName)
	InfoLogger.Println("Starting goUHF...")

	budget := int64(job.MemoryBudgetGB * 1024 * 1024 * 1024)
	set, err := integrals.ReadFile(job.Integrals, budget)
	if err != nil {
		ErrorLogger.Println("Cannot load integral set: ", err)
		return err
	}
	OutputLogger.Println("Loaded integral set ", job.Integrals, ": ", set.N, " basis functions.")

	solver, err := scf.New(set, scf.Config{
		NAlpha:        job.NAlpha,
		NBeta:         job.NBeta,
		ETol:          job.ETol,
		DTol:          job.DTol,
		MaxIterations: job.MaxIterations,
		DIISDepth:     job.DIISDepth,
		Logger:        OutputLogger,
	})
	if err != nil {
		ErrorLogger.Println("Setup failed: ", err)
		return err
	}

	res, err := solver.Run()
	if err != nil {
		var conv *scf.ConvergenceError
		if errors.As(err, &conv) {
			ErrorLogger.Println(err)
			fmt.Println("Warning! SCF NOT converged after step ", conv.Steps)
		} else {
			ErrorLogger.Println("SCF aborted: ", err)
		}
		return err
	}

	OutputLogger.Println("Nuclei Repulsion Energy: ", set.Enuc, " a.u.")
	OutputLogger.Println("Final total energy = ", res.Energy, " a.u.")
	fmt.Println("Nuc energy = ", set.Enuc, " a.u.")
	fmt.Println("Final total energy = ", res.Energy, " a.u.")

	doc := runResult{Converged: true, Energy: res.Energy, Iterations: res.Iterations, History: res.History}
	blob, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(stem+".json", blob, 0644); err != nil {
		return err
	}

	if job.Plot != "" {
		if err := scfplot.Convergence(res.History, job.Plot); err != nil {
			WarningLogger.Println("Cannot write convergence plot: ", err)
		}
	}

	InfoLogger.Println("Exiting goUHF...")
	fmt.Println("goUHF done.")
	return nil
}
