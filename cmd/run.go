/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gosrhd/InputParameters"
	"github.com/notargets/gosrhd/checkpoint"
	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/model_problems/SRHD"
	"github.com/notargets/gosrhd/shock_tube"
	"github.com/notargets/gosrhd/types"
)

// Model holds the command line options shared by the 1D and 2D commands
type Model struct {
	Dims           int
	ICFile         string
	CheckpointFile string
	Run            string
	Restart        bool
	Preview        bool
	CFL            float64 // Overrides the deck when positive
	FinalTime      float64 // Overrides the deck when positive
	ProcLimit      int
}

const exampleDeck = `
########################################
Title: "Marti Muller Problem 1"
Dimensions: 1
N1: 400
X1Min: 0
X1Max: 1
Gamma: 1.6666666666666667
CFL: 0.4
FinalTime: 0.4
Order: 2
FluxType: hllc
InitType: riemann # Can be "blastwave" or "uniform"
Left:
  Rho: 10
  P: 13.333333333333334
Right:
  Rho: 1
  P: 1.e-6
########################################
`

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input deck describing the grid, the scheme and the initial state")
	cmd.Flags().Bool("restart", false, "continue from the latest checkpoint of the run")
	cmd.Flags().BoolP("preview", "p", false, "plot the final density to the terminal")
	cmd.Flags().Float64("CFL", 0, "CFL, overrides the input deck when positive")
	cmd.Flags().Float64("finalTime", 0, "FinalTime, overrides the input deck when positive")
}

func modelFromFlags(cmd *cobra.Command, dims int) (m *Model) {
	m = &Model{
		Dims:           dims,
		CheckpointFile: viper.GetString("checkpoint"),
		Run:            viper.GetString("run"),
		ProcLimit:      viper.GetInt("procLimit"),
	}
	m.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
	m.Restart, _ = cmd.Flags().GetBool("restart")
	m.Preview, _ = cmd.Flags().GetBool("preview")
	m.CFL, _ = cmd.Flags().GetFloat64("CFL")
	m.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
	return
}

func runModel(cmd *cobra.Command, dims int) error {
	m := modelFromFlags(cmd, dims)
	if len(m.ICFile) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Example File:%s\n", exampleDeck)
		return fmt.Errorf("must supply an input deck (-I, --inputConditionsFile) in YAML format")
	}
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	_, err := RunModel(ctx, m, cmd.OutOrStdout())
	return err
}

// signalContext is cancelled by an interrupt, the solver then stops after the
// current step and writes a final checkpoint
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func (m *Model) readInput() (ip *InputParameters.InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(m.ICFile); err != nil {
		return
	}
	ip = InputParameters.NewInputParameters()
	ip.Dimensions = m.Dims
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", m.ICFile, err)
	}
	if ip.Dimensions != m.Dims {
		return nil, fmt.Errorf("input deck %s is %dD, the %dD command can not run it", m.ICFile, ip.Dimensions, m.Dims)
	}
	if m.CFL > 0 {
		ip.CFL = m.CFL
	}
	if m.FinalTime > 0 {
		ip.FinalTime = m.FinalTime
	}
	if m.ProcLimit > 0 {
		ip.ProcLimit = m.ProcLimit
	}
	if m.Run == "" {
		m.Run = ip.Title
	}
	return
}

/*
RunModel solves the problem in the model's input deck, writing checkpoints
to the model's SQLite file when one is named. With Restart the latest
checkpoint of the run replaces the initial state of the deck.
*/
func RunModel(ctx context.Context, m *Model, out io.Writer) (c *SRHD.SRHD, err error) {
	var (
		ip    *InputParameters.InputParameters
		store *checkpoint.Store
		cfg   SRHD.Config
		grid  *mesh.Grid
		prim  [4][]float64

		restartStep int
	)
	if ip, err = m.readInput(); err != nil {
		return
	}
	ip.Print(out)
	if cfg, grid, prim, err = ip.Resolve(); err != nil {
		return
	}
	if m.CheckpointFile != "" {
		if store, err = checkpoint.Open(m.CheckpointFile, slog.Default()); err != nil {
			return
		}
		defer store.Close()
		if m.Run != "" {
			store.Run = m.Run
		}
	}
	if m.Restart {
		if store == nil {
			return nil, fmt.Errorf("restart needs a checkpoint file (--checkpoint)")
		}
		var snap *SRHD.Snapshot
		if snap, err = store.Latest(ctx); err != nil {
			return
		}
		if snap.Dims != grid.Dims || snap.N != grid.N || snap.Geometry != grid.Geometry ||
			snap.Spacing != grid.Spacing || snap.Min != grid.Min || snap.Max != grid.Max {
			return nil, fmt.Errorf("checkpoint at t = %g is a %dD %s grid of %v cells on %v to %v (%v), the deck describes %s",
				snap.Time, snap.Dims, snap.Geometry, snap.N, snap.Min, snap.Max, snap.Spacing, grid)
		}
		if snap.Gamma != cfg.Gamma {
			return nil, fmt.Errorf("checkpoint at t = %g has gamma = %g, the deck has %g", snap.Time, snap.Gamma, cfg.Gamma)
		}
		if prim, err = snap.Primitive(); err != nil {
			return
		}
		cfg.StartTime, restartStep = snap.Time, snap.Step
		if cfg.StartTime >= cfg.FinalTime {
			return nil, fmt.Errorf("run %q already reached t = %g", store.Run, snap.Time)
		}
		slog.Info("restarting", "run", store.Run, "step", snap.Step, "time", snap.Time)
	}
	if c, err = SRHD.NewSRHD(cfg, grid, prim); err != nil {
		return
	}
	if src, ok := ip.ResolveSources(grid); ok {
		if err = c.SetSources(src); err != nil {
			return
		}
	}
	if store != nil {
		c.Checkpointer = store
	}
	if m.Restart {
		c.Resume(restartStep)
	}
	if err = c.Solve(ctx, out); err != nil {
		var se *SRHD.StepError
		if errors.As(err, &se) {
			slog.Error("step failed", "step", se.Step, "time", se.Time, "err", se.Err)
		}
		return
	}
	if m.Preview {
		err = preview(out, c, ip)
	}
	return
}

// preview plots the active zone density along x1, through the middle row in
// 2D, with the exact solution for planar Riemann problems
func preview(out io.Writer, c *SRHD.SRHD, ip *InputParameters.InputParameters) (err error) {
	var snap *SRHD.Snapshot
	if snap, err = c.Snapshot(); err != nil {
		return
	}
	var (
		n1  = snap.N[0]
		row = snap.N[1] / 2
		rho = snap.Rho[row*n1 : (row+1)*n1]
	)
	series := [][]float64{rho}
	caption := fmt.Sprintf("density at t = %.4f", snap.Time)
	it, _ := types.ParseInitType(ip.InitType)
	if it == types.INIT_RIEMANN && snap.Geometry == types.Cartesian && c.Time > ip.StartTime &&
		ip.Left.V2 == 0 && ip.Right.V2 == 0 {
		x0 := 0.5 * (ip.X1Min + ip.X1Max)
		if ip.Interface != nil {
			x0 = *ip.Interface
		}
		var rs *shock_tube.RiemannSolution
		rs, err = shock_tube.NewRiemannSolution(
			shock_tube.State{Rho: ip.Left.Rho, V: ip.Left.V1, P: ip.Left.P},
			shock_tube.State{Rho: ip.Right.Rho, V: ip.Right.V1, P: ip.Right.P}, ip.Gamma)
		if err != nil {
			return
		}
		exact, _, _ := rs.Profile(c.Grid.X1, x0, c.Time-ip.StartTime)
		series = append(series, exact)
		caption += ", exact solution in blue"
		fmt.Fprintln(out, rs)
	}
	fmt.Fprintln(out, asciigraph.PlotMany(series,
		asciigraph.Height(15), asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Blue),
		asciigraph.Caption(caption)))
	return
}
