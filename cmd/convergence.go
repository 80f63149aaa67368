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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gosrhd/InputParameters"
	"github.com/notargets/gosrhd/model_problems/SRHD"
	"github.com/notargets/gosrhd/shock_tube"
	"github.com/notargets/gosrhd/types"
)

// ConvergenceCmd runs a planar Riemann deck on successively doubled grids
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Convergence study of a 1D Riemann problem against the exact solution",
	Long: `
Runs a planar one dimensional Riemann problem deck with N1, 2*N1, 4*N1, ...
cells and reports the L1 error of density, velocity and pressure against the
exact solution along with the observed order of accuracy,

gosrhd convergence -I shocktube.yaml --levels 4 --csvFile study.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			m       = modelFromFlags(cmd, 1)
			levels  int
			csvFile string
			ip      *InputParameters.InputParameters
			cs      *ConvergenceStudy
		)
		levels, _ = cmd.Flags().GetInt("levels")
		csvFile, _ = cmd.Flags().GetString("csvFile")
		if len(m.ICFile) == 0 {
			return fmt.Errorf("must supply an input deck (-I, --inputConditionsFile) in YAML format")
		}
		if ip, err = m.readInput(); err != nil {
			return
		}
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		if cs, err = RunConvergenceStudy(ctx, ip, levels); err != nil {
			return
		}
		cs.Print(cmd.OutOrStdout())
		if csvFile != "" {
			var f *os.File
			if f, err = os.Create(csvFile); err != nil {
				return
			}
			defer f.Close()
			return cs.WriteCSV(f)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input deck of a planar 1D Riemann problem")
	ConvergenceCmd.Flags().Float64("CFL", 0, "CFL, overrides the input deck when positive")
	ConvergenceCmd.Flags().Float64("finalTime", 0, "FinalTime, overrides the input deck when positive")
	ConvergenceCmd.Flags().IntP("levels", "l", 4, "number of grids, each doubling the cells of the last")
	ConvergenceCmd.Flags().String("csvFile", "", "write the study to a CSV file")
}

type ConvergenceStudy struct {
	Title      string
	Order      int
	CFL        float64
	NumPTS     []int
	RhoL1, VL1 []float64
	PL1        []float64
}

func NewConvergenceStudy(title string, order int, CFL float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		Title: title,
		Order: order,
		CFL:   CFL,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, rhoL1, vL1, pL1 float64) {
	cs.NumPTS = append(cs.NumPTS, numPTS)
	cs.RhoL1 = append(cs.RhoL1, rhoL1)
	cs.VL1 = append(cs.VL1, vL1)
	cs.PL1 = append(cs.PL1, pL1)
}

// Orders returns the observed order of accuracy in density between each
// pair of successive grids
func (cs *ConvergenceStudy) Orders() (orders []float64) {
	for i := 1; i < len(cs.NumPTS); i++ {
		orders = append(orders, math.Log(cs.RhoL1[i-1]/cs.RhoL1[i])/
			math.Log(float64(cs.NumPTS[i])/float64(cs.NumPTS[i-1])))
	}
	return
}

func (cs *ConvergenceStudy) Print(out io.Writer) {
	fmt.Fprintf(out, "Title = %s, Order = %d, CFL = %5.2f\n", cs.Title, cs.Order, cs.CFL)
	fmt.Fprintf(out, "%8s%14s%14s%14s%8s\n", "N", "rho L1", "v L1", "p L1", "order")
	orders := cs.Orders()
	for i := range cs.NumPTS {
		fmt.Fprintf(out, "%8d%14.6e%14.6e%14.6e", cs.NumPTS[i], cs.RhoL1[i], cs.VL1[i], cs.PL1[i])
		if i > 0 {
			fmt.Fprintf(out, "%8.3f", orders[i-1])
		}
		fmt.Fprintln(out)
	}
}

func (cs *ConvergenceStudy) WriteCSV(w io.Writer) error {
	var (
		cw      = csv.NewWriter(w)
		f       = func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
		records = [][]string{{"title", "numPTS", "order", "CFL", "rhoL1", "vL1", "pL1"}}
	)
	for i, n := range cs.NumPTS {
		records = append(records, []string{cs.Title, strconv.Itoa(n), strconv.Itoa(cs.Order), f(cs.CFL),
			f(cs.RhoL1[i]), f(cs.VL1[i]), f(cs.PL1[i])})
	}
	return cw.WriteAll(records)
}

// RunConvergenceStudy solves the deck on levels grids, the first with the
// deck's N1 cells and each following one with twice the cells of the last
func RunConvergenceStudy(ctx context.Context, ip *InputParameters.InputParameters, levels int) (cs *ConvergenceStudy, err error) {
	var (
		it   types.InitType
		geom types.Geometry
		rs   *shock_tube.RiemannSolution
	)
	if it, err = types.ParseInitType(ip.InitType); err != nil {
		return
	}
	if geom, err = types.ParseGeometry(ip.Geometry); err != nil {
		return
	}
	if ip.Dimensions != 1 || it != types.INIT_RIEMANN || geom != types.Cartesian {
		return nil, fmt.Errorf("convergence studies need a planar 1D Riemann problem")
	}
	if levels < 2 {
		return nil, fmt.Errorf("a convergence study needs at least 2 levels, have %d", levels)
	}
	rs, err = shock_tube.NewRiemannSolution(
		shock_tube.State{Rho: ip.Left.Rho, V: ip.Left.V1, P: ip.Left.P},
		shock_tube.State{Rho: ip.Right.Rho, V: ip.Right.V1, P: ip.Right.P}, ip.Gamma)
	if err != nil {
		return
	}
	x0 := 0.5 * (ip.X1Min + ip.X1Max)
	if ip.Interface != nil {
		x0 = *ip.Interface
	}
	cs = NewConvergenceStudy(ip.Title, ip.Order, ip.CFL)
	deck := *ip
	for l := 0; l < levels; l++ {
		var (
			c    *SRHD.SRHD
			snap *SRHD.Snapshot
		)
		deck.N1 = ip.N1 << l
		cfg, grid, prim, err := deck.Resolve()
		if err != nil {
			return nil, err
		}
		if c, err = SRHD.NewSRHD(cfg, grid, prim); err != nil {
			return nil, err
		}
		if err = c.Solve(ctx, io.Discard); err != nil {
			return nil, err
		}
		if snap, err = c.Snapshot(); err != nil {
			return nil, err
		}
		var (
			rho, v, p = rs.Profile(grid.X1, x0, c.Time-deck.StartTime)
			n         = float64(grid.N[0])
		)
		cs.Add(grid.N[0], floats.Distance(snap.Rho, rho, 1)/n,
			floats.Distance(snap.V1, v, 1)/n, floats.Distance(snap.P, p, 1)/n)
	}
	return
}
