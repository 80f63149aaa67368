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
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gosrhd/checkpoint"
)

// CheckpointsCmd lists the snapshots stored in a checkpoint file
var CheckpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "List the snapshots in a checkpoint file",
	Long: `
Lists the stored snapshots of every run, or of the run named with --run,

gosrhd checkpoints --checkpoint blast.db`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		path := viper.GetString("checkpoint")
		if path == "" {
			return fmt.Errorf("must supply a checkpoint file (--checkpoint)")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return listCheckpoints(ctx, path, viper.GetString("run"), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(CheckpointsCmd)
}

func listCheckpoints(ctx context.Context, path, run string, out io.Writer) (err error) {
	var (
		store   *checkpoint.Store
		entries []checkpoint.Entry
	)
	if store, err = checkpoint.Open(path, slog.Default()); err != nil {
		return
	}
	defer store.Close()
	if entries, err = store.List(ctx, run); err != nil {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRUN\tSTEP\tTIME\tCELLS\tCREATED")
	for _, e := range entries {
		cells := fmt.Sprintf("%d", e.N[0])
		if e.Dims == 2 {
			cells = fmt.Sprintf("%dx%d", e.N[0], e.N[1])
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.6g\t%s\t%s\n",
			e.ID, e.Run, e.Step, e.Time, cells, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
