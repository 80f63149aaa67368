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
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gosrhd",
	Short: "Special relativistic hydrodynamics on structured grids",
	Long: `
Finite volume solver for the special relativistic Euler equations of an
ideal gas, in planar or spherical coordinates, in one or two dimensions.

Problems are described by a YAML input deck, for example

gosrhd 1D -I shocktube.yaml --checkpoint run.db`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		level := slog.LevelWarn
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
		default:
			err = fmt.Errorf("unknown profile mode %q, must be one of [cpu, mem]", mode)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gosrhd.yaml)")
	rootCmd.PersistentFlags().String("checkpoint", "", "SQLite file receiving checkpoints, none when empty")
	rootCmd.PersistentFlags().String("run", "", "run label of the checkpoints, the deck title when empty")
	rootCmd.PersistentFlags().Int("procLimit", 0, "maximum number of parallel workers, zero for all cores")
	rootCmd.PersistentFlags().String("profile", "", "write a pprof profile to the working directory: cpu or mem")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging to stderr")
	for _, name := range []string{"checkpoint", "run", "procLimit", "profile", "verbose"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gosrhd" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gosrhd")
	}

	viper.SetEnvPrefix("GOSRHD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
