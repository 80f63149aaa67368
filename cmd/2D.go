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
	"github.com/spf13/cobra"
)

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional x-y or r-theta problems",
	Long: `
Solves a two dimensional problem from an input deck on a Cartesian x-y grid or
a spherical r-theta grid. The preview plots the density along x1 through the
middle row.

gosrhd 2D -I blast2d.yaml --checkpoint blast.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModel(cmd, 2)
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	addModelFlags(TwoDCmd)
}
