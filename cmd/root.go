/*
Copyright © 2025 riad@rsworld.eu

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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"pidformatter/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pidformatter",
	Short: "Reshape campaign sheets into per-campaign product tabs with image links.",
	Long: `
**********************************************
*              PID FORMATTER                 *
**********************************************

This CLI reads a campaign sheet whose header repeats one block of product id
columns per hub, and writes one tab per campaign and asset with the hub rows
sorted by hub priority, plus an aggregate tab of every product id. Image URLs
are resolved from a product dump (MB_id, image_src).

Supported campaign inputs:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
- Google Sheet links (downloaded as CSV export)

Supported product dumps:
- CSV, Excel, SQLite database table
`,
	Example: `
  # Create configuration file
  pidformatter config create

  # Format a campaign sheet into a workbook, resolving images from a dump
  pidformatter format -i campaign.xlsx --dump products.csv -o formatted.xlsx

  # Format a Google Sheet into one CSV file per tab
  pidformatter format -i "https://docs.google.com/spreadsheets/d/<id>/edit" --dump products.db -o ./tabs

  # List tabs that would be produced
  pidformatter preview -i campaign.xlsx

  # Download product images of all tabs into a ZIP of thumbnails
  pidformatter images -i campaign.xlsx --dump products.csv -o images.zip
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.pidformatter.yaml, then ./.pidformatter.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pidformatter" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pidformatter")
	}

	viper.SetEnvPrefix("PIDFORMATTER")
	viper.AutomaticEnv() // read in environment variables that match

	// Defaults apply when no file is found.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: pidformatter config create")
	}
}
