// Package cmd implements the tcdetect command-line interface.
package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/tcdetect/tcdetect"
)

var (
	configFile string

	// Config holds the configuration decoded from configFile by
	// PersistentPreRunE, available to every subcommand's RunE.
	Config tcdetect.Configuration

	// Log is the package-wide logger used by every subcommand.
	Log = logrus.StandardLogger()
)

// RootCmd is the tcdetect command tree's entry point.
var RootCmd = &cobra.Command{
	Use:   "tcdetect",
	Short: "A tropical-cyclone detection engine for gridded atmospheric data.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		return loadConfig(configFile)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "./tcdetect.toml", "configuration file location")
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(runCmd)
}

// loadConfig starts Config from the defaults, decodes path over them
// (any field the file sets replaces its default), and validates the
// result. No environment-variable expansion is done.
func loadConfig(path string) error {
	Config = tcdetect.DefaultConfiguration()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return &tcdetect.IOError{Op: "open configuration file " + path, Err: err}
	}

	if _, err := toml.Decode(string(b), &Config); err != nil {
		return &tcdetect.ConfigError{Field: path, Message: err.Error()}
	}

	return Config.Validate()
}

// Version is the tcdetect release version, set at build time with
// -ldflags "-X github.com/spatialmodel/tcdetect/cmd/tcdetect/cmd.Version=...".
var Version = "development"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tcdetect version number",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("tcdetect v%s\n", Version)
		return nil
	},
}
