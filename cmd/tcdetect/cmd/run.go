package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spatialmodel/tcdetect/tcdetect"
)

var (
	inputFile     string
	outputFile    string
	relaxMaskFile string
)

func init() {
	runCmd.Flags().StringVar(&inputFile, "input", "", "NetCDF file containing the gridded fields to scan")
	runCmd.Flags().StringVar(&outputFile, "output", "detections.txt", "path to write the detection lines to")
	runCmd.Flags().StringVar(&relaxMaskFile, "relax-mask", "", "path to a persisted relaxation mask from a prior run (optional)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan a NetCDF file for tropical-cyclone detections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	reader, err := tcdetect.OpenNetCDF(inputFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	engine, err := tcdetect.NewEngine(Config, reader, Log)
	if err != nil {
		return err
	}

	var relax *tcdetect.RelaxMask
	if relaxMaskFile != "" {
		relax, err = tcdetect.LoadRelaxMask(relaxMaskFile)
		if err != nil {
			return err
		}
	}
	if relax == nil {
		relax = tcdetect.NewRelaxMask(engine.Grid.Nlon, engine.Grid.Nlat)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return &tcdetect.IOError{Op: "create output file " + outputFile, Err: err}
	}
	defer out.Close()

	final, err := engine.Run(relax, out)
	if err != nil {
		return err
	}

	if relaxMaskFile != "" {
		if err := tcdetect.SaveRelaxMask(relaxMaskFile, final); err != nil {
			return err
		}
	}

	Log.Infof("tcdetect: finished writing detections to %s", outputFile)
	return nil
}
