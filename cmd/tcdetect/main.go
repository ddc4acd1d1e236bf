// Command tcdetect is a command-line interface to the tcdetect
// tropical-cyclone detection engine.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/tcdetect/cmd/tcdetect/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
