// Command hyperv-lab provisions the fixed lab environment: one
// internal switch and three generation 2 virtual machines.
//
// Exit status is 0 when every machine was created or already existed,
// 1 when the run stopped on a fatal error, and 2 when the run completed
// but one or more machines failed to provision.
package main

import (
	"fmt"
	"os"

	"github.com/kuttiproject/kuttilog"

	hyperlab "github.com/vmlab/hyperv-lab"
)

func main() {
	kuttilog.SetLogLevel(kuttilog.Info)

	config := hyperlab.DefaultConfig()
	provisioner := hyperlab.NewProvisioner(hyperlab.NewDriver(), config)

	results, err := provisioner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hyperlab.WriteSummary(os.Stdout, config, results)

	if hyperlab.AnyFailed(results) {
		os.Exit(2)
	}
}
