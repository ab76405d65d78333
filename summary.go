package hyperlab

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/fatih/color"
)

// WriteSummary writes a human-readable report of the run: the
// configured parameters, then one line per machine with its outcome and
// power state. The output is for people, not for parsing.
func WriteSummary(w io.Writer, config *LabConfig, results []MachineResult) {
	fmt.Fprintln(w, "Lab configuration:")
	fmt.Fprintf(w, "  Switch:      %s\n", config.SwitchName)
	fmt.Fprintf(w, "  Machines:    %d (%s)\n", len(config.MachineNames), strings.Join(config.MachineNames, ", "))
	fmt.Fprintf(w, "  Memory:      %s (dynamic, floor %s)\n",
		units.BytesSize(float64(config.MemoryBytes)),
		units.BytesSize(float64(dynamicMemoryFloor)),
	)
	fmt.Fprintf(w, "  Processors:  %d\n", config.ProcessorCount)
	fmt.Fprintf(w, "  Disk:        %s\n", units.BytesSize(float64(config.DiskSizeBytes)))
	fmt.Fprintf(w, "  Generation:  %d\n", config.Generation)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOUTCOME\tSTATE")
	for _, result := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			result.Name,
			outcomeText(result),
			stateText(result.State),
		)
	}
	tw.Flush()
}

func outcomeText(result MachineResult) string {
	switch result.Outcome {
	case OutcomeCreated:
		return color.GreenString("created")
	case OutcomeSkipped:
		return color.YellowString("skipped (already exists)")
	case OutcomeFailed:
		return color.RedString("failed: %v", result.Err)
	default:
		return string(result.Outcome)
	}
}

func stateText(state MachineState) string {
	if state == MachineStateAbsent {
		return "-"
	}
	return string(state)
}
