package hyperlab

import (
	"path/filepath"

	"github.com/docker/go-units"
)

// dynamicMemoryFloor is the fixed minimum for dynamic memory on every
// machine, independent of the configured startup/ceiling size.
var dynamicMemoryFloor = rambytes("2GiB")

// LabConfig holds the parameters for one provisioning run. It is
// constructed once, before provisioning starts, and never modified
// afterwards.
type LabConfig struct {
	SwitchName     string
	MachineNames   []string
	MachinePath    string
	DiskPath       string
	InstallerImage string
	MemoryBytes    int64
	ProcessorCount int
	DiskSizeBytes  int64
	Generation     int
}

// DefaultConfig returns the fixed lab parameters: one internal switch
// and three generation 2 machines.
func DefaultConfig() *LabConfig {
	return &LabConfig{
		SwitchName:     "LabSwitch",
		MachineNames:   []string{"LabVM1", "LabVM2", "LabVM3"},
		MachinePath:    `C:\VMLab\Machines`,
		DiskPath:       `C:\VMLab\Disks`,
		InstallerImage: `C:\VMLab\ISO\install-media.iso`,
		MemoryBytes:    rambytes("4GiB"),
		ProcessorCount: 2,
		DiskSizeBytes:  rambytes("60GiB"),
		Generation:     2,
	}
}

// DiskFilePath returns the path of the VHDX backing the named machine.
func (lc *LabConfig) DiskFilePath(machinename string) string {
	return filepath.Join(lc.DiskPath, machinename+".vhdx")
}

func rambytes(size string) int64 {
	result, err := units.RAMInBytes(size)
	if err != nil {
		panic("invalid size constant '" + size + "': " + err.Error())
	}
	return result
}
