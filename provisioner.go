package hyperlab

import (
	"fmt"
	"os"

	"github.com/kuttiproject/kuttilog"
)

// Outcome is the result of provisioning one machine.
type Outcome string

// Per-machine outcomes.
const (
	// OutcomeCreated means the machine and its disk were created in
	// this run.
	OutcomeCreated = Outcome("Created")
	// OutcomeSkipped means a machine with this name already existed
	// and was left untouched.
	OutcomeSkipped = Outcome("Skipped")
	// OutcomeFailed means creation or configuration failed; Err holds
	// the originating error.
	OutcomeFailed = Outcome("Failed")
)

// MachineResult records what happened to one configured machine name
// during a provisioning run.
type MachineResult struct {
	Name    string
	Outcome Outcome
	State   MachineState
	Err     error
}

// AnyFailed reports whether any result in the run failed.
func AnyFailed(results []MachineResult) bool {
	for _, result := range results {
		if result.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Provisioner ensures the configured switch and machines exist on the
// host. It performs no lifecycle management: existing objects are never
// modified, started or deleted.
type Provisioner struct {
	host   Hypervisor
	config *LabConfig
}

// NewProvisioner returns a Provisioner that runs against the given
// host with the given configuration.
func NewProvisioner(host Hypervisor, config *LabConfig) *Provisioner {
	return &Provisioner{
		host:   host,
		config: config,
	}
}

// Run performs one provisioning pass: capability check, directory and
// switch ensure, then one create-if-absent pass per configured machine
// name, in order.
//
// A non-nil error means the run stopped before the per-machine loop
// (missing capability, directory creation failure, or switch lookup or
// creation failure). Per-machine failures do not stop the run; they are
// recorded in the returned results, one per configured name, in
// configured order.
func (p *Provisioner) Run() ([]MachineResult, error) {
	if err := p.host.CheckAvailable(); err != nil {
		return nil, fmt.Errorf("virtualization support not available: %v", err)
	}

	if err := ensureDirectory(p.config.MachinePath); err != nil {
		return nil, err
	}
	if err := ensureDirectory(p.config.DiskPath); err != nil {
		return nil, err
	}

	imageavailable := InstallerImagePresent(p.config.InstallerImage)
	if !imageavailable {
		kuttilog.Printf(
			kuttilog.Info,
			"Warning: installer image '%s' not found. Machines will be created without installation media.",
			p.config.InstallerImage,
		)
	}

	if err := p.ensureSwitch(); err != nil {
		return nil, err
	}

	results := make([]MachineResult, 0, len(p.config.MachineNames))
	for _, machinename := range p.config.MachineNames {
		result := p.ensureMachine(machinename, imageavailable)

		state, err := p.host.MachineState(machinename)
		if err != nil {
			kuttilog.Printf(kuttilog.Info, "Warning: could not get state of machine '%s': %v", machinename, err)
			state = MachineStateUnknown
		}
		result.State = state

		results = append(results, result)
	}

	return results, nil
}

func ensureDirectory(dirpath string) error {
	if _, err := os.Stat(dirpath); err == nil {
		kuttilog.Printf(kuttilog.Debug, "Directory '%s' already exists.", dirpath)
		return nil
	}

	if err := os.MkdirAll(dirpath, 0755); err != nil {
		return fmt.Errorf("could not create directory '%s': %v", dirpath, err)
	}

	kuttilog.Printf(kuttilog.Info, "Created directory '%s'.", dirpath)
	return nil
}

func (p *Provisioner) ensureSwitch() error {
	exists, err := p.host.GetSwitch(p.config.SwitchName)
	if err != nil {
		return err
	}

	if exists {
		kuttilog.Printf(kuttilog.Info, "Switch '%s' already exists.", p.config.SwitchName)
		return nil
	}

	kuttilog.Printf(kuttilog.Info, "Creating switch '%s'...", p.config.SwitchName)
	if err := p.host.CreateSwitch(p.config.SwitchName); err != nil {
		return err
	}
	kuttilog.Printf(kuttilog.Info, "Switch '%s' created.", p.config.SwitchName)

	return nil
}

func (p *Provisioner) ensureMachine(machinename string, imageavailable bool) MachineResult {
	exists, err := p.host.GetMachine(machinename)
	if err != nil {
		kuttilog.Printf(kuttilog.Info, "Error: could not provision machine '%s': %v", machinename, err)
		return MachineResult{Name: machinename, Outcome: OutcomeFailed, Err: err}
	}

	if exists {
		kuttilog.Printf(kuttilog.Info, "Machine '%s' already exists. Skipped.", machinename)
		return MachineResult{Name: machinename, Outcome: OutcomeSkipped}
	}

	if err := p.createMachine(machinename, imageavailable); err != nil {
		kuttilog.Printf(kuttilog.Info, "Error: could not provision machine '%s': %v", machinename, err)
		return MachineResult{Name: machinename, Outcome: OutcomeFailed, Err: err}
	}

	kuttilog.Printf(kuttilog.Info, "Machine '%s' created.", machinename)
	return MachineResult{Name: machinename, Outcome: OutcomeCreated}
}

// createMachine creates the disk and machine together, then applies
// processor, memory, firmware and integration service configuration.
func (p *Provisioner) createMachine(machinename string, imageavailable bool) error {
	diskpath := p.config.DiskFilePath(machinename)

	kuttilog.Printf(kuttilog.Debug, "Creating disk '%s'...", diskpath)
	if err := p.host.CreateDisk(diskpath, p.config.DiskSizeBytes); err != nil {
		return err
	}

	kuttilog.Printf(kuttilog.Debug, "Creating machine '%s'...", machinename)
	err := p.host.CreateMachine(
		machinename,
		p.config.MachinePath,
		diskpath,
		p.config.SwitchName,
		p.config.Generation,
		p.config.MemoryBytes,
	)
	if err != nil {
		return err
	}

	if err := p.host.SetProcessorCount(machinename, p.config.ProcessorCount); err != nil {
		return err
	}

	if err := p.host.SetDynamicMemory(machinename, dynamicMemoryFloor, p.config.MemoryBytes); err != nil {
		return err
	}

	if p.config.Generation == 2 {
		if err := p.host.SetSecureBoot(machinename, SecureBootTemplateWindows); err != nil {
			return err
		}

		// The installation media is only needed for first boot. When
		// it is missing the machine is still created, without a DVD
		// drive and with the boot order unchanged.
		if imageavailable {
			if err := p.host.AttachInstallerImage(machinename, p.config.InstallerImage); err != nil {
				return err
			}
		}
	}

	for _, servicename := range IntegrationServices {
		if err := p.host.EnableIntegrationService(machinename, servicename); err != nil {
			return err
		}
	}

	return nil
}
