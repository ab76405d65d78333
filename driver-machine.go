package hyperlab

import (
	"fmt"
	"strconv"
)

// GetMachine reports whether the named virtual machine exists.
// It does this by running the Cmdlet:
//
//	Get-VM -Name <machinename>
//
// through an interface script.
func (vd *Driver) GetMachine(machinename string) (bool, error) {
	if !vd.validate() {
		return false, vd
	}

	output, err := vd.runwithresults("getmachine", machinename)
	if err != nil {
		return false, fmt.Errorf("could not look up machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return false, fmt.Errorf("could not look up machine '%s': %v", machinename, output.ErrorMessage)
	}

	exists, ok := output.Payload["Exists"].(bool)
	if !ok {
		return false, fmt.Errorf("could not look up machine '%s': interface error", machinename)
	}

	return exists, nil
}

// CreateDisk creates a dynamically expanding VHDX at the given path.
// It does this by running the Cmdlet:
//
//	New-VHD -Path <diskpath> -SizeBytes <sizebytes> -Dynamic
//
// through an interface script.
func (vd *Driver) CreateDisk(diskpath string, sizebytes int64) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"newdisk",
		diskpath,
		strconv.FormatInt(sizebytes, 10),
	)
	if err != nil {
		return fmt.Errorf("could not create disk '%s': %v", diskpath, err)
	}

	if !output.Success {
		return fmt.Errorf("could not create disk '%s': %v", diskpath, output.ErrorMessage)
	}

	return nil
}

// CreateMachine creates a virtual machine attached to the given disk
// and switch. It does this by running the Cmdlet:
//
//	New-VM -Name <machinename> -Path <machinepath> -VHDPath <diskpath>
//	       -SwitchName <switchname> -Generation <generation>
//	       -MemoryStartupBytes <startupbytes>
//
// through an interface script. Memory policy, processor count, firmware
// and integration services are applied separately.
func (vd *Driver) CreateMachine(machinename string, machinepath string, diskpath string, switchname string, generation int, startupbytes int64) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"newmachine",
		machinename,
		machinepath,
		diskpath,
		switchname,
		strconv.Itoa(generation),
		strconv.FormatInt(startupbytes, 10),
	)
	if err != nil {
		return fmt.Errorf("could not create machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not create machine '%s': %v", machinename, output.ErrorMessage)
	}

	return nil
}

// SetProcessorCount sets the virtual processor count of a machine.
// It does this by running the Cmdlet:
//
//	Set-VM -Name <machinename> -ProcessorCount <count>
//
// through an interface script.
func (vd *Driver) SetProcessorCount(machinename string, count int) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"setprocessors",
		machinename,
		strconv.Itoa(count),
	)
	if err != nil {
		return fmt.Errorf("could not set processors on machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not set processors on machine '%s': %v", machinename, output.ErrorMessage)
	}

	return nil
}

// SetDynamicMemory enables dynamic memory on a machine with the given
// floor and ceiling. It does this by running the Cmdlet:
//
//	Set-VMMemory -VMName <machinename> -DynamicMemoryEnabled $true
//	             -MinimumBytes <minbytes> -MaximumBytes <maxbytes>
//
// through an interface script.
func (vd *Driver) SetDynamicMemory(machinename string, minbytes int64, maxbytes int64) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"setmemory",
		machinename,
		strconv.FormatInt(minbytes, 10),
		strconv.FormatInt(maxbytes, 10),
	)
	if err != nil {
		return fmt.Errorf("could not set memory on machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not set memory on machine '%s': %v", machinename, output.ErrorMessage)
	}

	return nil
}

// SetSecureBoot enables secure boot on a generation 2 machine with the
// given template. It does this by running the Cmdlet:
//
//	Set-VMFirmware -VMName <machinename> -EnableSecureBoot On
//	               -SecureBootTemplate <template>
//
// through an interface script.
func (vd *Driver) SetSecureBoot(machinename string, template string) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"setfirmware",
		machinename,
		template,
	)
	if err != nil {
		return fmt.Errorf("could not set firmware on machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not set firmware on machine '%s': %v", machinename, output.ErrorMessage)
	}

	return nil
}

// AttachInstallerImage adds a DVD drive backed by the given image and
// makes it the first boot device. It does this by running the Cmdlets:
//
//	Add-VMDvdDrive -VMName <machinename> -Path <imagepath>
//	Set-VMFirmware -VMName <machinename> -FirstBootDevice <dvddrive>
//
// through an interface script.
func (vd *Driver) AttachInstallerImage(machinename string, imagepath string) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"attachimage",
		machinename,
		imagepath,
	)
	if err != nil {
		return fmt.Errorf("could not attach image to machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not attach image to machine '%s': %v", machinename, output.ErrorMessage)
	}

	return nil
}

// EnableIntegrationService enables the named integration service on a
// machine. It does this by running the Cmdlet:
//
//	Enable-VMIntegrationService -VMName <machinename> -Name <servicename>
//
// through an interface script.
func (vd *Driver) EnableIntegrationService(machinename string, servicename string) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults(
		"enableservice",
		machinename,
		servicename,
	)
	if err != nil {
		return fmt.Errorf("could not enable service '%s' on machine '%s': %v", servicename, machinename, err)
	}

	if !output.Success {
		return fmt.Errorf("could not enable service '%s' on machine '%s': %v", servicename, machinename, output.ErrorMessage)
	}

	return nil
}

// MachineState returns the current power state of a machine, as
// reported by the Cmdlet:
//
//	Get-VM -Name <machinename>
//
// through an interface script. A machine that does not exist is
// reported as MachineStateAbsent, not as an error.
func (vd *Driver) MachineState(machinename string) (MachineState, error) {
	if !vd.validate() {
		return MachineStateAbsent, vd
	}

	output, err := vd.runwithresults("machinestate", machinename)
	if err != nil {
		return MachineStateAbsent, fmt.Errorf("could not get state of machine '%s': %v", machinename, err)
	}

	if !output.Success {
		return MachineStateAbsent, fmt.Errorf("could not get state of machine '%s': %v", machinename, output.ErrorMessage)
	}

	exists, ok := output.Payload["Exists"].(bool)
	if !ok {
		return MachineStateAbsent, fmt.Errorf("could not get state of machine '%s': interface error", machinename)
	}
	if !exists {
		return MachineStateAbsent, nil
	}

	state, ok := output.Payload["State"].(string)
	if !ok {
		return MachineStateAbsent, fmt.Errorf("could not get state of machine '%s': interface error", machinename)
	}

	switch state {
	case "Off":
		return MachineStateOff, nil
	case "Running":
		return MachineStateRunning, nil
	default:
		return MachineStateUnknown, nil
	}
}
