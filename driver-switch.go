package hyperlab

import (
	"fmt"
)

// GetSwitch reports whether the named virtual switch exists.
// It does this by running the Cmdlet:
//
//	Get-VMSwitch -Name <switchname>
//
// through an interface script.
func (vd *Driver) GetSwitch(switchname string) (bool, error) {
	if !vd.validate() {
		return false, vd
	}

	output, err := vd.runwithresults("getswitch", switchname)
	if err != nil {
		return false, fmt.Errorf("could not look up switch '%s': %v", switchname, err)
	}

	if !output.Success {
		return false, fmt.Errorf("could not look up switch '%s': %v", switchname, output.ErrorMessage)
	}

	exists, ok := output.Payload["Exists"].(bool)
	if !ok {
		return false, fmt.Errorf("could not look up switch '%s': interface error", switchname)
	}

	return exists, nil
}

// CreateSwitch creates an internal virtual switch with the given name.
// It does this by running the Cmdlet:
//
//	New-VMSwitch -Name <switchname> -SwitchType Internal
//
// through an interface script.
func (vd *Driver) CreateSwitch(switchname string) error {
	if !vd.validate() {
		return vd
	}

	output, err := vd.runwithresults("newswitch", switchname)
	if err != nil {
		return fmt.Errorf("could not create switch '%s': %v", switchname, err)
	}

	if !output.Success {
		return fmt.Errorf("could not create switch '%s': %v", switchname, output.ErrorMessage)
	}

	return nil
}
