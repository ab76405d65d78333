package hyperlab

const (
	driverName        = "hyperv"
	driverDescription = "Hyper-V lab provisioning driver"
)

// Driver implements the Hypervisor interface using the Hyper-V
// PowerShell module, via an interface script.
type Driver struct {
	powershellpath string
	scriptpath     string
	validated      bool
	status         string
	errormessage   string
}

// NewDriver returns a Driver. The driver locates PowerShell and checks
// the Hyper-V capability lazily, on first use; construction never
// touches the host.
func NewDriver() *Driver {
	return &Driver{}
}

// Name returns "hyperv"
func (vd *Driver) Name() string {
	return driverName
}

// Description returns "Hyper-V lab provisioning driver"
func (vd *Driver) Description() string {
	return driverDescription
}

func (vd *Driver) validate() bool {
	if vd.validated {
		return true
	}

	// find PowerShell
	pspath, err := findPowerShell()
	if err != nil {
		vd.status = "Error"
		vd.errormessage = err.Error()
		return false
	}
	vd.powershellpath = pspath

	// Find interface script
	scriptpath, err := findScript()
	if err != nil {
		vd.status = "Error"
		vd.errormessage = err.Error()
		return false
	}
	vd.scriptpath = scriptpath

	// Check the Hyper-V PowerShell module is present
	driverstatus, err := vd.runwithresults("checkdriver")
	if err != nil {
		vd.status = "Error"
		vd.errormessage = err.Error()
		return false
	}

	if !driverstatus.Success {
		vd.status = "Error"
		vd.errormessage = driverstatus.ErrorMessage
		return false
	}

	vd.status = "Ready"
	vd.validated = true
	return true
}

// Status returns current driver status
func (vd *Driver) Status() string {
	vd.validate()
	return vd.status
}

func (vd *Driver) Error() string {
	vd.validate()
	return vd.errormessage
}

// CheckAvailable reports whether Hyper-V management is available on
// this host. It checks for PowerShell and the Hyper-V PowerShell
// module.
func (vd *Driver) CheckAvailable() error {
	if !vd.validate() {
		return vd
	}
	return nil
}
